package registries

import (
	"context"
	"errors"
	"time"

	"github.com/Lelo88/inventario-api-golang/internal/items"
	"github.com/jackc/pgx/v5"
)

// DB es lo mínimo que el repositorio necesita del pool de pgx.
// Permite testear con fakes sin levantar PostgreSQL.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository accede a la tabla registries y coordina el stock de items.
//
// Invariante central: el stock de un item cuenta unidades disponibles para
// registrar. Crear un registro consume una unidad (stock - 1), eliminarlo la
// devuelve (stock + 1) y cambiar el item dueño transfiere una unidad entre
// ambos. Toda mutación que toca las dos tablas corre en una transacción con
// las filas de items bloqueadas (FOR UPDATE) y ajustes relativos
// (stock = stock ± 1), nunca sobrescrituras absolutas: así no hay
// lost updates entre requests concurrentes.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de registries.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const registryJoinColumns = `
	r.id, r.item_id, r.fecha_hora_ingreso, r.color, r.estado, r.precio::text, r.created_at, r.updated_at,
	i.id, i.marca, i.tipo, i.talla, i.stock, i.created_at, i.updated_at`

func scanRegistryWithItem(row pgx.Row) (Registry, error) {
	var registry Registry
	var item items.Item
	err := row.Scan(
		&registry.ID, &registry.ItemID, &registry.FechaHoraIngreso, &registry.Color,
		&registry.Estado, &registry.Precio, &registry.CreatedAt, &registry.UpdatedAt,
		&item.ID, &item.Marca, &item.Tipo, &item.Talla, &item.Stock, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return Registry{}, err
	}
	registry.Item = &item
	return registry, nil
}

const itemColumns = `id, marca, tipo, talla, stock, created_at, updated_at`

func scanItem(row pgx.Row) (items.Item, error) {
	var item items.Item
	err := row.Scan(&item.ID, &item.Marca, &item.Tipo, &item.Talla, &item.Stock, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

// List devuelve los registros más recientes primero, cada uno con su item.
// El filtro opcional por fecha compara solo el día calendario del ingreso.
func (repository *Repository) List(ctx context.Context, fecha *time.Time) ([]Registry, error) {
	query := `
		SELECT ` + registryJoinColumns + `
		FROM registries r
		JOIN items i ON i.id = r.item_id
		ORDER BY r.fecha_hora_ingreso DESC;
	`
	args := []any{}

	if fecha != nil {
		query = `
			SELECT ` + registryJoinColumns + `
			FROM registries r
			JOIN items i ON i.id = r.item_id
			WHERE r.fecha_hora_ingreso::date = $1::date
			ORDER BY r.fecha_hora_ingreso DESC;
		`
		args = append(args, *fecha)
	}

	rows, err := repository.database.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registryList := []Registry{}
	for rows.Next() {
		registry, err := scanRegistryWithItem(rows)
		if err != nil {
			return nil, err
		}
		registryList = append(registryList, registry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return registryList, nil
}

// GetByID obtiene un registro por id con su item cargado.
func (repository *Repository) GetByID(ctx context.Context, id string) (Registry, error) {
	const query = `
		SELECT ` + registryJoinColumns + `
		FROM registries r
		JOIN items i ON i.id = r.item_id
		WHERE r.id = $1;
	`

	registry, err := scanRegistryWithItem(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registry{}, ErrorNotFound
		}
		return Registry{}, err
	}

	return registry, nil
}

// Insert registra una prenda consumiendo una unidad de stock del item dueño.
// Todo o nada: si cualquier paso falla, ni el registro ni el stock cambian.
func (repository *Repository) Insert(ctx context.Context, input CreateRegistryInput) (Registry, error) {
	transaction, err := repository.database.Begin(ctx)
	if err != nil {
		return Registry{}, err
	}
	defer transaction.Rollback(ctx)

	// 1. Bloquear el item dueño y verificar disponibilidad.
	const lockItemQuery = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
		FOR UPDATE;
	`

	item, err := scanItem(transaction.QueryRow(ctx, lockItemQuery, input.ItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registry{}, ErrorItemNotFound
		}
		return Registry{}, err
	}
	if item.Stock <= 0 {
		return Registry{}, ErrorNoStock
	}

	// 2. Insertar el registro.
	const insertQuery = `
		INSERT INTO registries (item_id, fecha_hora_ingreso, color, estado, precio)
		VALUES ($1, $2, $3, $4, $5::numeric)
		RETURNING id, item_id, fecha_hora_ingreso, color, estado, precio::text, created_at, updated_at;
	`

	var registry Registry
	err = transaction.QueryRow(ctx, insertQuery, input.ItemID, input.FechaHoraIngreso, input.Color, input.Estado, input.Precio).
		Scan(&registry.ID, &registry.ItemID, &registry.FechaHoraIngreso, &registry.Color,
			&registry.Estado, &registry.Precio, &registry.CreatedAt, &registry.UpdatedAt)
	if err != nil {
		return Registry{}, err
	}

	// 3. Consumir una unidad disponible. Ajuste relativo, nunca sobrescritura.
	const consumeQuery = `
		UPDATE items
		SET stock = stock - 1, updated_at = now()
		WHERE id = $1
		RETURNING stock, updated_at;
	`
	if err := transaction.QueryRow(ctx, consumeQuery, input.ItemID).Scan(&item.Stock, &item.UpdatedAt); err != nil {
		return Registry{}, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return Registry{}, err
	}

	registry.Item = &item
	return registry, nil
}

// Delete elimina un registro devolviendo la unidad al stock del item dueño,
// en la misma transacción.
func (repository *Repository) Delete(ctx context.Context, id string) error {
	transaction, err := repository.database.Begin(ctx)
	if err != nil {
		return err
	}
	defer transaction.Rollback(ctx)

	// 1. Bloquear el registro para conocer a su dueño.
	const lockRegistryQuery = `
		SELECT item_id
		FROM registries
		WHERE id = $1
		FOR UPDATE;
	`

	var itemID string
	if err := transaction.QueryRow(ctx, lockRegistryQuery, id).Scan(&itemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrorNotFound
		}
		return err
	}

	// 2. Devolver la unidad al dueño. Con el cascade-guard el item siempre
	// debería existir, pero lo chequeamos igual.
	const returnQuery = `
		UPDATE items
		SET stock = stock + 1, updated_at = now()
		WHERE id = $1
		RETURNING id;
	`
	var returnedID string
	if err := transaction.QueryRow(ctx, returnQuery, itemID).Scan(&returnedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrorItemNotFound
		}
		return err
	}

	// 3. Eliminar el registro.
	const deleteQuery = `DELETE FROM registries WHERE id = $1;`
	if _, err := transaction.Exec(ctx, deleteQuery, id); err != nil {
		return err
	}

	return transaction.Commit(ctx)
}

// Update aplica un update parcial. Si cambia el item dueño, transfiere una
// unidad de stock: devuelve una al dueño anterior y consume una del nuevo.
// Un fallo en cualquier paso (por ejemplo, nuevo dueño sin stock) revierte
// todo: el dueño anterior no queda incrementado a medias.
func (repository *Repository) Update(ctx context.Context, id string, input UpdateRegistryInput) (Registry, error) {
	transaction, err := repository.database.Begin(ctx)
	if err != nil {
		return Registry{}, err
	}
	defer transaction.Rollback(ctx)

	// 1. Bloquear el registro y leer su estado actual.
	const lockRegistryQuery = `
		SELECT id, item_id, fecha_hora_ingreso, color, estado, precio::text, created_at, updated_at
		FROM registries
		WHERE id = $1
		FOR UPDATE;
	`

	var current Registry
	err = transaction.QueryRow(ctx, lockRegistryQuery, id).
		Scan(&current.ID, &current.ItemID, &current.FechaHoraIngreso, &current.Color,
			&current.Estado, &current.Precio, &current.CreatedAt, &current.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Registry{}, ErrorNotFound
		}
		return Registry{}, err
	}

	// Merge: solo los campos presentes reemplazan al valor actual.
	previousOwnerID := current.ItemID
	if input.ItemID != nil {
		current.ItemID = *input.ItemID
	}
	if input.FechaHoraIngreso != nil {
		current.FechaHoraIngreso = *input.FechaHoraIngreso
	}
	if input.Color != nil {
		current.Color = *input.Color
	}
	if input.Estado != nil {
		current.Estado = *input.Estado
	}
	if input.Precio != nil {
		current.Precio = *input.Precio
	}

	// 2. Transferencia de stock si cambió el dueño.
	if current.ItemID != previousOwnerID {
		if err := repository.transferStock(ctx, transaction, previousOwnerID, current.ItemID); err != nil {
			return Registry{}, err
		}
	}

	// 3. Reescribir el registro.
	const updateQuery = `
		UPDATE registries
		SET item_id = $2, fecha_hora_ingreso = $3, color = $4, estado = $5, precio = $6::numeric, updated_at = now()
		WHERE id = $1
		RETURNING id, item_id, fecha_hora_ingreso, color, estado, precio::text, created_at, updated_at;
	`

	var updated Registry
	err = transaction.QueryRow(ctx, updateQuery, id, current.ItemID, current.FechaHoraIngreso, current.Color, current.Estado, current.Precio).
		Scan(&updated.ID, &updated.ItemID, &updated.FechaHoraIngreso, &updated.Color,
			&updated.Estado, &updated.Precio, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		return Registry{}, err
	}

	// 4. Releer el dueño ya con el stock ajustado para la respuesta.
	const ownerQuery = `SELECT ` + itemColumns + ` FROM items WHERE id = $1;`
	owner, err := scanItem(transaction.QueryRow(ctx, ownerQuery, updated.ItemID))
	if err != nil {
		return Registry{}, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return Registry{}, err
	}

	updated.Item = &owner
	return updated, nil
}

// transferStock mueve una unidad disponible del nuevo dueño al anterior.
// Bloquea ambas filas en un solo SELECT ordenado por id para que dos
// transferencias cruzadas no puedan quedar en deadlock.
func (repository *Repository) transferStock(ctx context.Context, transaction pgx.Tx, previousOwnerID, newOwnerID string) error {
	const lockItemsQuery = `
		SELECT id, stock
		FROM items
		WHERE id IN ($1, $2)
		ORDER BY id
		FOR UPDATE;
	`

	rows, err := transaction.Query(ctx, lockItemsQuery, previousOwnerID, newOwnerID)
	if err != nil {
		return err
	}

	stockByID := map[string]int{}
	for rows.Next() {
		var itemID string
		var stock int
		if err := rows.Scan(&itemID, &stock); err != nil {
			rows.Close()
			return err
		}
		stockByID[itemID] = stock
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	newOwnerStock, ok := stockByID[newOwnerID]
	if !ok {
		return ErrorItemNotFound
	}
	if _, ok := stockByID[previousOwnerID]; !ok {
		// No debería pasar por la FK, chequeo defensivo.
		return ErrorItemNotFound
	}
	if newOwnerStock <= 0 {
		return ErrorNoStock
	}

	const returnQuery = `UPDATE items SET stock = stock + 1, updated_at = now() WHERE id = $1;`
	if _, err := transaction.Exec(ctx, returnQuery, previousOwnerID); err != nil {
		return err
	}

	const consumeQuery = `UPDATE items SET stock = stock - 1, updated_at = now() WHERE id = $1;`
	if _, err := transaction.Exec(ctx, consumeQuery, newOwnerID); err != nil {
		return err
	}

	return nil
}
