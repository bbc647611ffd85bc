package items

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB es lo mínimo que el repositorio necesita del pool de pgx.
// Permite testear con fakes sin levantar PostgreSQL.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository accede a la tabla items.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de items.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

const itemColumns = `id, marca, tipo, talla, stock, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.Marca, &item.Tipo, &item.Talla, &item.Stock, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

// Insert crea un item y devuelve el registro persistido.
// Usamos RETURNING para obtener id y timestamps generados por DB.
func (repository *Repository) Insert(ctx context.Context, input CreateItemInput) (Item, error) {
	const query = `
		INSERT INTO items (marca, tipo, talla, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns + `;
	`

	item, err := scanItem(repository.database.QueryRow(ctx, query, input.Marca, input.Tipo, input.Talla, input.Stock))
	if err != nil {
		// Detectar conflicto por índice unique (ux_items_marca_tipo_talla).
		// Postgres: unique_violation = 23505
		var postgresError *pgconn.PgError
		if errors.As(err, &postgresError) && postgresError.Code == "23505" {
			return Item{}, ErrorDuplicateItem
		}
		return Item{}, err
	}

	return item, nil
}

// List devuelve todos los items ordenados por marca, tipo y talla.
func (repository *Repository) List(ctx context.Context) ([]Item, error) {
	const query = `
		SELECT ` + itemColumns + `
		FROM items
		ORDER BY marca, tipo, talla;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itemList := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		itemList = append(itemList, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return itemList, nil
}

// GetByID obtiene un item por id.
func (repository *Repository) GetByID(ctx context.Context, id string) (Item, error) {
	const query = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1;
	`

	item, err := scanItem(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, err
	}

	return item, nil
}

// Update aplica un update parcial dentro de una transacción.
// La fila se bloquea con FOR UPDATE porque la regla de negocio
// (stock nunca menor a la cantidad de registros asociados) necesita
// leer y escribir sin que otra request se meta en el medio.
func (repository *Repository) Update(ctx context.Context, id string, input UpdateItemInput) (Item, error) {
	transaction, err := repository.database.Begin(ctx)
	if err != nil {
		return Item{}, err
	}
	defer transaction.Rollback(ctx)

	const lockQuery = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
		FOR UPDATE;
	`

	current, err := scanItem(transaction.QueryRow(ctx, lockQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, err
	}

	// Merge: solo los campos presentes reemplazan al valor actual.
	if input.Marca != nil {
		current.Marca = *input.Marca
	}
	if input.Tipo != nil {
		current.Tipo = *input.Tipo
	}
	if input.Talla != nil {
		current.Talla = *input.Talla
	}
	if input.Stock != nil {
		// No se puede bajar el stock por debajo de las unidades físicas
		// ya registradas para este item.
		registryCount, err := repository.countRegistries(ctx, transaction, id)
		if err != nil {
			return Item{}, err
		}
		if *input.Stock < registryCount {
			return Item{}, ErrorStockConflict
		}
		current.Stock = *input.Stock
	}

	const updateQuery = `
		UPDATE items
		SET marca = $2, tipo = $3, talla = $4, stock = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + itemColumns + `;
	`

	updated, err := scanItem(transaction.QueryRow(ctx, updateQuery, id, current.Marca, current.Tipo, current.Talla, current.Stock))
	if err != nil {
		var postgresError *pgconn.PgError
		if errors.As(err, &postgresError) && postgresError.Code == "23505" {
			return Item{}, ErrorDuplicateItem
		}
		return Item{}, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return Item{}, err
	}

	return updated, nil
}

// Delete elimina un item solo si no tiene stock ni registros asociados.
// Devuelve el snapshot eliminado para que el caller pueda confirmarlo.
// El ON DELETE CASCADE de la FK es una red de seguridad, no el camino normal:
// el guard de acá es el que manda.
func (repository *Repository) Delete(ctx context.Context, id string) (Item, error) {
	transaction, err := repository.database.Begin(ctx)
	if err != nil {
		return Item{}, err
	}
	defer transaction.Rollback(ctx)

	const lockQuery = `
		SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1
		FOR UPDATE;
	`

	item, err := scanItem(transaction.QueryRow(ctx, lockQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrorNotFound
		}
		return Item{}, err
	}

	if item.Stock > 0 {
		return Item{}, ErrorHasStock
	}

	registryCount, err := repository.countRegistries(ctx, transaction, id)
	if err != nil {
		return Item{}, err
	}
	if registryCount > 0 {
		return Item{}, ErrorHasRegistries
	}

	const deleteQuery = `DELETE FROM items WHERE id = $1;`
	if _, err := transaction.Exec(ctx, deleteQuery, id); err != nil {
		return Item{}, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Inventory arma la proyección agregada con un solo query agrupado,
// nada de contar registros item por item en un loop.
func (repository *Repository) Inventory(ctx context.Context) ([]InventoryRow, error) {
	const query = `
		SELECT i.marca, i.tipo, i.talla, i.stock, count(r.id)
		FROM items i
		LEFT JOIN registries r ON r.item_id = i.id
		GROUP BY i.id, i.marca, i.tipo, i.talla, i.stock
		ORDER BY i.marca, i.tipo, i.talla;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inventory := []InventoryRow{}
	for rows.Next() {
		var row InventoryRow
		if err := rows.Scan(&row.Marca, &row.Tipo, &row.Talla, &row.StockDisponible, &row.RegistrosTotales); err != nil {
			return nil, err
		}
		inventory = append(inventory, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inventory, nil
}

func (repository *Repository) countRegistries(ctx context.Context, transaction pgx.Tx, itemID string) (int, error) {
	const query = `SELECT count(*) FROM registries WHERE item_id = $1;`

	var count int
	if err := transaction.QueryRow(ctx, query, itemID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
