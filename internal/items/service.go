package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lelo88/inventario-api-golang/internal/validate"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorNotFound      = errors.New("item not found")
	ErrorDuplicateItem = errors.New("duplicate marca/tipo/talla")
	ErrorStockConflict = errors.New("stock below registry count")
	ErrorHasStock      = errors.New("item still has stock")
	ErrorHasRegistries = errors.New("item still has registries")
)

// RepositoryAPI define lo que el service necesita del repositorio.
// Permite testear el service con fakes sin tocar DB.
type RepositoryAPI interface {
	Insert(ctx context.Context, input CreateItemInput) (Item, error)
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (Item, error)
	Update(ctx context.Context, id string, input UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id string) (Item, error)
	Inventory(ctx context.Context) ([]InventoryRow, error)
}

// Service contiene reglas de negocio de items.
type Service struct {
	repository RepositoryAPI
}

// NewService crea un service de items.
func NewService(repository RepositoryAPI) *Service {
	return &Service{repository: repository}
}

const (
	maxMarcaLength = 255
	minTalla       = 1
	maxTalla       = 100
	maxStock       = 9999
)

// Create normaliza, valida y crea el item en DB.
// Los errores de validación se acumulan: la respuesta lista TODOS los
// campos inválidos, no solo el primero.
func (service *Service) Create(ctx context.Context, input CreateItemInput) (Item, error) {
	input.Marca = strings.TrimSpace(input.Marca)
	input.Tipo = strings.ToLower(strings.TrimSpace(input.Tipo))

	validationErrors := validate.New()
	validateMarca(validationErrors, input.Marca)
	validateTipo(validationErrors, input.Tipo)
	validateTalla(validationErrors, input.Talla)
	validateStock(validationErrors, input.Stock)
	if err := validationErrors.ErrOrNil(); err != nil {
		return Item{}, err
	}

	item, err := service.repository.Insert(ctx, input)
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

// List devuelve todos los items.
func (service *Service) List(ctx context.Context) ([]Item, error) {
	return service.repository.List(ctx)
}

// Get obtiene un item por ID.
// Nota: el service no valida formato UUID; eso es más de HTTP/entrada (handler).
func (service *Service) Get(ctx context.Context, id string) (Item, error) {
	return service.repository.GetByID(ctx, id)
}

// Update valida reglas y actualiza parcialmente un item.
func (service *Service) Update(ctx context.Context, id string, input UpdateItemInput) (Item, error) {
	validationErrors := validate.New()

	// Debe venir al menos un campo.
	if input.Marca == nil && input.Tipo == nil && input.Talla == nil && input.Stock == nil {
		validationErrors.Add("body", "debe incluir al menos un campo para actualizar")
		return Item{}, validationErrors
	}

	if input.Marca != nil {
		marca := strings.TrimSpace(*input.Marca)
		validateMarca(validationErrors, marca)
		input.Marca = &marca
	}
	if input.Tipo != nil {
		tipo := strings.ToLower(strings.TrimSpace(*input.Tipo))
		validateTipo(validationErrors, tipo)
		input.Tipo = &tipo
	}
	if input.Talla != nil {
		validateTalla(validationErrors, *input.Talla)
	}
	if input.Stock != nil {
		validateStock(validationErrors, *input.Stock)
	}
	if err := validationErrors.ErrOrNil(); err != nil {
		return Item{}, err
	}

	return service.repository.Update(ctx, id, input)
}

// Delete elimina un item por ID y devuelve el snapshot eliminado.
func (service *Service) Delete(ctx context.Context, id string) (Item, error) {
	return service.repository.Delete(ctx, id)
}

// Inventory devuelve la proyección agregada del inventario.
func (service *Service) Inventory(ctx context.Context) ([]InventoryRow, error) {
	return service.repository.Inventory(ctx)
}

func validateMarca(validationErrors *validate.Errors, marca string) {
	if marca == "" {
		validationErrors.Add("marca", "la marca es obligatoria")
		return
	}
	if len(marca) > maxMarcaLength {
		validationErrors.Add("marca", fmt.Sprintf("la marca no puede superar %d caracteres", maxMarcaLength))
	}
}

func validateTipo(validationErrors *validate.Errors, tipo string) {
	if tipo == "" {
		validationErrors.Add("tipo", "el tipo es obligatorio")
		return
	}
	if !allowedTipos[tipo] {
		validationErrors.Add("tipo", "tipo inválido: debe ser polera, pantalon, camisa, chaqueta, falda, vestido, zapato o zapatilla")
	}
}

func validateTalla(validationErrors *validate.Errors, talla int) {
	if talla < minTalla || talla > maxTalla {
		validationErrors.Add("talla", fmt.Sprintf("la talla debe estar entre %d y %d", minTalla, maxTalla))
	}
}

func validateStock(validationErrors *validate.Errors, stock int) {
	if stock < 0 || stock > maxStock {
		validationErrors.Add("stock", fmt.Sprintf("el stock debe estar entre 0 y %d", maxStock))
	}
}
