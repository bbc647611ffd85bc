package registries

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Lelo88/inventario-api-golang/internal/validate"
	"github.com/google/uuid"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorNotFound     = errors.New("registry not found")
	ErrorItemNotFound = errors.New("item not found")
	ErrorNoStock      = errors.New("item has no stock available")
)

// RepositoryAPI define lo que el service necesita del repositorio.
type RepositoryAPI interface {
	Insert(ctx context.Context, input CreateRegistryInput) (Registry, error)
	List(ctx context.Context, fecha *time.Time) ([]Registry, error)
	GetByID(ctx context.Context, id string) (Registry, error)
	Update(ctx context.Context, id string, input UpdateRegistryInput) (Registry, error)
	Delete(ctx context.Context, id string) error
}

// Service contiene reglas de negocio de registros.
type Service struct {
	repository RepositoryAPI

	// now se inyecta en tests para validar la ventana de ingreso.
	now func() time.Time
}

// NewService crea un service de registros.
func NewService(repository RepositoryAPI) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
	}
}

const (
	maxColorLength = 100
	maxPrecio      = "999999.99"
	maxIngresoAge  = 365 * 24 * time.Hour
)

// precio con hasta dos decimales, sin signo.
var precioPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Create normaliza, valida y registra una prenda.
// Si no viene fecha de ingreso se usa la hora actual.
func (service *Service) Create(ctx context.Context, input CreateRegistryInput) (Registry, error) {
	input.Color = strings.TrimSpace(input.Color)
	input.Estado = strings.ToLower(strings.TrimSpace(input.Estado))
	input.Precio = strings.TrimSpace(input.Precio)

	validationErrors := validate.New()
	if input.ItemID == "" {
		validationErrors.Add("item_id", "el item_id es obligatorio")
	} else if _, err := uuid.Parse(input.ItemID); err != nil {
		validationErrors.Add("item_id", "el item_id debe ser un UUID válido")
	}
	validateColor(validationErrors, input.Color)
	validateEstado(validationErrors, input.Estado)
	validatePrecio(validationErrors, input.Precio)

	if input.FechaHoraIngreso == nil {
		now := service.now()
		input.FechaHoraIngreso = &now
	} else {
		service.validateFechaIngreso(validationErrors, *input.FechaHoraIngreso)
	}

	if err := validationErrors.ErrOrNil(); err != nil {
		return Registry{}, err
	}

	return service.repository.Insert(ctx, input)
}

// List devuelve los registros, opcionalmente filtrados por día de ingreso.
func (service *Service) List(ctx context.Context, fecha *time.Time) ([]Registry, error) {
	return service.repository.List(ctx, fecha)
}

// Get obtiene un registro por ID.
func (service *Service) Get(ctx context.Context, id string) (Registry, error) {
	return service.repository.GetByID(ctx, id)
}

// Update valida reglas y actualiza parcialmente un registro.
// El repositorio resuelve la transferencia de stock si cambia el dueño.
func (service *Service) Update(ctx context.Context, id string, input UpdateRegistryInput) (Registry, error) {
	validationErrors := validate.New()

	// Debe venir al menos un campo.
	if input.ItemID == nil && input.FechaHoraIngreso == nil && input.Color == nil && input.Estado == nil && input.Precio == nil {
		validationErrors.Add("body", "debe incluir al menos un campo para actualizar")
		return Registry{}, validationErrors
	}

	if input.ItemID != nil {
		if _, err := uuid.Parse(*input.ItemID); err != nil {
			validationErrors.Add("item_id", "el item_id debe ser un UUID válido")
		}
	}
	if input.Color != nil {
		color := strings.TrimSpace(*input.Color)
		validateColor(validationErrors, color)
		input.Color = &color
	}
	if input.Estado != nil {
		estado := strings.ToLower(strings.TrimSpace(*input.Estado))
		validateEstado(validationErrors, estado)
		input.Estado = &estado
	}
	if input.Precio != nil {
		precio := strings.TrimSpace(*input.Precio)
		validatePrecio(validationErrors, precio)
		input.Precio = &precio
	}
	if input.FechaHoraIngreso != nil {
		service.validateFechaIngreso(validationErrors, *input.FechaHoraIngreso)
	}

	if err := validationErrors.ErrOrNil(); err != nil {
		return Registry{}, err
	}

	return service.repository.Update(ctx, id, input)
}

// Delete elimina un registro devolviendo la unidad al stock del dueño.
func (service *Service) Delete(ctx context.Context, id string) error {
	return service.repository.Delete(ctx, id)
}

func validateColor(validationErrors *validate.Errors, color string) {
	if color == "" {
		validationErrors.Add("color", "el color es obligatorio")
		return
	}
	if len(color) > maxColorLength {
		validationErrors.Add("color", fmt.Sprintf("el color no puede superar %d caracteres", maxColorLength))
	}
}

func validateEstado(validationErrors *validate.Errors, estado string) {
	if estado == "" {
		validationErrors.Add("estado", "el estado es obligatorio")
		return
	}
	if !allowedEstados[estado] {
		validationErrors.Add("estado", "estado inválido: debe ser nuevo, poco uso o usado")
	}
}

func validatePrecio(validationErrors *validate.Errors, precio string) {
	if precio == "" {
		validationErrors.Add("precio", "el precio es obligatorio")
		return
	}
	if !precioPattern.MatchString(precio) {
		validationErrors.Add("precio", "el precio debe ser un número con hasta dos decimales")
		return
	}
	// Con el formato ya validado alcanza con mirar la parte entera:
	// más de 6 dígitos supera 999999.99.
	integerPart, _, _ := strings.Cut(precio, ".")
	if len(strings.TrimLeft(integerPart, "0")) > 6 {
		validationErrors.Add("precio", "el precio no puede superar "+maxPrecio)
	}
}

func (service *Service) validateFechaIngreso(validationErrors *validate.Errors, fecha time.Time) {
	now := service.now()
	if fecha.After(now) {
		validationErrors.Add("fecha_hora_ingreso", "la fecha de ingreso no puede estar en el futuro")
	}
	if fecha.Before(now.Add(-maxIngresoAge)) {
		validationErrors.Add("fecha_hora_ingreso", "la fecha de ingreso no puede tener más de un año")
	}
}
