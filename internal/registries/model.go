package registries

import (
	"time"

	"github.com/Lelo88/inventario-api-golang/internal/items"
)

// Registry representa el ingreso de una unidad física al inventario,
// siempre asociada a un item del catálogo.
// Precio se modela como string para evitar errores de precisión con float
// (DB: numeric(8,2)).
type Registry struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"item_id"`
	FechaHoraIngreso time.Time `json:"fecha_hora_ingreso"`
	Color            string    `json:"color"`
	Estado           string    `json:"estado"`
	Precio           string    `json:"precio"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Item viene cargado en las lecturas (un solo JOIN, nada de
	// un query por fila) para que la respuesta sea útil sin más requests.
	Item *items.Item `json:"item,omitempty"`
}

// CreateRegistryInput representa el payload para registrar una prenda.
// FechaHoraIngreso es opcional: si no viene, se usa la hora actual.
type CreateRegistryInput struct {
	ItemID           string     `json:"item_id"`
	FechaHoraIngreso *time.Time `json:"fecha_hora_ingreso,omitempty"`
	Color            string     `json:"color"`
	Estado           string     `json:"estado"`
	Precio           string     `json:"precio"`
}

// UpdateRegistryInput representa un update parcial.
// Si ItemID viene y es distinto al dueño actual, la operación es una
// transferencia de stock entre items.
type UpdateRegistryInput struct {
	ItemID           *string    `json:"item_id,omitempty"`
	FechaHoraIngreso *time.Time `json:"fecha_hora_ingreso,omitempty"`
	Color            *string    `json:"color,omitempty"`
	Estado           *string    `json:"estado,omitempty"`
	Precio           *string    `json:"precio,omitempty"`
}

// Estados permitidos para una prenda registrada.
var allowedEstados = map[string]bool{
	"nuevo":    true,
	"poco uso": true,
	"usado":    true,
}
