package items

import "time"

// Item representa una prenda del catálogo persistida en DB.
// Stock cuenta unidades disponibles para registrar ingreso.
type Item struct {
	ID        string    `json:"id"`
	Marca     string    `json:"marca"`
	Tipo      string    `json:"tipo"`
	Talla     int       `json:"talla"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateItemInput representa el payload para crear un item.
type CreateItemInput struct {
	Marca string `json:"marca"`
	Tipo  string `json:"tipo"`
	Talla int    `json:"talla"`
	Stock int    `json:"stock"`
}

// UpdateItemInput representa un update parcial: solo los campos presentes se tocan.
type UpdateItemInput struct {
	Marca *string `json:"marca,omitempty"`
	Tipo  *string `json:"tipo,omitempty"`
	Talla *int    `json:"talla,omitempty"`
	Stock *int    `json:"stock,omitempty"`
}

// InventoryRow es la proyección agregada del inventario:
// stock disponible + total de registros por item.
type InventoryRow struct {
	Marca            string `json:"marca"`
	Tipo             string `json:"tipo"`
	Talla            int    `json:"talla"`
	StockDisponible  int    `json:"stock_disponible"`
	RegistrosTotales int    `json:"registros_totales"`
}

// Tipos de prenda permitidos. Input case-insensitive, se guarda en minúsculas.
var allowedTipos = map[string]bool{
	"polera":    true,
	"pantalon":  true,
	"camisa":    true,
	"chaqueta":  true,
	"falda":     true,
	"vestido":   true,
	"zapato":    true,
	"zapatilla": true,
}
