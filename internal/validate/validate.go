package validate

import (
	"fmt"
	"sort"
	"strings"
)

// Errors acumula errores de validación por campo.
// La idea es reportar TODOS los campos inválidos en una sola respuesta,
// no solo el primero que falla.
type Errors struct {
	Fields map[string][]string
}

// New crea un acumulador vacío.
func New() *Errors {
	return &Errors{Fields: map[string][]string{}}
}

// Add agrega un mensaje de error para un campo.
func (errs *Errors) Add(field, message string) {
	errs.Fields[field] = append(errs.Fields[field], message)
}

// Empty indica si no se registró ningún error.
func (errs *Errors) Empty() bool {
	return len(errs.Fields) == 0
}

// ErrOrNil devuelve el acumulador como error, o nil si está vacío.
// Evita el clásico bug de retornar una interfaz no-nil con puntero nil.
func (errs *Errors) ErrOrNil() error {
	if errs.Empty() {
		return nil
	}
	return errs
}

// Error implementa la interfaz error con un resumen determinístico.
func (errs *Errors) Error() string {
	fields := make([]string, 0, len(errs.Fields))
	for field := range errs.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(errs.Fields[field], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
