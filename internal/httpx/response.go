package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Response es el sobre estándar que devuelve la API.
// Mantener un formato consistente hace que los clientes (frontend/tests) sean más simples.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta contiene información adicional útil para debugging y trazabilidad.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	TimeUTC   string `json:"time_utc,omitempty"`
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		// Último recurso: no se pudo serializar JSON.
		http.Error(w, `{"success":false,"message":"internal server error","data":null}`, http.StatusInternalServerError)
	}
}

// OK devuelve una respuesta exitosa con mensaje y data.
func OK(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	JSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    metaFrom(r),
	})
}

// Fail devuelve un error con data en null.
// No exponer detalles internos (SQL, stacktrace, etc.) en producción.
func Fail(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, status, Response{
		Success: false,
		Message: message,
		Data:    nil,
		Meta:    metaFrom(r),
	})
}

// FailWith devuelve un error con detalle en data.
// Se usa para validaciones: data lleva el mapa campo -> mensajes.
func FailWith(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	JSON(w, status, Response{
		Success: false,
		Message: message,
		Data:    data,
		Meta:    metaFrom(r),
	})
}

func metaFrom(r *http.Request) *Meta {
	return &Meta{
		RequestID: RequestIDFrom(r),
		TimeUTC:   time.Now().UTC().Format(time.RFC3339),
	}
}
