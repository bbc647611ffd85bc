package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDFrom obtiene el request id para incluirlo en las respuestas.
// Prioridad: contexto (seteado por el middleware de chi) y después el header
// "X-Request-Id" que pueda traer el cliente.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if id, ok := request.Context().Value(middleware.RequestIDKey).(string); ok && id != "" {
		return id
	}
	return request.Header.Get("X-Request-Id")
}
