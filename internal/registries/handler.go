package registries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Lelo88/inventario-api-golang/internal/httpx"
	"github.com/Lelo88/inventario-api-golang/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateRegistryInput) (Registry, error)
	List(ctx context.Context, fecha *time.Time) ([]Registry, error)
	Get(ctx context.Context, id string) (Registry, error)
	Update(ctx context.Context, id string, input UpdateRegistryInput) (Registry, error)
	Delete(ctx context.Context, id string) error
}

// Handler HTTP para registros.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de registros.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// Create maneja POST /registries.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateRegistryInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "JSON inválido")
		return
	}

	registry, err := handler.service.Create(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusCreated, "Prenda registrada y stock actualizado correctamente", registry)
}

// List maneja GET /registries con filtro opcional ?fecha=YYYY-MM-DD.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	var fecha *time.Time
	if raw := strings.TrimSpace(request.URL.Query().Get("fecha")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.FailWith(writer, request, http.StatusUnprocessableEntity, "Error de validación", map[string][]string{
				"fecha": {"formato de fecha inválido, use AAAA-MM-DD"},
			})
			return
		}
		fecha = &parsed
	}

	registryList, err := handler.service.List(request.Context(), fecha)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Lista de registros extraída correctamente", registryList)
}

// GetByID maneja GET /registries/{id}.
// Valida que el id sea UUID porque en DB es uuid; esto evita errores innecesarios.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	registry, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Registro encontrado", registry)
}

// Update maneja PUT /registries/{id}. El body es parcial; si viene item_id
// con otro dueño, la operación transfiere stock entre items.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	var input UpdateRegistryInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "JSON inválido")
		return
	}

	registry, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Registro actualizado correctamente", registry)
}

// Delete maneja DELETE /registries/{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Registro eliminado y stock actualizado correctamente", nil)
}

// fail traduce errores de dominio a status codes y mensajes.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var validationErrors *validate.Errors
	switch {
	case errors.As(err, &validationErrors):
		httpx.FailWith(writer, request, http.StatusUnprocessableEntity, "Error de validación", validationErrors.Fields)
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "Registro no encontrado")
	case errors.Is(err, ErrorItemNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "Item no encontrado")
	case errors.Is(err, ErrorNoStock):
		httpx.Fail(writer, request, http.StatusConflict, "El item no tiene stock disponible para registrar")
	default:
		// No filtramos detalles internos.
		httpx.Fail(writer, request, http.StatusInternalServerError, "Error inesperado")
	}
}
