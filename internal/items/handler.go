package items

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lelo88/inventario-api-golang/internal/httpx"
	"github.com/Lelo88/inventario-api-golang/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB.
type ServiceAPI interface {
	Create(ctx context.Context, input CreateItemInput) (Item, error)
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Update(ctx context.Context, id string, input UpdateItemInput) (Item, error)
	Delete(ctx context.Context, id string) (Item, error)
	Inventory(ctx context.Context) ([]InventoryRow, error)
}

// Handler HTTP para items.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
}

// NewHandler crea un handler de items.
func NewHandler(service ServiceAPI) *Handler {
	return &Handler{service: service}
}

// Create maneja POST /items.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateItemInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "JSON inválido")
		return
	}

	item, err := handler.service.Create(request.Context(), input)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusCreated, "Item creado correctamente", item)
}

// List maneja GET /items.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	itemList, err := handler.service.List(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Lista de items extraída correctamente", itemList)
}

// GetByID maneja GET /items/{id}.
// Valida que el id sea UUID porque en DB es uuid; esto evita errores innecesarios.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	item, err := handler.service.Get(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Item encontrado", item)
}

// Update maneja PUT /items/{id}. El body es parcial: solo los campos presentes se tocan.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	var input UpdateItemInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "JSON inválido")
		return
	}

	item, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Item actualizado correctamente", item)
}

// Delete maneja DELETE /items/{id}.
// Devuelve el snapshot eliminado para confirmación del lado del cliente.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")
	if _, err := uuid.Parse(id); err != nil {
		httpx.Fail(writer, request, http.StatusBadRequest, "el id debe ser un UUID válido")
		return
	}

	item, err := handler.service.Delete(request.Context(), id)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Item eliminado correctamente", item)
}

// Inventory maneja GET /inventario.
func (handler *Handler) Inventory(writer http.ResponseWriter, request *http.Request) {
	inventory, err := handler.service.Inventory(request.Context())
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	httpx.OK(writer, request, http.StatusOK, "Inventario extraído correctamente", inventory)
}

// fail traduce errores de dominio a status codes y mensajes.
func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	var validationErrors *validate.Errors
	switch {
	case errors.As(err, &validationErrors):
		httpx.FailWith(writer, request, http.StatusUnprocessableEntity, "Error de validación", validationErrors.Fields)
	case errors.Is(err, ErrorNotFound):
		httpx.Fail(writer, request, http.StatusNotFound, "Item no encontrado")
	case errors.Is(err, ErrorDuplicateItem):
		httpx.Fail(writer, request, http.StatusConflict, "Ya existe un item con esa marca, tipo y talla")
	case errors.Is(err, ErrorStockConflict):
		httpx.Fail(writer, request, http.StatusConflict, "El stock no puede ser menor a la cantidad de registros asociados")
	case errors.Is(err, ErrorHasStock):
		httpx.Fail(writer, request, http.StatusConflict, "No se puede eliminar una prenda que tiene stock")
	case errors.Is(err, ErrorHasRegistries):
		httpx.Fail(writer, request, http.StatusConflict, "No se puede eliminar una prenda con registros asociados")
	default:
		// No filtramos detalles internos.
		httpx.Fail(writer, request, http.StatusInternalServerError, "Error inesperado")
	}
}
