package registries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type routesStubService struct{}

func (service *routesStubService) Create(ctx context.Context, input CreateRegistryInput) (Registry, error) {
	return Registry{ID: registryID, ItemID: input.ItemID}, nil
}

func (service *routesStubService) List(ctx context.Context, fecha *time.Time) ([]Registry, error) {
	return []Registry{}, nil
}

func (service *routesStubService) Get(ctx context.Context, id string) (Registry, error) {
	return Registry{ID: id}, nil
}

func (service *routesStubService) Update(ctx context.Context, id string, input UpdateRegistryInput) (Registry, error) {
	return Registry{ID: id}, nil
}

func (service *routesStubService) Delete(ctx context.Context, id string) error {
	return nil
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	RegisterRoutes(router, NewHandler(&routesStubService{}))

	const id = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "post registries",
			method:     http.MethodPost,
			path:       "/registries/",
			body:       `{"item_id":"` + id + `","color":"rojo","estado":"nuevo","precio":"19990.50"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "get registries",
			method:     http.MethodGet,
			path:       "/registries/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get registries filtered by fecha",
			method:     http.MethodGet,
			path:       "/registries/?fecha=2026-08-20",
			wantStatus: http.StatusOK,
		},
		{
			name:       "get registry by id",
			method:     http.MethodGet,
			path:       "/registries/" + id,
			wantStatus: http.StatusOK,
		},
		{
			name:       "put registry",
			method:     http.MethodPut,
			path:       "/registries/" + id,
			body:       `{"color":"azul"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "delete registry",
			method:     http.MethodDelete,
			path:       "/registries/" + id,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, req)

			require.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
