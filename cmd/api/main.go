package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/Lelo88/inventario-api-golang/internal/config"
	"github.com/Lelo88/inventario-api-golang/internal/db"
	"github.com/Lelo88/inventario-api-golang/internal/docs"
	"github.com/Lelo88/inventario-api-golang/internal/health"
	"github.com/Lelo88/inventario-api-golang/internal/httpx"
	"github.com/Lelo88/inventario-api-golang/internal/items"
	"github.com/Lelo88/inventario-api-golang/internal/registries"
)

// appPool agrupa lo que la app necesita del pool: ping/close para el ciclo
// de vida y el acceso a queries/transacciones para los repositorios.
type appPool interface {
	Ping(ctx context.Context) error
	Close()
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Seams para poder testear main sin red ni DB real.
var (
	loadConfigFn = config.Load
	newPoolFn    = func(ctx context.Context, url string) (appPool, error) {
		return db.NewPool(ctx, url)
	}
	listenAndServeFn = http.ListenAndServe
	logfFn           = log.Printf
	fatalf           = log.Fatal
)

type appDeps struct {
	loadConfig     func() (config.Config, error)
	newPool        func(ctx context.Context, url string) (appPool, error)
	listenAndServe func(addr string, handler http.Handler) error
	logf           func(format string, args ...any)
}

func main() {
	// .env es opcional: en producción las variables vienen del entorno.
	_ = godotenv.Load()

	deps := appDeps{
		loadConfig:     loadConfigFn,
		newPool:        newPoolFn,
		listenAndServe: listenAndServeFn,
		logf:           logfFn,
	}

	if err := run(context.Background(), deps); err != nil {
		fatalf(err)
	}
}

func run(ctx context.Context, deps appDeps) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	pool, err := deps.newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	router := buildRouter(pool)

	addr := ":" + cfg.Port
	deps.logf("listening on %s", addr)
	return deps.listenAndServe(addr, router)
}

// buildRouter arma el router completo: middlewares base, health, docs y
// los recursos de la API.
func buildRouter(pool appPool) chi.Router {
	router := chi.NewRouter()

	// Middlewares base para trazabilidad y estabilidad.
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(10 * time.Second))

	// Errores de routing se manejan a nivel router.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusNotFound, "recurso no encontrado")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, r, http.StatusMethodNotAllowed, "método no permitido")
	})

	healthHandler := health.New(pool)
	router.Get("/health", healthHandler.Health)
	router.Get("/ready", healthHandler.Ready)

	docs.RegisterRoutes(router)

	itemsHandler := items.NewHandler(items.NewService(items.NewRepository(pool)))
	items.RegisterRoutes(router, itemsHandler)

	registriesHandler := registries.NewHandler(registries.NewService(registries.NewRepository(pool)))
	registries.RegisterRoutes(router, registriesHandler)

	return router
}
