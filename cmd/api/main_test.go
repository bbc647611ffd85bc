package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/Lelo88/inventario-api-golang/internal/config"
	"github.com/Lelo88/inventario-api-golang/internal/httpx"
)

type fakePool struct {
	pingErr     error
	closeCalled bool
}

func (pool *fakePool) Ping(ctx context.Context) error {
	return pool.pingErr
}

func (pool *fakePool) Close() {
	pool.closeCalled = true
}

func (pool *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (pool *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (pool *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("not implemented")
}

func testDeps(pool *fakePool) appDeps {
	return appDeps{
		loadConfig: func() (config.Config, error) {
			return config.Config{Port: "8080", DatabaseURL: "postgres://localhost/test"}, nil
		},
		newPool: func(ctx context.Context, url string) (appPool, error) {
			return pool, nil
		},
		listenAndServe: func(addr string, handler http.Handler) error {
			return nil
		},
		logf: func(format string, args ...any) {},
	}
}

func TestRun(t *testing.T) {
	t.Run("config error aborts", func(t *testing.T) {
		deps := testDeps(&fakePool{})
		configErr := errors.New("DATABASE_URL no está definida")
		deps.loadConfig = func() (config.Config, error) {
			return config.Config{}, configErr
		}

		err := run(context.Background(), deps)

		require.ErrorIs(t, err, configErr)
	})

	t.Run("pool error aborts", func(t *testing.T) {
		deps := testDeps(&fakePool{})
		poolErr := errors.New("cannot connect")
		deps.newPool = func(ctx context.Context, url string) (appPool, error) {
			return nil, poolErr
		}

		err := run(context.Background(), deps)

		require.ErrorIs(t, err, poolErr)
	})

	t.Run("serves on the configured port and closes the pool", func(t *testing.T) {
		pool := &fakePool{}
		deps := testDeps(pool)

		var gotAddr string
		deps.listenAndServe = func(addr string, handler http.Handler) error {
			gotAddr = addr
			return nil
		}

		err := run(context.Background(), deps)

		require.NoError(t, err)
		require.Equal(t, ":8080", gotAddr)
		require.True(t, pool.closeCalled)
	})

	t.Run("server error is returned", func(t *testing.T) {
		deps := testDeps(&fakePool{})
		serveErr := errors.New("listen: address in use")
		deps.listenAndServe = func(addr string, handler http.Handler) error {
			return serveErr
		}

		err := run(context.Background(), deps)

		require.ErrorIs(t, err, serveErr)
	})
}

func TestMain_FatalOnError(t *testing.T) {
	originalLoadConfig := loadConfigFn
	originalFatalf := fatalf
	defer func() {
		loadConfigFn = originalLoadConfig
		fatalf = originalFatalf
	}()

	configErr := errors.New("boom")
	loadConfigFn = func() (config.Config, error) {
		return config.Config{}, configErr
	}

	var fatalArgs []any
	fatalf = func(args ...any) {
		fatalArgs = args
	}

	main()

	require.Len(t, fatalArgs, 1)
	require.ErrorIs(t, fatalArgs[0].(error), configErr)
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Response {
	t.Helper()

	var response httpx.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestBuildRouter(t *testing.T) {
	t.Run("health is wired", func(t *testing.T) {
		router := buildRouter(&fakePool{})

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		response := decodeResponse(t, rec)
		require.True(t, response.Success)
	})

	t.Run("ready pings the pool", func(t *testing.T) {
		router := buildRouter(&fakePool{pingErr: errors.New("down")})

		req := httptest.NewRequest(http.MethodGet, "/ready", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("unknown route returns enveloped 404", func(t *testing.T) {
		router := buildRouter(&fakePool{})

		req := httptest.NewRequest(http.MethodGet, "/no-existe", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		response := decodeResponse(t, rec)
		require.False(t, response.Success)
		require.Equal(t, "recurso no encontrado", response.Message)
	})

	t.Run("wrong method returns enveloped 405", func(t *testing.T) {
		router := buildRouter(&fakePool{})

		req := httptest.NewRequest(http.MethodPatch, "/items/", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		response := decodeResponse(t, rec)
		require.False(t, response.Success)
		require.Equal(t, "método no permitido", response.Message)
	})

	t.Run("docs are mounted", func(t *testing.T) {
		router := buildRouter(&fakePool{})

		req := httptest.NewRequest(http.MethodGet, "/docs", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusMovedPermanently, rec.Code)
	})
}
