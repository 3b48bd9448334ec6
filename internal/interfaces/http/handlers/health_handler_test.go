package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/turtacn/HSCode-Intelligence/internal/interfaces/http"
	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

func TestLiveness(t *testing.T) {
	h := handlers.NewHealthHandler("1.2.3")
	router := httpapi.NewRouter(httpapi.RouterConfig{HealthHandler: h})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.LivenessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestReadinessAllHealthy(t *testing.T) {
	h := handlers.NewHealthHandler("test",
		handlers.CheckerFunc{ComponentName: "postgres", Fn: func(context.Context) error { return nil }},
		handlers.CheckerFunc{ComponentName: "redis", Fn: func(context.Context) error { return nil }},
	)
	router := httpapi.NewRouter(httpapi.RouterConfig{HealthHandler: h})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ready", resp.Status)
	assert.Len(t, resp.Components, 2)
}

func TestReadinessUnhealthyDependency(t *testing.T) {
	h := handlers.NewHealthHandler("test",
		handlers.CheckerFunc{ComponentName: "postgres", Fn: func(context.Context) error { return nil }},
		handlers.CheckerFunc{ComponentName: "kafka", Fn: func(context.Context) error {
			return errors.New(errors.ErrCodeExternalService, "broker unreachable")
		}},
	)
	router := httpapi.NewRouter(httpapi.RouterConfig{HealthHandler: h})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp handlers.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["kafka"].Status)
}

//Personal.AI order the ending
