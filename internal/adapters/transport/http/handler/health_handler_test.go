package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthRouter(deps ...Dependency) *gin.Engine {
	h := NewHealthHandler(zap.NewNop(), deps...)
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/db-health-check", h.DBHealthCheck)
	return r
}

func TestRoot(t *testing.T) {
	w := do(healthRouter(), http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "commission backend - running", w.Body.String())
}

func TestDBHealthCheck(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	w := do(healthRouter(Dependency{"postgres", ok}, Dependency{"redis", ok}), http.MethodGet, "/db-health-check", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, map[string]any{"status": "success"}, jsonBody(t, w))

	w = do(healthRouter(Dependency{"postgres", ok}, Dependency{"redis", down}), http.MethodGet, "/db-health-check", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, map[string]any{
		"status":  "error",
		"message": "redis connection failed",
		"error":   "dial tcp: refused",
	}, jsonBody(t, w))
}
