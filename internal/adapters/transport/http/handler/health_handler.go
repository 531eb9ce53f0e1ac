package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependency is one backing store checked by the health route.
type Dependency struct {
	Name   string
	Pinger Pinger
}

type HealthHandler struct {
	deps   []Dependency
	logger *zap.Logger
}

func NewHealthHandler(logger *zap.Logger, deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps, logger: logger}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "commission backend - running")
}

func (h *HealthHandler) DBHealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	for _, d := range h.deps {
		if err := d.Pinger.Ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", d.Name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": d.Name + " connection failed",
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
