package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Readiness reports whether lookups can succeed at all.
type Readiness interface {
	Configured() bool
}

type HealthHandler struct {
	logger    *zap.Logger
	startTime time.Time
	readiness Readiness
}

func NewHealthHandler(logger *zap.Logger, readiness Readiness) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		readiness: readiness,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness stays 200 without an API key so the page can still explain
// the problem to users, but reports the degraded state.
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	}

	if h.readiness != nil && !h.readiness.Configured() {
		resp.Status = "degraded"
		resp.Detail = "weather API key is not configured"
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
