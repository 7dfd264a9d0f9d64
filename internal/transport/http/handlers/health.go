package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the storage liveness probe used by the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the payload for health endpoints.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
}

// NewHealthHandler builds a new health handler instance.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{startedAt: time.Now().UTC(), db: db}
}

// Status reports process liveness.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", StartedAt: h.startedAt})
}

// Ready reports readiness including database connectivity.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", StartedAt: h.startedAt})
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{Status: "ok", StartedAt: h.startedAt})
}
