package handlers

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	shuttingDown atomic.Bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready returns 503 once shutdown has started so traffic drains first.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkShuttingDown makes Ready fail from now on.
func (h *HealthHandler) MarkShuttingDown() {
	h.shuttingDown.Store(true)
}
