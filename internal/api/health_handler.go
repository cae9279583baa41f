package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelcapital/raise-engine/internal/database"
)

// HealthChecker reports database reachability and pool usage
type HealthChecker interface {
	HealthCheck() error
	GetStats() database.PoolStats
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// GetHealth returns 200 when the database answers a ping, 503 otherwise
func (h *HealthHandler) GetHealth(c *gin.Context) {
	if err := h.db.HealthCheck(); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "unreachable",
			"timestamp": time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"pool":      h.db.GetStats(),
		"timestamp": time.Now(),
	})
}
