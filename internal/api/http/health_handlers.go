package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers serves liveness endpoints.
type HealthHandlers struct {
	basePath string
}

// NewHealthHandlers creates the health handler set.
func NewHealthHandlers(basePath string) *HealthHandlers {
	return &HealthHandlers{basePath: basePath}
}

// Root handles GET /
func (h *HealthHandlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "stashbox",
		"version": "1.0.0",
	})
}

// Health handles GET /health
func (h *HealthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": gin.H{"base_path": h.basePath},
	})
}
