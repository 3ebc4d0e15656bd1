package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/device"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	registry device.Registry
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(registry device.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the API and registry store
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	registry := h.registry.Health(c.Request.Context())

	status := "healthy"
	httpStatus := http.StatusOK

	if registry.Status != "ok" {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Registry:  registry,
		Timestamp: time.Now(),
	})
}
