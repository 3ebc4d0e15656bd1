package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/device"
)

// DevicesHandler handles device registry endpoints
type DevicesHandler struct {
	registry device.Registry
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(registry device.Registry) *DevicesHandler {
	return &DevicesHandler{registry: registry}
}

// ListDevices handles GET /devices/list
// @Summary      List all devices
// @Description  Returns every registered device in insertion order
// @Tags         devices
// @Produce      json
// @Success      200  {array}   device.Device
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/list [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	devices, err := h.registry.ListDevices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice handles GET /devices/:id and GET /devices/status/:id
// @Summary      Get device details
// @Description  Returns a registered device by id
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  device.Device
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	d, err := h.registry.GetDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// AddDevice handles POST /devices/add
// @Summary      Register a device
// @Description  Validates and registers a device. The id is derived from the name when omitted. New devices start off.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        request  body      types.AddDeviceRequest  true  "Device fields"
// @Success      200      {object}  types.MutationResponse
// @Failure      400      {object}  types.ErrorResponse  "Validation error"
// @Failure      409      {object}  types.ErrorResponse  "Duplicate id"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /devices/add [post]
func (h *DevicesHandler) AddDevice(c *gin.Context) {
	var req types.AddDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	d, err := h.registry.AddDevice(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MutationResponse{
		Success: true,
		Message: fmt.Sprintf("Device '%s' added successfully", d.Name),
		Device:  d,
	})
}

// RemoveDevice handles DELETE /devices/remove/:id
// @Summary      Remove a device
// @Description  Unregisters a device
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.MutationResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/remove/{id} [delete]
func (h *DevicesHandler) RemoveDevice(c *gin.Context) {
	d, err := h.registry.RemoveDevice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MutationResponse{
		Success: true,
		Message: fmt.Sprintf("Device '%s' removed successfully", d.Name),
		Device:  d,
	})
}

// Health handles GET /devices/health
// @Summary      Registry health
// @Description  Device counts and store backend. Devices are not polled, so reachability is always unknown.
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.DeviceHealthResponse
// @Router       /devices/health [get]
func (h *DevicesHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.DeviceHealthResponse{
		Health:    h.registry.Health(c.Request.Context()),
		Timestamp: time.Now(),
	})
}
