package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/device/schema"
)

// ControlHandler handles device state control endpoints
type ControlHandler struct {
	registry  device.Registry
	validator *schema.Validator
}

// NewControlHandler creates a new control handler
func NewControlHandler(registry device.Registry, validator *schema.Validator) *ControlHandler {
	return &ControlHandler{registry: registry, validator: validator}
}

// SetState handles PUT /devices/:id/state
// @Summary      Set device state
// @Description  Records the commanded power state of a device. The body is validated against a JSON Schema.
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Device id"
// @Param        request  body      types.SetStateRequest  true  "State to set"
// @Success      200      {object}  device.Device
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /devices/{id}/state [put]
func (h *ControlHandler) SetState(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	on, err := h.validator.DecodeState(body)
	if err != nil {
		writeError(c, err)
		return
	}

	d, err := h.registry.SetDeviceState(c.Request.Context(), c.Param("id"), on)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// Control handles POST /devices/control
// @Summary      Turn a device on or off
// @Description  Legacy control endpoint taking the device id in the body
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        request  body      types.ControlRequest  true  "Device id and action"
// @Success      200      {object}  types.MutationResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Failure      500      {object}  types.ErrorResponse  "Store error"
// @Router       /devices/control [post]
func (h *ControlHandler) Control(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	id, on, err := h.validator.DecodeControl(body)
	if err != nil {
		writeError(c, err)
		return
	}

	d, err := h.registry.SetDeviceState(c.Request.Context(), id, on)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.MutationResponse{
		Success: true,
		Message: fmt.Sprintf("Device %s turned %s", d.ID, d.Status),
		Device:  d,
	})
}
