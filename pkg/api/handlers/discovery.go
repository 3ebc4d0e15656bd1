package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/discovery"
)

// Discoverer runs discovery scans.
type Discoverer interface {
	Discover(ctx context.Context) (*discovery.Result, error)
	DiscoverTransport(ctx context.Context, transport device.Transport) (*discovery.Result, error)
}

// DiscoveryHandler handles device discovery endpoints
type DiscoveryHandler struct {
	discoverer Discoverer
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discoverer Discoverer) *DiscoveryHandler {
	return &DiscoveryHandler{discoverer: discoverer}
}

// Discover handles GET /devices/discover
// @Summary      Discover devices
// @Description  Scans Wi-Fi and Z-Wave for devices that are not registered yet. A scan source that is unreachable is replaced by mock candidates tagged discovered_via=mock.
// @Tags         discovery
// @Produce      json
// @Success      200  {object}  types.DiscoveryResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /devices/discover [get]
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	result, err := h.discoverer.Discover(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DiscoverTransport handles GET /devices/discover/:transport
// @Summary      Discover devices on one transport
// @Description  Same as /devices/discover, restricted to wifi or zwave
// @Tags         discovery
// @Produce      json
// @Param        transport  path      string  true  "Transport"  Enums(wifi, zwave)
// @Success      200        {object}  types.DiscoveryResponse
// @Failure      400        {object}  types.ErrorResponse  "Unknown transport"
// @Failure      500        {object}  types.ErrorResponse  "Store error"
// @Router       /devices/discover/{transport} [get]
func (h *DiscoveryHandler) DiscoverTransport(c *gin.Context) {
	transport := device.Transport(c.Param("transport"))
	result, err := h.discoverer.DiscoverTransport(c.Request.Context(), transport)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
