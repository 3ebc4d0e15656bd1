package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// History limits accepted by the telemetry endpoints
const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// TelemetryHandler handles telemetry history endpoints
type TelemetryHandler struct {
	log *telemetry.Log
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(log *telemetry.Log) *TelemetryHandler {
	return &TelemetryHandler{log: log}
}

// DiscoveryHistory handles GET /telemetry/discovery-history
// @Summary      Discovery history
// @Description  Recent discovery scans, newest first
// @Tags         telemetry
// @Produce      json
// @Param        limit  query     int  false  "Maximum events (1-50)"  default(10)
// @Success      200    {object}  types.DiscoveryHistoryResponse
// @Failure      400    {object}  types.ErrorResponse  "Invalid limit"
// @Failure      500    {object}  types.ErrorResponse  "Store error"
// @Router       /telemetry/discovery-history [get]
func (h *TelemetryHandler) DiscoveryHistory(c *gin.Context) {
	limit, ok := historyLimit(c)
	if !ok {
		return
	}

	events, err := h.log.DiscoveryHistory(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DiscoveryHistoryResponse{
		Success: true,
		Count:   len(events),
		History: events,
	})
}

// OnboardingHistory handles GET /telemetry/onboarding-history
// @Summary      Onboarding history
// @Description  Recent device add, failed add and remove events, newest first
// @Tags         telemetry
// @Produce      json
// @Param        limit  query     int  false  "Maximum events (1-50)"  default(10)
// @Success      200    {object}  types.OnboardingHistoryResponse
// @Failure      400    {object}  types.ErrorResponse  "Invalid limit"
// @Failure      500    {object}  types.ErrorResponse  "Store error"
// @Router       /telemetry/onboarding-history [get]
func (h *TelemetryHandler) OnboardingHistory(c *gin.Context) {
	limit, ok := historyLimit(c)
	if !ok {
		return
	}

	events, err := h.log.OnboardingHistory(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OnboardingHistoryResponse{
		Success: true,
		Count:   len(events),
		History: events,
	})
}

// ScanSummary handles GET /telemetry/scan-summary
// @Summary      Last scan summary
// @Description  The most recent scan and the number of devices added since. summary is null when no scan has run.
// @Tags         telemetry
// @Produce      json
// @Success      200  {object}  types.ScanSummaryResponse
// @Failure      500  {object}  types.ErrorResponse  "Store error"
// @Router       /telemetry/scan-summary [get]
func (h *TelemetryHandler) ScanSummary(c *gin.Context) {
	summary, err := h.log.ScanSummary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ScanSummaryResponse{
		Success: true,
		Summary: summary,
	})
}

// LogDiscovery handles POST /telemetry/log-discovery
// @Summary      Log a discovery scan
// @Description  Records a scan run by a client
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        request  body      types.LogDiscoveryRequest  true  "Scan counts"
// @Success      200      {object}  types.TelemetryResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Router       /telemetry/log-discovery [post]
func (h *TelemetryHandler) LogDiscovery(c *gin.Context) {
	var req types.LogDiscoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.log.RecordScan(c.Request.Context(), telemetry.ScanEvent{
		WiFiFound:  req.WiFiFound,
		ZWaveFound: req.ZWaveFound,
		DurationMS: req.DurationMS,
	})
	c.JSON(http.StatusOK, types.TelemetryResponse{
		Success: true,
		Message: fmt.Sprintf("Discovery event logged: %d devices found", req.WiFiFound+req.ZWaveFound),
	})
}

// LogOnboarding handles POST /telemetry/log-onboarding
// @Summary      Log an onboarding attempt
// @Description  Records a device add attempt made by a client
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        request  body      types.LogOnboardingRequest  true  "Onboarding outcome"
// @Success      200      {object}  types.TelemetryResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Router       /telemetry/log-onboarding [post]
func (h *TelemetryHandler) LogOnboarding(c *gin.Context) {
	var req types.LogOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "device_id, device_name, device_type are required and status must be either 'added' or 'failed'")
		return
	}

	h.log.RecordOnboarding(c.Request.Context(), req.DeviceID, req.DeviceName, req.DeviceType, telemetry.OnboardingStatus(req.Status))
	c.JSON(http.StatusOK, types.TelemetryResponse{
		Success: true,
		Message: fmt.Sprintf("Onboarding event logged: %s - %s", req.DeviceName, req.Status),
	})
}

// historyLimit parses ?limit, writing a 400 when it is not in 1..50.
func historyLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultHistoryLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		badRequest(c, fmt.Sprintf("Limit must be between 1 and %d", maxHistoryLimit))
		return 0, false
	}
	return limit, true
}
