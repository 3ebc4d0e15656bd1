package types

import (
	"time"

	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/discovery"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// --- Request DTOs ---

// AddDeviceRequest is the request body for POST /devices/add
type AddDeviceRequest = device.Input

// SetStateRequest is the request body for PUT /devices/:id/state
type SetStateRequest struct {
	State struct {
		On bool `json:"on"`
	} `json:"state"`
}

// ControlRequest is the request body for POST /devices/control
type ControlRequest struct {
	ID     string `json:"id"`
	Action string `json:"action" enums:"on,off"`
}

// ActivateSceneRequest is the request body for POST /scenes/activate
type ActivateSceneRequest struct {
	SceneID string `json:"scene_id" binding:"required"`
}

// LogDiscoveryRequest is the request body for POST /telemetry/log-discovery
type LogDiscoveryRequest struct {
	WiFiFound  int   `json:"wifi_found" binding:"min=0"`
	ZWaveFound int   `json:"zwave_found" binding:"min=0"`
	DurationMS int64 `json:"duration_ms" binding:"min=0"`
}

// LogOnboardingRequest is the request body for POST /telemetry/log-onboarding
type LogOnboardingRequest struct {
	DeviceID   string `json:"device_id" binding:"required"`
	DeviceName string `json:"device_name" binding:"required"`
	DeviceType string `json:"device_type" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=added failed"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string        `json:"status"`
	Registry  device.Health `json:"registry"`
	Timestamp time.Time     `json:"timestamp"`
}

// DeviceHealthResponse is returned from GET /devices/health
type DeviceHealthResponse struct {
	device.Health
	Timestamp time.Time `json:"timestamp"`
}

// MutationResponse is returned from device add, remove and control calls
type MutationResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Device  *device.Device `json:"device,omitempty"`
}

// DiscoveryResponse is returned from GET /devices/discover
type DiscoveryResponse = discovery.Result

// HistoryResponse wraps a telemetry history
type HistoryResponse[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	History []T  `json:"history"`
}

// DiscoveryHistoryResponse is returned from GET /telemetry/discovery-history
type DiscoveryHistoryResponse = HistoryResponse[telemetry.ScanEvent]

// OnboardingHistoryResponse is returned from GET /telemetry/onboarding-history
type OnboardingHistoryResponse = HistoryResponse[telemetry.OnboardingEvent]

// ScanSummaryResponse is returned from GET /telemetry/scan-summary
type ScanSummaryResponse struct {
	Success bool                   `json:"success"`
	Summary *telemetry.ScanSummary `json:"summary"`
}

// TelemetryResponse acknowledges a client-logged telemetry event
type TelemetryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
