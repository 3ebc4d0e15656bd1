package mcp

import (
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/telemetry"
)

// GetHealthOutput is the output for the get_health tool
type GetHealthOutput struct {
	Status    string        `json:"status" jsonschema:"description=Overall health status (healthy or degraded)"`
	Registry  device.Health `json:"registry" jsonschema:"description=Registry store snapshot"`
	Timestamp string        `json:"timestamp" jsonschema:"description=ISO8601 timestamp"`
}

// ListDevicesOutput is the output for the list_devices tool
type ListDevicesOutput struct {
	Devices []device.Device `json:"devices" jsonschema:"description=Registered devices in insertion order"`
	Count   int             `json:"count" jsonschema:"description=Total number of devices"`
}

// GetDeviceOutput is the output for the get_device tool
type GetDeviceOutput struct {
	Device *device.Device `json:"device" jsonschema:"description=Device record"`
}

// MutationOutput is the output for tools that change the registry
type MutationOutput struct {
	Success bool           `json:"success" jsonschema:"description=Whether the change was applied"`
	Message string         `json:"message" jsonschema:"description=Status message"`
	Device  *device.Device `json:"device,omitempty" jsonschema:"description=Device after the change"`
}

// DiscoveryHistoryOutput is the output for the discovery_history tool
type DiscoveryHistoryOutput struct {
	Count   int                   `json:"count" jsonschema:"description=Number of events returned"`
	History []telemetry.ScanEvent `json:"history" jsonschema:"description=Recent scans, newest first"`
}
