package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/device/schema"
	"github.com/urmzd/myhub/pkg/discovery"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

func (s *Server) handleGetHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	health := s.registry.Health(ctx)

	status := "healthy"
	if health.Status != "ok" {
		status = "degraded"
	}

	out := GetHealthOutput{
		Status:    status,
		Registry:  health,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	devices, err := s.registry.ListDevices(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list devices: %s", err)), nil
	}

	out := ListDevicesOutput{
		Devices: devices,
		Count:   len(devices),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleGetDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.registry.GetDevice(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("device not found: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(GetDeviceOutput{Device: d})), nil
}

func (s *Server) handleAddDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := device.Input{
		Name:      name,
		ID:        request.GetString("id", ""),
		Transport: request.GetString("transport", ""),
		Kind:      request.GetString("kind", ""),
		IP:        request.GetString("ip", ""),
		NodeID:    request.GetInt("node_id", 0),
	}

	d, err := s.registry.AddDevice(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add device: %s", err)), nil
	}

	out := MutationOutput{
		Success: true,
		Message: fmt.Sprintf("Device '%s' added successfully", d.Name),
		Device:  d,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleRemoveDevice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.registry.RemoveDevice(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to remove device: %s", err)), nil
	}

	out := MutationOutput{
		Success: true,
		Message: fmt.Sprintf("Device '%s' removed successfully", d.Name),
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSetDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, ok := request.GetArguments()["state"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError(`parameter "state" must be an object`), nil
	}
	if err := s.validator.Validate(schema.SetState, map[string]any{"state": state}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation error: %s", err)), nil
	}

	return s.setPower(ctx, id, state["on"].(bool))
}

func (s *Server) handleTurnOn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.setPower(ctx, id, true)
}

func (s *Server) handleTurnOff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.setPower(ctx, id, false)
}

func (s *Server) setPower(ctx context.Context, id string, on bool) (*mcp.CallToolResult, error) {
	d, err := s.registry.SetDeviceState(ctx, id, on)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to set device state: %s", err)), nil
	}

	out := MutationOutput{
		Success: true,
		Message: fmt.Sprintf("Device %s turned %s", d.ID, d.Status),
		Device:  d,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDiscoverDevices(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		result *discovery.Result
		err    error
	)
	if t := request.GetString("transport", ""); t != "" {
		result, err = s.discovery.DiscoverTransport(ctx, device.Transport(t))
	} else {
		result, err = s.discovery.Discover(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("discovery failed: %s", err)), nil
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleDiscoveryHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit < 1 || limit > maxHistoryLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit)), nil
	}

	events, err := s.telemetry.DiscoveryHistory(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read history: %s", err)), nil
	}

	out := DiscoveryHistoryOutput{
		Count:   len(events),
		History: events,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleListScenes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(s.scenes.List())), nil
}

func (s *Server) handleActivateScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requiredString(request, "scene_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.scenes.Activate(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to activate scene: %s", err)), nil
	}
	if !result.Success {
		return mcp.NewToolResultError(result.Message), nil
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
