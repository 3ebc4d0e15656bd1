package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/discovery"
	"github.com/urmzd/myhub/pkg/registry"
	"github.com/urmzd/myhub/pkg/scene"
	"github.com/urmzd/myhub/pkg/store/filestore"
	"github.com/urmzd/myhub/pkg/telemetry"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "devices.yaml"))
	require.NoError(t, err)

	tel := telemetry.NewLog(telemetry.NewMemoryStore())
	reg := registry.New(store, registry.WithTelemetry(tel))
	return NewServer(Deps{
		Registry:  reg,
		Discovery: discovery.NewReconciler(reg, discovery.WithTelemetry(tel)),
		Scenes:    scene.NewActivator(reg),
		Telemetry: tel,
	})
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestDeviceTools(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleAddDevice, map[string]any{
		"name":      "Hall Switch",
		"transport": "zwave",
		"kind":      "switch",
		"node_id":   float64(5),
	})
	require.False(t, isErr, text)
	var added MutationOutput
	require.NoError(t, json.Unmarshal([]byte(text), &added))
	assert.Equal(t, "hall_switch", added.Device.ID)
	assert.Equal(t, 5, added.Device.NodeID)

	_, isErr = call(t, s.handleAddDevice, map[string]any{"name": "Hall Switch", "transport": "zwave", "node_id": float64(6)})
	assert.True(t, isErr)

	text, isErr = call(t, s.handleTurnOn, map[string]any{"id": "hall_switch"})
	require.False(t, isErr, text)
	var toggled MutationOutput
	require.NoError(t, json.Unmarshal([]byte(text), &toggled))
	assert.Equal(t, device.StatusOn, toggled.Device.Status)

	text, isErr = call(t, s.handleListDevices, nil)
	require.False(t, isErr)
	var list ListDevicesOutput
	require.NoError(t, json.Unmarshal([]byte(text), &list))
	assert.Equal(t, 1, list.Count)

	_, isErr = call(t, s.handleRemoveDevice, map[string]any{"id": "hall_switch"})
	assert.False(t, isErr)
	_, isErr = call(t, s.handleGetDevice, map[string]any{"id": "hall_switch"})
	assert.True(t, isErr)
}

func TestSetDeviceStateTool(t *testing.T) {
	s := newTestServer(t)

	_, isErr := call(t, s.handleAddDevice, map[string]any{"name": "Lamp", "transport": "wifi", "ip": "10.1.1.1"})
	require.False(t, isErr)

	_, isErr = call(t, s.handleSetDeviceState, map[string]any{"id": "lamp", "state": map[string]any{"on": "yes"}})
	assert.True(t, isErr)

	_, isErr = call(t, s.handleSetDeviceState, map[string]any{"id": "lamp", "state": "on"})
	assert.True(t, isErr)

	text, isErr := call(t, s.handleSetDeviceState, map[string]any{"id": "lamp", "state": map[string]any{"on": true}})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Device lamp turned on")

	_, isErr = call(t, s.handleTurnOff, map[string]any{"id": "missing"})
	assert.True(t, isErr)
}

func TestDiscoveryTools(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleDiscoverDevices, map[string]any{"transport": "wifi"})
	require.False(t, isErr, text)
	var result discovery.Result
	require.NoError(t, json.Unmarshal([]byte(text), &result))
	assert.Len(t, result.DiscoveredDevices, 2)

	_, isErr = call(t, s.handleDiscoverDevices, map[string]any{"transport": "zigbee"})
	assert.True(t, isErr)

	text, isErr = call(t, s.handleDiscoveryHistory, nil)
	require.False(t, isErr)
	var history DiscoveryHistoryOutput
	require.NoError(t, json.Unmarshal([]byte(text), &history))
	assert.Equal(t, 1, history.Count)

	_, isErr = call(t, s.handleDiscoveryHistory, map[string]any{"limit": float64(99)})
	assert.True(t, isErr)
}

func TestSceneTools(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleListScenes, nil)
	require.False(t, isErr)
	assert.Contains(t, text, "scene_sunset_to_11pm")

	text, isErr = call(t, s.handleActivateScene, map[string]any{"scene_id": "scene_all_off"})
	require.False(t, isErr, text)

	_, isErr = call(t, s.handleActivateScene, map[string]any{"scene_id": "nope"})
	assert.True(t, isErr)
}

func TestGetHealthTool(t *testing.T) {
	s := newTestServer(t)

	text, isErr := call(t, s.handleGetHealth, nil)
	require.False(t, isErr)
	var out GetHealthOutput
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "file", out.Registry.Backend)
}
