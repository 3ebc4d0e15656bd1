package discovery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/registry"
	"github.com/urmzd/myhub/pkg/store/filestore"
	"github.com/urmzd/myhub/pkg/telemetry"
)

type fakeRegistry struct {
	devices []device.Device
	err     error
}

func (f *fakeRegistry) ListDevices(ctx context.Context) ([]device.Device, error) {
	return f.devices, f.err
}

type fakeSource struct {
	name       string
	transport  device.Transport
	candidates []device.Candidate
	err        error
	block      bool
}

func (f *fakeSource) Name() string                { return f.name }
func (f *fakeSource) Transport() device.Transport { return f.transport }
func (f *fakeSource) Method() string              { return "fake " + f.name }

func (f *fakeSource) Scan(ctx context.Context) ([]device.Candidate, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.candidates, f.err
}

func TestDiscover_MockOnlyWithEmptyRegistry(t *testing.T) {
	ctx := context.Background()
	tel := telemetry.NewLog(telemetry.NewMemoryStore())
	r := NewReconciler(&fakeRegistry{}, WithTelemetry(tel))

	result, err := r.Discover(ctx)
	require.NoError(t, err)

	require.Len(t, result.DiscoveredDevices, 4)
	assert.Equal(t, device.TransportWiFi, result.DiscoveredDevices[0].Transport)
	assert.Equal(t, device.TransportWiFi, result.DiscoveredDevices[1].Transport)
	assert.Equal(t, "zwave_node_2", result.DiscoveredDevices[2].ID)
	assert.Equal(t, "zwave_node_3", result.DiscoveredDevices[3].ID)
	for _, c := range result.DiscoveredDevices {
		assert.Equal(t, ViaMock, c.DiscoveredVia)
	}

	assert.Equal(t, 2, result.Summary.WiFiDevices)
	assert.Equal(t, 2, result.Summary.ZWaveDevices)
	assert.Equal(t, 4, result.Summary.TotalDiscovered)
	assert.Contains(t, result.Methods, "wifi")
	assert.Contains(t, result.Methods, "zwave")

	scans, err := tel.DiscoveryHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.True(t, scans[0].Mock)
	assert.Equal(t, 4, scans[0].TotalFound)
}

func TestDiscover_FiltersRegistered(t *testing.T) {
	reg := &fakeRegistry{devices: []device.Device{
		// same node id as the mock switch, different id
		{ID: "kitchen_switch", Transport: device.TransportZWave, NodeID: 2},
		// same ip as the mock plug
		{ID: "desk_plug", Transport: device.TransportWiFi, IP: "192.168.1.201"},
		// same id as the mock sensor
		{ID: "zwave_node_3", Transport: device.TransportZWave, NodeID: 40},
	}}
	r := NewReconciler(reg)

	result, err := r.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.DiscoveredDevices, 1)
	assert.Equal(t, "shellydimmer2_d4e5f6", result.DiscoveredDevices[0].ID)
	assert.Equal(t, 3, result.Summary.AlreadyRegistered)
	assert.Equal(t, 1, result.Summary.WiFiDevices)
	assert.Equal(t, 0, result.Summary.ZWaveDevices)
}

func TestDiscover_NodeIDOnlyMatchesWithinTransport(t *testing.T) {
	reg := &fakeRegistry{devices: []device.Device{
		{ID: "lamp", Transport: device.TransportWiFi, IP: "10.0.0.2", NodeID: 0},
	}}
	wifi := &fakeSource{name: "wifi", transport: device.TransportWiFi, candidates: []device.Candidate{
		{ID: "other", Transport: device.TransportWiFi, IP: "10.0.0.3"},
	}}
	r := NewReconciler(reg, WithSource(wifi))

	result, err := r.DiscoverTransport(context.Background(), device.TransportWiFi)
	require.NoError(t, err)
	require.Len(t, result.DiscoveredDevices, 1)
	assert.Equal(t, "other", result.DiscoveredDevices[0].ID)
}

func TestDiscover_FailingSourceFallsBackToMock(t *testing.T) {
	ctx := context.Background()
	metrics := telemetry.NewMetrics()
	tel := telemetry.NewLog(telemetry.NewMemoryStore(), telemetry.WithMetrics(metrics))

	zwave := &fakeSource{name: "zwave-js", transport: device.TransportZWave, err: errors.New("connection refused")}
	wifi := &fakeSource{name: "zeroconf", transport: device.TransportWiFi, candidates: []device.Candidate{
		{ID: "shelly_real", Name: "Shelly Plug", Transport: device.TransportWiFi, IP: "10.0.0.9", DiscoveredVia: ViaZeroconf},
	}}
	r := NewReconciler(&fakeRegistry{}, WithSource(wifi), WithSource(zwave), WithTelemetry(tel))

	result, err := r.Discover(ctx)
	require.NoError(t, err)

	require.Len(t, result.DiscoveredDevices, 3)
	assert.Equal(t, "shelly_real", result.DiscoveredDevices[0].ID)
	assert.Equal(t, ViaMock, result.DiscoveredDevices[1].DiscoveredVia)

	require.Len(t, result.Summary.Sources, 2)
	assert.False(t, result.Summary.Sources[0].Fallback)
	assert.True(t, result.Summary.Sources[1].Fallback)
	assert.Equal(t, ViaMock, result.Summary.Sources[1].DiscoveredVia)
	assert.Contains(t, result.Summary.Sources[1].Error, "connection refused")
}

func TestDiscover_SlowSourceTimesOut(t *testing.T) {
	zwave := &fakeSource{name: "slow", transport: device.TransportZWave, block: true}
	r := NewReconciler(&fakeRegistry{}, WithSource(zwave), WithTimeout(20*time.Millisecond))

	start := time.Now()
	result, err := r.DiscoverTransport(context.Background(), device.TransportZWave)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	require.NotEmpty(t, result.DiscoveredDevices)
	for _, c := range result.DiscoveredDevices {
		assert.Equal(t, ViaMock, c.DiscoveredVia)
	}
}

func TestDiscover_RegistryErrorIsReturned(t *testing.T) {
	r := NewReconciler(&fakeRegistry{err: device.ErrStore})
	_, err := r.Discover(context.Background())
	assert.ErrorIs(t, err, device.ErrStore)
}

func TestDiscoverTransport_Unknown(t *testing.T) {
	r := NewReconciler(&fakeRegistry{})
	_, err := r.DiscoverTransport(context.Background(), device.Transport("zigbee"))
	assert.ErrorIs(t, err, device.ErrValidation)
}

func TestMockCandidates_AreFreshCopies(t *testing.T) {
	a := MockCandidates(device.TransportZWave)
	a[0].Name = "changed"
	b := MockCandidates(device.TransportZWave)
	assert.Equal(t, "Z-Wave Light Switch", b[0].Name)
}

func TestDiscover_LegacyRegistryFileDedups(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "devices_registry.json")
	legacy := `[
  {"id": "living_room_light", "name": "Living Room Light", "type": "wifi", "ip": "192.168.1.201",
   "status": "unknown", "added_at": "2025-01-01T12:00:00.123456", "last_seen": null},
  {"id": "kitchen_switch", "name": "Kitchen Switch", "type": "zwave", "node_id": 3,
   "status": "unknown", "added_at": "2025-01-01T12:00:00.654321", "last_seen": null}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	store, err := filestore.Open(path)
	require.NoError(t, err)
	r := NewReconciler(registry.New(store))

	result, err := r.Discover(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(result.DiscoveredDevices))
	for _, c := range result.DiscoveredDevices {
		ids = append(ids, c.ID)
	}
	assert.NotContains(t, ids, "shellyplug_s_a1b2c3")
	assert.NotContains(t, ids, "zwave_node_3")
	assert.Equal(t, []string{"shellydimmer2_d4e5f6", "zwave_node_2"}, ids)
	assert.Equal(t, 2, result.Summary.AlreadyRegistered)
}
