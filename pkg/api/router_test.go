package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/myhub/pkg/api/types"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/discovery"
	"github.com/urmzd/myhub/pkg/registry"
	"github.com/urmzd/myhub/pkg/scene"
	"github.com/urmzd/myhub/pkg/store/filestore"
	"github.com/urmzd/myhub/pkg/telemetry"
)

type testHub struct {
	handler http.Handler
}

func newTestHub(t *testing.T) *testHub {
	t.Helper()

	store, err := filestore.Open(filepath.Join(t.TempDir(), "devices.json"))
	require.NoError(t, err)

	tel := telemetry.NewLog(telemetry.NewMemoryStore(), telemetry.WithMetrics(telemetry.NewMetrics()))
	reg := registry.New(store, registry.WithTelemetry(tel))

	router := NewRouter(Services{
		Registry:  reg,
		Discovery: discovery.NewReconciler(reg, discovery.WithTelemetry(tel)),
		Scenes:    scene.NewActivator(reg),
		Telemetry: tel,
	})
	return &testHub{handler: router.Handler()}
}

func (h *testHub) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestExampleScenario(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPost, "/devices/add", `{"name":"Living Room Plug","type":"wifi","ip":"192.168.1.201"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[types.MutationResponse](t, w)
	assert.True(t, added.Success)
	require.NotNil(t, added.Device)
	assert.Equal(t, "living_room_plug", added.Device.ID)

	w = hub.do(t, http.MethodGet, "/devices/list", "")
	require.Equal(t, http.StatusOK, w.Code)
	devices := decode[[]device.Device](t, w)
	require.Len(t, devices, 1)
	assert.Equal(t, device.StatusOff, devices[0].Status)
	assert.Contains(t, w.Body.String(), `"type":"wifi"`)

	w = hub.do(t, http.MethodPut, "/devices/living_room_plug/state", `{"state":{"on":true}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, device.StatusOn, decode[device.Device](t, w).Status)

	w = hub.do(t, http.MethodGet, "/devices/living_room_plug", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, device.StatusOn, decode[device.Device](t, w).Status)

	// The mock plug shares the registered device's ip and must be filtered.
	w = hub.do(t, http.MethodGet, "/devices/discover", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[discovery.Result](t, w)
	for _, c := range result.DiscoveredDevices {
		assert.NotEqual(t, "192.168.1.201", c.IP)
	}
	assert.Equal(t, 1, result.Summary.AlreadyRegistered)
	assert.Contains(t, result.Methods, "wifi")
}

func TestAddDevice_Errors(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPost, "/devices/add", `{"name":"Plug","type":"wifi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode[types.ErrorResponse](t, w).Error)

	w = hub.do(t, http.MethodPost, "/devices/add", `{"name":"Switch","type":"zwave","node_id":500}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = hub.do(t, http.MethodPost, "/devices/add", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = hub.do(t, http.MethodPost, "/devices/add", `{"name":"Plug","type":"wifi","ip":"10.0.0.1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = hub.do(t, http.MethodPost, "/devices/add", `{"name":"Plug","type":"wifi","ip":"10.0.0.2"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRemoveDevice(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPost, "/api/v1/devices/add", `{"name":"Sensor","transport":"zwave","kind":"sensor","node_id":9}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = hub.do(t, http.MethodDelete, "/devices/remove/sensor", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[types.MutationResponse](t, w).Success)

	w = hub.do(t, http.MethodDelete, "/devices/remove/sensor", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = hub.do(t, http.MethodGet, "/devices/status/sensor", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetState_Validation(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPut, "/devices/missing/state", `{"state":{"on":true}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = hub.do(t, http.MethodPut, "/devices/missing/state", `{"state":{"on":"yes"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLegacyControl(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPost, "/devices/add", `{"name":"Lamp","type":"wifi","ip":"10.0.0.7"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = hub.do(t, http.MethodPost, "/devices/control", `{"id":"lamp","action":"on"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[types.MutationResponse](t, w)
	assert.Equal(t, "Device lamp turned on", resp.Message)

	w = hub.do(t, http.MethodPost, "/devices/control", `{"id":"lamp","action":"dim"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoverTransport(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodGet, "/devices/discover/zwave", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[discovery.Result](t, w)
	require.Len(t, result.DiscoveredDevices, 2)
	assert.Equal(t, discovery.ViaMock, result.DiscoveredDevices[0].DiscoveredVia)
	assert.Zero(t, result.Summary.WiFiDevices)

	w = hub.do(t, http.MethodGet, "/devices/discover/zigbee", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScenes(t *testing.T) {
	hub := newTestHub(t)

	for _, body := range []string{
		`{"name":"A","type":"wifi","ip":"10.0.0.1"}`,
		`{"name":"B","type":"zwave","node_id":4}`,
	} {
		require.Equal(t, http.StatusOK, hub.do(t, http.MethodPost, "/devices/add", body).Code)
	}

	w := hub.do(t, http.MethodGet, "/scenes/list", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]scene.Scene](t, w), 4)

	w = hub.do(t, http.MethodPost, "/scenes/activate", `{"scene_id":"scene_all_on"}`)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[scene.Result](t, w)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.AffectedDevices)

	w = hub.do(t, http.MethodGet, "/devices/list", "")
	for _, d := range decode[[]device.Device](t, w) {
		assert.Equal(t, device.StatusOn, d.Status)
	}

	w = hub.do(t, http.MethodPost, "/scenes/activate", `{"scene_id":"scene_party"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = hub.do(t, http.MethodPost, "/scenes/activate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTelemetry(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodGet, "/telemetry/scan-summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"summary":null}`, w.Body.String())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, hub.do(t, http.MethodGet, "/devices/discover", "").Code)
	}
	w = hub.do(t, http.MethodPost, "/devices/add", `{"name":"Plug","type":"wifi","ip":"10.0.0.1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = hub.do(t, http.MethodGet, "/telemetry/discovery-history?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[types.DiscoveryHistoryResponse](t, w)
	assert.Equal(t, 2, history.Count)
	assert.True(t, history.History[0].Mock)

	w = hub.do(t, http.MethodGet, "/telemetry/onboarding-history", "")
	require.Equal(t, http.StatusOK, w.Code)
	onboarding := decode[types.OnboardingHistoryResponse](t, w)
	require.Equal(t, 1, onboarding.Count)
	assert.Equal(t, telemetry.OnboardingAdded, onboarding.History[0].Status)

	w = hub.do(t, http.MethodGet, "/telemetry/scan-summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[types.ScanSummaryResponse](t, w)
	require.NotNil(t, summary.Summary)
	assert.Equal(t, 1, summary.Summary.DevicesAdded)

	for _, q := range []string{"0", "51", "abc"} {
		w = hub.do(t, http.MethodGet, "/telemetry/discovery-history?limit="+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestTelemetryLogging(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodPost, "/telemetry/log-discovery", `{"wifi_found":2,"zwave_found":1,"duration_ms":340}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Discovery event logged: 3 devices found", decode[types.TelemetryResponse](t, w).Message)

	w = hub.do(t, http.MethodPost, "/telemetry/log-onboarding", `{"device_id":"x","device_name":"X","device_type":"wifi","status":"removed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = hub.do(t, http.MethodPost, "/telemetry/log-onboarding", `{"device_id":"x","device_name":"X","device_type":"wifi","status":"failed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = hub.do(t, http.MethodGet, "/telemetry/discovery-history", "")
	history := decode[types.DiscoveryHistoryResponse](t, w)
	require.Equal(t, 1, history.Count)
	assert.Equal(t, 3, history.History[0].TotalFound)
}

func TestHealthAndMetrics(t *testing.T) {
	hub := newTestHub(t)

	w := hub.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[types.HealthResponse](t, w)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "file", health.Registry.Backend)

	w = hub.do(t, http.MethodGet, "/devices/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unknown", decode[types.DeviceHealthResponse](t, w).Reachability)

	hub.do(t, http.MethodGet, "/devices/discover", "")
	w = hub.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "myhub_discovery_scans_total 1")

	w = hub.do(t, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestTelemetry_WithoutLog(t *testing.T) {
	store, err := filestore.Open(filepath.Join(t.TempDir(), "devices.json"))
	require.NoError(t, err)
	reg := registry.New(store)
	hub := &testHub{handler: NewRouter(Services{
		Registry:  reg,
		Discovery: discovery.NewReconciler(reg),
		Scenes:    scene.NewActivator(reg),
	}).Handler()}

	w := hub.do(t, http.MethodGet, "/telemetry/discovery-history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[types.DiscoveryHistoryResponse](t, w).Count)

	w = hub.do(t, http.MethodGet, "/telemetry/onboarding-history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[types.OnboardingHistoryResponse](t, w).Count)

	w = hub.do(t, http.MethodGet, "/telemetry/scan-summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"summary":null}`, w.Body.String())
}
