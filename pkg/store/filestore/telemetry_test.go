package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/myhub/pkg/telemetry"
)

func scan(n int) telemetry.ScanEvent {
	return telemetry.ScanEvent{
		ID:         "scan-" + string(rune('a'+n)),
		Timestamp:  time.Date(2024, 1, 1, 0, n, 0, 0, time.UTC),
		WiFiFound:  n,
		TotalFound: n,
	}
}

func TestTelemetry_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), TelemetryFile)

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "created on open")

	for i := 0; i < 4; i++ {
		require.NoError(t, tel.AppendScan(ctx, scan(i), 3))
	}
	require.NoError(t, tel.AppendOnboarding(ctx, telemetry.OnboardingEvent{
		ID: "o1", Timestamp: time.Now().UTC(), DeviceID: "desk_plug", Type: "wifi", Status: telemetry.OnboardingAdded,
	}, 100))

	reopened, err := OpenTelemetry(path)
	require.NoError(t, err)

	scans, err := reopened.Scans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 3, "capped at 3")
	assert.Equal(t, "scan-d", scans[0].ID)
	assert.Equal(t, "scan-b", scans[2].ID)

	events, err := reopened.Onboardings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "desk_plug", events[0].DeviceID)

	var doc map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "discovery_history")
	assert.Contains(t, doc, "onboarding_history")
	assert.JSONEq(t, `"1.0"`, string(mustField(t, doc["metadata"], "version")))
}

func TestTelemetry_BackupHoldsPreviousWrite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), TelemetryFile)

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)
	require.NoError(t, tel.AppendScan(ctx, scan(1), 50))
	require.NoError(t, tel.AppendScan(ctx, scan(2), 50))

	backup, err := OpenTelemetry(path + ".backup")
	require.NoError(t, err)
	scans, err := backup.Scans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, "scan-b", scans[0].ID)
}

func TestTelemetry_CorruptFileRestoresFromBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), TelemetryFile)

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)
	require.NoError(t, tel.AppendScan(ctx, scan(1), 50))
	require.NoError(t, tel.AppendScan(ctx, scan(2), 50))

	require.NoError(t, os.WriteFile(path, []byte(`{"discovery_history": [`), 0o600))

	restored, err := OpenTelemetry(path)
	require.NoError(t, err)
	scans, err := restored.Scans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 1, "backup holds the state before the last write")
	assert.Equal(t, "scan-b", scans[0].ID)

	_, err = readTelemetry(path)
	assert.NoError(t, err, "main file rewritten from backup")
}

func TestTelemetry_MissingHistoriesStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), TelemetryFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"metadata": {}}`), 0o600))

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)
	scans, err := tel.Scans(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestTelemetry_LoadsLegacyFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), TelemetryFile)
	legacy := `{
  "discovery_history": [
    {"timestamp": "2025-01-01T12:00:00.123456", "wifi_found": 2, "zwave_found": 1, "total_found": 3, "duration_ms": 340}
  ],
  "onboarding_history": [
    {"timestamp": "2025-01-01T12:01:00", "device_id": "x", "device_name": "X", "type": "wifi", "status": "added"}
  ],
  "metadata": {"created_at": "2025-01-01T11:59:00.5", "version": "1.0"}
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	tel, err := OpenTelemetry(path)
	require.NoError(t, err)

	scans, err := tel.Scans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.NotEmpty(t, scans[0].ID)
	assert.Equal(t, 3, scans[0].TotalFound)
	assert.Equal(t, time.Date(2025, 1, 1, 12, 0, 0, 123456000, time.UTC), scans[0].Timestamp)

	events, err := tel.Onboardings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, telemetry.OnboardingAdded, events[0].Status)
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
