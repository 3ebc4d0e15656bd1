package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urmzd/myhub/pkg/device"
	"github.com/urmzd/myhub/pkg/telemetry"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "myhub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, database.Migrate(context.Background()))
	return database
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	require.NoError(t, database.Migrate(ctx))
	version, err := database.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestBootstrapMarker(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	need, err := database.NeedsBootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, need)

	require.NoError(t, database.MarkBootstrapped(ctx))
	require.NoError(t, database.MarkBootstrapped(ctx))

	need, err = database.NeedsBootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, need)
}

func TestDeviceStore(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).Devices()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	wifi := device.Device{
		ID: "plug", Name: "Plug", Transport: device.TransportWiFi, Kind: device.KindPlug,
		Status: device.StatusOff, IP: "192.168.1.20", AddedAt: now, UpdatedAt: now,
	}
	zwave := device.Device{
		ID: "switch", Name: "Switch", Transport: device.TransportZWave, Kind: device.KindSwitch,
		Status: device.StatusOff, NodeID: 4, Manufacturer: "Aeotec", AddedAt: now, UpdatedAt: now,
	}

	require.NoError(t, store.Put(ctx, zwave))
	require.NoError(t, store.Put(ctx, wifi))

	zwave.Status = device.StatusOn
	zwave.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, store.Put(ctx, zwave))

	devices, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "switch", devices[0].ID, "update keeps insertion position")
	assert.Equal(t, device.StatusOn, devices[0].Status)
	assert.Equal(t, 4, devices[0].NodeID)
	assert.Empty(t, devices[0].IP)
	assert.Equal(t, "192.168.1.20", devices[1].IP)
	assert.Zero(t, devices[1].NodeID)
	assert.True(t, devices[0].UpdatedAt.Equal(now.Add(time.Minute)))

	got, err := store.Get(ctx, "plug")
	require.NoError(t, err)
	assert.Equal(t, device.KindPlug, got.Kind)

	require.NoError(t, store.Delete(ctx, "plug"))
	_, err = store.Get(ctx, "plug")
	assert.ErrorIs(t, err, device.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "plug"), device.ErrNotFound)
	assert.Equal(t, "sqlite", store.Backend())
}

func TestTelemetryStore_Trims(t *testing.T) {
	ctx := context.Background()
	store := openTestDB(t).Telemetry()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendScan(ctx, telemetry.ScanEvent{
			ID: string(rune('a' + i)), Timestamp: base.Add(time.Duration(i) * time.Second),
			WiFiFound: i, TotalFound: i, Mock: i%2 == 0,
		}, 3))
		require.NoError(t, store.AppendOnboarding(ctx, telemetry.OnboardingEvent{
			ID: string(rune('k' + i)), Timestamp: base, DeviceID: "dev", DeviceName: "Dev",
			Type: "wifi", Status: telemetry.OnboardingAdded,
		}, 2))
	}

	scans, err := store.Scans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, scans, 3)
	assert.Equal(t, 4, scans[0].WiFiFound)
	assert.True(t, scans[0].Mock)
	assert.Equal(t, 2, scans[2].WiFiFound)

	limited, err := store.Scans(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	events, err := store.Onboardings(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, telemetry.OnboardingAdded, events[0].Status)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("")
	assert.ErrorIs(t, err, device.ErrStore)
}

func TestOpen_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "myhub.db")
	database, err := Open(path)
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, path, database.Path())
	require.NoError(t, database.Migrate(context.Background()))
}
