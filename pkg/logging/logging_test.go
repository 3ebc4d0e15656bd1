package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFile(t *testing.T) {
	dir := t.TempDir()
	out, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	defer out.Close()

	logFile := filepath.Join(dir, "myhub.log")
	closer, err := Setup(out, Options{Level: "warn", Format: "json", File: logFile})
	require.NoError(t, err)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Msg("hidden")
	log.Warn().Str("device_id", "lamp").Msg("shown")
	require.NoError(t, closer.Close())

	for _, path := range []string{out.Name(), logFile} {
		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(data, &entry), string(data))
		assert.Equal(t, "shown", entry["message"])
		assert.Equal(t, "lamp", entry["device_id"])
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup(os.Stderr, Options{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(os.Stderr, Options{})
	assert.Error(t, err)
}
