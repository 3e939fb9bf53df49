package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("LEADTERM_API_URL", "")
	t.Setenv("LEADTERM_TZ", "")
	t.Setenv("LEADTERM_LOG_LEVEL", "")
	return dir
}

func TestLoadCreatesDefaults(t *testing.T) {
	dir := setConfigHome(t)

	store, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, store.Config.APIBaseURL)
	assert.Equal(t, 30, store.Config.TimeoutSec)
	assert.Equal(t, "info", store.Config.LogLevel)
	assert.NotEmpty(t, store.Config.Name)
	assert.NotEmpty(t, store.Config.Timezone)

	// First load persists the defaults.
	entries, err := filepath.Glob(filepath.Join(dir, "*", "config.json"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := setConfigHome(t)
	cfgDir := filepath.Join(dir, "leadterm")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	raw, err := json.Marshal(Data{
		Name:       "Asha",
		Timezone:   "Asia/Kolkata",
		APIBaseURL: "http://localhost:5000",
		TimeoutSec: 5,
		LogLevel:   "debug",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.json"), raw, 0o644))

	store, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asha", store.Config.Name)
	assert.Equal(t, "http://localhost:5000", store.Config.APIBaseURL)
	assert.Equal(t, 5*time.Second, store.Timeout())
	assert.Equal(t, "Asia/Kolkata", store.Location().String())
}

func TestEnvOverridesWin(t *testing.T) {
	setConfigHome(t)
	t.Setenv("LEADTERM_API_URL", "http://staging.example.com")
	t.Setenv("LEADTERM_LOG_LEVEL", "trace")

	store, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://staging.example.com", store.Config.APIBaseURL)
	assert.Equal(t, "trace", store.Config.LogLevel)
}

func TestSaveRoundTrips(t *testing.T) {
	setConfigHome(t)

	store, err := Load()
	require.NoError(t, err)
	store.Config.Name = "Renamed"
	require.NoError(t, store.Save())

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Config.Name)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	store := &Store{Config: Data{Timezone: "Not/AZone"}}
	assert.Equal(t, time.UTC, store.Location())
}

func TestTimeoutDefault(t *testing.T) {
	store := &Store{Config: Data{TimeoutSec: 0}}
	assert.Equal(t, 30*time.Second, store.Timeout())
}
