package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://api.tourtra.example/v1\ntheme: dark\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.tourtra.example/v1", cfg.APIURL)
	assert.Equal(t, "dark", cfg.Theme)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: https://file.example\n"), 0o644))
	t.Setenv("TOURTRA_API_URL", "https://env.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example", cfg.APIURL)
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("TOURTRA_LOG_LEVEL", "debug")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
