package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://platform.synack.com", cfg.Platform)
	assert.Equal(t, "gemini", cfg.SelectedProvider)
	assert.NotNil(t, cfg.Providers)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.UserTemplatesDir = "/home/tester/templates"
	cfg.KnownSafeDomains = []string{"owasp.org"}
	cfg.SetAPIKey("gemini", "test-key")
	require.NoError(t, SaveConfigTo(cfg, path))

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/templates", loaded.UserTemplatesDir)
	assert.Equal(t, []string{"owasp.org"}, loaded.KnownSafeDomains)
	assert.Equal(t, "test-key", loaded.GetAPIKey("gemini"))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MH_PLATFORM", "https://staging.example")
	t.Setenv("MH_USER_TEMPLATES_DIR", "/tmp/tpl")

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example", cfg.Platform)
	assert.Equal(t, "/tmp/tpl", cfg.UserTemplatesDir)
}
