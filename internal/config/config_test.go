package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	require.Greater(t, cfg.SurpriseThreshold, float32(0))
	require.NotEmpty(t, cfg.RegistryPath)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"surprise_threshold": 2.5, "extra_locked_words": ["widget"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, float32(2.5), cfg.SurpriseThreshold)
	require.Equal(t, []string{"widget"}, cfg.ExtraLockedWords)
	require.Equal(t, Default().RegistryPath, cfg.RegistryPath, "registry path not set in config file should stay at default")
}

func TestLoadRejectsAdditionalProperties(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"surprise_threshold": 1.0, "unknown_field": true}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err, "expected Load to reject a config with an unrecognized field")
}

func TestLoadRejectsNonPositiveThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"surprise_threshold": 0}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err, "expected Load to reject a non-positive surprise_threshold")
}
