package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ECP_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, "data/sample-data.csv", cfg.Data.SalesFile)
	assert.Equal(t, 100.0, cfg.Server.RateLimitRPS)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ECP_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ECP_SERVER_PORT", "9999")
	t.Setenv("ECP_LOGGING_LEVEL", "debug")
	t.Setenv("ECP_DATA_SALES_FILE", "other.csv")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "other.csv", cfg.Data.SalesFile)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("ECP_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("ECP_LOGGING_LEVEL", "loud")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("data:\n  export_dir: out\n"), 0644))
	t.Setenv("ECP_CONFIG_FILE", file)

	cfg, err := Load()
	require.NoError(t, err)
	// File values fill fields the environment left unset.
	assert.Equal(t, "exports", cfg.Data.ExportDir) // env default wins over file
	assert.Equal(t, 8080, cfg.Server.Port)
}
