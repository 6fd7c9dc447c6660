package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := config.LoadConfig("")
	assert.Equal(t, "stockd", cfg.System.Appid)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, 10, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, filepath.Join(cfg.System.Workdir, "data"), cfg.DataDir())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockd.yml")
	content := `
system:
  appid: stockd
  workdir: /tmp/stockd-test
web:
  host: 127.0.0.1
  port: 9090
storage:
  datadir: /tmp/stockd-test/flat
inventory:
  low_stock_threshold: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := config.LoadConfig(path)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, 25, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, "/tmp/stockd-test/flat", cfg.DataDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STOCKD_WEB_PORT", "7070")
	t.Setenv("STOCKD_LOW_STOCK_THRESHOLD", "42")

	cfg := config.LoadConfig("")
	assert.Equal(t, 7070, cfg.Web.Port)
	assert.Equal(t, 42, cfg.Inventory.LowStockThreshold)
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockd.yml")
	require.NoError(t, config.WriteDefaultConfig(path))
	assert.ErrorIs(t, config.WriteDefaultConfig(path), os.ErrExist)
}
