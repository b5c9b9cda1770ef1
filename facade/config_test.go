package facade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "/dev/shm", cfg.RegionRoot)
	assert.Equal(t, "./plugins", cfg.PluginDir)
	assert.Equal(t, 0, cfg.TickLogEvery)
}

func TestLoadConfigFilePrecedesDefaultsButEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trnx.toml")
	require.NoError(t, os.WriteFile(path, []byte("region_root = \"/tmp/shm\"\nplugin_dir = \"/opt/plugins\"\n"), 0o644))

	t.Setenv("TRNX_CONFIG", path)
	t.Setenv("TRNX_PLUGIN_DIR", "/env/plugins")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shm", cfg.RegionRoot, "file overrides default")
	assert.Equal(t, "/env/plugins", cfg.PluginDir, "env overrides file")
}

func TestLoadConfigNoFileUsesDefaults(t *testing.T) {
	t.Setenv("TRNX_CONFIG", "")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
