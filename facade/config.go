package facade

import (
	"os"
	"strconv"

	"github.com/pelletier/go-toml"
)

// Config holds the facade-level knobs that configure the ambient
// stack (where regions live, where plugin packages are found, how
// often the runner logs a tick summary) without ever touching graph
// semantics.
type Config struct {
	RegionRoot   string `toml:"region_root"`
	PluginDir    string `toml:"plugin_dir"`
	TickLogEvery int    `toml:"tick_log_every"`
}

// DefaultConfig returns the built-in defaults, the lowest-precedence
// layer.
func DefaultConfig() Config {
	return Config{
		RegionRoot:   "/dev/shm",
		PluginDir:    "./plugins",
		TickLogEvery: 0,
	}
}

// LoadConfig builds a Config from, in increasing precedence: built-in
// defaults, an optional TOML file named by the TRNX_CONFIG environment
// variable, then individual TRNX_* environment variable overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("TRNX_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRNX_REGION_ROOT"); v != "" {
		cfg.RegionRoot = v
	}
	if v := os.Getenv("TRNX_PLUGIN_DIR"); v != "" {
		cfg.PluginDir = v
	}
	if v := os.Getenv("TRNX_TICK_LOG_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TickLogEvery = n
		}
	}
}
