// Package config loads the TOML configuration for tally. Every field has a
// default, so a missing config file is not an error — the zero-config path
// must always work.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ─── Config ─────────────────────────────────────────────────────────────────

// Config is the full tally configuration.
type Config struct {
	Output OutputConfig `toml:"output"`
	Strict StrictConfig `toml:"strict"`
	API    APIConfig    `toml:"api"`
	Audit  AuditConfig  `toml:"audit"`
}

// OutputConfig controls snapshot rendering.
type OutputConfig struct {
	// Precision is the number of fractional digits in rendered amounts.
	Precision int `toml:"precision"`
}

// StrictConfig enables the optional engine gates. All default to off:
// the permissive semantics are the canonical ones.
type StrictConfig struct {
	RejectOverdrafts  bool `toml:"reject_overdrafts"`
	RejectLocked      bool `toml:"reject_locked"`
	RejectNonPositive bool `toml:"reject_nonpositive"`
}

// APIConfig controls the read-only inspection server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// AuditConfig controls the optional per-run sqlite export.
type AuditConfig struct {
	// Path is the sqlite file to export into; empty disables the export.
	Path string `toml:"path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{Precision: 4},
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    7421,
			Metrics: true,
		},
	}
}

// DefaultPath returns the default config file location: $TALLY_HOME/config.toml
// when TALLY_HOME is set, otherwise ~/.tally/config.toml.
func DefaultPath() string {
	if env := os.Getenv("TALLY_HOME"); env != "" {
		return filepath.Join(env, "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tally", "config.toml")
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.Output.Precision < 0 || c.Output.Precision > 8 {
		return fmt.Errorf("output.precision %d out of range 0-8", c.Output.Precision)
	}
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range 1-65535", c.API.Port)
	}
	return nil
}
