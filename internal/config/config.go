// Package config defines the daemon configuration and its yaml loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nodech/sway-matiane/internal/buildinfo"
	"github.com/nodech/sway-matiane/internal/util"
)

const (
	defaultLiveIntervalSec = 60
	defaultIdleTimeoutSec  = 300
	defaultSwayidlePath    = "swayidle"
)

// TrayConfig controls the status-notifier tray item.
type TrayConfig struct {
	// Enabled toggles tray registration. Default: true.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Config is the daemon configuration.
type Config struct {
	// StateDir is the directory holding the journal files and the LOCK
	// file. Default: the XDG data directory for the application.
	StateDir string `yaml:"state-dir,omitempty"`

	// LiveInterval is the liveness heartbeat period in seconds.
	// Default: 60.
	LiveInterval int `yaml:"live-interval,omitempty"`

	// IdleTimeout is the swayidle timeout in seconds after which the
	// session counts as idle. Default: 300.
	IdleTimeout int `yaml:"idle-timeout,omitempty"`

	// SwayidlePath is the swayidle executable to supervise.
	// Default: "swayidle" resolved from PATH.
	SwayidlePath string `yaml:"swayidle-path,omitempty"`

	// LoggingToFile redirects the daemon's own diagnostics to the given
	// file. The journal is unaffected. Default: stderr only.
	LoggingToFile string `yaml:"logging-to-file,omitempty"`

	// Debug forces debug level logging regardless of the CLI flag.
	Debug bool `yaml:"debug,omitempty"`

	// Tray configures the status-notifier item.
	Tray TrayConfig `yaml:"tray,omitempty"`
}

// NewDefaultConfig returns the configuration used when no file is present.
func NewDefaultConfig() *Config {
	return &Config{
		StateDir:     util.DataDir(buildinfo.Name),
		LiveInterval: defaultLiveIntervalSec,
		IdleTimeout:  defaultIdleTimeoutSec,
		SwayidlePath: defaultSwayidlePath,
	}
}

// LoadConfig reads and parses the yaml configuration at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadConfigOptional behaves like LoadConfig, but when optional is set a
// missing file yields the default configuration instead of an error.
func LoadConfigOptional(path string, optional bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil && optional && errors.Is(err, os.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	return cfg, err
}

// LiveIntervalDuration returns the heartbeat period.
func (c *Config) LiveIntervalDuration() time.Duration {
	return time.Duration(c.LiveInterval) * time.Second
}

// TrayEnabled reports whether the tray item should be registered.
func (c *Config) TrayEnabled() bool {
	return c.Tray.Enabled == nil || *c.Tray.Enabled
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.StateDir == "" {
		c.StateDir = util.DataDir(buildinfo.Name)
	}
	if c.LiveInterval <= 0 {
		c.LiveInterval = defaultLiveIntervalSec
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = defaultIdleTimeoutSec
	}
	if c.SwayidlePath == "" {
		c.SwayidlePath = defaultSwayidlePath
	}
}
