// Package bootstrap provides application initialization shared by CLI
// commands.
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nodech/sway-matiane/internal/buildinfo"
	"github.com/nodech/sway-matiane/internal/config"
	"github.com/nodech/sway-matiane/internal/logging"
	"github.com/nodech/sway-matiane/internal/util"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "SWAY_MATIANE_"

// Result contains the result of bootstrapping the application.
type Result struct {
	Config         *config.Config
	ConfigFilePath string

	// RunID tags this process's log output.
	RunID string
}

// Bootstrap loads the environment, resolves and loads the configuration
// and applies environment overrides. An empty configPath falls back to
// the XDG config location.
func Bootstrap(configPath string) (*Result, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			logging.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	if configPath == "" {
		configPath = filepath.Join(util.ConfigDir(buildinfo.Name), "config.yaml")
	}

	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	return &Result{
		Config:         cfg,
		ConfigFilePath: configPath,
		RunID:          uuid.NewString(),
	}, nil
}

// ApplyEnvOverrides applies environment variable overrides on top of the
// loaded configuration.
func ApplyEnvOverrides(cfg *config.Config) {
	if dir, ok := os.LookupEnv(envPrefix + "STATE_DIR"); ok && dir != "" {
		cfg.StateDir = dir
		logging.Infof("state dir overridden by env: %s", dir)
	}

	if raw, ok := os.LookupEnv(envPrefix + "LIVE_INTERVAL"); ok {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.LiveInterval = secs
			logging.Infof("live interval overridden by env: %ds", secs)
		}
	}

	if raw, ok := os.LookupEnv(envPrefix + "IDLE_TIMEOUT"); ok {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.IdleTimeout = secs
			logging.Infof("idle timeout overridden by env: %ds", secs)
		}
	}

	if raw, ok := os.LookupEnv(envPrefix + "DEBUG"); ok {
		if debug, err := strconv.ParseBool(raw); err == nil {
			cfg.Debug = debug
			logging.Infof("debug overridden by env: %v", debug)
		}
	}
}
