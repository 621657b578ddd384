package handlers

import (
	"errors"
	"fmt"

	"github.com/imamik/clusterform/internal/config"
)

var (
	// findConfigFile locates clusterform.yaml (for testing injection).
	findConfigFile = config.FindConfigFile

	// loadConfigFile loads config from file (for testing injection).
	loadConfigFile = config.LoadFileWithoutValidation
)

// loadConfig reads the configuration file, applies flag overrides and
// defaults, then validates the result. A missing default file is not an
// error: every setting can come from flags.
func loadConfig(opts Options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		found, err := findConfigFile()
		switch {
		case errors.Is(err, config.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			path = found
		}
	}

	cfg := &config.Config{}
	if path != "" {
		loaded, err := loadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	if opts.Override != nil {
		if err := opts.Override(cfg); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
