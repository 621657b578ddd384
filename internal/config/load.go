package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by FindConfigFile when no configuration file exists
// in the working directory or any of its parents.
var ErrNotFound = errors.New("config file not found")

// LoadFile reads, defaults and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	cfg, err := LoadFileWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadFileWithoutValidation reads the configuration at path and applies
// environment overrides only. The CLI validates after merging its flags.
func LoadFileWithoutValidation(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Parse decodes YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv fills settings that may come from the environment when the file
// leaves them empty.
func (c *Config) ApplyEnv() {
	if c.AWS.Profile == "" {
		c.AWS.Profile = os.Getenv("AWS_CLI_PROFILE")
	}
	if c.Metrics.Pushgateway == "" {
		c.Metrics.Pushgateway = os.Getenv("CLUSTERFORM_PUSHGATEWAY_URL")
	}
}

// FindConfigFile looks for DefaultConfigFilename in the working directory,
// then walks up to the filesystem root.
func FindConfigFile() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return findFrom(cwd)
}

func findFrom(dir string) (string, error) {
	for {
		path := filepath.Join(dir, DefaultConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s", ErrNotFound, DefaultConfigFilename)
		}
		dir = parent
	}
}

// Save writes cfg to path, readable by the owner only.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
