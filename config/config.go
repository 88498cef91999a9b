// Package config loads the optional steer.yaml run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/steerlab/steer/params"
)

// Default values for RunConfig.
const (
	DefaultSavePath        = "experiment.steer"
	DefaultTestingInterval = 100
)

// RunConfig configures a single experiment run.
type RunConfig struct {
	// SavePath is where the model checkpoint blob lives. The format of the
	// blob is entirely the experiment's concern.
	SavePath string `yaml:"save_path"`

	// TestingInterval is how many training iterations run between testing
	// iterations.
	TestingInterval int `yaml:"testing_interval"`

	// HistoryLimit bounds per-parameter status history.
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultRunConfig returns a RunConfig with sensible default values.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		SavePath:        DefaultSavePath,
		TestingInterval: DefaultTestingInterval,
		HistoryLimit:    params.MaxHistoryLen,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Load reads and parses the config file at path. If the file doesn't exist,
// it returns the default config. Defaults apply to any missing fields.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultRunConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultRunConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all config values are valid.
func Validate(cfg *RunConfig) error {
	if cfg.SavePath == "" {
		return ValidationError{Field: "save_path", Message: "must not be empty"}
	}
	if cfg.TestingInterval <= 0 {
		return ValidationError{Field: "testing_interval", Message: "must be positive"}
	}
	if cfg.HistoryLimit <= 0 {
		return ValidationError{Field: "history_limit", Message: "must be positive"}
	}
	return nil
}
