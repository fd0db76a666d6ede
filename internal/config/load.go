package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types that can check themselves
// after loading.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target, expanding ${VAR} references first.
// Fields absent from the file keep whatever target already holds, so callers
// pass a pre-populated default.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	return decode(filename, data, target)
}

// Decode is Load for in-memory YAML.
func Decode[T any](data []byte, target *T) error {
	return decode("<inline>", data, target)
}

func decode[T any](name string, data []byte, target *T) error {
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", name, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// LoadOrDefault returns the default configuration overlaid with filename.
// An empty filename, or a missing file when optional is set, yields the
// validated defaults.
func LoadOrDefault(filename string, optional bool) (*Config, error) {
	cfg := NewDefaultConfig()
	if filename == "" {
		return cfg, cfg.Validate()
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) && optional {
		return cfg, cfg.Validate()
	}
	if err := Load(filename, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
