// Package config loads YAML configuration files, expanding ${VAR}
// environment references before parsing so secrets can stay out of
// the file itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types that can check
// themselves after loading.
type Validator interface {
	Validate() error
}

// Load reads filename into target, expanding environment variables in
// the raw YAML first. If target implements Validator, validation runs
// as part of loading.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}
