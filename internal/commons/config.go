package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"comptoir/internal/config"
)

// LoadConfig reads a YAML deployment config. Fields left empty fall
// back to whatever config.Load resolved from the environment.
func LoadConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}
