package runtimeconfig

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// LoadFile decodes a TOML file over DefaultConfig, applies environment
// overrides and validates the result. An empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		if _, err := toml.DecodeFile(trimmed, &cfg); err != nil {
			return Config{}, fmt.Errorf("workflow config: decode %s: %w", trimmed, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("workflow config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
