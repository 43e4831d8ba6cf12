package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "MYNOTE_"

// parseEnv overlays cfg with the MYNOTE_* variables that are set. Unset
// variables keep the current value. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		panic(fmt.Errorf("parse env: %w", err))
	}
}
