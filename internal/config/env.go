package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every variable FromEnv reads, e.g. SOID_LEDGER_BACKEND.
const EnvPrefix = "SOID_"

// FromEnv overlays SOID_* environment variables onto cfg. Unset variables
// leave the existing value in place.
func FromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return nil
}
