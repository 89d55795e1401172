// Package config loads server configuration from environment variables.
//
// WHY A CONFIG STRUCT?
// Reading os.Getenv all over the codebase scatters configuration and makes
// defaults invisible. Parsing everything into one struct at startup means:
// - every knob and its default is visible in one place
// - the rest of the code receives plain values, never ambient globals
// - tests can build a Config literal without touching the environment
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting. Struct tags drive parsing: `env` names
// the variable, `envDefault` supplies the fallback.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/studyplanner.db"`

	// JWTSecret signs access and refresh tokens. Must be at least 16
	// characters (enforced by auth.NewTokenService). Generate with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"` // 30 days
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	return cfg, nil
}
