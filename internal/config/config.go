// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the immutable process configuration. It is constructed once at
// startup and injected; nothing reads the environment afterwards.
type Config struct {
	// Secret is the fixed challenge message every caller signs. The whole
	// authorization scheme hangs off this value staying server-side.
	Secret string `env:"CLAIMD_SECRET"`

	// ListenAddr is the HTTP bind address.
	ListenAddr string `env:"CLAIMD_LISTEN_ADDR" envDefault:":3001"`

	// DBPath is the SQLite database file.
	DBPath string `env:"CLAIMD_DB_PATH" envDefault:"claimd.db"`

	// EnableSigner exposes POST /sign, which mints credentials from raw
	// private keys. Off by default: enabling it means callers ship private
	// keys over the wire.
	EnableSigner bool `env:"CLAIMD_ENABLE_SIGNER" envDefault:"false"`

	// RequireNonce rejects fixed-challenge credentials, forcing the
	// single-use nonce mode for every request.
	RequireNonce bool `env:"CLAIMD_REQUIRE_NONCE" envDefault:"false"`

	// NonceTTL is the validity window for issued nonces.
	NonceTTL time.Duration `env:"CLAIMD_NONCE_TTL" envDefault:"2m"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("CLAIMD_SECRET is required")
	}
	return nil
}
