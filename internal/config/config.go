// Package config loads application configuration from a YAML file and
// environment variables via cleanenv. Priority: ENV > YAML > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Rent     RentConfig     `yaml:"rent"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
}

// DatabaseConfig holds local snapshot storage settings.
type DatabaseConfig struct {
	// Backend selects the storage implementation: "sqlite" or "memory".
	Backend string `yaml:"backend" env:"DB_BACKEND" env-default:"sqlite"`
	Path    string `yaml:"path"    env:"DB_PATH"    env-default:"./data/rentmate.db"`
}

// AuthConfig holds session token settings for the cosmetic gate.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:"rentmate-dev-secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"AUTH_TOKEN_TTL"  env-default:"24h"`
}

// RentConfig tunes the settlement engine.
type RentConfig struct {
	// HistoryLimit bounds how many closed months are retained.
	HistoryLimit int `yaml:"history_limit" env:"HISTORY_LIMIT" env-default:"5"`

	// AllowNegativeBills permits correction-style negative bill entries.
	// Disable to reject any negative amount outright.
	AllowNegativeBills bool `yaml:"allow_negative_bills" env:"ALLOW_NEGATIVE_BILLS" env-default:"true"`
}

// Load reads configuration from CONFIG_PATH (fallback "./config.yaml") and
// the environment. A missing file is fine unless CONFIG_PATH was set
// explicitly; ENV + defaults then apply alone.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Server.Port)
	}
	switch c.Database.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("invalid backend %q: must be sqlite or memory", c.Database.Backend)
	}
	if c.Rent.HistoryLimit < 1 {
		return fmt.Errorf("invalid history limit %d: must be at least 1", c.Rent.HistoryLimit)
	}
	return nil
}
