package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the Revline client.
//
// Fields:
//   - BaseURL: root URL of the backend REST API.
//   - RequestTimeout: per-request HTTP timeout.
//   - DeviceSecret: secret the session vault derives its storage key from.
//   - VaultDir: directory holding the session vault database.
//   - LogLevel: minimum log level (debug, info, warn, error).
//   - Debug: when true, the transport logs every request and response body.
type Config struct {
	BaseURL        string        `env:"REVLINE_BASE_URL" validate:"required,url"`
	RequestTimeout time.Duration `env:"REVLINE_REQUEST_TIMEOUT" validate:"gt=0"`
	DeviceSecret   string        `env:"REVLINE_DEVICE_SECRET" validate:"required"`
	VaultDir       string        `env:"REVLINE_VAULT_DIR" validate:"required"`
	LogLevel       string        `env:"REVLINE_LOG_LEVEL" validate:"oneof=debug info warn error"`
	Debug          bool          `env:"REVLINE_DEBUG"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "https://api.revline.local/api"
	c.RequestTimeout = 15 * time.Second
	c.DeviceSecret = "revline-dev-device"
	c.VaultDir = "vault"
	c.LogLevel = "info"
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present), and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
