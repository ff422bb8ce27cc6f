package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://api.revline.local/api", c.BaseURL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, "vault", c.VaultDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.Debug)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "https://api.revline.local/api", cfg.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("REVLINE_BASE_URL", "https://staging.revline.example/api")
	t.Setenv("REVLINE_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.revline.example/api", cfg.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched fields keep their defaults
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	var c Config
	c.LoadDefaults()

	c.BaseURL = "not a url"
	require.Error(t, c.Validate())

	c.LoadDefaults()
	c.LogLevel = "loud"
	require.Error(t, c.Validate())

	c.LoadDefaults()
	c.RequestTimeout = 0
	require.Error(t, c.Validate())
}
