package config

import (
	"encoding/json"
	"os"

	"github.com/revline/revline-go/internal/flagx"
	"github.com/revline/revline-go/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DeviceSecret   string         `json:"device_secret"`
	VaultDir       string         `json:"vault_dir"`
	LogLevel       string         `json:"log_level"`
	Debug          *bool          `json:"debug"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// when neither is given, no JSON is loaded. Only fields present in the file
// override earlier values. Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DeviceSecret != "" {
		cfg.DeviceSecret = jc.DeviceSecret
	}
	if jc.VaultDir != "" {
		cfg.VaultDir = jc.VaultDir
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
