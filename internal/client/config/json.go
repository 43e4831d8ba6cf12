package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mynote/internal/flagx"
	"github.com/dmitrijs2005/mynote/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so they can be strings like "5s" or integer
// nanoseconds.
type JsonConfig struct {
	ProviderEndpoint string          `json:"provider_endpoint"`
	TokenEndpoint    string          `json:"token_endpoint"`
	APIKey           string          `json:"api_key"`
	DatabasePath     string          `json:"database_path"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	MaxRetries       *uint64         `json:"max_retries"`
	LogLevel         string          `json:"log_level"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. Without either flag it does nothing. Panics on read or unmarshal
// errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ProviderEndpoint, jc.ProviderEndpoint)
	setString(&cfg.TokenEndpoint, jc.TokenEndpoint)
	setString(&cfg.APIKey, jc.APIKey)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
