package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the mynote client.
//
// Fields:
//   - ProviderEndpoint: base URL of the Identity Toolkit API (or emulator).
//   - TokenEndpoint: base URL of the Secure Token API used to refresh tokens.
//   - APIKey: project API key sent with every provider request.
//   - DatabasePath: SQLite file holding the persisted provider session.
//   - RequestTimeout: bound for a single HTTP attempt.
//   - MaxRetries: extra attempts after transport failures.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ProviderEndpoint string        `env:"PROVIDER_ENDPOINT"`
	TokenEndpoint    string        `env:"TOKEN_ENDPOINT"`
	APIKey           string        `env:"API_KEY"`
	DatabasePath     string        `env:"DATABASE_PATH"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	MaxRetries       uint64        `env:"MAX_RETRIES"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ProviderEndpoint = "https://identitytoolkit.googleapis.com"
	c.TokenEndpoint = "https://securetoken.googleapis.com"
	c.APIKey = ""
	c.DatabasePath = "mynote.db"
	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 2
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from os.Args, see Load.
func LoadConfig() *Config {
	return Load(os.Args[1:])
}

// Load applies defaults, then overlays values from JSON (if a file is
// given), MYNOTE_* environment variables and command-line flags. Later
// sources take precedence over earlier ones. It panics on unreadable or
// invalid input.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
