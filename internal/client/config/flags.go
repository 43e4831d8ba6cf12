package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/mynote/internal/flagx"
)

var knownFlags = []string{"-e", "-s", "-k", "-d", "-t", "-r", "-l"}

// parseFlags populates Config fields from command-line flags:
//
//	-e string     identity provider endpoint
//	-s string     secure token endpoint
//	-k string     API key
//	-d string     SQLite database path
//	-t duration   per-request timeout, e.g. 5s
//	-r uint       retries after transport failures
//	-l string     log level
//
// Only the flags above are picked out of args, so other loaders can share the
// command line.
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ProviderEndpoint, "e", cfg.ProviderEndpoint, "identity provider endpoint")
	fs.StringVar(&cfg.TokenEndpoint, "s", cfg.TokenEndpoint, "secure token endpoint")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "API key")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.Uint64Var(&cfg.MaxRetries, "r", cfg.MaxRetries, "retries after transport failures")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		panic(err)
	}
}
