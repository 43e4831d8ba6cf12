// Package config loads runtime configuration for the mynote client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. MYNOTE_* environment variables (MYNOTE_API_KEY, MYNOTE_DATABASE_PATH,
//     MYNOTE_REQUEST_TIMEOUT, ...), see the env tags on Config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-e string     identity provider endpoint
//	-s string     secure token endpoint
//	-k string     API key
//	-d string     SQLite database path
//	-t duration   per-request timeout
//	-r uint       retries after transport failures
//	-l string     log level
//
// # JSON schema
//
// Absent keys keep their previous value. Durations are strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "provider_endpoint": "http://127.0.0.1:9099/identitytoolkit.googleapis.com",
//	  "token_endpoint": "http://127.0.0.1:9099/securetoken.googleapis.com",
//	  "api_key": "fake-api-key",
//	  "database_path": "mynote.db",
//	  "request_timeout": "5s",
//	  "max_retries": 2,
//	  "log_level": "debug"
//	}
package config
