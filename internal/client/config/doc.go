// Package config loads runtime configuration for the HydrateMate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. HYDRATEMATE_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// The result is validated before it is returned.
//
// Supported flags
//
//	-a string   backend base URL
//	-s string   storage backend (sqlite, file, memory)
//	-p string   storage path
//	-r int      attempts per backend call
//	-d int      delay between attempts (seconds)
//	-t int      per-attempt timeout (seconds)
//	-l string   log level
//	-m string   metrics listen address
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "2s"
// or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://hydratemate-backend.onrender.com",
//	  "storage_backend": "sqlite",
//	  "storage_path": "hydratemate.db",
//	  "retry_attempts": 3,
//	  "retry_delay": "2s",
//	  "request_timeout": "60s",
//	  "log_level": "info",
//	  "metrics_addr": ":9102"
//	}
package config
