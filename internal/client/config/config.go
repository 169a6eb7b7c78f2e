package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/hydratemate/internal/flagx"
)

// DefaultAPIBaseURL is used when neither file, environment nor flags name a
// backend.
const DefaultAPIBaseURL = "https://hydratemate-backend.onrender.com"

// Config holds runtime settings for the HydrateMate CLI.
//
// Fields:
//   - APIBaseURL: backend base URL, prefixed verbatim to API paths.
//   - StorageBackend: sqlite, file or memory.
//   - StorageDir, StoragePath: where the session store lives; a relative
//     StoragePath is placed under StorageDir.
//   - RetryAttempts, RetryDelay: fixed-delay retry policy for backend calls.
//   - RequestTimeout: per-attempt HTTP timeout.
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: listen address for /metrics; empty disables it.
type Config struct {
	APIBaseURL     string
	StorageBackend string
	StorageDir     string
	StoragePath    string
	RetryAttempts  int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	MetricsAddr    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.StorageBackend = "sqlite"
	c.StorageDir = ".hydratemate"
	c.StoragePath = "hydratemate.db"
	c.RetryAttempts = 3
	c.RetryDelay = 2 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

func (c Config) Validate() error {
	var pathRules []validation.Rule
	if c.StorageBackend != "memory" {
		pathRules = append(pathRules, validation.Required)
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.APIBaseURL, validation.Required, is.URL),
		validation.Field(&c.StorageBackend, validation.Required, validation.In("sqlite", "file", "memory")),
		validation.Field(&c.StoragePath, pathRules...),
		validation.Field(&c.RetryAttempts, validation.Required, validation.Min(1), validation.Max(20)),
		validation.Field(&c.RetryDelay, validation.Min(time.Duration(0))),
		validation.Field(&c.RequestTimeout, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "warning", "error")),
	)
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then the environment, then flags in args. Later sources take
// precedence over earlier ones.
func Load(args []string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.Getenv)
}
