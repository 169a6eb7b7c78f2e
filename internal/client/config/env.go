package config

import (
	"fmt"
	"strconv"
)

// Environment variables.
const (
	EnvAPIURL         = "HYDRATEMATE_API_URL"
	EnvStorage        = "HYDRATEMATE_STORAGE"
	EnvStoragePath    = "HYDRATEMATE_STORAGE_PATH"
	EnvLogLevel       = "HYDRATEMATE_LOG_LEVEL"
	EnvRetryAttempts  = "HYDRATEMATE_RETRY_ATTEMPTS"
	EnvMetricsAddress = "HYDRATEMATE_METRICS_ADDR"
)

// parseEnv overlays cfg with the non-empty HYDRATEMATE_* variables.
func parseEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	setIf := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setIf(&cfg.APIBaseURL, EnvAPIURL)
	setIf(&cfg.StorageBackend, EnvStorage)
	setIf(&cfg.StoragePath, EnvStoragePath)
	setIf(&cfg.LogLevel, EnvLogLevel)
	setIf(&cfg.MetricsAddr, EnvMetricsAddress)

	if v := getenv(EnvRetryAttempts); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRetryAttempts, err)
		}
		cfg.RetryAttempts = n
	}
	return nil
}
