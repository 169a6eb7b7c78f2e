package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hydratemate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so they can be strings like "2s" or integer
// nanoseconds. Absent fields leave the current value alone.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	StorageBackend string          `json:"storage_backend"`
	StorageDir     string          `json:"storage_dir"`
	StoragePath    string          `json:"storage_path"`
	RetryAttempts  *int            `json:"retry_attempts"`
	RetryDelay     *timex.Duration `json:"retry_delay"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       string          `json:"log_level"`
	MetricsAddr    *string         `json:"metrics_addr"`
}

// parseJSON overlays cfg with the JSON file at path. An empty path loads
// nothing.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.StorageBackend, jc.StorageBackend)
	setIf(&cfg.StorageDir, jc.StorageDir)
	setIf(&cfg.StoragePath, jc.StoragePath)
	setIf(&cfg.LogLevel, jc.LogLevel)

	if jc.RetryAttempts != nil {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.RetryDelay != nil {
		cfg.RetryDelay = jc.RetryDelay.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MetricsAddr != nil {
		cfg.MetricsAddr = *jc.MetricsAddr
	}
	return nil
}
