package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/hydratemate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend base URL
//	-s string   storage backend: sqlite, file or memory
//	-p string   storage path
//	-r int      attempts per backend call
//	-d int      delay between attempts (in seconds)
//	-t int      per-attempt timeout (in seconds)
//	-l string   log level
//	-m string   metrics listen address
//
// args is filtered with flagx.Filter so that flags meant for other
// components do not break parsing.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.Filter(args, "-a", "-s", "-p", "-r", "-d", "-t", "-l", "-m")

	fs := flag.NewFlagSet("hydratemate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend base URL")
	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend (sqlite, file, memory)")
	fs.StringVar(&cfg.StoragePath, "p", cfg.StoragePath, "storage path")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "attempts per backend call")
	delay := fs.Int("d", int(cfg.RetryDelay.Seconds()), "delay between attempts (in seconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "per-attempt timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only touch durations that were given, so sub-second JSON values survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.RetryDelay = time.Duration(*delay) * time.Second
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
