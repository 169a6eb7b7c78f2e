package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/hydratemate/internal/buildinfo"
	"github.com/dmitrijs2005/hydratemate/internal/client/client"
	"github.com/dmitrijs2005/hydratemate/internal/client/config"
	"github.com/dmitrijs2005/hydratemate/internal/client/repositories/kv"
	"github.com/dmitrijs2005/hydratemate/internal/client/services"
	"github.com/dmitrijs2005/hydratemate/internal/logging"
	"github.com/dmitrijs2005/hydratemate/internal/metrics"
	"github.com/dmitrijs2005/hydratemate/internal/netx"
)

const metricsShutdownTimeout = 5 * time.Second

// Start wires storage, the backend client and the auth service from cfg
// and runs the REPL until the user exits or the process is signalled.
func Start(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	initSignalHandler(cancel)

	store, closeStore, err := client.OpenStore(ctx, kv.Backend(cfg.StorageBackend), cfg.StorageDir, cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("store init error: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error(ctx, "failed to close store", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	var wg sync.WaitGroup
	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.NewServeMux(reg),
			ReadHeaderTimeout: metricsShutdownTimeout,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveMetrics(ctx, srv, logger)
		}()
	}

	fetcher := netx.NewFetcher(
		&http.Client{Timeout: cfg.RequestTimeout},
		netx.WithLogger(logger),
		netx.WithRecorder(collector),
		netx.WithUserAgent(buildinfo.UserAgent()),
	)
	api := client.NewHTTPClient(netx.NewURLBuilder(cfg.APIBaseURL), fetcher, cfg.RetryAttempts, cfg.RetryDelay)
	auth := services.NewAuthService(api, store,
		services.WithLogger(logger),
		services.WithMetrics(collector),
	)

	app := NewApp(auth, api, WithLogger(logger))

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.StartDailyResetWatcher(ctx, DailyResetInterval)
	}()

	logger.Info(ctx, "starting HydrateMate", "api", cfg.APIBaseURL, "storage", cfg.StorageBackend)
	app.Run(ctx)

	cancel()
	wg.Wait()
	return nil
}

func initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
		// the REPL blocks on stdin; a second signal or EOF ends it
		signal.Stop(sigs)
	}()
}

// serveMetrics runs srv until ctx is done.
func serveMetrics(ctx context.Context, srv *http.Server, logger logging.Logger) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info(ctx, "metrics endpoint listening", "addr", srv.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server failed", "error", err)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "metrics server shutdown failed", "error", err)
	}
}
