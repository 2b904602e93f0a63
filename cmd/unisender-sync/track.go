package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/unisender-sync/internal/metrics"
	"github.com/foxzi/unisender-sync/internal/tracker"
)

var trackOnce bool

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Poll Unisender for the status of running campaigns",
	Long: `Track polls Unisender for every created campaign that has not reached a
final status and stores status and delivery counts locally. With --once a
single batch is polled, otherwise the tracker runs until interrupted and
serves Prometheus metrics when enabled.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().BoolVar(&trackOnce, "once", false, "Poll a single batch and exit")
}

func runTrack(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := tracker.Config{
		BatchSize:    a.cfg.Tracker.BatchSize,
		PollInterval: a.cfg.Tracker.PollInterval,
	}

	if trackOnce {
		t := tracker.New(a.api, a.campaigns, a.logger, cfg)
		changed := t.Poll(context.Background())
		fmt.Printf("Polled campaigns, %d changed\n", changed)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var (
		metricsServer *metrics.Server
		collector     *metrics.Collector
	)
	serverErr := make(chan error, 1)

	if a.cfg.Metrics.Enabled {
		m := metrics.New()
		metrics.SetGlobal(m)

		collector = metrics.NewCollector(m, a.campaigns, a.cfg.Metrics.CollectInterval, a.logger)
		collector.Start(ctx)

		metricsServer = metrics.NewServer(m, a.cfg.Metrics.ListenAddr, a.cfg.Metrics.Path, a.cfg.Metrics.AllowedIPs, a.logger)
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	t := tracker.New(a.api, a.campaigns, a.logger, cfg)
	t.Start()
	a.logger.Info("tracker started",
		"poll_interval", cfg.PollInterval,
		"batch_size", cfg.BatchSize,
		"metrics", a.cfg.Metrics.Enabled)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err = <-serverErr:
		a.logger.Error("metrics server error", "error", err)
	}

	t.Stop()
	if collector != nil {
		collector.Stop()
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			a.logger.Error("metrics server shutdown error", "error", shutdownErr)
		}
	}

	a.logger.Info("tracker stopped")
	return err
}
