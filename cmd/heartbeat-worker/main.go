package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/botfarm/internal/config"
	"github.com/edvin/botfarm/internal/core"
	"github.com/edvin/botfarm/internal/db"
	"github.com/edvin/botfarm/internal/logging"
	"github.com/edvin/botfarm/internal/metrics"
	"github.com/edvin/botfarm/internal/registry"
	"github.com/edvin/botfarm/internal/sim"
	"github.com/edvin/botfarm/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("heartbeat-worker"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(pool)

	messages, err := worker.LoadMessages(cfg.HeartbeatMessagesFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load heartbeat messages")
	}

	heartbeat := core.NewHeartbeatService(pool, sim.New(), registry.New(), logger, core.HeartbeatConfig{
		LogProbability: cfg.HeartbeatLogChance,
		Messages:       messages,
		MaxParallel:    cfg.HeartbeatMaxParallel,
	})

	runner, err := worker.NewRunner(heartbeat, cfg.HeartbeatSchedule, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid heartbeat schedule")
	}

	metricsServer := metrics.NewServer(cfg.MetricsListenAddr)
	go func() {
		logger.Info().Str("addr", cfg.MetricsListenAddr).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down heartbeat worker")
		cancel()
	}()

	logger.Info().Str("schedule", cfg.HeartbeatSchedule).Msg("heartbeat worker started")
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("heartbeat runner failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsServer.Shutdown(shutdownCtx)
}
