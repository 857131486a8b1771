package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/portfolio-advisor/internal/config"
	"github.com/aristath/portfolio-advisor/internal/database"
	"github.com/aristath/portfolio-advisor/internal/modules/portfolio"
	"github.com/aristath/portfolio-advisor/internal/modules/signals"
	"github.com/aristath/portfolio-advisor/internal/scheduler"
	"github.com/aristath/portfolio-advisor/internal/server"
	"github.com/aristath/portfolio-advisor/pkg/logger"
	"github.com/aristath/portfolio-advisor/pkg/metrics"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration first so the logger honors LOG_LEVEL
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Portfolio Advisor")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Prometheus recorder shared by modules and jobs
	recorder := metrics.New()

	// Initialize HTTP server (wires module services)
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		DB:       db,
		Config:   cfg,
		Recorder: recorder,
		DevMode:  cfg.DevMode,
	})

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	if err := registerJobs(sched, srv.Modules(), cfg, recorder, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register jobs")
	}

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func registerJobs(
	sched *scheduler.Scheduler,
	m *server.Modules,
	cfg *config.Config,
	recorder *metrics.Recorder,
	log zerolog.Logger,
) error {
	priceSync := portfolio.NewPriceSyncJob(m.HoldingsRepo, m.HistoryRepo, m.Quotes, recorder, log)
	if err := sched.AddJob(cfg.PriceSyncCron, priceSync); err != nil {
		return err
	}

	// One-shot history backfill so indicators have data before the first sync
	go func() {
		if err := priceSync.Backfill(cfg.HistoryBackfill); err != nil {
			log.Warn().Err(err).Msg("History backfill failed")
		}
	}()

	signalRefresh := signals.NewRefreshJob(m.SignalGenerator, m.HoldingsRepo, recorder, log)
	if err := sched.AddJob(cfg.SignalCron, signalRefresh); err != nil {
		return err
	}

	return nil
}
