package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/lsm-pricer/internal/config"
	"github.com/aristath/lsm-pricer/internal/database"
	"github.com/aristath/lsm-pricer/internal/database/repositories"
	"github.com/aristath/lsm-pricer/internal/modules/pricing"
	"github.com/aristath/lsm-pricer/internal/scheduler"
	"github.com/aristath/lsm-pricer/internal/server"
	"github.com/aristath/lsm-pricer/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	log.Info().Msg("Starting LSM pricing service")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Re-level the logger from config
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	runRepo := repositories.NewPricingRunRepository(db.Conn(), log)
	pricingService := pricing.NewService(log)

	// Initialize scheduler
	sched := scheduler.New(log)
	if cfg.RepriceSchedule != "" {
		job := scheduler.NewRepriceJob(pricingService, runRepo, cfg, log)
		if err := sched.AddJob(cfg.RepriceSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register reprice job")
		}
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:           cfg.Port,
		Log:            log,
		PricingHandler: pricing.NewHandler(pricingService, runRepo, log),
		SystemHandlers: server.NewSystemHandlers(runRepo, log),
		DevMode:        cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}
