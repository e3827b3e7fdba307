package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/life-planner-be/internal/api"
	"github.com/isdelr/life-planner-be/internal/auth"
	"github.com/isdelr/life-planner-be/internal/config"
	"github.com/isdelr/life-planner-be/internal/database"
	"github.com/isdelr/life-planner-be/internal/logger"
	"github.com/isdelr/life-planner-be/internal/monitoring"
	"github.com/isdelr/life-planner-be/internal/services"
	"github.com/isdelr/life-planner-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())
	if !cfg.IsProduction() && cfg.SecretKey == "fallback-secret-key-for-development" {
		log.Warn().Msg("SECRET_KEY not set, signing tokens with the development fallback key")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokens := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	eventService := services.NewEventService(db, hub)
	app := api.App{
		Logger:      log.Logger,
		Gate:        auth.NewGate(tokens),
		Users:       services.NewUserService(db, tokens),
		Tasks:       services.NewTaskService(db, eventService),
		Settings:    services.NewSettingsService(db, eventService),
		Stats:       services.NewStatsService(db),
		Events:      eventService,
		Hub:         hub,
		Probe:       monitoring.NewProbe(),
		CORSOrigins: cfg.CORSOrigins,
	}

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("database", cfg.DatabasePath).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
