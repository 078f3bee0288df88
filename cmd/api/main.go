package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"lightwatch/config"
	"lightwatch/internals/app"
	"lightwatch/internals/server"
	"lightwatch/pkg/logger"
)

func main() {
	path := flag.String("config", "env.yaml", "path to the config file")
	flag.Parse()

	// Load envs
	cfg, err := config.LoadConfig(*path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Get Context with signals attached -> when ever a signal occurs , then `Done` channel of ctx will get closed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	// Inject Dependencies, restores the last persisted state
	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().
		Dur("timeout", cfg.Monitor.Timeout).
		Dur("check_interval", cfg.Monitor.CheckInterval).
		Msg("dependencies initialized")

	// alert workers first, the checker may fire right away
	container.StartWorkers()
	go container.Checker.Run(ctx)

	// Register Routes
	router := app.RegisterRoutes(container)
	log.Info().Msg("routes registered")

	// Start HTTP Server -> Runs in a seperate goroutines in background and receive requests
	srv := server.New(fmt.Sprintf(":%d", cfg.Port), router, log)
	srv.Start()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting pings)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Wait for the checker to leave its tick
	select {
	case <-container.Checker.Done():
	case <-time.After(10 * time.Second):
		log.Warn().Msg("checker did not stop in time")
	}

	// 3. Drain alerts, close stores and broker
	if err := container.Shutdown(); err != nil {
		log.Error().Err(err).Msg("dependecies shutdown failed")
	}

	log.Info().Msg("graceful shutdown complete")
}
