package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"lightwatch/config"
	"lightwatch/internals/modules/beacon"
	"lightwatch/pkg/httpclient"
	"lightwatch/pkg/logger"
)

func main() {
	path := flag.String("config", "beacon.yaml", "path to the beacon config file")
	flag.Parse()

	cfg, err := config.LoadBeaconConfig(*path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(&config.Config{Env: cfg.Env, ServiceName: "lightwatch-beacon"})
	log.Info().
		Str("url", cfg.URL).
		Dur("interval", cfg.Interval).
		Msg("beacon starting")

	b := beacon.New(httpclient.NewHttpClient(cfg.Timeout), cfg.URL, cfg.Token, cfg.Interval, cfg.Timeout, log)
	b.Run(ctx)
}
