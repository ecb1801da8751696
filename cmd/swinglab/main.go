package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"swinglab/internal/app"
	"swinglab/internal/config"
	"swinglab/internal/logger"
)

func main() {
	cfgPath := os.Getenv("SWINGLAB_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("initializing app failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Infof("✓ config loaded env=%s addr=%s", cfg.App.Env, cfg.App.HTTPAddr)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
