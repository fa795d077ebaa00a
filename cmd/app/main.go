package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"

	"MarTrade/internal/di"
	"MarTrade/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	envFile := flag.String("env-file", ".env", "optional dotenv file")
	flag.Parse()

	// Load .env before config so env overrides apply
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("env file load failed: %v", err)
	}

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s chart_cache=%s kafka=%t", cfg.Environment, cfg.ChartCache.Backend, cfg.Kafka.Enabled)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
