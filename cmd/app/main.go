package main

import (
	"flag"
	"log"

	"NavPull/internal/di"
	"NavPull/pkg/config"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("initialize app: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("run app: %v", err)
	}
}
