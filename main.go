package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"pdfkeyword/cmd"
	"pdfkeyword/internal/config"
	"pdfkeyword/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load configuration: %v", err)
		cfg = config.Default()
	}

	if err := logger.Setup(cfg.GetLoggerConfig()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	log := logger.WithComponent("main")
	log.Debug().Msg("Starting pdfkeyword")

	cmd.Execute(cfg)

	log.Debug().Msg("pdfkeyword shutdown")
	os.Exit(0)
}
