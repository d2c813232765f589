package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/assistravel/casedesk/internal/cache"
	"github.com/assistravel/casedesk/internal/config"
	"github.com/assistravel/casedesk/internal/server"
	"github.com/assistravel/casedesk/internal/store"
	"github.com/assistravel/casedesk/pkg/logger"
)

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := store.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := store.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	metricsCache := cache.NewCache()

	srv := server.New(cfg, db, metricsCache, log)

	log.Info("Starting case-management backend",
		"host", cfg.Host,
		"port", cfg.Port,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
