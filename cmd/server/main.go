// Package main implements the entry point for the task tracking API
// server: JWT-authenticated task and comment management over PostgreSQL.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/tasktrack/tasktrack-api/internal/config"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("failed to set up database", "error", err)
		os.Exit(1)
	}

	if *migrateCmd != "" {
		err := runMigrations(context.Background(), db, *migrateCmd, appLogger)
		closeErr := db.Close()
		if err != nil {
			appLogger.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		if closeErr != nil {
			appLogger.Error("failed to close database", "error", closeErr)
		}
		return
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		appLogger.Error("failed to initialize application", "error", err)
		_ = db.Close()
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("server error", "error", err)
		os.Exit(1)
	}
}
