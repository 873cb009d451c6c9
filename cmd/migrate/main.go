package main

import (
	"flag"
	"log"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/database"
	"github.com/swipebite/backend/internal/logger"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory holding hand-written SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(string(config.GetEnvironment()))
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	db, err := database.New(cfg, appLog)
	if err != nil {
		appLog.Fatalw("failed to connect to database", "error", err)
	}

	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		appLog.Fatalw("migration failed", "error", err)
	}

	appLog.Infow("schema up to date")
}
