package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/logger"
)

// New opens the primary gorm connection used by every service
func New(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	log.Infow("connecting to database",
		"host", cfg.DBHost, "port", cfg.DBPort, "user", cfg.DBUser, "name", cfg.DBName)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error accessing connection pool: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Infow("database connection established")
	return db, nil
}

// HealthPool is a dedicated raw connection used only by the health
// endpoint, so health checks see the database even when the main pool
// is saturated
type HealthPool struct {
	*sql.DB
}

// NewHealthPool opens the health-check connection
func NewHealthPool(cfg *config.Config) (*HealthPool, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening health pool: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting health pool: %w", err)
	}

	return &HealthPool{db}, nil
}

// HealthCheck checks if the database is accessible
func (db *HealthPool) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
