package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
)

// allModels lists every table in AutoMigrate dependency order
func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.Cuisine{},
		&models.Dish{},
		&models.DishIngredient{},
		&models.Restaurant{},
		&models.RestaurantDish{},
		&models.SwipeAction{},
		&models.SwipeSession{},
		&models.Favorite{},
		&models.FavoriteRestaurant{},
		&models.BlacklistItem{},
		&models.Review{},
		&models.ReviewHelpful{},
		&models.TrendingDish{},
		&models.WeeklyRanking{},
		&models.CommunityChallenge{},
		&models.ChallengeParticipation{},
		&models.UserBadge{},
		&models.AIQueryLog{},
		&models.ConversationContext{},
	}
}

// RunMigrations brings the schema up to date. SQLite (tests) relies on GORM
// auto-migration; postgres additionally needs the pgvector extension for the
// dish embedding column, plus any hand-written SQL files in migrationsDir.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if db.Dialector.Name() == "sqlite" {
		return db.AutoMigrate(allModels()...)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to install vector extension: %w", err)
	}

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	if migrationsDir == "" {
		return nil
	}
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return nil
	}

	return applySQLMigrations(db, migrationsDir)
}

// applySQLMigrations executes SQL migration files in name order, recording
// each one in a migrations table so reruns are no-ops
func applySQLMigrations(db *gorm.DB, migrationsDir string) error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		var count int64
		if err := db.Table("migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if err := db.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}

		if err := db.Exec("INSERT INTO migrations (name) VALUES (?)", name).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
	}

	return nil
}
