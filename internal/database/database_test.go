package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
)

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db, ""))

	// Every table should exist and accept rows
	user := models.User{
		ID:           uuid.New(),
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
	}
	require.NoError(t, db.Create(&user).Error)

	cuisine := models.Cuisine{ID: uuid.New(), Name: "Thai", Emoji: "🍜"}
	require.NoError(t, db.Create(&cuisine).Error)

	dish := models.Dish{
		ID:        uuid.New(),
		Name:      "Pad Thai",
		CuisineID: &cuisine.ID,
		MealType:  models.MealDinner,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&dish).Error)

	var count int64
	require.NoError(t, db.Model(&models.Dish{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Migrations are idempotent
	assert.NoError(t, RunMigrations(db, ""))
}
