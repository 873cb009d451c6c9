package testhelpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

// TestJWTSecret signs tokens in tests.
const TestJWTSecret = "test-jwt-secret"

// CreateUser inserts a user with an empty profile and returns both.
func CreateUser(t *testing.T, db *gorm.DB, username string) (*models.User, *models.UserProfile) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	profile := &models.UserProfile{
		ID:       uuid.New(),
		UserID:   user.ID,
		DietType: "none",
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return user, profile
}

// CreateStaffUser inserts a user with the staff flag set.
func CreateStaffUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user, _ := CreateUser(t, db, username)
	if err := db.Model(user).Update("is_staff", true).Error; err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}
	user.IsStaff = true
	return user
}

// MintToken issues a 24h HS256 token for the user, signed with
// TestJWTSecret, matching what the auth service hands out.
func MintToken(t *testing.T, user *models.User) string {
	t.Helper()

	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			Subject:   user.ID.String(),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

// CreateCuisine inserts a cuisine row.
func CreateCuisine(t *testing.T, db *gorm.DB, name string) *models.Cuisine {
	t.Helper()

	cuisine := &models.Cuisine{ID: uuid.New(), Name: name, Emoji: "🍽️"}
	if err := db.Create(cuisine).Error; err != nil {
		t.Fatalf("failed to create cuisine: %v", err)
	}
	return cuisine
}

// CreateDish inserts an active dish in the given cuisine.
func CreateDish(t *testing.T, db *gorm.DB, name string, cuisineID uuid.UUID) *models.Dish {
	t.Helper()

	dish := &models.Dish{
		ID:        uuid.New(),
		Name:      name,
		CuisineID: &cuisineID,
		MealType:  "dinner",
		IsActive:  true,
		Embedding: pgvector.NewVector([]float32{float32(len(name)), 0, 0}),
	}
	if err := db.Create(dish).Error; err != nil {
		t.Fatalf("failed to create dish: %v", err)
	}
	return dish
}

// CreateRestaurant inserts an active restaurant at the given coordinates.
func CreateRestaurant(t *testing.T, db *gorm.DB, name, city string, lat, lng float64) *models.Restaurant {
	t.Helper()

	restaurant := &models.Restaurant{
		ID:        uuid.New(),
		Name:      name,
		City:      city,
		Latitude:  &lat,
		Longitude: &lng,
		IsActive:  true,
	}
	if err := db.Create(restaurant).Error; err != nil {
		t.Fatalf("failed to create restaurant: %v", err)
	}
	return restaurant
}

// LinkDish puts a dish on a restaurant menu at the given price.
func LinkDish(t *testing.T, db *gorm.DB, restaurantID, dishID uuid.UUID, price float64) *models.RestaurantDish {
	t.Helper()

	link := &models.RestaurantDish{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		DishID:       dishID,
		Price:        price,
		IsAvailable:  true,
	}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to link dish: %v", err)
	}
	return link
}
