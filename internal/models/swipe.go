package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Swipe directions
const (
	SwipeLeft  = "left"
	SwipeRight = "right"
)

// Blacklist entry kinds
const (
	BlacklistDish       = "dish"
	BlacklistIngredient = "ingredient"
	BlacklistCuisine    = "cuisine"
)

// ValidBlacklistTypes lists every accepted blacklist kind
var ValidBlacklistTypes = []string{BlacklistDish, BlacklistIngredient, BlacklistCuisine}

// SwipeAction records a user's verdict on a dish. One row per user and
// dish; swiping the same dish again updates the direction in place. No
// soft delete: uniqueness must hold across re-swipes.
type SwipeAction struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_swipe" json:"user_id"`
	DishID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_swipe;index" json:"dish_id"`
	Dish      *Dish     `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Direction string    `gorm:"size:10;not null" json:"direction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRight reports whether this swipe was a like
func (s *SwipeAction) IsRight() bool {
	return s.Direction == SwipeRight
}

// SwipeSession groups the swipes of one sitting, with the filters it ran
// under. At most one session per user is open at a time; starting a new
// one closes the previous.
type SwipeSession struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	TotalSwipes    int        `gorm:"not null;default:0" json:"total_swipes"`
	RightSwipes    int        `gorm:"not null;default:0" json:"right_swipes"`
	LeftSwipes     int        `gorm:"not null;default:0" json:"left_swipes"`
	StartedAt      time.Time  `gorm:"not null" json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	CuisineFilter  string     `gorm:"size:100" json:"cuisine_filter"`
	MealTypeFilter string     `gorm:"size:50" json:"meal_type_filter"`
}

// IsOpen reports whether the session is still running
func (s *SwipeSession) IsOpen() bool {
	return s.EndedAt == nil
}

// MatchRate returns the session's right-swipe percentage to one decimal,
// zero when nothing was swiped
func (s *SwipeSession) MatchRate() float64 {
	if s.TotalSwipes == 0 {
		return 0
	}
	rate := float64(s.RightSwipes) / float64(s.TotalSwipes) * 100
	return math.Round(rate*10) / 10
}

// Favorite marks a dish a user wants to keep handy
type Favorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_favorite" json:"user_id"`
	DishID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_favorite" json:"dish_id"`
	Dish      *Dish     `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteRestaurant marks a restaurant a user wants to keep handy
type FavoriteRestaurant struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_restaurant_favorite" json:"user_id"`
	RestaurantID uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_restaurant_favorite" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	Notes        string      `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time   `json:"created_at"`
}

// BlacklistItem is something a user wants kept out of every
// recommendation surface: a specific dish, an ingredient, or a whole
// cuisine. Dish entries also carry the dish FK so the feed can exclude
// by id.
type BlacklistItem struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	BlacklistType string     `gorm:"size:20;not null" json:"blacklist_type"`
	ItemName      string     `gorm:"size:200;not null" json:"item_name"`
	Reason        string     `gorm:"type:text" json:"reason"`
	DishID        *uuid.UUID `gorm:"type:varchar(36);index" json:"dish_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
