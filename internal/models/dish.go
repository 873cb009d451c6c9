package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Meal types a dish may belong to
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
	MealDessert   = "dessert"
)

// ValidMealTypes lists every accepted meal type
var ValidMealTypes = []string{
	MealBreakfast, MealLunch, MealDinner, MealSnack, MealDessert,
}

// Cuisine groups dishes under a named style of cooking
type Cuisine struct {
	ID          uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Emoji       string         `gorm:"size:16;not null;default:'🍽️'" json:"emoji"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Dish is the unit of swiping. Swipe counters are denormalized here and
// updated in the same transaction as the swipe itself.
type Dish struct {
	ID               uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`
	Name             string           `gorm:"size:255;not null;index" json:"name"`
	Description      string           `gorm:"type:text" json:"description"`
	CuisineID        *uuid.UUID       `gorm:"type:varchar(36);index" json:"cuisine_id,omitempty"`
	Cuisine          *Cuisine         `gorm:"foreignKey:CuisineID;constraint:OnDelete:SET NULL" json:"cuisine,omitempty"`
	MealType         string           `gorm:"size:20;not null;default:'dinner';index" json:"meal_type"`
	ImageURL         string           `gorm:"size:512" json:"image_url"`
	Calories         *int             `json:"calories"`
	Protein          *int             `json:"protein"`
	Carbs            *int             `json:"carbs"`
	Fat              *int             `json:"fat"`
	IsVegetarian     bool             `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan          bool             `gorm:"not null;default:false" json:"is_vegan"`
	IsGlutenFree     bool             `gorm:"not null;default:false" json:"is_gluten_free"`
	SpiceLevel       int              `gorm:"not null;default:0;check:spice_level >= 0 AND spice_level <= 5" json:"spice_level"`
	AverageRating    float64          `gorm:"not null;default:0" json:"average_rating"`
	TotalRatings     int              `gorm:"not null;default:0" json:"total_ratings"`
	TotalSwipes      int              `gorm:"not null;default:0" json:"total_swipes"`
	TotalRightSwipes int              `gorm:"not null;default:0" json:"total_right_swipes"`
	IsActive         bool             `gorm:"not null;default:true;index" json:"is_active"`
	Embedding        pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
	Ingredients      []DishIngredient `gorm:"foreignKey:DishID" json:"ingredients,omitempty"`
}

// MatchRate returns the share of swipes that went right, as a percentage
// rounded to one decimal place
func (d *Dish) MatchRate() float64 {
	if d.TotalSwipes == 0 {
		return 0
	}
	rate := float64(d.TotalRightSwipes) / float64(d.TotalSwipes) * 100
	return math.Round(rate*10) / 10
}

// DishIngredient is one named ingredient of a dish. Allergen-flagged
// ingredients are matched against profile allergies during filtering.
type DishIngredient struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	DishID     uuid.UUID `gorm:"type:varchar(36);not null;index" json:"dish_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	IsAllergen bool      `gorm:"not null;default:false" json:"is_allergen"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
