package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Diet types a profile may declare
const (
	DietNone        = "none"
	DietVegetarian  = "vegetarian"
	DietVegan       = "vegan"
	DietPescatarian = "pescatarian"
	DietKeto        = "keto"
	DietPaleo       = "paleo"
	DietHalal       = "halal"
	DietKosher      = "kosher"
)

// ValidDietTypes lists every accepted diet type
var ValidDietTypes = []string{
	DietNone, DietVegetarian, DietVegan, DietPescatarian,
	DietKeto, DietPaleo, DietHalal, DietKosher,
}

// Delivery apps. Profiles may prefer the first three; Postmates only
// appears in generated deep links.
const (
	DeliveryUberEats  = "ubereats"
	DeliveryDoorDash  = "doordash"
	DeliveryGrubhub   = "grubhub"
	DeliveryPostmates = "postmates"
)

// ValidDeliveryApps lists the apps a profile may set as preferred
var ValidDeliveryApps = []string{
	DeliveryUberEats, DeliveryDoorDash, DeliveryGrubhub,
}

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	FirstName    string         `gorm:"size:150" json:"first_name"`
	LastName     string         `gorm:"size:150" json:"last_name"`
	IsStaff      bool           `gorm:"not null;default:false" json:"is_staff"`
}

// UserProfile carries the taste, nutrition and location preferences that
// drive feed filtering and recommendations. One per user, created at signup.
type UserProfile struct {
	ID                   uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID               uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	City                 string         `gorm:"size:100" json:"city"`
	Bio                  string         `gorm:"size:500" json:"bio"`
	ProfilePictureURL    string         `gorm:"size:512" json:"profile_picture_url"`
	DietType             string         `gorm:"size:20;not null;default:'none'" json:"diet_type"`
	Allergies            StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	FavoriteCuisines     StringList     `gorm:"type:jsonb;not null;default:'[]'" json:"favorite_cuisines"`
	DailyCalorieGoal     *int           `json:"daily_calorie_goal"`
	ProteinGoal          *int           `json:"protein_goal"`
	CarbsGoal            *int           `json:"carbs_goal"`
	FatGoal              *int           `json:"fat_goal"`
	PreferredDeliveryApp string         `gorm:"size:20;not null;default:'ubereats'" json:"preferred_delivery_app"`
	MaxDistanceMiles     float64        `gorm:"not null;default:5" json:"max_distance_miles"`
	Latitude             *float64       `json:"latitude"`
	Longitude            *float64       `json:"longitude"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasLocation reports whether the profile carries usable coordinates
func (p *UserProfile) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// ProfileCompletion returns how much of the profile is filled in, as a
// percentage over the fields that matter for personalization
func (p *UserProfile) ProfileCompletion() int {
	total := 5
	filled := 0
	if p.City != "" {
		filled++
	}
	if p.Bio != "" {
		filled++
	}
	if p.DietType != "" && p.DietType != DietNone {
		filled++
	}
	if len(p.FavoriteCuisines) > 0 {
		filled++
	}
	if p.DailyCalorieGoal != nil && *p.DailyCalorieGoal > 0 {
		filled++
	}
	return filled * 100 / total
}
