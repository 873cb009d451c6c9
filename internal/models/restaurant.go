package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Price ranges a restaurant may carry
const (
	PriceCheap     = "$"
	PriceModerate  = "$$"
	PriceExpensive = "$$$"
	PriceLuxury    = "$$$$"
)

// ValidPriceRanges lists every accepted price range
var ValidPriceRanges = []string{PriceCheap, PriceModerate, PriceExpensive, PriceLuxury}

// Restaurant is a place serving dishes. Rows discovered through Google Maps
// carry a GooglePlaceID and are upserted by it on re-discovery.
type Restaurant struct {
	ID            uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Address       string         `gorm:"size:512" json:"address"`
	City          string         `gorm:"size:100;index" json:"city"`
	State         string         `gorm:"size:50" json:"state"`
	ZipCode       string         `gorm:"size:10" json:"zip_code"`
	Latitude      *float64       `json:"latitude"`
	Longitude     *float64       `json:"longitude"`
	Phone         string         `gorm:"size:32" json:"phone"`
	Website       string         `gorm:"size:512" json:"website"`
	PriceRange    string         `gorm:"size:8;not null;default:'$$'" json:"price_range"`
	CuisineID     *uuid.UUID     `gorm:"type:varchar(36);index" json:"cuisine_id,omitempty"`
	Cuisine       *Cuisine       `gorm:"foreignKey:CuisineID" json:"cuisine,omitempty"`
	Rating        float64        `gorm:"not null;default:0" json:"rating"`
	TotalReviews  int            `gorm:"not null;default:0" json:"total_reviews"`
	HasUberEats   bool           `gorm:"not null;default:false" json:"has_uber_eats"`
	HasDoorDash   bool           `gorm:"not null;default:false" json:"has_doordash"`
	HasGrubhub    bool           `gorm:"not null;default:false" json:"has_grubhub"`
	UberEatsURL   string         `gorm:"size:512" json:"uber_eats_url,omitempty"`
	DoorDashURL   string         `gorm:"size:512" json:"doordash_url,omitempty"`
	GrubhubURL    string         `gorm:"size:512" json:"grubhub_url,omitempty"`
	GooglePlaceID *string        `gorm:"size:255;uniqueIndex" json:"google_place_id,omitempty"`
	DataID        string         `gorm:"size:255" json:"data_id,omitempty"`
	Thumbnail     string         `gorm:"size:512" json:"thumbnail,omitempty"`
	IsActive      bool           `gorm:"not null;default:true;index" json:"is_active"`
}

// FullAddress joins the street address with city, state and zip.
func (r *Restaurant) FullAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", r.Address, r.City, r.State, r.ZipCode)
}

// HasLocation reports whether the restaurant has coordinates set.
func (r *Restaurant) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// DeliveryOptions returns the names of the delivery services the
// restaurant is listed on.
func (r *Restaurant) DeliveryOptions() []string {
	options := make([]string, 0, 3)
	if r.HasUberEats {
		options = append(options, "Uber Eats")
	}
	if r.HasDoorDash {
		options = append(options, "DoorDash")
	}
	if r.HasGrubhub {
		options = append(options, "Grubhub")
	}
	return options
}

// RestaurantDish links a dish to a restaurant that serves it, with the
// price at that restaurant. A dish appears at most once per restaurant.
type RestaurantDish struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	RestaurantID uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_restaurant_dish" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`
	DishID       uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_restaurant_dish;index" json:"dish_id"`
	Dish         *Dish       `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Price        float64     `gorm:"not null;default:0" json:"price"`
	IsAvailable  bool        `gorm:"not null;default:true" json:"is_available"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
