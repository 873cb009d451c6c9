package service

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
)

// DefaultMaxDistanceMiles bounds location narrowing when the caller has
// no explicit radius.
const DefaultMaxDistanceMiles = 10.0

const earthRadiusMiles = 3959

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// HaversineMiles returns the great-circle distance between two points
// in miles.
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlng1 := lng1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	rlng2 := lng2 * math.Pi / 180

	dlat := rlat2 - rlat1
	dlng := rlng2 - rlng1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusMiles * c
}

// NearbyRestaurantIDs returns the ids of active restaurants with
// coordinates within maxMiles of the given point. O(n) scan over the
// restaurant table; there is no spatial index.
func NearbyRestaurantIDs(db *gorm.DB, lat, lng, maxMiles float64) ([]uuid.UUID, error) {
	var restaurants []models.Restaurant
	err := db.
		Where("is_active = ?", true).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, r := range restaurants {
		if !r.HasLocation() {
			continue
		}
		if HaversineMiles(lat, lng, *r.Latitude, *r.Longitude) <= maxMiles {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// DishIDsNearby returns the ids of dishes available at restaurants
// within maxMiles of the given point.
func DishIDsNearby(db *gorm.DB, lat, lng, maxMiles float64) ([]uuid.UUID, error) {
	restaurantIDs, err := NearbyRestaurantIDs(db, lat, lng, maxMiles)
	if err != nil {
		return nil, err
	}
	if len(restaurantIDs) == 0 {
		return nil, nil
	}

	var dishIDs []uuid.UUID
	err = db.Model(&models.RestaurantDish{}).
		Where("restaurant_id IN ?", restaurantIDs).
		Where("is_available = ?", true).
		Distinct().
		Pluck("dish_id", &dishIDs).Error
	if err != nil {
		return nil, err
	}
	return dishIDs, nil
}
