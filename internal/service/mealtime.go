package service

import (
	"time"

	"github.com/swipebite/backend/internal/models"
)

// MealTypeForHour maps an hour of day onto the meal being eaten then:
// 5-10 breakfast, 11-15 lunch, everything else dinner.
func MealTypeForHour(hour int) string {
	if hour >= 5 && hour < 11 {
		return models.MealBreakfast
	}
	if hour >= 11 && hour < 16 {
		return models.MealLunch
	}
	return models.MealDinner
}

// CurrentMealType returns the meal type for the given moment in its own
// location.
func CurrentMealType(now time.Time) string {
	return MealTypeForHour(now.Hour())
}

// CurrentMealWindow returns the start of the current eating hour and its
// meal type.
func CurrentMealWindow(now time.Time) (time.Time, string) {
	start := now.Truncate(time.Hour)
	return start, CurrentMealType(now)
}
