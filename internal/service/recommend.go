package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
)

var ErrNothingToRecommend = errors.New("no dishes left to recommend")

const recommendationBatchSize = 10

// RecommendService builds personalized dish picks from the profile and
// swipe history.
type RecommendService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewRecommendService creates a new RecommendService instance.
func NewRecommendService(db *gorm.DB, log *logger.Logger) *RecommendService {
	return &RecommendService{db: db, log: log}
}

// recommendationPool assembles the base query every recommendation draws
// from: active, unswiped, diet-compatible, allergen-free, not blacklisted.
func (r *RecommendService) recommendationPool(ctx context.Context, userID uuid.UUID, profile *models.UserProfile) (*gorm.DB, error) {
	var excluded []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.SwipeAction{}).
		Where("user_id = ?", userID).
		Pluck("dish_id", &excluded).Error
	if err != nil {
		return nil, err
	}

	var blockedIDs []uuid.UUID
	err = r.db.WithContext(ctx).Model(&models.BlacklistItem{}).
		Where("user_id = ? AND blacklist_type = ? AND dish_id IS NOT NULL", userID, models.BlacklistDish).
		Pluck("dish_id", &blockedIDs).Error
	if err != nil {
		return nil, err
	}
	excluded = append(excluded, blockedIDs...)

	if profile != nil && len(profile.Allergies) > 0 {
		allergenIDs, err := dishIDsWithAllergens(ctx, r.db, profile.Allergies)
		if err != nil {
			return nil, err
		}
		excluded = append(excluded, allergenIDs...)
	}

	query := r.db.WithContext(ctx).Model(&models.Dish{}).Where("is_active = ?", true)
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}

	if profile != nil {
		switch profile.DietType {
		case models.DietVegetarian:
			query = applyDietaryFilter(query, DietaryVegetarian)
		case models.DietVegan:
			query = applyDietaryFilter(query, DietaryVegan)
		}
	}
	return query, nil
}

// Recommendations draws up to ten random unswiped dishes matching the
// user's diet, allergies and calorie goal. Favorite cuisines narrow the
// pool when they leave something to pick from; the per-meal calorie cap
// is a third of the daily goal.
func (r *RecommendService) Recommendations(ctx context.Context, userID uuid.UUID) ([]models.Dish, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := r.recommendationPool(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	if profile != nil && profile.DailyCalorieGoal != nil && *profile.DailyCalorieGoal > 0 {
		pool = pool.Where("calories IS NULL OR calories <= ?", *profile.DailyCalorieGoal/3)
	}

	preferCuisines := false
	if profile != nil && len(profile.FavoriteCuisines) > 0 {
		var n int64
		err := pool.Session(&gorm.Session{}).
			Joins("JOIN cuisines ON cuisines.id = dishes.cuisine_id").
			Where("cuisines.name IN ?", []string(profile.FavoriteCuisines)).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		preferCuisines = n > 0
	}

	query := pool.Session(&gorm.Session{})
	if preferCuisines {
		query = query.
			Joins("JOIN cuisines ON cuisines.id = dishes.cuisine_id").
			Where("cuisines.name IN ?", []string(profile.FavoriteCuisines))
	}

	var dishes []models.Dish
	err = query.
		Preload("Cuisine").
		Order("RANDOM()").
		Limit(recommendationBatchSize).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// Surprise picks one random dish the user has never swiped on, honoring
// diet, allergies and the blacklist but ignoring cuisine preferences.
func (r *RecommendService) Surprise(ctx context.Context, userID uuid.UUID) (*models.Dish, error) {
	profile, err := r.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	pool, err := r.recommendationPool(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	var dishes []models.Dish
	err = pool.
		Preload("Cuisine").
		Preload("Ingredients").
		Order("RANDOM()").
		Limit(1).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return nil, ErrNothingToRecommend
	}
	return &dishes[0], nil
}

func (r *RecommendService) loadProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
