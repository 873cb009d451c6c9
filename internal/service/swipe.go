package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

var (
	ErrNoActiveSession   = errors.New("no active session found")
	ErrDishFavorited     = errors.New("dish already in favorites")
	ErrSwipeNotFound     = errors.New("swipe not found")
	ErrBlacklistNotFound = errors.New("blacklist item not found")
)

const defaultBlockReason = "Blocked from swipe feed"

// SwipeService handles the swipe feed, swipe recording, sessions, stats,
// favorites and the blacklist.
type SwipeService struct {
	db     *gorm.DB
	badges *BadgeService
	log    *logger.Logger
}

// NewSwipeService creates a new SwipeService instance. The badge service
// may be nil; badges simply stop being awarded.
func NewSwipeService(db *gorm.DB, badges *BadgeService, log *logger.Logger) *SwipeService {
	return &SwipeService{
		db:     db,
		badges: badges,
		log:    log,
	}
}

// Swipe records a verdict on a dish. One row per (user, dish): a repeat
// swipe updates the direction. Dish counters and the open session's
// counters move with every call.
func (s *SwipeService) Swipe(ctx context.Context, userID uuid.UUID, req *types.SwipeRequest) (*models.SwipeAction, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", req.DishID).First(&dish).Error; err != nil {
		return nil, err
	}

	var swipe models.SwipeAction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND dish_id = ?", userID, req.DishID).First(&swipe).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			swipe = models.SwipeAction{
				ID:        uuid.New(),
				UserID:    userID,
				DishID:    req.DishID,
				Direction: req.Direction,
			}
			if err := tx.Create(&swipe).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			swipe.Direction = req.Direction
			if err := tx.Save(&swipe).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"total_swipes": gorm.Expr("total_swipes + 1"),
		}
		if req.Direction == models.SwipeRight {
			updates["total_right_swipes"] = gorm.Expr("total_right_swipes + 1")
		}
		if err := tx.Model(&models.Dish{}).Where("id = ?", req.DishID).UpdateColumns(updates).Error; err != nil {
			return err
		}

		var session models.SwipeSession
		err = tx.Where("user_id = ? AND ended_at IS NULL", userID).
			Order("started_at DESC").
			First(&session).Error
		if err == nil {
			sessionUpdates := map[string]interface{}{
				"total_swipes": gorm.Expr("total_swipes + 1"),
			}
			if req.Direction == models.SwipeRight {
				sessionUpdates["right_swipes"] = gorm.Expr("right_swipes + 1")
			} else {
				sessionUpdates["left_swipes"] = gorm.Expr("left_swipes + 1")
			}
			if err := tx.Model(&models.SwipeSession{}).Where("id = ?", session.ID).UpdateColumns(sessionUpdates).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.badges != nil {
		s.badges.AwardAfterSwipe(ctx, userID)
	}

	swipe.Dish = &dish
	return &swipe, nil
}

// History returns the user's swipes, newest first, optionally filtered by
// direction.
func (s *SwipeService) History(ctx context.Context, userID uuid.UUID, direction string, limit int) ([]models.SwipeAction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Where("user_id = ?", userID)
	if direction != "" {
		query = query.Where("direction = ?", direction)
	}

	var swipes []models.SwipeAction
	if err := query.Order("created_at DESC").Limit(limit).Find(&swipes).Error; err != nil {
		return nil, err
	}
	return swipes, nil
}

// FeedParams are the caller-supplied feed filters; all optional.
type FeedParams struct {
	Meal      string
	Dietary   string
	CuisineID *uuid.UUID
}

// FeedResult is one dish to swipe on, with the size of the pool it was
// drawn from. Dish is nil when the pool is empty.
type FeedResult struct {
	Dish           *models.Dish `json:"dish"`
	TotalAvailable int64        `json:"total_available"`
	MealType       string       `json:"meal_type"`
}

// feedConstraints is the assembled filter set for one feed query.
type feedConstraints struct {
	excluded  []uuid.UUID
	meal      string
	dietary   string
	cuisineID *uuid.UUID
	nearbyIDs []uuid.UUID
}

func (s *SwipeService) feedQuery(ctx context.Context, c feedConstraints) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).Where("is_active = ?", true)
	if len(c.excluded) > 0 {
		query = query.Where("id NOT IN ?", c.excluded)
	}
	if c.meal != "" {
		query = query.Where("meal_type = ?", c.meal)
	}
	query = applyDietaryFilter(query, c.dietary)
	if c.cuisineID != nil {
		query = query.Where("cuisine_id = ?", *c.cuisineID)
	}
	if c.nearbyIDs != nil {
		query = query.Where("id IN ?", c.nearbyIDs)
	}
	return query
}

// Feed draws one random eligible dish. Right-swiped and blacklisted dishes
// are out (left swipes come back around); the meal window defaults to the
// current one and falls back to all meals when it is empty; profile diet
// and allergies narrow the pool; location narrowing applies only when it
// leaves something to swipe.
func (s *SwipeService) Feed(ctx context.Context, userID uuid.UUID, params FeedParams) (*FeedResult, error) {
	var profile models.UserProfile
	hasProfile := true
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasProfile = false
	}

	excluded, err := s.excludedDishIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	cons := feedConstraints{excluded: excluded}

	switch params.Meal {
	case "all":
	case "":
		cons.meal = CurrentMealType(time.Now())
		var n int64
		if err := s.feedQuery(ctx, cons).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			cons.meal = ""
		}
	default:
		cons.meal = params.Meal
	}

	cons.dietary = params.Dietary
	if cons.dietary == "" && hasProfile {
		switch profile.DietType {
		case models.DietVegetarian:
			cons.dietary = DietaryVegetarian
		case models.DietVegan:
			cons.dietary = DietaryVegan
		}
	}

	if hasProfile && len(profile.Allergies) > 0 {
		allergenIDs, err := s.allergenDishIDs(ctx, profile.Allergies)
		if err != nil {
			return nil, err
		}
		cons.excluded = append(cons.excluded, allergenIDs...)
	}

	cons.cuisineID = params.CuisineID

	if hasProfile && profile.HasLocation() {
		nearbyIDs, err := DishIDsNearby(s.db.WithContext(ctx), *profile.Latitude, *profile.Longitude, DefaultMaxDistanceMiles)
		if err != nil {
			s.log.Warnw("nearby dish lookup failed, skipping location filter", "error", err)
		} else if len(nearbyIDs) > 0 {
			probe := cons
			probe.nearbyIDs = nearbyIDs
			var n int64
			if err := s.feedQuery(ctx, probe).Count(&n).Error; err != nil {
				return nil, err
			}
			if n > 0 {
				cons.nearbyIDs = nearbyIDs
			}
		}
	}

	var total int64
	if err := s.feedQuery(ctx, cons).Count(&total).Error; err != nil {
		return nil, err
	}

	result := &FeedResult{TotalAvailable: total, MealType: cons.meal}
	if total == 0 {
		return result, nil
	}

	var dishes []models.Dish
	err = s.feedQuery(ctx, cons).
		Preload("Cuisine").
		Preload("Ingredients").
		Order("RANDOM()").
		Limit(1).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	if len(dishes) > 0 {
		result.Dish = &dishes[0]
	}
	return result, nil
}

// excludedDishIDs collects the dish ids the feed must never serve: right
// swipes and dish-type blacklist entries.
func (s *SwipeService) excludedDishIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var rightIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.SwipeAction{}).
		Where("user_id = ? AND direction = ?", userID, models.SwipeRight).
		Pluck("dish_id", &rightIDs).Error
	if err != nil {
		return nil, err
	}

	var blockedIDs []uuid.UUID
	err = s.db.WithContext(ctx).Model(&models.BlacklistItem{}).
		Where("user_id = ? AND blacklist_type = ? AND dish_id IS NOT NULL", userID, models.BlacklistDish).
		Pluck("dish_id", &blockedIDs).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(rightIDs)+len(blockedIDs))
	merged := make([]uuid.UUID, 0, len(rightIDs)+len(blockedIDs))
	for _, id := range append(rightIDs, blockedIDs...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged, nil
}

func (s *SwipeService) allergenDishIDs(ctx context.Context, allergies []string) ([]uuid.UUID, error) {
	return dishIDsWithAllergens(ctx, s.db, allergies)
}

// dishIDsWithAllergens finds dishes with an allergen-flagged ingredient
// whose name contains any of the given allergies, case-insensitively.
func dishIDsWithAllergens(ctx context.Context, db *gorm.DB, allergies []string) ([]uuid.UUID, error) {
	patterns := make([]string, 0, len(allergies))
	for _, allergy := range allergies {
		allergy = strings.TrimSpace(allergy)
		if allergy == "" {
			continue
		}
		patterns = append(patterns, "%"+strings.ToLower(allergy)+"%")
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	match := db.Where("LOWER(name) LIKE ?", patterns[0])
	for _, pattern := range patterns[1:] {
		match = match.Or("LOWER(name) LIKE ?", pattern)
	}

	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&models.DishIngredient{}).
		Where("is_allergen = ?", true).
		Where(match).
		Distinct().
		Pluck("dish_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// MatchesResult is the user's right-swiped dishes plus suggestions drawn
// from the same cuisines.
type MatchesResult struct {
	Matches   []models.SwipeAction `json:"matches"`
	Suggested []models.Dish        `json:"suggested"`
}

// Matches lists right swipes on active dishes, newest first, with optional
// cuisine and dietary narrowing, plus up to ten unswiped suggestions from
// the matched cuisines.
func (s *SwipeService) Matches(ctx context.Context, userID uuid.UUID, cuisineID *uuid.UUID, dietary string) (*MatchesResult, error) {
	var matches []models.SwipeAction
	err := s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Joins("JOIN dishes ON dishes.id = swipe_actions.dish_id AND dishes.is_active = ?", true).
		Where("swipe_actions.user_id = ? AND swipe_actions.direction = ?", userID, models.SwipeRight).
		Order("swipe_actions.created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	filtered := matches[:0]
	for _, match := range matches {
		if match.Dish == nil {
			continue
		}
		if cuisineID != nil && (match.Dish.CuisineID == nil || *match.Dish.CuisineID != *cuisineID) {
			continue
		}
		if !dishMatchesDietary(match.Dish, dietary) {
			continue
		}
		filtered = append(filtered, match)
	}

	result := &MatchesResult{Matches: filtered}

	cuisineIDs := make([]uuid.UUID, 0, len(filtered))
	seen := make(map[uuid.UUID]struct{})
	for _, match := range filtered {
		if match.Dish.CuisineID == nil {
			continue
		}
		if _, dup := seen[*match.Dish.CuisineID]; dup {
			continue
		}
		seen[*match.Dish.CuisineID] = struct{}{}
		cuisineIDs = append(cuisineIDs, *match.Dish.CuisineID)
	}
	if len(cuisineIDs) == 0 {
		return result, nil
	}

	var swipedIDs []uuid.UUID
	err = s.db.WithContext(ctx).Model(&models.SwipeAction{}).
		Where("user_id = ?", userID).
		Pluck("dish_id", &swipedIDs).Error
	if err != nil {
		return nil, err
	}

	suggestedQuery := s.db.WithContext(ctx).Model(&models.Dish{}).
		Preload("Cuisine").
		Where("is_active = ? AND cuisine_id IN ?", true, cuisineIDs)
	if len(swipedIDs) > 0 {
		suggestedQuery = suggestedQuery.Where("id NOT IN ?", swipedIDs)
	}

	profileDietary := ""
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err == nil {
		switch profile.DietType {
		case models.DietVegetarian:
			profileDietary = DietaryVegetarian
		case models.DietVegan:
			profileDietary = DietaryVegan
		}
	}
	suggestedQuery = applyDietaryFilter(suggestedQuery, profileDietary)

	err = suggestedQuery.
		Order("average_rating DESC, total_right_swipes DESC").
		Limit(10).
		Find(&result.Suggested).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func dishMatchesDietary(dish *models.Dish, dietary string) bool {
	switch dietary {
	case DietaryVegetarian:
		return dish.IsVegetarian
	case DietaryVegan:
		return dish.IsVegan
	case DietaryNonVeg:
		return !dish.IsVegetarian
	}
	return true
}

// DeleteMatch removes the right swipe on a dish, putting it back in the
// feed. Dish counters keep their history.
func (s *SwipeService) DeleteMatch(ctx context.Context, userID, dishID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ? AND direction = ?", userID, dishID, models.SwipeRight).
		Delete(&models.SwipeAction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSwipeNotFound
	}
	return nil
}

// StartSession closes any open session and opens a new one with the given
// filters.
func (s *SwipeService) StartSession(ctx context.Context, userID uuid.UUID, req *types.StartSessionRequest) (*models.SwipeSession, error) {
	now := time.Now()
	session := models.SwipeSession{
		ID:             uuid.New(),
		UserID:         userID,
		StartedAt:      now,
		CuisineFilter:  req.CuisineFilter,
		MealTypeFilter: req.MealTypeFilter,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.SwipeSession{}).
			Where("user_id = ? AND ended_at IS NULL", userID).
			Update("ended_at", now).Error
		if err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// EndSession closes the open session and returns it with final counters.
func (s *SwipeService) EndSession(ctx context.Context, userID uuid.UUID) (*models.SwipeSession, error) {
	var session models.SwipeSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ended_at IS NULL", userID).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.EndedAt = &now
	if err := s.db.WithContext(ctx).Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// CuisineSwipeCount is one entry of the favorite-cuisines leaderboard in
// the swipe stats.
type CuisineSwipeCount struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}

// SwipeStats is the payload of the stats endpoint.
type SwipeStats struct {
	TotalSwipes        int64               `json:"total_swipes"`
	RightSwipes        int64               `json:"right_swipes"`
	LeftSwipes         int64               `json:"left_swipes"`
	MatchRate          float64             `json:"match_rate"`
	FavoriteCuisines   []CuisineSwipeCount `json:"favorite_cuisines"`
	MostSwipedMealType string              `json:"most_swiped_meal_type"`
	TotalFavorites     int64               `json:"total_favorites"`
	TotalSessions      int64               `json:"total_sessions"`
}

// Stats aggregates the user's swiping behavior.
func (s *SwipeService) Stats(ctx context.Context, userID uuid.UUID) (*SwipeStats, error) {
	db := s.db.WithContext(ctx)
	stats := &SwipeStats{MostSwipedMealType: "N/A"}

	if err := db.Model(&models.SwipeAction{}).Where("user_id = ?", userID).Count(&stats.TotalSwipes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SwipeAction{}).Where("user_id = ? AND direction = ?", userID, models.SwipeRight).Count(&stats.RightSwipes).Error; err != nil {
		return nil, err
	}
	stats.LeftSwipes = stats.TotalSwipes - stats.RightSwipes
	if stats.TotalSwipes > 0 {
		stats.MatchRate = roundTo(float64(stats.RightSwipes)/float64(stats.TotalSwipes)*100, 1)
	}

	err := db.Table("swipe_actions").
		Select("cuisines.name AS name, cuisines.emoji AS emoji, COUNT(*) AS count").
		Joins("JOIN dishes ON dishes.id = swipe_actions.dish_id").
		Joins("JOIN cuisines ON cuisines.id = dishes.cuisine_id").
		Where("swipe_actions.user_id = ? AND swipe_actions.direction = ?", userID, models.SwipeRight).
		Group("cuisines.name, cuisines.emoji").
		Order("count DESC").
		Limit(5).
		Scan(&stats.FavoriteCuisines).Error
	if err != nil {
		return nil, err
	}

	if stats.TotalSwipes > 0 {
		var top struct {
			MealType string
			Count    int64
		}
		err = db.Table("swipe_actions").
			Select("dishes.meal_type AS meal_type, COUNT(*) AS count").
			Joins("JOIN dishes ON dishes.id = swipe_actions.dish_id").
			Where("swipe_actions.user_id = ?", userID).
			Group("dishes.meal_type").
			Order("count DESC").
			Limit(1).
			Scan(&top).Error
		if err != nil {
			return nil, err
		}
		if top.MealType != "" {
			stats.MostSwipedMealType = top.MealType
		}
	}

	if err := db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&stats.TotalFavorites).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SwipeSession{}).Where("user_id = ?", userID).Count(&stats.TotalSessions).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ListFavorites returns the user's favorite dishes, newest first.
func (s *SwipeService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite saves a dish to the user's favorites.
func (s *SwipeService) AddFavorite(ctx context.Context, userID uuid.UUID, req *types.FavoriteRequest) (*models.Favorite, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", req.DishID).First(&dish).Error; err != nil {
		return nil, err
	}

	var existing models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ?", userID, req.DishID).
		First(&existing).Error
	if err == nil {
		return nil, ErrDishFavorited
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	favorite := models.Favorite{
		ID:     uuid.New(),
		UserID: userID,
		DishID: req.DishID,
		Notes:  req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		return nil, err
	}
	favorite.Dish = &dish
	return &favorite, nil
}

// ToggleFavorite adds the dish to favorites, or removes it when already
// there. The returned flag reports whether it was added.
func (s *SwipeService) ToggleFavorite(ctx context.Context, userID, dishID uuid.UUID) (*models.Favorite, bool, error) {
	var existing models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ?", userID, dishID).
		First(&existing).Error
	if err == nil {
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	favorite, err := s.AddFavorite(ctx, userID, &types.FavoriteRequest{DishID: dishID})
	if err != nil {
		return nil, false, err
	}
	return favorite, true, nil
}

// RemoveFavorite deletes one of the user's favorites by its id.
func (s *SwipeService) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListBlacklist returns the user's blacklist entries, newest first.
func (s *SwipeService) ListBlacklist(ctx context.Context, userID uuid.UUID) ([]models.BlacklistItem, error) {
	var items []models.BlacklistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddBlacklistItem records something the user never wants in their feed.
func (s *SwipeService) AddBlacklistItem(ctx context.Context, userID uuid.UUID, req *types.BlacklistRequest) (*models.BlacklistItem, error) {
	item := models.BlacklistItem{
		ID:            uuid.New(),
		UserID:        userID,
		BlacklistType: req.BlacklistType,
		ItemName:      req.ItemName,
		Reason:        req.Reason,
		DishID:        req.DishID,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveBlacklistItem deletes one of the user's blacklist entries.
func (s *SwipeService) RemoveBlacklistItem(ctx context.Context, userID, itemID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.BlacklistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBlacklistNotFound
	}
	return nil
}

// BlockDish is the one-tap blacklist shortcut from the feed. Blocking the
// same dish twice returns the existing entry.
func (s *SwipeService) BlockDish(ctx context.Context, userID, dishID uuid.UUID) (*models.BlacklistItem, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", dishID).First(&dish).Error; err != nil {
		return nil, err
	}

	var existing models.BlacklistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND blacklist_type = ? AND dish_id = ?", userID, models.BlacklistDish, dishID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := models.BlacklistItem{
		ID:            uuid.New(),
		UserID:        userID,
		BlacklistType: models.BlacklistDish,
		ItemName:      dish.Name,
		Reason:        defaultBlockReason,
		DishID:        &dishID,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
