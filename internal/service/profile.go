package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves a user's profile, creating an empty one when the
// user predates profile rows.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{ID: uuid.New(), UserID: userID}
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile updates a user's profile. Nil request fields are left
// untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DietType != nil {
		profile.DietType = *req.DietType
	}
	if req.Allergies != nil {
		profile.Allergies = models.StringList(*req.Allergies)
	}
	if req.FavoriteCuisines != nil {
		profile.FavoriteCuisines = models.StringList(*req.FavoriteCuisines)
	}
	if req.DailyCalorieGoal != nil {
		profile.DailyCalorieGoal = req.DailyCalorieGoal
	}
	if req.ProteinGoal != nil {
		profile.ProteinGoal = req.ProteinGoal
	}
	if req.CarbsGoal != nil {
		profile.CarbsGoal = req.CarbsGoal
	}
	if req.FatGoal != nil {
		profile.FatGoal = req.FatGoal
	}
	if req.PreferredDeliveryApp != nil {
		profile.PreferredDeliveryApp = *req.PreferredDeliveryApp
	}
	if req.MaxDistanceMiles != nil {
		profile.MaxDistanceMiles = *req.MaxDistanceMiles
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.ProfilePictureURL != nil {
		profile.ProfilePictureURL = *req.ProfilePictureURL
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateLocation sets the profile coordinates and optionally the city.
func (s *ProfileService) UpdateLocation(ctx context.Context, userID uuid.UUID, req *types.UpdateLocationRequest) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Latitude = req.Latitude
	profile.Longitude = req.Longitude
	if req.City != "" {
		profile.City = req.City
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// DashboardStats are the headline counters on the dashboard.
type DashboardStats struct {
	TotalSwipes    int64 `json:"total_swipes"`
	RightSwipes    int64 `json:"right_swipes"`
	LeftSwipes     int64 `json:"left_swipes"`
	TotalMatches   int64 `json:"total_matches"`
	TotalFavorites int64 `json:"total_favorites"`
	TotalReviews   int64 `json:"total_reviews"`
	TotalBadges    int64 `json:"total_badges"`
}

// DashboardChartDay is one bar of the 7-day swipe activity chart.
type DashboardChartDay struct {
	Label string `json:"label"`
	Right int64  `json:"right"`
	Left  int64  `json:"left"`
}

// DashboardData is the full dashboard payload.
type DashboardData struct {
	Stats             DashboardStats       `json:"stats"`
	RecentSwipes      []models.SwipeAction `json:"recent_swipes"`
	RecentFavorites   []models.Favorite    `json:"recent_favorites"`
	Chart             []DashboardChartDay  `json:"chart"`
	ProfileCompletion int                  `json:"profile_completion"`
}

// Dashboard aggregates the user's activity: totals, five most recent
// swipes and favorites, a 7-day right/left chart and profile completion.
func (s *ProfileService) Dashboard(ctx context.Context, userID uuid.UUID) (*DashboardData, error) {
	db := s.db.WithContext(ctx)

	var data DashboardData
	if err := db.Model(&models.SwipeAction{}).Where("user_id = ?", userID).Count(&data.Stats.TotalSwipes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.SwipeAction{}).Where("user_id = ? AND direction = ?", userID, models.SwipeRight).Count(&data.Stats.RightSwipes).Error; err != nil {
		return nil, err
	}
	data.Stats.LeftSwipes = data.Stats.TotalSwipes - data.Stats.RightSwipes
	data.Stats.TotalMatches = data.Stats.RightSwipes
	if err := db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&data.Stats.TotalFavorites).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Review{}).Where("user_id = ?", userID).Count(&data.Stats.TotalReviews).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&data.Stats.TotalBadges).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Dish").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&data.RecentSwipes).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Dish").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&data.RecentFavorites).Error; err != nil {
		return nil, err
	}

	chart, err := s.swipeChart(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	data.Chart = chart

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	data.ProfileCompletion = profile.ProfileCompletion()

	return &data, nil
}

// swipeChart builds the last seven days of right/left counts, oldest day
// first, labeled like "Jun 02".
func (s *ProfileService) swipeChart(ctx context.Context, userID uuid.UUID, now time.Time) ([]DashboardChartDay, error) {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -6)

	var swipes []models.SwipeAction
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, start).
		Find(&swipes).Error; err != nil {
		return nil, err
	}

	chart := make([]DashboardChartDay, 7)
	for i := range chart {
		chart[i].Label = start.AddDate(0, 0, i).Format("Jan 02")
	}
	for _, swipe := range swipes {
		idx := int(swipe.CreatedAt.Sub(start).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		if swipe.IsRight() {
			chart[idx].Right++
		} else {
			chart[idx].Left++
		}
	}
	return chart, nil
}

// ExportSwipesCSV streams the user's full swipe history as CSV.
func (s *ProfileService) ExportSwipesCSV(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	var swipes []models.SwipeAction
	if err := s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&swipes).Error; err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"dish", "cuisine", "direction", "swiped_at"}); err != nil {
		return err
	}
	for _, swipe := range swipes {
		name, cuisine := "", ""
		if swipe.Dish != nil {
			name = swipe.Dish.Name
			if swipe.Dish.Cuisine != nil {
				cuisine = swipe.Dish.Cuisine.Name
			}
		}
		record := []string{name, cuisine, swipe.Direction, swipe.CreatedAt.Format(time.RFC3339)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
