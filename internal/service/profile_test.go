package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/testhelpers"
	"github.com/swipebite/backend/internal/types"
)

func TestGetProfileCreatesMissingRow(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	require.NoError(t, db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserProfile{}).Error)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.UserID)

	again, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	diet := models.DietVegan
	allergies := []string{"peanut", "shellfish"}
	goal := 2000
	profile, err := svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{
		DietType:         &diet,
		Allergies:        &allergies,
		DailyCalorieGoal: &goal,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DietVegan, profile.DietType)
	assert.Equal(t, models.StringList{"peanut", "shellfish"}, profile.Allergies)

	// A second update with other fields leaves the first ones intact.
	bio := "Noodle enthusiast"
	profile, err = svc.UpdateProfile(ctx, user.ID, &types.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Noodle enthusiast", profile.Bio)
	assert.Equal(t, models.DietVegan, profile.DietType)
	require.NotNil(t, profile.DailyCalorieGoal)
	assert.Equal(t, 2000, *profile.DailyCalorieGoal)
}

func TestUpdateLocation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")

	lat, lng := 37.7749, -122.4194
	profile, err := svc.UpdateLocation(ctx, user.ID, &types.UpdateLocationRequest{
		Latitude:  &lat,
		Longitude: &lng,
		City:      "San Francisco",
	})
	require.NoError(t, err)
	assert.True(t, profile.HasLocation())
	assert.Equal(t, "San Francisco", profile.City)
}

func TestDashboard(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db)
	swipes := NewSwipeService(db, nil, logger.NewNop())
	reviews := NewReviewService(db, nil)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	liked := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)
	passed := testhelpers.CreateDish(t, db, "Green Curry", cuisine.ID)

	_, err := swipes.Swipe(ctx, user.ID, &types.SwipeRequest{DishID: liked.ID, Direction: models.SwipeRight})
	require.NoError(t, err)
	_, err = swipes.Swipe(ctx, user.ID, &types.SwipeRequest{DishID: passed.ID, Direction: models.SwipeLeft})
	require.NoError(t, err)
	_, err = swipes.AddFavorite(ctx, user.ID, &types.FavoriteRequest{DishID: liked.ID})
	require.NoError(t, err)
	_, err = reviews.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: liked.ID, Rating: 5})
	require.NoError(t, err)

	data, err := svc.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, data.Stats.TotalSwipes)
	assert.EqualValues(t, 1, data.Stats.RightSwipes)
	assert.EqualValues(t, 1, data.Stats.LeftSwipes)
	assert.EqualValues(t, 1, data.Stats.TotalMatches)
	assert.EqualValues(t, 1, data.Stats.TotalFavorites)
	assert.EqualValues(t, 1, data.Stats.TotalReviews)
	assert.Len(t, data.RecentSwipes, 2)
	assert.Len(t, data.RecentFavorites, 1)

	// Both swipes land on today, the last bar of the chart.
	require.Len(t, data.Chart, 7)
	last := data.Chart[6]
	assert.EqualValues(t, 1, last.Right)
	assert.EqualValues(t, 1, last.Left)
}

func TestExportSwipesCSV(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewProfileService(db)
	swipes := NewSwipeService(db, nil, logger.NewNop())
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	_, err := swipes.Swipe(ctx, user.ID, &types.SwipeRequest{DishID: dish.ID, Direction: models.SwipeRight})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportSwipesCSV(ctx, user.ID, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"dish", "cuisine", "direction", "swiped_at"}, records[0])
	assert.Equal(t, "Pad Thai", records[1][0])
	assert.Equal(t, "Thai", records[1][1])
	assert.Equal(t, models.SwipeRight, records[1][2])
}
