package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/testhelpers"
	"github.com/swipebite/backend/internal/types"
)

func newSwipeService(t *testing.T) (*SwipeService, *testFixture) {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	user, _ := testhelpers.CreateUser(t, db, "swiper")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	svc := NewSwipeService(db, nil, logger.NewNop())
	return svc, &testFixture{db: db, user: user, cuisine: cuisine}
}

type testFixture struct {
	db      *gorm.DB
	user    *models.User
	cuisine *models.Cuisine
}

func TestSwipeCreatesOneRowPerDish(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	swipe, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: dish.ID, Direction: models.SwipeRight})
	require.NoError(t, err)
	assert.Equal(t, models.SwipeRight, swipe.Direction)
	require.NotNil(t, swipe.Dish)

	// A repeat swipe flips the direction instead of adding a row.
	swipe, err = svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: dish.ID, Direction: models.SwipeLeft})
	require.NoError(t, err)
	assert.Equal(t, models.SwipeLeft, swipe.Direction)

	var count int64
	require.NoError(t, fx.db.Model(&models.SwipeAction{}).Where("user_id = ?", fx.user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Dish counters keep full history: two swipes, one of them right.
	var updated models.Dish
	require.NoError(t, fx.db.First(&updated, "id = ?", dish.ID).Error)
	assert.Equal(t, 2, updated.TotalSwipes)
	assert.Equal(t, 1, updated.TotalRightSwipes)
}

func TestSwipeUnknownDish(t *testing.T) {
	svc, fx := newSwipeService(t)

	_, err := svc.Swipe(context.Background(), fx.user.ID, &types.SwipeRequest{DishID: uuid.New(), Direction: models.SwipeRight})
	assert.Error(t, err)
}

func TestSwipeUpdatesOpenSession(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	first := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	second := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)

	session, err := svc.StartSession(ctx, fx.user.ID, &types.StartSessionRequest{})
	require.NoError(t, err)

	_, err = svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: first.ID, Direction: models.SwipeRight})
	require.NoError(t, err)
	_, err = svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: second.ID, Direction: models.SwipeLeft})
	require.NoError(t, err)

	ended, err := svc.EndSession(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, ended.ID)
	assert.Equal(t, 2, ended.TotalSwipes)
	assert.Equal(t, 1, ended.RightSwipes)
	assert.Equal(t, 1, ended.LeftSwipes)
	require.NotNil(t, ended.EndedAt)
}

func TestStartSessionClosesPrevious(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, fx.user.ID, &types.StartSessionRequest{MealTypeFilter: "dinner"})
	require.NoError(t, err)

	second, err := svc.StartSession(ctx, fx.user.ID, &types.StartSessionRequest{})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	var open int64
	require.NoError(t, fx.db.Model(&models.SwipeSession{}).
		Where("user_id = ? AND ended_at IS NULL", fx.user.ID).
		Count(&open).Error)
	assert.EqualValues(t, 1, open)
}

func TestEndSessionWithoutOpenOne(t *testing.T) {
	svc, fx := newSwipeService(t)

	_, err := svc.EndSession(context.Background(), fx.user.ID)
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestHistoryFiltersByDirection(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	liked := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	passed := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)

	_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: liked.ID, Direction: models.SwipeRight})
	require.NoError(t, err)
	_, err = svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: passed.ID, Direction: models.SwipeLeft})
	require.NoError(t, err)

	all, err := svc.History(ctx, fx.user.ID, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	rights, err := svc.History(ctx, fx.user.ID, models.SwipeRight, 0)
	require.NoError(t, err)
	require.Len(t, rights, 1)
	assert.Equal(t, liked.ID, rights[0].DishID)
}

func TestFeedExcludesRightSwipesAndBlocks(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	liked := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	blocked := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)
	fresh := testhelpers.CreateDish(t, fx.db, "Tom Yum", fx.cuisine.ID)

	_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: liked.ID, Direction: models.SwipeRight})
	require.NoError(t, err)
	_, err = svc.BlockDish(ctx, fx.user.ID, blocked.ID)
	require.NoError(t, err)

	result, err := svc.Feed(ctx, fx.user.ID, FeedParams{Meal: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalAvailable)
	require.NotNil(t, result.Dish)
	assert.Equal(t, fresh.ID, result.Dish.ID)
}

func TestFeedLeftSwipesComeBack(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: dish.ID, Direction: models.SwipeLeft})
	require.NoError(t, err)

	result, err := svc.Feed(ctx, fx.user.ID, FeedParams{Meal: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalAvailable)
}

func TestFeedDietaryFilter(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	veg := testhelpers.CreateDish(t, fx.db, "Veggie Spring Rolls", fx.cuisine.ID)
	require.NoError(t, fx.db.Model(veg).Update("is_vegetarian", true).Error)
	testhelpers.CreateDish(t, fx.db, "Beef Satay", fx.cuisine.ID)

	result, err := svc.Feed(ctx, fx.user.ID, FeedParams{Meal: "all", Dietary: DietaryVegetarian})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalAvailable)
	require.NotNil(t, result.Dish)
	assert.Equal(t, veg.ID, result.Dish.ID)
}

func TestFeedProfileAllergyExclusion(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()

	risky := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	require.NoError(t, fx.db.Create(&models.DishIngredient{
		ID:         uuid.New(),
		DishID:     risky.ID,
		Name:       "Roasted Peanuts",
		IsAllergen: true,
	}).Error)
	safe := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)

	require.NoError(t, fx.db.Model(&models.UserProfile{}).
		Where("user_id = ?", fx.user.ID).
		Update("allergies", models.StringList{"peanut"}).Error)

	result, err := svc.Feed(ctx, fx.user.ID, FeedParams{Meal: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalAvailable)
	require.NotNil(t, result.Dish)
	assert.Equal(t, safe.ID, result.Dish.ID)
}

func TestFeedEmptyPool(t *testing.T) {
	svc, fx := newSwipeService(t)

	result, err := svc.Feed(context.Background(), fx.user.ID, FeedParams{Meal: "all"})
	require.NoError(t, err)
	assert.Nil(t, result.Dish)
	assert.Zero(t, result.TotalAvailable)
}

func TestMatchesAndSuggestions(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	liked := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	unswiped := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)

	other := testhelpers.CreateCuisine(t, fx.db, "Italian")
	testhelpers.CreateDish(t, fx.db, "Margherita Pizza", other.ID)

	_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: liked.ID, Direction: models.SwipeRight})
	require.NoError(t, err)

	result, err := svc.Matches(ctx, fx.user.ID, nil, "")
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, liked.ID, result.Matches[0].DishID)

	// Suggestions come from matched cuisines only and skip swiped dishes.
	require.Len(t, result.Suggested, 1)
	assert.Equal(t, unswiped.ID, result.Suggested[0].ID)
}

func TestDeleteMatch(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: dish.ID, Direction: models.SwipeRight})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMatch(ctx, fx.user.ID, dish.ID))
	assert.ErrorIs(t, svc.DeleteMatch(ctx, fx.user.ID, dish.ID), ErrSwipeNotFound)

	// The dish is swipeable again.
	result, err := svc.Feed(ctx, fx.user.ID, FeedParams{Meal: "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.TotalAvailable)
}

func TestStats(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	first := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)
	second := testhelpers.CreateDish(t, fx.db, "Green Curry", fx.cuisine.ID)
	third := testhelpers.CreateDish(t, fx.db, "Tom Yum", fx.cuisine.ID)

	for _, swipe := range []struct {
		dish      *models.Dish
		direction string
	}{
		{first, models.SwipeRight},
		{second, models.SwipeRight},
		{third, models.SwipeLeft},
	} {
		_, err := svc.Swipe(ctx, fx.user.ID, &types.SwipeRequest{DishID: swipe.dish.ID, Direction: swipe.direction})
		require.NoError(t, err)
	}

	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.FavoriteRequest{DishID: first.ID})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalSwipes)
	assert.EqualValues(t, 2, stats.RightSwipes)
	assert.EqualValues(t, 1, stats.LeftSwipes)
	assert.InDelta(t, 66.7, stats.MatchRate, 0.01)
	assert.Equal(t, "dinner", stats.MostSwipedMealType)
	assert.EqualValues(t, 1, stats.TotalFavorites)
	require.Len(t, stats.FavoriteCuisines, 1)
	assert.Equal(t, "Thai", stats.FavoriteCuisines[0].Name)
	assert.EqualValues(t, 2, stats.FavoriteCuisines[0].Count)
}

func TestStatsEmpty(t *testing.T) {
	svc, fx := newSwipeService(t)

	stats, err := svc.Stats(context.Background(), fx.user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSwipes)
	assert.Zero(t, stats.MatchRate)
	assert.Equal(t, "N/A", stats.MostSwipedMealType)
}

func TestAddFavoriteRejectsDuplicate(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	favorite, err := svc.AddFavorite(ctx, fx.user.ID, &types.FavoriteRequest{DishID: dish.ID, Notes: "must try"})
	require.NoError(t, err)
	assert.Equal(t, "must try", favorite.Notes)

	_, err = svc.AddFavorite(ctx, fx.user.ID, &types.FavoriteRequest{DishID: dish.ID})
	assert.ErrorIs(t, err, ErrDishFavorited)
}

func TestToggleFavorite(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	favorite, added, err := svc.ToggleFavorite(ctx, fx.user.ID, dish.ID)
	require.NoError(t, err)
	assert.True(t, added)
	require.NotNil(t, favorite)

	favorite, added, err = svc.ToggleFavorite(ctx, fx.user.ID, dish.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Nil(t, favorite)

	favorites, err := svc.ListFavorites(ctx, fx.user.ID)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestRemoveFavorite(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	favorite, err := svc.AddFavorite(ctx, fx.user.ID, &types.FavoriteRequest{DishID: dish.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveFavorite(ctx, fx.user.ID, favorite.ID))
	assert.ErrorIs(t, svc.RemoveFavorite(ctx, fx.user.ID, favorite.ID), ErrFavoriteNotFound)
}

func TestBlacklistLifecycle(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()

	item, err := svc.AddBlacklistItem(ctx, fx.user.ID, &types.BlacklistRequest{
		BlacklistType: models.BlacklistIngredient,
		ItemName:      "cilantro",
		Reason:        "tastes like soap",
	})
	require.NoError(t, err)

	items, err := svc.ListBlacklist(ctx, fx.user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "cilantro", items[0].ItemName)

	require.NoError(t, svc.RemoveBlacklistItem(ctx, fx.user.ID, item.ID))
	assert.ErrorIs(t, svc.RemoveBlacklistItem(ctx, fx.user.ID, item.ID), ErrBlacklistNotFound)
}

func TestBlockDishIdempotent(t *testing.T) {
	svc, fx := newSwipeService(t)
	ctx := context.Background()
	dish := testhelpers.CreateDish(t, fx.db, "Pad Thai", fx.cuisine.ID)

	first, err := svc.BlockDish(ctx, fx.user.ID, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BlacklistDish, first.BlacklistType)
	assert.Equal(t, dish.Name, first.ItemName)

	second, err := svc.BlockDish(ctx, fx.user.ID, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
