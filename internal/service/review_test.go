package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/testhelpers"
	"github.com/swipebite/backend/internal/types"
)

func TestCreateReviewUpdatesDishAggregates(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	bob, _ := testhelpers.CreateUser(t, db, "bob")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	review, err := svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{
		DishID:  dish.ID,
		Rating:  5,
		Title:   "Incredible",
		Content: "Best noodles in town",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	_, err = svc.CreateReview(ctx, bob.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 2})
	require.NoError(t, err)

	var updated models.Dish
	require.NoError(t, db.First(&updated, "id = ?", dish.ID).Error)
	assert.InDelta(t, 3.5, updated.AverageRating, 0.001)
	assert.Equal(t, 2, updated.TotalRatings)
}

func TestCreateReviewRejectsSecondReview(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	_, err := svc.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 1})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestUpdateReviewRecomputesRating(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	review, err := svc.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 5})
	require.NoError(t, err)

	newRating := 2
	newTitle := "Changed my mind"
	updated, err := svc.UpdateReview(ctx, user.ID, review.ID, &types.UpdateReviewRequest{
		Rating: &newRating,
		Title:  &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, "Changed my mind", updated.Title)

	var fresh models.Dish
	require.NoError(t, db.First(&fresh, "id = ?", dish.ID).Error)
	assert.InDelta(t, 2, fresh.AverageRating, 0.001)
}

func TestUpdateReviewNotOwnedReadsAsNotFound(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	mallory, _ := testhelpers.CreateUser(t, db, "mallory")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	review, err := svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 4})
	require.NoError(t, err)

	rating := 1
	_, err = svc.UpdateReview(ctx, mallory.ID, review.ID, &types.UpdateReviewRequest{Rating: &rating})
	assert.Error(t, err)
}

func TestDeleteReviewClearsAggregates(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	user, _ := testhelpers.CreateUser(t, db, "alice")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	review, err := svc.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 4})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteReview(ctx, user.ID, review.ID))

	var fresh models.Dish
	require.NoError(t, db.First(&fresh, "id = ?", dish.ID).Error)
	assert.Zero(t, fresh.AverageRating)
	assert.Zero(t, fresh.TotalRatings)
}

func TestListReviewsFilters(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	bob, _ := testhelpers.CreateUser(t, db, "bob")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	padThai := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)
	curry := testhelpers.CreateDish(t, db, "Green Curry", cuisine.ID)

	_, err := svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{DishID: padThai.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, bob.ID, &types.CreateReviewRequest{DishID: padThai.ID, Rating: 3})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{DishID: curry.ID, Rating: 4})
	require.NoError(t, err)

	byDish, err := svc.ListReviews(ctx, ListReviewsParams{DishID: &padThai.ID})
	require.NoError(t, err)
	assert.Len(t, byDish, 2)

	byUser, err := svc.ListReviews(ctx, ListReviewsParams{UserID: &alice.ID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
	for _, review := range byUser {
		assert.Equal(t, "alice", review.AuthorUsername)
	}

	rating := 3
	byRating, err := svc.ListReviews(ctx, ListReviewsParams{Rating: &rating})
	require.NoError(t, err)
	require.Len(t, byRating, 1)
	assert.Equal(t, "bob", byRating[0].AuthorUsername)
}

func TestMyReviews(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	bob, _ := testhelpers.CreateUser(t, db, "bob")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	_, err := svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, bob.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 2})
	require.NoError(t, err)

	mine, err := svc.MyReviews(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].UserID)
}

func TestToggleHelpful(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	alice, _ := testhelpers.CreateUser(t, db, "alice")
	bob, _ := testhelpers.CreateUser(t, db, "bob")
	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	review, err := svc.CreateReview(ctx, alice.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: 5})
	require.NoError(t, err)

	marked, count, err := svc.ToggleHelpful(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	assert.True(t, marked)
	assert.Equal(t, 1, count)

	marked, count, err = svc.ToggleHelpful(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	assert.False(t, marked)
	assert.Equal(t, 0, count)

	var fresh models.Review
	require.NoError(t, db.First(&fresh, "id = ?", review.ID).Error)
	assert.Equal(t, 0, fresh.HelpfulCount)
}

func TestDishReviewSummary(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)
	ctx := context.Background()

	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	for i, rating := range []int{5, 5, 4, 2} {
		user, _ := testhelpers.CreateUser(t, db, "reviewer"+string(rune('a'+i)))
		_, err := svc.CreateReview(ctx, user.ID, &types.CreateReviewRequest{DishID: dish.ID, Rating: rating})
		require.NoError(t, err)
	}

	summary, err := svc.DishReviewSummary(ctx, dish.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, summary.TotalReviews)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)
	assert.EqualValues(t, 2, summary.Histogram["5"])
	assert.EqualValues(t, 1, summary.Histogram["4"])
	assert.EqualValues(t, 1, summary.Histogram["2"])
	assert.EqualValues(t, 0, summary.Histogram["1"])
}

func TestDishReviewSummaryEmptyDish(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewReviewService(db, nil)

	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	summary, err := svc.DishReviewSummary(context.Background(), dish.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalReviews)
	assert.Zero(t, summary.AverageRating)
}
