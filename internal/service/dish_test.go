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

type fakeEnqueuer struct {
	ids  []uuid.UUID
	full bool
}

func (f *fakeEnqueuer) Enqueue(dishID uuid.UUID) bool {
	if f.full {
		return false
	}
	f.ids = append(f.ids, dishID)
	return true
}

func TestCreateDishWithIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	queue := &fakeEnqueuer{}
	svc := NewDishService(db, queue, logger.NewNop())
	ctx := context.Background()

	calories := 520
	dish, err := svc.CreateDish(ctx, &types.CreateDishRequest{
		Name:        "Pad Thai",
		Description: "Stir-fried rice noodles",
		Cuisine:     "Thai",
		MealType:    "dinner",
		Calories:    &calories,
		SpiceLevel:  2,
		Ingredients: []types.DishIngredientInput{
			{Name: "Rice Noodles"},
			{Name: "Peanuts", IsAllergen: true},
		},
	})
	require.NoError(t, err)
	assert.True(t, dish.IsActive)
	require.NotNil(t, dish.Cuisine)
	assert.Equal(t, "Thai", dish.Cuisine.Name)
	require.Len(t, dish.Ingredients, 2)

	// No image URL yet, so a background fetch was queued.
	require.Len(t, queue.ids, 1)
	assert.Equal(t, dish.ID, queue.ids[0])
}

func TestCreateDishReusesCuisineCaseInsensitively(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	existing := testhelpers.CreateCuisine(t, db, "Thai")

	dish, err := svc.CreateDish(ctx, &types.CreateDishRequest{Name: "Pad Thai", Cuisine: "thai"})
	require.NoError(t, err)
	require.NotNil(t, dish.CuisineID)
	assert.Equal(t, existing.ID, *dish.CuisineID)

	var count int64
	require.NoError(t, db.Model(&models.Cuisine{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateDishSkipsQueueWhenImagePresent(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	queue := &fakeEnqueuer{}
	svc := NewDishService(db, queue, logger.NewNop())

	_, err := svc.CreateDish(context.Background(), &types.CreateDishRequest{
		Name:     "Pad Thai",
		ImageURL: "https://img.example.com/pad-thai.jpg",
	})
	require.NoError(t, err)
	assert.Empty(t, queue.ids)
}

func TestCreateDishDefaultsMealType(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())

	dish, err := svc.CreateDish(context.Background(), &types.CreateDishRequest{Name: "Pad Thai"})
	require.NoError(t, err)
	assert.Equal(t, models.MealDinner, dish.MealType)
}

func TestUpdateDishReplacesIngredients(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	dish, err := svc.CreateDish(ctx, &types.CreateDishRequest{
		Name:        "Pad Thai",
		Ingredients: []types.DishIngredientInput{{Name: "Peanuts", IsAllergen: true}},
	})
	require.NoError(t, err)

	name := "Vegetable Pad Thai"
	vegetarian := true
	ingredients := []types.DishIngredientInput{{Name: "Tofu"}, {Name: "Rice Noodles"}}
	updated, err := svc.UpdateDish(ctx, dish.ID, &types.UpdateDishRequest{
		Name:         &name,
		IsVegetarian: &vegetarian,
		Ingredients:  &ingredients,
	})
	require.NoError(t, err)
	assert.Equal(t, "Vegetable Pad Thai", updated.Name)
	assert.True(t, updated.IsVegetarian)
	require.Len(t, updated.Ingredients, 2)
	for _, ingredient := range updated.Ingredients {
		assert.NotEqual(t, "Peanuts", ingredient.Name)
	}
}

func TestDeleteDish(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	cuisine := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", cuisine.ID)

	require.NoError(t, svc.DeleteDish(ctx, dish.ID))
	assert.ErrorIs(t, svc.DeleteDish(ctx, dish.ID), gorm.ErrRecordNotFound)

	_, err := svc.GetDish(ctx, dish.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListDishesFilters(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	italian := testhelpers.CreateCuisine(t, db, "Italian")

	veg := testhelpers.CreateDish(t, db, "Veggie Pad Thai", thai.ID)
	require.NoError(t, db.Model(veg).Updates(map[string]interface{}{
		"is_vegetarian": true, "calories": 500,
	}).Error)
	meat := testhelpers.CreateDish(t, db, "Beef Satay", thai.ID)
	require.NoError(t, db.Model(meat).Update("calories", 700).Error)
	testhelpers.CreateDish(t, db, "Carbonara", italian.ID)

	byCuisine, err := svc.ListDishes(ctx, ListDishesParams{CuisineID: &thai.ID})
	require.NoError(t, err)
	assert.Len(t, byCuisine, 2)

	maxCalories := 600
	filtered, err := svc.ListDishes(ctx, ListDishesParams{
		CuisineID:   &thai.ID,
		Dietary:     DietaryVegetarian,
		MaxCalories: &maxCalories,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, veg.ID, filtered[0].ID)
}

func TestSimilarDishes(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	italian := testhelpers.CreateCuisine(t, db, "Italian")

	source := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)
	sameCuisine := testhelpers.CreateDish(t, db, "Green Curry", thai.ID)
	testhelpers.CreateDish(t, db, "Carbonara", italian.ID)

	breakfast := testhelpers.CreateDish(t, db, "Thai Omelette", thai.ID)
	require.NoError(t, db.Model(breakfast).Update("meal_type", "breakfast").Error)

	similar, err := svc.SimilarDishes(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, sameCuisine.ID, similar[0].ID)
}

func TestSimilarDishesCalorieBand(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	source := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)
	require.NoError(t, db.Model(source).Update("calories", 500).Error)

	within := testhelpers.CreateDish(t, db, "Green Curry", thai.ID)
	require.NoError(t, db.Model(within).Update("calories", 650).Error)

	far := testhelpers.CreateDish(t, db, "Feast Platter", thai.ID)
	require.NoError(t, db.Model(far).Update("calories", 1200).Error)

	similar, err := svc.SimilarDishes(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, within.ID, similar[0].ID)
}

func TestDishRestaurantsRankedByDistance(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)

	near := testhelpers.CreateRestaurant(t, db, "Near Thai", "San Francisco", 37.7750, -122.4190)
	farther := testhelpers.CreateRestaurant(t, db, "Mission Thai", "San Francisco", 37.7599, -122.4148)
	outOfRange := testhelpers.CreateRestaurant(t, db, "LA Thai", "Los Angeles", 34.0522, -118.2437)
	testhelpers.LinkDish(t, db, near.ID, dish.ID, 14.00)
	testhelpers.LinkDish(t, db, farther.ID, dish.ID, 11.00)
	testhelpers.LinkDish(t, db, outOfRange.ID, dish.ID, 9.00)

	lat, lng := 37.7749, -122.4194
	result, err := svc.DishRestaurants(ctx, dish.ID, &lat, &lng, 10)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalCount)
	assert.Equal(t, near.ID, result.Restaurants[0].Restaurant.ID)
	assert.Equal(t, farther.ID, result.Restaurants[1].Restaurant.ID)
	assert.Greater(t, result.Restaurants[1].DistanceMiles, result.Restaurants[0].DistanceMiles)
}

func TestDishRestaurantsWithoutLocation(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)

	cheap := testhelpers.CreateRestaurant(t, db, "Cheap Thai", "San Francisco", 37.77, -122.41)
	pricey := testhelpers.CreateRestaurant(t, db, "Pricey Thai", "Los Angeles", 34.05, -118.24)
	testhelpers.LinkDish(t, db, cheap.ID, dish.ID, 9.50)
	testhelpers.LinkDish(t, db, pricey.ID, dish.ID, 18.00)

	// No caller coordinates: everyone serving the dish, cheapest first.
	result, err := svc.DishRestaurants(ctx, dish.ID, nil, nil, 0)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalCount)
	assert.Equal(t, cheap.ID, result.Restaurants[0].Restaurant.ID)
}

func TestDishDeliveryLinksFallsBackToDishSearch(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)

	links, err := svc.DishDeliveryLinks(ctx, dish.ID, "")
	require.NoError(t, err)
	require.NotEmpty(t, links)
	assert.Contains(t, links[0].URL, "Pad+Thai")
}

func TestGetDishDetailListsServingRestaurants(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())
	ctx := context.Background()

	thai := testhelpers.CreateCuisine(t, db, "Thai")
	dish := testhelpers.CreateDish(t, db, "Pad Thai", thai.ID)
	restaurant := testhelpers.CreateRestaurant(t, db, "Thai Palace", "San Francisco", 37.77, -122.41)
	testhelpers.LinkDish(t, db, restaurant.ID, dish.ID, 12.50)

	detail, err := svc.GetDishDetail(ctx, dish.ID)
	require.NoError(t, err)
	assert.Equal(t, dish.ID, detail.Dish.ID)
	require.Len(t, detail.Restaurants, 1)
	assert.Equal(t, 12.50, detail.Restaurants[0].Price)
}

func TestListCuisinesAlphabetical(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	svc := NewDishService(db, nil, logger.NewNop())

	testhelpers.CreateCuisine(t, db, "Thai")
	testhelpers.CreateCuisine(t, db, "Italian")
	testhelpers.CreateCuisine(t, db, "Mexican")

	cuisines, err := svc.ListCuisines(context.Background())
	require.NoError(t, err)
	require.Len(t, cuisines, 3)
	assert.Equal(t, "Italian", cuisines[0].Name)
	assert.Equal(t, "Mexican", cuisines[1].Name)
	assert.Equal(t, "Thai", cuisines[2].Name)
}
