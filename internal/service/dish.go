package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

// Dietary filter values accepted by list, feed and search endpoints.
const (
	DietaryVegetarian = "vegetarian"
	DietaryVegan      = "vegan"
	DietaryNonVeg     = "non_veg"
)

const similarDishLimit = 6

// ImageEnqueuer accepts dish ids whose images should be fetched in the
// background. Enqueue reports whether the id was accepted.
type ImageEnqueuer interface {
	Enqueue(dishID uuid.UUID) bool
}

// DishService handles dish CRUD, similarity and restaurant lookups.
type DishService struct {
	db     *gorm.DB
	images ImageEnqueuer
	log    *logger.Logger
}

// NewDishService creates a new DishService instance. The enqueuer may be
// nil, in which case dishes are created without a background image fetch.
func NewDishService(db *gorm.DB, images ImageEnqueuer, log *logger.Logger) *DishService {
	return &DishService{
		db:     db,
		images: images,
		log:    log,
	}
}

// ListDishesParams narrows the dish listing.
type ListDishesParams struct {
	CuisineID   *uuid.UUID
	MealType    string
	Dietary     string
	MaxCalories *int
	IsActive    *bool
	Limit       int
	Offset      int
}

// ListDishes returns dishes newest first, honoring the given filters.
func (s *DishService) ListDishes(ctx context.Context, params ListDishesParams) ([]models.Dish, error) {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).Preload("Cuisine")

	if params.CuisineID != nil {
		query = query.Where("cuisine_id = ?", *params.CuisineID)
	}
	if params.MealType != "" {
		query = query.Where("meal_type = ?", params.MealType)
	}
	query = applyDietaryFilter(query, params.Dietary)
	if params.MaxCalories != nil {
		query = query.Where("calories <= ?", *params.MaxCalories)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var dishes []models.Dish
	err := query.Order("created_at DESC").Limit(limit).Offset(params.Offset).Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// applyDietaryFilter narrows a dish query to vegetarian, vegan or non-veg
// rows. Unknown values leave the query untouched.
func applyDietaryFilter(query *gorm.DB, dietary string) *gorm.DB {
	switch dietary {
	case DietaryVegetarian:
		return query.Where("is_vegetarian = ?", true)
	case DietaryVegan:
		return query.Where("is_vegan = ?", true)
	case DietaryNonVeg:
		return query.Where("is_vegetarian = ?", false)
	}
	return query
}

// GetDish retrieves a dish with its cuisine and ingredients.
func (s *DishService) GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).
		Preload("Cuisine").
		Preload("Ingredients").
		Where("id = ?", id).
		First(&dish).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// DishDetail is a dish plus the restaurants serving it, cheapest first.
type DishDetail struct {
	Dish        models.Dish             `json:"dish"`
	Restaurants []models.RestaurantDish `json:"restaurants"`
}

// GetDishDetail returns the dish together with its serving restaurants.
func (s *DishService) GetDishDetail(ctx context.Context, id uuid.UUID) (*DishDetail, error) {
	dish, err := s.GetDish(ctx, id)
	if err != nil {
		return nil, err
	}

	var links []models.RestaurantDish
	err = s.db.WithContext(ctx).
		Preload("Restaurant").
		Where("dish_id = ? AND is_available = ?", id, true).
		Order("price ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	return &DishDetail{Dish: *dish, Restaurants: links}, nil
}

// CreateDish creates a dish with its ingredients. An unknown cuisine name
// is created on the fly; a missing image kicks off a background fetch.
func (s *DishService) CreateDish(ctx context.Context, req *types.CreateDishRequest) (*models.Dish, error) {
	dish := models.Dish{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		MealType:     req.MealType,
		ImageURL:     req.ImageURL,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		IsVegetarian: req.IsVegetarian,
		IsVegan:      req.IsVegan,
		IsGlutenFree: req.IsGlutenFree,
		SpiceLevel:   req.SpiceLevel,
		IsActive:     true,
		Embedding:    DishEmbedding(req.Name, req.Description),
	}
	if dish.MealType == "" {
		dish.MealType = models.MealDinner
	}

	if req.Cuisine != "" {
		cuisine, err := getOrCreateCuisine(s.db.WithContext(ctx), req.Cuisine, "")
		if err != nil {
			return nil, err
		}
		dish.CuisineID = &cuisine.ID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dish).Error; err != nil {
			return err
		}
		for _, in := range req.Ingredients {
			ingredient := models.DishIngredient{
				ID:         uuid.New(),
				DishID:     dish.ID,
				Name:       in.Name,
				IsAllergen: in.IsAllergen,
			}
			if err := tx.Create(&ingredient).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueImage(&dish)
	return s.GetDish(ctx, dish.ID)
}

// UpdateDish applies a partial update. Replacing ingredients swaps the
// whole set; name or description changes refresh the embedding.
func (s *DishService) UpdateDish(ctx context.Context, id uuid.UUID, req *types.UpdateDishRequest) (*models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&dish).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		dish.Name = *req.Name
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Name != nil || req.Description != nil {
		dish.Embedding = DishEmbedding(dish.Name, dish.Description)
	}
	if req.Cuisine != nil {
		if *req.Cuisine == "" {
			dish.CuisineID = nil
		} else {
			cuisine, err := getOrCreateCuisine(s.db.WithContext(ctx), *req.Cuisine, "")
			if err != nil {
				return nil, err
			}
			dish.CuisineID = &cuisine.ID
		}
	}
	if req.MealType != nil {
		dish.MealType = *req.MealType
	}
	if req.ImageURL != nil {
		dish.ImageURL = *req.ImageURL
	}
	if req.Calories != nil {
		dish.Calories = req.Calories
	}
	if req.Protein != nil {
		dish.Protein = req.Protein
	}
	if req.Carbs != nil {
		dish.Carbs = req.Carbs
	}
	if req.Fat != nil {
		dish.Fat = req.Fat
	}
	if req.IsVegetarian != nil {
		dish.IsVegetarian = *req.IsVegetarian
	}
	if req.IsVegan != nil {
		dish.IsVegan = *req.IsVegan
	}
	if req.IsGlutenFree != nil {
		dish.IsGlutenFree = *req.IsGlutenFree
	}
	if req.SpiceLevel != nil {
		dish.SpiceLevel = *req.SpiceLevel
	}
	if req.IsActive != nil {
		dish.IsActive = *req.IsActive
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&dish).Error; err != nil {
			return err
		}
		if req.Ingredients != nil {
			if err := tx.Where("dish_id = ?", dish.ID).Delete(&models.DishIngredient{}).Error; err != nil {
				return err
			}
			for _, in := range *req.Ingredients {
				ingredient := models.DishIngredient{
					ID:         uuid.New(),
					DishID:     dish.ID,
					Name:       in.Name,
					IsAllergen: in.IsAllergen,
				}
				if err := tx.Create(&ingredient).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetDish(ctx, dish.ID)
}

// DeleteDish soft-deletes a dish.
func (s *DishService) DeleteDish(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Dish{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SimilarDishes returns up to six active dishes sharing the source dish's
// cuisine and meal type, best rated first. When the source dish carries a
// calorie count, candidates must land within 200 calories of it.
func (s *DishService) SimilarDishes(ctx context.Context, id uuid.UUID) ([]models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&dish).Error; err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Dish{}).
		Preload("Cuisine").
		Where("id != ? AND is_active = ?", dish.ID, true).
		Where("meal_type = ?", dish.MealType)
	if dish.CuisineID != nil {
		query = query.Where("cuisine_id = ?", *dish.CuisineID)
	}
	if dish.Calories != nil {
		query = query.Where("calories BETWEEN ? AND ?", *dish.Calories-200, *dish.Calories+200)
	}

	var similar []models.Dish
	err := query.Order("average_rating DESC").Limit(similarDishLimit).Find(&similar).Error
	if err != nil {
		return nil, err
	}
	return similar, nil
}

// ServingRestaurant is one restaurant serving a dish, with the distance
// from the caller and a rough delivery estimate.
type ServingRestaurant struct {
	Restaurant            models.Restaurant `json:"restaurant"`
	Price                 float64           `json:"price"`
	DistanceMiles         float64           `json:"distance_miles"`
	EstimatedDeliveryTime int               `json:"estimated_delivery_time"`
}

// DishRestaurantsResult is the payload of the dish restaurants lookup.
type DishRestaurantsResult struct {
	Dish        models.Dish         `json:"dish"`
	Restaurants []ServingRestaurant `json:"restaurants"`
	TotalCount  int                 `json:"total_count"`
}

// DishRestaurants finds the restaurants serving a dish. With caller
// coordinates the list is distance-filtered (default 10 miles) and sorted
// nearest first; without them every serving restaurant comes back,
// cheapest first. Delivery time is estimated at 8 minutes per mile.
func (s *DishService) DishRestaurants(ctx context.Context, dishID uuid.UUID, lat, lng *float64, maxMiles float64) (*DishRestaurantsResult, error) {
	dish, err := s.GetDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	var links []models.RestaurantDish
	err = s.db.WithContext(ctx).
		Preload("Restaurant").
		Where("dish_id = ? AND is_available = ?", dishID, true).
		Order("price ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	if maxMiles <= 0 {
		maxMiles = DefaultMaxDistanceMiles
	}

	ranked := lat != nil && lng != nil
	entries := make([]ServingRestaurant, 0, len(links))
	for _, link := range links {
		if link.Restaurant == nil || !link.Restaurant.IsActive {
			continue
		}
		entry := ServingRestaurant{Restaurant: *link.Restaurant, Price: link.Price}
		if ranked {
			if !link.Restaurant.HasLocation() {
				continue
			}
			distance := HaversineMiles(*lat, *lng, *link.Restaurant.Latitude, *link.Restaurant.Longitude)
			if distance > maxMiles {
				continue
			}
			entry.DistanceMiles = math.Round(distance*100) / 100
			entry.EstimatedDeliveryTime = int(distance * 8)
		}
		entries = append(entries, entry)
	}

	if ranked {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].DistanceMiles < entries[j].DistanceMiles
		})
	}

	return &DishRestaurantsResult{
		Dish:        *dish,
		Restaurants: entries,
		TotalCount:  len(entries),
	}, nil
}

// DishDeliveryLinks builds delivery deep links for a dish via its cheapest
// serving restaurant, falling back to a dish-name search when nothing
// serves it yet.
func (s *DishService) DishDeliveryLinks(ctx context.Context, dishID uuid.UUID, preferredApp string) ([]DeliveryLink, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", dishID).First(&dish).Error; err != nil {
		return nil, err
	}

	var link models.RestaurantDish
	err := s.db.WithContext(ctx).
		Preload("Restaurant").
		Where("dish_id = ? AND is_available = ?", dishID, true).
		Order("price ASC").
		First(&link).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return DeliveryLinks(dish.Name, preferredApp), nil
	}
	if link.Restaurant == nil {
		return DeliveryLinks(dish.Name, preferredApp), nil
	}
	return RestaurantDeliveryLinks(link.Restaurant, preferredApp), nil
}

// ListCuisines returns every cuisine, alphabetically.
func (s *DishService) ListCuisines(ctx context.Context) ([]models.Cuisine, error) {
	var cuisines []models.Cuisine
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&cuisines).Error; err != nil {
		return nil, err
	}
	return cuisines, nil
}

func (s *DishService) enqueueImage(dish *models.Dish) {
	if s.images == nil || dish.ImageURL != "" {
		return
	}
	if !s.images.Enqueue(dish.ID) {
		s.log.Warnw("image queue full, skipping dish", "dish_id", dish.ID, "name", dish.Name)
	}
}

// getOrCreateCuisine finds a cuisine by name, case-insensitively, creating
// it with a stock description when missing.
func getOrCreateCuisine(db *gorm.DB, name, emoji string) (*models.Cuisine, error) {
	name = strings.TrimSpace(name)
	var cuisine models.Cuisine
	err := db.Where("LOWER(name) = LOWER(?)", name).First(&cuisine).Error
	if err == nil {
		return &cuisine, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cuisine = models.Cuisine{
		ID:          uuid.New(),
		Name:        name,
		Emoji:       emoji,
		Description: name + " cuisine",
	}
	if err := db.Create(&cuisine).Error; err != nil {
		return nil, err
	}
	return &cuisine, nil
}
