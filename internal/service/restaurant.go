package service

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

var (
	ErrRestaurantFavorited = errors.New("restaurant already in favorites")
	ErrFavoriteNotFound    = errors.New("favorite not found")
)

// RestaurantService handles restaurant CRUD, nearby lookup and favorites.
type RestaurantService struct {
	db *gorm.DB
}

// NewRestaurantService creates a new RestaurantService instance
func NewRestaurantService(db *gorm.DB) *RestaurantService {
	return &RestaurantService{
		db: db,
	}
}

// ListRestaurantsParams narrows the restaurant listing.
type ListRestaurantsParams struct {
	City      string
	CuisineID *uuid.UUID
	IsActive  *bool
	Limit     int
	Offset    int
}

// ListRestaurants returns restaurants best rated first.
func (s *RestaurantService) ListRestaurants(ctx context.Context, params ListRestaurantsParams) ([]models.Restaurant, error) {
	query := s.db.WithContext(ctx).Model(&models.Restaurant{}).Preload("Cuisine")

	if params.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", params.City)
	}
	if params.CuisineID != nil {
		query = query.Where("cuisine_id = ?", *params.CuisineID)
	}
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var restaurants []models.Restaurant
	err := query.Order("rating DESC").Limit(limit).Offset(params.Offset).Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurant retrieves a restaurant with its cuisine.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Preload("Cuisine").Where("id = ?", id).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// RestaurantDetail is a restaurant plus its menu.
type RestaurantDetail struct {
	Restaurant models.Restaurant       `json:"restaurant"`
	Dishes     []models.RestaurantDish `json:"dishes"`
}

// GetRestaurantDetail returns the restaurant together with the dishes it
// serves, cheapest first.
func (s *RestaurantService) GetRestaurantDetail(ctx context.Context, id uuid.UUID) (*RestaurantDetail, error) {
	restaurant, err := s.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	var links []models.RestaurantDish
	err = s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Where("restaurant_id = ? AND is_available = ?", id, true).
		Order("price ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	return &RestaurantDetail{Restaurant: *restaurant, Dishes: links}, nil
}

// CreateRestaurant creates a restaurant.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, req *types.CreateRestaurantRequest) (*models.Restaurant, error) {
	restaurant := models.Restaurant{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Phone:       req.Phone,
		Website:     req.Website,
		PriceRange:  req.PriceRange,
		CuisineID:   req.CuisineID,
		HasUberEats: req.HasUberEats,
		HasDoorDash: req.HasDoorDash,
		HasGrubhub:  req.HasGrubhub,
		UberEatsURL: req.UberEatsURL,
		DoorDashURL: req.DoorDashURL,
		GrubhubURL:  req.GrubhubURL,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// UpdateRestaurant applies a partial update.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id uuid.UUID, req *types.UpdateRestaurantRequest) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Description != nil {
		restaurant.Description = *req.Description
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.City != nil {
		restaurant.City = *req.City
	}
	if req.State != nil {
		restaurant.State = *req.State
	}
	if req.ZipCode != nil {
		restaurant.ZipCode = *req.ZipCode
	}
	if req.Latitude != nil {
		restaurant.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		restaurant.Longitude = req.Longitude
	}
	if req.Phone != nil {
		restaurant.Phone = *req.Phone
	}
	if req.Website != nil {
		restaurant.Website = *req.Website
	}
	if req.PriceRange != nil {
		restaurant.PriceRange = *req.PriceRange
	}
	if req.CuisineID != nil {
		restaurant.CuisineID = req.CuisineID
	}
	if req.HasUberEats != nil {
		restaurant.HasUberEats = *req.HasUberEats
	}
	if req.HasDoorDash != nil {
		restaurant.HasDoorDash = *req.HasDoorDash
	}
	if req.HasGrubhub != nil {
		restaurant.HasGrubhub = *req.HasGrubhub
	}
	if req.UberEatsURL != nil {
		restaurant.UberEatsURL = *req.UberEatsURL
	}
	if req.DoorDashURL != nil {
		restaurant.DoorDashURL = *req.DoorDashURL
	}
	if req.GrubhubURL != nil {
		restaurant.GrubhubURL = *req.GrubhubURL
	}
	if req.IsActive != nil {
		restaurant.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// DeleteRestaurant soft-deletes a restaurant.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Restaurant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// NearbyRestaurant is a restaurant with its distance from the caller.
type NearbyRestaurant struct {
	Restaurant    models.Restaurant `json:"restaurant"`
	DistanceMiles float64           `json:"distance_miles"`
}

// Nearby returns active restaurants within the radius, nearest first.
// Restaurants without coordinates never appear.
func (s *RestaurantService) Nearby(ctx context.Context, lat, lng, radiusMiles float64) ([]NearbyRestaurant, error) {
	if radiusMiles <= 0 {
		radiusMiles = DefaultMaxDistanceMiles
	}

	var restaurants []models.Restaurant
	err := s.db.WithContext(ctx).
		Preload("Cuisine").
		Where("is_active = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", true).
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyRestaurant, 0, len(restaurants))
	for _, restaurant := range restaurants {
		distance := HaversineMiles(lat, lng, *restaurant.Latitude, *restaurant.Longitude)
		if distance > radiusMiles {
			continue
		}
		nearby = append(nearby, NearbyRestaurant{
			Restaurant:    restaurant,
			DistanceMiles: math.Round(distance*100) / 100,
		})
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceMiles < nearby[j].DistanceMiles
	})
	return nearby, nil
}

// FavoriteRestaurant saves a restaurant to the user's favorites.
func (s *RestaurantService) FavoriteRestaurant(ctx context.Context, userID, restaurantID uuid.UUID, notes string) (*models.FavoriteRestaurant, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		return nil, err
	}

	var existing models.FavoriteRestaurant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(&existing).Error
	if err == nil {
		return nil, ErrRestaurantFavorited
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	favorite := models.FavoriteRestaurant{
		ID:           uuid.New(),
		UserID:       userID,
		RestaurantID: restaurantID,
		Notes:        notes,
	}
	if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		return nil, err
	}
	favorite.Restaurant = &restaurant
	return &favorite, nil
}

// UnfavoriteRestaurant removes a restaurant from the user's favorites.
func (s *RestaurantService) UnfavoriteRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&models.FavoriteRestaurant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListFavoriteRestaurants returns the user's favorite restaurants, newest
// first.
func (s *RestaurantService) ListFavoriteRestaurants(ctx context.Context, userID uuid.UUID) ([]models.FavoriteRestaurant, error) {
	var favorites []models.FavoriteRestaurant
	err := s.db.WithContext(ctx).
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// AttachDish puts a dish on a restaurant's menu, updating price and
// availability when the link already exists.
func (s *RestaurantService) AttachDish(ctx context.Context, restaurantID uuid.UUID, req *types.AttachDishRequest) (*models.RestaurantDish, error) {
	var restaurant models.Restaurant
	if err := s.db.WithContext(ctx).Where("id = ?", restaurantID).First(&restaurant).Error; err != nil {
		return nil, err
	}
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", req.DishID).First(&dish).Error; err != nil {
		return nil, err
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	var link models.RestaurantDish
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND dish_id = ?", restaurantID, req.DishID).
		First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		link = models.RestaurantDish{
			ID:           uuid.New(),
			RestaurantID: restaurantID,
			DishID:       req.DishID,
			Price:        req.Price,
			IsAvailable:  available,
		}
		if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
			return nil, err
		}
		return &link, nil
	}
	if err != nil {
		return nil, err
	}

	link.Price = req.Price
	link.IsAvailable = available
	if err := s.db.WithContext(ctx).Save(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
