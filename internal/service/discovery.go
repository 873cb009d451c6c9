package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/clients/serpapi"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

var ErrDiscoveryUnavailable = errors.New("restaurant discovery is not configured")

const (
	// maxDiscoveredDishes caps dish creation per discovery run so one
	// search cannot flood the catalog.
	maxDiscoveredDishes      = 25
	defaultDiscoveryQuery    = "restaurants"
	defaultDiscoveryLimit    = 10
	discoveredCuisineDefault = "International"
)

// DiscoveryService ingests restaurants and their menus from Google Maps
// search results into the local catalog.
type DiscoveryService struct {
	db     *gorm.DB
	serp   *serpapi.Client
	images ImageEnqueuer
	log    *logger.Logger
}

// NewDiscoveryService creates a new DiscoveryService instance. The
// enqueuer may be nil; discovered dishes then wait for the image sweep.
func NewDiscoveryService(db *gorm.DB, serp *serpapi.Client, images ImageEnqueuer, log *logger.Logger) *DiscoveryService {
	return &DiscoveryService{
		db:     db,
		serp:   serp,
		images: images,
		log:    log,
	}
}

// DiscoveryResult summarizes one discovery run.
type DiscoveryResult struct {
	Query              string `json:"query"`
	PlacesFound        int    `json:"places_found"`
	RestaurantsCreated int    `json:"restaurants_created"`
	RestaurantsUpdated int    `json:"restaurants_updated"`
	DishesCreated      int    `json:"dishes_created"`
	DishesLinked       int    `json:"dishes_linked"`
}

// Discover searches Google Maps around a coordinate, upserts the
// restaurants it finds by place id, and pulls menu highlights in as
// classified dishes linked to their restaurants. Dish creation stops at
// the per-run cap; re-running the same search updates rather than
// duplicates.
func (s *DiscoveryService) Discover(ctx context.Context, req *types.DiscoverRequest) (*DiscoveryResult, error) {
	if s.serp == nil || !s.serp.IsConfigured() {
		return nil, ErrDiscoveryUnavailable
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		if req.Cuisine != "" {
			query = req.Cuisine + " " + defaultDiscoveryQuery
		} else {
			query = defaultDiscoveryQuery
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultDiscoveryLimit
	}

	places, err := s.serp.SearchRestaurants(ctx, query, *req.Latitude, *req.Longitude, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("restaurant search failed: %w", err)
	}

	result := &DiscoveryResult{Query: query, PlacesFound: len(places)}
	for _, place := range places {
		if place.Key() == "" || place.Title == "" {
			continue
		}

		restaurant, created, err := s.upsertRestaurant(ctx, place, req.Cuisine)
		if err != nil {
			s.log.Warnw("restaurant upsert failed, skipping place",
				"place", place.Title, "error", err)
			continue
		}
		if created {
			result.RestaurantsCreated++
		} else {
			result.RestaurantsUpdated++
		}

		if result.DishesCreated >= maxDiscoveredDishes {
			continue
		}
		if err := s.ingestMenu(ctx, restaurant, req.Cuisine, result); err != nil {
			s.log.Warnw("menu ingestion failed",
				"restaurant", restaurant.Name, "error", err)
		}
	}

	s.log.Infow("discovery run finished",
		"query", query,
		"places", result.PlacesFound,
		"restaurants_created", result.RestaurantsCreated,
		"dishes_created", result.DishesCreated)
	return result, nil
}

// upsertRestaurant creates or refreshes a restaurant row keyed by its
// Google place id.
func (s *DiscoveryService) upsertRestaurant(ctx context.Context, place serpapi.Place, cuisineHint string) (*models.Restaurant, bool, error) {
	placeID := place.Key()

	var restaurant models.Restaurant
	err := s.db.WithContext(ctx).Where("google_place_id = ?", placeID).First(&restaurant).Error
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		restaurant = models.Restaurant{ID: uuid.New(), GooglePlaceID: &placeID, IsActive: true}
		created = true
	case err != nil:
		return nil, false, err
	}

	restaurant.Name = place.Title
	restaurant.Address = place.Address
	restaurant.Phone = place.Phone
	restaurant.Website = place.Website
	restaurant.Rating = place.Rating
	restaurant.TotalReviews = place.Reviews
	restaurant.DataID = place.DataID
	restaurant.Thumbnail = place.Thumbnail
	if !place.Price.IsZero() {
		restaurant.PriceRange = place.Price.Range()
	} else if restaurant.PriceRange == "" {
		restaurant.PriceRange = models.PriceModerate
	}
	if place.GPSCoordinates.Latitude != 0 || place.GPSCoordinates.Longitude != 0 {
		lat := place.GPSCoordinates.Latitude
		lng := place.GPSCoordinates.Longitude
		restaurant.Latitude = &lat
		restaurant.Longitude = &lng
	}

	cuisineName := cuisineHint
	if cuisineName == "" {
		cuisineName = DetectCuisineName(place.Type + " " + place.Title)
	}
	if cuisineName != "" {
		cuisine, err := getOrCreateCuisine(s.db.WithContext(ctx), TitleCase(cuisineName), "")
		if err != nil {
			return nil, false, err
		}
		restaurant.CuisineID = &cuisine.ID
	}

	if err := s.db.WithContext(ctx).Save(&restaurant).Error; err != nil {
		return nil, false, err
	}
	return &restaurant, created, nil
}

// ingestMenu turns a restaurant's published menu, or failing that its
// web-search menu highlights, into linked dishes. With nothing to go on
// it falls back to the cuisine's signature dishes branded to the place.
func (s *DiscoveryService) ingestMenu(ctx context.Context, restaurant *models.Restaurant, cuisineHint string, result *DiscoveryResult) error {
	type menuEntry struct {
		name  string
		price float64
	}
	var entries []menuEntry

	if restaurant.DataID != "" {
		details, err := s.serp.GetPlaceDetails(ctx, restaurant.DataID)
		if err != nil {
			s.log.Warnw("place details lookup failed",
				"restaurant", restaurant.Name, "error", err)
		} else {
			for _, item := range details.MenuItems {
				if name := strings.TrimSpace(item.DisplayName()); name != "" {
					entries = append(entries, menuEntry{name: name, price: item.Price.Amount()})
				}
			}
		}
	}

	if len(entries) == 0 {
		web, err := s.serp.SearchWeb(ctx, restaurant.Name+" menu", 5)
		if err != nil {
			s.log.Warnw("menu web search failed",
				"restaurant", restaurant.Name, "error", err)
		} else {
			for _, highlight := range web.MenuHighlights {
				if name := strings.TrimSpace(highlight.DisplayName()); name != "" {
					entries = append(entries, menuEntry{name: name})
				}
			}
			if len(entries) == 0 {
				texts := make([]string, 0, len(web.Organic)*2)
				for _, organic := range web.Organic {
					texts = append(texts, organic.Title, organic.Snippet)
				}
				for _, name := range ExtractDishNames(texts, TitleCase(cuisineHint)) {
					entries = append(entries, menuEntry{name: name})
				}
			}
		}
	}

	if len(entries) == 0 {
		cuisine := TitleCase(cuisineHint)
		if cuisine == "" {
			cuisine = DetectCuisineName(restaurant.Name)
		}
		for _, name := range SignatureDishes(cuisine, 3) {
			entries = append(entries, menuEntry{name: name + " at " + restaurant.Name})
		}
		if len(entries) == 0 {
			entries = append(entries, menuEntry{name: "Popular at " + restaurant.Name})
		}
	}

	for _, entry := range entries {
		if result.DishesCreated >= maxDiscoveredDishes {
			break
		}
		dish, created, err := s.ensureDish(ctx, entry.name, cuisineHint)
		if err != nil {
			s.log.Warnw("dish ensure failed", "dish", entry.name, "error", err)
			continue
		}
		if created {
			result.DishesCreated++
		}
		linked, err := s.linkDish(ctx, restaurant.ID, dish.ID, entry.price)
		if err != nil {
			s.log.Warnw("dish link failed", "dish", dish.Name, "error", err)
			continue
		}
		if linked {
			result.DishesLinked++
		}
	}
	return nil
}

// ensureDish finds a dish by name, case-insensitively, or creates one
// with keyword-classified attributes.
func (s *DiscoveryService) ensureDish(ctx context.Context, name, cuisineHint string) (*models.Dish, bool, error) {
	name = TitleCase(name)

	var existing models.Dish
	err := s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cuisineName := DetectCuisineName(name)
	if cuisineName == "" && cuisineHint != "" {
		cuisineName = TitleCase(cuisineHint)
	}
	if cuisineName == "" {
		cuisineName = discoveredCuisineDefault
	}
	cuisine, err := getOrCreateCuisine(s.db.WithContext(ctx), cuisineName, "")
	if err != nil {
		return nil, false, err
	}

	dish := models.Dish{
		ID:           uuid.New(),
		Name:         name,
		CuisineID:    &cuisine.ID,
		MealType:     DetectMealType(name),
		IsVegetarian: IsVegetarianName(name),
		IsVegan:      IsVeganName(name),
		IsActive:     true,
		Embedding:    DishEmbedding(name, ""),
	}
	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		return nil, false, err
	}

	if s.images != nil {
		s.images.Enqueue(dish.ID)
	}
	return &dish, true, nil
}

// linkDish attaches a dish to a restaurant menu if not already linked.
// Reports whether a new link was created.
func (s *DiscoveryService) linkDish(ctx context.Context, restaurantID, dishID uuid.UUID, price float64) (bool, error) {
	var existing models.RestaurantDish
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND dish_id = ?", restaurantID, dishID).
		First(&existing).Error
	if err == nil {
		if price > 0 && existing.Price != price {
			existing.Price = price
			if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	link := models.RestaurantDish{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		DishID:       dishID,
		Price:        price,
		IsAvailable:  true,
	}
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return false, err
	}
	return true, nil
}
