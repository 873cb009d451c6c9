package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/swipebite/backend/internal/models"
)

// SearchService handles basic and advanced search plus autocomplete.
type SearchService struct {
	db *gorm.DB
}

// NewSearchService creates a new SearchService instance.
func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// SearchResults is the payload of a basic search across all entity types.
type SearchResults struct {
	Query       string              `json:"query"`
	Dishes      []models.Dish       `json:"dishes"`
	Restaurants []models.Restaurant `json:"restaurants"`
	Cuisines    []models.Cuisine    `json:"cuisines"`
}

// Search runs a substring match over dishes, restaurants and cuisines.
// On Postgres dishes are ranked by embedding distance to the query so
// that similarly described dishes surface first; elsewhere rating order
// applies.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResults, error) {
	results := &SearchResults{
		Query:       query,
		Dishes:      []models.Dish{},
		Restaurants: []models.Restaurant{},
		Cuisines:    []models.Cuisine{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return results, nil
	}
	pattern := "%" + strings.ToLower(query) + "%"

	dishQuery := s.db.WithContext(ctx).Model(&models.Dish{}).
		Preload("Cuisine").
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	if s.db.Dialector.Name() == "postgres" {
		dishQuery = dishQuery.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{GenerateEmbedding(query)}},
		})
	} else {
		dishQuery = dishQuery.Order("average_rating DESC")
	}
	if err := dishQuery.Limit(20).Find(&results.Dishes).Error; err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Preload("Cuisine").
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern).
		Order("rating DESC").
		Limit(20).
		Find(&results.Restaurants).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Cuisine{}).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(10).
		Find(&results.Cuisines).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AdvancedSearchParams narrows an advanced dish search; all optional.
type AdvancedSearchParams struct {
	Query       string
	CuisineID   *uuid.UUID
	MealType    string
	Dietary     string
	MaxCalories *int
	MinProtein  *int
	MinRating   *float64
	MaxSpice    *int
	Limit       int
	Offset      int
}

// AdvancedSearch runs a filtered dish search, best rated first.
func (s *SearchService) AdvancedSearch(ctx context.Context, params AdvancedSearchParams) ([]models.Dish, error) {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).
		Preload("Cuisine").
		Where("is_active = ?", true)

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
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
	if params.MinProtein != nil {
		query = query.Where("protein >= ?", *params.MinProtein)
	}
	if params.MinRating != nil {
		query = query.Where("average_rating >= ?", *params.MinRating)
	}
	if params.MaxSpice != nil {
		query = query.Where("spice_level <= ?", *params.MaxSpice)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var dishes []models.Dish
	err := query.
		Order("average_rating DESC, total_right_swipes DESC").
		Limit(limit).
		Offset(params.Offset).
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// AutocompleteResults are the name suggestions for a search-as-you-type box.
type AutocompleteResults struct {
	Dishes      []string `json:"dishes"`
	Restaurants []string `json:"restaurants"`
}

// Autocomplete returns up to five dish and restaurant name prefixes for
// the given fragment. Fragments under two characters yield nothing.
func (s *SearchService) Autocomplete(ctx context.Context, fragment string) (*AutocompleteResults, error) {
	results := &AutocompleteResults{Dishes: []string{}, Restaurants: []string{}}

	fragment = strings.TrimSpace(fragment)
	if len(fragment) < 2 {
		return results, nil
	}
	pattern := "%" + strings.ToLower(fragment) + "%"

	err := s.db.WithContext(ctx).Model(&models.Dish{}).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("total_right_swipes DESC").
		Limit(5).
		Distinct().
		Pluck("name", &results.Dishes).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("rating DESC").
		Limit(5).
		Distinct().
		Pluck("name", &results.Restaurants).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
