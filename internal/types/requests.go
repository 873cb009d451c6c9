package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents the request body for changing the
// account password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateUserRequest represents a partial update of account fields
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" binding:"omitempty,max=150"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UpdateProfileRequest represents a partial update of taste and nutrition
// preferences. Nil fields are left untouched.
type UpdateProfileRequest struct {
	DietType             *string   `json:"diet_type,omitempty" binding:"omitempty,oneof=none vegetarian vegan pescatarian keto paleo halal kosher"`
	Allergies            *[]string `json:"allergies,omitempty"`
	FavoriteCuisines     *[]string `json:"favorite_cuisines,omitempty"`
	DailyCalorieGoal     *int      `json:"daily_calorie_goal,omitempty" binding:"omitempty,gte=0"`
	ProteinGoal          *int      `json:"protein_goal,omitempty" binding:"omitempty,gte=0"`
	CarbsGoal            *int      `json:"carbs_goal,omitempty" binding:"omitempty,gte=0"`
	FatGoal              *int      `json:"fat_goal,omitempty" binding:"omitempty,gte=0"`
	PreferredDeliveryApp *string   `json:"preferred_delivery_app,omitempty" binding:"omitempty,oneof=ubereats doordash grubhub"`
	MaxDistanceMiles     *float64  `json:"max_distance_miles,omitempty" binding:"omitempty,gt=0"`
	City                 *string   `json:"city,omitempty" binding:"omitempty,max=100"`
	Bio                  *string   `json:"bio,omitempty" binding:"omitempty,max=500"`
	ProfilePictureURL    *string   `json:"profile_picture_url,omitempty" binding:"omitempty,url"`
}

// UpdateLocationRequest represents the request body for updating the
// profile coordinates
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	City      string   `json:"city" binding:"max=100"`
}

// DishIngredientInput is one ingredient of a dish being created or updated
type DishIngredientInput struct {
	Name       string `json:"name" binding:"required,max=100"`
	IsAllergen bool   `json:"is_allergen"`
}

// CreateDishRequest represents the request body for creating a dish.
// Cuisine is a name; an unknown one is created on the fly.
type CreateDishRequest struct {
	Name         string                `json:"name" binding:"required,max=255"`
	Description  string                `json:"description"`
	Cuisine      string                `json:"cuisine" binding:"omitempty,max=100"`
	MealType     string                `json:"meal_type" binding:"omitempty,oneof=breakfast lunch dinner snack dessert"`
	ImageURL     string                `json:"image_url" binding:"omitempty,url"`
	Calories     *int                  `json:"calories,omitempty" binding:"omitempty,gte=0"`
	Protein      *int                  `json:"protein,omitempty" binding:"omitempty,gte=0"`
	Carbs        *int                  `json:"carbs,omitempty" binding:"omitempty,gte=0"`
	Fat          *int                  `json:"fat,omitempty" binding:"omitempty,gte=0"`
	IsVegetarian bool                  `json:"is_vegetarian"`
	IsVegan      bool                  `json:"is_vegan"`
	IsGlutenFree bool                  `json:"is_gluten_free"`
	SpiceLevel   int                   `json:"spice_level" binding:"gte=0,lte=5"`
	Ingredients  []DishIngredientInput `json:"ingredients"`
}

// UpdateDishRequest represents a partial update of a dish
type UpdateDishRequest struct {
	Name         *string                `json:"name,omitempty" binding:"omitempty,max=255"`
	Description  *string                `json:"description,omitempty"`
	Cuisine      *string                `json:"cuisine,omitempty" binding:"omitempty,max=100"`
	MealType     *string                `json:"meal_type,omitempty" binding:"omitempty,oneof=breakfast lunch dinner snack dessert"`
	ImageURL     *string                `json:"image_url,omitempty" binding:"omitempty,url"`
	Calories     *int                   `json:"calories,omitempty" binding:"omitempty,gte=0"`
	Protein      *int                   `json:"protein,omitempty" binding:"omitempty,gte=0"`
	Carbs        *int                   `json:"carbs,omitempty" binding:"omitempty,gte=0"`
	Fat          *int                   `json:"fat,omitempty" binding:"omitempty,gte=0"`
	IsVegetarian *bool                  `json:"is_vegetarian,omitempty"`
	IsVegan      *bool                  `json:"is_vegan,omitempty"`
	IsGlutenFree *bool                  `json:"is_gluten_free,omitempty"`
	SpiceLevel   *int                   `json:"spice_level,omitempty" binding:"omitempty,gte=0,lte=5"`
	IsActive     *bool                  `json:"is_active,omitempty"`
	Ingredients  *[]DishIngredientInput `json:"ingredients,omitempty"`
}

// CreateRestaurantRequest represents the request body for creating a restaurant
type CreateRestaurantRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Description string     `json:"description"`
	Address     string     `json:"address" binding:"max=512"`
	City        string     `json:"city" binding:"max=100"`
	State       string     `json:"state" binding:"max=50"`
	ZipCode     string     `json:"zip_code" binding:"max=10"`
	Latitude    *float64   `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64   `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	Phone       string     `json:"phone" binding:"max=32"`
	Website     string     `json:"website" binding:"omitempty,url"`
	PriceRange  string     `json:"price_range" binding:"omitempty,oneof=$ $$ $$$ $$$$"`
	CuisineID   *uuid.UUID `json:"cuisine_id,omitempty"`
	HasUberEats bool       `json:"has_uber_eats"`
	HasDoorDash bool       `json:"has_doordash"`
	HasGrubhub  bool       `json:"has_grubhub"`
	UberEatsURL string     `json:"uber_eats_url" binding:"omitempty,url"`
	DoorDashURL string     `json:"doordash_url" binding:"omitempty,url"`
	GrubhubURL  string     `json:"grubhub_url" binding:"omitempty,url"`
}

// UpdateRestaurantRequest represents a partial update of a restaurant
type UpdateRestaurantRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Address     *string    `json:"address,omitempty" binding:"omitempty,max=512"`
	City        *string    `json:"city,omitempty" binding:"omitempty,max=100"`
	State       *string    `json:"state,omitempty" binding:"omitempty,max=50"`
	ZipCode     *string    `json:"zip_code,omitempty" binding:"omitempty,max=10"`
	Latitude    *float64   `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude   *float64   `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	Phone       *string    `json:"phone,omitempty" binding:"omitempty,max=32"`
	Website     *string    `json:"website,omitempty" binding:"omitempty,url"`
	PriceRange  *string    `json:"price_range,omitempty" binding:"omitempty,oneof=$ $$ $$$ $$$$"`
	CuisineID   *uuid.UUID `json:"cuisine_id,omitempty"`
	HasUberEats *bool      `json:"has_uber_eats,omitempty"`
	HasDoorDash *bool      `json:"has_doordash,omitempty"`
	HasGrubhub  *bool      `json:"has_grubhub,omitempty"`
	UberEatsURL *string    `json:"uber_eats_url,omitempty" binding:"omitempty,url"`
	DoorDashURL *string    `json:"doordash_url,omitempty" binding:"omitempty,url"`
	GrubhubURL  *string    `json:"grubhub_url,omitempty" binding:"omitempty,url"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// AttachDishRequest links an existing dish to a restaurant menu
type AttachDishRequest struct {
	DishID      uuid.UUID `json:"dish_id" binding:"required"`
	Price       float64   `json:"price" binding:"gte=0"`
	IsAvailable *bool     `json:"is_available,omitempty"`
}

// SwipeRequest represents the request body for recording a swipe
type SwipeRequest struct {
	DishID    uuid.UUID `json:"dish_id" binding:"required"`
	Direction string    `json:"direction" binding:"required,oneof=left right"`
}

// StartSessionRequest represents the request body for opening a swipe
// session with optional filters
type StartSessionRequest struct {
	CuisineFilter  string `json:"cuisine_filter" binding:"max=100"`
	MealTypeFilter string `json:"meal_type_filter" binding:"omitempty,oneof=breakfast lunch dinner snack dessert"`
}

// FavoriteRequest represents the request body for favoriting a dish
type FavoriteRequest struct {
	DishID uuid.UUID `json:"dish_id" binding:"required"`
	Notes  string    `json:"notes" binding:"max=2000"`
}

// FavoriteToggleRequest represents the request body for toggling a
// dish in and out of favorites
type FavoriteToggleRequest struct {
	DishID uuid.UUID `json:"dish_id" binding:"required"`
}

// FavoriteRestaurantRequest carries the optional note when favoriting a
// restaurant; the restaurant itself comes from the URL
type FavoriteRestaurantRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// BlacklistRequest represents the request body for blacklisting a dish,
// ingredient or cuisine
type BlacklistRequest struct {
	BlacklistType string     `json:"blacklist_type" binding:"required,oneof=dish ingredient cuisine"`
	ItemName      string     `json:"item_name" binding:"required,max=200"`
	Reason        string     `json:"reason" binding:"max=2000"`
	DishID        *uuid.UUID `json:"dish_id,omitempty"`
}

// CreateReviewRequest represents the request body for reviewing a dish
type CreateReviewRequest struct {
	DishID   uuid.UUID `json:"dish_id" binding:"required"`
	Rating   int       `json:"rating" binding:"required,min=1,max=5"`
	Title    string    `json:"title" binding:"max=200"`
	Content  string    `json:"content" binding:"max=5000"`
	ImageURL string    `json:"image_url" binding:"omitempty,url"`
}

// UpdateReviewRequest represents a partial update of a review
type UpdateReviewRequest struct {
	Rating   *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Title    *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Content  *string `json:"content,omitempty" binding:"omitempty,max=5000"`
	ImageURL *string `json:"image_url,omitempty" binding:"omitempty,url"`
}

// AssistantChatRequest represents the request body for a chat turn with
// the assistant
type AssistantChatRequest struct {
	Message        string     `json:"message" binding:"required,max=2000"`
	ConversationID string     `json:"conversation_id" binding:"max=100"`
	DishID         *uuid.UUID `json:"dish_id,omitempty"`
	QueryType      string     `json:"query_type" binding:"omitempty,oneof=general ingredient nutrition substitution recommendation dish_info"`
}

// AssistantDishInfoRequest asks the assistant about a specific dish
type AssistantDishInfoRequest struct {
	DishID uuid.UUID `json:"dish_id" binding:"required"`
}

// AssistantIngredientRequest asks the assistant about an ingredient
type AssistantIngredientRequest struct {
	Ingredient string `json:"ingredient" binding:"required,max=100"`
}

// AssistantSubstitutionRequest asks the assistant for substitutes
type AssistantSubstitutionRequest struct {
	Ingredient         string `json:"ingredient" binding:"required,max=100"`
	DietaryRestriction string `json:"dietary_restriction" binding:"max=50"`
}

// AssistantRecommendationRequest asks the assistant for dish ideas,
// optionally around a craving
type AssistantRecommendationRequest struct {
	Craving string `json:"craving" binding:"max=200"`
}

// AssistantFeedbackRequest marks a logged assistant answer as helpful or not
type AssistantFeedbackRequest struct {
	QueryLogID   uuid.UUID `json:"query_log_id" binding:"required"`
	WasHelpful   *bool     `json:"was_helpful" binding:"required"`
	FeedbackText string    `json:"feedback_text" binding:"max=2000"`
}

// DiscoverRequest represents the request body for running restaurant
// discovery against Google Maps around a coordinate
type DiscoverRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	Query     string   `json:"query" binding:"omitempty,max=200"`
	Cuisine   string   `json:"cuisine" binding:"omitempty,max=100"`
	Limit     int      `json:"limit" binding:"omitempty,gt=0,lte=20"`
}
