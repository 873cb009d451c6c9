package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
	"github.com/swipebite/backend/internal/types"
)

// RestaurantHandler serves the restaurant directory, proximity search
// and per-user favorites.
type RestaurantHandler struct {
	restaurants *service.RestaurantService
	auth        *service.AuthService
}

func NewRestaurantHandler(restaurants *service.RestaurantService, auth *service.AuthService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, auth: auth}
}

func (h *RestaurantHandler) RegisterRoutes(router *gin.RouterGroup) {
	restaurants := router.Group("/restaurants")
	restaurants.Use(middleware.AuthMiddleware(h.auth))
	{
		restaurants.GET("", h.ListRestaurants)
		restaurants.GET("/nearby", h.Nearby)
		restaurants.GET("/favorites", h.ListFavorites)
		restaurants.GET("/:id", h.GetRestaurant)
		restaurants.POST("/:id/favorite", h.Favorite)
		restaurants.DELETE("/:id/favorite", h.Unfavorite)
	}

	staff := router.Group("/restaurants")
	staff.Use(middleware.AuthMiddleware(h.auth), middleware.RequireStaff(h.auth))
	{
		staff.POST("", h.CreateRestaurant)
		staff.PUT("/:id", h.UpdateRestaurant)
		staff.DELETE("/:id", h.DeleteRestaurant)
		staff.POST("/:id/dishes", h.AttachDish)
	}
}

func (h *RestaurantHandler) ListRestaurants(c *gin.Context) {
	params := service.ListRestaurantsParams{City: c.Query("city")}
	if raw := c.Query("cuisine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cuisine_id"})
			return
		}
		params.CuisineID = &id
	}
	params.Limit, params.Offset = paginationParams(c)

	restaurants, err := h.restaurants.ListRestaurants(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants, "count": len(restaurants)})
}

func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.restaurants.GetRestaurantDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restaurant"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RestaurantHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
	if err != nil || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
		return
	}
	radius := 10.0
	if raw := c.Query("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
	}

	nearby, err := h.restaurants.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search nearby restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": nearby, "count": len(nearby)})
}

func (h *RestaurantHandler) Favorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// The note body is optional.
	var req types.FavoriteRestaurantRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	favorite, err := h.restaurants.FavoriteRestaurant(c.Request.Context(), userID, restaurantID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
		case errors.Is(err, service.ErrRestaurantFavorited):
			c.JSON(http.StatusConflict, gin.H{"error": "restaurant already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to favorite restaurant"})
		}
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *RestaurantHandler) Unfavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.restaurants.UnfavoriteRestaurant(c.Request.Context(), userID, restaurantID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}

func (h *RestaurantHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	favorites, err := h.restaurants.ListFavoriteRestaurants(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites, "count": len(favorites)})
}

func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	var req types.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant, err := h.restaurants.CreateRestaurant(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cuisine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

func (h *RestaurantHandler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant, err := h.restaurants.UpdateRestaurant(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update restaurant"})
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

func (h *RestaurantHandler) DeleteRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.restaurants.DeleteRestaurant(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "restaurant deactivated"})
}

func (h *RestaurantHandler) AttachDish(c *gin.Context) {
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.AttachDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := h.restaurants.AttachDish(c.Request.Context(), restaurantID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "restaurant or dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach dish"})
		return
	}

	c.JSON(http.StatusCreated, link)
}
