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

// DishHandler serves the dish catalog, cuisine lookups and the
// staff-only discovery trigger.
type DishHandler struct {
	dishes           *service.DishService
	discovery        *service.DiscoveryService
	auth             *service.AuthService
	discoveryLimiter *middleware.RateLimiter
}

func NewDishHandler(dishes *service.DishService, discovery *service.DiscoveryService, auth *service.AuthService, discoveryLimiter *middleware.RateLimiter) *DishHandler {
	return &DishHandler{dishes: dishes, discovery: discovery, auth: auth, discoveryLimiter: discoveryLimiter}
}

func (h *DishHandler) RegisterRoutes(router *gin.RouterGroup) {
	dishes := router.Group("/dishes")
	dishes.Use(middleware.AuthMiddleware(h.auth))
	{
		dishes.GET("", h.ListDishes)
		dishes.GET("/:id", h.GetDish)
		dishes.GET("/:id/similar", h.SimilarDishes)
		dishes.GET("/:id/restaurants", h.DishRestaurants)
		dishes.GET("/:id/delivery-links", h.DeliveryLinks)
	}

	staff := router.Group("/dishes")
	staff.Use(middleware.AuthMiddleware(h.auth), middleware.RequireStaff(h.auth))
	{
		staff.POST("", h.CreateDish)
		staff.PUT("/:id", h.UpdateDish)
		staff.DELETE("/:id", h.DeleteDish)

		discover := staff.Group("/discover")
		if h.discoveryLimiter != nil {
			discover.Use(h.discoveryLimiter.RateLimitMiddleware())
		}
		discover.POST("", h.Discover)
	}

	cuisines := router.Group("/cuisines")
	cuisines.Use(middleware.AuthMiddleware(h.auth))
	{
		cuisines.GET("", h.ListCuisines)
	}
}

func (h *DishHandler) ListDishes(c *gin.Context) {
	params := service.ListDishesParams{
		MealType: c.Query("meal_type"),
		Dietary:  c.Query("dietary"),
	}
	if raw := c.Query("cuisine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cuisine_id"})
			return
		}
		params.CuisineID = &id
	}
	if raw := c.Query("max_calories"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_calories"})
			return
		}
		params.MaxCalories = &n
	}
	params.Limit, params.Offset = paginationParams(c)

	dishes, err := h.dishes.ListDishes(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list dishes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes, "count": len(dishes)})
}

func (h *DishHandler) GetDish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.dishes.GetDishDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch dish"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *DishHandler) SimilarDishes(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dishes, err := h.dishes.SimilarDishes(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find similar dishes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes, "count": len(dishes)})
}

func (h *DishHandler) DishRestaurants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var lat, lng *float64
	if raw := c.Query("latitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
			return
		}
		lat = &v
	}
	if raw := c.Query("longitude"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
			return
		}
		lng = &v
	}
	maxMiles := 10.0
	if raw := c.Query("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
			return
		}
		maxMiles = v
	}

	result, err := h.dishes.DishRestaurants(c.Request.Context(), id, lat, lng, maxMiles)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restaurants"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DishHandler) DeliveryLinks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	links, err := h.dishes.DishDeliveryLinks(c.Request.Context(), id, c.Query("app"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build delivery links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *DishHandler) CreateDish(c *gin.Context) {
	var req types.CreateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish, err := h.dishes.CreateDish(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cuisine not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create dish"})
		return
	}

	c.JSON(http.StatusCreated, dish)
}

func (h *DishHandler) UpdateDish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish, err := h.dishes.UpdateDish(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update dish"})
		return
	}

	c.JSON(http.StatusOK, dish)
}

func (h *DishHandler) DeleteDish(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.dishes.DeleteDish(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete dish"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "dish deactivated"})
}

func (h *DishHandler) ListCuisines(c *gin.Context) {
	cuisines, err := h.dishes.ListCuisines(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cuisines"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cuisines": cuisines})
}

func (h *DishHandler) Discover(c *gin.Context) {
	var req types.DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.discovery.Discover(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrDiscoveryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discovery is not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "discovery failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
