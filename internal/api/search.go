package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swipebite/backend/internal/service"
)

// SearchHandler serves the public search endpoints.
type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	search := router.Group("/search")
	{
		search.GET("", h.Search)
		search.GET("/advanced", h.AdvancedSearch)
		search.GET("/autocomplete", h.Autocomplete)
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	results, err := h.search.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *SearchHandler) AdvancedSearch(c *gin.Context) {
	params := service.AdvancedSearchParams{
		Query:    strings.TrimSpace(c.Query("q")),
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
	if raw := c.Query("min_protein"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_protein"})
			return
		}
		params.MinProtein = &n
	}
	if raw := c.Query("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_rating"})
			return
		}
		params.MinRating = &v
	}
	if raw := c.Query("max_spice"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_spice"})
			return
		}
		params.MaxSpice = &n
	}
	params.Limit, params.Offset = paginationParams(c)

	dishes, err := h.search.AdvancedSearch(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dishes": dishes, "count": len(dishes)})
}

func (h *SearchHandler) Autocomplete(c *gin.Context) {
	results, err := h.search.Autocomplete(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "autocomplete failed"})
		return
	}

	c.JSON(http.StatusOK, results)
}
