package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
	"github.com/swipebite/backend/internal/types"
)

// SwipeHandler serves the swipe loop: feed, recorded swipes, matches,
// sessions, favorites and the blacklist.
type SwipeHandler struct {
	swipes *service.SwipeService
	auth   *service.AuthService
}

func NewSwipeHandler(swipes *service.SwipeService, auth *service.AuthService) *SwipeHandler {
	return &SwipeHandler{swipes: swipes, auth: auth}
}

func (h *SwipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	swipes := router.Group("/swipes")
	swipes.Use(middleware.AuthMiddleware(h.auth))
	{
		swipes.POST("", h.Swipe)
		swipes.GET("", h.History)
		swipes.GET("/feed", h.Feed)
		swipes.GET("/matches", h.Matches)
		swipes.DELETE("/matches/:dishID", h.DeleteMatch)
		swipes.POST("/sessions/start", h.StartSession)
		swipes.POST("/sessions/end", h.EndSession)
		swipes.GET("/stats", h.Stats)
	}

	favorites := router.Group("/favorites")
	favorites.Use(middleware.AuthMiddleware(h.auth))
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.DELETE("/:id", h.RemoveFavorite)
	}

	blacklist := router.Group("/blacklist")
	blacklist.Use(middleware.AuthMiddleware(h.auth))
	{
		blacklist.GET("", h.ListBlacklist)
		blacklist.POST("", h.AddBlacklistItem)
		blacklist.DELETE("/:id", h.RemoveBlacklistItem)
	}

	block := router.Group("/dishes")
	block.Use(middleware.AuthMiddleware(h.auth))
	{
		block.POST("/:id/block", h.BlockDish)
	}
}

func (h *SwipeHandler) Swipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	swipe, err := h.swipes.Swipe(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record swipe"})
		return
	}

	c.JSON(http.StatusCreated, swipe)
}

func (h *SwipeHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	direction := c.Query("direction")
	if direction != "" && direction != "left" && direction != "right" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be left or right"})
		return
	}
	limit, _ := paginationParams(c)

	swipes, err := h.swipes.History(c.Request.Context(), userID, direction, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch swipe history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"swipes": swipes, "count": len(swipes)})
}

func (h *SwipeHandler) Feed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	params := service.FeedParams{
		Meal:    c.Query("meal"),
		Dietary: c.Query("dietary"),
	}
	if raw := c.Query("cuisine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cuisine_id"})
			return
		}
		params.CuisineID = &id
	}

	feed, err := h.swipes.Feed(c.Request.Context(), userID, params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (h *SwipeHandler) Matches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var cuisineID *uuid.UUID
	if raw := c.Query("cuisine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cuisine_id"})
			return
		}
		cuisineID = &id
	}

	matches, err := h.swipes.Matches(c.Request.Context(), userID, cuisineID, c.Query("dietary"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch matches"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

func (h *SwipeHandler) DeleteMatch(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	dishID, ok := parseIDParam(c, "dishID")
	if !ok {
		return
	}

	if err := h.swipes.DeleteMatch(c.Request.Context(), userID, dishID); err != nil {
		if errors.Is(err, service.ErrSwipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove match"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "match removed"})
}

func (h *SwipeHandler) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	session, err := h.swipes.StartSession(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SwipeHandler) EndSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	session, err := h.swipes.EndSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SwipeHandler) Stats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	stats, err := h.swipes.Stats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *SwipeHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	favorites, err := h.swipes.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites, "count": len(favorites)})
}

func (h *SwipeHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.swipes.AddFavorite(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
		case errors.Is(err, service.ErrDishFavorited):
			c.JSON(http.StatusConflict, gin.H{"error": "dish already in favorites"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
		}
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *SwipeHandler) ToggleFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.FavoriteToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, added, err := h.swipes.ToggleFavorite(c.Request.Context(), userID, req.DishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
		return
	}

	if !added {
		c.JSON(http.StatusOK, gin.H{"favorited": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorited": true, "favorite": favorite})
}

func (h *SwipeHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	favoriteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.swipes.RemoveFavorite(c.Request.Context(), userID, favoriteID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}

func (h *SwipeHandler) ListBlacklist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	items, err := h.swipes.ListBlacklist(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list blacklist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *SwipeHandler) AddBlacklistItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.swipes.AddBlacklistItem(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add blacklist item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *SwipeHandler) RemoveBlacklistItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.swipes.RemoveBlacklistItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, service.ErrBlacklistNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "blacklist item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove blacklist item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "blacklist item removed"})
}

func (h *SwipeHandler) BlockDish(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	dishID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.swipes.BlockDish(c.Request.Context(), userID, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to block dish"})
		return
	}

	c.JSON(http.StatusCreated, item)
}
