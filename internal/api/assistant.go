package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
	"github.com/swipebite/backend/internal/types"
)

// AssistantHandler serves the AI food assistant. Every query endpoint
// shares one rate limit bucket; feedback and history are exempt.
type AssistantHandler struct {
	assistant *service.AssistantService
	auth      *service.AuthService
	limiter   *middleware.RateLimiter
}

func NewAssistantHandler(assistant *service.AssistantService, auth *service.AuthService, limiter *middleware.RateLimiter) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, auth: auth, limiter: limiter}
}

func (h *AssistantHandler) RegisterRoutes(router *gin.RouterGroup) {
	assistant := router.Group("/assistant")
	assistant.Use(middleware.AuthMiddleware(h.auth))
	{
		assistant.POST("/feedback", h.Feedback)
		assistant.GET("/history", h.History)
		assistant.GET("/suggestions", h.QuerySuggestions)

		queries := assistant.Group("")
		if h.limiter != nil {
			queries.Use(h.limiter.RateLimitMiddleware())
		}
		queries.POST("/chat", h.Chat)
		queries.POST("/dish-info", h.DishInfo)
		queries.POST("/ingredient-info", h.IngredientInfo)
		queries.POST("/substitution", h.Substitution)
		queries.POST("/recommendation", h.Recommendation)
	}
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) DishInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantDishInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistant.DishInfo(c.Request.Context(), userID, req.DishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) IngredientInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistant.IngredientInfo(c.Request.Context(), userID, req.Ingredient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) Substitution(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistant.Substitution(c.Request.Context(), userID, req.Ingredient, req.DietaryRestriction)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) Recommendation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantRecommendationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	reply, err := h.assistant.Recommendation(c.Request.Context(), userID, req.Craving)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assistant request failed"})
		return
	}

	c.JSON(http.StatusOK, reply)
}

func (h *AssistantHandler) Feedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.AssistantFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.assistant.Feedback(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrQueryLogNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "query log entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "feedback recorded"})
}

func (h *AssistantHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	limit, _ := paginationParams(c)
	history, err := h.assistant.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

// QuerySuggestions returns canned follow-up prompts for a query type so
// the client can render them before any chat happens.
func (h *AssistantHandler) QuerySuggestions(c *gin.Context) {
	queryType := c.DefaultQuery("type", "general")
	c.JSON(http.StatusOK, gin.H{"query_type": queryType, "suggestions": service.Suggestions(queryType)})
}
