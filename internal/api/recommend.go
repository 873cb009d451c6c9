package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
)

// RecommendHandler serves personalized dish recommendations.
type RecommendHandler struct {
	recommendations *service.RecommendService
	auth            *service.AuthService
}

func NewRecommendHandler(recommendations *service.RecommendService, auth *service.AuthService) *RecommendHandler {
	return &RecommendHandler{recommendations: recommendations, auth: auth}
}

func (h *RecommendHandler) RegisterRoutes(router *gin.RouterGroup) {
	recs := router.Group("/recommendations")
	recs.Use(middleware.AuthMiddleware(h.auth))
	{
		recs.GET("", h.Recommendations)
		recs.GET("/surprise", h.Surprise)
	}
}

func (h *RecommendHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	dishes, err := h.recommendations.Recommendations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build recommendations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": dishes, "count": len(dishes)})
}

func (h *RecommendHandler) Surprise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	dish, err := h.recommendations.Surprise(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToRecommend) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no dishes left to recommend"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pick a dish"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dish": dish})
}
