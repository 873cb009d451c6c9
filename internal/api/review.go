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

// ReviewHandler serves dish reviews. Reading is public, writing needs a
// token and is rate limited.
type ReviewHandler struct {
	reviews *service.ReviewService
	auth    *service.AuthService
	limiter *middleware.RateLimiter
}

func NewReviewHandler(reviews *service.ReviewService, auth *service.AuthService, limiter *middleware.RateLimiter) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, auth: auth, limiter: limiter}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("", h.ListReviews)
		reviews.GET("/dish/:dishID/summary", h.DishSummary)
	}

	authed := router.Group("/reviews")
	authed.Use(middleware.AuthMiddleware(h.auth))
	{
		authed.GET("/mine", h.MyReviews)
		authed.PUT("/:id", h.UpdateReview)
		authed.DELETE("/:id", h.DeleteReview)
		authed.POST("/:id/helpful", h.ToggleHelpful)

		create := authed.Group("")
		if h.limiter != nil {
			create.Use(h.limiter.RateLimitMiddleware())
		}
		create.POST("", h.CreateReview)
	}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var params service.ListReviewsParams
	if raw := c.Query("dish_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish_id"})
			return
		}
		params.DishID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		params.UserID = &id
	}
	if raw := c.Query("rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 1-5"})
			return
		}
		params.Rating = &n
	}
	params.Limit, params.Offset = paginationParams(c)

	reviews, err := h.reviews.ListReviews(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (h *ReviewHandler) DishSummary(c *gin.Context) {
	dishID, ok := parseIDParam(c, "dishID")
	if !ok {
		return
	}

	summary, err := h.reviews.DishReviewSummary(c.Request.Context(), dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to summarize reviews"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ReviewHandler) MyReviews(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	reviews, err := h.reviews.MyReviews(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req types.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "dish not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "you have already reviewed this dish"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviews.UpdateReview(c.Request.Context(), userID, reviewID, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.reviews.DeleteReview(c.Request.Context(), userID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

func (h *ReviewHandler) ToggleHelpful(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	reviewID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	marked, count, err := h.reviews.ToggleHelpful(c.Request.Context(), userID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle helpful"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"helpful": marked, "helpful_count": count})
}
