// Package api wires the HTTP handlers: request binding, auth context and
// status codes live here, everything else is delegated to the services.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/clients/openai"
	"github.com/swipebite/backend/internal/clients/serpapi"
	"github.com/swipebite/backend/internal/database"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
)

// Deps carries everything the handler layer needs to assemble itself.
// Redis, OpenAI, SerpAPI, S3 and the image queue are all optional; the
// features they back degrade rather than block startup.
type Deps struct {
	DB     *gorm.DB
	Health *database.HealthPool
	Redis  *redis.Client
	Config *config.Config
	Log    *logger.Logger
	OpenAI *openai.Client
	Serp   *serpapi.Client
	Images service.ImageEnqueuer
}

// HealthCheck reports API and database health.
func HealthCheck(health *database.HealthPool) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		if health != nil {
			if err := health.HealthCheck(c.Request.Context()); err != nil {
				dbStatus = "unavailable"
			}
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":   dbStatus,
			"database": dbStatus,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// RegisterRoutes builds the services and mounts every route under
// /api/v1, plus the unauthenticated health endpoints.
func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", HealthCheck(deps.Health))
	router.GET("/api/health", HealthCheck(deps.Health))

	authService := service.NewAuthService(deps.DB, deps.Config.JWTSecret)
	profileService := service.NewProfileService(deps.DB)
	badgeService := service.NewBadgeService(deps.DB, deps.Log)
	swipeService := service.NewSwipeService(deps.DB, badgeService, deps.Log)
	dishService := service.NewDishService(deps.DB, deps.Images, deps.Log)
	restaurantService := service.NewRestaurantService(deps.DB)
	reviewService := service.NewReviewService(deps.DB, badgeService)
	communityService := service.NewCommunityService(deps.DB, deps.Log)
	recommendService := service.NewRecommendService(deps.DB, deps.Log)
	searchService := service.NewSearchService(deps.DB)
	assistantService := service.NewAssistantService(deps.DB, deps.Redis, deps.OpenAI, deps.Log)
	discoveryService := service.NewDiscoveryService(deps.DB, deps.Serp, deps.Images, deps.Log)

	var assistantLimiter, discoveryLimiter, reviewLimiter *middleware.RateLimiter
	if deps.Redis != nil {
		assistantLimiter = middleware.NewAssistantRateLimiter(deps.Redis)
		discoveryLimiter = middleware.NewDiscoveryRateLimiter(deps.Redis)
		reviewLimiter = middleware.NewReviewRateLimiter(deps.Redis)
	} else {
		deps.Log.Warnw("redis unavailable, rate limiting disabled")
	}

	v1 := router.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewProfileHandler(profileService, authService).RegisterRoutes(v1)
	NewDishHandler(dishService, discoveryService, authService, discoveryLimiter).RegisterRoutes(v1)
	NewRestaurantHandler(restaurantService, authService).RegisterRoutes(v1)
	NewSwipeHandler(swipeService, authService).RegisterRoutes(v1)
	NewReviewHandler(reviewService, authService, reviewLimiter).RegisterRoutes(v1)
	NewCommunityHandler(communityService, badgeService, authService).RegisterRoutes(v1)
	NewRecommendHandler(recommendService, authService).RegisterRoutes(v1)
	NewSearchHandler(searchService).RegisterRoutes(v1)
	NewAssistantHandler(assistantService, authService, assistantLimiter).RegisterRoutes(v1)
}

// currentUserID pulls the authenticated user id set by the auth
// middleware out of the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// optionalUserID is currentUserID for routes behind OptionalAuth: a nil
// pointer means an anonymous caller.
func optionalUserID(c *gin.Context) *uuid.UUID {
	userID, ok := currentUserID(c)
	if !ok {
		return nil
	}
	return &userID
}

// parseIDParam parses a uuid path parameter, writing the 400 itself on
// failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// paginationParams reads limit/offset query parameters, clamping limit
// to 100. Zero limit lets the service apply its own default.
func paginationParams(c *gin.Context) (limit, offset int) {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 {
		limit = n
		if limit > 100 {
			limit = 100
		}
	}
	if n, err := strconv.Atoi(c.Query("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
