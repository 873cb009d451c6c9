package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/middleware"
	"github.com/swipebite/backend/internal/service"
)

// CommunityHandler serves trending dishes, weekly rankings, challenges,
// badges and the leaderboard. Trending and the home feed personalize to
// the caller's city when a token is present but work anonymously too.
type CommunityHandler struct {
	community *service.CommunityService
	badges    *service.BadgeService
	auth      *service.AuthService
}

func NewCommunityHandler(community *service.CommunityService, badges *service.BadgeService, auth *service.AuthService) *CommunityHandler {
	return &CommunityHandler{community: community, badges: badges, auth: auth}
}

func (h *CommunityHandler) RegisterRoutes(router *gin.RouterGroup) {
	public := router.Group("")
	public.Use(middleware.OptionalAuth(h.auth))
	{
		public.GET("/trending", h.Trending)
		public.GET("/rankings/weekly", h.WeeklyRankings)
		public.GET("/community/home", h.Home)
	}

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(h.auth))
	{
		authed.GET("/challenges", h.Challenges)
		authed.POST("/challenges/:id/join", h.JoinChallenge)
		authed.GET("/challenges/mine", h.MyChallenges)
		authed.GET("/badges", h.Badges)
		authed.GET("/leaderboard", h.Leaderboard)
	}

	staff := router.Group("")
	staff.Use(middleware.AuthMiddleware(h.auth), middleware.RequireStaff(h.auth))
	{
		staff.POST("/trending/recompute", h.RecomputeTrending)
		staff.POST("/rankings/weekly/recompute", h.RecomputeWeeklyRankings)
	}
}

func (h *CommunityHandler) Trending(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	trending, err := h.community.Trending(c.Request.Context(), optionalUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trending dishes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trending": trending, "count": len(trending)})
}

func (h *CommunityHandler) RecomputeTrending(c *gin.Context) {
	updated, err := h.community.RecomputeTrending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute trending"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *CommunityHandler) WeeklyRankings(c *gin.Context) {
	rankings, err := h.community.WeeklyRankings(c.Request.Context(), optionalUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch weekly rankings"})
		return
	}

	c.JSON(http.StatusOK, rankings)
}

func (h *CommunityHandler) RecomputeWeeklyRankings(c *gin.Context) {
	updated, err := h.community.RecomputeWeeklyRankings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute rankings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *CommunityHandler) Challenges(c *gin.Context) {
	challenges, err := h.community.Challenges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenges"})
		return
	}

	c.JSON(http.StatusOK, challenges)
}

func (h *CommunityHandler) JoinChallenge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	participation, joined, err := h.community.JoinChallenge(c.Request.Context(), userID, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "challenge not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to join challenge"})
		return
	}

	if !joined {
		c.JSON(http.StatusOK, gin.H{"participation": participation, "joined": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"participation": participation, "joined": true})
}

func (h *CommunityHandler) MyChallenges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	participations, err := h.community.MyChallenges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list challenge progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": participations, "count": len(participations)})
}

func (h *CommunityHandler) Badges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	badges, err := h.badges.Badges(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list badges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges, "count": len(badges)})
}

func (h *CommunityHandler) Leaderboard(c *gin.Context) {
	leaderboard, err := h.community.GetLeaderboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}

func (h *CommunityHandler) Home(c *gin.Context) {
	home, err := h.community.Home(c.Request.Context(), optionalUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build community home"})
		return
	}

	c.JSON(http.StatusOK, home)
}
