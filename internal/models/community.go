package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Review is one user's rating of a dish. One review per user and dish;
// hard-deleted so a user can review again after removing theirs.
type Review struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_review" json:"user_id"`
	DishID       uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_dish_review;index" json:"dish_id"`
	Dish         *Dish     `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	Rating       int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title        string    `gorm:"size:200" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	ImageURL     string    `gorm:"size:512" json:"image_url"`
	HelpfulCount int       `gorm:"not null;default:0" json:"helpful_count"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewHelpful records that a user found a review helpful. Marking is a
// toggle, so the pair is unique.
type ReviewHelpful struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_review_helpful" json:"user_id"`
	ReviewID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_review_helpful" json:"review_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TrendingDish is the computed trending standing of a dish, refreshed by
// the admin recompute endpoint. One row per dish.
type TrendingDish struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	DishID          uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"dish_id"`
	Dish            *Dish     `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	TrendingScore   float64   `gorm:"not null;default:0;index" json:"trending_score"`
	RecentSwipes24h int       `gorm:"not null;default:0" json:"recent_swipes_24h"`
	RecentSwipes7d  int       `gorm:"not null;default:0" json:"recent_swipes_7d"`
	RecentReviews7d int       `gorm:"not null;default:0" json:"recent_reviews_7d"`
	CurrentRank     *int      `json:"current_rank"`
	LastUpdated     time.Time `gorm:"not null" json:"last_updated"`
}

// WeeklyRanking is a snapshot of a dish's standing for one Monday-start
// week. A dish holds at most one rank per week.
type WeeklyRanking struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	DishID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_dish_week" json:"dish_id"`
	Dish          *Dish     `gorm:"foreignKey:DishID" json:"dish,omitempty"`
	WeekStart     time.Time `gorm:"not null;uniqueIndex:idx_dish_week;index" json:"week_start"`
	WeekEnd       time.Time `gorm:"not null" json:"week_end"`
	Rank          int       `gorm:"not null" json:"rank"`
	TotalSwipes   int       `gorm:"not null;default:0" json:"total_swipes"`
	RightSwipes   int       `gorm:"not null;default:0" json:"right_swipes"`
	ReviewsCount  int       `gorm:"not null;default:0" json:"reviews_count"`
	AverageRating float64   `gorm:"not null;default:0" json:"average_rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// MatchRate returns the week's right-swipe percentage to one decimal,
// zero when the dish saw no swipes that week
func (w *WeeklyRanking) MatchRate() float64 {
	if w.TotalSwipes == 0 {
		return 0
	}
	rate := float64(w.RightSwipes) / float64(w.TotalSwipes) * 100
	return math.Round(rate*10) / 10
}

// Challenge statuses
const (
	ChallengeUpcoming  = "upcoming"
	ChallengeActive    = "active"
	ChallengeCompleted = "completed"
)

// CommunityChallenge is a time-boxed community goal, optionally aimed at
// a specific dish or cuisine.
type CommunityChallenge struct {
	ID                uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	Title             string     `gorm:"size:200;not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	ChallengeType     string     `gorm:"size:50;not null;default:'weekly'" json:"challenge_type"`
	StartDate         time.Time  `gorm:"not null" json:"start_date"`
	EndDate           time.Time  `gorm:"not null" json:"end_date"`
	Status            string     `gorm:"size:20;not null;default:'upcoming'" json:"status"`
	TargetDishID      *uuid.UUID `gorm:"type:varchar(36)" json:"target_dish_id,omitempty"`
	TargetDish        *Dish      `gorm:"foreignKey:TargetDishID" json:"target_dish,omitempty"`
	TargetCuisine     string     `gorm:"size:100" json:"target_cuisine"`
	RewardDescription string     `gorm:"size:200" json:"reward_description"`
	ImageURL          string     `gorm:"size:512" json:"image_url"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsRunning reports whether the challenge window covers the given moment
func (c *CommunityChallenge) IsRunning(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// ChallengeParticipation tracks one user's progress in a challenge. A
// user joins a challenge at most once.
type ChallengeParticipation struct {
	ID            uuid.UUID           `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID           `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	ChallengeID   uuid.UUID           `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_challenge" json:"challenge_id"`
	Challenge     *CommunityChallenge `gorm:"foreignKey:ChallengeID" json:"challenge,omitempty"`
	Completed     bool                `gorm:"not null;default:false" json:"completed"`
	ProgressCount int                 `gorm:"not null;default:0" json:"progress_count"`
	JoinedAt      time.Time           `gorm:"not null" json:"joined_at"`
	CompletedAt   *time.Time          `json:"completed_at"`
}

// Badge types awarded for community activity
const (
	BadgeSwiper   = "swiper"
	BadgeReviewer = "reviewer"
	BadgeExplorer = "explorer"
	BadgeFoodie   = "foodie"
	BadgeSocial   = "social"
)

// UserBadge is an achievement a user has earned. Each badge type is
// awarded at most once per user, checked at award time.
type UserBadge struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	BadgeType   string    `gorm:"size:20;not null" json:"badge_type"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:20;not null;default:'🏆'" json:"icon"`
	EarnedAt    time.Time `gorm:"not null" json:"earned_at"`
}
