package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
)

// Badge award thresholds.
const (
	swiperBadgeSwipes     = 10
	foodieBadgeSwipes     = 50
	reviewerBadgeReviews  = 5
	explorerBadgeCuisines = 5
	socialBadgeMarks      = 5
)

// badgeCatalog maps a badge type to its display template.
var badgeCatalog = map[string]models.UserBadge{
	models.BadgeSwiper:   {BadgeType: models.BadgeSwiper, Name: "Swiper", Description: "Swiped on 10 dishes", Icon: "👆"},
	models.BadgeFoodie:   {BadgeType: models.BadgeFoodie, Name: "Foodie", Description: "Swiped on 50 dishes", Icon: "🍽️"},
	models.BadgeReviewer: {BadgeType: models.BadgeReviewer, Name: "Reviewer", Description: "Wrote 5 reviews", Icon: "✍️"},
	models.BadgeExplorer: {BadgeType: models.BadgeExplorer, Name: "Explorer", Description: "Liked dishes from 5 different cuisines", Icon: "🧭"},
	models.BadgeSocial:   {BadgeType: models.BadgeSocial, Name: "Social", Description: "Found 5 reviews helpful", Icon: "🤝"},
}

// BadgeService awards achievement badges as a side effect of swiping and
// reviewing. Award checks never fail the triggering write; problems are
// logged and swallowed.
type BadgeService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewBadgeService creates a new BadgeService instance
func NewBadgeService(db *gorm.DB, log *logger.Logger) *BadgeService {
	return &BadgeService{
		db:  db,
		log: log,
	}
}

// AwardAfterSwipe checks the swipe-driven badges: swiper, foodie and
// explorer.
func (b *BadgeService) AwardAfterSwipe(ctx context.Context, userID uuid.UUID) {
	var total int64
	err := b.db.WithContext(ctx).Model(&models.SwipeAction{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		b.log.Warnw("badge check failed", "badge", models.BadgeSwiper, "error", err)
		return
	}
	if total >= swiperBadgeSwipes {
		b.award(ctx, userID, models.BadgeSwiper)
	}
	if total >= foodieBadgeSwipes {
		b.award(ctx, userID, models.BadgeFoodie)
	}

	var cuisines int64
	err = b.db.WithContext(ctx).Table("swipe_actions").
		Joins("JOIN dishes ON dishes.id = swipe_actions.dish_id").
		Where("swipe_actions.user_id = ? AND swipe_actions.direction = ? AND dishes.cuisine_id IS NOT NULL", userID, models.SwipeRight).
		Distinct("dishes.cuisine_id").
		Count(&cuisines).Error
	if err != nil {
		b.log.Warnw("badge check failed", "badge", models.BadgeExplorer, "error", err)
		return
	}
	if cuisines >= explorerBadgeCuisines {
		b.award(ctx, userID, models.BadgeExplorer)
	}
}

// AwardAfterReview checks the reviewer badge.
func (b *BadgeService) AwardAfterReview(ctx context.Context, userID uuid.UUID) {
	var total int64
	err := b.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		b.log.Warnw("badge check failed", "badge", models.BadgeReviewer, "error", err)
		return
	}
	if total >= reviewerBadgeReviews {
		b.award(ctx, userID, models.BadgeReviewer)
	}
}

// AwardAfterHelpful checks the social badge, counting helpful marks the
// user has given.
func (b *BadgeService) AwardAfterHelpful(ctx context.Context, userID uuid.UUID) {
	var total int64
	err := b.db.WithContext(ctx).Model(&models.ReviewHelpful{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		b.log.Warnw("badge check failed", "badge", models.BadgeSocial, "error", err)
		return
	}
	if total >= socialBadgeMarks {
		b.award(ctx, userID, models.BadgeSocial)
	}
}

// award grants a badge once per user.
func (b *BadgeService) award(ctx context.Context, userID uuid.UUID, badgeType string) {
	var existing models.UserBadge
	err := b.db.WithContext(ctx).
		Where("user_id = ? AND badge_type = ?", userID, badgeType).
		First(&existing).Error
	if err == nil {
		return
	}

	template := badgeCatalog[badgeType]
	badge := models.UserBadge{
		ID:          uuid.New(),
		UserID:      userID,
		BadgeType:   badgeType,
		Name:        template.Name,
		Description: template.Description,
		Icon:        template.Icon,
		EarnedAt:    time.Now(),
	}
	if err := b.db.WithContext(ctx).Create(&badge).Error; err != nil {
		b.log.Warnw("badge award failed", "badge", badgeType, "user_id", userID, "error", err)
		return
	}
	b.log.Infow("badge awarded", "badge", badgeType, "user_id", userID)
}

// Badges returns the user's badges, newest first.
func (b *BadgeService) Badges(ctx context.Context, userID uuid.UUID) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&badges).Error
	if err != nil {
		return nil, err
	}
	return badges, nil
}

// Trending score weights and multipliers.
const (
	trendingWeight24h     = 10
	trendingWeight7d      = 2
	trendingWeightReviews = 15
)

// CommunityService handles trending, weekly rankings, challenges and the
// leaderboard.
type CommunityService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewCommunityService creates a new CommunityService instance
func NewCommunityService(db *gorm.DB, log *logger.Logger) *CommunityService {
	return &CommunityService{
		db:  db,
		log: log,
	}
}

// nearbyDishIDs resolves the caller's location filter: the ids of dishes
// served near them, or nil when the caller has no usable location. The
// radius is the profile's max distance, defaulting to 50 miles.
func (s *CommunityService) nearbyDishIDs(ctx context.Context, userID *uuid.UUID) []uuid.UUID {
	if userID == nil {
		return nil
	}
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", *userID).First(&profile).Error; err != nil {
		return nil
	}
	if !profile.HasLocation() {
		return nil
	}

	radius := profile.MaxDistanceMiles
	if radius <= 0 {
		radius = 50
	}
	ids, err := DishIDsNearby(s.db.WithContext(ctx), *profile.Latitude, *profile.Longitude, radius)
	if err != nil {
		s.log.Warnw("nearby dish lookup failed, skipping location filter", "error", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// Trending returns dishes by trending score. Callers with a location get
// a nearby-narrowed list unless narrowing would empty it.
func (s *CommunityService) Trending(ctx context.Context, userID *uuid.UUID, limit int) ([]models.TrendingDish, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	fetch := func(dishIDs []uuid.UUID) ([]models.TrendingDish, error) {
		query := s.db.WithContext(ctx).
			Preload("Dish").
			Preload("Dish.Cuisine").
			Order("trending_score DESC").
			Limit(limit)
		if dishIDs != nil {
			query = query.Where("dish_id IN ?", dishIDs)
		}
		var rows []models.TrendingDish
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}

	if nearby := s.nearbyDishIDs(ctx, userID); nearby != nil {
		rows, err := fetch(nearby)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return fetch(nil)
}

// RecomputeTrending rebuilds every active dish's trending row. The score
// weighs the last 24 hours of swipes, the last week of swipes and the
// last week of reviews, boosted for well-rated dishes, and ranks descend
// from the highest score.
func (s *CommunityService) RecomputeTrending(ctx context.Context) (int, error) {
	now := time.Now()
	cutoff24h := now.Add(-24 * time.Hour)
	cutoff7d := now.AddDate(0, 0, -7)

	swipes24h, err := s.countByDish(ctx, "swipe_actions", "created_at >= ?", cutoff24h)
	if err != nil {
		return 0, err
	}
	swipes7d, err := s.countByDish(ctx, "swipe_actions", "created_at >= ?", cutoff7d)
	if err != nil {
		return 0, err
	}
	reviews7d, err := s.countByDish(ctx, "reviews", "created_at >= ?", cutoff7d)
	if err != nil {
		return 0, err
	}

	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Find(&dishes).Error; err != nil {
		return 0, err
	}

	type scored struct {
		dishID uuid.UUID
		score  float64
	}
	ranking := make([]scored, 0, len(dishes))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dish := range dishes {
			s24 := swipes24h[dish.ID]
			s7 := swipes7d[dish.ID]
			r7 := reviews7d[dish.ID]

			score := float64(s24*trendingWeight24h + s7*trendingWeight7d + r7*trendingWeightReviews)
			if dish.AverageRating > 4.0 {
				score *= 1.5
			} else if dish.AverageRating > 3.5 {
				score *= 1.2
			}
			ranking = append(ranking, scored{dishID: dish.ID, score: score})

			var row models.TrendingDish
			err := tx.Where("dish_id = ?", dish.ID).First(&row).Error
			if err == gorm.ErrRecordNotFound {
				row = models.TrendingDish{ID: uuid.New(), DishID: dish.ID}
			} else if err != nil {
				return err
			}
			row.TrendingScore = score
			row.RecentSwipes24h = int(s24)
			row.RecentSwipes7d = int(s7)
			row.RecentReviews7d = int(r7)
			row.LastUpdated = now
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}

		sort.SliceStable(ranking, func(i, j int) bool {
			return ranking[i].score > ranking[j].score
		})
		for i, entry := range ranking {
			rank := i + 1
			err := tx.Model(&models.TrendingDish{}).
				Where("dish_id = ?", entry.dishID).
				Update("current_rank", rank).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(dishes), nil
}

// countByDish groups a table's rows since the cutoff by dish id.
func (s *CommunityService) countByDish(ctx context.Context, table, cond string, cutoff time.Time) (map[uuid.UUID]int64, error) {
	var rows []struct {
		DishID uuid.UUID
		Count  int64
	}
	err := s.db.WithContext(ctx).Table(table).
		Select("dish_id, COUNT(*) AS count").
		Where(cond, cutoff).
		Group("dish_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.DishID] = row.Count
	}
	return counts, nil
}

// WeekWindow is one Monday-to-Sunday ranking period.
type WeekWindow struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
}

// weekWindow returns the Monday-start week covering the given moment.
func weekWindow(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// WeeklyRankingsResult is the current week's top dishes plus the windows
// of past weeks that have snapshots.
type WeeklyRankingsResult struct {
	WeekStart     time.Time              `json:"week_start"`
	WeekEnd       time.Time              `json:"week_end"`
	Rankings      []models.WeeklyRanking `json:"rankings"`
	PreviousWeeks []WeekWindow           `json:"previous_weeks"`
}

// WeeklyRankings returns the current week's rankings and the last four
// past week windows.
func (s *CommunityService) WeeklyRankings(ctx context.Context, userID *uuid.UUID) (*WeeklyRankingsResult, error) {
	now := time.Now()
	weekStart, weekEnd := weekWindow(now)
	result := &WeeklyRankingsResult{WeekStart: weekStart, WeekEnd: weekEnd}

	fetch := func(dishIDs []uuid.UUID) ([]models.WeeklyRanking, error) {
		query := s.db.WithContext(ctx).
			Preload("Dish").
			Preload("Dish.Cuisine").
			Where("week_start <= ? AND week_end >= ?", now, weekStart).
			Order("rank ASC").
			Limit(10)
		if dishIDs != nil {
			query = query.Where("dish_id IN ?", dishIDs)
		}
		var rows []models.WeeklyRanking
		if err := query.Find(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}

	nearby := s.nearbyDishIDs(ctx, userID)
	rows, err := fetch(nearby)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 && nearby != nil {
		if rows, err = fetch(nil); err != nil {
			return nil, err
		}
	}
	result.Rankings = rows

	err = s.db.WithContext(ctx).Model(&models.WeeklyRanking{}).
		Distinct("week_start", "week_end").
		Where("week_end < ?", weekStart).
		Order("week_start DESC").
		Limit(4).
		Scan(&result.PreviousWeeks).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecomputeWeeklyRankings snapshots the top ten dishes of the current
// Monday-start week by right swipes. Rerunning within the same week
// replaces the snapshot.
func (s *CommunityService) RecomputeWeeklyRankings(ctx context.Context) (int, error) {
	now := time.Now()
	weekStart, weekEnd := weekWindow(now)
	windowEnd := weekStart.AddDate(0, 0, 7)

	var top []struct {
		DishID     uuid.UUID
		RightCount int64
	}
	err := s.db.WithContext(ctx).Table("swipe_actions").
		Select("dish_id, COUNT(*) AS right_count").
		Where("direction = ? AND created_at >= ? AND created_at < ?", models.SwipeRight, weekStart, windowEnd).
		Group("dish_id").
		Order("right_count DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("week_start = ?", weekStart).Delete(&models.WeeklyRanking{}).Error
		if err != nil {
			return err
		}

		for i, entry := range top {
			var totalSwipes int64
			err := tx.Model(&models.SwipeAction{}).
				Where("dish_id = ? AND created_at >= ? AND created_at < ?", entry.DishID, weekStart, windowEnd).
				Count(&totalSwipes).Error
			if err != nil {
				return err
			}
			var reviewCount int64
			err = tx.Model(&models.Review{}).
				Where("dish_id = ? AND created_at >= ? AND created_at < ?", entry.DishID, weekStart, windowEnd).
				Count(&reviewCount).Error
			if err != nil {
				return err
			}
			var dish models.Dish
			if err := tx.Where("id = ?", entry.DishID).First(&dish).Error; err != nil {
				return err
			}

			row := models.WeeklyRanking{
				ID:            uuid.New(),
				DishID:        entry.DishID,
				WeekStart:     weekStart,
				WeekEnd:       weekEnd,
				Rank:          i + 1,
				TotalSwipes:   int(totalSwipes),
				RightSwipes:   int(entry.RightCount),
				ReviewsCount:  int(reviewCount),
				AverageRating: dish.AverageRating,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(top), nil
}

// ChallengeGroups is the challenge listing, grouped by status.
type ChallengeGroups struct {
	Active    []models.CommunityChallenge `json:"active"`
	Upcoming  []models.CommunityChallenge `json:"upcoming"`
	Completed []models.CommunityChallenge `json:"completed"`
}

// Challenges lists challenges grouped by status, with completed capped at
// the five most recently finished.
func (s *CommunityService) Challenges(ctx context.Context) (*ChallengeGroups, error) {
	db := s.db.WithContext(ctx)
	groups := &ChallengeGroups{}

	err := db.Where("status = ?", models.ChallengeActive).Find(&groups.Active).Error
	if err != nil {
		return nil, err
	}
	err = db.Where("status = ?", models.ChallengeUpcoming).Order("start_date ASC").Find(&groups.Upcoming).Error
	if err != nil {
		return nil, err
	}
	err = db.Where("status = ?", models.ChallengeCompleted).Order("end_date DESC").Limit(5).Find(&groups.Completed).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// JoinChallenge signs the user up for a challenge. Joining twice returns
// the existing participation.
func (s *CommunityService) JoinChallenge(ctx context.Context, userID, challengeID uuid.UUID) (*models.ChallengeParticipation, bool, error) {
	var challenge models.CommunityChallenge
	if err := s.db.WithContext(ctx).Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, false, err
	}

	var participation models.ChallengeParticipation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&participation).Error
	if err == nil {
		participation.Challenge = &challenge
		return &participation, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	participation = models.ChallengeParticipation{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
		JoinedAt:    time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&participation).Error; err != nil {
		return nil, false, err
	}
	participation.Challenge = &challenge
	return &participation, true, nil
}

// MyChallenges returns the user's challenge participations with their
// challenges, most recently joined first.
func (s *CommunityService) MyChallenges(ctx context.Context, userID uuid.UUID) ([]models.ChallengeParticipation, error) {
	var participations []models.ChallengeParticipation
	err := s.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Order("joined_at DESC").
		Find(&participations).Error
	if err != nil {
		return nil, err
	}
	return participations, nil
}

// LeaderboardEntry is one user's standing on a leaderboard.
type LeaderboardEntry struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Count    int64     `json:"count"`
}

// Leaderboard is the community leaderboard payload.
type Leaderboard struct {
	TopReviewers    []LeaderboardEntry `json:"top_reviewers"`
	TopSwipers      []LeaderboardEntry `json:"top_swipers"`
	TopBadgeEarners []LeaderboardEntry `json:"top_badge_earners"`
}

// GetLeaderboard returns the top ten reviewers, swipers and badge earners.
func (s *CommunityService) GetLeaderboard(ctx context.Context) (*Leaderboard, error) {
	board := &Leaderboard{}

	var err error
	if board.TopReviewers, err = s.topUsersBy(ctx, "reviews"); err != nil {
		return nil, err
	}
	if board.TopSwipers, err = s.topUsersBy(ctx, "swipe_actions"); err != nil {
		return nil, err
	}
	if board.TopBadgeEarners, err = s.topUsersBy(ctx, "user_badges"); err != nil {
		return nil, err
	}
	return board, nil
}

// topUsersBy counts a table's rows per user and returns the ten busiest.
func (s *CommunityService) topUsersBy(ctx context.Context, table string) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).Table(table).
		Select("users.id AS user_id, users.username AS username, COUNT(*) AS count").
		Joins("JOIN users ON users.id = "+table+".user_id").
		Group("users.id, users.username").
		Order("count DESC").
		Limit(10).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CommunityHome is the community landing payload.
type CommunityHome struct {
	Trending         []models.TrendingDish       `json:"trending"`
	WeeklyRankings   []models.WeeklyRanking      `json:"weekly_rankings"`
	ActiveChallenges []models.CommunityChallenge `json:"active_challenges"`
	RecentReviews    []ReviewWithAuthor          `json:"recent_reviews"`
	HasLocation      bool                        `json:"has_location"`
}

// Home assembles the community landing page: trending, this week's
// rankings, active challenges and the freshest reviews, location-narrowed
// for callers with coordinates.
func (s *CommunityService) Home(ctx context.Context, userID *uuid.UUID) (*CommunityHome, error) {
	home := &CommunityHome{}
	nearby := s.nearbyDishIDs(ctx, userID)
	home.HasLocation = nearby != nil

	trending, err := s.Trending(ctx, userID, 10)
	if err != nil {
		return nil, err
	}
	home.Trending = trending

	rankings, err := s.WeeklyRankings(ctx, userID)
	if err != nil {
		return nil, err
	}
	home.WeeklyRankings = rankings.Rankings

	err = s.db.WithContext(ctx).
		Where("status = ?", models.ChallengeActive).
		Find(&home.ActiveChallenges).Error
	if err != nil {
		return nil, err
	}

	fetchReviews := func(dishIDs []uuid.UUID) ([]models.Review, error) {
		query := s.db.WithContext(ctx).
			Preload("Dish").
			Order("created_at DESC").
			Limit(5)
		if dishIDs != nil {
			query = query.Where("dish_id IN ?", dishIDs)
		}
		var reviews []models.Review
		if err := query.Find(&reviews).Error; err != nil {
			return nil, err
		}
		return reviews, nil
	}

	reviews, err := fetchReviews(nearby)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 && nearby != nil {
		if reviews, err = fetchReviews(nil); err != nil {
			return nil, err
		}
	}
	home.RecentReviews, err = attachReviewAuthors(ctx, s.db, reviews)
	if err != nil {
		return nil, err
	}
	return home, nil
}
