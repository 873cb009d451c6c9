package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swipebite/backend/internal/models"
	"github.com/swipebite/backend/internal/types"
)

var ErrAlreadyReviewed = errors.New("you have already reviewed this dish")

// ReviewService handles dish reviews and their aggregates.
type ReviewService struct {
	db     *gorm.DB
	badges *BadgeService
}

// NewReviewService creates a new ReviewService instance. The badge service
// may be nil.
func NewReviewService(db *gorm.DB, badges *BadgeService) *ReviewService {
	return &ReviewService{
		db:     db,
		badges: badges,
	}
}

// ReviewWithAuthor is a review carrying the reviewer's username, so
// listings never expose full account rows.
type ReviewWithAuthor struct {
	models.Review
	AuthorUsername string `json:"author_username"`
}

// ListReviewsParams narrows the review listing.
type ListReviewsParams struct {
	DishID *uuid.UUID
	UserID *uuid.UUID
	Rating *int
	Limit  int
	Offset int
}

// ListReviews returns reviews newest first with their authors' usernames.
func (s *ReviewService) ListReviews(ctx context.Context, params ListReviewsParams) ([]ReviewWithAuthor, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{}).Preload("Dish").Preload("Dish.Cuisine")
	if params.DishID != nil {
		query = query.Where("dish_id = ?", *params.DishID)
	}
	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Rating != nil {
		query = query.Where("rating = ?", *params.Rating)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var reviews []models.Review
	err := query.Order("created_at DESC").Limit(limit).Offset(params.Offset).Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, reviews)
}

// withAuthors resolves usernames for a batch of reviews.
func (s *ReviewService) withAuthors(ctx context.Context, reviews []models.Review) ([]ReviewWithAuthor, error) {
	return attachReviewAuthors(ctx, s.db, reviews)
}

// attachReviewAuthors resolves usernames for a batch of reviews.
func attachReviewAuthors(ctx context.Context, db *gorm.DB, reviews []models.Review) ([]ReviewWithAuthor, error) {
	userIDs := make([]uuid.UUID, 0, len(reviews))
	seen := make(map[uuid.UUID]struct{}, len(reviews))
	for _, review := range reviews {
		if _, dup := seen[review.UserID]; dup {
			continue
		}
		seen[review.UserID] = struct{}{}
		userIDs = append(userIDs, review.UserID)
	}

	usernames := make(map[uuid.UUID]string, len(userIDs))
	if len(userIDs) > 0 {
		var users []models.User
		if err := db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, user := range users {
			usernames[user.ID] = user.Username
		}
	}

	out := make([]ReviewWithAuthor, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, ReviewWithAuthor{Review: review, AuthorUsername: usernames[review.UserID]})
	}
	return out, nil
}

// MyReviews returns the caller's reviews, newest first.
func (s *ReviewService) MyReviews(ctx context.Context, userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Preload("Dish").
		Preload("Dish.Cuisine").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview records a review and refreshes the dish aggregates. One
// review per user and dish.
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *types.CreateReviewRequest) (*models.Review, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", req.DishID).First(&dish).Error; err != nil {
		return nil, err
	}

	var existing models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND dish_id = ?", userID, req.DishID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := models.Review{
		ID:       uuid.New(),
		UserID:   userID,
		DishID:   req.DishID,
		Rating:   req.Rating,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeDishRating(tx, req.DishID)
	})
	if err != nil {
		return nil, err
	}

	if s.badges != nil {
		s.badges.AwardAfterReview(ctx, userID)
	}

	review.Dish = &dish
	return &review, nil
}

// UpdateReview edits the caller's own review and refreshes the dish
// aggregates. Someone else's review reads as not found.
func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *types.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Content != nil {
		review.Content = *req.Content
	}
	if req.ImageURL != nil {
		review.ImageURL = *req.ImageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return recomputeDishRating(tx, review.DishID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes the caller's own review and refreshes the dish
// aggregates.
func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	var review models.Review
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeDishRating(tx, review.DishID)
	})
}

// ToggleHelpful marks a review as helpful, or unmarks it on the second
// call. Returns whether it is now marked and the fresh helpful count.
func (s *ReviewService) ToggleHelpful(ctx context.Context, userID, reviewID uuid.UUID) (bool, int, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Where("id = ?", reviewID).First(&review).Error; err != nil {
		return false, 0, err
	}

	var mark models.ReviewHelpful
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND review_id = ?", userID, reviewID).
		First(&mark).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		mark = models.ReviewHelpful{ID: uuid.New(), UserID: userID, ReviewID: reviewID}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&mark).Error; err != nil {
				return err
			}
			return tx.Model(&models.Review{}).Where("id = ?", reviewID).
				UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1")).Error
		})
		if err != nil {
			return false, 0, err
		}
		if s.badges != nil {
			s.badges.AwardAfterHelpful(ctx, userID)
		}
		return true, review.HelpfulCount + 1, nil
	}
	if err != nil {
		return false, 0, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&mark).Error; err != nil {
			return err
		}
		count := review.HelpfulCount - 1
		if count < 0 {
			count = 0
		}
		return tx.Model(&models.Review{}).Where("id = ?", reviewID).
			UpdateColumn("helpful_count", count).Error
	})
	if err != nil {
		return false, 0, err
	}

	count := review.HelpfulCount - 1
	if count < 0 {
		count = 0
	}
	return false, count, nil
}

// ReviewSummary is the per-dish review rollup.
type ReviewSummary struct {
	DishID        uuid.UUID        `json:"dish_id"`
	TotalReviews  int64            `json:"total_reviews"`
	AverageRating float64          `json:"average_rating"`
	Histogram     map[string]int64 `json:"histogram"`
}

// DishReviewSummary returns the count, average and 1-5 star histogram for
// a dish.
func (s *ReviewService) DishReviewSummary(ctx context.Context, dishID uuid.UUID) (*ReviewSummary, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).Where("id = ?", dishID).First(&dish).Error; err != nil {
		return nil, err
	}

	summary := &ReviewSummary{
		DishID:    dishID,
		Histogram: map[string]int64{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0},
	}

	var rows []struct {
		Rating int
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("dish_id = ?", dishID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var sum int64
	for _, row := range rows {
		summary.TotalReviews += row.Count
		sum += int64(row.Rating) * row.Count
		switch row.Rating {
		case 1, 2, 3, 4, 5:
			summary.Histogram[strconv.Itoa(row.Rating)] = row.Count
		}
	}
	if summary.TotalReviews > 0 {
		summary.AverageRating = roundTo(float64(sum)/float64(summary.TotalReviews), 2)
	}
	return summary, nil
}

// recomputeDishRating refreshes a dish's average_rating (2 decimals) and
// total_ratings from the live review set.
func recomputeDishRating(tx *gorm.DB, dishID uuid.UUID) error {
	var stats struct {
		Count int64
		Avg   *float64
	}
	err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS avg").
		Where("dish_id = ?", dishID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	average := 0.0
	if stats.Avg != nil {
		average = roundTo(*stats.Avg, 2)
	}
	return tx.Model(&models.Dish{}).Where("id = ?", dishID).UpdateColumns(map[string]interface{}{
		"average_rating": average,
		"total_ratings":  stats.Count,
	}).Error
}
