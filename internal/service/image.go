package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"gorm.io/gorm"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/clients/serpapi"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/models"
)

var ErrNoImageFound = errors.New("no usable image found for dish")

// maxImageBytes caps a downloaded dish photo at 5 MiB.
const maxImageBytes = 5 << 20

// DishImageService finds a representative photo for a dish through Google
// Images and stores it, preferring S3 with the remote URL as fallback.
type DishImageService struct {
	db    *gorm.DB
	serp  *serpapi.Client
	s3cfg *config.S3Config
	httpc *http.Client
	log   *logger.Logger
}

// NewDishImageService creates a new DishImageService instance. The S3
// config may be nil; images then keep their remote URLs.
func NewDishImageService(db *gorm.DB, serp *serpapi.Client, s3cfg *config.S3Config, log *logger.Logger) *DishImageService {
	return &DishImageService{
		db:    db,
		serp:  serp,
		s3cfg: s3cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
		log:   log,
	}
}

// FetchAndStore looks up a photo for the dish and writes its URL onto the
// row. Dishes that already have an image are left alone.
func (s *DishImageService) FetchAndStore(ctx context.Context, dishID uuid.UUID) error {
	var dish models.Dish
	err := s.db.WithContext(ctx).Preload("Cuisine").Where("id = ?", dishID).First(&dish).Error
	if err != nil {
		return err
	}
	if dish.ImageURL != "" {
		return nil
	}
	if s.serp == nil || !s.serp.IsConfigured() {
		return ErrNoImageFound
	}

	query := dish.Name
	if dish.Cuisine != nil {
		query += " " + dish.Cuisine.Name
	}
	query += " food"

	results, err := s.serp.SearchImages(ctx, query, 3)
	if err != nil {
		return fmt.Errorf("image search failed: %w", err)
	}

	for _, result := range results {
		if result.Original == "" {
			continue
		}
		imageURL, err := s.store(ctx, dish.ID, result.Original)
		if err != nil {
			s.log.Warnw("image store failed, trying next result",
				"dish", dish.Name, "source", result.Original, "error", err)
			continue
		}
		return s.db.WithContext(ctx).Model(&models.Dish{}).
			Where("id = ?", dish.ID).
			UpdateColumn("image_url", imageURL).Error
	}
	return ErrNoImageFound
}

// store downloads the image and uploads it to S3, returning the public
// bucket URL. Without S3 the remote URL is used as-is.
func (s *DishImageService) store(ctx context.Context, dishID uuid.UUID, sourceURL string) (string, error) {
	if s.s3cfg == nil {
		return sourceURL, nil
	}

	data, contentType, err := s.download(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("dishes/%s%s", dishID, extensionFor(contentType))
	_, err = s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3cfg.BucketName, key), nil
}

func (s *DishImageService) download(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("unexpected content type %q", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("image read failed: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, contentType, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// MissingImageDishIDs lists active dishes without an image, oldest first,
// for the background sweep.
func (s *DishImageService) MissingImageDishIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := s.db.WithContext(ctx).Model(&models.Dish{}).
		Where("is_active = ? AND (image_url IS NULL OR image_url = '')", true).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ids []uuid.UUID
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
