package statistics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PixelFoxComments/app/models"
)

const (
	CacheKeyCommentsTotal   = "statistics:comments:total"
	CacheKeyCommentsDaily   = "statistics:comments:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyCommentedImages = "statistics:comments:images"
	CacheExpiration         = 5 * time.Minute
)

// StatisticsData holds the service wide comment figures
type StatisticsData struct {
	TotalComments   int64 `json:"total_comments"`
	TodayComments   int64 `json:"today_comments"`
	CommentedImages int64 `json:"commented_images"`
}

// Service reads comment figures from the database and caches them in Redis
type Service struct {
	db     *gorm.DB
	client *redis.Client
	now    func() time.Time
}

// NewService creates a statistics service. A nil client disables caching.
func NewService(db *gorm.DB, client *redis.Client) *Service {
	return &Service{db: db, client: client, now: time.Now}
}

// GetStatisticsData returns all figures, each from cache or database
func (s *Service) GetStatisticsData(ctx context.Context) (StatisticsData, error) {
	var (
		data StatisticsData
		err  error
	)

	if data.TotalComments, err = s.cached(ctx, CacheKeyCommentsTotal, s.countTotal); err != nil {
		return StatisticsData{}, err
	}

	today := s.now().Format("2006-01-02")
	if data.TodayComments, err = s.cached(ctx, fmt.Sprintf(CacheKeyCommentsDaily, today), s.countToday); err != nil {
		return StatisticsData{}, err
	}

	if data.CommentedImages, err = s.cached(ctx, CacheKeyCommentedImages, s.countImages); err != nil {
		return StatisticsData{}, err
	}

	return data, nil
}

// Invalidate drops the cached figures so the next read hits the database
func (s *Service) Invalidate(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	today := s.now().Format("2006-01-02")
	return s.client.Del(ctx, CacheKeyCommentsTotal, fmt.Sprintf(CacheKeyCommentsDaily, today), CacheKeyCommentedImages).Err()
}

func (s *Service) cached(ctx context.Context, key string, count func(ctx context.Context) (int64, error)) (int64, error) {
	if s.client != nil {
		val, err := s.client.Get(ctx, key).Result()
		if err == nil {
			if n, perr := strconv.ParseInt(val, 10, 64); perr == nil {
				return n, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warnf("[Statistics] cache read %s failed: %v", key, err)
		}
	}

	n, err := count(ctx)
	if err != nil {
		return 0, err
	}

	if s.client != nil {
		if err := s.client.Set(ctx, key, strconv.FormatInt(n, 10), CacheExpiration).Err(); err != nil {
			log.Warnf("[Statistics] cache write %s failed: %v", key, err)
		}
	}
	return n, nil
}

func (s *Service) countTotal(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}

func (s *Service) countToday(ctx context.Context) (int64, error) {
	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24 * time.Hour)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("created_at >= ? AND created_at < ?", todayStart, todayEnd).
		Count(&count).Error
	return count, err
}

func (s *Service) countImages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Distinct("image_id").Count(&count).Error
	return count, err
}
