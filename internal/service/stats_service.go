package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tkucar/inkwell/internal/domain"
	"github.com/tkucar/inkwell/internal/repository"
)

var ErrInvalidDateRange = errors.New("from date must not be after to date")

type StatsService struct {
	statsRepo repository.StatsRepository
	postRepo  repository.PostRepository
}

func NewStatsService(statsRepo repository.StatsRepository, postRepo repository.PostRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		postRepo:  postRepo,
	}
}

// GetSeries returns one point per calendar day in [from, to], in order.
// Days with no recorded views come back as explicit zeros so callers get a
// dense series.
func (s *StatsService) GetSeries(ctx context.Context, postID uuid.UUID, from, to time.Time) ([]domain.DailyPoint, error) {
	from = from.UTC().Truncate(24 * time.Hour)
	to = to.UTC().Truncate(24 * time.Hour)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	stats, err := s.statsRepo.GetRange(ctx, postID, from.Format(domain.DayKey), to.Format(domain.DayKey))
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(stats))
	for _, st := range stats {
		byDay[st.Date] = st.Views
	}

	var points []domain.DailyPoint
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DayKey)
		points = append(points, domain.DailyPoint{Date: key, Views: byDay[key]})
	}
	return points, nil
}

// Totals returns the dashboard aggregate for one post.
func (s *StatsService) Totals(ctx context.Context, postID uuid.UUID) (*domain.PostTotals, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return &domain.PostTotals{
		PostID:    post.ID,
		ViewCount: post.ViewCount,
		LikeCount: post.LikeCount,
	}, nil
}
