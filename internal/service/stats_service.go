package service

import (
	"context"
	"fmt"

	"habitio-service/internal/domain/entity"
	"habitio-service/internal/domain/repository"
	"habitio-service/internal/domain/service"
	"habitio-service/internal/stats"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StatsCache caches computed rates for a short while. A nil cache disables
// caching entirely.
type StatsCache interface {
	GetRates(ctx context.Context, key string) ([]float64, bool)
	SetRates(ctx context.Context, key string, rates []float64)
}

type statsService struct {
	reportRepo repository.ReportRepository
	cache      StatsCache
	log        *logrus.Logger
}

// NewStatsService creates a new completion rate service. cache may be nil.
func NewStatsService(reportRepo repository.ReportRepository, cache StatsCache, log *logrus.Logger) service.StatsService {
	return &statsService{
		reportRepo: reportRepo,
		cache:      cache,
		log:        log,
	}
}

func (s *statsService) WeekdayRates(ctx context.Context, window int) ([]float64, error) {
	key := fmt.Sprintf("weekdays:%d", window)
	if s.cache != nil {
		if rates, ok := s.cache.GetRates(ctx, key); ok {
			return rates, nil
		}
	}

	reports, err := s.reportRepo.ListRecent(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	rates := stats.RateByWeekday(reports, window)

	if s.cache != nil {
		s.cache.SetRates(ctx, key, rates)
	}
	return rates, nil
}

// DailyRates is not cached: the payload carries dates, which the rate cache
// does not model, and the query is a single indexed read.
func (s *statsService) DailyRates(ctx context.Context, window int) ([]entity.DailyRate, error) {
	reports, err := s.reportRepo.ListRecent(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}
	return stats.RateByDay(reports, window), nil
}

func (s *statsService) HabitRate(ctx context.Context, habitID uuid.UUID, window int) (float64, error) {
	key := fmt.Sprintf("habit:%s:%d", habitID, window)
	if s.cache != nil {
		if rates, ok := s.cache.GetRates(ctx, key); ok && len(rates) == 1 {
			return rates[0], nil
		}
	}

	reports, err := s.reportRepo.ListRecent(ctx, window)
	if err != nil {
		return 0, fmt.Errorf("failed to load reports: %w", err)
	}

	rate := stats.RateByHabit(reports, habitID, window)

	if s.cache != nil {
		s.cache.SetRates(ctx, key, []float64{rate})
	}
	return rate, nil
}
