package service

import (
	"context"
	"fmt"
	"time"

	"habitio-service/internal/domain/entity"
	"habitio-service/internal/domain/repository"
	"habitio-service/internal/domain/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type reconciler struct {
	habitRepo  repository.HabitRepository
	reportRepo repository.ReportRepository
	clock      Clock
	log        *logrus.Logger
}

// NewReconciler creates the daily reconciliation core
func NewReconciler(
	habitRepo repository.HabitRepository,
	reportRepo repository.ReportRepository,
	clock Clock,
	log *logrus.Logger,
) service.Reconciler {
	return &reconciler{
		habitRepo:  habitRepo,
		reportRepo: reportRepo,
		clock:      clock,
		log:        log,
	}
}

func (s *reconciler) Today(ctx context.Context) (*entity.Report, error) {
	return s.Reconcile(ctx, s.clock.Now())
}

// Reconcile builds the desired record set for the day and hands it to the
// store as one atomic write. Running it again without schedule changes is a
// no-op apart from the is_enabled refresh, which is stable for an unchanged
// schedule.
func (s *reconciler) Reconcile(ctx context.Context, day time.Time) (*entity.Report, error) {
	day = entity.DayOf(day)
	weekday := entity.WeekdayLabel(day)

	habits, err := s.habitRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active habits: %w", err)
	}

	records := make([]*entity.Record, 0, len(habits))
	for _, habit := range habits {
		records = append(records, &entity.Record{
			ID:        uuid.New(),
			HabitID:   habit.ID,
			Date:      day,
			IsEnabled: habit.ScheduledOn(weekday),
			Done:      false,
		})
	}

	report, err := s.reportRepo.UpsertDay(ctx, day, records)
	if err != nil {
		return nil, fmt.Errorf("failed to persist report for %s: %w", day.Format("2006-01-02"), err)
	}

	s.log.WithFields(logrus.Fields{
		"date":    day.Format("2006-01-02"),
		"weekday": weekday,
		"records": len(report.Records),
	}).Debug("reconciled report")

	return report, nil
}

func (s *reconciler) ToggleRecord(ctx context.Context, habitID uuid.UUID, day time.Time) (*entity.Record, error) {
	record, err := s.reportRepo.ToggleRecord(ctx, habitID, entity.DayOf(day))
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"habit_id": habitID,
		"date":     record.Date.Format("2006-01-02"),
		"done":     record.Done,
	}).Debug("toggled record")

	return record, nil
}
