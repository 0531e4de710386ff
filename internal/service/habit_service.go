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

type habitService struct {
	habitRepo  repository.HabitRepository
	reconciler service.Reconciler
	scheduler  service.NotificationScheduler
	clock      Clock
	log        *logrus.Logger
}

// NewHabitService creates a new habit lifecycle service
func NewHabitService(
	habitRepo repository.HabitRepository,
	reconciler service.Reconciler,
	scheduler service.NotificationScheduler,
	clock Clock,
	log *logrus.Logger,
) service.HabitService {
	return &habitService{
		habitRepo:  habitRepo,
		reconciler: reconciler,
		scheduler:  scheduler,
		clock:      clock,
		log:        log,
	}
}

func (s *habitService) ListActive(ctx context.Context) ([]*entity.Habit, error) {
	return s.habitRepo.ListActive(ctx)
}

func (s *habitService) ListArchived(ctx context.Context) ([]*entity.Habit, error) {
	return s.habitRepo.ListArchived(ctx)
}

func (s *habitService) SaveHabit(ctx context.Context, habit *entity.Habit) (*entity.Habit, error) {
	for _, d := range habit.Days {
		if !entity.IsWeekdayLabel(d) {
			return nil, fmt.Errorf("%w: unknown weekday label %q", entity.ErrInvalidHabit, d)
		}
	}

	if habit.ReminderOn {
		if habit.ReminderTime == nil || habit.ReminderText == nil {
			return nil, fmt.Errorf("%w: reminder requires a time and a text", entity.ErrInvalidHabit)
		}
		if _, err := time.Parse("15:04", *habit.ReminderTime); err != nil {
			return nil, fmt.Errorf("%w: bad reminder time %q", entity.ErrInvalidHabit, *habit.ReminderTime)
		}
		granted, err := s.scheduler.RequestPermission(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to request notification permission: %w", err)
		}
		if !granted {
			return nil, entity.ErrPermissionDenied
		}
	}

	now := s.clock.Now().UTC()
	habit.UpdatedAt = now

	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
		habit.CreatedAt = now
		if err := s.habitRepo.Create(ctx, habit); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.habitRepo.GetByID(ctx, habit.ID)
		if err != nil {
			return nil, err
		}
		habit.CreatedAt = existing.CreatedAt
		habit.AlertIDs = existing.AlertIDs
		if err := s.habitRepo.Update(ctx, habit); err != nil {
			return nil, err
		}
	}

	if err := s.rescheduleAlerts(ctx, habit); err != nil {
		return nil, err
	}

	// The new schedule must be visible in today's report right away.
	if _, err := s.reconciler.Today(ctx); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"habit_id": habit.ID,
		"name":     habit.Name,
	}).Info("habit saved")

	return habit, nil
}

func (s *habitService) Archive(ctx context.Context, habitID uuid.UUID) error {
	return s.setArchived(ctx, habitID, true)
}

func (s *habitService) Unarchive(ctx context.Context, habitID uuid.UUID) error {
	return s.setArchived(ctx, habitID, false)
}

func (s *habitService) setArchived(ctx context.Context, habitID uuid.UUID, archived bool) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	if err := s.habitRepo.SetArchived(ctx, habitID, archived); err != nil {
		return err
	}
	habit.Archived = archived

	// Archiving cancels reminders, unarchiving brings them back.
	if err := s.rescheduleAlerts(ctx, habit); err != nil {
		return err
	}

	if _, err := s.reconciler.Today(ctx); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"habit_id": habitID,
		"archived": archived,
	}).Info("habit archive state changed")

	return nil
}

func (s *habitService) DeleteHabit(ctx context.Context, habitID uuid.UUID) error {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return err
	}

	// Cancel pending alerts before the habit row (and its alert id list)
	// goes away.
	habit.ReminderOn = false
	if _, err := s.scheduler.ScheduleNotifications(ctx, habit); err != nil {
		return fmt.Errorf("failed to cancel notifications: %w", err)
	}

	if err := s.habitRepo.Delete(ctx, habitID); err != nil {
		return err
	}

	if _, err := s.reconciler.Today(ctx); err != nil {
		return err
	}

	s.log.WithField("habit_id", habitID).Info("habit deleted")
	return nil
}

// rescheduleAlerts calls the notification boundary and persists the returned
// alert identifiers onto the habit.
func (s *habitService) rescheduleAlerts(ctx context.Context, habit *entity.Habit) error {
	alertIDs, err := s.scheduler.ScheduleNotifications(ctx, habit)
	if err != nil {
		return fmt.Errorf("failed to schedule notifications: %w", err)
	}

	if err := s.habitRepo.UpdateAlertIDs(ctx, habit.ID, alertIDs); err != nil {
		return fmt.Errorf("failed to persist alert ids: %w", err)
	}
	habit.AlertIDs = alertIDs

	return nil
}
