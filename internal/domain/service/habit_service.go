package service

import (
	"context"
	"habitio-service/internal/domain/entity"
	"time"

	"github.com/google/uuid"
)

// HabitService defines the interface for habit lifecycle business logic
type HabitService interface {
	// ListActive retrieves all non-archived habits, newest first
	ListActive(ctx context.Context) ([]*entity.Habit, error)

	// ListArchived retrieves all archived habits, newest first
	ListArchived(ctx context.Context) ([]*entity.Habit, error)

	// SaveHabit creates the habit when its ID is zero, otherwise overwrites
	// the mutable fields of the stored habit. Reminder alerts are
	// rescheduled and the returned alert identifiers persisted, then
	// today's report is reconciled so the new schedule takes effect
	// immediately.
	SaveHabit(ctx context.Context, habit *entity.Habit) (*entity.Habit, error)

	// Archive soft deletes a habit: it disappears from active listings and
	// from future reconciliation, its reminder alerts are cancelled, and
	// its historical records stay queryable.
	Archive(ctx context.Context, habitID uuid.UUID) error

	// Unarchive restores an archived habit and reschedules its reminders
	Unarchive(ctx context.Context, habitID uuid.UUID) error

	// DeleteHabit hard deletes a habit and its records after cancelling its
	// reminder alerts
	DeleteHabit(ctx context.Context, habitID uuid.UUID) error
}

// Reconciler defines the interface for the daily reconciliation core
type Reconciler interface {
	// Reconcile ensures a report exists for the day, that every active
	// habit has exactly one record for it, and that each record's
	// is_enabled flag matches the habit's current weekly schedule. It is
	// idempotent and returns the persisted snapshot.
	Reconcile(ctx context.Context, day time.Time) (*entity.Report, error)

	// Today reconciles the current day
	Today(ctx context.Context) (*entity.Report, error)

	// ToggleRecord flips the done flag of the (habit, day) entry without
	// touching is_enabled
	ToggleRecord(ctx context.Context, habitID uuid.UUID, day time.Time) (*entity.Record, error)
}

// StatsService defines the interface for completion rate queries
type StatsService interface {
	// WeekdayRates returns one averaged completion rate per weekday
	// (Sunday first) over the most recent window reports
	WeekdayRates(ctx context.Context, window int) ([]float64, error)

	// DailyRates returns one rate per day over the most recent window
	// reports, oldest first, for rate-over-time series
	DailyRates(ctx context.Context, window int) ([]entity.DailyRate, error)

	// HabitRate returns the habit's completion rate over the records of the
	// most recent window reports
	HabitRate(ctx context.Context, habitID uuid.UUID, window int) (float64, error)
}
