package repository

import (
	"context"
	"habitio-service/internal/domain/entity"

	"github.com/google/uuid"
)

// HabitRepository defines the interface for habit persistence
type HabitRepository interface {
	// Create creates a new habit. Returns entity.ErrDuplicateHabit if the
	// name is already taken.
	Create(ctx context.Context, habit *entity.Habit) error

	// GetByID retrieves a habit by ID
	GetByID(ctx context.Context, habitID uuid.UUID) (*entity.Habit, error)

	// ListActive retrieves all non-archived habits, newest first
	ListActive(ctx context.Context) ([]*entity.Habit, error)

	// ListArchived retrieves all archived habits, newest first
	ListArchived(ctx context.Context) ([]*entity.Habit, error)

	// Update overwrites all mutable fields of an existing habit, preserving
	// its creation timestamp. Returns entity.ErrDuplicateHabit on a name
	// collision with a different habit.
	Update(ctx context.Context, habit *entity.Habit) error

	// UpdateAlertIDs replaces the habit's scheduled alert identifier list
	UpdateAlertIDs(ctx context.Context, habitID uuid.UUID, alertIDs []string) error

	// SetArchived flips the archived flag
	SetArchived(ctx context.Context, habitID uuid.UUID, archived bool) error

	// Delete hard deletes a habit; its records are cascade deleted
	Delete(ctx context.Context, habitID uuid.UUID) error
}
