package service

import (
	"context"
	"habitio-service/internal/domain/entity"
)

// NotificationScheduler is the boundary to the reminder delivery system.
// The core only knows how to ask for permission, hand over a habit and
// persist the returned alert identifiers.
type NotificationScheduler interface {
	// RequestPermission asks whether reminder alerts may be registered
	RequestPermission(ctx context.Context) (bool, error)

	// ScheduleNotifications first cancels all alerts identified by the
	// habit's current alert list. If the habit is archived or its reminder
	// is disabled or incomplete it returns an empty list; otherwise it
	// registers one recurring weekly alert per scheduled day and returns
	// the new identifiers, which the caller must persist onto the habit.
	ScheduleNotifications(ctx context.Context, habit *entity.Habit) ([]string, error)
}
