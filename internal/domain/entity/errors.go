package entity

import "errors"

// Domain error taxonomy. Storage failures are wrapped with %w by the
// repositories and surface unmodified; these sentinels cover everything the
// transport layer needs to distinguish.
var (
	// ErrHabitNotFound is returned when an operation references a missing habit.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrRecordNotFound is returned when toggling a (habit, day) entry that
	// does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateHabit is returned when another habit already owns the
	// target name.
	ErrDuplicateHabit = errors.New("a habit with this name already exists")

	// ErrInvalidHabit is returned when a habit definition fails validation,
	// such as an unknown weekday label or a malformed reminder.
	ErrInvalidHabit = errors.New("invalid habit definition")

	// ErrPermissionDenied is returned when notification authorization was
	// refused but a reminder was requested.
	ErrPermissionDenied = errors.New("notification permission denied")
)
