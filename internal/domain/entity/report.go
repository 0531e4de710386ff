package entity

import (
	"time"

	"github.com/google/uuid"
)

// Report represents the attendance snapshot for one calendar day.
// There is at most one report per day.
type Report struct {
	ID   uuid.UUID
	Date time.Time // truncated to day granularity

	Records []*Record
}

// DailyRate is the overall completion rate of one day's report.
type DailyRate struct {
	Date time.Time
	Rate float64
}

// Record represents a single habit's attendance entry for a single day.
// There is at most one record per (habit, day) pair.
type Record struct {
	ID       uuid.UUID
	HabitID  uuid.UUID
	ReportID uuid.UUID
	Date     time.Time

	// IsEnabled is derived from the habit's weekly schedule and recomputed
	// by the reconciler while the day is "today"; past days keep the value
	// they had.
	IsEnabled bool

	// Done is mutated only by explicit user toggle.
	Done bool

	// Habit is the owning habit, populated on reads that join it.
	Habit *Habit
}
