package entity

import (
	"time"

	"github.com/google/uuid"
)

// Weekdays holds the application calendar: seven short labels, Sunday first.
// Habit schedules, reconciliation and weekday stats all index into this slice,
// so the order must stay consistent everywhere schedules are compared.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the calendar label for the given time's weekday.
func WeekdayLabel(t time.Time) string {
	return Weekdays[int(t.Weekday())]
}

// IsWeekdayLabel reports whether s is one of the seven calendar labels.
func IsWeekdayLabel(s string) bool {
	for _, d := range Weekdays {
		if d == s {
			return true
		}
	}
	return false
}

// DayOf truncates t to day granularity in t's location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Habit represents a recurring activity definition
type Habit struct {
	ID uuid.UUID

	// Basic info
	Name     string // unique label across active and archived habits
	Category *string

	// Weekly schedule: subset of Weekdays labels
	Days []string

	Archived bool

	// Reminder configuration
	ReminderOn   bool
	ReminderTime *string // time of day, "15:04"
	ReminderText *string

	// Identifiers of the currently scheduled reminder alerts,
	// owned by the notification scheduler
	AlertIDs []string

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledOn reports whether the habit's weekly schedule includes the given
// weekday label.
func (h *Habit) ScheduledOn(weekday string) bool {
	for _, d := range h.Days {
		if d == weekday {
			return true
		}
	}
	return false
}

// ReminderConfigured reports whether the reminder has everything it needs to
// be scheduled: enabled, a time of day and a text.
func (h *Habit) ReminderConfigured() bool {
	return h.ReminderOn && h.ReminderTime != nil && h.ReminderText != nil
}
