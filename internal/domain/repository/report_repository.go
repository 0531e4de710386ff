package repository

import (
	"context"
	"habitio-service/internal/domain/entity"
	"time"

	"github.com/google/uuid"
)

// ReportRepository defines the interface for report and record persistence
type ReportRepository interface {
	// GetByDate retrieves the report for a day with its records and their
	// habits joined, or nil if no report exists for that day.
	GetByDate(ctx context.Context, day time.Time) (*entity.Report, error)

	// ListRecent retrieves the most recent reports up to limit, oldest
	// first, with records and their habits joined. limit <= 0 means all.
	ListRecent(ctx context.Context, limit int) ([]*entity.Report, error)

	// UpsertDay persists a reconciled day in a single transaction: the
	// report row is created if absent, each record is inserted or has its
	// is_enabled flag refreshed (done is never touched), and the full day
	// is read back. A partial failure rolls the whole day back.
	UpsertDay(ctx context.Context, day time.Time, records []*entity.Record) (*entity.Report, error)

	// ToggleRecord flips the done flag of the (habit, day) record and
	// returns the updated record. Returns entity.ErrRecordNotFound if no
	// such record exists.
	ToggleRecord(ctx context.Context, habitID uuid.UUID, day time.Time) (*entity.Record, error)
}
