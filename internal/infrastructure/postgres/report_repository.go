package postgres

import (
	"context"
	"fmt"
	"time"

	"habitio-service/internal/domain/entity"
	"habitio-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(pool *pgxpool.Pool) repository.ReportRepository {
	return &reportRepository{pool: pool}
}

const recordColumns = `
	r.id, r.habit_id, r.report_id, r.date, r.is_enabled, r.done,
	h.id, h.name, h.category, h.days, h.archived,
	h.reminder_on, h.reminder_time, h.reminder_text, h.alert_ids,
	h.created_at, h.updated_at
`

func scanRecord(rows pgx.Rows) (*entity.Record, error) {
	record := &entity.Record{}
	habit := &entity.Habit{}
	var reportID *uuid.UUID

	err := rows.Scan(
		&record.ID, &record.HabitID, &reportID, &record.Date, &record.IsEnabled, &record.Done,
		&habit.ID, &habit.Name, &habit.Category, &habit.Days, &habit.Archived,
		&habit.ReminderOn, &habit.ReminderTime, &habit.ReminderText, &habit.AlertIDs,
		&habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reportID != nil {
		record.ReportID = *reportID
	}
	record.Habit = habit

	return record, nil
}

// recordsByDate loads the records of the given days with their habits
// joined, grouped per day.
func (r *reportRepository) recordsByDate(ctx context.Context, days []time.Time) (map[string][]*entity.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records r
		JOIN habits h ON h.id = r.habit_id
		WHERE r.date = ANY($1)
		ORDER BY r.date, h.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string][]*entity.Record)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		key := record.Date.Format("2006-01-02")
		byDay[key] = append(byDay[key], record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return byDay, nil
}

func (r *reportRepository) GetByDate(ctx context.Context, day time.Time) (*entity.Report, error) {
	report := &entity.Report{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, date FROM reports WHERE date = $1`, day,
	).Scan(&report.ID, &report.Date)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	byDay, err := r.recordsByDate(ctx, []time.Time{day})
	if err != nil {
		return nil, err
	}
	report.Records = byDay[report.Date.Format("2006-01-02")]

	return report, nil
}

func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Report, error) {
	query := `SELECT id, date FROM reports ORDER BY date DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*entity.Report
	var days []time.Time
	for rows.Next() {
		report := &entity.Report{}
		if err := rows.Scan(&report.ID, &report.Date); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
		days = append(days, report.Date)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	if len(reports) == 0 {
		return reports, nil
	}

	byDay, err := r.recordsByDate(ctx, days)
	if err != nil {
		return nil, err
	}
	for _, report := range reports {
		report.Records = byDay[report.Date.Format("2006-01-02")]
	}

	// Oldest first for the aggregator.
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}

	return reports, nil
}

// UpsertDay runs the reconciler's check-then-act atomically: the report row
// and every record are written in one transaction, and a conflict on
// (habit_id, date) refreshes is_enabled without touching done. A failure
// rolls the whole day back.
func (r *reportRepository) UpsertDay(ctx context.Context, day time.Time, records []*entity.Record) (*entity.Report, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO reports (id, date) VALUES ($1, $2) ON CONFLICT (date) DO NOTHING`,
		uuid.New(), day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure report: %w", err)
	}

	var reportID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM reports WHERE date = $1`, day).Scan(&reportID); err != nil {
		return nil, fmt.Errorf("failed to read report id: %w", err)
	}

	for _, record := range records {
		_, err = tx.Exec(ctx, `
			INSERT INTO records (id, habit_id, report_id, date, is_enabled, done)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (habit_id, date) DO UPDATE SET
				is_enabled = EXCLUDED.is_enabled,
				report_id = EXCLUDED.report_id
		`, record.ID, record.HabitID, reportID, day, record.IsEnabled, record.Done)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit report: %w", err)
	}

	report, err := r.GetByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report missing after upsert for %s", day.Format("2006-01-02"))
	}

	return report, nil
}

func (r *reportRepository) ToggleRecord(ctx context.Context, habitID uuid.UUID, day time.Time) (*entity.Record, error) {
	record := &entity.Record{}
	var reportID *uuid.UUID

	err := r.pool.QueryRow(ctx, `
		UPDATE records SET done = NOT done
		WHERE habit_id = $1 AND date = $2
		RETURNING id, habit_id, report_id, date, is_enabled, done
	`, habitID, day).Scan(
		&record.ID, &record.HabitID, &reportID, &record.Date, &record.IsEnabled, &record.Done,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, entity.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to toggle record: %w", err)
	}

	if reportID != nil {
		record.ReportID = *reportID
	}

	return record, nil
}
