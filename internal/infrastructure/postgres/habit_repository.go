package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitio-service/internal/domain/entity"
	"habitio-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type habitRepository struct {
	pool *pgxpool.Pool
}

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(pool *pgxpool.Pool) repository.HabitRepository {
	return &habitRepository{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *habitRepository) Create(ctx context.Context, habit *entity.Habit) error {
	query := `
		INSERT INTO habits (
			id, name, category, days, archived,
			reminder_on, reminder_time, reminder_text, alert_ids,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11
		)
	`

	_, err := r.pool.Exec(ctx, query,
		habit.ID, habit.Name, habit.Category, habit.Days, habit.Archived,
		habit.ReminderOn, habit.ReminderTime, habit.ReminderText, habit.AlertIDs,
		habit.CreatedAt, habit.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateHabit
		}
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

const habitColumns = `
	id, name, category, days, archived,
	reminder_on, reminder_time, reminder_text, alert_ids,
	created_at, updated_at
`

func scanHabit(row pgx.Row) (*entity.Habit, error) {
	habit := &entity.Habit{}
	err := row.Scan(
		&habit.ID, &habit.Name, &habit.Category, &habit.Days, &habit.Archived,
		&habit.ReminderOn, &habit.ReminderTime, &habit.ReminderText, &habit.AlertIDs,
		&habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return habit, nil
}

func (r *habitRepository) GetByID(ctx context.Context, habitID uuid.UUID) (*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	habit, err := scanHabit(r.pool.QueryRow(ctx, query, habitID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, entity.ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return habit, nil
}

func (r *habitRepository) list(ctx context.Context, archived bool) ([]*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE archived = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, archived)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*entity.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) ListActive(ctx context.Context) ([]*entity.Habit, error) {
	return r.list(ctx, false)
}

func (r *habitRepository) ListArchived(ctx context.Context) ([]*entity.Habit, error) {
	return r.list(ctx, true)
}

func (r *habitRepository) Update(ctx context.Context, habit *entity.Habit) error {
	query := `
		UPDATE habits SET
			name = $1,
			category = $2,
			days = $3,
			archived = $4,
			reminder_on = $5,
			reminder_time = $6,
			reminder_text = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.pool.Exec(ctx, query,
		habit.Name, habit.Category, habit.Days, habit.Archived,
		habit.ReminderOn, habit.ReminderTime, habit.ReminderText,
		time.Now().UTC(), habit.ID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateHabit
		}
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) UpdateAlertIDs(ctx context.Context, habitID uuid.UUID, alertIDs []string) error {
	query := `
		UPDATE habits SET
			alert_ids = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, alertIDs, time.Now().UTC(), habitID)
	if err != nil {
		return fmt.Errorf("failed to update alert ids: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) SetArchived(ctx context.Context, habitID uuid.UUID, archived bool) error {
	query := `
		UPDATE habits SET
			archived = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, archived, time.Now().UTC(), habitID)
	if err != nil {
		return fmt.Errorf("failed to set archived flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHabitNotFound
	}

	return nil
}

func (r *habitRepository) Delete(ctx context.Context, habitID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1`, habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrHabitNotFound
	}

	return nil
}
