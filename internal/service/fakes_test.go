package service

import (
	"context"
	"io"
	"sort"
	"time"

	"habitio-service/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

// fakeHabitRepo is an in-memory HabitRepository with the same uniqueness
// behavior as the postgres implementation.
type fakeHabitRepo struct {
	habits map[uuid.UUID]*entity.Habit
}

func newFakeHabitRepo() *fakeHabitRepo {
	return &fakeHabitRepo{habits: make(map[uuid.UUID]*entity.Habit)}
}

func (r *fakeHabitRepo) nameTaken(name string, except uuid.UUID) bool {
	for _, h := range r.habits {
		if h.Name == name && h.ID != except {
			return true
		}
	}
	return false
}

func (r *fakeHabitRepo) Create(_ context.Context, habit *entity.Habit) error {
	if r.nameTaken(habit.Name, habit.ID) {
		return entity.ErrDuplicateHabit
	}
	cp := *habit
	r.habits[habit.ID] = &cp
	return nil
}

func (r *fakeHabitRepo) GetByID(_ context.Context, habitID uuid.UUID) (*entity.Habit, error) {
	h, ok := r.habits[habitID]
	if !ok {
		return nil, entity.ErrHabitNotFound
	}
	cp := *h
	return &cp, nil
}

func (r *fakeHabitRepo) list(archived bool) []*entity.Habit {
	var out []*entity.Habit
	for _, h := range r.habits {
		if h.Archived == archived {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *fakeHabitRepo) ListActive(_ context.Context) ([]*entity.Habit, error) {
	return r.list(false), nil
}

func (r *fakeHabitRepo) ListArchived(_ context.Context) ([]*entity.Habit, error) {
	return r.list(true), nil
}

func (r *fakeHabitRepo) Update(_ context.Context, habit *entity.Habit) error {
	if _, ok := r.habits[habit.ID]; !ok {
		return entity.ErrHabitNotFound
	}
	if r.nameTaken(habit.Name, habit.ID) {
		return entity.ErrDuplicateHabit
	}
	cp := *habit
	r.habits[habit.ID] = &cp
	return nil
}

func (r *fakeHabitRepo) UpdateAlertIDs(_ context.Context, habitID uuid.UUID, alertIDs []string) error {
	h, ok := r.habits[habitID]
	if !ok {
		return entity.ErrHabitNotFound
	}
	h.AlertIDs = alertIDs
	return nil
}

func (r *fakeHabitRepo) SetArchived(_ context.Context, habitID uuid.UUID, archived bool) error {
	h, ok := r.habits[habitID]
	if !ok {
		return entity.ErrHabitNotFound
	}
	h.Archived = archived
	return nil
}

func (r *fakeHabitRepo) Delete(_ context.Context, habitID uuid.UUID) error {
	if _, ok := r.habits[habitID]; !ok {
		return entity.ErrHabitNotFound
	}
	delete(r.habits, habitID)
	return nil
}

// fakeReportRepo is an in-memory ReportRepository mirroring the conflict
// semantics of the postgres UpsertDay: existing records keep their identity
// and done flag, only is_enabled is refreshed.
type fakeReportRepo struct {
	reports map[time.Time]*entity.Report
	records map[string]*entity.Record // key habitID+date
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{
		reports: make(map[time.Time]*entity.Report),
		records: make(map[string]*entity.Record),
	}
}

func recordKey(habitID uuid.UUID, day time.Time) string {
	return habitID.String() + "|" + day.Format("2006-01-02")
}

func (r *fakeReportRepo) UpsertDay(_ context.Context, day time.Time, records []*entity.Record) (*entity.Report, error) {
	report, ok := r.reports[day]
	if !ok {
		report = &entity.Report{ID: uuid.New(), Date: day}
		r.reports[day] = report
	}

	for _, desired := range records {
		key := recordKey(desired.HabitID, day)
		if existing, ok := r.records[key]; ok {
			existing.IsEnabled = desired.IsEnabled
			existing.ReportID = report.ID
			continue
		}
		cp := *desired
		cp.ReportID = report.ID
		r.records[key] = &cp
	}

	return r.snapshot(day), nil
}

func (r *fakeReportRepo) snapshot(day time.Time) *entity.Report {
	report, ok := r.reports[day]
	if !ok {
		return nil
	}
	out := &entity.Report{ID: report.ID, Date: report.Date}
	for _, rec := range r.records {
		if rec.Date.Equal(day) {
			cp := *rec
			out.Records = append(out.Records, &cp)
		}
	}
	sort.Slice(out.Records, func(i, j int) bool {
		return out.Records[i].HabitID.String() < out.Records[j].HabitID.String()
	})
	return out
}

func (r *fakeReportRepo) GetByDate(_ context.Context, day time.Time) (*entity.Report, error) {
	return r.snapshot(day), nil
}

func (r *fakeReportRepo) ListRecent(_ context.Context, limit int) ([]*entity.Report, error) {
	var out []*entity.Report
	for day := range r.reports {
		out = append(out, r.snapshot(day))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeReportRepo) ToggleRecord(_ context.Context, habitID uuid.UUID, day time.Time) (*entity.Record, error) {
	rec, ok := r.records[recordKey(habitID, day)]
	if !ok {
		return nil, entity.ErrRecordNotFound
	}
	rec.Done = !rec.Done
	cp := *rec
	return &cp, nil
}

// fakeScheduler implements the notification boundary for tests.
type fakeScheduler struct {
	permission bool
	calls      int
	cancelled  [][]string
}

func (s *fakeScheduler) RequestPermission(_ context.Context) (bool, error) {
	return s.permission, nil
}

func (s *fakeScheduler) ScheduleNotifications(_ context.Context, habit *entity.Habit) ([]string, error) {
	s.calls++
	s.cancelled = append(s.cancelled, habit.AlertIDs)

	if habit.Archived || !habit.ReminderConfigured() {
		return []string{}, nil
	}
	ids := make([]string, 0, len(habit.Days))
	for range habit.Days {
		ids = append(ids, uuid.NewString())
	}
	return ids, nil
}
