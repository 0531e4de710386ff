package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"habitio-service/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type stubClock struct{ t time.Time }

func (c *stubClock) Now() time.Time { return c.t }

// stubService implements the three domain service interfaces with canned
// responses per test.
type stubService struct {
	habits []*entity.Habit
	report *entity.Report
	record *entity.Record
	daily  []entity.DailyRate
	window int
	err    error
}

func (s *stubService) ListActive(context.Context) ([]*entity.Habit, error) {
	return s.habits, s.err
}

func (s *stubService) ListArchived(context.Context) ([]*entity.Habit, error) {
	return s.habits, s.err
}

func (s *stubService) SaveHabit(_ context.Context, habit *entity.Habit) (*entity.Habit, error) {
	if s.err != nil {
		return nil, s.err
	}
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	return habit, nil
}

func (s *stubService) Archive(context.Context, uuid.UUID) error   { return s.err }
func (s *stubService) Unarchive(context.Context, uuid.UUID) error { return s.err }
func (s *stubService) DeleteHabit(context.Context, uuid.UUID) error {
	return s.err
}

func (s *stubService) Reconcile(context.Context, time.Time) (*entity.Report, error) {
	return s.report, s.err
}

func (s *stubService) Today(context.Context) (*entity.Report, error) {
	return s.report, s.err
}

func (s *stubService) ToggleRecord(context.Context, uuid.UUID, time.Time) (*entity.Record, error) {
	return s.record, s.err
}

func (s *stubService) WeekdayRates(_ context.Context, window int) ([]float64, error) {
	s.window = window
	return make([]float64, 7), s.err
}

func (s *stubService) DailyRates(_ context.Context, window int) ([]entity.DailyRate, error) {
	s.window = window
	return s.daily, s.err
}

func (s *stubService) HabitRate(context.Context, uuid.UUID, int) (float64, error) {
	return 0.5, s.err
}

func newTestRouter(stub *stubService) *gin.Engine {
	handler := NewHandler(stub, stub, stub, nil, &stubClock{t: time.Now()}, testLogger())
	return NewRouter(handler)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTodayReport(t *testing.T) {
	habit := &entity.Habit{ID: uuid.New(), Name: "Water"}
	stub := &stubService{
		report: &entity.Report{
			ID:   uuid.New(),
			Date: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
			Records: []*entity.Record{
				{ID: uuid.New(), HabitID: habit.ID, Habit: habit, IsEnabled: true, Done: true},
			},
		},
	}

	w := doRequest(newTestRouter(stub), http.MethodGet, "/api/v1/report/today", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"date":"2025-01-06"`) {
		t.Errorf("missing report date in %s", body)
	}
	if !strings.Contains(body, `"rate":1`) {
		t.Errorf("missing rate in %s", body)
	}
}

func TestSaveHabit_ValidatesWeekdays(t *testing.T) {
	stub := &stubService{}

	w := doRequest(newTestRouter(stub), http.MethodPost, "/api/v1/habits",
		`{"name":"Water","days":["Mon","Funday"]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown weekday label", w.Code)
	}
}

func TestSaveHabit_RequiresName(t *testing.T) {
	stub := &stubService{}

	w := doRequest(newTestRouter(stub), http.MethodPost, "/api/v1/habits", `{"days":["Mon"]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing name", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", entity.ErrDuplicateHabit, http.StatusConflict},
		{"permission", entity.ErrPermissionDenied, http.StatusForbidden},
		{"invalid", fmt.Errorf("%w: bad reminder time %q", entity.ErrInvalidHabit, "9am"), http.StatusBadRequest},
		{"storage", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubService{err: tt.err}
			w := doRequest(newTestRouter(stub), http.MethodPost, "/api/v1/habits",
				`{"name":"Water","days":["Mon"]}`)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestToggleRecord(t *testing.T) {
	habitID := uuid.New()
	stub := &stubService{
		record: &entity.Record{
			ID:        uuid.New(),
			HabitID:   habitID,
			Date:      time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
			IsEnabled: true,
			Done:      true,
		},
	}

	w := doRequest(newTestRouter(stub), http.MethodPost, "/api/v1/records/toggle",
		`{"habit_id":"`+habitID.String()+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"done":true`) {
		t.Errorf("missing done flag in %s", w.Body.String())
	}
}

func TestToggleRecord_NotFound(t *testing.T) {
	stub := &stubService{err: entity.ErrRecordNotFound}

	w := doRequest(newTestRouter(stub), http.MethodPost, "/api/v1/records/toggle",
		`{"habit_id":"`+uuid.NewString()+`"}`)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestWeekdayRates_SevenBuckets(t *testing.T) {
	w := doRequest(newTestRouter(&stubService{}), http.MethodGet, "/api/v1/stats/weekdays?window=7", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"rates":[0,0,0,0,0,0,0]`) {
		t.Errorf("unexpected rates payload: %s", w.Body.String())
	}
}

func TestDailyRates(t *testing.T) {
	stub := &stubService{
		daily: []entity.DailyRate{
			{Date: time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), Rate: 1},
			{Date: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC), Rate: 0.5},
		},
	}

	w := doRequest(newTestRouter(stub), http.MethodGet, "/api/v1/stats/daily?window=7", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `{"date":"2025-01-05","rate":1}`) {
		t.Errorf("missing first day in %s", body)
	}
	if !strings.Contains(body, `{"date":"2025-01-06","rate":0.5}`) {
		t.Errorf("missing second day in %s", body)
	}
	if stub.window != 7 {
		t.Errorf("window = %d, want 7", stub.window)
	}
}

func TestStatsWindow_ZeroMeansAllHistory(t *testing.T) {
	stub := &stubService{}

	w := doRequest(newTestRouter(stub), http.MethodGet, "/api/v1/stats/weekdays?window=0", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if stub.window != 0 {
		t.Errorf("window = %d, want 0 passed through", stub.window)
	}

	// Negatives and garbage still fall back to the default.
	stub = &stubService{}
	doRequest(newTestRouter(stub), http.MethodGet, "/api/v1/stats/weekdays?window=-3", "")
	if stub.window != defaultStatsWindow {
		t.Errorf("window = %d, want default for negative input", stub.window)
	}
}
