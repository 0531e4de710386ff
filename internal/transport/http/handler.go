package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"habitio-service/internal/domain/entity"
	"habitio-service/internal/domain/service"
	"habitio-service/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultStatsWindow = 30

// CacheInvalidator drops cached stats after a mutation. May be nil.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}

// Clock provides "now" for defaulting toggle dates to today.
type Clock interface {
	Now() time.Time
}

// Handler exposes the core operations to the presentation layer
type Handler struct {
	habits     service.HabitService
	reconciler service.Reconciler
	stats      service.StatsService
	cache      CacheInvalidator
	clock      Clock
	log        *logrus.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	habits service.HabitService,
	reconciler service.Reconciler,
	stats service.StatsService,
	cache CacheInvalidator,
	clock Clock,
	log *logrus.Logger,
) *Handler {
	return &Handler{
		habits:     habits,
		reconciler: reconciler,
		stats:      stats,
		cache:      cache,
		clock:      clock,
		log:        log,
	}
}

type habitRequest struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" binding:"required"`
	Category     *string  `json:"category"`
	Days         []string `json:"days" binding:"dive,weekday"`
	Archived     bool     `json:"archived"`
	ReminderOn   bool     `json:"reminder_on"`
	ReminderTime *string  `json:"reminder_time"`
	ReminderText *string  `json:"reminder_text"`
}

type habitResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     *string  `json:"category,omitempty"`
	Days         []string `json:"days"`
	Archived     bool     `json:"archived"`
	ReminderOn   bool     `json:"reminder_on"`
	ReminderTime *string  `json:"reminder_time,omitempty"`
	ReminderText *string  `json:"reminder_text,omitempty"`
	AlertIDs     []string `json:"alert_ids"`
	CreatedAt    string   `json:"created_at"`
}

type recordResponse struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	HabitName string `json:"habit_name,omitempty"`
	Date      string `json:"date"`
	IsEnabled bool   `json:"is_enabled"`
	Done      bool   `json:"done"`
}

type reportResponse struct {
	ID      string           `json:"id"`
	Date    string           `json:"date"`
	Rate    float64          `json:"rate"`
	Records []recordResponse `json:"records"`
}

func toHabitResponse(h *entity.Habit) habitResponse {
	days := h.Days
	if days == nil {
		days = []string{}
	}
	alerts := h.AlertIDs
	if alerts == nil {
		alerts = []string{}
	}
	return habitResponse{
		ID:           h.ID.String(),
		Name:         h.Name,
		Category:     h.Category,
		Days:         days,
		Archived:     h.Archived,
		ReminderOn:   h.ReminderOn,
		ReminderTime: h.ReminderTime,
		ReminderText: h.ReminderText,
		AlertIDs:     alerts,
		CreatedAt:    h.CreatedAt.Format(time.RFC3339),
	}
}

func toRecordResponse(r *entity.Record) recordResponse {
	resp := recordResponse{
		ID:        r.ID.String(),
		HabitID:   r.HabitID.String(),
		Date:      r.Date.Format("2006-01-02"),
		IsEnabled: r.IsEnabled,
		Done:      r.Done,
	}
	if r.Habit != nil {
		resp.HabitName = r.Habit.Name
	}
	return resp
}

func reportRate(report *entity.Report) float64 {
	return stats.Rate(report.Records)
}

func toReportResponse(report *entity.Report, rate float64) reportResponse {
	records := make([]recordResponse, 0, len(report.Records))
	for _, r := range report.Records {
		records = append(records, toRecordResponse(r))
	}
	return reportResponse{
		ID:      report.ID.String(),
		Date:    report.Date.Format("2006-01-02"),
		Rate:    rate,
		Records: records,
	}
}

// ListHabits handles GET /api/v1/habits
func (h *Handler) ListHabits(c *gin.Context) {
	habits, err := h.habits.ListActive(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.habitList(habits))
}

// ListArchivedHabits handles GET /api/v1/habits/archive
func (h *Handler) ListArchivedHabits(c *gin.Context) {
	habits, err := h.habits.ListArchived(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.habitList(habits))
}

func (h *Handler) habitList(habits []*entity.Habit) gin.H {
	out := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, toHabitResponse(habit))
	}
	return gin.H{"habits": out, "total": len(out)}
}

// SaveHabit handles POST /api/v1/habits
func (h *Handler) SaveHabit(c *gin.Context) {
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habit := &entity.Habit{
		Name:         req.Name,
		Category:     req.Category,
		Days:         req.Days,
		Archived:     req.Archived,
		ReminderOn:   req.ReminderOn,
		ReminderTime: req.ReminderTime,
		ReminderText: req.ReminderText,
	}

	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
			return
		}
		habit.ID = id
	}

	saved, err := h.habits.SaveHabit(c.Request.Context(), habit)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, toHabitResponse(saved))
}

// ArchiveHabit handles POST /api/v1/habits/:id/archive
func (h *Handler) ArchiveHabit(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveHabit handles POST /api/v1/habits/:id/unarchive
func (h *Handler) UnarchiveHabit(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	if archived {
		err = h.habits.Archive(c.Request.Context(), id)
	} else {
		err = h.habits.Unarchive(c.Request.Context(), id)
	}
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// DeleteHabit handles DELETE /api/v1/habits/:id
func (h *Handler) DeleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	if err := h.habits.DeleteHabit(c.Request.Context(), id); err != nil {
		h.abortWithError(c, err)
		return
	}

	h.invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// TodayReport handles GET /api/v1/report/today
func (h *Handler) TodayReport(c *gin.Context) {
	report, err := h.reconciler.Today(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(report, reportRate(report)))
}

type toggleRequest struct {
	HabitID string `json:"habit_id" binding:"required,uuid"`
	Date    string `json:"date"` // "2006-01-02", today when empty
}

// ToggleRecord handles POST /api/v1/records/toggle
func (h *Handler) ToggleRecord(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	habitID, err := uuid.Parse(req.HabitID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	day := h.clock.Now()
	if req.Date != "" {
		day, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
	}

	record, err := h.reconciler.ToggleRecord(c.Request.Context(), habitID, day)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, toRecordResponse(record))
}

// WeekdayRates handles GET /api/v1/stats/weekdays
func (h *Handler) WeekdayRates(c *gin.Context) {
	window := h.statsWindow(c)

	rates, err := h.stats.WeekdayRates(c.Request.Context(), window)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weekdays": entity.Weekdays,
		"rates":    rates,
		"window":   window,
	})
}

type dailyRateResponse struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// DailyRates handles GET /api/v1/stats/daily
func (h *Handler) DailyRates(c *gin.Context) {
	window := h.statsWindow(c)

	rates, err := h.stats.DailyRates(c.Request.Context(), window)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	days := make([]dailyRateResponse, 0, len(rates))
	for _, r := range rates {
		days = append(days, dailyRateResponse{
			Date: r.Date.Format("2006-01-02"),
			Rate: r.Rate,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"days":   days,
		"window": window,
	})
}

// HabitRate handles GET /api/v1/stats/habits/:id
func (h *Handler) HabitRate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit id"})
		return
	}

	window := h.statsWindow(c)

	rate, err := h.stats.HabitRate(c.Request.Context(), id, window)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habit_id": id.String(),
		"rate":     rate,
		"window":   window,
	})
}

// statsWindow parses the window query parameter. Zero means all history;
// negatives and garbage fall back to the default.
func (h *Handler) statsWindow(c *gin.Context) int {
	window := defaultStatsWindow
	if raw := c.Query("window"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			window = parsed
		}
	}
	return window
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.cache != nil {
		h.cache.Invalidate(ctx)
	}
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrHabitNotFound), errors.Is(err, entity.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrInvalidHabit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrDuplicateHabit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
