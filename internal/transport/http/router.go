package http

import (
	"net/http"

	"habitio-service/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs custom binding rules. Must run once before
// requests are served.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return entity.IsWeekdayLabel(fl.Field().String())
		})
	}
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	RegisterValidators()

	api := router.Group("/api/v1")
	{
		api.GET("/habits", handler.ListHabits)
		api.GET("/habits/archive", handler.ListArchivedHabits)
		api.POST("/habits", handler.SaveHabit)
		api.POST("/habits/:id/archive", handler.ArchiveHabit)
		api.POST("/habits/:id/unarchive", handler.UnarchiveHabit)
		api.DELETE("/habits/:id", handler.DeleteHabit)

		api.GET("/report/today", handler.TodayReport)
		api.POST("/records/toggle", handler.ToggleRecord)

		api.GET("/stats/weekdays", handler.WeekdayRates)
		api.GET("/stats/daily", handler.DailyRates)
		api.GET("/stats/habits/:id", handler.HabitRate)
	}

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return router
}
