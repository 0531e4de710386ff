package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"habitio-service/internal/config"
	domainservice "habitio-service/internal/domain/service"
	cronpkg "habitio-service/internal/infrastructure/cron"
	infradb "habitio-service/internal/infrastructure/db"
	infrakafka "habitio-service/internal/infrastructure/kafka"
	"habitio-service/internal/infrastructure/postgres"
	infraredis "habitio-service/internal/infrastructure/redis"
	"habitio-service/internal/service"
	transport "habitio-service/internal/transport/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// App represents the application
type App struct {
	config     *config.Config
	log        *logrus.Logger
	httpServer *transport.Server
	refresher  *cronpkg.ReportRefresher
	reconciler domainservice.Reconciler
	scheduler  *infrakafka.ReminderScheduler
	statsCache *infraredis.StatsCache
	dbPool     *pgxpool.Pool
}

// New creates a new application
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := newLogger(&cfg.Logging)
	log.WithField("environment", cfg.Service.Environment).Info("configuration loaded")

	loc := time.UTC
	if cfg.Service.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Service.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Service.Timezone, err)
		}
	}

	ctx := context.Background()
	dbPool, err := infradb.NewPostgresPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := infradb.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, err
	}
	log.Info("connected to PostgreSQL")

	habitRepo := postgres.NewHabitRepository(dbPool)
	reportRepo := postgres.NewReportRepository(dbPool)

	clock := service.NewSystemClock(loc)
	scheduler := infrakafka.NewReminderScheduler(&cfg.Kafka, log)

	reconciler := service.NewReconciler(habitRepo, reportRepo, clock, log)
	habitService := service.NewHabitService(habitRepo, reconciler, scheduler, clock, log)

	statsCache := infraredis.NewStatsCache(&cfg.Redis, log)
	var cache service.StatsCache
	if statsCache != nil {
		cache = statsCache
		log.Info("stats cache enabled")
	}
	statsService := service.NewStatsService(reportRepo, cache, log)

	var refresher *cronpkg.ReportRefresher
	if cfg.Scheduler.Enabled {
		refresher = cronpkg.NewReportRefresher(reconciler, cfg.Scheduler.RefreshInterval, log)
	} else {
		log.Info("report refresher disabled in configuration")
	}

	var invalidator transport.CacheInvalidator
	if statsCache != nil {
		invalidator = statsCache
	}
	handler := transport.NewHandler(habitService, reconciler, statsService, invalidator, clock, log)
	router := transport.NewRouter(handler)
	httpServer := transport.NewServer(router, cfg.HTTP.Port, log)

	return &App{
		config:     cfg,
		log:        log,
		httpServer: httpServer,
		refresher:  refresher,
		scheduler:  scheduler,
		statsCache: statsCache,
		dbPool:     dbPool,
		reconciler: reconciler,
	}, nil
}

// Run starts the application and blocks until an interrupt arrives
func (a *App) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Bring today's report up to date before serving requests.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if _, err := a.reconciler.Today(ctx); err != nil {
		a.log.WithError(err).Warn("initial reconciliation failed")
	}
	cancel()

	if a.refresher != nil {
		if err := a.refresher.Start(); err != nil {
			return fmt.Errorf("failed to start report refresher: %w", err)
		}
	}

	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.log.WithError(err).Error("HTTP server error")
			quit <- syscall.SIGTERM
		}
	}()

	a.log.WithField("service", a.config.Service.Name).Info("service started")

	<-quit
	a.log.Info("shutting down")

	a.httpServer.Stop()

	if a.refresher != nil {
		a.refresher.Stop()
	}

	if err := a.scheduler.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close reminder scheduler")
	}

	if a.statsCache != nil {
		if err := a.statsCache.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close stats cache")
		}
	}

	a.dbPool.Close()

	a.log.Info("shutdown complete")
	return nil
}

func newLogger(cfg *config.LoggingConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
