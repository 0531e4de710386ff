package cron

import (
	"context"
	"fmt"
	"time"

	"habitio-service/internal/domain/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportRefresher periodically reconciles today's report so it rolls over at
// midnight and picks up schedule changes without waiting for a client call.
type ReportRefresher struct {
	reconciler service.Reconciler
	cron       *cron.Cron
	interval   time.Duration
	log        *logrus.Logger
}

// NewReportRefresher creates a new report refresher
func NewReportRefresher(reconciler service.Reconciler, interval time.Duration, log *logrus.Logger) *ReportRefresher {
	return &ReportRefresher{
		reconciler: reconciler,
		cron:       cron.New(),
		interval:   interval,
		log:        log,
	}
}

// Start starts the report refresher
func (r *ReportRefresher) Start() error {
	cronExpr := fmt.Sprintf("@every %s", r.interval.String())

	r.log.WithField("interval", r.interval.String()).Info("starting report refresher")

	_, err := r.cron.AddFunc(cronExpr, func() {
		r.refresh()
	})

	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()

	return nil
}

// Stop stops the report refresher and waits for a running job to finish
func (r *ReportRefresher) Stop() {
	r.log.Info("stopping report refresher")
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("report refresher stopped")
}

// refresh runs one reconciliation pass. Reconciliation is idempotent, so a
// failed or abandoned run is safe to retry on the next tick.
func (r *ReportRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := r.reconciler.Today(ctx)
	if err != nil {
		r.log.WithError(err).Error("report refresh failed")
		return
	}

	r.log.WithFields(logrus.Fields{
		"date":    report.Date.Format("2006-01-02"),
		"records": len(report.Records),
	}).Debug("report refreshed")
}
