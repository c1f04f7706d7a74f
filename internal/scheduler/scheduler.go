package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

// DayCloser builds the snapshot of a business day.
type DayCloser interface {
	CloseDay(ctx context.Context, date string) (models.DailyReport, error)
}

// ReportSink receives closed days (report archive, spreadsheet export).
type ReportSink interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Notifier pushes the closing summary to the shop manager.
type Notifier interface {
	NotifyManager(ctx context.Context, text string) error
}

// Scheduler runs the daily close on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	shopName string
	closer   DayCloser
	sinks    map[string]ReportSink
	notifier Notifier
	logger   *zap.Logger
}

// NewScheduler creates a scheduler evaluating spec in location. sinks are
// keyed by a name used in logs; notifier may be nil.
func NewScheduler(spec string, location *time.Location, shopName string, closer DayCloser, sinks map[string]ReportSink, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		spec:     spec,
		shopName: shopName,
		closer:   closer,
		sinks:    sinks,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers the daily close and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDailyClose); err != nil {
		return fmt.Errorf("schedule daily close %q: %w", s.spec, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.spec), zap.Int("sinks", len(s.sinks)))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running close to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyClose() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.CloseDay(ctx, ""); err != nil {
		s.logger.Error("daily close finished with errors", zap.Error(err))
	}
}

// CloseDay snapshots date (empty means today) and delivers it to every sink
// and the notifier. A failing destination does not stop the others.
func (s *Scheduler) CloseDay(ctx context.Context, date string) error {
	report, err := s.closer.CloseDay(ctx, date)
	if err != nil {
		return fmt.Errorf("close day: %w", err)
	}

	s.logger.Info("day closed",
		zap.String("date", report.Date),
		zap.Float64("revenue", report.Revenue),
		zap.Int("transactions", report.TransactionCount))

	var errs []error
	for name, sink := range s.sinks {
		if err := sink.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to deliver daily report", zap.String("sink", name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyManager(ctx, reporting.FormatDailyReport(s.shopName, report)); err != nil {
			s.logger.Error("failed to notify manager", zap.Error(err))
			errs = append(errs, fmt.Errorf("notify: %w", err))
		}
	}

	return errors.Join(errs...)
}
