package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/davuth/shopledger/internal/config"
	"github.com/davuth/shopledger/internal/domain/models"
	"github.com/davuth/shopledger/internal/repository/sheets"
	"github.com/davuth/shopledger/internal/service/reports"
)

// SummaryStore persists the nightly roll-up.
type SummaryStore interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron       *cron.Cron
	reportsSvc *reports.Service
	store      SummaryStore
	exporter   sheets.Exporter
	cfg        config.SummaryConfig
	logger     *zap.Logger
}

// NewScheduler creates a new scheduler instance. The exporter may be nil when
// the sheet export is not configured.
func NewScheduler(cfg config.SummaryConfig, reportsSvc *reports.Service, store SummaryStore, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(location)),
		reportsSvc: reportsSvc,
		store:      store,
		exporter:   exporter,
		cfg:        cfg,
		logger:     logger,
	}
}

// Start registers the nightly summary job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailySummary)
	if err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runDailySummary() {
	s.logger.Info("generating daily summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportsSvc.BuildDailySummary(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.Error(err))
		return
	}

	if err := s.store.SaveDailySummary(ctx, summary); err != nil {
		s.logger.Error("failed to save daily summary", zap.Error(err))
		return
	}

	if s.exporter != nil {
		if err := s.exporter.AppendDailySummary(ctx, summary); err != nil {
			s.logger.Error("failed to export daily summary to sheet", zap.Error(err))
			return
		}
	}

	s.logger.Info("daily summary recorded",
		zap.String("date", summary.Date.Format("2006-01-02")),
		zap.Float64("profit", summary.Profit))
}
