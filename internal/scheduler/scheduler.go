package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/cropbook/internal/config"
	"github.com/mamadbah2/cropbook/internal/service/analytics"
)

// Scheduler drives the periodic report snapshot runs.
type Scheduler struct {
	cron         *cron.Cron
	analyticsSvc *analytics.Service
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured timezone when it resolves, otherwise in local time.
func NewScheduler(cfg config.Config, analyticsSvc *analytics.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if location, err := time.LoadLocation(cfg.Reporting.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(location))
	} else {
		logger.Warn("unknown timezone, scheduler falls back to local time", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:         cron.New(opts...),
		analyticsSvc: analyticsSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the snapshot job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runSnapshot); err != nil {
		s.logger.Error("failed to schedule report snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runSnapshot() {
	s.logger.Info("generating scheduled report snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snapshot, err := s.analyticsSvc.GenerateSnapshot(ctx)
	if err != nil {
		s.logger.Error("failed to generate scheduled snapshot", zap.Error(err))
		return
	}

	s.logger.Info("scheduled snapshot completed", zap.String("operation_id", snapshot.OperationID))
}
