package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"stock-forecaster/internal/forecast"
	"stock-forecaster/internal/forecastlog"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/store"
)

const logRetentionDays = 30

// Scheduler runs the forecast engine on a cron schedule in exchange-local time.
type Scheduler struct {
	cron   *cron.Cron
	cfg    *store.Config
	engine *forecast.Engine
	ctx    context.Context
}

// New builds a scheduler whose cron clock runs in the exchange timezone, so
// a "16:15 on weekdays" schedule means 16:15 at the exchange.
func New(ctx context.Context, cfg *store.Config, engine *forecast.Engine) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location())),
		cfg:    cfg,
		engine: engine,
		ctx:    ctx,
	}
}

// Register adds the forecast job and log housekeeping to the cron table.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule.Cron, s.forecastTask); err != nil {
		return fmt.Errorf("register forecast task: %w", err)
	}
	// Housekeeping: compress old forecast logs every day just after midnight.
	if _, err := s.cron.AddFunc("0 5 0 * * *", func() {
		if err := forecastlog.CompressOlder(logRetentionDays); err != nil {
			logger.ErrorWithErr(s.ctx, "Log compression failed", err)
		}
	}); err != nil {
		return fmt.Errorf("register log compression: %w", err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "schedule", s.cfg.Schedule.Cron, "timezone", s.cfg.ExchangeTimezone)
}

// Stop halts the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn(s.ctx, "Timed out waiting for running jobs to finish")
	}
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunNow executes the forecast task immediately, outside the schedule.
func (s *Scheduler) RunNow() {
	s.forecastTask()
}

func (s *Scheduler) forecastTask() {
	logger.Info(s.ctx, "Running scheduled forecast batch", "symbols", len(s.cfg.Universe))
	start := time.Now()
	results := s.engine.RunAll(s.ctx)
	logger.Info(s.ctx, "Scheduled forecast batch finished",
		"succeeded", len(results),
		"requested", len(s.cfg.Universe),
		"duration_ms", time.Since(start).Milliseconds())
}
