// Package scheduler runs periodic syncs over every stored connection.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SyncFunc runs one full sync pass over all connections.
type SyncFunc func(ctx context.Context) error

type Scheduler struct {
	CronExpr string

	cron   *cron.Cron
	sync   SyncFunc
	logger *slog.Logger
}

func NewScheduler(cronExpr string, logger *slog.Logger) (*Scheduler, error) {
	if cronExpr == "" {
		return nil, errors.New("scheduler cron expression is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &Scheduler{
		CronExpr: cronExpr,
		logger:   logger.With("module", "scheduler", "cron", cronExpr),
	}, nil
}

func (s *Scheduler) Start(ctx context.Context, sync SyncFunc) error {
	s.logger.InfoContext(ctx, "Starting sync scheduler")
	s.sync = sync

	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := s.cron.AddFunc(s.CronExpr, s.run)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) run() {
	s.logger.Info("Scheduled sync pass starting")

	err := s.sync(context.Background())
	if err != nil {
		s.logger.Error("Scheduled sync pass failed", "error", err)
	}
}

func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Stopping sync scheduler")

	if s.cron != nil {
		s.cron.Stop()
	}

	return nil
}
