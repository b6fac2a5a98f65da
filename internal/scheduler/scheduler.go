// Package scheduler drives scan cycles on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/usecase"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// Scheduler owns the cron instance and the scan job.
type Scheduler struct {
	cron    *cron.Cron
	scanner *usecase.Scanner
	logger  *applogger.Logger
}

// New creates a scheduler around the scanner.
func New(scanner *usecase.Scanner, logger *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		scanner: scanner,
		logger:  logger,
	}
}

// RegisterScan registers the scan cycle under the given cron spec.
func (s *Scheduler) RegisterScan(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("register scan job %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop stops scheduling new cycles. A cycle already running finishes
// on its own; cycles have no partial-cancellation semantic.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// RunNow triggers a cycle immediately (startup scan, manual trigger).
func (s *Scheduler) RunNow() {
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	if _, err := s.scanner.RunCycle(context.Background()); err != nil {
		s.logger.Error("scan cycle failed", applogger.Error(err))
	}
}
