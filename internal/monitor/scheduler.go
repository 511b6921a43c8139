package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"stockpulse/internal/config"
)

// Scheduler drives the monitor at a fixed cadence. Singleton mode
// guarantees at most one cycle in flight, so the monitor itself needs no
// cross-cycle mutual exclusion.
type Scheduler struct {
	cron    *gocron.Scheduler
	monitor *Monitor
	logger  zerolog.Logger
	cfg     config.MonitorConfig
}

// NewScheduler creates a scheduler for the given monitor.
func NewScheduler(m *Monitor, cfg config.MonitorConfig, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    gocron.NewScheduler(time.UTC),
		monitor: m,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start begins periodic cycles after the configured startup delay and
// returns immediately.
func (s *Scheduler) Start() error {
	_, err := s.cron.
		Every(s.cfg.Interval()).
		SingletonMode().
		StartAt(time.Now().Add(s.cfg.StartupDelay())).
		Do(s.runCycle)
	if err != nil {
		return fmt.Errorf("scheduling monitor job: %w", err)
	}

	s.cron.StartAsync()
	s.logger.Info().
		Dur("interval", s.cfg.Interval()).
		Dur("startup_delay", s.cfg.StartupDelay()).
		Msg("Alert monitor scheduled")
	return nil
}

// Stop halts the scheduler. An in-flight cycle finishes; the next one is
// not started.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info().Msg("Alert monitor stopped")
}

func (s *Scheduler) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Interval())
	defer cancel()

	if _, err := s.monitor.RunCycle(ctx); err != nil {
		// Retryable: the next scheduled cycle re-reads the store.
		s.logger.Error().Err(err).Msg("Monitor cycle failed")
	}
}
