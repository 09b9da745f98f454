// Package scheduler runs background jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"helpdesk/internal/application/problem/usecases"
	"helpdesk/internal/shared/biztime"
	"helpdesk/internal/shared/logger"
)

// SLABreachMarker flags problems whose resolution deadline has passed.
type SLABreachMarker interface {
	Execute(ctx context.Context, cmd usecases.MarkSLABreachesCommand) (*usecases.MarkSLABreachesResult, error)
}

// SchedulerManager owns the single gocron scheduler of the process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSLASweepJob runs the SLA sweep every interval, starting
// immediately. A zero interval leaves the job unregistered.
func (m *SchedulerManager) RegisterSLASweepJob(marker SLABreachMarker, interval time.Duration) error {
	if interval <= 0 {
		m.logger.Infow("SLA sweep job disabled")
		return nil
	}

	timeout := interval
	if timeout > 5*time.Minute {
		timeout = 5 * time.Minute
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			m.sweepSLA(ctx, marker)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("problem", "sla"),
		gocron.WithName("sla-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered SLA sweep job", "interval", interval.String())
	return nil
}

func (m *SchedulerManager) sweepSLA(ctx context.Context, marker SLABreachMarker) {
	m.logger.Debugw("SLA sweep started")

	startTime := biztime.NowUTC()
	result, err := marker.Execute(ctx, usecases.MarkSLABreachesCommand{})
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("SLA sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if result.Flagged > 0 || result.Failed > 0 {
		m.logger.Infow("SLA breaches flagged",
			"count", result.Flagged,
			"failed", result.Failed,
			"duration", time.Since(startTime),
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
