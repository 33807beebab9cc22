// Package warmup runs the periodic background jobs of the web tier: keeping
// the public response cache warm and purging expired sessions.
package warmup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/metrics"
)

const defaultJobTimeout = 30 * time.Second

// Job is one unit of scheduled work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler wraps a seconds-resolution cron.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration
	jobs    []Job
}

func NewScheduler(log *zap.Logger, timeout time.Duration) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		log:     log,
		timeout: timeout,
	}
}

// Add schedules jobs on spec, e.g. "0 */5 * * * *" for every five minutes.
func (s *Scheduler) Add(spec string, jobs ...Job) error {
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(spec, func() { s.run(context.Background(), j) }); err != nil {
			return fmt.Errorf("schedule %s: %w", j.Name, err)
		}
		s.jobs = append(s.jobs, j)
	}
	return nil
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop stops the scheduler and waits for running jobs or ctx, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// RunAll runs every registered job once, in order. Failures are logged and
// do not stop the remaining jobs.
func (s *Scheduler) RunAll(ctx context.Context) {
	for _, j := range s.jobs {
		s.run(ctx, j)
	}
}

func (s *Scheduler) run(ctx context.Context, j Job) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := j.Run(ctx); err != nil {
		metrics.RecordJobRun(j.Name, "failed")
		s.log.Warn("job failed", zap.String("job", j.Name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	metrics.RecordJobRun(j.Name, "ok")
	s.log.Debug("job done", zap.String("job", j.Name), zap.Duration("took", time.Since(start)))
}
