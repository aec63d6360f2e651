package scheduler

import (
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run() error
}

// Scheduler runs jobs on second-granularity cron expressions. A job that is
// still running when its next tick fires is skipped, never overlapped.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Register schedules a job. The returned error surfaces bad cron expressions.
func (s *Scheduler) Register(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, s.guarded(job)); err != nil {
		return err
	}
	s.log.Info().Str("job", job.Name()).Str("spec", spec).Msg("job registered")
	return nil
}

// guarded wraps a job so a tick that fires while the previous run of the
// same job is still in progress is skipped instead of overlapping it.
func (s *Scheduler) guarded(job Job) func() {
	var running atomic.Bool
	return func() {
		if !running.CompareAndSwap(false, true) {
			s.log.Warn().Str("job", job.Name()).Msg("previous run still in progress, skipping tick")
			return
		}
		defer running.Store(false)

		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
		}
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}
