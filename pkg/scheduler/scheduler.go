package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// JobFunc is one scheduled unit of work. Errors are logged, not fatal.
type JobFunc func(ctx context.Context) error

// Scheduler runs registered jobs on their schedules from a single ticker
// loop.
type Scheduler struct {
	mu       sync.Mutex
	jobs     map[string]*job
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time
}

type job struct {
	name     string
	schedule Schedule
	fn       JobFunc
	nextRun  time.Time
	running  atomic.Bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithCheckInterval sets the tick granularity. Defaults to 30 seconds.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a scheduler with no jobs registered.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		jobs:     make(map[string]*job),
		interval: 30 * time.Second,
		log:      slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a named job. Returns ErrJobExists for duplicate names.
func (s *Scheduler) Add(name string, schedule Schedule, fn JobFunc) error {
	if name == "" || schedule == nil || fn == nil {
		return ErrInvalidJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return ErrJobExists
	}
	s.jobs[name] = &job{
		name:     name,
		schedule: schedule,
		fn:       fn,
		nextRun:  schedule.Next(s.now()),
	}

	s.log.Info("registered scheduled job",
		slog.String("job", name),
		slog.String("schedule", schedule.String()))
	return nil
}

// Start runs the ticker loop until ctx is canceled. Returns
// ErrNoJobsRegistered when called with an empty registry.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	count := len(s.jobs)
	s.mu.Unlock()
	if count == 0 {
		return ErrNoJobsRegistered
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

// runDue starts every job whose next-run time has passed. Jobs run in
// their own goroutines; a job still running from a previous tick is
// skipped, and its next-run time advances so it does not fire immediately
// on completion.
func (s *Scheduler) runDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	due := make([]*job, 0)
	for _, j := range s.jobs {
		if !j.nextRun.After(now) {
			j.nextRun = j.schedule.Next(now)
			due = append(due, j)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		if !j.running.CompareAndSwap(false, true) {
			s.log.Warn("job overran its interval, skipping tick",
				slog.String("job", j.name))
			continue
		}
		go s.run(ctx, j)
	}
}

func (s *Scheduler) run(ctx context.Context, j *job) {
	defer j.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked",
				slog.String("job", j.name),
				slog.Any("panic", r))
		}
	}()

	started := s.now()
	if err := j.fn(ctx); err != nil {
		s.log.Error("job failed",
			slog.String("job", j.name),
			slog.String("error", err.Error()))
		return
	}
	s.log.Debug("job completed",
		slog.String("job", j.name),
		slog.Duration("took", s.now().Sub(started)))
}

// RunNow executes one registered job synchronously, bypassing its
// schedule. Manual-rerun hooks use it. The non-reentrant guard still
// applies.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, exists := s.jobs[name]
	s.mu.Unlock()
	if !exists {
		return ErrJobNotFound
	}

	if !j.running.CompareAndSwap(false, true) {
		return ErrJobRunning
	}
	defer j.running.Store(false)
	return j.fn(ctx)
}
