// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

// ErrJobNotFound is returned for unknown job names
var ErrJobNotFound = errors.New("job not found")

var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type entry struct {
	job     Job
	id      cron.EntryID
	history JobHistory
}

// Scheduler owns the cron runner and per-job history
// ⭐ SSOT: periodic work is registered here only
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	policy  retry.Policy
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]*entry
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithPolicy overrides the per-run retry policy
func WithPolicy(p retry.Policy) Option {
	return func(s *Scheduler) { s.policy = p }
}

// WithClock overrides the time source used for results
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a stopped scheduler
func New(log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		logger:  log.WithField("component", "scheduler"),
		policy:  retry.New(3, time.Minute),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateSchedule reports whether spec parses
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// AddJob registers job on its schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(job.Schedule(), func() { s.run(context.Background(), job) })
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}
	s.entries[name] = &entry{job: job, id: id}

	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")
	return nil
}

// RemoveJob unschedules a job and forgets its history
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	s.cron.Remove(e.id)
	delete(s.entries, name)

	s.logger.WithField("job", name).Info("Job removed from scheduler")
	return nil
}

// Start runs the cron loop in the background
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow executes a job synchronously outside its schedule
func (s *Scheduler) RunNow(ctx context.Context, name string) (JobResult, error) {
	s.mu.RLock()
	e, exists := s.entries[name]
	s.mu.RUnlock()
	if !exists {
		return JobResult{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, e.job), nil
}

func (s *Scheduler) run(ctx context.Context, job Job) JobResult {
	name := job.Name()
	log := s.logger.WithField("job", name)
	log.Info("Job started")

	attempts := 0
	policy := s.policy
	policy.OnRetry = func(attempt int, err error) {
		log.WithError(err).WithField("attempt", attempt).Warn("Job execution failed, retrying")
	}

	start := s.now()
	err := policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		return job.Run(ctx)
	})
	end := s.now()

	result := JobResult{
		JobName:   name,
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Attempts:  attempts,
		Success:   err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.Lock()
	if e, exists := s.entries[name]; exists {
		e.history.Add(result)
	}
	s.mu.Unlock()

	if err != nil {
		log.WithError(err).WithField("duration", result.Duration).Error("Job failed after all retries")
	} else {
		log.WithField("duration", result.Duration).Info("Job completed successfully")
	}
	return result
}

// History returns a copy of a job's recent results
func (s *Scheduler) History(name string) ([]JobResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return e.history.Latest(historyLimit), nil
}

// Jobs returns registered job names, sorted
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobStats summarizes one job's history
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// Stats returns statistics for every job
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.entries))
	for name, e := range s.entries {
		st := JobStats{
			JobName:      name,
			Schedule:     e.job.Schedule(),
			TotalRuns:    len(e.history.Results),
			FailureCount: e.history.Failures(),
			SuccessRate:  e.history.SuccessRate(),
		}
		if last := e.history.Latest(1); len(last) == 1 {
			st.LastRun = &last[0].StartTime
			st.LastError = last[0].Error
		}
		stats[name] = st
	}
	return stats
}
