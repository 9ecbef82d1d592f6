package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/internal/scheduler/jobs"
	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

type flakyFlusher struct {
	failures int
	calls    int
}

func (f *flakyFlusher) Clear(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("redis unavailable")
	}
	return nil
}

func newTestScheduler() *Scheduler {
	return New(logger.Nop(),
		WithPolicy(retry.Policy{Attempts: 3, Sleep: retry.NoSleep}),
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.NoError(t, ValidateSchedule("0 0 3 * * *"))
	assert.NoError(t, ValidateSchedule("@daily"))
	assert.Error(t, ValidateSchedule("every night"))
}

func TestScheduler_AddRemove(t *testing.T) {
	s := newTestScheduler()
	job := jobs.NewCacheFlushJob(&flakyFlusher{}, "@hourly", logger.Nop())

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job), "duplicate name")
	assert.Equal(t, []string{"completion_cache_flush"}, s.Jobs())

	require.NoError(t, s.RemoveJob(job.Name()))
	assert.Empty(t, s.Jobs())
	assert.ErrorIs(t, s.RemoveJob(job.Name()), ErrJobNotFound)

	bad := jobs.NewCacheFlushJob(&flakyFlusher{}, "not a schedule", logger.Nop())
	assert.Error(t, s.AddJob(bad))
}

func TestScheduler_RunNowRetries(t *testing.T) {
	s := newTestScheduler()
	flusher := &flakyFlusher{failures: 2}
	job := jobs.NewCacheFlushJob(flusher, "@daily", logger.Nop())
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), job.Name())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, flusher.calls)

	stats := s.Stats()[job.Name()]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 0, stats.FailureCount)
	assert.InDelta(t, 1.0, stats.SuccessRate, 1e-9)
	require.NotNil(t, stats.LastRun)
}

func TestScheduler_RunNowExhausted(t *testing.T) {
	s := newTestScheduler()
	job := jobs.NewCacheFlushJob(&flakyFlusher{failures: 10}, "@daily", logger.Nop())
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), job.Name())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "flush completion cache: redis unavailable")

	history, err := s.History(job.Name())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Attempts)
	assert.Equal(t, res.Error, history[0].Error)
}

func TestScheduler_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = s.History("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobHistory(t *testing.T) {
	var h JobHistory
	for i := 0; i < historyLimit+5; i++ {
		h.Add(JobResult{Attempts: i, Success: i%2 == 0})
	}
	require.Len(t, h.Results, historyLimit)
	assert.Equal(t, 5, h.Results[0].Attempts)

	latest := h.Latest(2)
	require.Len(t, latest, 2)
	assert.Equal(t, historyLimit+4, latest[1].Attempts)
	assert.Equal(t, 50, h.Failures())
	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)
	assert.Empty(t, (&JobHistory{}).Latest(3))
}

type countingCleaner struct {
	runs int
}

func (c *countingCleaner) CleanStale() int {
	c.runs++
	return 2
}

func TestScheduler_PriceCacheCleanup(t *testing.T) {
	s := newTestScheduler()
	cleaner := &countingCleaner{}
	job := jobs.NewPriceCacheCleanupJob(cleaner, logger.Nop())
	require.NoError(t, ValidateSchedule(job.Schedule()))
	require.NoError(t, s.AddJob(job))

	res, err := s.RunNow(context.Background(), "price_cache_cleanup")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, cleaner.runs)
}
