// Package jobs holds the scheduled maintenance jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/opsatya/ved/pkg/logger"
)

// Flusher empties a completion cache
type Flusher interface {
	Clear(ctx context.Context) error
}

// CacheFlushJob clears the completion cache on a schedule
type CacheFlushJob struct {
	cache    Flusher
	schedule string
	logger   *logger.Logger
}

// NewCacheFlushJob creates a cache flush job
func NewCacheFlushJob(cache Flusher, schedule string, log *logger.Logger) *CacheFlushJob {
	return &CacheFlushJob{cache: cache, schedule: schedule, logger: log}
}

// Name returns the job name
func (j *CacheFlushJob) Name() string {
	return "completion_cache_flush"
}

// Schedule returns the configured cron expression
func (j *CacheFlushJob) Schedule() string {
	return j.schedule
}

// Run flushes the cache
func (j *CacheFlushJob) Run(ctx context.Context) error {
	if err := j.cache.Clear(ctx); err != nil {
		return fmt.Errorf("flush completion cache: %w", err)
	}
	j.logger.Info("Completion cache flushed")
	return nil
}
