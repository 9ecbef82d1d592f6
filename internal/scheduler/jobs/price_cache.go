package jobs

import (
	"context"

	"github.com/opsatya/ved/pkg/logger"
)

// StaleCleaner drops expired entries and reports how many went
type StaleCleaner interface {
	CleanStale() int
}

// PriceCacheCleanupJob evicts expired live quotes
type PriceCacheCleanupJob struct {
	cache  StaleCleaner
	logger *logger.Logger
}

// NewPriceCacheCleanupJob creates the quote cache cleanup job
func NewPriceCacheCleanupJob(cache StaleCleaner, log *logger.Logger) *PriceCacheCleanupJob {
	return &PriceCacheCleanupJob{cache: cache, logger: log}
}

// Name returns the job name
func (j *PriceCacheCleanupJob) Name() string {
	return "price_cache_cleanup"
}

// Schedule runs every five minutes
func (j *PriceCacheCleanupJob) Schedule() string {
	return "0 */5 * * * *"
}

// Run evicts expired quotes
func (j *PriceCacheCleanupJob) Run(ctx context.Context) error {
	if count := j.cache.CleanStale(); count > 0 {
		j.logger.WithField("removed", count).Debug("Price cache cleanup completed")
	}
	return nil
}
