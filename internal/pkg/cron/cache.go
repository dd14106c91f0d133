package cron

import (
	"context"
	"time"
)

// Pruner drops stale entries from an in-memory cache.
type Pruner interface {
	PruneJob(ctx context.Context) error
}

// CacheJobs keeps the resolution cache from growing with superseded
// versions between decisions.
type CacheJobs struct {
	pruner   Pruner
	interval time.Duration
}

func NewCacheJobs(pruner Pruner, interval time.Duration) *CacheJobs {
	return &CacheJobs{pruner: pruner, interval: interval}
}

func (j *CacheJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_resolution_cache", j.interval, j.pruner.PruneJob)
}
