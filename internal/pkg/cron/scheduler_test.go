package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneJob(ctx context.Context) error {
	p.calls.Add(1)
	return nil
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	pruner := &countingPruner{}
	NewCacheJobs(pruner, time.Minute).RegisterJobs(s)

	boom := errors.New("boom")
	s.AddJob("failing", time.Minute, func(ctx context.Context) error { return boom })
	s.AddJob("disabled", 0, func(ctx context.Context) error { return nil })

	// Act
	err := s.RunOnce(context.Background())

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), pruner.calls.Load())
	assert.Equal(t, []string{"prune_resolution_cache", "failing"}, s.Jobs())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background())
	pruner := &countingPruner{}
	NewCacheJobs(pruner, 5*time.Millisecond).RegisterJobs(s)

	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return pruner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := pruner.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, pruner.calls.Load())
}
