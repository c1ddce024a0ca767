package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/healthboard/internal/health"
)

func TestFeed_DeliversSnapshot(t *testing.T) {
	src := newFakeSource(health.Snapshot{})
	f := NewFeed(src)
	defer f.Close()

	src.publish(buildSnapshot(1, okState("api", "API", 10)))

	msg := f.Next()()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snap.Cycle)
}

func TestFeed_LatestWins(t *testing.T) {
	src := newFakeSource(health.Snapshot{})
	f := NewFeed(src)
	defer f.Close()

	for cycle := uint64(1); cycle <= 5; cycle++ {
		src.publish(buildSnapshot(cycle, okState("api", "API", 10)))
	}

	msg := f.Next()()
	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, uint64(5), snap.Cycle, "unread snapshots are replaced by newer ones")
	assert.Len(t, f.ch, 0)
}

func TestFeed_Close(t *testing.T) {
	src := newFakeSource(health.Snapshot{})
	f := NewFeed(src)
	require.Equal(t, 1, src.subscribers())

	f.Close()
	assert.Zero(t, src.subscribers())
	assert.Nil(t, f.Next()(), "closed feed yields nil")

	assert.NotPanics(t, f.Close, "close is idempotent")
}

func TestFeed_CloseReleasesWaiter(t *testing.T) {
	src := newFakeSource(health.Snapshot{})
	f := NewFeed(src)

	done := make(chan any)
	go func() { done <- f.Next()() }()

	f.Close()
	assert.Nil(t, <-done)
}

func TestFeed_SchedulerSatisfiesSource(t *testing.T) {
	var _ Source = (*health.Scheduler)(nil)
}
