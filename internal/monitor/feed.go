package monitor

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// Source is the part of the scheduler the dashboard drives.
// *health.Scheduler satisfies it.
type Source interface {
	Snapshot() health.Snapshot
	Classifier() health.Classifier
	Interval() time.Duration
	Busy() bool
	RefreshNow() bool
	SetInterval(interval time.Duration) error
	OnUpdate(fn func(health.Snapshot)) func()
}

// Feed bridges scheduler publications into the Bubble Tea event loop.
// It holds at most one pending snapshot: a newer publication replaces an
// unread one, so a slow UI only ever renders the latest state.
type Feed struct {
	ch          chan health.Snapshot
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

// NewFeed subscribes to src.
func NewFeed(src Source) *Feed {
	f := &Feed{
		ch:   make(chan health.Snapshot, 1),
		done: make(chan struct{}),
	}
	f.unsubscribe = src.OnUpdate(f.publish)
	return f
}

func (f *Feed) publish(s health.Snapshot) {
	for {
		select {
		case f.ch <- s:
			return
		default:
		}
		// Drop the stale pending snapshot and retry.
		select {
		case <-f.ch:
		default:
		}
	}
}

// Next returns a command that waits for the next snapshot. It yields nil
// once the feed is closed.
func (f *Feed) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-f.ch:
			return snapshotMsg(s)
		case <-f.done:
			return nil
		}
	}
}

// Close unsubscribes from the source and releases any waiting command.
func (f *Feed) Close() {
	f.once.Do(func() {
		f.unsubscribe()
		close(f.done)
	})
}
