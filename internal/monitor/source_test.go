package monitor

import (
	"sync"
	"time"

	"github.com/rileyhilliard/healthboard/internal/health"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

var testClassifier = health.Classifier{
	DegradedPing: 800 * time.Millisecond,
	OfflineGrace: 30 * time.Second,
}

// fakeSource is an in-memory Source.
type fakeSource struct {
	mu           sync.Mutex
	snap         health.Snapshot
	classifier   health.Classifier
	interval     time.Duration
	busy         bool
	refreshOK    bool
	refreshCalls int
	setErr       error
	subs         map[int]func(health.Snapshot)
	nextID       int
}

func newFakeSource(snap health.Snapshot) *fakeSource {
	return &fakeSource{
		snap:       snap,
		classifier: testClassifier,
		interval:   10 * time.Second,
		refreshOK:  true,
		subs:       make(map[int]func(health.Snapshot)),
	}
}

func (f *fakeSource) Snapshot() health.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) Classifier() health.Classifier {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classifier
}

func (f *fakeSource) Interval() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.interval
}

func (f *fakeSource) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

func (f *fakeSource) RefreshNow() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refreshOK
}

func (f *fakeSource) SetInterval(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.interval = d
	return nil
}

func (f *fakeSource) OnUpdate(fn func(health.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeSource) publish(s health.Snapshot) {
	f.mu.Lock()
	f.snap = s
	subs := make([]func(health.Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (f *fakeSource) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func ms(v int64) *int64 { return &v }

// okState is a service whose single probe at t0 succeeded in latency ms.
func okState(key, name string, latency int64) health.ServiceState {
	return health.ServiceState{
		Key:           key,
		Name:          name,
		Status:        health.StatusOK,
		LastSuccessAt: t0,
		LastPayload:   map[string]any{"status": "ok"},
		History: []health.Sample{
			{Timestamp: t0, LatencyMs: ms(latency), Success: true, Payload: map[string]any{"status": "ok"}},
		},
	}
}

// failedState is a service whose only probe at t0 got no response.
func failedState(key, name, msg string) health.ServiceState {
	return health.ServiceState{
		Key:    key,
		Name:   name,
		Status: health.StatusError,
		History: []health.Sample{
			{Timestamp: t0, Error: msg},
		},
	}
}

func loadingState(key, name string) health.ServiceState {
	return health.ServiceState{Key: key, Name: name, Status: health.StatusLoading}
}

// buildSnapshot classifies states at t0 in the given order.
func buildSnapshot(cycle uint64, states ...health.ServiceState) health.Snapshot {
	s := health.Snapshot{
		Cycle:    cycle,
		At:       t0,
		Services: make(map[string]health.ServiceReport, len(states)),
	}
	for _, st := range states {
		s.Keys = append(s.Keys, st.Key)
		s.Services[st.Key] = health.ServiceReport{ServiceState: st}
	}
	return s.Reclassify(testClassifier, t0)
}

// standardSnapshot has one service per verdict, in config order
// api (online), graphql (degraded), cache (offline).
func standardSnapshot() health.Snapshot {
	return buildSnapshot(1,
		okState("api", "API", 120),
		okState("graphql", "GraphQL", 950),
		failedState("cache", "Redis", "connection refused"),
	)
}

// newTestModel builds a model whose clock is fixed at now.
func newTestModel(src *fakeSource, now time.Time) Model {
	m := NewModel(src, []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second, 30 * time.Second})
	m.now = func() time.Time { return now }
	m.reclassify()
	return m
}
