package testing

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// OK returns a successful sample with the given latency and payload.
func OK(latency time.Duration, payload map[string]any) health.Sample {
	ms := latency.Milliseconds()
	return health.Sample{LatencyMs: &ms, Success: true, Payload: payload}
}

// Rejected returns a sample that got a response which failed its predicate.
func Rejected(latency time.Duration, reason string) health.Sample {
	ms := latency.Milliseconds()
	return health.Sample{LatencyMs: &ms, Error: reason}
}

// Unreachable returns a sample for a probe that got no response.
func Unreachable(reason string) health.Sample {
	return health.Sample{Error: reason}
}

// FakeProber returns scripted samples. The last scripted sample repeats once
// the script is exhausted.
type FakeProber struct {
	key   string
	clock health.Clock

	mu      sync.Mutex
	script  []health.Sample
	gate    chan struct{}
	calls   int
	started chan struct{}
}

// NewFakeProber creates a prober for key that succeeds with 10ms latency
// until scripted otherwise.
func NewFakeProber(key string) *FakeProber {
	return &FakeProber{
		key:     key,
		script:  []health.Sample{OK(10*time.Millisecond, nil)},
		started: make(chan struct{}, 64),
	}
}

// WithClock stamps samples that have no timestamp with clock.Now().
func (p *FakeProber) WithClock(clock health.Clock) *FakeProber {
	p.clock = clock
	return p
}

// Returning replaces the script.
func (p *FakeProber) Returning(samples ...health.Sample) *FakeProber {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.script = append([]health.Sample(nil), samples...)
	return p
}

// Blocking makes probes wait until Release or context cancellation.
func (p *FakeProber) Blocking() *FakeProber {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gate = make(chan struct{})
	return p
}

// Release lets blocked and future probes complete.
func (p *FakeProber) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gate != nil {
		close(p.gate)
		p.gate = nil
	}
}

// Started receives one value per probe call, as the call begins.
func (p *FakeProber) Started() <-chan struct{} {
	return p.started
}

// Calls returns how many times Probe was called.
func (p *FakeProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Key returns the service key.
func (p *FakeProber) Key() string {
	return p.key
}

// Probe returns the next scripted sample.
func (p *FakeProber) Probe(ctx context.Context) health.Sample {
	p.mu.Lock()
	p.calls++
	gate := p.gate
	var sample health.Sample
	if len(p.script) > 0 {
		sample = p.script[0]
		if len(p.script) > 1 {
			p.script = p.script[1:]
		}
	}
	p.mu.Unlock()

	select {
	case p.started <- struct{}{}:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return health.Sample{Timestamp: p.now(), Error: "probe cancelled"}
		}
	}

	if sample.Timestamp.IsZero() {
		sample.Timestamp = p.now()
	}
	return sample
}

func (p *FakeProber) now() time.Time {
	if p.clock != nil {
		return p.clock.Now()
	}
	return time.Now()
}
