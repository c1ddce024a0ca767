package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/logger"
	"golang.org/x/sync/errgroup"
)

// MinInterval is the shortest refresh interval the scheduler accepts.
const MinInterval = 500 * time.Millisecond

// ServiceSpec declares one monitored service. Exactly one of Prober and
// Derive must be set.
type ServiceSpec struct {
	Key    string
	Name   string
	Prober Prober
	Derive *Derivation
}

// Options configures a Scheduler.
type Options struct {
	Services    []ServiceSpec
	HistorySize int
	Classifier  Classifier
	Clock       Clock
	Logger      logger.Logger
}

// slot is the mutable state of one service. Only the cycle that owns the
// in-flight flag writes to it, and only while holding Scheduler.mu.
type slot struct {
	key           string
	name          string
	status        Status
	lastSuccessAt time.Time
	lastPayload   map[string]any
	history       *History
}

func (sl *slot) record(sample Sample, c Classifier) {
	sl.status = c.nextStatus(sample, sl.lastSuccessAt)
	if sample.Success {
		sl.lastSuccessAt = sample.Timestamp
	}
	if sample.Payload != nil {
		sl.lastPayload = ClonePayload(sample.Payload)
	}
	sl.history.Append(sample)
}

func (sl *slot) state() ServiceState {
	return ServiceState{
		Key:           sl.key,
		Name:          sl.name,
		Status:        sl.status,
		LastSuccessAt: sl.lastSuccessAt,
		LastPayload:   ClonePayload(sl.lastPayload),
		History:       sl.history.Snapshot(),
	}
}

// Scheduler drives refresh cycles over a fixed set of services and
// publishes one Snapshot per completed cycle.
//
// At most one cycle runs at a time. A tick or RefreshNow that arrives while
// a cycle is running is dropped, not queued. Stop discards the results of
// any cycle that started before it.
type Scheduler struct {
	specs      []ServiceSpec
	keys       []string
	dependents map[string][]Derivation
	clock      Clock
	log        logger.Logger

	mu         sync.Mutex
	slots      map[string]*slot
	classifier Classifier
	interval   time.Duration
	running    bool
	cancel     context.CancelFunc
	ctx        context.Context
	reset      chan time.Duration
	loopDone   chan struct{}
	subs       map[int]func(Snapshot)
	nextSub    int
	seq        uint64 // last cycle number handed out

	// Held while subscribers run. Lock order is mu, then deliverMu.
	deliverMu sync.Mutex
	cutoff    atomic.Uint64 // cycles numbered at or below this are discarded
	inFlight  atomic.Bool
	latest    atomic.Pointer[Snapshot]
	wg        sync.WaitGroup
}

// NewScheduler validates the service set and returns an idle scheduler
// whose initial snapshot has every service loading.
func NewScheduler(opts Options) (*Scheduler, error) {
	if len(opts.Services) == 0 {
		return nil, errors.New(errors.ErrConfig,
			"No services configured",
			"Add at least one entry under 'services' in your config.")
	}

	independent := make(map[string]bool)
	seen := make(map[string]bool)
	for _, spec := range opts.Services {
		if spec.Key == "" {
			return nil, errors.New(errors.ErrConfig,
				"Service with an empty key",
				"Give every service a unique 'key'.")
		}
		if seen[spec.Key] {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' is configured twice", spec.Key),
				"Service keys must be unique.")
		}
		seen[spec.Key] = true

		if (spec.Prober == nil) == (spec.Derive == nil) {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' must have either an endpoint or a derive source", spec.Key),
				"Set 'path' for a probed service or 'derive.from' for a derived one, not both.")
		}
		if spec.Prober != nil {
			independent[spec.Key] = true
		}
	}

	dependents := make(map[string][]Derivation)
	for _, spec := range opts.Services {
		if spec.Derive == nil {
			continue
		}
		d := *spec.Derive
		d.Key = spec.Key
		if !independent[d.Source] {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' derives from '%s', which is not a probed service", spec.Key, d.Source),
				"Point 'derive.from' at a service that has its own endpoint.")
		}
		dependents[d.Source] = append(dependents[d.Source], d)
	}

	clock := opts.Clock
	if clock == nil {
		clock = RealClock()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	classifier := opts.Classifier
	if classifier.DegradedPing <= 0 {
		classifier.DegradedPing = DefaultDegradedPing
	}
	if classifier.OfflineGrace <= 0 {
		classifier.OfflineGrace = DefaultOfflineGrace
	}

	s := &Scheduler{
		specs:      opts.Services,
		dependents: dependents,
		clock:      clock,
		log:        log,
		slots:      make(map[string]*slot, len(opts.Services)),
		classifier: classifier,
		subs:       make(map[int]func(Snapshot)),
	}
	for _, spec := range opts.Services {
		name := spec.Name
		if name == "" {
			name = spec.Key
		}
		s.keys = append(s.keys, spec.Key)
		s.slots[spec.Key] = &slot{
			key:     spec.Key,
			name:    name,
			status:  StatusLoading,
			history: NewHistory(opts.HistorySize),
		}
	}

	initial := s.buildSnapshotLocked(0, clock.Now(), classifier)
	s.latest.Store(&initial)

	return s, nil
}

// Keys returns service keys in configuration order.
func (s *Scheduler) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Snapshot returns a copy of the most recently published snapshot.
func (s *Scheduler) Snapshot() Snapshot {
	return s.latest.Load().Clone()
}

// Classifier returns the thresholds used for published verdicts.
func (s *Scheduler) Classifier() Classifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifier
}

// SetClassifier replaces the thresholds used by subsequent cycles.
func (s *Scheduler) SetClassifier(c Classifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifier = c
}

// Interval returns the current refresh interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether the periodic timer is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Busy reports whether a refresh cycle is in flight.
func (s *Scheduler) Busy() bool {
	return s.inFlight.Load()
}

// OnUpdate registers fn to receive every published snapshot, in cycle
// order. fn runs on the cycle's goroutine and blocks the next cycle until
// it returns; it must not call Stop. The returned func unsubscribes.
func (s *Scheduler) OnUpdate(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Start arms the refresh timer and begins an immediate first cycle.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval < MinInterval {
		return errors.New(errors.ErrSchedule,
			fmt.Sprintf("Refresh interval %s is too short", interval),
			fmt.Sprintf("Use an interval of at least %s.", MinInterval))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New(errors.ErrSchedule,
			"Scheduler is already running",
			"Call Stop before starting it again.")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.interval = interval
	s.reset = make(chan time.Duration, 1)
	s.loopDone = make(chan struct{})
	s.running = true

	go s.loop(s.ctx, interval, s.reset, s.loopDone)

	s.log.Debug("scheduler started with interval %s", interval)
	s.triggerLocked("start")
	return nil
}

// Stop cancels the timer and any in-flight probes. Results of cycles that
// started before Stop are never published, and no subscriber is called
// once Stop returns. Stop blocks until the in-flight cycle has returned, so
// it must not be called from a subscriber.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cutoff.Store(s.seq)
	s.cancel()
	done := s.loopDone
	s.mu.Unlock()

	<-done
	s.wg.Wait()

	// Wait out a delivery that began before the cutoff moved.
	s.deliverMu.Lock()
	s.deliverMu.Unlock() //nolint:staticcheck // empty critical section is the barrier
	s.log.Debug("scheduler stopped")
}

// SetInterval changes the refresh interval. When running, the current
// timer is replaced before it can fire again.
func (s *Scheduler) SetInterval(interval time.Duration) error {
	if interval < MinInterval {
		return errors.New(errors.ErrSchedule,
			fmt.Sprintf("Refresh interval %s is too short", interval),
			fmt.Sprintf("Use an interval of at least %s.", MinInterval))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = interval
	if !s.running {
		return nil
	}

	// Only this method sends, always under s.mu, so after draining the
	// buffered slot the send cannot block.
	select {
	case <-s.reset:
	default:
	}
	s.reset <- interval
	return nil
}

// RefreshNow starts a cycle immediately. It returns false when the
// scheduler is stopped or a cycle is already in flight.
func (s *Scheduler) RefreshNow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggerLocked("manual")
}

// RunOnce runs a single cycle on the caller's goroutine and returns the
// published snapshot. It fails if another cycle is in flight, if ctx is
// cancelled before every probe returns, or if the cycle was discarded by Stop.
func (s *Scheduler) RunOnce(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if !s.inFlight.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return Snapshot{}, errors.New(errors.ErrSchedule,
			"A refresh cycle is already in progress",
			"Wait for it to finish and try again.")
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()
	defer s.inFlight.Store(false)

	snap, ok := s.runCycle(ctx, seq)
	if !ok {
		return Snapshot{}, errors.New(errors.ErrSchedule,
			"Refresh cycle was cancelled",
			"The cycle was interrupted or the scheduler stopped before every probe finished.")
	}
	return snap, nil
}

// triggerLocked must be called with s.mu held.
func (s *Scheduler) triggerLocked(reason string) bool {
	if !s.running {
		return false
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		s.log.Debug("refresh (%s) skipped: cycle in flight", reason)
		return false
	}

	s.seq++
	seq := s.seq
	ctx := s.ctx
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		s.runCycle(ctx, seq)
	}()
	return true
}

// loop owns the ticker. Interval changes arrive on reset.
func (s *Scheduler) loop(ctx context.Context, interval time.Duration, reset <-chan time.Duration, done chan<- struct{}) {
	defer close(done)

	ticker := s.clock.Ticker(interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-reset:
			ticker.Stop()
			ticker = s.clock.Ticker(d)
			s.log.Debug("refresh interval changed to %s", d)
		case <-ticker.Chan():
			s.mu.Lock()
			s.triggerLocked("tick")
			s.mu.Unlock()
		}
	}
}

// runCycle probes every service, then records and publishes the results
// as one snapshot unless the cycle has been cancelled by Stop.
func (s *Scheduler) runCycle(ctx context.Context, seq uint64) (Snapshot, bool) {
	started := s.clock.Now()
	s.log.Debug("cycle %d started", seq)

	results := make(map[string]Sample, len(s.specs))
	var mu sync.Mutex
	var g errgroup.Group

	for _, spec := range s.specs {
		if spec.Prober == nil {
			continue
		}
		spec := spec
		g.Go(func() error {
			sample := s.safeProbe(ctx, spec.Prober)

			mu.Lock()
			defer mu.Unlock()
			results[spec.Key] = sample
			for _, d := range s.dependents[spec.Key] {
				results[d.Key] = d.Derive(sample)
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Debug("cycle %d discarded: %v", seq, err)
		return Snapshot{}, false
	}

	s.mu.Lock()
	if seq <= s.cutoff.Load() {
		s.mu.Unlock()
		s.log.Debug("cycle %d discarded: scheduler stopped", seq)
		return Snapshot{}, false
	}

	classifier := s.classifier
	for _, key := range s.keys {
		sample := results[key]
		if !sample.Success {
			s.log.Warn("%s probe failed: %s", key, sample.Error)
		}
		s.slots[key].record(sample, classifier)
	}

	snap := s.buildSnapshotLocked(seq, s.clock.Now(), classifier)
	stored := snap.Clone()
	s.latest.Store(&stored)
	subs := s.subscribersLocked()

	// Taken before s.mu is released so Stop cannot slip in between the
	// cutoff check above and delivery.
	s.deliverMu.Lock()
	s.mu.Unlock()
	if seq > s.cutoff.Load() {
		for _, fn := range subs {
			fn(snap.Clone())
		}
	}
	s.deliverMu.Unlock()

	s.log.Debug("cycle %d published in %s, overall %s", seq, s.clock.Now().Sub(started), snap.Overall)
	return snap, true
}

// safeProbe guards against probers that break the no-panic contract.
func (s *Scheduler) safeProbe(ctx context.Context, p Prober) (sample Sample) {
	defer func() {
		if r := recover(); r != nil {
			sample = Sample{
				Timestamp: s.clock.Now(),
				Error:     fmt.Sprintf("probe panicked: %v", r),
			}
		}
	}()
	return p.Probe(ctx)
}

// subscribersLocked returns subscribers in registration order.
func (s *Scheduler) subscribersLocked() []func(Snapshot) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}

// buildSnapshotLocked must be called with s.mu held (or before s is shared).
func (s *Scheduler) buildSnapshotLocked(seq uint64, now time.Time, c Classifier) Snapshot {
	snap := Snapshot{
		Cycle:    seq,
		At:       now,
		Keys:     s.Keys(),
		Services: make(map[string]ServiceReport, len(s.slots)),
	}
	for _, key := range s.keys {
		state := s.slots[key].state()
		snap.Services[key] = ServiceReport{
			ServiceState: state,
			Verdict:      c.Classify(state, now),
		}
	}
	snap.Overall = Aggregate(snap.Verdicts())
	return snap
}
