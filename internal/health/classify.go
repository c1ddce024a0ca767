package health

import "time"

// Default classification thresholds.
const (
	DefaultDegradedPing = 800 * time.Millisecond
	DefaultOfflineGrace = 30 * time.Second
)

// Classifier maps a ServiceState to a Verdict. It has no state beyond its
// thresholds and is safe to copy.
type Classifier struct {
	// DegradedPing is the latency at or above which a responding service is degraded.
	DegradedPing time.Duration
	// OfflineGrace is how long a service may go without a successful probe.
	OfflineGrace time.Duration
}

// DefaultClassifier returns a Classifier with the default thresholds.
func DefaultClassifier() Classifier {
	return Classifier{
		DegradedPing: DefaultDegradedPing,
		OfflineGrace: DefaultOfflineGrace,
	}
}

// Classify returns the verdict for state at time now. The first matching
// rule wins:
//
//  1. status error              -> offline
//  2. status loading            -> degraded
//  3. no latency on last sample -> degraded
//  4. latency >= DegradedPing   -> degraded
//  5. last success too old      -> offline
//  6. otherwise                 -> online
func (c Classifier) Classify(state ServiceState, now time.Time) Verdict {
	switch state.Status {
	case StatusError:
		return VerdictOffline
	case StatusLoading:
		return VerdictDegraded
	}

	latest, ok := state.Latest()
	if !ok {
		return VerdictDegraded
	}

	latency, ok := latest.Latency()
	if !ok {
		return VerdictDegraded
	}
	if latency >= c.DegradedPing {
		return VerdictDegraded
	}

	if state.HasSucceeded() && now.Sub(state.LastSuccessAt) > c.OfflineGrace {
		return VerdictOffline
	}

	return VerdictOnline
}

// Stale reports whether the grace window since the last success has elapsed.
func (c Classifier) Stale(lastSuccessAt, now time.Time) bool {
	if lastSuccessAt.IsZero() {
		return false
	}
	return now.Sub(lastSuccessAt) > c.OfflineGrace
}

// nextStatus derives the raw status after recording sample. A response that
// failed its predicate is an error. A probe that got no response at all is
// tolerated as ok while the service is still inside its grace window, which
// lets the classifier report it as degraded rather than offline.
func (c Classifier) nextStatus(sample Sample, lastSuccessAt time.Time) Status {
	if sample.Success {
		return StatusOK
	}
	if sample.Responded() {
		return StatusError
	}
	if lastSuccessAt.IsZero() || c.Stale(lastSuccessAt, sample.Timestamp) {
		return StatusError
	}
	return StatusOK
}
