package health

import "time"

// Status is the raw result of the most recent probe of a service.
// It is not what users see; see Verdict.
type Status string

const (
	StatusLoading Status = "loading"
	StatusOK      Status = "ok"
	StatusError   Status = "error"
)

// Verdict is the three-level health classification shown to users.
type Verdict string

const (
	VerdictOnline   Verdict = "online"
	VerdictDegraded Verdict = "degraded"
	VerdictOffline  Verdict = "offline"
)

// String returns the verdict label.
func (v Verdict) String() string {
	return string(v)
}

// severity orders verdicts so that offline > degraded > online.
func (v Verdict) severity() int {
	switch v {
	case VerdictOnline:
		return 0
	case VerdictDegraded:
		return 1
	default:
		return 2
	}
}

// AtLeast reports whether v is as bad as or worse than other.
func (v Verdict) AtLeast(other Verdict) bool {
	return v.severity() >= other.severity()
}

// ParseVerdict converts a label into a Verdict.
func ParseVerdict(s string) (Verdict, bool) {
	switch Verdict(s) {
	case VerdictOnline, VerdictDegraded, VerdictOffline:
		return Verdict(s), true
	default:
		return "", false
	}
}

// Sample is the immutable record of one probe outcome.
// Success implies LatencyMs is set.
type Sample struct {
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	LatencyMs *int64         `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`
	Success   bool           `json:"success" yaml:"success"`
	Payload   map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// Latency returns the measured latency and whether a response was received.
func (s Sample) Latency() (time.Duration, bool) {
	if s.LatencyMs == nil {
		return 0, false
	}
	return time.Duration(*s.LatencyMs) * time.Millisecond, true
}

// Responded reports whether the probe got a response back (latency present).
func (s Sample) Responded() bool {
	return s.LatencyMs != nil
}

// Clone returns a copy of s that shares no memory with it.
func (s Sample) Clone() Sample {
	out := s
	if s.LatencyMs != nil {
		ms := *s.LatencyMs
		out.LatencyMs = &ms
	}
	out.Payload = ClonePayload(s.Payload)
	return out
}

// ClonePayload deep-copies a decoded JSON object. Nested objects and arrays
// are copied too; a nil payload stays nil.
func ClonePayload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return ClonePayload(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func latencyPtr(d time.Duration) *int64 {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return &ms
}

// ServiceState is a read-only view of one monitored service.
// History is a copy ordered oldest to newest; callers may not rely on
// mutations to it being seen anywhere else.
type ServiceState struct {
	Key           string         `json:"key" yaml:"key"`
	Name          string         `json:"name" yaml:"name"`
	Status        Status         `json:"status" yaml:"status"`
	LastSuccessAt time.Time      `json:"last_success_at,omitzero" yaml:"last_success_at,omitempty"`
	LastPayload   map[string]any `json:"last_payload,omitempty" yaml:"last_payload,omitempty"`
	History       []Sample       `json:"history" yaml:"history"`
}

// Latest returns the most recent sample, if any.
func (s ServiceState) Latest() (Sample, bool) {
	if len(s.History) == 0 {
		return Sample{}, false
	}
	return s.History[len(s.History)-1], true
}

// Clone returns a copy of s that shares no memory with it.
func (s ServiceState) Clone() ServiceState {
	out := s
	out.LastPayload = ClonePayload(s.LastPayload)
	if s.History != nil {
		out.History = make([]Sample, len(s.History))
		for i, sample := range s.History {
			out.History[i] = sample.Clone()
		}
	}
	return out
}

// HasSucceeded reports whether a successful sample was ever recorded.
func (s ServiceState) HasSucceeded() bool {
	return !s.LastSuccessAt.IsZero()
}
