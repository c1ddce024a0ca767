package health

import "time"

// ServiceReport is one service's entry in a published Snapshot.
type ServiceReport struct {
	ServiceState `yaml:",inline"`
	Verdict      Verdict `json:"verdict" yaml:"verdict"`
}

// Snapshot is the immutable state of every service after one refresh cycle.
type Snapshot struct {
	Cycle    uint64                   `json:"cycle" yaml:"cycle"`
	At       time.Time                `json:"at" yaml:"at"`
	Keys     []string                 `json:"keys" yaml:"keys"`
	Services map[string]ServiceReport `json:"services" yaml:"services"`
	Overall  Verdict                  `json:"overall" yaml:"overall"`
}

// Clone returns a deep copy of s. Every reader gets its own copy, so a
// reader that modifies a payload affects nobody else.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Keys != nil {
		out.Keys = append([]string(nil), s.Keys...)
	}
	if s.Services != nil {
		out.Services = make(map[string]ServiceReport, len(s.Services))
		for key, r := range s.Services {
			r.ServiceState = r.ServiceState.Clone()
			out.Services[key] = r
		}
	}
	return out
}

// Verdicts returns the per-service verdicts.
func (s Snapshot) Verdicts() map[string]Verdict {
	out := make(map[string]Verdict, len(s.Services))
	for key, r := range s.Services {
		out[key] = r.Verdict
	}
	return out
}

// Reclassify recomputes every verdict and the overall verdict at now.
// The receiver is not modified.
func (s Snapshot) Reclassify(c Classifier, now time.Time) Snapshot {
	out := s
	out.Services = make(map[string]ServiceReport, len(s.Services))
	for key, r := range s.Services {
		r.Verdict = c.Classify(r.ServiceState, now)
		out.Services[key] = r
	}
	out.Overall = Aggregate(out.Verdicts())
	return out
}

// Counts tallies services per verdict.
func (s Snapshot) Counts() map[Verdict]int {
	counts := map[Verdict]int{
		VerdictOnline:   0,
		VerdictDegraded: 0,
		VerdictOffline:  0,
	}
	for _, r := range s.Services {
		counts[r.Verdict]++
	}
	return counts
}

// Ordered returns reports in configuration order.
func (s Snapshot) Ordered() []ServiceReport {
	out := make([]ServiceReport, 0, len(s.Keys))
	for _, key := range s.Keys {
		if r, ok := s.Services[key]; ok {
			out = append(out, r)
		}
	}
	return out
}
