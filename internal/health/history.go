package health

import "sync"

// DefaultHistorySize is the default number of samples retained per service.
const DefaultHistorySize = 40

// History is a fixed-capacity ring buffer of Samples in insertion order.
// Appending past capacity evicts the oldest sample. It is safe for
// concurrent use.
type History struct {
	mu    sync.RWMutex
	data  []Sample
	head  int // next write position
	count int
	size  int
}

// NewHistory creates a history with the given capacity.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		data: make([]Sample, size),
		size: size,
	}
}

// Append adds a copy of s, evicting the oldest sample when full.
func (h *History) Append(s Sample) {
	s = s.Clone()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.data[h.head] = s
	h.head = (h.head + 1) % h.size
	if h.count < h.size {
		h.count++
	}
}

// Snapshot returns a deep copy of the stored samples, oldest first.
func (h *History) Snapshot() []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastLocked(h.count)
}

// Last returns up to n of the most recent samples, oldest first.
func (h *History) Last(n int) []Sample {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastLocked(n)
}

// Latest returns the newest sample.
func (h *History) Latest() (Sample, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return Sample{}, false
	}
	return h.data[(h.head-1+h.size)%h.size].Clone(), true
}

// Len returns the number of stored samples.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return h.size
}

// lastLocked must be called with h.mu held.
func (h *History) lastLocked(n int) []Sample {
	if n <= 0 || h.count == 0 {
		return []Sample{}
	}
	if n > h.count {
		n = h.count
	}

	result := make([]Sample, n)

	// head is the next write slot, so the newest sample sits at head-1.
	start := (h.head - n + h.size) % h.size
	for i := 0; i < n; i++ {
		result[i] = h.data[(start+i)%h.size].Clone()
	}
	return result
}
