package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		verdicts map[string]Verdict
		want     Verdict
	}{
		{"empty is online", map[string]Verdict{}, VerdictOnline},
		{"nil is online", nil, VerdictOnline},
		{"all online", map[string]Verdict{"a": VerdictOnline, "b": VerdictOnline}, VerdictOnline},
		{"one degraded", map[string]Verdict{"a": VerdictOnline, "b": VerdictDegraded}, VerdictDegraded},
		{"offline dominates", map[string]Verdict{"a": VerdictDegraded, "b": VerdictOffline, "c": VerdictOnline}, VerdictOffline},
		{"unknown counts as offline", map[string]Verdict{"a": Verdict("bogus")}, VerdictOffline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(tt.verdicts))
		})
	}
}

func TestVerdictOrdering(t *testing.T) {
	assert.True(t, VerdictOffline.AtLeast(VerdictDegraded))
	assert.True(t, VerdictDegraded.AtLeast(VerdictDegraded))
	assert.False(t, VerdictOnline.AtLeast(VerdictDegraded))
}

func TestParseVerdict(t *testing.T) {
	v, ok := ParseVerdict("degraded")
	assert.True(t, ok)
	assert.Equal(t, VerdictDegraded, v)

	_, ok = ParseVerdict("sideways")
	assert.False(t, ok)
}
