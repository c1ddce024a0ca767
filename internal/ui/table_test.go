package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/healthboard/internal/health"
)

func TestRenderStatusTable(t *testing.T) {
	rows := []StatusTableRow{
		{Verdict: health.VerdictOnline, Name: "Backend", Key: "backend", Latency: "12 ms", Detail: "last ok just now"},
		{Verdict: health.VerdictOffline, Name: "Redis", Key: "cache", Latency: "-", Detail: "field \"redis_status\" is \"down\", want \"ok\""},
	}

	output := stripANSI(RenderStatusTable(rows))
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	assert.Len(t, lines, 4, "header, rule, and one line per service")

	assert.Contains(t, lines[0], "STATUS")
	assert.Contains(t, lines[0], "LATENCY")
	assert.Contains(t, lines[2], "● online")
	assert.Contains(t, lines[2], "Backend")
	assert.Contains(t, lines[2], "12 ms")
	assert.Contains(t, lines[3], "✗ offline")
	assert.Contains(t, lines[3], "redis_status")
}

func TestRenderStatusTable_ColumnsAlign(t *testing.T) {
	rows := []StatusTableRow{
		{Verdict: health.VerdictOnline, Name: "A", Key: "a", Latency: "1 ms"},
		{Verdict: health.VerdictDegraded, Name: "Longer name", Key: "b", Latency: "900 ms"},
	}
	lines := strings.Split(stripANSI(RenderStatusTable(rows)), "\n")
	col := runeIndex(lines[0], "LATENCY")
	assert.Equal(t, col, runeIndex(lines[2], "1 ms"))
	assert.Equal(t, col, runeIndex(lines[3], "900 ms"))
}

// runeIndex is strings.Index counted in runes, since status glyphs are multi-byte.
func runeIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return i
	}
	return len([]rune(s[:i]))
}

func TestRenderStatusTable_EmptyRows(t *testing.T) {
	assert.Equal(t, "No services configured\n", RenderStatusTable(nil))
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{name: "shorter than width", input: "foo", width: 5, expected: "foo  "},
		{name: "equal to width", input: "foobar", width: 6, expected: "foobar"},
		{name: "longer than width", input: "foobar", width: 3, expected: "foobar"},
		{name: "empty string", input: "", width: 3, expected: "   "},
		{name: "zero width", input: "foo", width: 0, expected: "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, padRight(tt.input, tt.width))
		})
	}
}
