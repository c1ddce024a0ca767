package ui

import (
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/healthboard/internal/health"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func ms(v int64) *int64 { return &v }

func okSample(latency int64) health.Sample {
	return health.Sample{LatencyMs: ms(latency), Success: true}
}

func TestRenderLatencySparkline_Empty(t *testing.T) {
	assert.Empty(t, RenderLatencySparkline(nil, 10, time.Second))
	assert.Empty(t, RenderLatencySparkline([]health.Sample{okSample(5)}, 0, time.Second))
	assert.Empty(t, RenderLatencySparkline([]health.Sample{okSample(5)}, -1, time.Second))
}

func TestRenderLatencySparkline_OneCharPerSample(t *testing.T) {
	samples := []health.Sample{okSample(10), okSample(200), okSample(400), okSample(800)}
	out := stripANSI(RenderLatencySparkline(samples, 10, 800*time.Millisecond))
	assert.Equal(t, 4, len([]rune(out)))
	assert.Equal(t, '▁', []rune(out)[0])
	assert.Equal(t, '█', []rune(out)[3])
}

func TestRenderLatencySparkline_TruncatesToWidth(t *testing.T) {
	samples := make([]health.Sample, 30)
	for i := range samples {
		samples[i] = okSample(int64(i))
	}
	out := stripANSI(RenderLatencySparkline(samples, 8, time.Second))
	assert.Equal(t, 8, len([]rune(out)))
}

func TestRenderLatencySparkline_ScalesToThreshold(t *testing.T) {
	// Fast, steady responses stay on the lowest bar.
	samples := []health.Sample{okSample(20), okSample(20), okSample(20)}
	out := stripANSI(RenderLatencySparkline(samples, 10, 800*time.Millisecond))
	assert.Equal(t, "▁▁▁", out)
}

func TestRenderLatencySparkline_MissingLatency(t *testing.T) {
	samples := []health.Sample{okSample(100), {Error: "connection refused"}, okSample(100)}
	out := stripANSI(RenderLatencySparkline(samples, 10, time.Second))
	assert.Equal(t, []rune(SymbolMissing)[0], []rune(out)[1])
}

func TestLatencyColor(t *testing.T) {
	threshold := 800 * time.Millisecond
	tests := []struct {
		name   string
		sample health.Sample
		want   lipgloss.Color
	}{
		{"fast success", okSample(50), ColorSuccess},
		{"slow success", okSample(900), ColorWarning},
		{"at threshold", okSample(800), ColorWarning},
		{"rejected response", health.Sample{LatencyMs: ms(20), Error: "bad"}, ColorError},
		{"no response", health.Sample{Error: "refused"}, ColorError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, latencyColor(tt.sample, threshold))
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, 0, level(0, 100))
	assert.Equal(t, 7, level(100, 100))
	assert.Equal(t, 7, level(500, 100), "clamped")
	assert.Equal(t, 0, level(50, 0), "zero scale")
}
