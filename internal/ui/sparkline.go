package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderLatencySparkline draws one character per sample for the most recent
// width samples. Bars are scaled against the larger of the slowest sample and
// the degraded threshold, so a flat line of fast responses stays low.
// Samples without a latency render as SymbolMissing.
//
// The line is colored by the newest sample:
//   - failed: red
//   - at or above threshold: yellow
//   - otherwise: green
func RenderLatencySparkline(samples []health.Sample, width int, threshold time.Duration) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	scale := float64(threshold.Milliseconds())
	for _, s := range samples {
		if s.LatencyMs != nil && float64(*s.LatencyMs) > scale {
			scale = float64(*s.LatencyMs)
		}
	}

	var sb strings.Builder
	sb.Grow(len(samples) * 3)
	for _, s := range samples {
		if s.LatencyMs == nil {
			sb.WriteString(SymbolMissing)
			continue
		}
		sb.WriteRune(sparklineBlockRunes[level(float64(*s.LatencyMs), scale)])
	}

	style := lipgloss.NewStyle().Foreground(latencyColor(samples[len(samples)-1], threshold))
	return style.Render(sb.String())
}

// level maps v in [0, scale] onto a block index.
func level(v, scale float64) int {
	numLevels := len(sparklineBlockRunes)
	if scale <= 0 {
		return 0
	}
	l := int(v / scale * float64(numLevels-1))
	if l < 0 {
		return 0
	}
	if l >= numLevels {
		return numLevels - 1
	}
	return l
}

// latencyColor picks the color for the newest sample.
func latencyColor(s health.Sample, threshold time.Duration) lipgloss.Color {
	latency, ok := s.Latency()
	switch {
	case !s.Success:
		return ColorError
	case ok && threshold > 0 && latency >= threshold:
		return ColorWarning
	default:
		return ColorSuccess
	}
}
