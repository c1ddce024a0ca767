package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// Color palette using ANSI color codes for terminal compatibility, so the
// dashboard follows the user's terminal theme.

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// VerdictColor maps a verdict to its semantic color. Anything that is not
// online or degraded renders as an error.
func VerdictColor(v health.Verdict) lipgloss.Color {
	switch v {
	case health.VerdictOnline:
		return ColorSuccess
	case health.VerdictDegraded:
		return ColorWarning
	default:
		return ColorError
	}
}

// VerdictStyle returns a foreground style for the verdict.
func VerdictStyle(v health.Verdict) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(VerdictColor(v))
}

// RenderVerdict renders "<symbol> <label>" in the verdict's color.
func RenderVerdict(v health.Verdict) string {
	return VerdictStyle(v).Render(VerdictSymbol(v) + " " + v.String())
}
