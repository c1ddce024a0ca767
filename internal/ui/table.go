package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
)

// StatusTableRow represents one service in the status table.
type StatusTableRow struct {
	Verdict health.Verdict
	Name    string // Display name
	Key     string // Service key
	Latency string // Formatted latency
	Detail  string // Error text or last success age
}

// Column widths for the status table.
const (
	statusColWidth  = 12
	nameColWidth    = 18
	keyColWidth     = 12
	latencyColWidth = 10
)

// RenderStatusTable renders services as a plain formatted table for
// non-interactive output.
func RenderStatusTable(rows []StatusTableRow) string {
	if len(rows) == 0 {
		return "No services configured\n"
	}

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	var output strings.Builder

	header := "  " + padRight("STATUS", statusColWidth) +
		padRight("SERVICE", nameColWidth) +
		padRight("KEY", keyColWidth) +
		padRight("LATENCY", latencyColWidth) +
		"DETAIL"
	output.WriteString(headerStyle.Render(header) + "\n")
	output.WriteString(mutedStyle.Render("  "+strings.Repeat("─", lipgloss.Width(header)-2)) + "\n")

	for _, row := range rows {
		detail := mutedStyle.Render(row.Detail)
		if row.Verdict == health.VerdictOffline {
			detail = VerdictStyle(row.Verdict).Render(row.Detail)
		}

		line := "  " + padRight(RenderVerdict(row.Verdict), statusColWidth) +
			padRight(row.Name, nameColWidth) +
			padRight(mutedStyle.Render(row.Key), keyColWidth) +
			padRight(row.Latency, latencyColWidth) +
			detail
		output.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	return output.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
