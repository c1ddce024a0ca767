package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// renderCardLine pads content to the card's inner width.
func renderCardLine(content string, width int) string {
	contentWidth := lipgloss.Width(content)
	if width > contentWidth {
		content += strings.Repeat(" ", width-contentWidth)
	}
	return content
}

// joinEnds places left and right on one line of the given width.
func joinEnds(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderCard renders a single service card.
func (m Model) renderCard(key string, width int, selected bool) string {
	report := m.view.Services[key]
	threshold := m.source.Classifier().DegradedPing

	style := CardStyle.Width(width)
	if selected {
		style = CardSelectedStyle.Width(width)
	}

	// Inner width excludes horizontal padding
	inner := width - 2
	if inner < 10 {
		inner = 10
	}

	var lines []string

	name := VerdictStyle(report.Verdict).Render(ui.VerdictSymbol(report.Verdict)) + " " +
		ServiceNameStyle.Render(ui.Truncate(report.Name, inner-14))
	lines = append(lines, joinEnds(name, VerdictStyle(report.Verdict).Render(verdictLabel(report)), inner))

	latest, hasSample := report.Latest()
	latencyText := LabelStyle.Render("latency ") + m.renderLatency(latest, hasSample)
	lastOK := LabelStyle.Render("ok " + ui.FormatAge(report.LastSuccessAt, m.now()))
	lines = append(lines, joinEnds(latencyText, lastOK, inner))

	if spark := ui.RenderLatencySparkline(report.History, inner, threshold); spark != "" {
		lines = append(lines, spark)
	} else {
		lines = append(lines, LabelStyle.Render(strings.Repeat(ui.SymbolMissing, inner)))
	}

	switch {
	case hasSample && latest.Error != "":
		lines = append(lines, ErrorTextStyle.Render(ui.Truncate(latest.Error, inner)))
	case report.Status == health.StatusLoading:
		lines = append(lines, LabelStyle.Render("waiting for first probe"))
	default:
		lines = append(lines, LabelStyle.Render(report.Key))
	}

	for i, line := range lines {
		lines[i] = renderCardLine(line, inner)
	}

	return style.Render(strings.Join(lines, "\n"))
}

// renderMinimalRow renders a service on one line for narrow terminals.
func (m Model) renderMinimalRow(key string, width int, selected bool) string {
	report := m.view.Services[key]
	latest, hasSample := report.Latest()

	cursor := "  "
	if selected {
		cursor = lipgloss.NewStyle().Foreground(ColorAccent).Render("> ")
	}

	left := cursor + VerdictStyle(report.Verdict).Render(ui.VerdictSymbol(report.Verdict)) + " " +
		ServiceNameStyle.Render(report.Name)
	return joinEnds(left, m.renderLatency(latest, hasSample), width)
}

// renderLatency formats the latest latency, colored against the threshold.
func (m Model) renderLatency(s health.Sample, ok bool) string {
	if !ok {
		return LabelStyle.Render("-")
	}
	latency, responded := s.Latency()
	if !responded {
		return ErrorTextStyle.Render("-")
	}
	color := LatencyColor(latency, m.source.Classifier().DegradedPing)
	return lipgloss.NewStyle().Foreground(color).Render(ui.FormatLatency(s.LatencyMs))
}

// verdictLabel is the verdict, or "loading" before the first probe lands.
func verdictLabel(r health.ServiceReport) string {
	if r.Status == health.StatusLoading {
		return string(health.StatusLoading)
	}
	return r.Verdict.String()
}
