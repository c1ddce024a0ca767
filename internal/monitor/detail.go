package monitor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// Detail view constants
const (
	detailGraphHeight = 4
	detailRecentLimit = 10
	detailMinWidth    = 40
)

var detailContainerStyle = lipgloss.NewStyle().Padding(0, 2)

// renderDetailView renders the expanded single-service view.
func (m Model) renderDetailView() string {
	key := m.SelectedService()
	if key == "" {
		return LabelStyle.Render("No service selected")
	}

	var b strings.Builder
	b.WriteString(m.renderDetailHeader(key))
	b.WriteString("\n\n")

	if m.viewportReady {
		b.WriteString(m.detailViewport.View())
	} else {
		b.WriteString(m.renderDetailContent(key, m.detailWidth()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetailFooter())

	return detailContainerStyle.Render(b.String())
}

// renderDetailHeader renders the service name and verdict prominently.
func (m Model) renderDetailHeader(key string) string {
	report := m.view.Services[key]

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render(report.Name)

	return fmt.Sprintf("%s  %s  %s", title, renderVerdictBadge(report.Verdict), LabelStyle.Render(report.Key))
}

func (m Model) detailWidth() int {
	width := m.width - 6
	if width < detailMinWidth {
		width = detailMinWidth
	}
	return width
}

// updateDetailViewportContent re-renders the selected service into the viewport.
func (m *Model) updateDetailViewportContent() {
	if !m.viewportReady {
		return
	}
	key := m.SelectedService()
	if key == "" {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(key, m.detailWidth()))
}

// renderDetailContent renders every section for one service.
func (m Model) renderDetailContent(key string, width int) string {
	report := m.view.Services[key]

	sections := []string{
		m.renderDetailStatusSection(report, width),
		m.renderDetailLatencySection(report, width),
		m.renderDetailRecentSection(report, width),
		m.renderDetailPayloadSection(report, width),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderDetailStatusSection(report health.ServiceReport, width int) string {
	now := m.now()
	latest, hasSample := report.Latest()

	rows := [][2]string{
		{"verdict", renderVerdictBadge(report.Verdict)},
		{"raw status", string(report.Status)},
		{"latency", m.renderLatency(latest, hasSample)},
		{"last success", ui.FormatAge(report.LastSuccessAt, now)},
	}
	if hasSample {
		rows = append(rows, [2]string{"last probe", ui.FormatAge(latest.Timestamp, now)})
		if latest.Error != "" {
			rows = append(rows, [2]string{"error", ErrorTextStyle.Render(ui.Truncate(latest.Error, width-20))})
		}
	}

	lines := []string{SectionHeader("Status", verdictLabel(report), width)}
	for _, r := range rows {
		label := LabelStyle.Width(14).Render(r[0])
		lines = append(lines, SectionContentLine(label+ValueStyle.Render(r[1]), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailLatencySection(report health.ServiceReport, width int) string {
	var data []float64
	var total float64
	for _, s := range report.History {
		if s.LatencyMs != nil {
			data = append(data, float64(*s.LatencyMs))
			total += float64(*s.LatencyMs)
		}
	}

	value := "no responses"
	if len(data) > 0 {
		value = fmt.Sprintf("avg %.0f ms", total/float64(len(data)))
	}

	lines := []string{SectionHeader("Latency", value, width)}
	threshold := m.source.Classifier().DegradedPing
	if graph := RenderLatencyGraph(data, width-4, detailGraphHeight, threshold); graph != "" {
		for _, row := range strings.Split(graph, "\n") {
			lines = append(lines, SectionContentLine(row, width))
		}
	} else {
		lines = append(lines, SectionContentLine(LabelStyle.Render("waiting for data"), width))
	}
	lines = append(lines, SectionContentLine(
		LabelStyle.Render(fmt.Sprintf("degraded at %s", ui.FormatLatency(msPtr(threshold.Milliseconds())))), width))
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailRecentSection(report health.ServiceReport, width int) string {
	recent := report.History
	if len(recent) > detailRecentLimit {
		recent = recent[len(recent)-detailRecentLimit:]
	}

	value := fmt.Sprintf("%d of %d", len(recent), len(report.History))
	lines := []string{SectionHeader("Recent probes", value, width)}

	if len(recent) == 0 {
		lines = append(lines, SectionContentLine(LabelStyle.Render("no probes yet"), width))
	}

	// Newest first
	for i := len(recent) - 1; i >= 0; i-- {
		s := recent[i]
		mark := lipgloss.NewStyle().Foreground(ColorHealthy).Render(ui.SymbolSuccess)
		if !s.Success {
			mark = ErrorTextStyle.Render(ui.SymbolFail)
		}
		line := LabelStyle.Render(s.Timestamp.Format("15:04:05")) + "  " + mark + "  " +
			ValueStyle.Render(fmt.Sprintf("%-8s", ui.FormatLatency(s.LatencyMs)))
		if s.Error != "" {
			line += " " + ErrorTextStyle.Render(ui.Truncate(s.Error, width-30))
		}
		lines = append(lines, SectionContentLine(line, width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailPayloadSection(report health.ServiceReport, width int) string {
	lines := []string{SectionHeader("Last payload", "", width)}

	if report.LastPayload == nil {
		lines = append(lines, SectionContentLine(LabelStyle.Render("none received"), width))
	} else {
		raw, err := json.MarshalIndent(report.LastPayload, "", "  ")
		if err != nil {
			lines = append(lines, SectionContentLine(ErrorTextStyle.Render(err.Error()), width))
		} else {
			for _, row := range strings.Split(string(raw), "\n") {
				lines = append(lines, SectionContentLine(ValueStyle.Render(ui.Truncate(row, width-4)), width))
			}
		}
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderDetailFooter renders navigation hints for the detail view.
func (m Model) renderDetailFooter() string {
	hints := []string{"Esc back", "↑↓ scroll", "r refresh", "q quit"}
	footer := FooterStyle.Render(strings.Join(hints, " | "))
	if flash := m.Flash(); flash != "" {
		footer += "  " + FlashStyle.Render(flash)
	}
	return footer
}

func msPtr(v int64) *int64 { return &v }
