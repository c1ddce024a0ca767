package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.viewMode == ViewDetail {
		return m.renderDetailView()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderServiceCards())

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the dashboard header with summary stats.
func (m Model) renderHeader() string {
	counts := m.view.Counts()

	var updateText string
	switch secs := m.SecondsSinceUpdate(); secs {
	case -1:
		updateText = "waiting for first refresh"
	case 0:
		updateText = "updated just now"
	default:
		updateText = fmt.Sprintf("updated %ds ago", secs)
	}

	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("healthboard")

	parts := []string{
		fmt.Sprintf("%d services", len(m.services)),
		fmt.Sprintf("%d online", counts[health.VerdictOnline]),
		fmt.Sprintf("%d degraded", counts[health.VerdictDegraded]),
		fmt.Sprintf("%d offline", counts[health.VerdictOffline]),
		"every " + ui.FormatInterval(m.source.Interval()),
		updateText,
	}
	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(" | " + strings.Join(parts, " | "))

	busy := ""
	if m.source.Busy() {
		busy = " " + m.spinner.View()
	}

	return HeaderStyle.Render(title + " " + renderVerdictBadge(m.view.Overall) + stats + busy)
}

// renderServiceCards renders the grid of service cards.
func (m Model) renderServiceCards() string {
	if len(m.services) == 0 {
		return LabelStyle.Render("No services configured")
	}

	if m.LayoutMode() == LayoutMinimal {
		var lines []string
		for i, key := range m.services {
			lines = append(lines, m.renderMinimalRow(key, m.width, i == m.selected))
		}
		return strings.Join(lines, "\n")
	}

	cardWidth := m.calculateCardWidth()

	var cards []string
	for i, key := range m.services {
		cards = append(cards, m.renderCard(key, cardWidth, i == m.selected))
	}

	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth determines the optimal card width based on terminal width.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return 40 // Default width
	}
	if m.width >= BreakpointCompact {
		return 38
	}
	return m.width - 4 // Single column with margin
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := 1
	if m.width > 0 {
		// Account for card margins and borders
		effectiveCardWidth := cardWidth + 3
		cardsPerRow = m.width / effectiveCardWidth
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the keyboard hints, the sort order, and any notice.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"i interval",
		"s sort: " + m.sortOrder.String(),
		"↑↓ select",
		"enter details",
		"? help",
	}

	footer := FooterStyle.Render(strings.Join(hints, " | "))
	if flash := m.Flash(); flash != "" {
		footer += "  " + FlashStyle.Render(flash)
	}
	return footer
}
