package monitor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/healthboard/internal/ui"
)

// SortOrder defines how services are ordered in the dashboard.
type SortOrder int

const (
	SortByConfig SortOrder = iota
	SortByName
	SortByVerdict
	SortByLatency
)

// String returns a human-readable label for the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortByName:
		return "name"
	case SortByVerdict:
		return "status"
	case SortByLatency:
		return "latency"
	default:
		return "config"
	}
}

// Next cycles to the next sort order.
func (s SortOrder) Next() SortOrder {
	return SortOrder((int(s) + 1) % 4)
}

// ViewMode defines the current display mode of the dashboard.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// Key bindings as constants for consistency.
const (
	KeyQuit          = "q"
	KeyQuitAlt       = "ctrl+c"
	KeyRefresh       = "r"
	KeyCycleSort     = "s"
	KeyCycleInterval = "i"
	KeySelectPrev    = "up"
	KeySelectPrevK   = "k"
	KeySelectNext    = "down"
	KeySelectNextJ   = "j"
	KeySelectFirst   = "home"
	KeySelectLast    = "end"
	KeyExpand        = "enter"
	KeyCollapse      = "esc"
	KeyToggleHelp    = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	// Detail view: Esc returns to list, arrows scroll the viewport
	if m.viewMode == ViewDetail {
		switch key {
		case KeyCollapse:
			m.viewMode = ViewList
			return true, nil
		case KeySelectPrev, KeySelectPrevK, KeySelectNext, KeySelectNextJ:
			return false, nil
		}
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		m.feed.Close()
		return true, tea.Quit

	case KeyRefresh:
		if m.source.RefreshNow() {
			m.setFlash("refreshing")
		} else {
			m.setFlash("refresh already in progress")
		}
		return true, nil

	case KeyCycleInterval:
		next, ok := m.nextInterval(m.source.Interval())
		if !ok {
			return true, nil
		}
		if err := m.source.SetInterval(next); err != nil {
			m.setFlash(fmt.Sprintf("interval not changed: %v", err))
			return true, nil
		}
		m.setFlash("refreshing every " + ui.FormatInterval(next))
		return true, nil

	case KeyCycleSort:
		m.sortOrder = m.sortOrder.Next()
		m.sortServices()
		m.setFlash("sorted by " + m.sortOrder.String())
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < len(m.services)-1 {
			m.selected++
		}
		return true, nil

	case KeySelectFirst:
		if len(m.services) > 0 {
			m.selected = 0
		}
		return true, nil

	case KeySelectLast:
		if len(m.services) > 0 {
			m.selected = len(m.services) - 1
		}
		return true, nil

	case KeyExpand:
		if m.viewMode == ViewList && len(m.services) > 0 {
			m.viewMode = ViewDetail
			m.updateDetailViewportContent()
			m.detailViewport.GotoTop()
		}
		return true, nil

	case KeyCollapse:
		m.viewMode = ViewList
		return true, nil
	}

	return false, nil
}
