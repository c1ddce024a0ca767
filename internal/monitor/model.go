package monitor

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: one line per service, no sparklines
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: cards in one or two columns
	LayoutCompact
	// LayoutStandard is for terminals 120+ columns: cards in three or more columns
	LayoutStandard
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
)

const (
	// clockInterval drives re-classification between cycles, so a service
	// whose grace window runs out goes offline without waiting for a probe.
	clockInterval = time.Second

	// flashDuration is how long a footer notice stays visible.
	flashDuration = 3 * time.Second
)

// Model is the Bubble Tea model for the health dashboard.
type Model struct {
	source    Source
	feed      *Feed
	published health.Snapshot // last snapshot from the scheduler
	view      health.Snapshot // published, re-classified at now
	services  []string        // display order
	intervals []time.Duration
	now       func() time.Time

	selected  int
	width     int
	height    int
	quitting  bool
	sortOrder SortOrder
	viewMode  ViewMode
	showHelp  bool

	flash      string
	flashUntil time.Time

	spinner spinner.Model

	// Detail view viewport for scrollable content
	detailViewport viewport.Model
	viewportReady  bool
}

// snapshotMsg carries a snapshot published by the scheduler.
type snapshotMsg health.Snapshot

// clockTickMsg triggers re-classification of the current snapshot.
type clockTickMsg time.Time

// SettingsChangedMsg tells the dashboard that thresholds or the refresh
// interval changed underneath it, typically after a config reload.
type SettingsChangedMsg struct {
	Source string // file that triggered the change, shown in the footer
}

// NewModel creates a dashboard over src. intervals are the choices the
// interval key cycles through.
func NewModel(src Source, intervals []time.Duration) Model {
	m := Model{
		source:    src,
		feed:      NewFeed(src),
		intervals: append([]time.Duration(nil), intervals...),
		now:       time.Now,
		sortOrder: SortByConfig,
		spinner:   ui.NewRefreshSpinner(),
	}
	m.applySnapshot(src.Snapshot())
	return m
}

// Init waits for the first publication and starts the clock and spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.feed.Next(),
		m.clockTickCmd(),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.viewMode == ViewDetail && m.viewportReady {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.viewMode == ViewDetail && m.viewportReady {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Reserve space for header and footer
		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.viewportReady {
			m.detailViewport = viewport.New(m.width, viewportHeight)
			m.detailViewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.detailViewport.Width = m.width
			m.detailViewport.Height = viewportHeight
		}

		if m.viewMode == ViewDetail {
			m.updateDetailViewportContent()
		}

	case snapshotMsg:
		m.applySnapshot(health.Snapshot(msg))
		return m, m.feed.Next()

	case clockTickMsg:
		m.reclassify()
		return m, m.clockTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SettingsChangedMsg:
		m.reclassify()
		notice := "config reloaded"
		if msg.Source != "" {
			notice += " from " + msg.Source
		}
		m.setFlash(notice)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// clockTickCmd returns a command that sends a clock tick.
func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// applySnapshot stores a publication and refreshes everything derived from it.
func (m *Model) applySnapshot(s health.Snapshot) {
	m.published = s
	m.reclassify()
}

// reclassify recomputes verdicts against the current clock and thresholds.
func (m *Model) reclassify() {
	m.view = m.published.Reclassify(m.source.Classifier(), m.now())
	m.sortServices()
	if m.viewMode == ViewDetail {
		m.updateDetailViewportContent()
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashUntil = m.now().Add(flashDuration)
}

// Flash returns the footer notice, or "" once it has expired.
func (m Model) Flash() string {
	if m.flash == "" || m.now().After(m.flashUntil) {
		return ""
	}
	return m.flash
}

// Snapshot returns the re-classified snapshot being displayed.
func (m Model) Snapshot() health.Snapshot {
	return m.view
}

// Services returns service keys in display order.
func (m Model) Services() []string {
	return append([]string(nil), m.services...)
}

// SelectedService returns the key of the selected service.
func (m Model) SelectedService() string {
	if m.selected >= 0 && m.selected < len(m.services) {
		return m.services[m.selected]
	}
	return ""
}

// SecondsSinceUpdate returns seconds since the last completed cycle, or -1
// before the first one.
func (m Model) SecondsSinceUpdate() int {
	if m.view.Cycle == 0 || m.view.At.IsZero() {
		return -1
	}
	return int(m.now().Sub(m.view.At).Seconds())
}

// LayoutMode returns the layout mode for the current terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width > 0 && m.width < BreakpointCompact:
		return LayoutMinimal
	case m.width >= BreakpointStandard:
		return LayoutStandard
	default:
		return LayoutCompact
	}
}

// nextInterval returns the choice after current, wrapping to the first.
func (m Model) nextInterval(current time.Duration) (time.Duration, bool) {
	if len(m.intervals) == 0 {
		return 0, false
	}
	for _, d := range m.intervals {
		if d > current {
			return d, true
		}
	}
	return m.intervals[0], true
}

// sortServices orders services by the current sort order.
// Preserves the selected service by updating the selected index after sorting.
func (m *Model) sortServices() {
	selectedKey := m.SelectedService()

	m.services = append([]string(nil), m.view.Keys...)
	reports := m.view.Services

	switch m.sortOrder {
	case SortByName:
		sort.SliceStable(m.services, func(i, j int) bool {
			return reports[m.services[i]].Name < reports[m.services[j]].Name
		})

	case SortByVerdict:
		sort.SliceStable(m.services, func(i, j int) bool {
			vi := reports[m.services[i]].Verdict
			vj := reports[m.services[j]].Verdict
			// Worst first
			return verdictRank(vi) > verdictRank(vj)
		})

	case SortByLatency:
		sort.SliceStable(m.services, func(i, j int) bool {
			li, okI := latestLatency(reports[m.services[i]])
			lj, okJ := latestLatency(reports[m.services[j]])
			// Services without a response go to the end
			if okI != okJ {
				return okI
			}
			// Slowest first
			return li > lj
		})
	}

	m.selected = 0
	for i, key := range m.services {
		if key == selectedKey {
			m.selected = i
			break
		}
	}
	if len(m.services) == 0 {
		m.selected = -1
	}
}

func verdictRank(v health.Verdict) int {
	switch v {
	case health.VerdictOnline:
		return 0
	case health.VerdictDegraded:
		return 1
	default:
		return 2
	}
}

func latestLatency(r health.ServiceReport) (time.Duration, bool) {
	s, ok := r.Latest()
	if !ok {
		return 0, false
	}
	return s.Latency()
}

// Close releases the feed subscription.
func (m Model) Close() {
	m.feed.Close()
}
