package monitor

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/healthboard/internal/health"
)

func sized(m Model, width, height int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

func TestView_Dashboard(t *testing.T) {
	m := sized(newTestModel(newFakeSource(standardSnapshot()), t0.Add(4*time.Second)), 130, 40)
	defer m.Close()

	out := m.View()

	assert.Contains(t, out, "healthboard")
	assert.Contains(t, out, "3 services")
	assert.Contains(t, out, "1 online")
	assert.Contains(t, out, "1 degraded")
	assert.Contains(t, out, "1 offline")
	assert.Contains(t, out, "every 10s")
	assert.Contains(t, out, "updated 4s ago")
	for _, name := range []string{"API", "GraphQL", "Redis"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "s sort: config")
}

func TestView_WaitingForFirstRefresh(t *testing.T) {
	m := sized(newTestModel(newFakeSource(buildSnapshot(0, loadingState("api", "API"))), t0), 100, 30)
	defer m.Close()

	out := m.View()
	assert.Contains(t, out, "waiting for first refresh")
	assert.Contains(t, out, "waiting for first probe")
	assert.Contains(t, out, "loading")
}

func TestView_NoServices(t *testing.T) {
	m := sized(newTestModel(newFakeSource(buildSnapshot(1)), t0), 100, 30)
	defer m.Close()

	assert.Contains(t, m.View(), "No services configured")
}

func TestView_MinimalLayout(t *testing.T) {
	m := sized(newTestModel(newFakeSource(standardSnapshot()), t0), 60, 20)
	defer m.Close()

	out := m.renderServiceCards()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3, "one row per service")
	assert.Contains(t, lines[0], "API")
	assert.Contains(t, lines[0], "120 ms")
	assert.Contains(t, lines[0], "> ", "selected row has a cursor")
	assert.Contains(t, lines[2], "Redis")
}

func TestView_FlashInFooter(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.setFlash("sorted by latency")
	assert.Contains(t, m.renderFooter(), "sorted by latency")
}

func TestView_Help(t *testing.T) {
	m := sized(newTestModel(newFakeSource(standardSnapshot()), t0), 100, 30)
	defer m.Close()

	m.showHelp = true
	out := m.View()

	assert.Contains(t, out, "Keyboard Shortcuts")
	for _, b := range helpBindings {
		assert.Contains(t, out, b.Desc)
	}
}

func TestView_Detail(t *testing.T) {
	snap := buildSnapshot(1, okState("api", "API", 120))
	m := sized(newTestModel(newFakeSource(snap), t0.Add(2*time.Second)), 100, 60)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("enter"))
	out := m.View()

	assert.Contains(t, out, "API")
	assert.Contains(t, out, "Status")
	assert.Contains(t, out, "Latency")
	assert.Contains(t, out, "Recent probes")
	assert.Contains(t, out, "Last payload")
	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, "Esc back")
}

func TestView_DetailWithoutViewport(t *testing.T) {
	snap := buildSnapshot(1, failedState("cache", "Redis", "dial tcp: connection refused"))
	m := newTestModel(newFakeSource(snap), t0)
	defer m.Close()

	m.viewMode = ViewDetail
	out := m.View()

	assert.Contains(t, out, "Redis")
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "none received")
}

func TestRenderCard(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0.Add(5*time.Second))
	defer m.Close()

	card := m.renderCard("graphql", 38, false)
	assert.Contains(t, card, "GraphQL")
	assert.Contains(t, card, "degraded")
	assert.Contains(t, card, "950 ms")
	assert.Contains(t, card, "ok 5s ago")
	assert.Contains(t, card, "graphql")
}

func TestVerdictLabel(t *testing.T) {
	loading := health.ServiceReport{ServiceState: loadingState("api", "API"), Verdict: health.VerdictDegraded}
	assert.Equal(t, "loading", verdictLabel(loading))

	ok := health.ServiceReport{ServiceState: okState("api", "API", 10), Verdict: health.VerdictOnline}
	assert.Equal(t, "online", verdictLabel(ok))
}
