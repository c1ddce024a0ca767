package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/healthboard/internal/health"
)

func TestNewModel(t *testing.T) {
	src := newFakeSource(standardSnapshot())
	m := newTestModel(src, t0)
	defer m.Close()

	assert.Equal(t, []string{"api", "graphql", "cache"}, m.Services())
	assert.Equal(t, "api", m.SelectedService())
	assert.Equal(t, SortByConfig, m.sortOrder)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, 1, src.subscribers(), "model should subscribe to the source")
}

func TestNewModel_NoServices(t *testing.T) {
	src := newFakeSource(health.Snapshot{})
	m := newTestModel(src, t0)
	defer m.Close()

	assert.Empty(t, m.Services())
	assert.Equal(t, "", m.SelectedService())
	assert.Equal(t, -1, m.SecondsSinceUpdate())
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	assert.NotNil(t, m.Init())
}

func TestModel_SnapshotMsg(t *testing.T) {
	initial := buildSnapshot(0, loadingState("api", "API"))
	src := newFakeSource(initial)
	m := newTestModel(src, t0)
	defer m.Close()

	assert.Equal(t, health.VerdictDegraded, m.Snapshot().Services["api"].Verdict, "loading is degraded")

	next := buildSnapshot(1, okState("api", "API", 50))
	updated, cmd := m.Update(snapshotMsg(next))
	m = updated.(Model)

	assert.NotNil(t, cmd, "should wait for the next snapshot")
	assert.Equal(t, uint64(1), m.Snapshot().Cycle)
	assert.Equal(t, health.VerdictOnline, m.Snapshot().Services["api"].Verdict)
	assert.Equal(t, health.VerdictOnline, m.Snapshot().Overall)
}

func TestModel_ReclassifiesWhenGraceExpires(t *testing.T) {
	src := newFakeSource(buildSnapshot(1, okState("api", "API", 100)))

	m := newTestModel(src, t0.Add(10*time.Second))
	defer m.Close()
	assert.Equal(t, health.VerdictOnline, m.Snapshot().Services["api"].Verdict)

	// No new cycle; only the clock moves past the grace window.
	m.now = func() time.Time { return t0.Add(31 * time.Second) }
	updated, cmd := m.Update(clockTickMsg(t0.Add(31 * time.Second)))
	m = updated.(Model)

	assert.NotNil(t, cmd, "clock should keep ticking")
	assert.Equal(t, health.VerdictOffline, m.Snapshot().Services["api"].Verdict)
	assert.Equal(t, health.VerdictOffline, m.Snapshot().Overall)
}

func TestModel_ReclassifyDoesNotMutatePublished(t *testing.T) {
	src := newFakeSource(buildSnapshot(1, okState("api", "API", 100)))
	m := newTestModel(src, t0.Add(time.Minute))
	defer m.Close()

	assert.Equal(t, health.VerdictOffline, m.Snapshot().Services["api"].Verdict)
	assert.Equal(t, health.VerdictOnline, m.published.Services["api"].Verdict)
}

func TestModel_SettingsChanged(t *testing.T) {
	src := newFakeSource(standardSnapshot())
	m := newTestModel(src, t0)
	defer m.Close()
	require.Equal(t, health.VerdictOnline, m.Snapshot().Services["api"].Verdict)

	src.classifier = health.Classifier{DegradedPing: 100 * time.Millisecond, OfflineGrace: time.Minute}
	updated, _ := m.Update(SettingsChangedMsg{Source: ".healthboard.yaml"})
	m = updated.(Model)

	assert.Equal(t, health.VerdictDegraded, m.Snapshot().Services["api"].Verdict)
	assert.Equal(t, "config reloaded from .healthboard.yaml", m.Flash())
}

func TestModel_Flash(t *testing.T) {
	src := newFakeSource(standardSnapshot())
	m := newTestModel(src, t0)
	defer m.Close()

	assert.Empty(t, m.Flash())

	m.setFlash("hello")
	assert.Equal(t, "hello", m.Flash())

	m.now = func() time.Time { return t0.Add(flashDuration + time.Second) }
	assert.Empty(t, m.Flash(), "flash should expire")
}

func TestModel_SecondsSinceUpdate(t *testing.T) {
	src := newFakeSource(standardSnapshot())

	m := newTestModel(src, t0)
	assert.Equal(t, 0, m.SecondsSinceUpdate())

	m.now = func() time.Time { return t0.Add(7 * time.Second) }
	assert.Equal(t, 7, m.SecondsSinceUpdate())
	m.Close()
}

func TestModel_LayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{0, LayoutCompact},
		{60, LayoutMinimal},
		{79, LayoutMinimal},
		{80, LayoutCompact},
		{119, LayoutCompact},
		{120, LayoutStandard},
		{200, LayoutStandard},
	}

	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()
	for _, tt := range tests {
		m.width = tt.width
		assert.Equal(t, tt.want, m.LayoutMode(), "width %d", tt.width)
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	assert.Equal(t, 100, m.width)
	assert.Equal(t, 30, m.height)
	assert.True(t, m.viewportReady)
	assert.Equal(t, 25, m.detailViewport.Height)
}

func TestModel_NextInterval(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	tests := []struct {
		current time.Duration
		want    time.Duration
	}{
		{2 * time.Second, 5 * time.Second},
		{5 * time.Second, 10 * time.Second},
		{10 * time.Second, 30 * time.Second},
		{30 * time.Second, 2 * time.Second},
		{7 * time.Second, 10 * time.Second},
		{time.Minute, 2 * time.Second},
	}
	for _, tt := range tests {
		got, ok := m.nextInterval(tt.current)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, "after %s", tt.current)
	}

	m.intervals = nil
	_, ok := m.nextInterval(time.Second)
	assert.False(t, ok)
}

func TestModel_SortServices(t *testing.T) {
	snap := buildSnapshot(1,
		okState("api", "API", 120),
		failedState("cache", "Redis", "connection refused"),
		okState("graphql", "GraphQL", 950),
		okState("backend", "Backend", 300),
	)

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByConfig, []string{"api", "cache", "graphql", "backend"}},
		{SortByName, []string{"api", "backend", "graphql", "cache"}},
		{SortByVerdict, []string{"cache", "graphql", "api", "backend"}},
		{SortByLatency, []string{"graphql", "backend", "api", "cache"}},
	}

	for _, tt := range tests {
		t.Run(tt.order.String(), func(t *testing.T) {
			m := newTestModel(newFakeSource(snap), t0)
			defer m.Close()

			m.sortOrder = tt.order
			m.sortServices()
			assert.Equal(t, tt.want, m.Services())
		})
	}
}

func TestModel_SortPreservesSelection(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.selected = 2 // cache
	require.Equal(t, "cache", m.SelectedService())

	m.sortOrder = SortByVerdict
	m.sortServices()

	assert.Equal(t, "cache", m.SelectedService())
	assert.Equal(t, 0, m.selected)
}

func TestModel_ServicesIsACopy(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	services := m.Services()
	services[0] = "mutated"
	assert.Equal(t, "api", m.Services()[0])
}

func TestModel_ViewWhenQuitting(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.quitting = true
	assert.Empty(t, m.View())
}

func TestVerdictRank(t *testing.T) {
	assert.Less(t, verdictRank(health.VerdictOnline), verdictRank(health.VerdictDegraded))
	assert.Less(t, verdictRank(health.VerdictDegraded), verdictRank(health.VerdictOffline))
}
