package monitor

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSortOrder_String(t *testing.T) {
	tests := []struct {
		order  SortOrder
		expect string
	}{
		{SortByConfig, "config"},
		{SortByName, "name"},
		{SortByVerdict, "status"},
		{SortByLatency, "latency"},
		{SortOrder(99), "config"},
	}

	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.order.String())
		})
	}
}

func TestSortOrder_Next(t *testing.T) {
	assert.Equal(t, SortByName, SortByConfig.Next())
	assert.Equal(t, SortByVerdict, SortByName.Next())
	assert.Equal(t, SortByLatency, SortByVerdict.Next())
	assert.Equal(t, SortByConfig, SortByLatency.Next(), "wraps around")
}

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			src := newFakeSource(standardSnapshot())
			m := newTestModel(src, t0)

			handled, cmd := m.HandleKeyMsg(keyMsg(key))

			assert.True(t, handled)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Zero(t, src.subscribers(), "quitting should release the feed")
		})
	}
}

func TestHandleKeyMsg_Refresh(t *testing.T) {
	src := newFakeSource(standardSnapshot())
	m := newTestModel(src, t0)
	defer m.Close()

	handled, _ := m.HandleKeyMsg(keyMsg("r"))
	assert.True(t, handled)
	assert.Equal(t, 1, src.refreshCalls)
	assert.Equal(t, "refreshing", m.Flash())

	src.refreshOK = false
	m.HandleKeyMsg(keyMsg("r"))
	assert.Equal(t, 2, src.refreshCalls)
	assert.Equal(t, "refresh already in progress", m.Flash())
}

func TestHandleKeyMsg_CycleInterval(t *testing.T) {
	src := newFakeSource(standardSnapshot())
	m := newTestModel(src, t0)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("i"))
	assert.Equal(t, 30*time.Second, src.interval)
	assert.Equal(t, "refreshing every 30s", m.Flash())

	m.HandleKeyMsg(keyMsg("i"))
	assert.Equal(t, 2*time.Second, src.interval, "wraps to the shortest choice")

	src.setErr = errors.New("scheduler stopped")
	m.HandleKeyMsg(keyMsg("i"))
	assert.Equal(t, 2*time.Second, src.interval)
	assert.Equal(t, "interval not changed: scheduler stopped", m.Flash())
}

func TestHandleKeyMsg_CycleSort(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("s"))
	assert.Equal(t, SortByName, m.sortOrder)
	assert.Equal(t, "sorted by name", m.Flash())
	assert.Equal(t, []string{"api", "graphql", "cache"}, m.Services())

	m.HandleKeyMsg(keyMsg("s"))
	assert.Equal(t, SortByVerdict, m.sortOrder)
	assert.Equal(t, []string{"cache", "graphql", "api"}, m.Services())
}

func TestHandleKeyMsg_Navigation(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("k"))
	assert.Equal(t, 0, m.selected, "should not move above the first service")

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 1, m.selected)
	m.HandleKeyMsg(keyMsg("down"))
	assert.Equal(t, 2, m.selected)
	m.HandleKeyMsg(keyMsg("down"))
	assert.Equal(t, 2, m.selected, "should not move past the last service")

	m.HandleKeyMsg(keyMsg("up"))
	assert.Equal(t, 1, m.selected)

	m.HandleKeyMsg(keyMsg("home"))
	assert.Equal(t, 0, m.selected)
	m.HandleKeyMsg(keyMsg("end"))
	assert.Equal(t, 2, m.selected)
	assert.Equal(t, "cache", m.SelectedService())
}

func TestHandleKeyMsg_DetailView(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	handled, _ := m.HandleKeyMsg(keyMsg("enter"))
	assert.True(t, handled)
	assert.Equal(t, ViewDetail, m.viewMode)

	// Arrows belong to the viewport in detail mode.
	handled, _ = m.HandleKeyMsg(keyMsg("j"))
	assert.False(t, handled)
	assert.Equal(t, 0, m.selected)

	handled, _ = m.HandleKeyMsg(keyMsg("esc"))
	assert.True(t, handled)
	assert.Equal(t, ViewList, m.viewMode)
}

func TestHandleKeyMsg_EnterWithoutServices(t *testing.T) {
	m := newTestModel(newFakeSource(buildSnapshot(0)), t0)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("enter"))
	assert.Equal(t, ViewList, m.viewMode)
}

func TestHandleKeyMsg_Help(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	m.HandleKeyMsg(keyMsg("?"))
	assert.True(t, m.showHelp)

	m.HandleKeyMsg(keyMsg("esc"))
	assert.False(t, m.showHelp)

	m.HandleKeyMsg(keyMsg("?"))
	m.HandleKeyMsg(keyMsg("?"))
	assert.False(t, m.showHelp)
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	handled, cmd := m.HandleKeyMsg(keyMsg("x"))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestUpdate_KeyRoutesThroughHandler(t *testing.T) {
	m := newTestModel(newFakeSource(standardSnapshot()), t0)
	defer m.Close()

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	assert.Equal(t, "graphql", m.SelectedService())
}
