package viewer

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/fdl/internal/watch"
	"github.com/msto63/fdl/pkg/fdl/parser"
)

const sampleSource = `
thing "A" {
    int x = 1
    thing "B" {
        thing "Inner" { bool on = true }
    }
    thing "C" {}
}
thing "D" {}
`

func newModel(t *testing.T, src string, cfg Config) Model {
	t.Helper()
	forest, err := parser.ParseString(src)
	require.NoError(t, err)
	m := New(cfg, forest, nil)
	return update(t, m, tea.WindowSizeMsg{Width: 160, Height: 24})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "pgdown":
			msg = tea.KeyMsg{Type: tea.KeyPgDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func TestViewerStartsClosed(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	assert.Equal(t, []string{"A", "D"}, m.VisibleThings())
	require.NotNil(t, m.Selected())
	assert.Equal(t, "A", m.Selected().Name)
	assert.Contains(t, m.View(), MarkerClosed+"A")
}

func TestViewerOpenAllConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OpenAll = true
	m := newModel(t, sampleSource, cfg)

	assert.Equal(t, []string{"A", "B", "Inner", "C", "D"}, m.VisibleThings())
}

func TestViewerToggle(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	m = press(t, m, "enter")
	assert.True(t, m.IsOpen("A"))
	assert.Equal(t, []string{"A", "B", "C", "D"}, m.VisibleThings())

	m = press(t, m, " ")
	assert.False(t, m.IsOpen("A"))
	assert.Equal(t, []string{"A", "D"}, m.VisibleThings())
}

func TestViewerCursorMovement(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	m = press(t, m, "enter", "down")
	assert.Equal(t, "B", m.Selected().Name)

	m = press(t, m, "j", "j")
	assert.Equal(t, "D", m.Selected().Name)

	// Clamped at the bottom.
	m = press(t, m, "down")
	assert.Equal(t, "D", m.Selected().Name)

	m = press(t, m, "k", "up", "up", "up")
	assert.Equal(t, "A", m.Selected().Name)

	m = press(t, m, "pgdown")
	assert.Equal(t, "D", m.Selected().Name)

	m = press(t, m, "g")
	assert.Equal(t, "A", m.Selected().Name)
}

func TestViewerLeafDoesNotToggle(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	m = press(t, m, "down", "enter")
	assert.Equal(t, "D", m.Selected().Name)
	assert.False(t, m.IsOpen("D"))
}

func TestViewerOpenCloseAll(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	m = press(t, m, "o")
	assert.Equal(t, []string{"A", "B", "Inner", "C", "D"}, m.VisibleThings())

	m = press(t, m, "down", "down")
	assert.Equal(t, "Inner", m.Selected().Name)

	// Closing everything moves the cursor to the visible ancestor.
	m = press(t, m, "c")
	assert.Equal(t, []string{"A", "D"}, m.VisibleThings())
	assert.Equal(t, "A", m.Selected().Name)
}

func TestViewerProps(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())
	m = press(t, m, "enter")

	assert.Contains(t, m.View(), "int")
	assert.Contains(t, m.View(), "x = 1")

	m = press(t, m, "p")
	assert.NotContains(t, m.View(), "x = 1")

	m = press(t, m, "p")
	assert.Contains(t, m.View(), "x = 1")
}

func TestViewerHidePropsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HideProps = true
	m := newModel(t, `thing "P" { int x = 1 }`, cfg)

	// Without props shown a thing holding only props is a leaf.
	m = press(t, m, "enter")
	assert.False(t, m.IsOpen("P"))
	assert.NotContains(t, m.View(), "x = 1")
}

func TestViewerReloadKeepsOpenState(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())
	m = press(t, m, "enter", "down", "enter")
	require.True(t, m.IsOpen("A"))
	require.True(t, m.IsOpen("A", "B"))
	assert.Equal(t, "B", m.Selected().Name)

	forest, err := parser.ParseString(`
thing "A" {
    thing "New" {}
    thing "B" { thing "Inner" {} }
}
`)
	require.NoError(t, err)
	at := time.Date(2026, 10, 19, 12, 30, 0, 0, time.Local)
	m = update(t, m, reloadMsg{result: watch.Result{Path: "x.fdl", Forest: forest, At: at}})

	assert.NoError(t, m.Err())
	assert.True(t, m.IsOpen("A"))
	assert.True(t, m.IsOpen("A", "B"))
	assert.Equal(t, []string{"A", "New", "B", "Inner"}, m.VisibleThings())
	assert.Equal(t, "B", m.Selected().Name)
	assert.Contains(t, m.View(), "loaded 12:30:00")
}

func TestViewerReloadDropsVanishedThings(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())
	m = press(t, m, "down", "enter")
	require.Equal(t, "D", m.Selected().Name)

	forest, err := parser.ParseString(`thing "A" {}`)
	require.NoError(t, err)
	m = update(t, m, reloadMsg{result: watch.Result{Forest: forest, At: time.Now()}})

	assert.Equal(t, []string{"A"}, m.VisibleThings())
	assert.Equal(t, "A", m.Selected().Name)
}

func TestViewerReloadErrorKeepsTree(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	_, perr := parser.ParseString(`thing "A" {`)
	require.Error(t, perr)
	m = update(t, m, reloadMsg{result: watch.Result{Err: perr, At: time.Now()}})

	assert.Equal(t, perr, m.Err())
	assert.Equal(t, []string{"A", "D"}, m.VisibleThings())
	assert.Contains(t, m.View(), perr.Error())
}

func TestViewerInitialError(t *testing.T) {
	_, perr := parser.ParseString(`int x = 1`)
	require.Error(t, perr)

	m := New(DefaultConfig(), nil, perr)
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 20})

	assert.Empty(t, m.VisibleThings())
	assert.Nil(t, m.Selected())
	view := m.View()
	assert.Contains(t, view, "line 0:0 - ")
	assert.Contains(t, view, "(empty forest)")
}

func TestViewerWatchChannel(t *testing.T) {
	results := make(chan watch.Result, 1)
	forest, err := parser.ParseString(`thing "W" {}`)
	require.NoError(t, err)

	m := New(DefaultConfig(), nil, nil).WithWatch(results)
	cmd := m.Init()
	require.NotNil(t, cmd)

	results <- watch.Result{Forest: forest, At: time.Now()}
	msg := cmd()
	require.IsType(t, reloadMsg{}, msg)

	next, follow := m.Update(msg)
	m = next.(Model)
	assert.Equal(t, []string{"W"}, m.VisibleThings())
	require.NotNil(t, follow)

	close(results)
	assert.Equal(t, watchClosedMsg{}, follow())
	m = update(t, m, watchClosedMsg{})
	assert.Nil(t, m.Init())
}

func TestViewerQuit(t *testing.T) {
	m := newModel(t, sampleSource, DefaultConfig())

	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.Equal(t, tea.QuitMsg{}, cmd(), k.String())
	}
}

func TestViewerNotReady(t *testing.T) {
	m := New(DefaultConfig(), nil, nil)
	assert.Equal(t, "Loading viewer...", m.View())
}
