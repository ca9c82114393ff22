// ============================================================================
// FDL - Forest Description Language
// ============================================================================
//
// Package:     viewer
// Description: Bubbletea model for browsing a parsed forest
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package viewer is an interactive terminal browser for FDL documents. Things
// are shown as a collapsible tree; props are listed under an open thing. The
// open state is keyed by thing path so it survives a reload from disk.
package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/fdl/internal/watch"
	"github.com/msto63/fdl/pkg/fdl"
	"github.com/msto63/fdl/pkg/fdl/ast"
)

const (
	headerHeight = 3 // title panel with border
	footerHeight = 2 // status bar + help
	panelBorder  = 2
)

// Config holds viewer configuration
type Config struct {
	Path      string
	Indent    int
	HideProps bool
	OpenAll   bool
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{Indent: 4}
}

// Model is the Bubbletea model of the viewer
type Model struct {
	// State
	width    int
	height   int
	ready    bool
	err      error
	loadedAt time.Time

	// Components
	viewport viewport.Model

	// Document
	path    string
	forest  *ast.Forest
	index   *ast.Index
	open    map[string]bool
	results <-chan watch.Result

	// Rendering
	indent    string
	showProps bool
	visible   []ast.Handle
	rowLine   []int
	lines     []string
	cursor    int
}

// New creates a viewer for forest. A non-nil err is shown in the status bar;
// forest may be nil in that case.
func New(cfg Config, forest *ast.Forest, err error) Model {
	if cfg.Indent <= 0 {
		cfg.Indent = DefaultConfig().Indent
	}
	m := Model{
		path:      cfg.Path,
		open:      make(map[string]bool),
		indent:    strings.Repeat(" ", cfg.Indent),
		showProps: !cfg.HideProps,
		err:       err,
	}
	if forest == nil {
		forest = ast.NewForest()
	}
	m.setForest(forest)
	if cfg.OpenAll {
		m.openAll()
	}
	return m
}

// WithWatch makes the model follow the results of a file watcher
func (m Model) WithWatch(results <-chan watch.Result) Model {
	m.results = results
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	if m.results != nil {
		return waitForResult(m.results)
	}
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := msg.Height - headerHeight - footerHeight - panelBorder
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case reloadMsg:
		m.loadedAt = msg.result.At
		if msg.result.Err != nil {
			// Keep showing the last good tree.
			m.err = msg.result.Err
		} else {
			m.err = nil
			m.setForest(msg.result.Forest)
		}
		m.updateViewportContent()
		return m, waitForResult(m.results)

	case watchClosedMsg:
		m.results = nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.moveCursor(-m.pageSize())
	case "pgdown":
		m.moveCursor(m.pageSize())
	case "home", "g":
		m.moveCursor(-len(m.visible))
	case "end", "G":
		m.moveCursor(len(m.visible))

	case "enter", " ":
		m.toggle()
	case "right", "l":
		m.setOpen(true)
	case "left", "h":
		m.setOpen(false)
	case "o":
		m.openAll()
	case "c":
		m.closeAll()
	case "p":
		key := m.cursorKey()
		m.showProps = !m.showProps
		m.rebuild()
		m.restoreCursor(key)

	default:
		return m, nil
	}

	m.updateViewportContent()
	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading viewer..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(TreePanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

// Err returns the error of the last load, if any
func (m Model) Err() error {
	return m.err
}

// Selected returns the thing under the cursor, or nil for an empty forest
func (m Model) Selected() *ast.Thing {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.index.Thing(m.visible[m.cursor])
}

// IsOpen reports whether the thing at path is expanded
func (m Model) IsOpen(path ...string) bool {
	return m.open[ast.Entry{Path: path}.Key()]
}

// VisibleThings returns the names of the things currently shown, top to bottom
func (m Model) VisibleThings() []string {
	out := make([]string, len(m.visible))
	for i, h := range m.visible {
		out[i] = m.index.Thing(h).Name
	}
	return out
}

func (m Model) renderHeader() string {
	title := LogoStyle.Render(Logo)
	if m.path != "" {
		title += "   " + PathStyle.Render(m.path)
	}
	return TitlePanelStyle.Width(m.width - 4).Render(title)
}

func (m Model) renderStatusBar() string {
	var parts []string
	if m.err != nil {
		parts = append(parts, StatusErrorStyle.Render(fdl.FormatError(m.err)))
	} else {
		parts = append(parts, StatusOKStyle.Render("ok"))
	}
	parts = append(parts, HelpDescStyle.Render(fmt.Sprintf("%d things", m.index.Len())))
	if m.showProps {
		parts = append(parts, HelpDescStyle.Render("props shown"))
	}
	if m.results != nil {
		parts = append(parts, HelpDescStyle.Render("watching"))
	}
	if !m.loadedAt.IsZero() {
		parts = append(parts, HelpDescStyle.Render("loaded "+m.loadedAt.Format("15:04:05")))
	}
	return StatusBarStyle.Width(m.width - 2).Render(strings.Join(parts, "  "))
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("↑/↓", "Move"),
		RenderKeyHint("enter", "Toggle"),
		RenderKeyHint("o/c", "Open/Close all"),
		RenderKeyHint("p", "Props"),
		RenderKeyHint("q", "Quit"),
	}
	return strings.Join(items, "  ")
}

// setForest replaces the document. Open state and cursor are carried over
// by path; paths that no longer exist are forgotten.
func (m *Model) setForest(f *ast.Forest) {
	key := m.cursorKey()
	m.forest = f
	m.index = ast.NewIndex(f)

	open := make(map[string]bool, len(m.open))
	for _, e := range m.index.Entries() {
		if k := e.Key(); m.open[k] {
			open[k] = true
		}
	}
	m.open = open
	m.rebuild()
	m.restoreCursor(key)
}

// rebuild recomputes the visible rows and their rendered lines
func (m *Model) rebuild() {
	m.visible = nil
	m.rowLine = nil
	m.lines = nil

	entries := m.index.Entries()
	shown := make([]bool, len(entries))
	for i, e := range entries {
		if e.Parent != ast.NoHandle && !(shown[e.Parent] && m.open[entries[e.Parent].Key()]) {
			continue
		}
		shown[i] = true
		m.visible = append(m.visible, ast.Handle(i))
		m.rowLine = append(m.rowLine, len(m.lines))
		m.lines = append(m.lines, m.renderThing(e, len(m.visible)-1 == m.cursor))

		if m.showProps && m.open[e.Key()] {
			for _, p := range e.Thing.Props() {
				m.lines = append(m.lines, m.renderProp(p, e.Depth+1))
			}
		}
	}
	if len(entries) == 0 {
		m.lines = []string{HelpDescStyle.Render("(empty forest)")}
	}
}

func (m *Model) renderThing(e ast.Entry, selected bool) string {
	marker := MarkerLeaf
	if m.expandable(e.Thing) {
		marker = MarkerClosed
		if m.open[e.Key()] {
			marker = MarkerOpen
		}
	}
	style := ThingStyle
	if selected {
		style = SelectedStyle
	}
	return strings.Repeat(m.indent, e.Depth) + MarkerStyle.Render(marker) + style.Render(e.Thing.Name)
}

func (m *Model) renderProp(p *ast.Prop, depth int) string {
	value := PropValueStyle.Render(p.Value.Literal())
	if p.Value.IsError() {
		value = ErrorValueStyle.Render(p.Value.Literal())
	}
	return strings.Repeat(m.indent, depth) + MarkerLeaf +
		PropTypeStyle.Render(p.Type.String()) + " " +
		PropNameStyle.Render(p.Name) + " = " + value
}

func (m *Model) expandable(t *ast.Thing) bool {
	return t.NumChildren() > 0 || (m.showProps && t.NumProps() > 0)
}

func (m *Model) cursorKey() string {
	if m.index == nil || m.cursor < 0 || m.cursor >= len(m.visible) {
		return ""
	}
	e, _ := m.index.Entry(m.visible[m.cursor])
	return e.Key()
}

// restoreCursor puts the cursor on the thing with the given key, or on its
// closest visible ancestor
func (m *Model) restoreCursor(key string) {
	pos := make(map[ast.Handle]int, len(m.visible))
	for i, h := range m.visible {
		pos[h] = i
	}

	h, ok := m.index.LookupKey(key)
	for ok && h != ast.NoHandle {
		if i, vis := pos[h]; vis {
			m.setCursor(i)
			return
		}
		var e ast.Entry
		e, ok = m.index.Entry(h)
		h = e.Parent
	}
	m.setCursor(m.cursor)
}

func (m *Model) setCursor(i int) {
	if i >= len(m.visible) {
		i = len(m.visible) - 1
	}
	if i < 0 {
		i = 0
	}
	m.cursor = i
	m.rebuild()
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) pageSize() int {
	if m.ready && m.viewport.Height > 1 {
		return m.viewport.Height - 1
	}
	return 10
}

func (m *Model) toggle() {
	t := m.Selected()
	if t == nil || !m.expandable(t) {
		return
	}
	key := m.cursorKey()
	m.open[key] = !m.open[key]
	m.rebuild()
}

func (m *Model) setOpen(open bool) {
	t := m.Selected()
	if t == nil || !m.expandable(t) {
		return
	}
	m.open[m.cursorKey()] = open
	m.rebuild()
}

func (m *Model) openAll() {
	key := m.cursorKey()
	for _, e := range m.index.Entries() {
		m.open[e.Key()] = true
	}
	m.rebuild()
	m.restoreCursor(key)
}

func (m *Model) closeAll() {
	key := m.cursorKey()
	m.open = make(map[string]bool)
	m.rebuild()
	m.restoreCursor(key)
}

// updateViewportContent pushes the rendered lines into the viewport and
// scrolls the cursor row into view
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))

	if m.cursor >= len(m.rowLine) {
		return
	}
	line := m.rowLine[m.cursor]
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

func waitForResult(results <-chan watch.Result) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return watchClosedMsg{}
		}
		return reloadMsg{result: r}
	}
}

// Run starts the viewer TUI and blocks until the user quits
func Run(cfg Config, forest *ast.Forest, err error, results <-chan watch.Result) error {
	m := New(cfg, forest, err).WithWatch(results)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()
	return runErr
}
