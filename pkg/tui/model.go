// Package tui is the interactive terminal surface: a bubbletea program that
// turns keys and clicks into viewstate events and paints what the recorded
// effects show.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dkoosis/foview/internal/logging"
	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/menu"
	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/render"
	"github.com/dkoosis/foview/pkg/viewstate"
)

// frameInterval paces the detail slide animation.
const frameInterval = 16 * time.Millisecond

// Options configure a Model.
type Options struct {
	Criteria      *filter.Criteria // initial filter; nil shows everything
	LegacyMenus   bool
	Theme         render.Theme
	SlideDuration time.Duration // 0 expands details instantly
	Logger        *logging.Logger
}

// ReloadMsg replaces the report, typically after the file changed on disk.
type ReloadMsg struct {
	Doc *model.Document
	Err error
}

type slideMsg struct{ id model.NodeID }

type rowKind int

const (
	rowSuite rowKind = iota
	rowCase
	rowDetail
)

type row struct {
	kind  rowKind
	suite *model.Suite
	tc    *model.TestCase
	text  string // detail line
}

// Model is the bubbletea model.
type Model struct {
	opts     Options
	state    viewstate.State
	surface  *viewstate.Recorder
	styles   styles
	keys     keyMap
	help     help.Model
	input    textinput.Model
	viewport viewport.Model

	rows       []row
	cursor     int
	menuCursor int
	reveal     map[model.NodeID]int // detail lines shown while sliding open
	notice     string

	width  int
	height int
	ready  bool
}

// New builds a model showing doc.
func New(doc *model.Document, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTheme()
	}

	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "test name"
	in.CharLimit = 128
	in.Width = 24

	m := Model{
		opts:     opts,
		styles:   newStyles(opts.Theme),
		keys:     defaultKeys(),
		help:     help.New(),
		input:    in,
		viewport: viewport.New(0, 0),
	}
	m.load(doc, opts.Criteria)
	return m
}

// load replaces the document and every piece of view state.
func (m *Model) load(doc *model.Document, c *filter.Criteria) {
	st, effects := viewstate.New(doc, viewstate.Options{Criteria: c, LegacyMenus: m.opts.LegacyMenus})
	m.state = st
	m.surface = viewstate.NewRecorder()
	m.surface.Apply(effects)
	m.reveal = map[model.NodeID]int{}
	m.keys.setMulti(doc.MultiLibrary())
	m.input.SetValue(st.Criteria().Name)
	m.cursor, m.menuCursor = 0, 0
	m.rebuild()
}

// State returns the current view state.
func (m Model) State() viewstate.State { return m.state }

// Surface returns the recorder holding the applied effects.
func (m Model) Surface() *viewstate.Recorder { return m.surface }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.ready = true
		m.rebuild()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case slideMsg:
		cmd := m.advanceSlide(msg.id)
		return m, cmd
	case ReloadMsg:
		if msg.Err != nil {
			m.notice = "reload failed: " + msg.Err.Error()
			m.opts.Logger.Warn("reload failed", "error", msg.Err)
			return m, nil
		}
		m.reload(msg.Doc)
		return m, nil
	}
	return m, nil
}

// reload swaps in a new document, keeping the filter and, when it still
// exists, the visible library.
func (m *Model) reload(doc *model.Document) {
	c := m.state.Criteria()
	visible := m.state.Menus().VisibleName()
	m.load(doc, &c)
	if m.state.Menus().Index(visible) > 0 {
		m.dispatch(viewstate.SwitchLibrary{Source: m.state.Menus().Visible(), Target: visible})
	}
	m.notice = "reloaded"
	m.opts.Logger.Info("report reloaded", "libraries", len(doc.Libraries))
}

// dispatch runs one event through the reducer and applies its effects.
func (m *Model) dispatch(ev viewstate.Event) tea.Cmd {
	next, effects, err := viewstate.Reduce(m.state, ev)
	if err != nil {
		m.notice = err.Error()
		m.opts.Logger.Warn("event rejected", "event", fmt.Sprintf("%T", ev), "error", err)
		return nil
	}
	m.notice = ""
	m.state = next
	m.surface.Apply(effects)

	var cmds []tea.Cmd
	for _, e := range effects {
		switch {
		case e.Attr == model.AttrExpanded && e.On:
			cmds = append(cmds, m.startSlide(e.Node))
		case e.Attr == model.AttrExpanded:
			delete(m.reveal, e.Node)
		case e.Attr == model.AttrMenuOpen && e.On:
			m.menuCursor = 0
		}
	}
	m.rebuild()
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.input.Focused() {
		return m.handleNameKey(msg)
	}
	if mn, open := m.openMenu(); open {
		if cmd, handled := m.handleMenuKey(msg, mn); handled {
			return m, cmd
		}
	}

	// dispatch mutates m, so its command is taken before m is returned.
	var cmd tea.Cmd
	vis := m.state.Menus().Visible()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		if tc := m.cursorCase(); tc != nil {
			cmd = m.dispatch(viewstate.ToggleDetail{Case: tc.ID})
		}
	case key.Matches(msg, m.keys.Search):
		cmd = m.input.Focus()
	case key.Matches(msg, m.keys.Pass):
		cmd = m.dispatch(viewstate.ToggleStatus{Category: filter.CategoryPass})
	case key.Matches(msg, m.keys.Fail):
		cmd = m.dispatch(viewstate.ToggleStatus{Category: filter.CategoryFail})
	case key.Matches(msg, m.keys.Skip):
		cmd = m.dispatch(viewstate.ToggleStatus{Category: filter.CategorySkip})
	case key.Matches(msg, m.keys.Reset):
		m.input.SetValue("")
		cmd = m.dispatch(viewstate.Reset{})
	case key.Matches(msg, m.keys.Menu):
		cmd = m.dispatch(viewstate.ToggleMenu{Library: vis})
	case key.Matches(msg, m.keys.Next):
		cmd = m.dispatch(viewstate.NextLibrary{})
	case key.Matches(msg, m.keys.Prev):
		cmd = m.dispatch(viewstate.PrevLibrary{})
	case key.Matches(msg, m.keys.Escape):
		cmd = m.dispatch(viewstate.OutsideClick{Target: menu.Nowhere})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.rebuild()
	}
	return m, cmd
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyEnter, tea.KeyTab:
		m.input.Blur()
		return m, nil
	}
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		cmd = tea.Batch(cmd, m.dispatch(viewstate.SetName{Name: v}))
	}
	return m, cmd
}

// handleMenuKey drives the open dropdown of the visible library.
func (m *Model) handleMenuKey(msg tea.KeyMsg, mn menu.Menu) (tea.Cmd, bool) {
	vis := m.state.Menus().Visible()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(mn.Entries)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.menuCursor < len(mn.Entries) {
			return m.dispatch(viewstate.SwitchLibrary{Source: vis, Target: mn.Entries[m.menuCursor].Name}), true
		}
	case key.Matches(msg, m.keys.Escape):
		return m.dispatch(viewstate.CloseMenu{Library: vis}), true
	default:
		return nil, false
	}
	return nil, true
}

// openMenu returns the visible library's menu when it is open.
func (m Model) openMenu() (menu.Menu, bool) {
	ms := m.state.Menus()
	vis := ms.Visible()
	if vis < 0 {
		return menu.Menu{}, false
	}
	mn := ms.Menu(vis)
	return mn, mn.Open
}

func (m *Model) moveCursor(delta int) {
	i := m.cursor + delta
	for i >= 0 && i < len(m.rows) {
		if m.rows[i].kind == rowCase {
			m.cursor = i
			m.paint()
			return
		}
		i += delta
	}
}

func (m Model) cursorCase() *model.TestCase {
	if m.cursor < 0 || m.cursor >= len(m.rows) || m.rows[m.cursor].kind != rowCase {
		return nil
	}
	return m.rows[m.cursor].tc
}

func (m *Model) startSlide(id model.NodeID) tea.Cmd {
	if m.opts.SlideDuration <= 0 {
		return nil
	}
	m.reveal[id] = 0
	return tick(id)
}

func tick(id model.NodeID) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return slideMsg{id: id} })
}

// advanceSlide reveals the next slice of a sliding detail block.
func (m *Model) advanceSlide(id model.NodeID) tea.Cmd {
	n, ok := m.reveal[id]
	if !ok {
		return nil
	}
	tc, found := m.state.Document().Case(id)
	if !found {
		delete(m.reveal, id)
		return nil
	}
	total := len(detailLines(tc))
	frames := max(1, int(m.opts.SlideDuration/frameInterval))
	step := max(1, (total+frames-1)/frames)
	n += step
	var cmd tea.Cmd
	if n >= total {
		delete(m.reveal, id)
	} else {
		m.reveal[id] = n
		cmd = tick(id)
	}
	m.rebuild()
	return cmd
}

// detailLines is the expandable content of a test case.
func detailLines(tc *model.TestCase) []string {
	var lines []string
	if r := render.Reason(tc); r != "" {
		lines = append(lines, r)
	}
	return append(lines, tc.Detail...)
}
