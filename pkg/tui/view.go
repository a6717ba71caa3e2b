package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/menu"
	"github.com/dkoosis/foview/pkg/model"
	"github.com/dkoosis/foview/pkg/render"
	"github.com/dkoosis/foview/pkg/viewstate"
)

// span is a clickable horizontal range of the filter bar.
type span struct {
	from, to int // [from, to) in cells
	field    int // fieldName or a filter.Category
}

const fieldName = -1

// rebuild recomputes the rows from what the surface shows and repaints.
func (m *Model) rebuild() {
	v := render.Build(m.state.Document(), m.surface, m.state.Criteria())
	var selected model.NodeID
	if tc := m.cursorCase(); tc != nil {
		selected = tc.ID
	}

	m.rows = make([]row, 0, len(m.rows))
	for _, lv := range v.Shown {
		for _, sv := range lv.Suites {
			m.rows = append(m.rows, row{kind: rowSuite, suite: sv.Suite})
			for _, tc := range sv.Cases {
				m.rows = append(m.rows, row{kind: rowCase, suite: sv.Suite, tc: tc})
				if !m.state.Expanded(tc.ID) {
					continue
				}
				lines := detailLines(tc)
				if n, sliding := m.reveal[tc.ID]; sliding {
					lines = lines[:n]
				}
				for _, l := range lines {
					m.rows = append(m.rows, row{kind: rowDetail, suite: sv.Suite, tc: tc, text: l})
				}
			}
		}
	}

	// Keep the cursor on the same case when it is still shown, else on the
	// nearest case row.
	m.cursor = min(m.cursor, len(m.rows)-1)
	for i, r := range m.rows {
		if r.kind == rowCase && r.tc.ID == selected {
			m.cursor = i
			break
		}
	}
	if m.cursor >= 0 && m.rows[m.cursor].kind != rowCase {
		m.cursor = m.nearestCase(m.cursor)
	}
	m.cursor = max(m.cursor, 0)
	m.paint()
}

func (m Model) nearestCase(i int) int {
	for d := 1; d < len(m.rows); d++ {
		for _, j := range []int{i + d, i - d} {
			if j >= 0 && j < len(m.rows) && m.rows[j].kind == rowCase {
				return j
			}
		}
	}
	return i
}

// paint sizes the viewport and renders the rows into it.
func (m *Model) paint() {
	if !m.ready {
		return
	}
	m.viewport.Height = max(1, m.height-m.headerHeight()-m.footerHeight())

	lines := make([]string, len(m.rows))
	for i, r := range m.rows {
		lines[i] = m.renderRow(r, i == m.cursor)
	}
	if len(lines) == 0 {
		lines = []string{m.styles.status.Render("  no tests match")}
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderRow(r row, selected bool) string {
	t := m.styles.theme
	switch r.kind {
	case rowSuite:
		return m.styles.suite.Render(r.suite.Name)
	case rowDetail:
		return "      " + m.styles.detail.Render(render.Truncate(r.text, m.width-6))
	}

	icon, style := t.StatusIcon(r.tc.Status)
	text := r.tc.Name
	if d := render.FormatDuration(r.tc.Duration); d != "" {
		text += "  " + d
	}
	marker := " "
	if r.tc.HasDetail() {
		marker = t.Icons.Collapsed
		if m.state.Expanded(r.tc.ID) {
			marker = t.Icons.Expanded
		}
	}
	text = render.Truncate(text, m.width-6)
	if selected {
		return m.styles.selected.Render("  " + marker + " " + icon + " " + text)
	}
	return "  " + marker + " " + style.Render(icon) + " " + text
}

func (m Model) headerHeight() int {
	h := 2 // title bar and filter bar
	if mn, open := m.openMenu(); open {
		h += len(mn.Entries)
	}
	return h
}

func (m Model) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading report..."
	}
	parts := []string{m.titleBar()}
	parts = append(parts, m.menuLines()...)
	bar, _ := m.filterBar()
	parts = append(parts, bar, m.viewport.View(), m.statusLine(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) titleBar() string {
	doc := m.state.Document()
	lib := m.state.VisibleLibrary()
	if lib == nil {
		return m.styles.title.Render(doc.Title)
	}
	if !doc.MultiLibrary() {
		return m.styles.title.Render(render.Truncate(doc.Title, m.width))
	}
	icon := m.styles.theme.Icons.Menu
	title := m.styles.title.Render(icon + " " + lib.Name)
	if mn, _ := m.openMenu(); mn.Marker {
		title += m.styles.titleMarker.Render(" *")
	}
	if doc.Title != "" {
		title += m.styles.label.Render("  " + doc.Title)
	}
	return title
}

func (m Model) menuLines() []string {
	mn, open := m.openMenu()
	if !open {
		return nil
	}
	lines := make([]string, len(mn.Entries))
	for i, e := range mn.Entries {
		if i == m.menuCursor {
			lines[i] = m.styles.menuSelected.Render("> " + e.Name)
		} else {
			lines[i] = m.styles.menuEntry.Render("  " + e.Name)
		}
	}
	return lines
}

// filterBar renders the name field and the status checkboxes, returning
// where each control sits.
func (m Model) filterBar() (string, []span) {
	c := m.state.Criteria()
	var (
		sb    strings.Builder
		spans []span
		x     int
	)
	add := func(s string, field int, clickable bool) {
		w := lipgloss.Width(s)
		if clickable {
			spans = append(spans, span{from: x, to: x + w, field: field})
		}
		sb.WriteString(s)
		x += w
	}

	add(m.styles.label.Render("Name: ")+m.input.View(), fieldName, true)
	for _, cat := range filter.Categories {
		add("  ", 0, false)
		box, style := "[ ]", m.styles.checkOff
		if c.Shows(cat) {
			box, style = "[x]", m.styles.checkOn
		}
		add(style.Render(box+" "+render.Heading(cat.String())), int(cat), true)
	}
	return sb.String(), spans
}

func (m Model) statusLine() string {
	if m.notice != "" {
		return m.styles.err.Render(m.notice)
	}
	lib := m.state.VisibleLibrary()
	if lib == nil {
		return ""
	}
	counts := filter.Tally(lib, m.state.Visibility())
	line := render.CountsLine(counts, " "+m.styles.theme.Icons.Bullet+" ")
	if lib.Abort != "" {
		line += "  aborted: " + lib.Abort
	}
	return m.styles.status.Render(line)
}

// handleMouse turns a left click into an outside-click event for the menu
// controller followed by whatever the click hit.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
	default:
		return m, nil
	}

	vis := m.state.Menus().Visible()
	mn, open := m.openMenu()
	menuRows := 0
	if open {
		menuRows = len(mn.Entries)
	}
	filterY := 1 + menuRows
	contentEnd := filterY + 1 + m.viewport.Height

	target := menu.Target{Library: vis, Region: menu.RegionContent}
	switch {
	case msg.Y == 0 && m.state.Document().MultiLibrary():
		target.Region = menu.RegionTitle
	case msg.Y >= 1 && msg.Y < filterY:
		target.Region = menu.RegionMenu
	case msg.Y >= contentEnd:
		target = menu.Nowhere
	}
	cmds := []tea.Cmd{m.dispatch(viewstate.OutsideClick{Target: target})}

	switch {
	case target.Region == menu.RegionTitle:
		cmds = append(cmds, m.dispatch(viewstate.ToggleMenu{Library: vis}))
	case target.Region == menu.RegionMenu:
		entry := mn.Entries[msg.Y-1]
		cmds = append(cmds, m.dispatch(viewstate.SwitchLibrary{Source: vis, Target: entry.Name}))
	case msg.Y == filterY:
		cmds = append(cmds, m.clickFilter(msg.X))
	case msg.Y > filterY && msg.Y < contentEnd:
		cmds = append(cmds, m.clickRow(msg.Y-filterY-1+m.viewport.YOffset))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) clickFilter(x int) tea.Cmd {
	_, spans := m.filterBar()
	for _, s := range spans {
		if x < s.from || x >= s.to {
			continue
		}
		if s.field == fieldName {
			return m.input.Focus()
		}
		m.input.Blur()
		return m.dispatch(viewstate.ToggleStatus{Category: filter.Category(s.field)})
	}
	return nil
}

func (m *Model) clickRow(i int) tea.Cmd {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	r := m.rows[i]
	if r.kind == rowSuite {
		return nil
	}
	for j := i; j >= 0; j-- {
		if m.rows[j].kind == rowCase {
			m.cursor = j
			break
		}
	}
	if r.kind == rowCase {
		return m.dispatch(viewstate.ToggleDetail{Case: r.tc.ID})
	}
	m.paint()
	return nil
}
