// Package menu keeps exactly one library visible and tracks each library's
// switch menu. All operations are pure: they take a State and return the next
// State plus the effects a surface must apply.
package menu

import (
	"errors"
	"fmt"

	"github.com/dkoosis/foview/pkg/model"
)

// ErrUnknownLibrary is returned by Switch when no library has the target name.
var ErrUnknownLibrary = errors.New("no library with that name")

// Entry is one navigation target in a library's menu.
type Entry struct {
	Name  string
	Index int
}

// Menu is one library's switch menu.
type Menu struct {
	Open    bool
	Marker  bool    // "opened" marker on the title control
	Entries []Entry // every other library, in document order
}

// State is the controller state for a whole document.
type State struct {
	// Exclusive closes every other menu when one is opened. When false,
	// Toggle leaves other menus alone and only OutsideClick closes them.
	Exclusive bool

	visible int
	ids     []model.NodeID
	names   []string
	menus   []Menu
}

// Initialize builds every library's menu from the names of the other
// libraries. The first library is visible and every menu is closed.
func Initialize(libs []model.Library, exclusive bool) (State, []model.Effect) {
	st := State{
		Exclusive: exclusive,
		ids:       make([]model.NodeID, len(libs)),
		names:     make([]string, len(libs)),
		menus:     make([]Menu, len(libs)),
	}
	for i := range libs {
		st.ids[i] = libs[i].ID
		st.names[i] = libs[i].Name
	}
	for i := range libs {
		entries := make([]Entry, 0, len(libs)-1)
		for j := range libs {
			if j == i {
				continue
			}
			entries = append(entries, Entry{Name: libs[j].Name, Index: j})
		}
		st.menus[i].Entries = entries
	}

	effects := make([]model.Effect, 0, 3*len(libs))
	for i, id := range st.ids {
		effects = append(effects,
			model.Show(id, i == 0),
			model.Effect{Node: id, Attr: model.AttrMenuOpen},
			model.Effect{Node: id, Attr: model.AttrMenuMarker},
		)
	}
	return st, effects
}

// Len returns the number of libraries.
func (s State) Len() int { return len(s.names) }

// Visible returns the index of the visible library, or -1 for an empty state.
func (s State) Visible() int {
	if len(s.names) == 0 {
		return -1
	}
	return s.visible
}

// VisibleName returns the name of the visible library.
func (s State) VisibleName() string {
	if i := s.Visible(); i >= 0 {
		return s.names[i]
	}
	return ""
}

// Name returns the name of library i.
func (s State) Name(i int) string { return s.names[i] }

// Menu returns library i's menu.
func (s State) Menu(i int) Menu { return s.menus[i] }

// OpenMenus returns the indices of every open menu.
func (s State) OpenMenus() []int {
	var out []int
	for i, m := range s.menus {
		if m.Open {
			out = append(out, i)
		}
	}
	return out
}

// Index returns the index of the library called name, or -1.
func (s State) Index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	s.menus = append([]Menu(nil), s.menus...)
	return s
}

func (s *State) setMenu(i int, open bool, out []model.Effect) []model.Effect {
	m := &s.menus[i]
	if m.Open != open {
		m.Open = open
		out = append(out, model.Effect{Node: s.ids[i], Attr: model.AttrMenuOpen, On: open})
	}
	if m.Marker != open {
		m.Marker = open
		out = append(out, model.Effect{Node: s.ids[i], Attr: model.AttrMenuMarker, On: open})
	}
	return out
}

func (s State) check(i int) error {
	if i < 0 || i >= len(s.names) {
		return fmt.Errorf("library index %d out of range [0,%d)", i, len(s.names))
	}
	return nil
}

// Toggle flips library i's menu. Opening a menu in exclusive mode closes
// every other menu first.
func Toggle(s State, i int) (State, []model.Effect, error) {
	if err := s.check(i); err != nil {
		return s, nil, err
	}
	next := s.clone()
	var out []model.Effect
	opening := !next.menus[i].Open
	if opening && next.Exclusive {
		for j := range next.menus {
			if j != i {
				out = next.setMenu(j, false, out)
			}
		}
	}
	out = next.setMenu(i, opening, out)
	return next, out, nil
}

// Close forces library i's menu shut.
func Close(s State, i int) (State, []model.Effect, error) {
	if err := s.check(i); err != nil {
		return s, nil, err
	}
	next := s.clone()
	return next, next.setMenu(i, false, nil), nil
}

// Switch closes source's menu, hides the visible library and shows the
// library called target. An unknown target leaves the state untouched and
// returns ErrUnknownLibrary.
func Switch(s State, source int, target string) (State, []model.Effect, error) {
	if err := s.check(source); err != nil {
		return s, nil, err
	}
	ti := s.Index(target)
	if ti < 0 {
		return s, nil, fmt.Errorf("%w: %q", ErrUnknownLibrary, target)
	}
	next := s.clone()
	out := next.setMenu(source, false, nil)
	if ti == next.visible {
		return next, out, nil
	}
	out = append(out, model.Show(next.ids[next.visible], false), model.Show(next.ids[ti], true))
	next.visible = ti
	return next, out, nil
}

// SwitchNext shows the library after the visible one, wrapping around.
func SwitchNext(s State) (State, []model.Effect, error) {
	return step(s, 1)
}

// SwitchPrev shows the library before the visible one, wrapping around.
func SwitchPrev(s State) (State, []model.Effect, error) {
	return step(s, -1)
}

func step(s State, delta int) (State, []model.Effect, error) {
	n := len(s.names)
	if n < 2 {
		return s, nil, nil
	}
	ti := ((s.visible+delta)%n + n) % n
	return Switch(s, s.visible, s.names[ti])
}
