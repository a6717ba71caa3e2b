// Package viewstate owns the whole view state of a loaded report: the current
// filter criteria, the library menu controller and the expanded test cases.
// Reduce is a pure function from (state, event) to (state, effects); a
// rendering surface applies the effects and never feeds state back.
package viewstate

import (
	"errors"
	"fmt"

	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/menu"
	"github.com/dkoosis/foview/pkg/model"
)

// ErrUnknownNode is returned when an event names a node the document lacks.
var ErrUnknownNode = errors.New("unknown node")

// Options seed a new State.
type Options struct {
	// Criteria is the initial filter; nil means filter.Default().
	Criteria *filter.Criteria
	// LegacyMenus keeps the historical behaviour where opening a menu does
	// not close the others.
	LegacyMenus bool
}

// State is the complete view state. Treat it as a value.
type State struct {
	doc        *model.Document
	criteria   filter.Criteria
	visibility filter.Visibility
	menus      menu.State
	expanded   map[model.NodeID]bool
}

// New builds the initial state and the effects for the first paint.
func New(doc *model.Document, opts Options) (State, []model.Effect) {
	c := filter.Default()
	if opts.Criteria != nil {
		c = *opts.Criteria
	}
	menus, menuEffects := menu.Initialize(doc.Libraries, !opts.LegacyMenus)
	st := State{
		doc:        doc,
		criteria:   c,
		visibility: filter.Apply(c, doc.Libraries),
		menus:      menus,
		expanded:   map[model.NodeID]bool{},
	}
	effects := append(menuEffects, st.visibility.Effects()...)
	for _, lib := range doc.Libraries {
		for _, s := range lib.Suites {
			for _, tc := range s.Cases {
				if tc.HasDetail() {
					effects = append(effects, model.Effect{Node: tc.ID, Attr: model.AttrExpanded})
				}
			}
		}
	}
	return st, effects
}

// Document returns the report the state was built for.
func (s State) Document() *model.Document { return s.doc }

// Criteria returns the current filter criteria.
func (s State) Criteria() filter.Criteria { return s.criteria }

// Visibility returns the result of the latest filter pass.
func (s State) Visibility() filter.Visibility { return s.visibility }

// Menus returns the library menu state.
func (s State) Menus() menu.State { return s.menus }

// VisibleLibrary returns the library currently shown.
func (s State) VisibleLibrary() *model.Library {
	i := s.menus.Visible()
	if i < 0 {
		return nil
	}
	return &s.doc.Libraries[i]
}

// Expanded reports whether a test case's detail is expanded.
func (s State) Expanded(id model.NodeID) bool { return s.expanded[id] }

// Reduce applies one event. The input state is never modified. On error the
// returned state equals the input and there are no effects.
func Reduce(s State, ev Event) (State, []model.Effect, error) {
	switch e := ev.(type) {
	case SetName:
		c := s.criteria
		c.Name = e.Name
		return s.filterTo(c)
	case SetStatus:
		return s.filterTo(s.criteria.With(e.Category, e.On))
	case ToggleStatus:
		return s.filterTo(s.criteria.With(e.Category, !s.criteria.Shows(e.Category)))
	case Reset:
		return s.filterTo(filter.Default())
	case ToggleMenu:
		return s.withMenus(menu.Toggle(s.menus, e.Library))
	case CloseMenu:
		return s.withMenus(menu.Close(s.menus, e.Library))
	case SwitchLibrary:
		return s.withMenus(menu.Switch(s.menus, e.Source, e.Target))
	case NextLibrary:
		return s.withMenus(menu.SwitchNext(s.menus))
	case PrevLibrary:
		return s.withMenus(menu.SwitchPrev(s.menus))
	case OutsideClick:
		next, effects := menu.OutsideClick(s.menus, e.Target)
		s.menus = next
		return s, effects, nil
	case ToggleDetail:
		return s.toggleDetail(e.Case)
	default:
		return s, nil, fmt.Errorf("unhandled event %T", ev)
	}
}

// filterTo runs a full pass for c and returns only the changed nodes.
func (s State) filterTo(c filter.Criteria) (State, []model.Effect, error) {
	next := filter.Apply(c, s.doc.Libraries)
	effects := filter.Diff(s.visibility, next)
	s.criteria = c
	s.visibility = next
	return s, effects, nil
}

func (s State) withMenus(next menu.State, effects []model.Effect, err error) (State, []model.Effect, error) {
	if err != nil {
		return s, nil, err
	}
	s.menus = next
	return s, effects, nil
}

func (s State) toggleDetail(id model.NodeID) (State, []model.Effect, error) {
	tc, ok := s.doc.Case(id)
	if !ok {
		return s, nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	if !tc.HasDetail() {
		return s, nil, nil
	}
	expanded := make(map[model.NodeID]bool, len(s.expanded)+1)
	for k, v := range s.expanded {
		expanded[k] = v
	}
	on := !expanded[id]
	if on {
		expanded[id] = true
	} else {
		delete(expanded, id)
	}
	s.expanded = expanded
	return s, []model.Effect{{Node: id, Attr: model.AttrExpanded, On: on}}, nil
}
