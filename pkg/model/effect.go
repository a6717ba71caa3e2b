package model

import "fmt"

// Attr is the surface attribute an Effect sets.
type Attr int

const (
	// AttrVisible shows or hides a library, suite or test case.
	AttrVisible Attr = iota
	// AttrMenuOpen expands or collapses a library's switch menu.
	AttrMenuOpen
	// AttrMenuMarker toggles the "opened" marker on a library's title control.
	AttrMenuMarker
	// AttrExpanded expands or collapses a test case's detail content.
	AttrExpanded
)

func (a Attr) String() string {
	switch a {
	case AttrVisible:
		return "visible"
	case AttrMenuOpen:
		return "menu-open"
	case AttrMenuMarker:
		return "menu-marker"
	case AttrExpanded:
		return "expanded"
	default:
		return fmt.Sprintf("attr(%d)", int(a))
	}
}

// Effect is one instruction for a rendering surface.
type Effect struct {
	Node NodeID
	Attr Attr
	On   bool
}

func (e Effect) String() string {
	return fmt.Sprintf("%s %s=%t", e.Node, e.Attr, e.On)
}

// Show returns a visibility effect.
func Show(id NodeID, visible bool) Effect {
	return Effect{Node: id, Attr: AttrVisible, On: visible}
}
