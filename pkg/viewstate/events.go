package viewstate

import (
	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/menu"
	"github.com/dkoosis/foview/pkg/model"
)

// Event is an input to Reduce.
type Event interface{ event() }

// SetName replaces the name pattern. An empty name matches everything.
type SetName struct{ Name string }

// SetStatus sets one status checkbox.
type SetStatus struct {
	Category filter.Category
	On       bool
}

// ToggleStatus flips one status checkbox.
type ToggleStatus struct{ Category filter.Category }

// Reset clears the name and re-enables every status.
type Reset struct{}

// ToggleMenu flips a library's switch menu.
type ToggleMenu struct{ Library int }

// CloseMenu closes a library's switch menu.
type CloseMenu struct{ Library int }

// SwitchLibrary moves from Source to the library named Target.
type SwitchLibrary struct {
	Source int
	Target string
}

// NextLibrary shows the following library.
type NextLibrary struct{}

// PrevLibrary shows the preceding library.
type PrevLibrary struct{}

// OutsideClick reports a click so open menus it missed can close.
type OutsideClick struct{ Target menu.Target }

// ToggleDetail expands or collapses a test case's detail content.
type ToggleDetail struct{ Case model.NodeID }

func (SetName) event()       {}
func (SetStatus) event()     {}
func (ToggleStatus) event()  {}
func (Reset) event()         {}
func (ToggleMenu) event()    {}
func (CloseMenu) event()     {}
func (SwitchLibrary) event() {}
func (NextLibrary) event()   {}
func (PrevLibrary) event()   {}
func (OutsideClick) event()  {}
func (ToggleDetail) event()  {}
