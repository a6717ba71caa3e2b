package menu

import "github.com/dkoosis/foview/pkg/model"

// Region is the part of a library's chrome a click landed in.
type Region int

const (
	RegionNone    Region = iota // outside any library
	RegionContent               // library body: suites and tests
	RegionTitle                 // title control that opens the menu
	RegionMenu                  // the open menu, including its entries
)

// Target describes where a click landed.
type Target struct {
	Library int // -1 when the click is outside every library
	Region  Region
}

// Nowhere is a click outside every library.
var Nowhere = Target{Library: -1, Region: RegionNone}

// within reports whether t lies in library i's menu subtree or title control.
func (t Target) within(i int) bool {
	return t.Library == i && (t.Region == RegionTitle || t.Region == RegionMenu)
}

// OutsideClick closes every open menu the click did not land in. This is the
// only operation that can close several menus at once.
func OutsideClick(s State, t Target) (State, []model.Effect) {
	next := s.clone()
	var out []model.Effect
	for i := range next.menus {
		if next.menus[i].Open && !t.within(i) {
			out = next.setMenu(i, false, out)
		}
	}
	return next, out
}
