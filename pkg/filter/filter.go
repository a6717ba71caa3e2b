// Package filter decides which suites and test cases are shown for a given
// name pattern and set of status categories.
//
// Every call to Apply is a full pass over the forest. Report sizes are bounded
// by the size of a test suite, so there is no incremental update path; Diff
// only trims the effect list handed to a surface.
package filter

import (
	"strings"

	"github.com/dkoosis/foview/pkg/model"
)

// Category is the filter bucket a status belongs to.
type Category int

const (
	CategoryPass Category = iota
	CategoryFail
	CategorySkip
)

// Categories lists the categories in checkbox order.
var Categories = []Category{CategoryPass, CategoryFail, CategorySkip}

func (c Category) String() string {
	switch c {
	case CategoryPass:
		return "pass"
	case CategoryFail:
		return "fail"
	case CategorySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// CategoryOf classifies a status. xfail counts as a pass and xpass as a
// failure, so "failures only" surfaces unexpected passes too.
func CategoryOf(s model.Status) Category {
	switch s {
	case model.StatusPass, model.StatusXFail:
		return CategoryPass
	case model.StatusFail, model.StatusXPass:
		return CategoryFail
	default:
		return CategorySkip
	}
}

// Criteria is the current filter input. An empty Name matches every name.
type Criteria struct {
	Name     string
	ShowPass bool
	ShowFail bool
	ShowSkip bool
}

// Default returns the identity filter: no name, every category shown.
func Default() Criteria {
	return Criteria{ShowPass: true, ShowFail: true, ShowSkip: true}
}

// IsDefault reports whether c is the identity filter.
func (c Criteria) IsDefault() bool { return c == Default() }

// Shows reports whether the category's flag is set.
func (c Criteria) Shows(cat Category) bool {
	switch cat {
	case CategoryPass:
		return c.ShowPass
	case CategoryFail:
		return c.ShowFail
	case CategorySkip:
		return c.ShowSkip
	default:
		return false
	}
}

// With returns a copy of c with the category's flag set to on.
func (c Criteria) With(cat Category, on bool) Criteria {
	switch cat {
	case CategoryPass:
		c.ShowPass = on
	case CategoryFail:
		c.ShowFail = on
	case CategorySkip:
		c.ShowSkip = on
	}
	return c
}

// Matches reports whether a test case passes the name and status checks.
func Matches(tc *model.TestCase, c Criteria) bool {
	if c.Name != "" && !containsFold(tc.Name, c.Name) {
		return false
	}
	return c.Shows(CategoryOf(tc.Status))
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Visibility is the outcome of one filter pass.
type Visibility struct {
	criteria Criteria
	order    []model.NodeID // suites in document order
	suites   map[model.NodeID]bool
	children map[model.NodeID][]model.NodeID
	cases    map[model.NodeID]bool
	matched  map[model.NodeID]int // per library
}

// Apply runs a full filter pass over every suite of every library.
func Apply(c Criteria, forest []model.Library) Visibility {
	v := Visibility{
		criteria: c,
		suites:   make(map[model.NodeID]bool),
		children: make(map[model.NodeID][]model.NodeID),
		cases:    make(map[model.NodeID]bool),
		matched:  make(map[model.NodeID]int),
	}
	for li := range forest {
		lib := &forest[li]
		for si := range lib.Suites {
			s := &lib.Suites[si]
			v.order = append(v.order, s.ID)
			ids := make([]model.NodeID, len(s.Cases))
			for ci := range s.Cases {
				ids[ci] = s.Cases[ci].ID
			}
			v.children[s.ID] = ids

			n := 0
			for ci := range s.Cases {
				if Matches(&s.Cases[ci], c) {
					n++
				}
			}
			v.matched[lib.ID] += n
			if n == 0 {
				// Contents are hidden with the suite.
				v.suites[s.ID] = false
				continue
			}
			v.suites[s.ID] = true
			for ci := range s.Cases {
				v.cases[s.Cases[ci].ID] = Matches(&s.Cases[ci], c)
			}
		}
	}
	return v
}

// Criteria returns the criteria the pass was computed for.
func (v Visibility) Criteria() Criteria { return v.criteria }

// Suite reports whether the suite is shown.
func (v Visibility) Suite(id model.NodeID) bool { return v.suites[id] }

// Case reports whether the test case is shown. Cases of hidden suites are
// always hidden.
func (v Visibility) Case(id model.NodeID) bool { return v.cases[id] }

// Matched returns how many test cases in the library matched.
func (v Visibility) Matched(library model.NodeID) int { return v.matched[library] }

// Effects returns the full effect list in document order. A hidden suite
// yields one effect; its children are hidden implicitly.
func (v Visibility) Effects() []model.Effect {
	var out []model.Effect
	for _, sid := range v.order {
		shown := v.suites[sid]
		out = append(out, model.Show(sid, shown))
		if !shown {
			continue
		}
		for _, cid := range v.children[sid] {
			out = append(out, model.Show(cid, v.cases[cid]))
		}
	}
	return out
}

// Diff returns the effects needed to move a surface from prev to next. When a
// suite becomes visible every child is re-sent, because the surface may still
// hold child state from before the suite was hidden.
func Diff(prev, next Visibility) []model.Effect {
	var out []model.Effect
	for _, sid := range next.order {
		was, is := prev.suites[sid], next.suites[sid]
		if was != is {
			out = append(out, model.Show(sid, is))
		}
		if !is {
			continue
		}
		for _, cid := range next.children[sid] {
			if !was || prev.cases[cid] != next.cases[cid] {
				out = append(out, model.Show(cid, next.cases[cid]))
			}
		}
	}
	return out
}
