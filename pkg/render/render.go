// Package render provides output renderers for the visible part of a report:
// styled terminal text, plain text, JSON and a static HTML page.
package render

import (
	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/model"
)

// Renderer converts a view to formatted output.
type Renderer interface {
	Render(v View) string
}

// Surface answers which nodes are currently visible. A viewstate.Recorder
// that has applied every effect so far is one.
type Surface interface {
	Visible(id model.NodeID) bool
}

// View is the on-screen subset of a document.
type View struct {
	Title     string
	Multi     bool
	Libraries []string // every library name, in document order
	Criteria  filter.Criteria
	Shown     []LibraryView
}

// LibraryView is a visible library with its visible suites.
type LibraryView struct {
	Library *model.Library
	Suites  []SuiteView
	Counts  filter.Counts
}

// SuiteView is a visible suite with its visible cases.
type SuiteView struct {
	Suite *model.Suite
	Cases []*model.TestCase
}

// Build collects what surface shows of doc.
func Build(doc *model.Document, surface Surface, c filter.Criteria) View {
	v := View{Title: doc.Title, Multi: doc.MultiLibrary(), Criteria: c}
	for i := range doc.Libraries {
		lib := &doc.Libraries[i]
		v.Libraries = append(v.Libraries, lib.Name)
		if !surface.Visible(lib.ID) {
			continue
		}
		lv := LibraryView{
			Library: lib,
			Counts:  filter.Counts{Total: map[filter.Category]int{}, Visible: map[filter.Category]int{}},
		}
		for j := range lib.Suites {
			s := &lib.Suites[j]
			suiteShown := surface.Visible(s.ID)
			sv := SuiteView{Suite: s}
			for k := range s.Cases {
				tc := &s.Cases[k]
				cat := filter.CategoryOf(tc.Status)
				lv.Counts.Total[cat]++
				if suiteShown && surface.Visible(tc.ID) {
					lv.Counts.Visible[cat]++
					sv.Cases = append(sv.Cases, tc)
				}
			}
			if suiteShown {
				lv.Suites = append(lv.Suites, sv)
			}
		}
		v.Shown = append(v.Shown, lv)
	}
	return v
}

// HasVisibleFailure reports whether any shown case is in the fail category.
func (v View) HasVisibleFailure() bool {
	for _, lv := range v.Shown {
		if lv.Counts.Visible[filter.CategoryFail] > 0 {
			return true
		}
	}
	return false
}

// ByName returns the listing renderer for a --format value.
func ByName(format string, theme Theme, width int) (Renderer, bool) {
	switch format {
	case "terminal", "":
		return NewTerminal(theme, width), true
	case "plain":
		return NewPlain(), true
	case "json":
		return NewJSON(), true
	default:
		return nil, false
	}
}
