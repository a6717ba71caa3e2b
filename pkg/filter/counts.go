package filter

import "github.com/dkoosis/foview/pkg/model"

// Counts totals a library's test cases by category, overall and shown.
type Counts struct {
	Total   map[Category]int
	Visible map[Category]int
}

// Tally counts the cases of lib under the given pass.
func Tally(lib *model.Library, v Visibility) Counts {
	c := Counts{Total: make(map[Category]int), Visible: make(map[Category]int)}
	for _, s := range lib.Suites {
		for _, tc := range s.Cases {
			cat := CategoryOf(tc.Status)
			c.Total[cat]++
			if v.Case(tc.ID) {
				c.Visible[cat]++
			}
		}
	}
	return c
}

// VisibleTotal returns the number of shown cases.
func (c Counts) VisibleTotal() int {
	n := 0
	for _, v := range c.Visible {
		n += v
	}
	return n
}

// GrandTotal returns the number of cases.
func (c Counts) GrandTotal() int {
	n := 0
	for _, v := range c.Total {
		n += v
	}
	return n
}
