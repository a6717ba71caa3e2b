package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/foview/pkg/filter"
	"github.com/dkoosis/foview/pkg/model"
)

// Heading title-cases a label: "pass" becomes "Pass". A Caser keeps state,
// so each call gets its own.
func Heading(s string) string { return cases.Title(language.English).String(s) }

// Truncate shortens s to at most width display cells, marking the cut with
// "...". Wide runes count as two cells.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// CountsLine summarises shown and total cases per category, e.g.
// "3 of 7 shown · Pass 1/3 · Fail 1/2 · Skip 1/2".
func CountsLine(c filter.Counts, sep string) string {
	parts := []string{fmt.Sprintf("%d of %d shown", c.VisibleTotal(), c.GrandTotal())}
	for _, cat := range filter.Categories {
		parts = append(parts, fmt.Sprintf("%s %d/%d", Heading(cat.String()), c.Visible[cat], c.Total[cat]))
	}
	return strings.Join(parts, sep)
}

// CriteriaLine describes the active filter, or "" for the identity filter.
func CriteriaLine(c filter.Criteria) string {
	if c.IsDefault() {
		return ""
	}
	var parts []string
	if c.Name != "" {
		parts = append(parts, fmt.Sprintf("name~%q", c.Name))
	}
	var shown []string
	for _, cat := range filter.Categories {
		if c.Shows(cat) {
			shown = append(shown, cat.String())
		}
	}
	if len(shown) == 0 {
		shown = append(shown, "none")
	}
	parts = append(parts, "status="+strings.Join(shown, ","))
	return "filter: " + strings.Join(parts, " ")
}

// FormatDuration prints a test duration compactly; zero prints as "".
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return ""
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// Reason returns the one-line failure or skip text, prefixed by its location.
func Reason(tc *model.TestCase) string {
	if tc.Reason == "" {
		return ""
	}
	if loc := tc.Location.String(); loc != "" {
		return loc + ": " + tc.Reason
	}
	return tc.Reason
}

// OtherLibraries returns every library name except current.
func OtherLibraries(all []string, current string) []string {
	var out []string
	for _, n := range all {
		if n != current {
			out = append(out, n)
		}
	}
	return out
}
