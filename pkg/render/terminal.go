package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxNameWidth caps the test-name column.
const maxNameWidth = 60

// Terminal renders the view as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats the visible libraries for terminal display.
func (t *Terminal) Render(v View) string {
	var sb strings.Builder
	if v.Title != "" {
		sb.WriteString(t.theme.Bold.Render(v.Title))
		sb.WriteString("\n")
	}
	if line := CriteriaLine(v.Criteria); line != "" {
		sb.WriteString(t.theme.Muted.Render(line))
		sb.WriteString("\n")
	}
	for _, lv := range v.Shown {
		sb.WriteString(t.renderLibrary(v, lv))
	}
	return sb.String()
}

func (t *Terminal) renderLibrary(v View, lv LibraryView) string {
	var sb strings.Builder
	if v.Multi {
		sb.WriteString(t.theme.Primary.Render(t.theme.Icons.Menu + " " + lv.Library.Name))
		if others := OtherLibraries(v.Libraries, lv.Library.Name); len(others) > 0 {
			sb.WriteString(t.theme.Muted.Render("  (also: " + strings.Join(others, ", ") + ")"))
		}
		sb.WriteString("\n")
	}
	if lv.Library.Abort != "" {
		sb.WriteString(t.theme.Error.Render("  aborted: " + lv.Library.Abort))
		sb.WriteString("\n")
	}

	nameWidth := 0
	for _, sv := range lv.Suites {
		for _, tc := range sv.Cases {
			if w := runewidth.StringWidth(tc.Name); w > nameWidth {
				nameWidth = w
			}
		}
	}
	if nameWidth > maxNameWidth {
		nameWidth = maxNameWidth
	}

	for _, sv := range lv.Suites {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Bold.Render(sv.Suite.Name))
		sb.WriteString("\n")
		for _, tc := range sv.Cases {
			icon, style := t.theme.StatusIcon(tc.Status)
			sb.WriteString("    ")
			sb.WriteString(style.Render(icon + " "))
			sb.WriteString(PadRight(Truncate(tc.Name, nameWidth), nameWidth))
			if d := FormatDuration(tc.Duration); d != "" {
				sb.WriteString("  ")
				sb.WriteString(t.theme.Muted.Render(d))
			}
			if r := Reason(tc); r != "" {
				// 4 indent + icon + space + name + 2 gap
				room := t.width - nameWidth - 8
				sb.WriteString("  ")
				sb.WriteString(style.Render(Truncate(r, room)))
			}
			sb.WriteString("\n")
		}
	}
	if len(lv.Suites) == 0 {
		sb.WriteString(t.theme.Muted.Render("  no tests match"))
		sb.WriteString("\n")
	}
	sb.WriteString(t.theme.Muted.Render(CountsLine(lv.Counts, " "+t.theme.Icons.Bullet+" ")))
	sb.WriteString("\n")
	return sb.String()
}
