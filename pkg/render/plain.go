package render

import (
	"fmt"
	"strings"
)

// detailLines is how many detail lines Plain prints per case.
const detailLines = 3

// Plain renders the view as terse plain text with zero ANSI codes, for logs,
// pipes and AI consumption.
type Plain struct{}

// NewPlain creates a plain-text renderer.
func NewPlain() *Plain {
	return &Plain{}
}

// Render formats the visible libraries as plain text.
func (p *Plain) Render(v View) string {
	var sb strings.Builder
	scope := v.Title
	if scope == "" {
		scope = "report"
	}
	sb.WriteString("SCOPE: " + scope)
	if v.Multi {
		sb.WriteString(fmt.Sprintf(" (%d libraries)", len(v.Libraries)))
	}
	sb.WriteString("\n")
	if line := CriteriaLine(v.Criteria); line != "" {
		sb.WriteString(line + "\n")
	}

	for _, lv := range v.Shown {
		sb.WriteString("\nLIBRARY " + lv.Library.Name + ": " + CountsLine(lv.Counts, ", ") + "\n")
		if lv.Library.Abort != "" {
			sb.WriteString("  ABORTED " + lv.Library.Abort + "\n")
		}
		for _, sv := range lv.Suites {
			sb.WriteString("\n" + sv.Suite.Name + "\n")
			for _, tc := range sv.Cases {
				dur := ""
				if d := FormatDuration(tc.Duration); d != "" {
					dur = " (" + d + ")"
				}
				sb.WriteString(fmt.Sprintf("  %s %s%s\n", strings.ToUpper(string(tc.Status)), tc.Name, dur))
				if r := Reason(tc); r != "" {
					sb.WriteString("    " + r + "\n")
				}
				n := min(len(tc.Detail), detailLines)
				for _, line := range tc.Detail[:n] {
					sb.WriteString("    " + strings.TrimSpace(line) + "\n")
				}
				if len(tc.Detail) > detailLines {
					sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(tc.Detail)-detailLines))
				}
			}
		}
	}
	return sb.String()
}
