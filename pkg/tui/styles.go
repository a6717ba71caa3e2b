package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/foview/pkg/render"
)

type styles struct {
	theme render.Theme

	title        lipgloss.Style
	titleMarker  lipgloss.Style
	menuEntry    lipgloss.Style
	menuSelected lipgloss.Style
	suite        lipgloss.Style
	selected     lipgloss.Style
	detail       lipgloss.Style
	checkOn      lipgloss.Style
	checkOff     lipgloss.Style
	label        lipgloss.Style
	status       lipgloss.Style
	err          lipgloss.Style
}

func newStyles(t render.Theme) styles {
	primary := t.Primary.GetForeground()
	return styles{
		theme:        t,
		title:        t.Bold.Foreground(primary),
		titleMarker:  t.Warning,
		menuEntry:    t.Muted.PaddingLeft(2),
		menuSelected: t.Bold.Foreground(primary).PaddingLeft(2),
		suite:        t.Bold,
		selected:     lipgloss.NewStyle().Reverse(true),
		detail:       t.Muted,
		checkOn:      t.Success,
		checkOff:     t.Muted,
		label:        t.Muted,
		status:       t.Muted,
		err:          t.Error,
	}
}
