package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/foview/pkg/model"
)

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass      string
	Fail      string
	Skip      string
	XFail     string
	XPass     string
	Collapsed string
	Expanded  string
	Menu      string
	Bullet    string
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "✓",
			Fail:      "✗",
			Skip:      "⚠",
			XFail:     "✓",
			XPass:     "!",
			Collapsed: "▸",
			Expanded:  "▾",
			Menu:      "▼",
			Bullet:    "·",
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "✓",
			Fail:      "✗",
			Skip:      "-",
			XFail:     "✓",
			XPass:     "!",
			Collapsed: "›",
			Expanded:  "⌄",
			Menu:      "▾",
			Bullet:    "·",
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons: ThemeIcons{
			Pass:      "+",
			Fail:      "x",
			Skip:      "-",
			XFail:     "+",
			XPass:     "!",
			Collapsed: ">",
			Expanded:  "v",
			Menu:      "v",
			Bullet:    "-",
		},
	}
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// ThemeNames lists the built-in themes.
func ThemeNames() []string { return []string{"default", "orca", "mono"} }

// IsTheme reports whether name is a built-in theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	if f, ok := themes[name]; ok {
		return f()
	}
	return DefaultTheme()
}

// StatusIcon returns the icon and style a status is drawn with.
func (t Theme) StatusIcon(s model.Status) (string, lipgloss.Style) {
	switch s {
	case model.StatusPass:
		return t.Icons.Pass, t.Success
	case model.StatusFail:
		return t.Icons.Fail, t.Error
	case model.StatusXFail:
		return t.Icons.XFail, t.Muted
	case model.StatusXPass:
		return t.Icons.XPass, t.Error
	default:
		return t.Icons.Skip, t.Warning
	}
}
