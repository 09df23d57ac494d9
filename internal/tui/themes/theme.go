// Package themes holds the TUI color palettes.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Card          lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Success       lipgloss.Color
	Error         lipgloss.Color
	Info          lipgloss.Color
}

func build(primary, secondary, success, warning, errColor, info, fg, subtle, border, muted string) Theme {
	return Theme{
		Primary:   lipgloss.Color(primary),
		Secondary: lipgloss.Color(secondary),
		Success:   lipgloss.Color(success),
		Error:     lipgloss.Color(errColor),
		Info:      lipgloss.Color(info),
		Border:    lipgloss.Color(border),
		Muted:     lipgloss.Color(muted),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(fg)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fg)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(primary)).
			Foreground(lipgloss.Color(fg)).
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1).
			Width(24),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(1, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(success)).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(warning)).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(errColor)).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info)).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Italic(true),
	}
}

// Default is the default theme.
var Default = build("#7c3aed", "#a78bfa", "#10b981", "#f59e0b", "#ef4444", "#3b82f6",
	"#fafafa", "#a3a3a3", "#404040", "#737373")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("#cba6f7", "#f5c2e7", "#a6e3a1", "#f9e2af", "#f38ba8", "#89dceb",
	"#cdd6f4", "#a6adc8", "#45475a", "#6c7086")

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
