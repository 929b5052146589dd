// Package themes holds the color themes for the interactive UI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Cursor        lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

// New builds a theme from a small palette.
func New(primary, secondary, foreground, muted, border, success, warning, danger, info lipgloss.Color) Theme {
	return Theme{
		Primary:   primary,
		Secondary: secondary,
		Muted:     muted,
		Border:    border,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Selected: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(danger).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = New(
	lipgloss.Color("#4A90D9"),
	lipgloss.Color("#7FB3E8"),
	lipgloss.Color("#FAFAFA"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#10B981"),
	lipgloss.Color("#F59E0B"),
	lipgloss.Color("#EF4444"),
	lipgloss.Color("#3B82F6"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = New(
	lipgloss.Color("#89B4FA"),
	lipgloss.Color("#F5C2E7"),
	lipgloss.Color("#CDD6F4"),
	lipgloss.Color("#6C7086"),
	lipgloss.Color("#45475A"),
	lipgloss.Color("#A6E3A1"),
	lipgloss.Color("#F9E2AF"),
	lipgloss.Color("#F38BA8"),
	lipgloss.Color("#89DCEB"),
)

// ByName returns the named theme and whether it exists.
func ByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return Default, true
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha, true
	default:
		return Theme{}, false
	}
}
