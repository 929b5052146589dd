package analysis

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/tandem-analyzer/internal/cli"
)

// Styles contains the styling used when formatting analysis results.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Error    lipgloss.Style
	Normal   lipgloss.Style

	StatsBox          lipgloss.Style
	StatLabel         lipgloss.Style
	StatValue         lipgloss.Style
	InsightBox        lipgloss.Style
	RecommendationBox lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtleStyle.MarginBottom(1),
		Error:    cli.ErrorStyle,
		Normal:   lipgloss.NewStyle(),
	}

	s.StatsBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.PrimaryColor).
		Padding(0, 1)

	s.StatLabel = lipgloss.NewStyle().
		Foreground(cli.SubtleColor).
		Width(24)

	s.StatValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.PrimaryColor)

	s.InsightBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.InfoColor).
		Padding(0, 1)

	s.RecommendationBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SuccessColor).
		Padding(0, 1)

	return s
}
