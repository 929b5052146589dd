package analysis

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/tandem-analyzer/internal/cli"
)

var _ ResultFormatter = (*CLIFormatter)(nil)

// CLIFormatter renders analysis results for the terminal.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// FormatResult renders the summary statistics, insights and recommendations.
func (f *CLIFormatter) FormatResult(result *Result) string {
	if result == nil {
		return f.styles.Error.Render("No analysis results available")
	}

	sections := []string{
		f.styles.Title.Render(cli.ChartIcon + " Analysis Results"),
		f.formatStats(result.SummaryStats),
	}

	if len(result.Insights) > 0 {
		sections = append(sections, f.formatList("AI Insights", cli.InsightIcon, result.Insights, f.styles.InsightBox))
	}
	if len(result.Recommendations) > 0 {
		sections = append(sections, f.formatList("Recommendations", cli.CheckIcon, result.Recommendations, f.styles.RecommendationBox))
	}

	return strings.Join(sections, "\n\n")
}

func (f *CLIFormatter) formatStats(stats SummaryStats) string {
	rows := []struct {
		label string
		value string
	}{
		{"Date range", stats.DateRange},
		{"Total records", humanize.Comma(int64(stats.TotalRecords))},
		{"Average glucose", stats.AvgGlucose},
		{"Time in range", stats.TimeInRange},
		{"Time above range", stats.TimeAboveRange},
		{"Time below range", stats.TimeBelowRange},
		{"Total insulin delivered", stats.TotalInsulinDelivered},
		{"Average daily insulin", stats.AvgDailyInsulin},
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			f.styles.StatLabel.Render(row.label),
			f.styles.StatValue.Render(row.value),
		))
	}

	return f.styles.StatsBox.Render(strings.Join(lines, "\n"))
}

func (f *CLIFormatter) formatList(title, icon string, items []string, box lipgloss.Style) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, f.styles.Subtitle.Render(title))
	for _, item := range items {
		lines = append(lines, icon+" "+f.styles.Normal.Render(item))
	}
	return box.Render(strings.Join(lines, "\n"))
}
