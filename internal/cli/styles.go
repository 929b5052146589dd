// Package cli provides styled terminal output and prompts using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the CLI output and the analysis formatter.
var (
	PrimaryColor = lipgloss.Color("#4A90D9") // Pump blue
	SuccessColor = lipgloss.Color("#4ECDC4")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")

	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	borderColor  = lipgloss.Color("#333333")
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// ErrorStyle renders failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(errorColor)

	// SubtleStyle renders secondary text such as dataset IDs.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	infoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)
)

// Icons used in dataset listings and analysis output.
const (
	DropIcon      = "💧"
	ChartIcon     = "📊"
	CalendarIcon  = "📅"
	InsightIcon   = "💡"
	CheckIcon     = "✅"
	SelectedBox   = "[x]"
	UnselectedBox = "[ ]"

	successIcon = "✓"
	errorIcon   = "✗"
	warningIcon = "⚠️"
	infoIcon    = "ℹ️"
	bellIcon    = "🔔"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(successIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(errorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(warningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(infoIcon + " " + message)
}

// FormatTitle prefixes title with the app icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(DropIcon + " " + title)
}

// FormatPrompt formats a question waiting for input.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// FormatNotification formats an analysis completion notification.
func FormatNotification(message string) string {
	return infoStyle.Render(bellIcon + " " + message)
}

// RenderBox renders content under title in a rounded box.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
