package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/cli"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateConfirmDelete:
		body = m.renderConfirmDelete()
	case StateUpload:
		body = m.renderUpload()
	case StateAnalyzing:
		body = m.renderProgress()
	case StateResults:
		body = m.renderResults()
	default:
		body = m.renderList()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	return m.theme.Title.Render(cli.DropIcon + " Tandem Insulin Pump Analyzer")
}

func (m Model) renderList() string {
	if len(m.datasets) == 0 {
		return m.theme.StatusPending.Render("No datasets uploaded yet. Press u to upload one.")
	}

	selected := 0
	rows := make([]string, 0, len(m.datasets)+1)
	for i, d := range m.datasets {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.Cursor.Render("> ")
		}

		box := cli.UnselectedBox
		name := m.theme.Normal.Render(d.Name)
		if d.Selected {
			selected++
			box = m.theme.Selected.Render(cli.SelectedBox)
			name = m.theme.Bold.Render(d.Name)
		}

		details := m.theme.Subtitle.Render(fmt.Sprintf("%s  •  %s  •  %s records",
			d.DateRange, d.FileSize, humanize.Comma(int64(d.RecordCount))))
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", cursor, box, name, details))
	}

	summary := m.theme.Subtitle.Render(fmt.Sprintf("%d of %d datasets selected", selected, len(m.datasets)))
	return lipgloss.JoinVertical(lipgloss.Left, append(rows, "", summary)...)
}

func (m Model) renderConfirmDelete() string {
	name := m.pendingDelete
	if d, ok := m.datasetByID(m.pendingDelete); ok {
		name = d.Name
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.StatusWarning.Render("Are you sure you want to delete this dataset?"),
		"",
		m.theme.Bold.Render(name),
		"",
		m.theme.Subtitle.Render("y: delete  •  n/Esc: keep"),
	)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderUpload() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Bold.Render("Upload pump export files"),
		m.theme.Subtitle.Render("Separate multiple paths with spaces."),
		"",
		m.input.View(),
		"",
		m.theme.Subtitle.Render("Enter: upload  •  Esc: cancel"),
	)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderProgress() string {
	rows := make([]string, 0, len(m.stages)+2)
	rows = append(rows, m.theme.Bold.Render(cli.ChartIcon+" Analyzing your data"), "")

	for _, s := range m.stages {
		var status string
		switch {
		case s.percent >= 1:
			status = m.theme.StatusSuccess.Render("Complete")
		case s.started:
			status = m.theme.StatusInfo.Render(s.stage.ActiveStatus())
		default:
			status = m.theme.StatusPending.Render("Waiting...")
		}

		label := lipgloss.NewStyle().Width(18).Render(s.stage.Label())
		rows = append(rows, fmt.Sprintf("%s %s  %s", label, m.bar.ViewAs(s.percent), status))
	}

	rows = append(rows, "", m.theme.Subtitle.Render("q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderResults() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		analysis.NewCLIFormatter().FormatResult(m.result),
		"",
		m.theme.Subtitle.Render("Esc/b: back to datasets  •  q: quit"),
	)
}

func (m Model) renderStatusBar() string {
	var lines []string
	if m.notice.text != "" {
		lines = append(lines, m.renderNotice())
	}
	if m.state == StateList {
		lines = append(lines, m.help.View(m.keymap))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m Model) renderNotice() string {
	switch m.notice.level {
	case noticeSuccess:
		return m.theme.StatusSuccess.Render(cli.CheckIcon + " " + m.notice.text)
	case noticeWarning:
		return m.theme.StatusWarning.Render(m.notice.text)
	case noticeError:
		return m.theme.StatusError.Render(m.notice.text)
	default:
		return m.theme.StatusInfo.Render(m.notice.text)
	}
}
