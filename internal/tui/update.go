package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-shellwords"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/dataset"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

const completionNotice = "Analysis complete! Your insulin pump data has been processed."

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case datasetsChangedMsg:
		m.datasets = msg.datasets
		m.clampCursor()
		if m.state == StateConfirmDelete && !m.hasDataset(m.pendingDelete) {
			m.pendingDelete = ""
			m.state = StateList
		}
		return m, waitForDatasets(m.ctx, m.feed)

	case progressMsg:
		m.recordProgress(msg.stage, msg.fraction)
		return m, waitForEvent(m.events)

	case analysisDoneMsg:
		m.finishRun()
		m.handleAnalysisDone(msg.result, msg.err)
		return m, nil

	case uploadDoneMsg:
		m.finishRun()
		m.handleUploadDone(msg)
		return m, nil

	case noticeMsg:
		m.notice = msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == StateUpload {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.state {
	case StateConfirmDelete:
		return m.handleConfirmKey(msg)
	case StateUpload:
		return m.handleUploadKey(msg)
	case StateAnalyzing:
		return m.handleAnalyzingKey(msg)
	case StateResults:
		return m.handleResultsKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.datasets)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keymap.Toggle):
		d, ok := m.currentDataset()
		if !ok {
			return m, nil
		}
		if _, err := m.app.Datasets().ToggleSelection(m.ctx, d.ID); err != nil {
			m.setNotice(noticeError, err.Error())
		}

	case key.Matches(msg, m.keymap.SelectAll):
		if len(m.datasets) == 0 {
			return m, nil
		}
		if m.app.Datasets().SetAllSelected(m.ctx) {
			m.setNotice(noticeInfo, "All datasets selected")
		} else {
			m.setNotice(noticeInfo, "All datasets deselected")
		}

	case key.Matches(msg, m.keymap.Delete):
		d, ok := m.currentDataset()
		if !ok {
			return m, nil
		}
		m.pendingDelete = d.ID
		m.state = StateConfirmDelete

	case key.Matches(msg, m.keymap.Upload):
		m.state = StateUpload
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keymap.Analyze):
		if len(m.app.Datasets().Selected()) == 0 {
			// The engine rejects an empty selection; ask it for the message
			// without leaving the list.
			_, err := m.app.Analyze(m.ctx, nil)
			m.handleAnalysisDone(nil, err)
			return m, nil
		}
		return m.begin(analyzeRun(m.app))
	}

	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		d, ok := m.datasetByID(m.pendingDelete)
		m.app.Datasets().Remove(m.ctx, m.pendingDelete)
		if ok {
			m.setNotice(noticeSuccess, fmt.Sprintf("Deleted %s", d.Name))
		}
		m.pendingDelete = ""
		m.state = StateList

	case key.Matches(msg, m.keymap.Cancel), key.Matches(msg, m.keymap.Quit):
		m.pendingDelete = ""
		m.state = StateList
	}
	return m, nil
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		m.state = StateList
		return m, nil

	case tea.KeyEnter:
		m.input.Blur()
		paths, err := shellwords.Parse(m.input.Value())
		if err != nil {
			m.state = StateList
			m.setNotice(noticeError, fmt.Sprintf("Invalid path list: %v", err))
			return m, nil
		}
		if len(paths) == 0 {
			m.state = StateList
			return m, nil
		}

		files, err := dataset.FilesFromPaths(paths)
		if err != nil {
			m.state = StateList
			m.setNotice(noticeError, err.Error())
			return m, nil
		}
		return m.begin(uploadRun(m.app, files))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleAnalyzingKey only honors quit. A started pipeline runs to completion.
func (m Model) handleAnalyzingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.Quit) {
		return m.quit()
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m.quit()
	case key.Matches(msg, m.keymap.Back), key.Matches(msg, m.keymap.Analyze):
		m.state = StateList
	}
	return m, nil
}

// begin switches to the progress view and starts run in the background.
func (m Model) begin(run func(context.Context, analysis.ProgressFunc) tea.Msg) (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelRun = cancel
	m.stages = newStageProgress()
	m.notice = noticeMsg{}
	m.state = StateAnalyzing
	m.events = startRun(ctx, run)
	return m, waitForEvent(m.events)
}

func (m *Model) finishRun() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
	m.events = nil
	m.state = StateList
}

func (m *Model) handleAnalysisDone(result *analysis.Result, err error) {
	switch {
	case err == nil && result != nil:
		m.result = result
		m.state = StateResults
		if m.app.Settings().Get().EnableNotifications {
			m.setNotice(noticeSuccess, completionNotice)
		}
	case err == nil:
	case common.IsValidationError(err):
		m.setNotice(noticeWarning, common.UserMessage(err))
	case errors.Is(err, context.Canceled):
		// Program teardown.
	default:
		slog.Error("Analysis failed", "error", err)
		m.setNotice(noticeError, fmt.Sprintf("Analysis failed: %v", err))
	}
}

func (m *Model) handleUploadDone(msg uploadDoneMsg) {
	if msg.err != nil {
		m.setNotice(noticeError, common.UserMessage(msg.err))
		return
	}

	m.setNotice(noticeSuccess, "Uploaded "+english.Plural(len(msg.outcome.Added), "dataset", ""))
	if msg.outcome.Analysis != nil || msg.outcome.AnalysisErr != nil {
		m.handleAnalysisDone(msg.outcome.Analysis, msg.outcome.AnalysisErr)
	}
}

func (m *Model) recordProgress(stage analysis.Stage, fraction float64) {
	for i := range m.stages {
		if m.stages[i].stage == stage {
			m.stages[i].started = true
			m.stages[i].percent = min(max(fraction, 0), 1)
			return
		}
	}
}

func (m *Model) setNotice(level noticeLevel, text string) {
	m.notice = noticeMsg{level: level, text: text}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancelRun != nil {
		m.cancelRun()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) hasDataset(id string) bool {
	_, ok := m.datasetByID(id)
	return ok
}

func (m Model) datasetByID(id string) (model.Dataset, bool) {
	for _, d := range m.datasets {
		if d.ID == id {
			return d, true
		}
	}
	return model.Dataset{}, false
}
