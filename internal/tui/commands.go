package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/service"
)

const runBuffer = 64

// uploadDoneMsg ends an upload, including any automatic analysis.
type uploadDoneMsg struct {
	err     error
	outcome service.UploadOutcome
}

// waitForDatasets delivers the next dataset snapshot.
func waitForDatasets(ctx context.Context, feed *snapshotFeed) tea.Cmd {
	return func() tea.Msg {
		datasets, ok := feed.next(ctx)
		if !ok {
			return nil
		}
		return datasetsChangedMsg{datasets: datasets}
	}
}

// waitForEvent delivers the next message from a background run.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// startRun launches run in the background. Its progress reports and its
// final message arrive through the returned channel, which is closed
// afterwards. Progress reports are dropped when the UI falls behind; the
// last buffer slot is kept for the final message so the worker never blocks.
func startRun(ctx context.Context, run func(context.Context, analysis.ProgressFunc) tea.Msg) <-chan tea.Msg {
	events := make(chan tea.Msg, runBuffer)

	report := func(stage analysis.Stage, fraction float64) {
		if len(events) < cap(events)-1 {
			events <- progressMsg{stage: stage, fraction: fraction}
		}
	}

	go func() {
		defer close(events)
		events <- run(ctx, report)
	}()

	return events
}

func analyzeRun(app App) func(context.Context, analysis.ProgressFunc) tea.Msg {
	return func(ctx context.Context, report analysis.ProgressFunc) tea.Msg {
		result, err := app.Analyze(ctx, report)
		return analysisDoneMsg{result: result, err: err}
	}
}

func uploadRun(app App, files []model.FileInfo) func(context.Context, analysis.ProgressFunc) tea.Msg {
	return func(ctx context.Context, report analysis.ProgressFunc) tea.Msg {
		outcome, err := app.Upload(ctx, files, report)
		return uploadDoneMsg{outcome: outcome, err: err}
	}
}
