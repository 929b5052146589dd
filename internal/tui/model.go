// Package tui implements the interactive dataset browser.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/service"
	"github.com/Veraticus/tandem-analyzer/internal/tui/themes"
)

// App is what the UI needs from the application layer.
type App interface {
	Datasets() service.DatasetStore
	Settings() service.SettingsStore
	Upload(ctx context.Context, files []model.FileInfo, progress analysis.ProgressFunc) (service.UploadOutcome, error)
	Analyze(ctx context.Context, progress analysis.ProgressFunc) (*analysis.Result, error)
}

var _ App = (*service.App)(nil)

// State represents the current state of the TUI.
type State int

const (
	StateList State = iota
	StateConfirmDelete
	StateUpload
	StateAnalyzing
	StateResults
)

// stageProgress tracks one pipeline stage in the progress view.
type stageProgress struct {
	stage   analysis.Stage
	percent float64
	started bool
}

// Model holds the main TUI state.
type Model struct {
	ctx           context.Context
	app           App
	feed          *snapshotFeed
	events        <-chan tea.Msg
	cancelRun     context.CancelFunc
	result        *analysis.Result
	theme         themes.Theme
	keymap        KeyMap
	help          help.Model
	input         textinput.Model
	bar           progress.Model
	notice        noticeMsg
	pendingDelete string
	datasets      []model.Dataset
	stages        []stageProgress
	cursor        int
	width         int
	height        int
	state         State
	quitting      bool
}

// New creates the model. ctx bounds every store call and analysis run.
func New(ctx context.Context, app App, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	input := textinput.New()
	input.Placeholder = `path/to/export.csv "quoted path.zip"`
	input.Prompt = "File: "
	input.CharLimit = 4096

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:      ctx,
		app:      app,
		feed:     newSnapshotFeed(),
		theme:    cfg.Theme,
		keymap:   cfg.KeyMap,
		help:     h,
		input:    input,
		bar:      progress.New(progress.WithGradient(string(cfg.Theme.Primary), string(cfg.Theme.Secondary)), progress.WithWidth(40)),
		datasets: app.Datasets().List(),
		stages:   newStageProgress(),
		width:    cfg.Width,
		height:   cfg.Height,
		state:    StateList,
	}
}

func newStageProgress() []stageProgress {
	specs := analysis.DefaultStages()
	stages := make([]stageProgress, len(specs))
	for i, spec := range specs {
		stages[i] = stageProgress{stage: spec.Stage}
	}
	return stages
}

// Subscribe connects the model to dataset store changes. The returned
// function disconnects it.
func (m Model) Subscribe() (unsubscribe func()) {
	return m.app.Datasets().Subscribe(m.feed.push)
}

// Init starts listening for dataset changes.
func (m Model) Init() tea.Cmd {
	return waitForDatasets(m.ctx, m.feed)
}

// State returns the current screen.
func (m Model) State() State {
	return m.state
}

// Result returns the last analysis result shown, if any.
func (m Model) Result() *analysis.Result {
	return m.result
}

func (m Model) currentDataset() (model.Dataset, bool) {
	if m.cursor < 0 || m.cursor >= len(m.datasets) {
		return model.Dataset{}, false
	}
	return m.datasets[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.datasets) {
		m.cursor = len(m.datasets) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
