package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/testutil"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var (
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
)

func newTestModel(t *testing.T, names ...string) (Model, *testutil.TestApp) {
	t.Helper()
	app := testutil.SetupTestApp(t)
	if len(names) > 0 {
		app.MustAdd(names...)
	}

	m := New(context.Background(), app.App, WithSize(100, 30))
	unsubscribe := m.Subscribe()
	t.Cleanup(unsubscribe)
	return m, app
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

// syncDatasets delivers the pending dataset snapshot to m.
func syncDatasets(t *testing.T, m Model) Model {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	datasets, ok := m.feed.next(ctx)
	require.True(t, ok, "expected a dataset snapshot")
	updated, _ := m.Update(datasetsChangedMsg{datasets: datasets})
	return updated.(Model)
}

// drainRun feeds background run messages back into m until the run ends.
func drainRun(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for m.state == StateAnalyzing {
		select {
		case <-deadline:
			t.Fatal("run did not finish")
		default:
		}
		require.NotNil(t, cmd)
		msg := cmd()
		if msg == nil {
			break
		}
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestModel_StartsWithStoreContents(t *testing.T) {
	m, _ := newTestModel(t, "a.csv", "b.csv")

	assert.Equal(t, StateList, m.State())
	require.Len(t, m.datasets, 2)
	assert.Contains(t, m.View(), "a.csv")
	assert.Contains(t, m.View(), "0 of 2 datasets selected")
}

func TestModel_ToggleSelection(t *testing.T) {
	m, app := newTestModel(t, "a.csv", "b.csv")

	m, _ = press(t, m, downKey)
	m, _ = press(t, m, spaceKey)
	m = syncDatasets(t, m)

	selected := app.App.Datasets().Selected()
	require.Len(t, selected, 1)
	assert.Equal(t, "b.csv", selected[0].Name)
	assert.True(t, m.datasets[1].Selected)
	assert.Contains(t, m.View(), "1 of 2 datasets selected")
}

func TestModel_SelectAllToggles(t *testing.T) {
	m, app := newTestModel(t, "a.csv", "b.csv")

	m, _ = press(t, m, runeKey('a'))
	m = syncDatasets(t, m)
	assert.Len(t, app.App.Datasets().Selected(), 2)

	m, _ = press(t, m, runeKey('a'))
	m = syncDatasets(t, m)
	assert.Empty(t, app.App.Datasets().Selected())
	assert.Equal(t, "All datasets deselected", m.notice.text)
}

func TestModel_SelectAllOnEmptyCollection(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = press(t, m, runeKey('a'))
	assert.Equal(t, 0, app.App.Datasets().Len())
	assert.Equal(t, StateList, m.State())
	assert.Empty(t, m.notice.text)
}

func TestModel_DeleteRequiresConfirmation(t *testing.T) {
	tests := []struct {
		name      string
		answer    tea.KeyMsg
		wantCount int
	}{
		{name: "confirmed", answer: runeKey('y'), wantCount: 1},
		{name: "declined", answer: runeKey('n'), wantCount: 2},
		{name: "escaped", answer: escKey, wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, app := newTestModel(t, "a.csv", "b.csv")

			m, _ = press(t, m, runeKey('d'))
			require.Equal(t, StateConfirmDelete, m.State())
			assert.Contains(t, m.View(), "Are you sure you want to delete this dataset?")
			assert.Equal(t, 2, app.App.Datasets().Len())

			m, _ = press(t, m, tt.answer)
			assert.Equal(t, StateList, m.State())
			assert.Equal(t, tt.wantCount, app.App.Datasets().Len())
		})
	}
}

func TestModel_AnalyzeWithoutSelection(t *testing.T) {
	m, app := newTestModel(t, "a.csv")

	m, cmd := press(t, m, enterKey)
	assert.Nil(t, cmd)
	assert.Equal(t, StateList, m.State())
	assert.Equal(t, noticeWarning, m.notice.level)
	assert.Equal(t, "Please select at least one dataset to analyze.", m.notice.text)

	_, ok := app.App.Results().Latest(context.Background())
	assert.False(t, ok)
}

func TestModel_AnalyzeShowsResults(t *testing.T) {
	m, app := newTestModel(t, "a.csv", "b.csv")
	app.App.Settings().SetNotifications(context.Background(), true)

	m, _ = press(t, m, spaceKey)
	m = syncDatasets(t, m)

	m, cmd := press(t, m, enterKey)
	require.Equal(t, StateAnalyzing, m.State())
	assert.Contains(t, m.View(), analysis.StagePreparation.Label())

	m = drainRun(t, m, cmd)

	require.Equal(t, StateResults, m.State())
	require.NotNil(t, m.Result())
	assert.Equal(t, []string{app.App.Datasets().List()[0].ID}, m.Result().DatasetIDs)
	assert.Equal(t, completionNotice, m.notice.text)
	assert.Contains(t, m.View(), "Analysis Results")

	m, _ = press(t, m, escKey)
	assert.Equal(t, StateList, m.State())
}

func TestModel_EscDoesNotStopAnalysis(t *testing.T) {
	m, app := newTestModel(t, "a.csv")
	require.True(t, app.App.Datasets().SetAllSelected(context.Background()))
	m = syncDatasets(t, m)

	m, cmd := press(t, m, enterKey)
	require.Equal(t, StateAnalyzing, m.State())

	m, escCmd := press(t, m, escKey)
	assert.Nil(t, escCmd)
	assert.Equal(t, StateAnalyzing, m.State())
	assert.NotContains(t, m.View(), "Esc")

	m = drainRun(t, m, cmd)

	require.Equal(t, StateResults, m.State())
	require.NotNil(t, m.Result())
	assert.Equal(t, []string{app.App.Datasets().List()[0].ID}, m.Result().DatasetIDs)
}

func TestModel_QuitStopsRun(t *testing.T) {
	m, _ := newTestModel(t, "a.csv")

	m, cmd := press(t, m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_UploadFlow(t *testing.T) {
	m, app := newTestModel(t)
	path := t.TempDir() + "/pump.csv"
	require.NoError(t, writeFile(path, 1536))

	m, _ = press(t, m, runeKey('u'))
	require.Equal(t, StateUpload, m.State())

	m.input.SetValue(path)
	m, cmd := press(t, m, enterKey)
	require.Equal(t, StateAnalyzing, m.State())
	m = drainRun(t, m, cmd)
	m = syncDatasets(t, m)

	assert.Equal(t, StateList, m.State())
	require.Equal(t, 1, app.App.Datasets().Len())
	assert.Equal(t, "pump.csv", app.App.Datasets().List()[0].Name)
	assert.Equal(t, "1.5 KB", app.App.Datasets().List()[0].FileSize)
	assert.Equal(t, "Uploaded 1 dataset", m.notice.text)
	assert.Contains(t, m.View(), "pump.csv")
}

func TestModel_UploadQuotedPaths(t *testing.T) {
	m, app := newTestModel(t)
	dir := t.TempDir()
	spaced := dir + "/pump export.csv"
	plain := dir + "/second.zip"
	require.NoError(t, writeFile(spaced, 2048))
	require.NoError(t, writeFile(plain, 10))

	m, _ = press(t, m, runeKey('u'))
	m.input.SetValue(`"` + spaced + `" ` + plain)
	m, cmd := press(t, m, enterKey)
	require.Equal(t, StateAnalyzing, m.State())
	m = drainRun(t, m, cmd)

	datasets := app.App.Datasets().List()
	require.Len(t, datasets, 2)
	assert.Equal(t, "pump export.csv", datasets[0].Name)
	assert.Equal(t, "second.zip", datasets[1].Name)
	assert.Equal(t, "Uploaded 2 datasets", m.notice.text)
}

func TestModel_UploadUnterminatedQuote(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = press(t, m, runeKey('u'))
	m.input.SetValue(`"never closed.csv`)
	m, cmd := press(t, m, enterKey)

	assert.Nil(t, cmd)
	assert.Equal(t, StateList, m.State())
	assert.Equal(t, noticeError, m.notice.level)
	assert.Equal(t, 0, app.App.Datasets().Len())
}

func TestModel_UploadMissingFile(t *testing.T) {
	m, app := newTestModel(t)

	m, _ = press(t, m, runeKey('u'))
	m.input.SetValue(t.TempDir() + "/missing.csv")
	m, cmd := press(t, m, enterKey)

	assert.Nil(t, cmd)
	assert.Equal(t, StateList, m.State())
	assert.Equal(t, noticeError, m.notice.level)
	assert.Equal(t, 0, app.App.Datasets().Len())
}

func TestModel_UploadTypingQDoesNotQuit(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(t, m, runeKey('u'))
	m, _ = press(t, m, runeKey('q'))
	assert.Equal(t, StateUpload, m.State())
	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.input.Value())
}

func TestModel_RemovedElsewhereLeavesConfirm(t *testing.T) {
	m, app := newTestModel(t, "a.csv")

	m, _ = press(t, m, runeKey('d'))
	require.Equal(t, StateConfirmDelete, m.State())

	app.App.Datasets().Remove(context.Background(), m.pendingDelete)
	m = syncDatasets(t, m)

	assert.Equal(t, StateList, m.State())
	assert.Empty(t, m.pendingDelete)
	assert.Equal(t, 0, m.cursor)
}
