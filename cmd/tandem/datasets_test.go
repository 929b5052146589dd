package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tandem-analyzer/internal/testutil"
)

func TestUploadCommand(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)
	dir := t.TempDir()

	res, err := executeCommand(t, "", "upload",
		writeExport(t, dir, "pump.csv", 2048),
		writeExport(t, dir, "cgm.json", 10),
	)
	require.NoError(t, err)

	list := app.App.Datasets().List()
	require.Len(t, list, 2)
	assert.Equal(t, "pump.csv", list[0].Name)
	assert.Equal(t, "2 KB", list[0].FileSize)
	assert.Equal(t, "cgm.json", list[1].Name)
	assert.Equal(t, "10 Bytes", list[1].FileSize)
	assert.Contains(t, res.stdout, "Uploaded pump.csv")
	assert.Contains(t, res.stdout, "Uploaded cgm.json")
	assert.NotContains(t, res.stdout, "Analysis Results")
}

func TestUploadCommand_MissingFile(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	_, err := executeCommand(t, "", "upload", t.TempDir()+"/missing.csv")
	require.Error(t, err)
	assert.Equal(t, 0, app.App.Datasets().Len())
}

func TestUploadCommand_AutoAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("analyzes the selection", func(t *testing.T) {
		app := testutil.SetupTestApp(t)
		useTestApp(t, app)
		app.MustAdd("earlier.csv")
		require.True(t, app.App.Datasets().SetAllSelected(ctx))
		app.App.Settings().SetAutoAnalysis(ctx, true)

		res, err := executeCommand(t, "", "upload", writeExport(t, t.TempDir(), "pump.csv", 100))
		require.NoError(t, err)
		assert.Contains(t, res.stdout, "Analysis Results")

		_, ok := app.App.Results().Latest(ctx)
		assert.True(t, ok)
	})

	t.Run("nothing selected", func(t *testing.T) {
		app := testutil.SetupTestApp(t)
		useTestApp(t, app)
		app.App.Settings().SetAutoAnalysis(ctx, true)

		res, err := executeCommand(t, "", "upload", writeExport(t, t.TempDir(), "pump.csv", 100))
		require.NoError(t, err)
		assert.Contains(t, res.stdout, "Please select at least one dataset to analyze.")
		assert.Equal(t, 1, app.App.Datasets().Len())

		_, ok := app.App.Results().Latest(ctx)
		assert.False(t, ok)
	})
}

func TestListCommand(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	res, err := executeCommand(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "No datasets uploaded yet")

	added := app.MustAdd("a.csv", "b.csv")
	_, err = app.App.Datasets().ToggleSelection(context.Background(), added[1].ID)
	require.NoError(t, err)

	res, err = executeCommand(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "1 of 2 selected")
	assert.Contains(t, res.stdout, "[ ] a.csv")
	assert.Contains(t, res.stdout, "[x] b.csv")
	assert.Contains(t, res.stdout, added[0].ID)
}

func TestSelectCommand(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)
	added := app.MustAdd("a.csv", "b.csv")

	res, err := executeCommand(t, "", "select", added[0].ID)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "a.csv selected")
	assert.True(t, app.App.Datasets().List()[0].Selected)

	res, err = executeCommand(t, "", "select", added[0].ID)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "a.csv deselected")
	assert.Empty(t, app.App.Datasets().Selected())

	_, err = executeCommand(t, "", "select", "dataset_unknown")
	require.Error(t, err)
}

func TestSelectAllCommand(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	res, err := executeCommand(t, "", "select-all")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "No datasets to select.")

	added := app.MustAdd("a.csv", "b.csv")
	_, err = app.App.Datasets().ToggleSelection(context.Background(), added[0].ID)
	require.NoError(t, err)

	res, err = executeCommand(t, "", "select-all")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "All datasets selected")
	assert.Len(t, app.App.Datasets().Selected(), 2)

	res, err = executeCommand(t, "", "select-all")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "All datasets deselected")
	assert.Empty(t, app.App.Datasets().Selected())
}

func TestRemoveCommand(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		args      []string
		wantCount int
		wantOut   string
	}{
		{name: "confirmed", input: "y\n", wantCount: 1, wantOut: "Removed a.csv"},
		{name: "declined", input: "n\n", wantCount: 2, wantOut: "Remove canceled."},
		{name: "no answer", input: "", wantCount: 2, wantOut: "Remove canceled."},
		{name: "forced", args: []string{"--force"}, wantCount: 1, wantOut: "Removed a.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.SetupTestApp(t)
			useTestApp(t, app)
			added := app.MustAdd("a.csv", "b.csv")

			args := append([]string{"remove", added[0].ID}, tt.args...)
			res, err := executeCommand(t, tt.input, args...)
			require.NoError(t, err)
			assert.Contains(t, res.stdout, tt.wantOut)
			assert.Equal(t, tt.wantCount, app.App.Datasets().Len())
		})
	}
}

func TestRemoveCommand_UnknownID(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)
	app.MustAdd("a.csv")

	res, err := executeCommand(t, "y\n", "remove", "dataset_unknown")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Nothing to remove.")
	assert.Equal(t, 1, app.App.Datasets().Len())
}

func TestClearCommand(t *testing.T) {
	ctx := context.Background()
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	res, err := executeCommand(t, "", "clear")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Nothing to clear.")

	app.MustAdd("a.csv", "b.csv")
	require.True(t, app.App.Datasets().SetAllSelected(ctx))
	_, err = app.App.Analyze(ctx, nil)
	require.NoError(t, err)

	res, err = executeCommand(t, "no\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "This will delete 2 datasets.")
	assert.Contains(t, res.stdout, "Clear canceled.")
	assert.Equal(t, 2, app.App.Datasets().Len())

	res, err = executeCommand(t, "yes\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Cleared 2 datasets")
	assert.Equal(t, 0, app.App.Datasets().Len())
	_, ok := app.App.Results().Latest(ctx)
	assert.False(t, ok)
}
