package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/service"
	"github.com/Veraticus/tandem-analyzer/internal/testutil"
)

func TestResultsCommand_NoResult(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	res, err := executeCommand(t, "", "results")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "No analysis results yet")
	assert.NotContains(t, res.stdout, "Analysis Results")
}

func TestResultsCommand_ShowsLastAnalysis(t *testing.T) {
	setupSelected(t, "a.csv", "b.csv")

	_, err := executeCommand(t, "", "analyze", "--output", "json")
	require.NoError(t, err)

	res, err := executeCommand(t, "", "results")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Last analysis")
	assert.Contains(t, res.stdout, "Analysis Results")
	assert.NotContains(t, res.stdout, analysis.StagePreparation.Label())
	assert.Empty(t, res.stderr)
}

func TestResultsCommand_ReadsStoredResult(t *testing.T) {
	ctx := context.Background()
	first := testutil.SetupTestApp(t)
	first.MustAdd("a.csv")
	require.True(t, first.App.Datasets().SetAllSelected(ctx))
	want, err := first.App.Analyze(ctx, nil)
	require.NoError(t, err)

	// A fresh App over the same backends only has the stored copy.
	reopened, err := service.NewApp(ctx, service.Config{
		Persistent: first.Persistent,
		Session:    first.Session,
		Engine:     testutil.FastEngine(),
	})
	require.NoError(t, err)
	useTestApp(t, &testutil.TestApp{App: reopened})

	res, err := executeCommand(t, "", "results", "--output", "json")
	require.NoError(t, err)

	var got analysis.Result
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, want.DatasetIDs, got.DatasetIDs)
	assert.Equal(t, want.SummaryStats, got.SummaryStats)
}

func TestResultsCommand_Export(t *testing.T) {
	app := setupSelected(t, "a.csv")
	_, err := app.App.Analyze(context.Background(), nil)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "last.yml")

	res, err := executeCommand(t, "", "results", "--export", path)
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "Exported results to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var result analysis.Result
	require.NoError(t, yaml.Unmarshal(data, &result))
	assert.Len(t, result.DatasetIDs, 1)
}

func TestResultsCommand_InvalidOutput(t *testing.T) {
	app := testutil.SetupTestApp(t)
	useTestApp(t, app)

	_, err := executeCommand(t, "", "results", "--output", "xml")
	require.Error(t, err)
}
