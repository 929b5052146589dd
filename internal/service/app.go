package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/dataset"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/settings"
)

// Config holds what App needs at startup.
type Config struct {
	// Persistent is the durable backend. It also holds settings and results.
	Persistent kv.Backend
	// Session is the session-scoped backend.
	Session kv.Backend
	// Engine runs analyses. Defaults to a MockEngine.
	Engine analysis.Engine
	// SeedSamples installs the demo datasets when the collection is empty.
	SeedSamples bool
	// DatasetOptions are passed to the dataset store.
	DatasetOptions []dataset.Option
}

// App is constructed once at startup and handed to every user interface.
type App struct {
	settings   *settings.Store
	datasets   *dataset.Store
	results    *analysis.ResultStore
	engine     analysis.Engine
	persistent kv.Backend
	session    kv.Backend
}

// UploadOutcome reports what an upload did.
type UploadOutcome struct {
	// Analysis is set when auto-analysis ran.
	Analysis *analysis.Result
	// AnalysisErr is set when auto-analysis was attempted and failed.
	AnalysisErr error
	Added       []model.Dataset
}

// NewApp loads settings, then the dataset collection for the configured
// storage type, and seeds demo data if asked.
func NewApp(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Persistent == nil || cfg.Session == nil {
		return nil, fmt.Errorf("%w: both persistent and session backends are required", dataset.ErrMissingDependency)
	}
	if cfg.Engine == nil {
		cfg.Engine = analysis.NewMockEngine()
	}

	settingsStore := settings.NewStore(cfg.Persistent)
	settingsStore.Load(ctx)

	datasets, err := dataset.NewStore(
		dataset.Backends{Persistent: cfg.Persistent, Session: cfg.Session},
		settingsStore,
		cfg.DatasetOptions...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset store: %w", err)
	}
	datasets.Load(ctx)

	if cfg.SeedSamples && datasets.SeedSamples(ctx) {
		slog.Debug("Seeded sample datasets")
	}

	return &App{
		settings:   settingsStore,
		datasets:   datasets,
		results:    analysis.NewResultStore(cfg.Persistent),
		engine:     cfg.Engine,
		persistent: cfg.Persistent,
		session:    cfg.Session,
	}, nil
}

// Datasets returns the dataset store.
func (a *App) Datasets() DatasetStore {
	return a.datasets
}

// Settings returns the settings store.
func (a *App) Settings() SettingsStore {
	return a.settings
}

// Results returns the latest-result store.
func (a *App) Results() ResultStore {
	return a.results
}

// Upload adds one dataset per file. When auto-analysis is on and the
// collection is not empty, the current selection is analyzed right away.
func (a *App) Upload(ctx context.Context, files []model.FileInfo, progress analysis.ProgressFunc) (UploadOutcome, error) {
	added, err := a.datasets.AddAll(ctx, files)
	if err != nil {
		return UploadOutcome{}, err
	}

	outcome := UploadOutcome{Added: added}
	if !a.settings.Get().AutoAnalysis || a.datasets.Len() == 0 {
		return outcome, nil
	}

	outcome.Analysis, outcome.AnalysisErr = a.Analyze(ctx, progress)
	return outcome, nil
}

// Analyze runs the engine on the selected datasets and keeps the result.
// With nothing selected it fails validation and changes nothing.
func (a *App) Analyze(ctx context.Context, progress analysis.ProgressFunc) (*analysis.Result, error) {
	result, err := a.engine.Analyze(ctx, a.datasets.Selected(), progress)
	if err != nil {
		return nil, err
	}

	if err := a.results.Save(ctx, result); err != nil {
		slog.Warn("Failed to keep analysis result", "error", err)
	}
	return result, nil
}

// SetStorageType switches the dataset backend and loads its collection.
// Datasets are not copied between backends.
func (a *App) SetStorageType(ctx context.Context, storageType model.StorageType) error {
	if err := a.settings.SetStorageType(ctx, storageType); err != nil {
		return err
	}
	a.datasets.Load(ctx)
	return nil
}

// ClearAll removes every dataset and the latest analysis result.
func (a *App) ClearAll(ctx context.Context) {
	a.datasets.Clear(ctx)
	a.results.Clear(ctx)
}

// Close closes both backends.
func (a *App) Close() error {
	return errors.Join(a.persistent.Close(), a.session.Close())
}
