// Package service wires the dataset, settings and analysis components into
// the operations the user interfaces call.
package service

import (
	"context"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/dataset"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/settings"
)

// DatasetStore is the dataset collection as seen by the user interfaces.
type DatasetStore interface {
	AddAll(ctx context.Context, files []model.FileInfo) ([]model.Dataset, error)
	Remove(ctx context.Context, id string)
	ToggleSelection(ctx context.Context, id string) (bool, error)
	SetAllSelected(ctx context.Context) bool
	Selected() []model.Dataset
	List() []model.Dataset
	Get(id string) (model.Dataset, bool)
	Len() int
	Clear(ctx context.Context)
	Load(ctx context.Context)
	SeedSamples(ctx context.Context) bool
	Subscribe(fn dataset.Listener) (unsubscribe func())
}

// SettingsStore is the settings record as seen by the user interfaces.
// Switching the storage type goes through App.SetStorageType, which also
// reloads the dataset collection.
type SettingsStore interface {
	Get() model.Settings
	StorageType() model.StorageType
	SetAPIToken(ctx context.Context, token string) error
	SetNotifications(ctx context.Context, enabled bool)
	SetAutoAnalysis(ctx context.Context, enabled bool)
}

// ResultStore keeps the latest analysis result.
type ResultStore interface {
	Save(ctx context.Context, result *analysis.Result) error
	Latest(ctx context.Context) (*analysis.Result, bool)
	Clear(ctx context.Context)
}

var (
	_ DatasetStore  = (*dataset.Store)(nil)
	_ SettingsStore = (*settings.Store)(nil)
	_ ResultStore   = (*analysis.ResultStore)(nil)
)
