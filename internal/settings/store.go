// Package settings owns the process-wide Settings record and keeps it in
// sync with the durable backend.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// Key is the fixed backend key for the settings blob.
const Key = "tandem_analyzer_settings"

// Store holds the current settings and writes every change through to its backend.
type Store struct {
	backend  kv.Backend
	settings model.Settings
	mu       sync.RWMutex
}

// NewStore creates a settings store with default values. Call Load to read
// what was previously saved.
func NewStore(backend kv.Backend) *Store {
	return &Store{
		backend:  backend,
		settings: model.DefaultSettings(),
	}
}

// Load merges the stored settings over the current values. A missing key
// leaves the current values untouched; unreadable data is logged and ignored.
func (s *Store) Load(ctx context.Context) {
	raw, found, err := s.backend.Get(ctx, Key)
	if err != nil {
		common.LogWarn(ctx, err, "Failed to load settings", common.Fields{"key": Key})
		return
	}
	if !found {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Unmarshal onto a copy so fields absent from the blob keep their value.
	merged := s.settings
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		common.LogWarn(ctx, err, "Failed to load settings", common.Fields{"key": Key})
		return
	}
	if err := merged.Validate(); err != nil {
		common.LogWarn(ctx, err, "Ignoring stored storage type", common.Fields{"key": Key})
		merged.StorageType = s.settings.StorageType
	}

	s.settings = merged
}

// Save writes the current settings to the backend. Failures are logged, not returned.
func (s *Store) Save(ctx context.Context) {
	s.mu.RLock()
	data, err := json.Marshal(s.settings)
	s.mu.RUnlock()
	if err != nil {
		common.LogWarn(ctx, err, "Failed to encode settings", nil)
		return
	}

	if err := s.backend.Set(ctx, Key, string(data)); err != nil {
		common.LogWarn(ctx, err, "Failed to save settings", common.Fields{"key": Key})
	}
}

// Get returns a copy of the current settings.
func (s *Store) Get() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// StorageType returns the configured dataset backend.
func (s *Store) StorageType() model.StorageType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.StorageType
}

// SetAPIToken stores an opaque API token. Blank tokens are rejected.
func (s *Store) SetAPIToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.NewUserError("Please enter a valid API token.", common.ErrEmptyToken)
	}

	s.update(ctx, func(settings *model.Settings) {
		settings.APIToken = token
	})
	return nil
}

// SetStorageType switches the dataset backend. Existing datasets are not
// copied; the other backend's collection becomes visible on the next load.
func (s *Store) SetStorageType(ctx context.Context, storageType model.StorageType) error {
	if !storageType.IsValid() {
		return common.NewUserError(
			fmt.Sprintf("Storage type must be %q or %q.", model.StorageTypePersistent, model.StorageTypeSession),
			fmt.Errorf("%w: %q", common.ErrInvalidStorageType, storageType),
		)
	}

	s.update(ctx, func(settings *model.Settings) {
		settings.StorageType = storageType
	})
	return nil
}

// SetNotifications turns completion notifications on or off.
func (s *Store) SetNotifications(ctx context.Context, enabled bool) {
	s.update(ctx, func(settings *model.Settings) {
		settings.EnableNotifications = enabled
	})
}

// SetAutoAnalysis turns analysis-after-upload on or off.
func (s *Store) SetAutoAnalysis(ctx context.Context, enabled bool) {
	s.update(ctx, func(settings *model.Settings) {
		settings.AutoAnalysis = enabled
	})
}

func (s *Store) update(ctx context.Context, fn func(*model.Settings)) {
	s.mu.Lock()
	fn(&s.settings)
	s.mu.Unlock()

	s.Save(ctx)
}
