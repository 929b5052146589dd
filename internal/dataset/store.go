// Package dataset owns the ordered collection of uploaded dataset records and
// mirrors it to the persistence backend chosen by the current settings.
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

// Backend keys for the dataset collection. Each storage type has its own
// key, so switching types shows a different collection.
const (
	PersistentKey = "tandem_analyzer_datasets"
	SessionKey    = "tandem_analyzer_datasets_session"
)

// maxIDAttempts bounds regeneration when a fresh ID collides with an existing one.
const maxIDAttempts = 16

// ErrMissingDependency is returned by NewStore when a backend or selector is nil.
var ErrMissingDependency = errors.New("missing dependency")

// Backends holds one backend per storage type.
type Backends struct {
	Persistent kv.Backend
	Session    kv.Backend
}

// StorageSelector reports which storage type is currently configured.
type StorageSelector interface {
	StorageType() model.StorageType
}

// Listener receives a snapshot of the collection after every change.
type Listener func([]model.Dataset)

// Option configures a Store.
type Option func(*Store)

// WithBuilder replaces the record builder used by Add.
func WithBuilder(b *Builder) Option {
	return func(s *Store) {
		s.builder = b
	}
}

// Store is the authoritative in-memory dataset collection. Every mutation is
// written through to the selected backend before the call returns.
// Persistence failures are logged and never returned; memory stays the
// source of truth for the rest of the process.
type Store struct {
	backends  Backends
	selector  StorageSelector
	builder   *Builder
	listeners map[int]Listener
	datasets  []model.Dataset
	nextID    int
	mu        sync.Mutex
	listenMu  sync.Mutex
}

// NewStore creates an empty store. Call Load to read the persisted collection.
func NewStore(backends Backends, selector StorageSelector, opts ...Option) (*Store, error) {
	if backends.Persistent == nil {
		return nil, fmt.Errorf("%w: persistent backend", ErrMissingDependency)
	}
	if backends.Session == nil {
		return nil, fmt.Errorf("%w: session backend", ErrMissingDependency)
	}
	if selector == nil {
		return nil, fmt.Errorf("%w: storage selector", ErrMissingDependency)
	}

	s := &Store{
		backends:  backends,
		selector:  selector,
		builder:   NewBuilder(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Add appends a dataset built from file and writes the collection through.
func (s *Store) Add(ctx context.Context, file model.FileInfo) (model.Dataset, error) {
	added, err := s.AddAll(ctx, []model.FileInfo{file})
	if err != nil {
		return model.Dataset{}, err
	}
	return added[0], nil
}

// AddAll appends one dataset per file in order with a single write-through.
// If any file is invalid nothing is added.
func (s *Store) AddAll(ctx context.Context, files []model.FileInfo) ([]model.Dataset, error) {
	if len(files) == 0 {
		return nil, nil
	}

	s.mu.Lock()

	ids := make(map[string]struct{}, len(s.datasets)+len(files))
	for _, d := range s.datasets {
		ids[d.ID] = struct{}{}
	}

	added := make([]model.Dataset, 0, len(files))
	for _, file := range files {
		d, err := s.builder.Build(file)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}

		for attempt := 1; hasID(ids, d.ID); attempt++ {
			if attempt >= maxIDAttempts {
				s.mu.Unlock()
				return nil, fmt.Errorf("failed to generate a unique id for %q", file.Name)
			}
			d.ID = s.builder.NewID()
		}

		ids[d.ID] = struct{}{}
		added = append(added, d)
	}

	s.datasets = append(s.datasets, added...)
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	common.LogDebug(ctx, "Added datasets", common.Fields{"count": len(added), "total": len(snapshot)})
	s.notify(snapshot)
	return added, nil
}

func hasID(ids map[string]struct{}, id string) bool {
	_, ok := ids[id]
	return ok
}

// Remove deletes the dataset with id. Removing an unknown id does nothing.
// Callers confirm with the user before calling.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	s.datasets = slices.Delete(s.datasets, idx, idx+1)
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// ToggleSelection flips the selected flag of one dataset and returns its new value.
func (s *Store) ToggleSelection(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()

	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", common.ErrDatasetNotFound, id)
	}

	s.datasets[idx].Selected = !s.datasets[idx].Selected
	selected := s.datasets[idx].Selected
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return selected, nil
}

// SetAllSelected is the all-or-nothing switch: when every dataset is selected
// it deselects them all, otherwise it selects them all. It returns whether the
// datasets are selected afterwards. An empty collection is left alone.
func (s *Store) SetAllSelected(ctx context.Context) bool {
	s.mu.Lock()

	if len(s.datasets) == 0 {
		s.mu.Unlock()
		return false
	}

	allSelected := true
	for _, d := range s.datasets {
		if !d.Selected {
			allSelected = false
			break
		}
	}

	for i := range s.datasets {
		s.datasets[i].Selected = !allSelected
	}
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return !allSelected
}

// Selected returns the selected datasets in collection order.
func (s *Store) Selected() []model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]model.Dataset, 0, len(s.datasets))
	for _, d := range s.datasets {
		if d.Selected {
			selected = append(selected, d)
		}
	}
	return selected
}

// List returns every dataset in collection order.
func (s *Store) List() []model.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.datasets)
}

// Get returns the dataset with id.
func (s *Store) Get(id string) (model.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Dataset{}, false
	}
	return s.datasets[idx], true
}

// Len returns the number of datasets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.datasets)
}

// Clear removes every dataset and persists the empty collection.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.datasets = nil
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// SeedSamples installs the demo datasets when the collection is empty.
// It reports whether anything was added.
func (s *Store) SeedSamples(ctx context.Context) bool {
	s.mu.Lock()

	if len(s.datasets) > 0 {
		s.mu.Unlock()
		return false
	}

	s.datasets = SampleDatasets()
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// Load replaces the in-memory collection with the one stored for the current
// storage type. A missing key loads an empty collection. Unreadable data is
// logged and the in-memory collection is kept.
func (s *Store) Load(ctx context.Context) {
	backend, key := s.target()

	raw, found, err := backend.Get(ctx, key)
	if err != nil {
		common.LogWarn(ctx, err, "Failed to load datasets", common.Fields{"key": key})
		return
	}

	var loaded []model.Dataset
	if found {
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			common.LogWarn(ctx, err, "Failed to load datasets", common.Fields{"key": key})
			return
		}
	}

	s.mu.Lock()
	s.datasets = loaded
	snapshot := slices.Clone(s.datasets)
	s.mu.Unlock()

	common.LogDebug(ctx, "Loaded datasets", common.Fields{"key": key, "count": len(snapshot)})
	s.notify(snapshot)
}

// Save writes the whole collection to the current backend. Failures are
// logged, not returned.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
}

// Subscribe registers fn to receive the collection after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listenMu.Lock()
	defer s.listenMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.listenMu.Lock()
		defer s.listenMu.Unlock()
		delete(s.listeners, id)
	}
}

// persistLocked writes the collection and returns a snapshot of it.
// s.mu must be held.
func (s *Store) persistLocked(ctx context.Context) []model.Dataset {
	snapshot := slices.Clone(s.datasets)
	if snapshot == nil {
		snapshot = []model.Dataset{}
	}

	backend, key := s.target()

	data, err := json.Marshal(snapshot)
	if err != nil {
		common.LogWarn(ctx, err, "Failed to encode datasets", nil)
		return snapshot
	}

	if err := backend.Set(ctx, key, string(data)); err != nil {
		common.LogWarn(ctx, err, "Failed to save datasets", common.Fields{"key": key, "count": len(snapshot)})
	}
	return snapshot
}

// target picks the backend and key for the configured storage type.
// Unknown types fall back to the persistent backend.
func (s *Store) target() (kv.Backend, string) {
	if s.selector.StorageType() == model.StorageTypeSession {
		return s.backends.Session, SessionKey
	}
	return s.backends.Persistent, PersistentKey
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.datasets, func(d model.Dataset) bool {
		return d.ID == id
	})
}

func (s *Store) notify(snapshot []model.Dataset) {
	s.listenMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenMu.Unlock()

	for _, fn := range listeners {
		fn(slices.Clone(snapshot))
	}
}
