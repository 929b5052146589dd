package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/tandem-analyzer/internal/kv"
)

// ResultKey is the backend key holding the latest analysis result.
const ResultKey = "tandem_analyzer_results"

// ResultStore keeps the most recent analysis result, in memory and in a
// backend, so it can be shown or exported after the run.
type ResultStore struct {
	backend kv.Backend
	latest  *Result
	mu      sync.RWMutex
}

// NewResultStore creates a result store on backend.
func NewResultStore(backend kv.Backend) *ResultStore {
	return &ResultStore{backend: backend}
}

// Save records result as the latest one. Backend failures are logged and
// the result is still kept in memory.
func (s *ResultStore) Save(ctx context.Context, result *Result) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	resultCopy, err := deepCopyResult(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.latest = resultCopy
	s.mu.Unlock()

	data, err := json.Marshal(resultCopy)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if err := s.backend.Set(ctx, ResultKey, string(data)); err != nil {
		slog.Warn("Failed to save analysis result", "key", ResultKey, "error", err)
	}
	return nil
}

// Latest returns the most recent result, reading the backend if nothing is
// in memory yet. Unreadable stored data is logged and reported as absent.
func (s *ResultStore) Latest(ctx context.Context) (*Result, bool) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		resultCopy, err := deepCopyResult(latest)
		if err != nil {
			slog.Warn("Failed to copy analysis result", "error", err)
			return nil, false
		}
		return resultCopy, true
	}

	raw, found, err := s.backend.Get(ctx, ResultKey)
	if err != nil {
		slog.Warn("Failed to load analysis result", "key", ResultKey, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		slog.Warn("Failed to load analysis result", "key", ResultKey, "error", err)
		return nil, false
	}

	s.mu.Lock()
	s.latest = &result
	s.mu.Unlock()

	resultCopy, err := deepCopyResult(&result)
	if err != nil {
		return nil, false
	}
	return resultCopy, true
}

// Clear forgets the latest result.
func (s *ResultStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.latest = nil
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, ResultKey); err != nil {
		slog.Warn("Failed to clear analysis result", "key", ResultKey, "error", err)
	}
}

// deepCopyResult copies result through JSON so callers cannot share slices.
func deepCopyResult(result *Result) (*Result, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result for copy: %w", err)
	}

	var resultCopy Result
	if err := json.Unmarshal(data, &resultCopy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result copy: %w", err)
	}
	return &resultCopy, nil
}
