package kv

import (
	"context"
	"fmt"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps values for the lifetime of the process. It backs the
// session-scoped dataset collection.
type MemoryBackend struct {
	values     map[string]string
	quotaBytes int
	usedBytes  int
	mu         sync.RWMutex
	closed     bool
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithQuota limits the total size of keys plus values. Zero means unlimited.
func WithQuota(bytes int) MemoryOption {
	return func(b *MemoryBackend) {
		b.quotaBytes = bytes
	}
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		values: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns the value stored under key.
func (b *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateRequest(ctx, key); err != nil {
		return "", false, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return "", false, ErrBackendClosed
	}

	value, ok := b.values[key]
	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (b *MemoryBackend) Set(ctx context.Context, key, value string) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBackendClosed
	}

	used := b.usedBytes
	if old, ok := b.values[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)

	if b.quotaBytes > 0 && used > b.quotaBytes {
		return fmt.Errorf("%w: setting %q needs %d of %d bytes", ErrQuotaExceeded, key, used, b.quotaBytes)
	}

	b.values[key] = value
	b.usedBytes = used
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	if err := validateRequest(ctx, key); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBackendClosed
	}

	if old, ok := b.values[key]; ok {
		b.usedBytes -= len(key) + len(old)
		delete(b.values, key)
	}
	return nil
}

// Close discards all values. Further calls fail with ErrBackendClosed.
func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.values = nil
	b.usedBytes = 0
	return nil
}

// UsedBytes returns the current size of stored keys plus values.
func (b *MemoryBackend) UsedBytes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.usedBytes
}
