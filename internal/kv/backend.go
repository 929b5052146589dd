// Package kv provides the key-value persistence backends that hold settings
// and dataset collections as JSON blobs.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyKey       = errors.New("key cannot be empty")
	ErrBackendClosed  = errors.New("backend is closed")
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrInvalidBackend = errors.New("invalid backend")
)

// Backend is a string key-value store. A missing key is reported through
// found rather than an error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

func validateRequest(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return fmt.Errorf("%w: %q", err, key)
	}
	return nil
}
