// Package testutil provides shared fixtures for tests that need a fully
// wired application.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/service"
)

// TestApp bundles an App with the backends behind it.
type TestApp struct {
	App        *service.App
	Persistent *kv.SQLiteBackend
	Session    *kv.MemoryBackend
	t          *testing.T
}

// TestAppOptions configures SetupTestAppWithOptions.
type TestAppOptions struct {
	// CustomSetup runs against the persistent backend before the App loads.
	CustomSetup  func(context.Context, kv.Backend) error
	Engine       analysis.Engine
	SessionQuota int
	SeedSamples  bool
}

// FastEngine returns a mock engine whose stages finish in milliseconds.
func FastEngine() *analysis.MockEngine {
	return analysis.NewMockEngine(
		analysis.WithStageDurations(2*time.Millisecond, 3*time.Millisecond, time.Millisecond),
		analysis.WithTickInterval(time.Millisecond),
	)
}

// SetupTestApp creates an App on an in-memory SQLite database with a fast
// engine and no sample data.
//
// Example:
//
//	app := testutil.SetupTestApp(t)
//	app.App.Datasets().AddAll(ctx, testutil.Files("a.csv"))
func SetupTestApp(t *testing.T) *TestApp {
	t.Helper()
	return SetupTestAppWithOptions(t, TestAppOptions{})
}

// SetupTestAppWithOptions creates an App with custom options.
func SetupTestAppWithOptions(t *testing.T, opts TestAppOptions) *TestApp {
	t.Helper()
	ctx := context.Background()

	persistent, err := kv.NewSQLiteBackend(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	var sessionOpts []kv.MemoryOption
	if opts.SessionQuota > 0 {
		sessionOpts = append(sessionOpts, kv.WithQuota(opts.SessionQuota))
	}
	session := kv.NewMemoryBackend(sessionOpts...)

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, persistent); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	engine := opts.Engine
	if engine == nil {
		engine = FastEngine()
	}

	app, err := service.NewApp(ctx, service.Config{
		Persistent:  persistent,
		Session:     session,
		Engine:      engine,
		SeedSamples: opts.SeedSamples,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		_ = app.Close()
	})

	return &TestApp{
		App:        app,
		Persistent: persistent,
		Session:    session,
		t:          t,
	}
}

// Files builds one FileInfo of 1 KiB per name.
func Files(names ...string) []model.FileInfo {
	files := make([]model.FileInfo, 0, len(names))
	for _, name := range names {
		files = append(files, model.FileInfo{Name: name, Size: 1024})
	}
	return files
}

// MustAdd uploads files into the test app or fails the test.
func (a *TestApp) MustAdd(names ...string) []model.Dataset {
	a.t.Helper()
	added, err := a.App.Datasets().AddAll(context.Background(), Files(names...))
	if err != nil {
		a.t.Fatalf("failed to add datasets: %v", err)
	}
	return added
}
