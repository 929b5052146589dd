package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/cli"
	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/config"
	"github.com/Veraticus/tandem-analyzer/internal/kv"
	"github.com/Veraticus/tandem-analyzer/internal/service"
)

// openApp opens the configured backends and loads the application state.
// Tests replace it to share one in-memory App across commands.
var openApp = func(ctx context.Context) (*service.App, func(), error) {
	v := viper.GetViper()

	var durable kv.Backend
	dbPath := config.DatabasePath(v)
	db, err := openDatabase(ctx, dbPath)
	if err != nil {
		// Storage being unavailable is not fatal; keep going in memory.
		slog.Warn("Failed to open database, continuing without persistence", "path", dbPath, "error", err)
		durable = kv.NewMemoryBackend()
	} else {
		durable = db
	}

	session := kv.NewMemoryBackend(kv.WithQuota(v.GetInt(config.KeySessionQuota)))
	return assembleApp(ctx, v, durable, session)
}

// openDatabase opens the SQLite backend, retrying while another process
// holds the database. Path problems fail on the first attempt.
func openDatabase(ctx context.Context, dbPath string) (*kv.SQLiteBackend, error) {
	var db *kv.SQLiteBackend
	err := common.WithRetry(ctx, func() error {
		var openErr error
		db, openErr = kv.NewSQLiteBackend(ctx, dbPath)
		if isPathError(openErr) {
			return common.Permanent(openErr)
		}
		return openErr
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func isPathError(err error) bool {
	return errors.Is(err, kv.ErrInvalidBackend) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOTDIR)
}

// assembleApp builds the App over already opened backends. The backends are
// closed again if the App cannot be built.
func assembleApp(ctx context.Context, v *viper.Viper, durable, session kv.Backend) (*service.App, func(), error) {
	app, err := service.NewApp(ctx, service.Config{
		Persistent:  durable,
		Session:     session,
		Engine:      newEngine(v),
		SeedSamples: v.GetBool(config.KeySeedSamples),
	})
	if err != nil {
		closeBackends(durable, session)
		return nil, nil, err
	}

	cleanup := func() {
		if closeErr := app.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}
	return app, cleanup, nil
}

func closeBackends(backends ...kv.Backend) {
	for _, b := range backends {
		if b == nil {
			continue
		}
		if err := b.Close(); err != nil {
			slog.Error("Failed to close storage", "error", err)
		}
	}
}

func newEngine(v *viper.Viper) *analysis.MockEngine {
	stages := analysis.DefaultStages()
	return analysis.NewMockEngine(analysis.WithStageDurations(
		config.ScaleDuration(v, stages[0].Duration),
		config.ScaleDuration(v, stages[1].Duration),
		config.ScaleDuration(v, stages[2].Duration),
	))
}

func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// reportValidation shows validation failures as a notice and swallows
// them. Any other error is returned unchanged.
func reportValidation(p *cli.Prompter, err error) error {
	if err == nil || !common.IsValidationError(err) {
		return err
	}
	if notifyErr := p.Notify(common.UserMessage(err)); notifyErr != nil {
		slog.Error("failed to write output", "error", notifyErr)
	}
	return nil
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}

func writeLine(w io.Writer, line string) {
	if _, err := fmt.Fprintln(w, line); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}

// withApp opens the App, runs fn and closes it again.
func withApp(cmd *cobra.Command, fn func(*service.App) error) error {
	app, cleanup, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(app)
}
