package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tandem-analyzer/internal/analysis"
	"github.com/Veraticus/tandem-analyzer/internal/cli"
	"github.com/Veraticus/tandem-analyzer/internal/config"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

const outputSummary = "summary"

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the selected datasets",
		Long: `Run the analysis pipeline on every selected dataset: data preparation,
AI processing and results parsing.

Examples:
  tandem analyze                          # Print a summary
  tandem analyze --output json            # Print the result as JSON
  tandem analyze --export results.yaml    # Also write the result to a file`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().StringP("output", "o", outputSummary, "Output format (summary, json, yaml)")
	cmd.Flags().StringP("export", "e", "", "Also write the result to this file (.yaml/.yml for YAML, JSON otherwise)")

	_ = viper.BindPFlag("analysis.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("analysis.export", cmd.Flags().Lookup("export"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	output := viper.GetString("analysis.output")
	exportPath := viper.GetString("analysis.export")

	if err := validateOutput(output); err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := newPrompter(cmd)

	app, cleanup, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	handler := cli.NewInterruptHandler(out, "Analysis")
	ctx = handler.HandleInterrupts(ctx)

	selected := app.Datasets().Selected()
	if len(selected) > 0 && output == outputSummary {
		writeLine(out, cli.FormatTitle(fmt.Sprintf("Analyzing %d datasets (%s)", len(selected), analysis.CombinedDateRange(selected))))
	}

	var reporter analysis.ProgressFunc
	var progress *cli.StageProgress
	if output == outputSummary {
		progress = cli.NewStageProgress(out)
		reporter = stageReporter(progress)
	}

	result, err := app.Analyze(ctx, reporter)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return reportValidation(prompter, err)
	}

	if err := showResult(cmd, app.Settings().Get(), result, output); err != nil {
		return err
	}

	return exportTo(out, exportPath, result)
}

// stageReporter forwards pipeline progress to the stage progress bars.
func stageReporter(progress *cli.StageProgress) analysis.ProgressFunc {
	return func(stage analysis.Stage, fraction float64) {
		progress.Report(stage.Label(), fraction)
	}
}

// showResult prints a fresh result and the completion notification when
// notifications are enabled.
func showResult(cmd *cobra.Command, settings model.Settings, result *analysis.Result, output string) error {
	if err := writeResult(cmd.OutOrStdout(), result, output); err != nil {
		return err
	}

	if settings.EnableNotifications {
		writeLine(cmd.ErrOrStderr(), cli.FormatNotification("Analysis complete! Your insulin pump data has been processed."))
	}
	return nil
}

func writeResult(out io.Writer, result *analysis.Result, output string) error {
	if output == outputSummary {
		writeLine(out, analysis.NewCLIFormatter().FormatResult(result))
		return nil
	}

	format, err := analysis.ParseExportFormat(output)
	if err != nil {
		return err
	}
	return analysis.Export(out, result, format)
}

// validateOutput accepts the summary view or any export format.
func validateOutput(output string) error {
	if output == outputSummary {
		return nil
	}
	_, err := analysis.ParseExportFormat(output)
	return err
}

// exportTo writes result to path when one was given.
func exportTo(out io.Writer, path string, result *analysis.Result) error {
	if path == "" {
		return nil
	}
	if err := exportResult(config.ExpandPath(path), result, exportFormatFor(path)); err != nil {
		return err
	}
	writeLine(out, cli.FormatSuccess(fmt.Sprintf("Exported results to %s", path)))
	return nil
}

// exportFormatFor picks YAML for .yaml/.yml files and JSON otherwise.
func exportFormatFor(path string) analysis.ExportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return analysis.ExportYAML
	default:
		return analysis.ExportJSON
	}
}

func exportResult(path string, result *analysis.Result, format analysis.ExportFormat) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			slog.Error("Failed to close export file", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	return analysis.Export(file, result, format)
}
