package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/Veraticus/tandem-analyzer/internal/cli"
	"github.com/Veraticus/tandem-analyzer/internal/dataset"
	"github.com/Veraticus/tandem-analyzer/internal/model"
)

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <files...>",
		Short: "Register pump export files as datasets",
		Long: `Register one or more insulin pump export files. Only the file name and size
are recorded; the contents are not read.

When auto-analysis is enabled, the selected datasets are analyzed right
after the upload.

Examples:
  tandem upload export.csv
  tandem upload ~/Downloads/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := newPrompter(cmd)

	files, err := dataset.FilesFromPaths(args)
	if err != nil {
		return err
	}

	app, cleanup, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	handler := cli.NewInterruptHandler(out, "Analysis")
	ctx = handler.HandleInterrupts(ctx)

	progress := cli.NewStageProgress(out)
	outcome, err := app.Upload(ctx, files, stageReporter(progress))
	progress.Finish()
	if err != nil {
		return reportValidation(prompter, err)
	}

	for _, d := range outcome.Added {
		writeLine(out, cli.FormatSuccess(fmt.Sprintf("Uploaded %s (%s, %s records)", d.Name, d.FileSize, humanize.Comma(int64(d.RecordCount)))))
	}

	if outcome.AnalysisErr != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return reportValidation(prompter, outcome.AnalysisErr)
	}
	if outcome.Analysis != nil {
		return showResult(cmd, app.Settings().Get(), outcome.Analysis, outputSummary)
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List uploaded datasets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			writeDatasets(cmd.OutOrStdout(), app.Datasets().List())
			return nil
		},
	}
}

func writeDatasets(w io.Writer, datasets []model.Dataset) {
	if len(datasets) == 0 {
		writeLine(w, cli.FormatInfo("No datasets uploaded yet. Run 'tandem upload <file>' to add one."))
		return
	}

	selected := 0
	var b strings.Builder
	for _, d := range datasets {
		box := cli.UnselectedBox
		if d.Selected {
			box = cli.SelectedBox
			selected++
		}
		fmt.Fprintf(&b, "%s %s %s\n", box, cli.BoldStyle.Render(d.Name), cli.SubtleStyle.Render(d.ID))
		fmt.Fprintf(&b, "    %s %s  •  %s  •  %s records  •  uploaded %s\n",
			cli.CalendarIcon, d.DateRange, d.FileSize, humanize.Comma(int64(d.RecordCount)), d.UploadDate)
	}

	writeLine(w, cli.FormatTitle(fmt.Sprintf("Datasets (%d of %d selected)", selected, len(datasets))))
	writeLine(w, strings.TrimRight(b.String(), "\n"))
}

func selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <id>",
		Short: "Toggle whether a dataset is selected for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			selected, err := app.Datasets().ToggleSelection(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to toggle %s: %w", args[0], err)
			}

			d, _ := app.Datasets().Get(args[0])
			state := "deselected"
			if selected {
				state = "selected"
			}
			writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s", d.Name, state)))
			return nil
		},
	}
}

func selectAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-all",
		Short: "Select every dataset, or deselect all if all are selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			if app.Datasets().Len() == 0 {
				writeLine(out, cli.FormatInfo("No datasets to select."))
				return nil
			}

			if app.Datasets().SetAllSelected(ctx) {
				writeLine(out, cli.FormatSuccess("All datasets selected"))
			} else {
				writeLine(out, cli.FormatSuccess("All datasets deselected"))
			}
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			d, ok := app.Datasets().Get(args[0])
			if !ok {
				writeLine(out, cli.FormatInfo(fmt.Sprintf("No dataset with id %s. Nothing to remove.", args[0])))
				return nil
			}

			if !force {
				confirmed, confirmErr := newPrompter(cmd).Confirm(ctx, "Are you sure you want to delete this dataset?")
				if confirmErr != nil {
					return fmt.Errorf("failed to read confirmation: %w", confirmErr)
				}
				if !confirmed {
					writeLine(out, "Remove canceled.")
					return nil
				}
			}

			app.Datasets().Remove(ctx, d.ID)
			writeLine(out, cli.FormatSuccess(fmt.Sprintf("Removed %s", d.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func clearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every dataset and the last analysis result",
		Long: `Clear removes all datasets from the current storage and forgets the last
analysis result. Settings are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			count := app.Datasets().Len()
			if count == 0 {
				writeLine(out, "No datasets found. Nothing to clear.")
				return nil
			}

			if !force {
				writeLine(out, fmt.Sprintf("This will delete %s.", english.Plural(count, "dataset", "")))
				confirmed, confirmErr := newPrompter(cmd).Confirm(ctx, "Are you sure you want to clear all data?")
				if confirmErr != nil {
					return fmt.Errorf("failed to read confirmation: %w", confirmErr)
				}
				if !confirmed {
					writeLine(out, "Clear canceled.")
					return nil
				}
			}

			app.ClearAll(ctx)
			writeLine(out, cli.FormatSuccess("Cleared "+english.Plural(count, "dataset", "")))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
