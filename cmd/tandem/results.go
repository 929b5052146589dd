package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Veraticus/tandem-analyzer/internal/cli"
	"github.com/Veraticus/tandem-analyzer/internal/service"
)

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show the most recent analysis result",
		Long: `Show the result of the last analysis without running the pipeline again.

Examples:
  tandem results                          # Print the last summary
  tandem results --output yaml            # Print the last result as YAML
  tandem results --export results.json    # Write the last result to a file`,
		Args: cobra.NoArgs,
		RunE: runResults,
	}

	cmd.Flags().StringP("output", "o", outputSummary, "Output format (summary, json, yaml)")
	cmd.Flags().StringP("export", "e", "", "Also write the result to this file (.yaml/.yml for YAML, JSON otherwise)")

	return cmd
}

func runResults(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	exportPath, err := cmd.Flags().GetString("export")
	if err != nil {
		return err
	}
	if err := validateOutput(output); err != nil {
		return err
	}

	return withApp(cmd, func(app *service.App) error {
		out := cmd.OutOrStdout()

		result, ok := app.Results().Latest(cmd.Context())
		if !ok {
			return newPrompter(cmd).Notify("No analysis results yet. Run 'tandem analyze' first.")
		}

		if output == outputSummary {
			writeLine(out, cli.FormatInfo(fmt.Sprintf("Last analysis %s", humanize.Time(result.GeneratedAt))))
		}
		if err := writeResult(out, result, output); err != nil {
			return err
		}
		return exportTo(out, exportPath, result)
	})
}
