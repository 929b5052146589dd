package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/tandem-analyzer/internal/common"
	"github.com/Veraticus/tandem-analyzer/internal/config"
	"github.com/Veraticus/tandem-analyzer/internal/service"
	"github.com/Veraticus/tandem-analyzer/internal/tui"
	"github.com/Veraticus/tandem-analyzer/internal/tui/themes"
)

func interactiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"ui"},
		Short:   "Browse, select and analyze datasets in a terminal UI",
		Long: `Open the interactive dataset browser.

Keys:
  ↑/↓ or j/k   move
  Space        toggle the dataset under the cursor
  a            select all, or deselect all if everything is selected
  d            delete the dataset under the cursor
  u            upload files
  Enter        analyze the selected datasets
  q            quit`,
		Args: cobra.NoArgs,
		RunE: runInteractive,
	}

	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	_ = viper.BindPFlag("ui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	theme, ok := themes.ByName(viper.GetString("ui.theme"))
	if !ok {
		return fmt.Errorf("unknown theme %q (valid options: default, catppuccin)", viper.GetString("ui.theme"))
	}

	// Log lines would tear through the full-screen UI.
	if viper.GetString(config.KeyLogLevel) != "debug" {
		if err := common.SetupLogger("error", viper.GetString(config.KeyLogFormat)); err != nil {
			return err
		}
	}

	return withApp(cmd, func(app *service.App) error {
		return tui.Run(cmd.Context(), app, tui.WithTheme(theme))
	})
}
