package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/tandem-analyzer/internal/cli"
	"github.com/Veraticus/tandem-analyzer/internal/model"
	"github.com/Veraticus/tandem-analyzer/internal/service"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change settings",
		Long: `Settings are stored in the local database and apply to every command.

Changing the storage type switches which dataset collection is used.
Datasets are not copied between storage types.`,
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsTokenCmd())
	cmd.AddCommand(settingsStorageCmd())
	cmd.AddCommand(settingsSwitchCmd("notifications", "Turn analysis completion notifications on or off",
		service.SettingsStore.SetNotifications,
		func(s model.Settings) bool { return s.EnableNotifications }))
	cmd.AddCommand(settingsSwitchCmd("auto-analysis", "Turn analysis right after upload on or off",
		service.SettingsStore.SetAutoAnalysis,
		func(s model.Settings) bool { return s.AutoAnalysis }))

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(app *service.App) error {
				writeLine(cmd.OutOrStdout(), cli.RenderBox("Settings", formatSettings(app.Settings().Get())))
				return nil
			})
		},
	}
}

func formatSettings(s model.Settings) string {
	token := "not set"
	if s.HasAPIToken() {
		token = "set"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "API token:      %s\n", token)
	fmt.Fprintf(&b, "Storage type:   %s\n", s.StorageType)
	fmt.Fprintf(&b, "Notifications:  %s\n", onOff(s.EnableNotifications))
	fmt.Fprintf(&b, "Auto-analysis:  %s", onOff(s.AutoAnalysis))
	return b.String()
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func settingsTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <token>",
		Short: "Save the analysis API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *service.App) error {
				prompter := newPrompter(cmd)
				if err := app.Settings().SetAPIToken(cmd.Context(), args[0]); err != nil {
					return reportValidation(prompter, err)
				}
				return prompter.Success("API token saved successfully!")
			})
		},
	}
}

func settingsStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "storage <persistent|session>",
		Short:     "Choose where datasets are kept",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.StorageTypePersistent), string(model.StorageTypeSession)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(app *service.App) error {
				prompter := newPrompter(cmd)
				if err := app.SetStorageType(cmd.Context(), model.StorageType(args[0])); err != nil {
					return reportValidation(prompter, err)
				}
				return prompter.Success(fmt.Sprintf("Storage type set to %s", args[0]))
			})
		},
	}
}

func settingsSwitchCmd(
	name, short string,
	set func(service.SettingsStore, context.Context, bool),
	current func(model.Settings) bool,
) *cobra.Command {
	return &cobra.Command{
		Use:       name + " <on|off>",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseSwitch(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(app *service.App) error {
				set(app.Settings(), cmd.Context(), enabled)
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s", name, onOff(current(app.Settings().Get())))))
				return nil
			})
		},
	}
}
