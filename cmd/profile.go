package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var profileBase string

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage emulator config profiles",
	Long: `Manage emulator config profiles.

Profiles are .cfg files in the config directory. Activating a profile
copies it onto the active config file.`,
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List profiles",
	Args:    cobra.NoArgs,
	RunE:    runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile as a copy of another",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileCreate,
}

var profileActivateCmd = &cobra.Command{
	Use:   "activate <name>",
	Short: "Copy a profile onto the active config",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileActivate,
}

func init() {
	profileCreateCmd.Flags().StringVar(&profileBase, "base", "", "Profile to copy (default: the active config)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileActivateCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	store := getApp().Profiles()

	names, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(names) == 0 {
		logInfo("No profiles in %s", store.Dir)
		return nil
	}

	active := store.ActiveName()
	out := cmd.OutOrStdout()
	for _, name := range names {
		mark := " "
		if name == active {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s\n", mark, name)
	}
	return nil
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	a := getApp()
	base := profileBase
	if base == "" {
		base = filepath.Base(a.Settings.ConfigFile)
	}

	path, err := a.CreateProfile(args[0], base)
	if err != nil {
		return err
	}
	logSuccess("Created %s from %s", path, base)
	return nil
}

func runProfileActivate(cmd *cobra.Command, args []string) error {
	a := getApp()
	if _, err := a.ActivateProfile(cmd.Context(), args[0]); err != nil {
		return err
	}
	logSuccess("Activated %s as %s", args[0], a.Settings.ConfigFile)
	return nil
}
