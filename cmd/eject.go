package cmd

import (
	"github.com/spf13/cobra"
)

var ejectCmd = &cobra.Command{
	Use:   "eject <unit>",
	Short: "Eject the image in a drive",
	Args:  cobra.ExactArgs(1),
	RunE:  runEject,
}

func init() {
	rootCmd.AddCommand(ejectCmd)
}

func runEject(cmd *cobra.Command, args []string) error {
	n, err := parseUnit(args[0])
	if err != nil {
		return err
	}

	if _, err := getApp().Eject(cmd.Context(), n); err != nil {
		return err
	}

	logSuccess("Ejected DF%d", n)
	return nil
}
