package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/logging"
	"github.com/firefly-engineering/adfctl/internal/tui"
)

var listPlain bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List disk images",
	Long: `List the .adf and .hdf images below the image directory, grouped by
top-level folder. Images mounted in a drive are marked with their unit.

With --plain each image is printed as "relpath<TAB>size<TAB>path".`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listPlain, "plain", false, "Print tab-separated lines")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a := getApp()

	entries, err := a.Images()
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	out := cmd.OutOrStdout()
	if listPlain {
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%d\t%s\n", e.RelPath, e.Size, e.Path)
		}
		return nil
	}

	// Mount markers are best effort
	status, err := a.Status(cmd.Context())
	if err != nil {
		logging.Debug("status unavailable for list", "error", err)
	}

	fmt.Fprint(out, tui.SimplePicker(entries, status))
	return nil
}
