package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/logging"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the drive status",
	Long:  "Show which image each drive unit holds, as reported by the disk control service.",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := getApp().Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}

	for _, u := range st.Units {
		if !u.Present {
			fmt.Fprintf(out, "DF%d: %s\n", u.Unit, logging.DimStyle.Render("empty"))
			continue
		}
		mode := "ro"
		if u.Writable {
			mode = "rw"
		}
		fmt.Fprintf(out, "DF%d: %s [%s] %s\n", u.Unit, filepath.Base(u.Filename), mode,
			logging.DimStyle.Render(u.Filename))
	}
	return nil
}
