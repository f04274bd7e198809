package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/health"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the adfctl setup",
	Long: `Check that the disk control service is reachable, xdftool is installed,
the active config is writable and the image directory exists.

Exits non-zero when the control service is unreachable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output the result as JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a := getApp()
	result := health.Check(cmd.Context(), health.CheckOptions{
		Settings: a.Settings,
		Client:   a.Client,
		Executor: a.Executor,
		Audit:    a.Audit,
	})

	out := cmd.OutOrStdout()
	if doctorJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Control: %s %s\n", result.Control, boolStatus(result.ControlReachable))
		if result.ControlReachable {
			fmt.Fprintf(out, "  Units in use: %d\n", result.UnitsOccupied)
		}
		fmt.Fprintf(out, "Xdftool: %s\n", orNone(result.Xdftool))
		fmt.Fprintf(out, "Config: %s %s\n", result.ConfigFile, boolStatus(result.ConfigWritable))
		fmt.Fprintf(out, "Images: %d in %s\n", result.ImageCount, result.ImageDir)
		if result.LastActivity != "" {
			fmt.Fprintf(out, "Last activity: %s\n", result.LastActivity)
		}
		fmt.Fprintf(out, "Status: %s\n", result.Status())
		for _, p := range result.Problems {
			logWarning("%s", p)
		}
	}

	if result.Status() == health.StatusUnreachable {
		return errors.ConnectionFailure("control service unreachable")
	}
	return nil
}

func boolStatus(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
