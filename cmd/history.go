package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyJSON  bool
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the activity journal",
	Long:  "Display the inserts, ejects, config patches and image changes adfctl has made.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output events as JSON lines")
	historyCmd.Flags().IntVarP(&historyLimit, "lines", "n", 0, "Show only the last n events")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete the journal")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	journal := getApp().Audit

	if historyClear {
		if err := journal.Clear(); err != nil {
			return fmt.Errorf("failed to clear journal: %w", err)
		}
		logSuccess("Cleared %s", journal.Path())
		return nil
	}

	events, err := journal.Tail(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events recorded")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if historyJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		if e.Details != "" {
			fmt.Fprintf(out, "[%s] %-3s %-8s %s (%s)\n", ts, e.Source, e.Type, e.Target, e.Details)
		} else {
			fmt.Fprintf(out, "[%s] %-3s %-8s %s\n", ts, e.Source, e.Type, e.Target)
		}
	}

	return nil
}
