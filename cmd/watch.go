package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/monitor"
)

var (
	watchInterval time.Duration
	watchRecord   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print drive changes as they happen",
	Long: `Poll the disk control service and print every insert and eject,
including those made from the emulator itself. With --record the changes
are added to the activity journal.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", monitor.DefaultInterval, "Polling interval")
	watchCmd.Flags().BoolVar(&watchRecord, "record", false, "Record changes in the activity journal")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a := getApp()
	out := cmd.OutOrStdout()

	opts := []monitor.Option{
		monitor.WithOnChange(func(c monitor.Change) {
			ts := time.Now().Format("15:04:05")
			if c.After.Present {
				fmt.Fprintf(out, "[%s] DF%d inserted %s\n", ts, c.Unit, c.After.Filename)
			} else {
				fmt.Fprintf(out, "[%s] DF%d ejected\n", ts, c.Unit)
			}
		}),
	}
	if watchRecord {
		opts = append(opts, monitor.WithAuditLogger(a.Audit))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logInfo("Watching %s every %s (Ctrl-C to stop)", a.Client.Endpoint.Address(), watchInterval)
	if err := monitor.New(watchInterval, a.Client, opts...).Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
