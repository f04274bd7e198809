package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/monitor"
	"github.com/firefly-engineering/adfctl/internal/serve"
)

var (
	serveListen string
	serveWatch  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the JSON API for listing, inserting and ejecting images and for
editing config profiles. The listen address defaults to the [web]
section of the settings file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (host:port)")
	serveCmd.Flags().DurationVar(&serveWatch, "watch", 0, "Log drive changes at this polling interval (0 disables)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a := getApp()
	addr := serveListen
	if addr == "" {
		addr = a.Settings.WebAddress()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch > 0 {
		go func() {
			_ = monitor.New(serveWatch, a.Client).Run(ctx)
		}()
	}

	logInfo("Serving on http://%s", addr)
	return serve.New(a).Start(ctx, addr)
}
