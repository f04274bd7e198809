package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/config"
	"github.com/firefly-engineering/adfctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool

	settingsPath string
	controlHost  string
	controlPort  int
	imageDir     string
	configFile   string
)

// newApp builds the App for a command run. Tests replace it.
var newApp = func(s *config.Settings) *app.App {
	return app.New(app.WithSettings(s))
}

var rootCmd = &cobra.Command{
	Use:   "adfctl",
	Short: "PiStorm floppy and config manager",
	Long: `adfctl manages the floppy images and emulator config of a PiStorm setup.

It talks to the disk control service to insert and eject ADF images
in the emulated DF0-DF3 drives, and edits the emulator config file
in place, keeping comments and unknown lines intact.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "Settings file (default $XDG_CONFIG_HOME/adfctl/config.toml)")
	rootCmd.PersistentFlags().StringVar(&controlHost, "host", "", "Disk control service host")
	rootCmd.PersistentFlags().IntVar(&controlPort, "port", 0, "Disk control service port")
	rootCmd.PersistentFlags().StringVar(&imageDir, "dir", "", "Image directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "cfg", "", "Active emulator config file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// setup configures logging, loads the settings, applies the root flags
// and installs the App every command uses.
func setup(cmd *cobra.Command, _ []string) error {
	logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
	logging.SetUserOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	s, err := config.Load(settingsPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		s.Control.Host = controlHost
	}
	if flags.Changed("port") {
		s.Control.Port = controlPort
	}
	if flags.Changed("dir") {
		s.ImageDir = config.ExpandHome(imageDir)
	}
	if flags.Changed("cfg") {
		s.ConfigFile = config.ExpandHome(configFile)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	logging.Debug("settings loaded",
		"control", s.Endpoint().Address(),
		"image_dir", s.ImageDir,
		"config_file", s.ConfigFile)

	a := newApp(s)
	a.Audit = a.Audit.WithSource("cli")
	app.SetDefault(a)
	return nil
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
