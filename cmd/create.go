package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/images"
)

var (
	createVolume string
	createForce  bool
	cloneForce   bool
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a blank formatted ADF",
	Long: `Create a blank, formatted floppy image in the image directory using xdftool.

The xdftool command line is taken from the "xdftool" setting, so wrappers
such as "python3 -m amitools.tools.xdftool" work.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var cloneCmd = &cobra.Command{
	Use:   "clone <src> <dest>",
	Short: "Copy an image",
	Long:  "Copy an image within the image directory. The copy keeps the source's mode and modification time.",
	Args:  cobra.ExactArgs(2),
	RunE:  runClone,
}

func init() {
	createCmd.Flags().StringVar(&createVolume, "volume", images.DefaultVolume, "Volume name")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false, "Replace an existing image")
	cloneCmd.Flags().BoolVarP(&cloneForce, "force", "f", false, "Replace an existing image")
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(cloneCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	dest, err := getApp().CreateImage(cmd.Context(), args[0], createVolume, createForce)
	if err != nil {
		return err
	}
	logSuccess("Created %s (volume %s)", dest, createVolume)
	return nil
}

func runClone(cmd *cobra.Command, args []string) error {
	dest, err := getApp().CloneImage(args[0], args[1], cloneForce)
	if err != nil {
		return err
	}
	logSuccess("Cloned to %s", dest)
	return nil
}
