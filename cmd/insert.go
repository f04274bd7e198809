package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/adfctl/internal/app"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/logging"
	"github.com/firefly-engineering/adfctl/internal/tui"
)

var (
	insertWritable bool
	insertAuto     bool
)

var unitArg = regexp.MustCompile(`^(?i:df)?[0-9]+$`)

var insertCmd = &cobra.Command{
	Use:   "insert [unit] [image]",
	Short: "Insert an image into a drive",
	Long: `Insert an image into drive unit DF0-DF3.

The image is a path relative to the image directory, or an absolute path.
Without a unit, or with --auto, the lowest free unit is used. A requested
unit that is already occupied is replaced by the lowest free unit.

Without an image, an interactive picker opens when running in a terminal.

Actions in the picker:
  Enter  - Insert read-only
  w      - Insert writable
  q/Esc  - Quit`,
	Args: cobra.MaximumNArgs(2),
	RunE: runInsert,
}

func init() {
	insertCmd.Flags().BoolVar(&insertWritable, "rw", false, "Insert writable")
	insertCmd.Flags().BoolVar(&insertAuto, "auto", false, "Use the lowest free unit")
	rootCmd.AddCommand(insertCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	a := getApp()
	req := app.InsertRequest{Writable: insertWritable}

	var unitStr string
	switch len(args) {
	case 2:
		unitStr, req.Image = args[0], args[1]
	case 1:
		if unitArg.MatchString(args[0]) {
			unitStr = args[0]
		} else {
			req.Image = args[0]
		}
	}

	if unitStr != "" && !insertAuto {
		n, err := parseUnit(unitStr)
		if err != nil {
			return err
		}
		req.Unit = &n
	}

	if req.Image == "" {
		picked, ok, err := pickImage(cmd, a)
		if err != nil || !ok {
			return err
		}
		req.Image = picked.Entry.Path
		req.Writable = req.Writable || picked.Writable
	}

	res, err := a.Insert(cmd.Context(), req)
	if err != nil {
		return err
	}

	if res.Moved {
		logWarning("DF%d is occupied, using DF%d", *req.Unit, res.Unit)
	}
	mode := "read-only"
	if req.Writable {
		mode = "writable"
	}
	logSuccess("Inserted %s into DF%d (%s)", res.Path, res.Unit, mode)
	return nil
}

// pickImage runs the interactive picker. ok is false when the user quit.
func pickImage(cmd *cobra.Command, a *app.App) (tui.PickerResult, bool, error) {
	if !isInteractive() {
		return tui.PickerResult{}, false, errors.ValidationError("image path required")
	}

	entries, err := a.Images()
	if err != nil {
		return tui.PickerResult{}, false, fmt.Errorf("failed to list images: %w", err)
	}
	if len(entries) == 0 {
		logInfo("No images found in %s. Create one with: adfctl create <name>", a.Settings.ImageDir)
		return tui.PickerResult{}, false, nil
	}

	status, err := a.Status(cmd.Context())
	if err != nil {
		logging.Debug("status unavailable for picker", "error", err)
	}

	logging.Debug("picker mode started", "images", len(entries))
	result, err := tui.RunPicker(entries, status)
	if err != nil {
		return tui.PickerResult{}, false, fmt.Errorf("picker error: %w", err)
	}
	logging.Debug("picker result", "action", result.Action)

	if result.Action != tui.ActionInsert || result.Entry == nil {
		return tui.PickerResult{}, false, nil
	}
	return result, true, nil
}
