package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/firefly-engineering/adfctl/internal/emucfg"
	"github.com/firefly-engineering/adfctl/internal/errors"
	"github.com/firefly-engineering/adfctl/internal/logging"
)

var (
	configProfile string
	configFormat  string
	configApplyF  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change the emulator config",
	Long: `Show and change the emulator config.

Commands act on the active config file unless --profile names a profile
in the config directory. Changes rewrite only the lines they affect.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the config settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change config settings",
	Long: `Change config settings. Keys are the names "config show" prints, for example:

  adfctl config set cpu=68030 z2_mb=8 keyboard.grab=true piscsi.0=work.hdf

Relative kickstart and PiSCSI paths are resolved against the kickstart
and HDF directories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

var configApplyCmd = &cobra.Command{
	Use:   "apply -f <file>",
	Short: "Apply settings from a YAML file",
	Long: `Apply settings from a YAML (or JSON) file in the format of
"config show --format yaml". Settings the file leaves out keep their
current value.`,
	Args: cobra.NoArgs,
	RunE: runConfigApply,
}

func init() {
	configCmd.PersistentFlags().StringVarP(&configProfile, "profile", "p", "", "Profile to act on instead of the active config")
	configShowCmd.Flags().StringVar(&configFormat, "format", "text", "Output format: text, yaml or json")
	configApplyCmd.Flags().StringVarP(&configApplyF, "file", "f", "", "Settings file")
	_ = configApplyCmd.MarkFlagRequired("file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configApplyCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath returns the file the config commands act on.
func configPath() (string, error) {
	a := getApp()
	if configProfile == "" {
		return a.Settings.ConfigFile, nil
	}
	return a.Profiles().Lookup(configProfile)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	st, err := getApp().LoadConfig(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(st); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(out, "# %s\n", path)
		for _, name := range emucfg.Settings() {
			v, _ := st.Get(name)
			if v == "" {
				fmt.Fprintf(out, "%-22s %s\n", name, logging.DimStyle.Render("-"))
				continue
			}
			fmt.Fprintf(out, "%-22s %s\n", name, v)
		}
		return nil
	}
	return errors.ValidationError(fmt.Sprintf("unknown format %q", configFormat))
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	st, err := getApp().LoadConfig(path)
	if err != nil {
		return err
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return errors.ValidationError(fmt.Sprintf("expected key=value, got %q", arg))
		}
		if err := st.Set(key, value); err != nil {
			return err
		}
	}

	return patchConfig(cmd, path, st)
}

func runConfigApply(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	st, err := getApp().LoadConfig(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(configApplyF)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound(configApplyF)
		}
		return err
	}
	if err := yaml.Unmarshal(data, st); err != nil {
		return errors.Wrap(errors.ExitValidation, fmt.Sprintf("failed to parse %s", configApplyF), err)
	}

	return patchConfig(cmd, path, st)
}

func patchConfig(cmd *cobra.Command, path string, st *emucfg.State) error {
	res, err := getApp().PatchConfig(cmd.Context(), path, st)
	if err != nil {
		return err
	}

	if !res.Written {
		logInfo("No changes to %s", filepath.Base(path))
		return nil
	}

	names := make([]string, len(res.Changed))
	for i, k := range res.Changed {
		names[i] = k.String()
	}
	if len(names) == 0 {
		logSuccess("Updated %s", path)
		return nil
	}
	logSuccess("Updated %s: %s", path, strings.Join(names, ", "))
	return nil
}
