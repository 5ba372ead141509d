package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	"github.com/codectl/codectl/cli/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	setConfig   bool
	showConfig  bool
	configItems []string

	errNoConfigItems = util.NewArgError("no configuration items to set: " +
		"specify them with the -i option")
	errItemsWithoutSet = util.NewArgError("configuration items require the --set option")
)

// NewConfigCmd creates a command showing and updating the user configuration.
func NewConfigCmd() *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config [flags]",
		Short: "Show or update codectl configuration",
		Run:   RunModuleFunc(internalConfigModule),
		Args:  cobra.NoArgs,
		Example: `
# Set the template directory.

    $ codectl config --set -i template_dir=~/templates

# Show the configuration.

    $ codectl config`,
	}

	configCmd.Flags().BoolVar(&setConfig, "set", false, "Update configuration items")
	configCmd.Flags().BoolVar(&showConfig, "show", false,
		"Show configuration (default if --set is not given)")
	configCmd.Flags().StringArrayVarP(&configItems, "item", "i", []string{},
		"Configuration item. Usage: -i key=value")

	return configCmd
}

// internalConfigModule is a default config module.
func internalConfigModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	if !setConfig && len(configItems) > 0 {
		return errItemsWithoutSet
	}

	if setConfig {
		if len(configItems) == 0 {
			return errNoConfigItems
		}
		if err := configure.SetItems(userConfig, configItems); err != nil {
			return err
		}
		if err := configure.SaveUserConfig(cmdCtx.Cli.ConfigPath, userConfig); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		if !showConfig {
			fmt.Println(color.GreenString("Configuration updated successfully."))
			return nil
		}
	}

	return printConfig(os.Stdout, userConfig)
}

// printConfig prints cfg to w as green indented JSON.
func printConfig(w io.Writer, cfg config.UserConfig) error {
	data, err := configure.MarshalUserConfig(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, color.New(color.FgGreen).Sprint(string(data)))
	return err
}
