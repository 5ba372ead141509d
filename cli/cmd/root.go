package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	"github.com/spf13/cobra"
)

var (
	cmdCtx     cmdcontext.CmdCtx
	userConfig config.UserConfig
	cliOpts    *config.CliOpts
	rootCmd    *cobra.Command
)

// NewCmdRoot creates a new root command.
func NewCmdRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codectl",
		Short: "Template-driven code scaffolding",
		Long: "Utility for generating and updating projects from application templates " +
			"described with JSON schemas",
		Example: `$ codectl config --set -i template_dir=~/templates
  $ codectl new service -o ./billing -d name=billing
  $ codectl update ./billing`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cmdCtx.Cli.ConfigPath, "cfg", "c",
		"", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&cmdCtx.Cli.Verbose, "verbose", "V",
		false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&cmdCtx.Cli.NoColor, "no-color",
		false, "Disable colored output")

	rootCmd.AddCommand(
		NewVersionCmd(),
		NewCompletionCmd(),
		NewConfigCmd(),
		NewNewCmd(),
		NewUpdateCmd(),
		NewListCmd(),
		NewSchemaCmd(),
	)

	rootCmd.InitDefaultHelpCmd()

	log.SetHandler(cli.Default)

	return rootCmd
}

// Execute root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%s", err)
	}
}

// InitRoot initializes global flags, configures CLI and loads the user
// configuration.
func InitRoot() {
	rootCmd = NewCmdRoot()
	rootCmd.ParseFlags(os.Args)

	if err := configure.Cli(&cmdCtx); err != nil {
		log.Fatalf("Failed to configure codectl: %s", err)
	}

	var err error
	if userConfig, err = configure.LoadUserConfig(cmdCtx.Cli.ConfigPath); err != nil {
		log.Fatalf("Failed to load codectl configuration: %s", err)
	}
	if cliOpts, err = configure.GetCliOpts(userConfig); err != nil {
		log.Fatalf("Failed to get codectl configuration: %s", err)
	}
}
