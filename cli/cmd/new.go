package cmd

import (
	"fmt"
	"os"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/scaffold"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var newCtx scaffold_ctx.ScaffoldCtx

// addRenderFlags adds the flags shared by the commands rendering templates.
func addRenderFlags(flags *pflag.FlagSet, ctx *scaffold_ctx.ScaffoldCtx) {
	flags.StringArrayVarP(&ctx.VarsFromCli, "data", "d", []string{},
		"Template variable definition. Usage: -d var_name=value")
	flags.BoolVarP(&ctx.ForceMode, "force", "f", false,
		"Overwrite existing files")
	flags.BoolVar(&ctx.ShowDiff, "diff", false,
		"Show the difference for existing files that are not overwritten")
	flags.BoolVarP(&ctx.SilentMode, "non-interactive", "s", false,
		"Non-interactive mode")
}

// NewNewCmd creates an application from a template.
func NewNewCmd() *cobra.Command {
	var newCmd = &cobra.Command{
		Use:               "new <APP_NAME> [flags]",
		Short:             "Create an application from a template",
		Run:               RunModuleFunc(internalNewModule),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: newValidArgsFunction,
		Long: `Create an application from a template of the configured template directory.

Every *.tpl file of the template is rendered once, every *.mtpl file is rendered
for each element of the sequence named by its _iter key. Render data comes from
schema.schema, per-file *.schema files, handlers.lua globals and -d definitions.`,
		Example: `
# Create an application from the service template in the current directory.

    $ codectl new service

# Create an application in ./billing with a variable set.

    $ codectl new service -o ./billing -d name=billing`,
	}

	newCmd.Flags().StringVarP(&newCtx.OutputDir, "output", "o", "",
		"Path to the directory where an application will be created")
	addRenderFlags(newCmd.Flags(), &newCtx)

	return newCmd
}

// newValidArgsFunction returns application templates for `new` command.
func newValidArgsFunction(
	_ *cobra.Command,
	args []string,
	toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 || cliOpts == nil {
		return nil, cobra.ShellCompDirectiveDefault
	}

	entries, err := os.ReadDir(cliOpts.TemplateDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var templates []string
	for _, entry := range entries {
		if entry.IsDir() {
			templates = append(templates, entry.Name())
		}
	}
	return templates, cobra.ShellCompDirectiveNoFileComp
}

// internalNewModule is a default new module.
func internalNewModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	if err := scaffold.FillNewCtx(cliOpts, &newCtx, args[0]); err != nil {
		return err
	}
	if err := scaffold.Run(&newCtx); err != nil {
		return err
	}

	fmt.Println(color.GreenString("Application instance created successfully."))
	return nil
}
