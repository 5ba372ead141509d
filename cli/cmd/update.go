package cmd

import (
	"fmt"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/scaffold"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var updateCtx scaffold_ctx.ScaffoldCtx

// NewUpdateCmd creates a command re-rendering a generated application in place.
func NewUpdateCmd() *cobra.Command {
	var updateCmd = &cobra.Command{
		Use:   "update <APP_DIR> [flags]",
		Short: "Update an application generated from a template",
		Run:   RunModuleFunc(internalUpdateModule),
		Args:  cobra.ExactArgs(1),
		Example: `
# Re-render the application in ./billing, overwriting files marked with _update.

    $ codectl update ./billing

# Show what would change in files that are kept.

    $ codectl update ./billing --diff`,
	}

	addRenderFlags(updateCmd.Flags(), &updateCtx)

	return updateCmd
}

// internalUpdateModule is a default update module.
func internalUpdateModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	if err := scaffold.FillUpdateCtx(cliOpts, &updateCtx, args[0]); err != nil {
		return err
	}
	if err := scaffold.Run(&updateCtx); err != nil {
		return err
	}

	fmt.Println(color.GreenString("Files have been updated successfully."))
	return nil
}
