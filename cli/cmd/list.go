package cmd

import (
	"os"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/list"
	"github.com/spf13/cobra"
)

// NewListCmd creates a command listing application templates.
func NewListCmd() *cobra.Command {
	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "Show application templates of the template directory",
		Run:   RunModuleFunc(internalListModule),
		Args:  cobra.NoArgs,
	}

	return listCmd
}

// internalListModule is a default list module.
func internalListModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	return list.ListTemplates(cliOpts, os.Stdout)
}
