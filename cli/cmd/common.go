package cmd

import (
	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/util"
	"github.com/spf13/cobra"
)

// internalModuleFunc is a command implementation.
type internalModuleFunc func(cmdCtx *cmdcontext.CmdCtx, args []string) error

// RunModuleFunc returns a cobra run function calling the command
// implementation f and handling its error.
func RunModuleFunc(f internalModuleFunc) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		cmdCtx.CommandName = cmd.Name()
		util.HandleCmdErr(cmd, f(&cmdCtx, args))
	}
}
