package cmdcontext

// CmdCtx is the main structure of the program context.
// Contains within itself other structures of CLI modules.
type CmdCtx struct {
	// Cli - CLI context. Contains flags passed when starting codectl.
	Cli CliCtx
	// CommandName contains name of the command.
	CommandName string
}

// CliCtx - CLI context. Contains flags passed when starting codectl.
type CliCtx struct {
	// Path to the user config file.
	ConfigPath string
	// Verbose logging flag. Enables debug log output.
	Verbose bool
	// NoColor disables colored output.
	NoColor bool
}
