package scaffold_ctx

import (
	"io"

	"github.com/codectl/codectl/cli/config"
)

// ScaffoldCtx contains information for rendering an application template.
type ScaffoldCtx struct {
	// TemplateRoot is the template directory to render.
	TemplateRoot string
	// OutputDir is the directory rendered files are written to. It is the
	// template root itself when an application is updated in place.
	OutputDir string
	// VarsFromCli template variables definitions provided in command line.
	VarsFromCli []string
	// ForceMode overwrites existing files as if every template had _update set.
	ForceMode bool
	// ShowDiff prints the difference between an existing file and the
	// rendering that was skipped.
	ShowDiff bool
	// SilentMode if set, disables user interaction. Manifest variables get
	// default values, invalid ones fail the rendering.
	SilentMode bool
	// Out receives diffs. Standard output is used if nil.
	Out io.Writer
	// CliOpts is loaded codectl config.
	CliOpts *config.CliOpts
}
