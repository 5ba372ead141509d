// Package templates provides the template engine used to render application templates.
package templates

import (
	"github.com/codectl/codectl/cli/templates/internal/engines"
)

// TemplateEngine is an interface to support to use for application template instantiation.
type TemplateEngine interface {
	// RenderFile applies data to the template from srcPath.
	// Instantiated template is saved as dstPath.
	RenderFile(srcPath, dstPath string, data any) error

	// RenderText applies data to the template text. Returns instantiated text.
	RenderText(in string, data any) (string, error)

	// AddFuncs makes funcs available to the templates rendered afterwards.
	AddFuncs(funcs map[string]any)

	// HasFunc reports whether a function is registered under name.
	HasFunc(name string) bool
}

// NewDefaultEngine creates and returns default template engine.
func NewDefaultEngine() TemplateEngine {
	return engines.NewGoTextEngine()
}
