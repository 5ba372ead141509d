package steps

import (
	"github.com/codectl/codectl/cli/handlers"
	"github.com/codectl/codectl/cli/scaffold/manifest"
	"github.com/codectl/codectl/cli/schema"
	"github.com/codectl/codectl/cli/templates"
)

// TemplateCtx contains the state shared by rendering steps.
type TemplateCtx struct {
	// Manifest is a loaded template manifest.
	Manifest manifest.TemplateManifest
	// IsManifestPresent is true is a template manifest is loaded. False - otherwise.
	IsManifestPresent bool
	// Vars is the render data: resolved root schema and handler values.
	Vars map[string]any
	// CliVars are variables set in command line or entered by a user. They
	// override any schema data.
	CliVars map[string]any
	// Engine is a template engine to use for template rendering.
	Engine templates.TemplateEngine
	// Resolver resolves schema references of root and per-file schemas.
	Resolver *schema.Resolver
	// Handlers is the registry loaded from the template handlers file.
	Handlers *handlers.Registry
}

// NewTemplateContext creates new application template context.
func NewTemplateContext() TemplateCtx {
	var ctx TemplateCtx
	ctx.Vars = make(map[string]any)
	ctx.CliVars = make(map[string]any)
	ctx.Engine = templates.NewDefaultEngine()
	ctx.Resolver = schema.NewResolver()
	return ctx
}

// Close releases resources held by the context.
func (ctx *TemplateCtx) Close() {
	if ctx.Handlers != nil {
		ctx.Handlers.Close()
		ctx.Handlers = nil
	}
}
