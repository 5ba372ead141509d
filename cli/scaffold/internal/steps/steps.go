package steps

import (
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
)

// Step is a single step of application template rendering.
type Step interface {
	Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error
}
