package steps

import (
	"path/filepath"

	"github.com/apex/log"
	"github.com/codectl/codectl/cli/handlers"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/util"
)

// LoadHandlers represents a step loading template filters and globals.
type LoadHandlers struct {
}

// Run loads the handlers file of the template root if there is one. Handler
// functions are registered in the template engine, handler values are added
// to the render data.
func (LoadHandlers) Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error {
	handlersPath := filepath.Join(ctx.TemplateRoot, handlers.FileName)
	if !util.IsRegularFile(handlersPath) {
		log.Debugf("There is no %s in template.", handlers.FileName)
		return nil
	}

	registry, err := handlers.Load(handlersPath)
	if err != nil {
		return err
	}
	templateCtx.Handlers = registry
	templateCtx.Engine.AddFuncs(registry.Funcs())
	for name, value := range registry.Values() {
		templateCtx.Vars[name] = value
	}
	return nil
}
