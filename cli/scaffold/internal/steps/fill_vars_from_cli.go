package steps

import (
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/util"
)

// FillVarsFromCli represents a step for collecting variables from command line args.
type FillVarsFromCli struct {
}

// Run parses variables definitions passed as command line arguments.
func (FillVarsFromCli) Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error {
	for _, definition := range ctx.VarsFromCli {
		name, value, err := util.ParseKeyValue(definition)
		if err != nil {
			return err
		}
		templateCtx.CliVars[name] = value
	}
	return nil
}
