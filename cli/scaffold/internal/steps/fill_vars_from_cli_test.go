package steps

import (
	"testing"

	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliVarsParsing(t *testing.T) {
	var ctx scaffold_ctx.ScaffoldCtx
	templateCtx := NewTemplateContext()

	ctx.VarsFromCli = []string{"var1=value1", "var2=value2", "var3=value=value", "var4="}
	require.NoError(t, FillVarsFromCli{}.Run(&ctx, &templateCtx))

	assert.Equal(t, map[string]any{
		"var1": "value1",
		"var2": "value2",
		"var3": "value=value",
		"var4": "",
	}, templateCtx.CliVars)
	assert.Empty(t, templateCtx.Vars)
}

func TestCliVarsParseErrorHandling(t *testing.T) {
	for _, definition := range []string{"=value", "=", "missing_equal_sign"} {
		t.Run(definition, func(t *testing.T) {
			ctx := scaffold_ctx.ScaffoldCtx{VarsFromCli: []string{definition}}
			templateCtx := NewTemplateContext()
			err := FillVarsFromCli{}.Run(&ctx, &templateCtx)
			assert.ErrorContains(t, err, "wrong definition format")
		})
	}
}
