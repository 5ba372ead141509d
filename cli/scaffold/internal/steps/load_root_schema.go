package steps

import (
	"fmt"
	"maps"
	"path/filepath"

	"github.com/apex/log"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/util"
)

// RootSchemaName is the schema file with the data shared by all templates.
const RootSchemaName = "schema.schema"

// LoadRootSchema represents a step loading the root schema of a template.
type LoadRootSchema struct {
}

// Run resolves the root schema and makes it the render data. A missing root
// schema gives empty data.
func (LoadRootSchema) Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error {
	schemaPath := filepath.Join(ctx.TemplateRoot, RootSchemaName)
	if !util.IsRegularFile(schemaPath) {
		log.Debugf("There is no %s in template.", RootSchemaName)
		return nil
	}

	data, err := templateCtx.Resolver.ResolveFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load root schema: %w", err)
	}
	maps.Copy(templateCtx.Vars, data)
	return nil
}
