package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	schemaAsYaml   bool
	schemaMaxDepth int
)

// NewSchemaCmd creates a command printing a resolved schema.
func NewSchemaCmd() *cobra.Command {
	var schemaCmd = &cobra.Command{
		Use:   "schema <FILE> [flags]",
		Short: "Resolve references of a schema file and print the result",
		Run:   RunModuleFunc(internalSchemaModule),
		Args:  cobra.ExactArgs(1),
		Example: `
# Print the render data of a template.

    $ codectl schema ~/templates/service/schema.schema

# Print it as YAML.

    $ codectl schema ~/templates/service/schema.schema --yaml`,
	}

	schemaCmd.Flags().BoolVar(&schemaAsYaml, "yaml", false, "Print the schema as YAML")
	schemaCmd.Flags().IntVar(&schemaMaxDepth, "max-depth", schema.DefaultMaxDepth,
		"Maximum nesting of references")

	return schemaCmd
}

// internalSchemaModule is a default schema module.
func internalSchemaModule(cmdCtx *cmdcontext.CmdCtx, args []string) error {
	resolver := schema.NewResolver(schema.WithMaxDepth(schemaMaxDepth))
	resolved, err := resolver.ResolveFile(args[0])
	if err != nil {
		return err
	}
	return printSchema(os.Stdout, resolved, schemaAsYaml)
}

// printSchema writes doc as indented JSON or as YAML.
func printSchema(w io.Writer, doc any, asYaml bool) error {
	if asYaml {
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}
		return encoder.Close()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	return nil
}
