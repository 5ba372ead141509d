// Package scaffold renders application templates: it resolves the template
// schemas, loads the template handlers and renders the template tree into an
// output directory.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/scaffold/internal/steps"
	"github.com/codectl/codectl/cli/util"
	"github.com/codectl/codectl/cli/version"
)

// FillNewCtx fills scaffold context for creating the application appName
// from the configured template directory.
func FillNewCtx(cliOpts *config.CliOpts, ctx *scaffold_ctx.ScaffoldCtx, appName string) error {
	templateDir, err := configure.GetTemplateDir(cliOpts)
	if err != nil {
		return err
	}

	ctx.TemplateRoot = filepath.Join(templateDir, appName)
	if !util.IsDir(ctx.TemplateRoot) {
		return util.NewArgError(fmt.Sprintf("application template %q is not found in %s",
			appName, templateDir))
	}

	if ctx.OutputDir == "" {
		if ctx.OutputDir, err = os.Getwd(); err != nil {
			return err
		}
	}
	if ctx.OutputDir, err = filepath.Abs(ctx.OutputDir); err != nil {
		return err
	}
	ctx.CliOpts = cliOpts
	return nil
}

// FillUpdateCtx fills scaffold context for rendering the application in
// appDir in place.
func FillUpdateCtx(cliOpts *config.CliOpts, ctx *scaffold_ctx.ScaffoldCtx, appDir string) error {
	root, err := filepath.Abs(appDir)
	if err != nil {
		return err
	}
	if !util.IsDir(root) {
		return util.NewArgError(fmt.Sprintf("%s is not a directory", appDir))
	}
	ctx.TemplateRoot = root
	ctx.OutputDir = root
	ctx.CliOpts = cliOpts
	return nil
}

// Run renders an application template.
func Run(ctx *scaffold_ctx.ScaffoldCtx) error {
	if err := checkCtx(ctx); err != nil {
		return util.InternalError("Scaffold context check failed: %s", version.GetVersion, err)
	}

	stepsChain := []steps.Step{
		steps.FillVarsFromCli{},
		steps.LoadManifest{},
		steps.LoadRootSchema{},
		steps.CollectVarsFromUser{Reader: steps.NewConsoleReader()},
		steps.LoadHandlers{},
		steps.RenderTree{},
	}

	templateCtx := steps.NewTemplateContext()
	defer templateCtx.Close()
	for _, step := range stepsChain {
		if err := step.Run(ctx, &templateCtx); err != nil {
			return err
		}
	}

	return nil
}

// checkCtx checks scaffold context for validity.
func checkCtx(ctx *scaffold_ctx.ScaffoldCtx) error {
	if ctx.TemplateRoot == "" {
		return fmt.Errorf("template root is missing")
	}
	if ctx.OutputDir == "" {
		return fmt.Errorf("output directory is missing")
	}
	return nil
}
