package steps

import (
	"fmt"
	"path/filepath"

	"github.com/apex/log"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/scaffold/manifest"
	"github.com/codectl/codectl/cli/util"
)

// LoadManifest represents manifest load step.
type LoadManifest struct {
}

// Run loads template manifest. Missing manifest is not an error.
func (LoadManifest) Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error {
	manifestPath := filepath.Join(ctx.TemplateRoot, manifest.DefaultManifestName)
	if !util.IsRegularFile(manifestPath) {
		log.Debug("There is no manifest in template.")
		templateCtx.IsManifestPresent = false
		return nil
	}

	templateManifest, err := manifest.LoadManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifest file: %s", err)
	}

	templateCtx.Manifest = templateManifest
	templateCtx.IsManifestPresent = true
	return nil
}
