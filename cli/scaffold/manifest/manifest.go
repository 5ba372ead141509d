package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/codectl/codectl/cli/util"
	"github.com/mitchellh/mapstructure"
)

const (
	// DefaultManifestName is the manifest file name looked up in a template root.
	DefaultManifestName = "MANIFEST.yaml"
)

// UserPrompt describes interactive prompt to get the value of variable from a user.
type UserPrompt struct {
	// Prompt is an input prompt for the variable.
	Prompt string
	// Name is a variable name to store a value to.
	Name string
	// Default is a default value.
	Default string
	// Re is a regular expression for the value validation.
	Re string
}

// TemplateManifest is a manifest for application template.
type TemplateManifest struct {
	// Description is a template description.
	Description string
	// Vars is a set of variables, which values are to be
	// requested from a user.
	Vars []UserPrompt
}

func validateManifest(manifest *TemplateManifest) error {
	for _, varInfo := range manifest.Vars {
		if varInfo.Prompt == "" {
			return errors.New("missing user prompt")
		}
		if varInfo.Name == "" {
			return errors.New("missing variable name")
		}
	}
	return nil
}

// LoadManifest loads template manifest from manifestPath.
func LoadManifest(manifestPath string) (TemplateManifest, error) {
	var templateManifest TemplateManifest
	if _, err := os.Stat(manifestPath); err != nil {
		return templateManifest, fmt.Errorf("failed to get access to manifest file: %s", err)
	}

	rawManifest, err := util.ParseYAML(manifestPath)
	if err != nil {
		return templateManifest, err
	}

	if err := mapstructure.Decode(rawManifest, &templateManifest); err != nil {
		return templateManifest, fmt.Errorf("failed to decode template manifest: %s", err)
	}

	if err := validateManifest(&templateManifest); err != nil {
		return TemplateManifest{}, fmt.Errorf("invalid manifest format: %s", err)
	}

	return templateManifest, nil
}
