package config

// UserConfig is the raw content of the user configuration file. Arbitrary
// keys are allowed, known ones are decoded into CliOpts.
type UserConfig map[string]any

// CliOpts stores information about codectl configuration.
// Filled in when parsing the user configuration file.
//
// config.json file format:
//
//	{
//	  "template_dir": "~/.codectl/templates"
//	}
type CliOpts struct {
	// TemplateDir is a path to the directory containing application templates,
	// one template per subdirectory.
	TemplateDir string `mapstructure:"template_dir" yaml:"template_dir"`
}
