package configure

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/util"
	"github.com/fatih/color"
	"github.com/mitchellh/mapstructure"
)

const (
	// ConfigName is the default user config file name.
	ConfigName = "config.json"
	// homeEnvName is an environment variable overriding codectl home directory.
	homeEnvName = "CODECTL_HOME"
	// configDirName is the codectl home directory name inside user home.
	configDirName = ".codectl"
)

// ErrNoTemplateDir is returned when template_dir is not configured or does not exist.
var ErrNoTemplateDir = errors.New("template directory does not exist or is not configured. " +
	"Please run `codectl config --set -i template_dir=<path>` to configure")

// Cli performs initial CLI configuration.
func Cli(cmdCtx *cmdcontext.CmdCtx) error {
	if cmdCtx.Cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if cmdCtx.Cli.NoColor {
		color.NoColor = true
	}

	var err error
	if cmdCtx.Cli.ConfigPath, err = GetConfigPath(cmdCtx.Cli.ConfigPath); err != nil {
		return err
	}
	log.Debugf("Using config %s", cmdCtx.Cli.ConfigPath)
	return nil
}

// GetConfigPath returns the user config path: configPath if set,
// $CODECTL_HOME/config.json or ~/.codectl/config.json otherwise.
func GetConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return filepath.Abs(configPath)
	}

	if home := os.Getenv(homeEnvName); home != "" {
		return filepath.Abs(filepath.Join(home, ConfigName))
	}

	home, err := util.GetHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %s", err)
	}
	return filepath.Join(home, configDirName, ConfigName), nil
}

// isYamlConfig reports whether the config at path is stored as YAML.
func isYamlConfig(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadUserConfig reads the user config at path. A missing config file is
// created empty.
func LoadUserConfig(path string) (config.UserConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.UserConfig{}
		if err := SaveUserConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create configuration file: %s", err)
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get access to configuration file: %s", err)
	}

	if isYamlConfig(path) {
		raw, err := util.ParseYAML(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse codectl configuration: %s", err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		return config.UserConfig(raw), nil
	}

	content, err := util.GetFileContentBytes(path)
	if err != nil {
		return nil, fmt.Errorf(`failed to read "%s" file: %s`, path, err)
	}
	cfg := config.UserConfig{}
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse codectl configuration: %s", err)
	}
	return cfg, nil
}

// SaveUserConfig writes cfg to path, creating the parent directory.
func SaveUserConfig(path string, cfg config.UserConfig) error {
	if err := util.CreateDirectory(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if isYamlConfig(path) {
		return util.WriteYaml(path, map[string]any(cfg))
	}

	content, err := MarshalUserConfig(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(content, '\n'), 0o644)
}

// MarshalUserConfig encodes cfg as indented JSON.
func MarshalUserConfig(cfg config.UserConfig) ([]byte, error) {
	if cfg == nil {
		cfg = config.UserConfig{}
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// SetItems updates cfg with "key=value" items.
func SetItems(cfg config.UserConfig, items []string) error {
	for _, item := range items {
		key, value, err := util.ParseKeyValue(item)
		if err != nil {
			return err
		}
		log.Debugf("Setting config item: %s = %s", key, value)
		cfg[key] = value
	}
	return nil
}

// GetCliOpts decodes codectl options from the user config.
func GetCliOpts(cfg config.UserConfig) (*config.CliOpts, error) {
	var cliOpts config.CliOpts
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cliOpts,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(map[string]any(cfg)); err != nil {
		return nil, fmt.Errorf("failed to parse codectl configuration: %s", err)
	}

	if cliOpts.TemplateDir != "" {
		if cliOpts.TemplateDir, err = util.ExpandHome(cliOpts.TemplateDir); err != nil {
			return nil, err
		}
		if cliOpts.TemplateDir, err = filepath.Abs(cliOpts.TemplateDir); err != nil {
			return nil, fmt.Errorf("cannot determine template directory path: %s", err)
		}
	}
	return &cliOpts, nil
}

// GetTemplateDir returns the configured template directory. It fails if the
// directory is not configured or does not exist.
func GetTemplateDir(cliOpts *config.CliOpts) (string, error) {
	if cliOpts == nil || cliOpts.TemplateDir == "" || !util.IsDir(cliOpts.TemplateDir) {
		return "", ErrNoTemplateDir
	}
	return cliOpts.TemplateDir, nil
}
