package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codectl/codectl/cli/cmdcontext"
	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	"github.com/codectl/codectl/cli/util"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConfigFlags(t *testing.T, set, show bool, items ...string) {
	oldSet, oldShow, oldItems, oldConfig := setConfig, showConfig, configItems, userConfig
	setConfig, showConfig, configItems = set, show, items
	userConfig = config.UserConfig{}
	t.Cleanup(func() {
		setConfig, showConfig, configItems, userConfig = oldSet, oldShow, oldItems, oldConfig
	})
}

func TestConfigSet(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	ctx := cmdcontext.CmdCtx{Cli: cmdcontext.CliCtx{ConfigPath: configPath}}
	setConfigFlags(t, true, false, "template_dir=/opt/templates", "owner=team=a")

	require.NoError(t, internalConfigModule(&ctx, nil))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"owner\": \"team=a\",\n  \"template_dir\": \"/opt/templates\"\n}\n",
		string(content))

	cfg, err := configure.LoadUserConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config.UserConfig{
		"owner":        "team=a",
		"template_dir": "/opt/templates",
	}, cfg)
}

func TestConfigArgErrors(t *testing.T) {
	ctx := cmdcontext.CmdCtx{Cli: cmdcontext.CliCtx{
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
	}}
	var argError *util.ArgError

	setConfigFlags(t, true, false)
	err := internalConfigModule(&ctx, nil)
	assert.True(t, errors.As(err, &argError))

	setConfigFlags(t, false, false, "a=b")
	err = internalConfigModule(&ctx, nil)
	assert.True(t, errors.As(err, &argError))

	setConfigFlags(t, true, false, "novalue")
	err = internalConfigModule(&ctx, nil)
	assert.True(t, errors.As(err, &argError))
	assert.NoFileExists(t, ctx.Cli.ConfigPath)
}

func TestConfigShow(t *testing.T) {
	ctx := cmdcontext.CmdCtx{Cli: cmdcontext.CliCtx{
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
	}}
	setConfigFlags(t, false, true)
	assert.NoError(t, internalConfigModule(&ctx, nil))
	assert.NoFileExists(t, ctx.Cli.ConfigPath)
}

func TestPrintConfig(t *testing.T) {
	oldNoColor := color.NoColor
	t.Cleanup(func() {
		color.NoColor = oldNoColor
	})
	cfg := config.UserConfig{"template_dir": "/opt"}

	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, cfg))
	assert.Equal(t, "{\n  \"template_dir\": \"/opt\"\n}\n", buf.String())

	color.NoColor = false
	buf.Reset()
	require.NoError(t, printConfig(&buf, cfg))
	assert.True(t, strings.HasPrefix(buf.String(), "\x1b[32m{\n  \"template_dir\": \"/opt\"\n}"))
}
