package list

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectTemplates(t *testing.T) {
	templates, err := CollectTemplates(filepath.Join("testdata", "templates"))
	require.NoError(t, err)
	assert.Equal(t, []TemplateInfo{
		{Name: "alpha", Description: "Alpha service"},
		{Name: "beta"},
		{Name: "broken"},
	}, templates)

	_, err = CollectTemplates(filepath.Join("testdata", "missing"))
	assert.Error(t, err)
}

func TestListTemplates(t *testing.T) {
	color.NoColor = true
	templateDir, err := filepath.Abs(filepath.Join("testdata", "templates"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, ListTemplates(&config.CliOpts{TemplateDir: templateDir}, &out))
	assert.Contains(t, out.String(), "Application templates in "+templateDir+":\n")
	assert.Contains(t, out.String(), "| TEMPLATE | DESCRIPTION   |")
	assert.Contains(t, out.String(), "| alpha    | Alpha service |")
	assert.Contains(t, out.String(), "| beta     |               |")
	assert.NotContains(t, out.String(), "notes.txt")
}

func TestListTemplatesEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, ListTemplates(&config.CliOpts{TemplateDir: t.TempDir()}, &out))
	assert.Empty(t, out.String())

	err := ListTemplates(&config.CliOpts{}, &out)
	assert.ErrorIs(t, err, configure.ErrNoTemplateDir)
}
