package list

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/codectl/codectl/cli/config"
	"github.com/codectl/codectl/cli/configure"
	"github.com/codectl/codectl/cli/scaffold/manifest"
	"github.com/codectl/codectl/cli/util"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TemplateInfo describes an application template.
type TemplateInfo struct {
	// Name is the template directory name.
	Name string
	// Description is the manifest description, if any.
	Description string
}

// CollectTemplates returns the application templates of templateDir sorted
// by name. Every subdirectory is a template.
func CollectTemplates(templateDir string) ([]TemplateInfo, error) {
	entries, err := os.ReadDir(templateDir)
	if err != nil {
		return nil, err
	}

	var templates []TemplateInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info := TemplateInfo{Name: entry.Name()}
		manifestPath := filepath.Join(templateDir, entry.Name(), manifest.DefaultManifestName)
		if util.IsRegularFile(manifestPath) {
			templateManifest, err := manifest.LoadManifest(manifestPath)
			if err != nil {
				log.Warnf("Template %s: %s", entry.Name(), err)
			} else {
				info.Description = templateManifest.Description
			}
		}
		templates = append(templates, info)
	}
	return templates, nil
}

// ListTemplates prints the application templates of the configured
// template directory as a table.
func ListTemplates(cliOpts *config.CliOpts, w io.Writer) error {
	templateDir, err := configure.GetTemplateDir(cliOpts)
	if err != nil {
		return err
	}

	templates, err := CollectTemplates(templateDir)
	if err != nil {
		return fmt.Errorf("can't collect a template list: %s", err)
	}
	if len(templates) == 0 {
		log.Infof("there are no application templates in %s", templateDir)
		return nil
	}

	fmt.Fprintf(w, "Application templates in %s:\n", util.Bold(templateDir))
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"TEMPLATE", "DESCRIPTION"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})
	for _, info := range templates {
		t.AppendRow(table.Row{color.New(color.FgGreen).Sprint(info.Name), info.Description})
	}
	t.Render()
	return nil
}
