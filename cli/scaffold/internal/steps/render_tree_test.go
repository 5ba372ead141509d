package steps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/memory"
	"github.com/codectl/codectl/cli/handlers"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorizeDiff(t *testing.T) {
	oldNoColor := color.NoColor
	t.Cleanup(func() {
		color.NoColor = oldNoColor
	})

	diff := "--- a/f.txt\n+++ b/f.txt\n@@ -1 +1 @@\n-old 50%\n+new 100%\n"

	color.NoColor = true
	assert.Equal(t, diff, colorizeDiff(diff))

	color.NoColor = false
	colored := colorizeDiff(diff)
	assert.Contains(t, colored, "\x1b[32m+new")
	assert.Contains(t, colored, "\x1b[31m-old")
	assert.Contains(t, colored, "\x1b[36m@@ -1 +1 @@")
	assert.NotContains(t, colored, "\x1b[31m---")
}

func writeBatchTemplate(t *testing.T, root, filter string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "{{ ._ }}.txt.mtpl"),
		[]byte("{{ ._ }}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "{{ ._ }}.txt.schema"),
		[]byte(`{"_iter": "names", "_iter_filter": "`+filter+`"}`), 0o644))
}

func TestRenderTreeIterFilter(t *testing.T) {
	root := t.TempDir()
	writeBatchTemplate(t, root, "filter_first")
	handlersPath := filepath.Join(root, handlers.FileName)
	require.NoError(t, os.WriteFile(handlersPath,
		[]byte("function filter_first(items) return {items[1]} end\n"), 0o644))

	registry, err := handlers.Load(handlersPath)
	require.NoError(t, err)

	templateCtx := NewTemplateContext()
	templateCtx.Handlers = registry
	defer templateCtx.Close()
	templateCtx.Vars["names"] = []any{"a", "b"}

	out := t.TempDir()
	ctx := scaffold_ctx.ScaffoldCtx{TemplateRoot: root, OutputDir: out}
	require.NoError(t, RenderTree{}.Run(&ctx, &templateCtx))

	assert.FileExists(t, filepath.Join(out, "a.txt"))
	assert.NoFileExists(t, filepath.Join(out, "b.txt"))
}

func TestRenderTreeUnknownIterFilter(t *testing.T) {
	handler := memory.New()
	log.SetHandler(handler)
	t.Cleanup(func() {
		log.SetHandler(cli.Default)
	})

	// Builtin template functions are not filters.
	root := t.TempDir()
	writeBatchTemplate(t, root, "upper")

	templateCtx := NewTemplateContext()
	templateCtx.Vars["names"] = []any{"a", "b"}

	out := t.TempDir()
	ctx := scaffold_ctx.ScaffoldCtx{TemplateRoot: root, OutputDir: out}
	require.NoError(t, RenderTree{}.Run(&ctx, &templateCtx))

	for _, name := range []string{"a", "b"} {
		content, err := os.ReadFile(filepath.Join(out, name+".txt"))
		require.NoError(t, err)
		assert.Equal(t, name+"\n", string(content))
	}

	var warnings []string
	for _, entry := range handler.Entries {
		if entry.Level == log.WarnLevel {
			warnings = append(warnings, entry.Message)
		}
	}
	assert.Equal(t, []string{`Unknown _iter_filter "upper" is ignored.`}, warnings)
}
