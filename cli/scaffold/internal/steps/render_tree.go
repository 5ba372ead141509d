package steps

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/apex/log"
	scaffold_ctx "github.com/codectl/codectl/cli/scaffold/context"
	"github.com/codectl/codectl/cli/schema"
	"github.com/codectl/codectl/cli/util"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
)

const (
	singleTemplateExt = ".tpl"
	batchTemplateExt  = ".mtpl"
	schemaExt         = ".schema"

	updateKey     = "_update"
	iterKey       = "_iter"
	iterFilterKey = "_iter_filter"
	itemKey       = "_"

	defaultDirPermissions = 0o755
)

// RenderTree represents a step rendering the template tree into the output
// directory.
type RenderTree struct {
}

// Run renders every template of the template root and copies all its files
// to the output directory. A failed file does not stop the processing of the
// others, all failures are returned together.
func (RenderTree) Run(ctx *scaffold_ctx.ScaffoldCtx, templateCtx *TemplateCtx) error {
	if err := util.CreateDirectory(ctx.OutputDir, defaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := listFiles(ctx.TemplateRoot, ctx.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to read template directory: %w", err)
	}

	r := renderer{ctx: ctx, templateCtx: templateCtx}
	var errs []error
	for _, path := range files {
		if err := r.process(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// listFiles returns all regular files under root in lexical order. The output
// directory is skipped when it is nested in root.
func listFiles(root, outputDir string) ([]string, error) {
	outputInfo, _ := os.Stat(outputDir)
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root || outputInfo == nil {
				return nil
			}
			if info, err := entry.Info(); err == nil && os.SameFile(info, outputInfo) {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

type renderer struct {
	ctx         *scaffold_ctx.ScaffoldCtx
	templateCtx *TemplateCtx
}

// process renders the file if it is a template and copies it to the output.
func (r renderer) process(path string) error {
	relPath, err := filepath.Rel(r.ctx.TemplateRoot, path)
	if err != nil {
		return err
	}

	switch filepath.Ext(path) {
	case singleTemplateExt:
		err = r.renderSingle(path)
	case batchTemplateExt:
		err = r.renderBatch(path)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", relPath, err)
	}

	if err := util.CopyFile(path, filepath.Join(r.ctx.OutputDir, relPath)); err != nil {
		return fmt.Errorf("failed to copy %s: %w", relPath, err)
	}
	return nil
}

// fileData returns the render data of a template: the shared data, the
// per-file schema and the command line variables, the latter winning.
func (r renderer) fileData(path string) (map[string]any, error) {
	data := schema.DeepCopy(r.templateCtx.Vars).(map[string]any)

	schemaPath := strings.TrimSuffix(path, filepath.Ext(path)) + schemaExt
	if util.IsRegularFile(schemaPath) {
		fileSchema, err := r.templateCtx.Resolver.ResolveFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(schemaPath), err)
		}
		maps.Copy(data, fileSchema)
	}

	maps.Copy(data, r.templateCtx.CliVars)
	return data, nil
}

func (r renderer) renderSingle(path string) error {
	data, err := r.fileData(path)
	if err != nil {
		return err
	}
	return r.renderFile(path, singleTemplateExt, data)
}

// renderBatch renders one output file per element of the sequence named by
// the _iter key. The element is available to the template as "_".
func (r renderer) renderBatch(path string) error {
	data, err := r.fileData(path)
	if err != nil {
		return err
	}

	iterPath, _ := data[iterKey].(string)
	if iterPath == "" {
		return fmt.Errorf("%s is not set for the batch template", iterKey)
	}
	elements, err := util.RetrieveNestedValue(data, iterPath)
	if err != nil {
		return fmt.Errorf("failed to get %s elements: %w", iterKey, err)
	}

	if filterName, _ := data[iterFilterKey].(string); filterName != "" {
		filter := r.filter(filterName)
		if filter == nil {
			log.Warnf("Unknown %s %q is ignored.", iterFilterKey, filterName)
		} else if elements, err = filter(elements); err != nil {
			return fmt.Errorf("%s %s failed: %w", iterFilterKey, filterName, err)
		}
	}

	items, err := toSequence(elements)
	if err != nil {
		return fmt.Errorf("%s %q: %w", iterKey, iterPath, err)
	}

	var errs []error
	for _, item := range items {
		itemData := maps.Clone(data)
		itemData[itemKey] = item
		if err := r.renderFile(path, batchTemplateExt, itemData); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// filter returns the handlers filter registered under name, nil if there is
// none. Builtin template functions and globals are not filters.
func (r renderer) filter(name string) func(args ...any) (any, error) {
	if r.templateCtx.Handlers == nil {
		return nil
	}
	filter, _ := r.templateCtx.Handlers.Filters[name].(func(args ...any) (any, error))
	return filter
}

func toSequence(value any) ([]any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("value of type %T is not a sequence", value)
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// renderFile renders the template at path into the output directory. The
// output file name is the template name without ext, rendered with the
// same data.
func (r renderer) renderFile(path, ext string, data map[string]any) error {
	engine := r.templateCtx.Engine
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	name, err := engine.RenderText(stem, data)
	if err != nil {
		return fmt.Errorf("failed to render file name %q: %w", stem, err)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name %q is rendered empty", stem)
	}

	relDir, err := filepath.Rel(r.ctx.TemplateRoot, filepath.Dir(path))
	if err != nil {
		return err
	}
	relOut := filepath.Join(relDir, name)
	outPath := filepath.Join(r.ctx.OutputDir, relOut)

	if util.IsRegularFile(outPath) && !r.ctx.ForceMode && !util.IsTruthy(data[updateKey]) {
		log.Warnf("The %s file already exists and will be ignored.", relOut)
		if r.ctx.ShowDiff {
			return r.printDiff(path, outPath, relOut, data)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), defaultDirPermissions); err != nil {
		return err
	}
	if err := engine.RenderFile(path, outPath, data); err != nil {
		return err
	}
	log.Debugf("Rendered %s", relOut)
	return nil
}

// printDiff prints a unified diff between the existing output file and the
// rendering of the template.
func (r renderer) printDiff(path, outPath, relOut string, data map[string]any) error {
	content, err := util.GetFileContentBytes(path)
	if err != nil {
		return err
	}
	rendered, err := r.templateCtx.Engine.RenderText(string(content), data)
	if err != nil {
		return err
	}
	existing, err := util.GetFileContentBytes(outPath)
	if err != nil {
		return err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(rendered),
		FromFile: filepath.Join("a", relOut),
		ToFile:   filepath.Join("b", relOut),
		Context:  3,
	})
	if err != nil || diff == "" {
		return err
	}

	var out io.Writer = os.Stdout
	if r.ctx.Out != nil {
		out = r.ctx.Out
	} else if isatty.IsTerminal(os.Stdout.Fd()) {
		diff = colorizeDiff(diff)
	}
	_, err = fmt.Fprint(out, diff)
	return err
}

// colorizeDiff highlights added and removed lines of a unified diff.
func colorizeDiff(diff string) string {
	lines := strings.SplitAfter(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = color.New(color.Bold).Sprint(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = color.New(color.FgGreen).Sprint(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = color.New(color.FgRed).Sprint(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = color.New(color.FgCyan).Sprint(line)
		}
	}
	return strings.Join(lines, "")
}
