package engines

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// GoTextEngine renders templates with text/template.
type GoTextEngine struct {
	funcs template.FuncMap
}

// NewGoTextEngine creates an engine with builtin functions.
func NewGoTextEngine() *GoTextEngine {
	engine := &GoTextEngine{funcs: template.FuncMap{}}
	engine.AddFuncs(builtinFuncs())
	return engine
}

// AddFuncs registers additional template functions. Existing functions with
// the same names are replaced.
func (engine *GoTextEngine) AddFuncs(funcs map[string]any) {
	for name, fn := range funcs {
		engine.funcs[name] = fn
	}
}

// HasFunc reports whether name is a registered function.
func (engine *GoTextEngine) HasFunc(name string) bool {
	_, ok := engine.funcs[name]
	return ok
}

// RenderFile renders srcPath template to dstPath using go text/template engine.
func (engine *GoTextEngine) RenderFile(srcPath string, dstPath string, data any) error {
	stat, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("error getting file info %s: %s", srcPath, err)
	}
	originFileMode := stat.Mode()

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("error reading %s: %s", srcPath, err)
	}

	parsedTemplate, err := template.New(stat.Name()).Funcs(engine.funcs).Parse(string(content))
	if err != nil {
		return fmt.Errorf("error parsing %s: %s", srcPath, err)
	}
	parsedTemplate.Option("missingkey=error") // Treat missing variable as error.

	var buffer bytes.Buffer
	if err := parsedTemplate.Execute(&buffer, data); err != nil {
		return fmt.Errorf("template execution failed: %s", err)
	}

	if err := os.WriteFile(dstPath, buffer.Bytes(), originFileMode); err != nil {
		return fmt.Errorf("error creating %s: %s", dstPath, err)
	}
	return os.Chmod(dstPath, originFileMode)
}

// RenderText renders in text using go text/template engine.
func (engine *GoTextEngine) RenderText(in string, data any) (string, error) {
	parsedTemplate, err := template.New("file").Funcs(engine.funcs).Parse(in)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %s", in, err)
	}
	parsedTemplate.Option("missingkey=error")

	var buffer bytes.Buffer
	if err = parsedTemplate.Execute(&buffer, data); err != nil {
		return "", fmt.Errorf("template execution failed: %s", err)
	}

	return buffer.String(), nil
}
