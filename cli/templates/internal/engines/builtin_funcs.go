package engines

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
)

// relativeToCurrentWorkingDir returns a path relative to current working dir.
// In case of error, fullpath is returned.
func relativeToCurrentWorkingDir(fullpath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return fullpath
	}
	relPath, err := filepath.Rel(cwd, fullpath)
	if err != nil {
		return fullpath
	}
	return relPath
}

// hasKey reports whether the mapping m contains key.
func hasKey(m any, key string) bool {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return false
	}
	return v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())).IsValid()
}

// newUUID generates a random UUID string.
func newUUID() string {
	return uuid.NewString()
}

// builtinFuncs returns functions available in every template.
func builtinFuncs() map[string]any {
	return map[string]any{
		"snake_case":  strcase.ToSnake,
		"camel_case":  strcase.ToLowerCamel,
		"pascal_case": strcase.ToCamel,
		"kebab_case":  strcase.ToKebab,
		"upper":       strings.ToUpper,
		"lower":       strings.ToLower,
		"atoi":        strconv.Atoi,
		"uuid":        newUUID,
		"cwdRelative": relativeToCurrentWorkingDir,
		"hasKey":      hasKey,
	}
}
