package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Loader loads a schema document from a location.
type Loader interface {
	// Load returns the parsed document stored at location. A document which
	// does not exist must be reported with an error wrapping ErrMissingDocument.
	Load(location string) (any, error)
}

// FileLoader loads documents from the local filesystem. It accepts file://
// URLs and plain paths.
type FileLoader struct{}

// Load implements Loader.
func (FileLoader) Load(location string) (any, error) {
	path, err := locationPath(location)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDocument, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// MapLoader serves documents kept in memory, keyed by location.
type MapLoader map[string]any

// Load implements Loader.
func (l MapLoader) Load(location string) (any, error) {
	doc, ok := l[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingDocument, location)
	}
	return doc, nil
}

// locationPath converts a location into a filesystem path.
func locationPath(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || len(u.Scheme) <= 1 {
		return location, nil
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: unsupported location scheme %q", ErrMissingDocument, u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

// Parse decodes a document. Files with .yaml or .yml extension are decoded as
// YAML, everything else as JSON with comments and trailing commas allowed.
func Parse(name string, data []byte) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		return normalize(doc), nil
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return doc, nil
	}
}

// normalize converts map[any]any produced by the YAML decoder into
// map[string]any deeply.
func normalize(v any) any {
	switch x := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v2 := range x {
			m[fmt.Sprint(k)] = normalize(v2)
		}
		return m
	case map[string]any:
		for k, v2 := range x {
			x[k] = normalize(v2)
		}
	case []any:
		for i, v2 := range x {
			x[i] = normalize(v2)
		}
	}
	return v
}
