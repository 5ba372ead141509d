package schema

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const refKey = "$ref"

// pointer is a parsed $ref value.
type pointer struct {
	// document is the relative (or absolute) document part, empty for
	// fragment-only pointers.
	document string
	// fragment is the raw fragment without the leading '#'.
	fragment string
	// tokens are the unescaped fragment path segments.
	tokens []string
}

// parsePointer splits a $ref value into its document and fragment parts.
func parsePointer(raw any) (pointer, error) {
	var ptr pointer
	ref, ok := raw.(string)
	if !ok {
		return ptr, fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedPointer, refKey, raw)
	}
	if strings.TrimSpace(ref) == "" {
		return ptr, fmt.Errorf("%w: empty reference", ErrMalformedPointer)
	}

	ptr.document, ptr.fragment, _ = strings.Cut(ref, "#")
	if ptr.document != "" {
		if _, err := url.Parse(ptr.document); err != nil {
			return ptr, fmt.Errorf("%w: %s", ErrMalformedPointer, err)
		}
	}

	var err error
	if ptr.tokens, err = splitFragment(ptr.fragment); err != nil {
		return ptr, err
	}
	return ptr, nil
}

// splitFragment decodes a JSON pointer fragment into path segments.
// "~1" stands for '/' and "~0" for '~' inside a segment.
func splitFragment(fragment string) ([]string, error) {
	if fragment == "" {
		return nil, nil
	}
	decoded, err := url.PathUnescape(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPointer, err)
	}
	if !strings.HasPrefix(decoded, "/") {
		return nil, fmt.Errorf("%w: fragment %q is not a JSON pointer", ErrMalformedPointer,
			fragment)
	}

	tokens := strings.Split(decoded[1:], "/")
	for i, token := range tokens {
		token = strings.ReplaceAll(token, "~1", "/")
		tokens[i] = strings.ReplaceAll(token, "~0", "~")
	}
	return tokens, nil
}

// walkFragment follows tokens through nested mappings and sequences of doc.
func walkFragment(doc any, tokens []string) (any, error) {
	node := doc
	for i, token := range tokens {
		switch n := node.(type) {
		case map[string]any:
			next, ok := n[token]
			if !ok {
				return nil, fmt.Errorf("%w: key %q not found at /%s", ErrMissingFragment,
					token, strings.Join(tokens[:i], "/"))
			}
			node = next
		case []any:
			idx, err := strconv.Atoi(token)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, fmt.Errorf("%w: index %q out of range at /%s", ErrMissingFragment,
					token, strings.Join(tokens[:i], "/"))
			}
			node = n[idx]
		default:
			return nil, fmt.Errorf("%w: cannot descend into %T at /%s", ErrMissingFragment,
				node, strings.Join(tokens[:i], "/"))
		}
	}
	return node, nil
}

// parseLocation converts a base location into an absolute URL. Locations with
// a scheme are used as is, anything else is a filesystem path. A path naming a
// directory gets a trailing slash, so relative references resolve inside it.
func parseLocation(location string) (*url.URL, error) {
	if u, err := url.Parse(location); err == nil && len(u.Scheme) > 1 {
		return u, nil
	}

	if location == "" {
		location = "."
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path of %q: %w", location, err)
	}
	path := filepath.ToSlash(abs)
	if strings.HasSuffix(location, string(filepath.Separator)) || isDir(abs) {
		path = strings.TrimSuffix(path, "/") + "/"
	}
	return &url.URL{Scheme: "file", Path: path}, nil
}

// documentKey returns the location of a document without its fragment.
func documentKey(location *url.URL) string {
	u := *location
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
