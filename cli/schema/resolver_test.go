package schema

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hasRef reports whether a $ref key is left anywhere in the tree.
func hasRef(node any) bool {
	switch n := node.(type) {
	case map[string]any:
		if _, ok := n[refKey]; ok {
			return true
		}
		for _, v := range n {
			if hasRef(v) {
				return true
			}
		}
	case []any:
		for _, v := range n {
			if hasRef(v) {
				return true
			}
		}
	}
	return false
}

func TestResolveFileScenario(t *testing.T) {
	resolved, err := ResolveFile(filepath.Join("testdata", "scenario", "a.json"))
	require.NoError(t, err)

	expected := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":   map[string]any{"type": "string"},
			"age":    map[string]any{"type": "number"},
			"gender": map[string]any{
				"type": "string",
				"enum": []any{"male", "female", "other"},
			},
		},
	}
	if diff := cmp.Diff(expected, resolved); diff != "" {
		t.Errorf("resolved schema mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, hasRef(resolved))
}

func TestResolveFileNestedDocuments(t *testing.T) {
	resolved, err := ResolveFile(filepath.Join("testdata", "nested", "root.json"))
	require.NoError(t, err)

	expected := map[string]any{
		"title": "order",
		"properties": map[string]any{
			"customer": map[string]any{
				"type":     "object",
				"required": []any{"name", "email"},
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"email": map[string]any{"type": "string", "format": "email"},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, resolved); diff != "" {
		t.Errorf("resolved schema mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFileWithComments(t *testing.T) {
	resolved, err := ResolveFile(filepath.Join("testdata", "comments", "schema.schema"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"name":    "demo",
		"version": map[string]any{"type": "string", "default": "v1.0.0"},
	}, resolved["app"])
	assert.False(t, hasRef(resolved))
}

func TestResolveFileCycle(t *testing.T) {
	_, err := ResolveFile(filepath.Join("testdata", "cycle", "a.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCyclicReference)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	require.GreaterOrEqual(t, len(cycleErr.Chain), 3)
	assert.Equal(t, cycleErr.Chain[0], cycleErr.Chain[len(cycleErr.Chain)-1])
	assert.Contains(t, err.Error(), "a.json#/definitions/node")
	assert.Contains(t, err.Error(), "b.json#/definitions/node")
}

func TestResolveFileMissing(t *testing.T) {
	_, err := ResolveFile(filepath.Join("testdata", "not_exists.json"))
	assert.ErrorIs(t, err, ErrMissingDocument)
}

const memBase = "mem:///schemas/root.json"

func newMemResolver(docs MapLoader) *Resolver {
	return NewResolver(WithLoader(docs))
}

func TestResolveOverridePrecedence(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/remote.json": map[string]any{
			"definitions": map[string]any{
				"item": map[string]any{"k": "remote", "other": "kept"},
			},
		},
	}
	doc := map[string]any{
		"$ref": "remote.json#/definitions/item",
		"k":    "local",
	}

	resolved, err := newMemResolver(docs).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "local", "other": "kept"}, resolved)
}

func TestResolveFragmentIsolation(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/other.json": map[string]any{
			"definitions": map[string]any{"x": "from other"},
			"value":       map[string]any{"$ref": "#/definitions/x"},
		},
	}
	doc := map[string]any{
		"definitions": map[string]any{"x": "from root"},
		"local":       map[string]any{"$ref": "#/definitions/x"},
		"remote":      map[string]any{"$ref": "other.json#/value"},
	}

	resolved, err := newMemResolver(docs).Resolve(memBase, doc)
	require.NoError(t, err)
	m := resolved.(map[string]any)
	assert.Equal(t, "from root", m["local"])
	assert.Equal(t, "from other", m["remote"])
}

func TestResolveTransitiveChain(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/b/b.json": map[string]any{
			"b": map[string]any{"$ref": "../c/c.json#/c", "fromB": true},
		},
		"mem:///schemas/c/c.json": map[string]any{
			"c": map[string]any{"fromC": 1.0, "fromB": false},
		},
	}
	doc := map[string]any{
		"a": map[string]any{"$ref": "b/b.json#/b", "fromA": "yes"},
	}

	resolved, err := newMemResolver(docs).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"fromA": "yes", "fromB": true, "fromC": 1.0},
	}, resolved)
}

func TestResolveIdempotence(t *testing.T) {
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{"type": "array", "items": []any{"a", 1.0, nil}},
		},
	}

	resolved, err := newMemResolver(MapLoader{}).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, doc, resolved)

	again, err := newMemResolver(MapLoader{}).Resolve(memBase, resolved)
	require.NoError(t, err)
	assert.Equal(t, resolved, again)
}

func TestResolveDoesNotModifyInput(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{"x": map[string]any{"type": "string"}},
		"value":       map[string]any{"$ref": "#/definitions/x", "title": "X"},
	}
	original := DeepCopy(doc)

	resolved, err := newMemResolver(MapLoader{}).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, original, doc)
	assert.Equal(t, map[string]any{"type": "string", "title": "X"},
		resolved.(map[string]any)["value"])
}

func TestResolveSequencesAndPointerSyntax(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"a/b":   "slash",
			"a~b":   "tilde",
			"list":  []any{"zero", map[string]any{"one": 1.0}},
			"space": map[string]any{"with space": "spaced"},
		},
		"items": []any{
			map[string]any{"$ref": "#/definitions/a~1b"},
			map[string]any{"$ref": "#/definitions/a~0b"},
			map[string]any{"$ref": "#/definitions/list/1"},
			map[string]any{"$ref": "#/definitions/space/with%20space"},
		},
	}

	resolved, err := newMemResolver(MapLoader{}).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, []any{"slash", "tilde", map[string]any{"one": 1.0}, "spaced"},
		resolved.(map[string]any)["items"])
}

func TestResolveMergesSequences(t *testing.T) {
	doc := map[string]any{
		"definitions": map[string]any{
			"base": map[string]any{"required": []any{"name"}},
		},
		"value": map[string]any{"$ref": "#/definitions/base", "required": []any{"age"}},
	}

	resolved, err := newMemResolver(MapLoader{}).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"required": []any{"name", "age"}},
		resolved.(map[string]any)["value"])
}

func TestResolveSiblingsWithRefs(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/user.json": map[string]any{
			"user": map[string]any{
				"properties": map[string]any{"name": map[string]any{"type": "string"}},
			},
		},
	}
	doc := map[string]any{
		"definitions": map[string]any{"id": map[string]any{"type": "integer"}},
		"value": map[string]any{
			"$ref": "user.json#/user",
			"properties": map[string]any{
				"id": map[string]any{"$ref": "#/definitions/id"},
			},
		},
	}

	resolved, err := newMemResolver(docs).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"id":   map[string]any{"type": "integer"},
		},
	}, resolved.(map[string]any)["value"])
	assert.False(t, hasRef(resolved))
}

func TestResolveWholeDocument(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/common.json": map[string]any{"type": "string"},
	}
	doc := map[string]any{"value": map[string]any{"$ref": "common.json"}}

	resolved, err := newMemResolver(docs).Resolve(memBase, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": map[string]any{"type": "string"}}, resolved)
}

func TestResolveErrors(t *testing.T) {
	docs := MapLoader{
		"mem:///schemas/other.json": map[string]any{"definitions": map[string]any{}},
	}

	testCases := []struct {
		name string
		doc  any
		err  error
	}{
		{
			name: "missing document",
			doc:  map[string]any{"$ref": "absent.json#/definitions/x"},
			err:  ErrMissingDocument,
		},
		{
			name: "missing fragment",
			doc:  map[string]any{"$ref": "other.json#/definitions/x"},
			err:  ErrMissingFragment,
		},
		{
			name: "missing local fragment",
			doc:  map[string]any{"$ref": "#/definitions/x"},
			err:  ErrMissingFragment,
		},
		{
			name: "descend into scalar",
			doc:  map[string]any{"a": "b", "c": map[string]any{"$ref": "#/a/b"}},
			err:  ErrMissingFragment,
		},
		{
			name: "not a string",
			doc:  map[string]any{"$ref": 42.0},
			err:  ErrMalformedPointer,
		},
		{
			name: "empty reference",
			doc:  map[string]any{"$ref": ""},
			err:  ErrMalformedPointer,
		},
		{
			name: "anchor fragment",
			doc:  map[string]any{"$ref": "#anchor"},
			err:  ErrMalformedPointer,
		},
		{
			name: "bad escape",
			doc:  map[string]any{"$ref": "#/a%zz"},
			err:  ErrMalformedPointer,
		},
		{
			name: "self reference",
			doc:  map[string]any{"$ref": "#"},
			err:  ErrCyclicReference,
		},
		{
			name: "recursive definition",
			doc: map[string]any{
				"definitions": map[string]any{
					"tree": map[string]any{
						"properties": map[string]any{
							"child": map[string]any{"$ref": "#/definitions/tree"},
						},
					},
				},
			},
			err: ErrCyclicReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newMemResolver(docs).Resolve(memBase, tc.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestResolveRefErrorContext(t *testing.T) {
	_, err := newMemResolver(MapLoader{}).Resolve(memBase,
		map[string]any{"$ref": "#/definitions/x"})

	var refErr *RefError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "#/definitions/x", refErr.Ref)
	assert.Equal(t, memBase, refErr.Base)
}

func TestResolveMaxDepth(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": map[string]any{"c": "d"}}}

	_, err := NewResolver(WithLoader(MapLoader{}), WithMaxDepth(2)).Resolve(memBase, doc)
	assert.ErrorIs(t, err, ErrMaxDepth)

	_, err = NewResolver(WithLoader(MapLoader{}), WithMaxDepth(3)).Resolve(memBase, doc)
	assert.NoError(t, err)
}

func TestResolveDirectoryBase(t *testing.T) {
	dir := filepath.Join("testdata", "scenario")
	doc := map[string]any{"$ref": "c.json#/definitions/user/properties/name"}

	resolved, err := NewResolver().Resolve(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "string"}, resolved)
}
