// Package schema resolves $ref pointers of JSON-Schema-like documents into a
// single self-contained document.
//
// A reference is either a fragment of the current document ("#/definitions/x")
// or a document relative to the referencing one, optionally followed by a
// fragment ("types/user.json#/definitions/user"). The referencing node is
// replaced by the deep merge of the resolved target and its own sibling keys,
// siblings winning conflicts.
package schema

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/apex/log"
)

// DefaultMaxDepth limits the nesting of resolution.
const DefaultMaxDepth = 256

// Resolver resolves references of schema documents.
type Resolver struct {
	loader   Loader
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLoader sets the loader used for referenced documents.
func WithLoader(loader Loader) Option {
	return func(r *Resolver) {
		r.loader = loader
	}
}

// WithMaxDepth sets the maximum nesting depth of resolution.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a resolver loading documents from the filesystem unless
// another loader is given.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		loader:   FileLoader{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// document is a loaded document together with its location.
type document struct {
	location *url.URL
	root     any
}

// resolution is the state of a single Resolve call.
type resolution struct {
	*Resolver
	// documents caches loaded documents by location.
	documents map[string]*document
	// targets being resolved, outermost first.
	targets []string
}

// Resolve returns doc with every $ref replaced by the content it designates.
// baseLocation is the location of doc: a URL or a filesystem path. Relative
// document references are resolved against the location of the document
// declaring them. doc is not modified.
func (r *Resolver) Resolve(baseLocation string, doc any) (any, error) {
	base, err := parseLocation(baseLocation)
	if err != nil {
		return nil, err
	}

	root := &document{location: base, root: doc}
	res := &resolution{
		Resolver:  r,
		documents: map[string]*document{documentKey(base): root},
	}
	return res.resolveNode(root, doc, 0)
}

// ResolveFile loads the document at path and resolves it. The resolved
// document must be a mapping.
func (r *Resolver) ResolveFile(path string) (map[string]any, error) {
	location, err := parseLocation(path)
	if err != nil {
		return nil, err
	}

	doc, err := r.loader.Load(location.String())
	if err != nil {
		return nil, err
	}

	resolved, err := r.Resolve(location.String(), doc)
	if err != nil {
		return nil, err
	}

	switch m := resolved.(type) {
	case map[string]any:
		return m, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("%s: schema must be a mapping, got %T", path, resolved)
	}
}

// ResolveFile loads and resolves the document at path using the filesystem.
func ResolveFile(path string) (map[string]any, error) {
	return NewResolver().ResolveFile(path)
}

// resolveNode returns a resolved copy of node, which belongs to doc.
func (res *resolution) resolveNode(doc *document, node any, depth int) (any, error) {
	if depth > res.maxDepth {
		return nil, fmt.Errorf("%w (%d) in %s", ErrMaxDepth, res.maxDepth,
			doc.location.String())
	}

	switch n := node.(type) {
	case map[string]any:
		raw, ok := n[refKey]
		if !ok {
			out := make(map[string]any, len(n))
			for k, v := range n {
				resolved, err := res.resolveNode(doc, v, depth+1)
				if err != nil {
					return nil, err
				}
				out[k] = resolved
			}
			return out, nil
		}

		target, err := res.dereference(doc, raw, depth)
		if err != nil {
			return nil, err
		}

		siblings := make(map[string]any, len(n)-1)
		for k, v := range n {
			if k != refKey {
				siblings[k] = v
			}
		}
		if len(siblings) == 0 {
			return target, nil
		}
		// Content inherited from the target is resolved already, siblings are
		// resolved against the declaring document.
		return res.resolveNode(doc, Merge(target, siblings), depth+1)
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			resolved, err := res.resolveNode(doc, v, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return node, nil
	}
}

// dereference finds the target of a $ref declared in doc and resolves it.
func (res *resolution) dereference(doc *document, raw any, depth int) (any, error) {
	refErr := func(err error) error {
		return &RefError{Ref: fmt.Sprint(raw), Base: documentKey(doc.location), Err: err}
	}

	ptr, err := parsePointer(raw)
	if err != nil {
		return nil, refErr(err)
	}

	owner := doc
	if ptr.document != "" {
		if owner, err = res.load(doc.location, ptr.document); err != nil {
			return nil, refErr(err)
		}
	}

	node, err := walkFragment(owner.root, ptr.tokens)
	if err != nil {
		return nil, refErr(err)
	}

	key := documentKey(owner.location) + "#" + ptr.fragment
	if idx := slices.Index(res.targets, key); idx >= 0 {
		return nil, &CycleError{Chain: append(slices.Clone(res.targets[idx:]), key)}
	}
	log.Debugf("Resolving %s", key)

	res.targets = append(res.targets, key)
	defer func() {
		res.targets = res.targets[:len(res.targets)-1]
	}()
	return res.resolveNode(owner, node, depth+1)
}

// load returns the document ref designates relative to base.
func (res *resolution) load(base *url.URL, ref string) (*document, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPointer, err)
	}

	location := base.ResolveReference(refURL)
	key := documentKey(location)
	if doc, ok := res.documents[key]; ok {
		return doc, nil
	}

	root, err := res.loader.Load(key)
	if err != nil {
		return nil, err
	}
	doc := &document{location: location, root: root}
	res.documents[key] = doc
	return doc, nil
}
