package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingDocument is reported when a referenced document cannot be loaded.
	ErrMissingDocument = errors.New("missing document")
	// ErrMissingFragment is reported when a fragment path does not exist in its document.
	ErrMissingFragment = errors.New("missing fragment")
	// ErrMalformedPointer is reported for a $ref value that is not a
	// "[document]#/fragment" string.
	ErrMalformedPointer = errors.New("malformed pointer")
	// ErrCyclicReference is reported when a reference leads back to itself.
	ErrCyclicReference = errors.New("cyclic reference")
	// ErrMaxDepth is reported when resolution nests deeper than allowed.
	ErrMaxDepth = errors.New("maximum resolution depth exceeded")
)

// RefError describes a reference which could not be resolved.
type RefError struct {
	// Ref is the raw $ref value.
	Ref string
	// Base is the location of the document declaring the reference.
	Base string
	// Err is the cause.
	Err error
}

// Error implements the error interface.
func (e *RefError) Error() string {
	return fmt.Sprintf("failed to resolve %q in %s: %s", e.Ref, e.Base, e.Err)
}

// Unwrap returns the cause.
func (e *RefError) Unwrap() error {
	return e.Err
}

// CycleError lists the references forming a cycle. The first and the last
// element are the same target.
type CycleError struct {
	Chain []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicReference, strings.Join(e.Chain, " -> "))
}

// Is makes errors.Is(err, ErrCyclicReference) work.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicReference
}
