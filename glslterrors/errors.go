// Package glslterrors holds the closed taxonomy of errors the transform
// core can produce (§7). Each kind is its own exported struct type rather
// than a single tagged enum, in the style go/types and go/scanner report
// diagnostics: callers type-switch or use errors.As, never a string match.
package glslterrors

import (
	"fmt"

	"golang.org/x/xerrors"
)

// DuplicatePointerDefinition fires when two top-level bodyless function
// prototypes share a name. Pointer type names are globally unique (§3).
type DuplicatePointerDefinition struct {
	Name     string
	Previous string // pretty-printed text of the earlier declaration
}

func (e *DuplicatePointerDefinition) Error() string {
	return fmt.Sprintf("duplicate pointer type definition %q (previously declared as: %s)", e.Name, e.Previous)
}

// ArrayedTemplateParameter fires when a template parameter typed by a
// pointer type also carries an array specifier, which §4.1 forbids.
type ArrayedTemplateParameter struct {
	Name  string
	Index int
}

func (e *ArrayedTemplateParameter) Error() string {
	return fmt.Sprintf("template %q: parameter %d has pointer type with an array specifier", e.Name, e.Index)
}

// UnsupportedPreprocessor fires in minifying mode when a preprocessor
// directive other than #version/#extension/#define appears (§4.6).
type UnsupportedPreprocessor struct {
	Directive string
}

func (e *UnsupportedPreprocessor) Error() string {
	return fmt.Sprintf("unsupported preprocessor directive in minifying mode: %s", e.Directive)
}

// UnsupportedIdl fires in minifying mode when an init-declarator list has
// no usable name to key its dependency-DAG node on (§4.6).
type UnsupportedIdl struct {
	List string
}

func (e *UnsupportedIdl) Error() string {
	return fmt.Sprintf("unsupported declaration in minifying mode (no declarator name): %s", e.List)
}

// UndeclaredPointerType fires when a local-scope rewrite refers to a
// pointer type name the registry does not hold (§4.2/§4.4).
type UndeclaredPointerType struct {
	Name string
}

func (e *UndeclaredPointerType) Error() string {
	return fmt.Sprintf("undeclared pointer type %q", e.Name)
}

// TransformAsTemplate is an internal-only control-flow signal returned by a
// scope's TransformArgCall when a call is not a template-parameter
// invocation it can rewrite, meaning "try it as a regular template call".
// It is never user-visible: the instantiator catches it and falls back to
// a template lookup.
type TransformAsTemplate struct{}

func (e *TransformAsTemplate) Error() string { return "internal: transform as template" }

// InvalidParameter fires during specialization (§4.5) when a call site has
// no argument at a template parameter's position. Index is that position
// in the template's original parameter list.
type InvalidParameter struct {
	Index int
}

func (e *InvalidParameter) Error() string {
	return fmt.Sprintf("invalid parameter at argument position %d", e.Index)
}

// RecursiveTemplate is additive surface area beyond §7's original closed
// taxonomy: a template whose specialization would re-enter its own
// mangled name while that name's instantiation is still in progress. See
// DESIGN.md's "recursive template termination" decision.
type RecursiveTemplate struct {
	Name string
}

func (e *RecursiveTemplate) Error() string {
	return fmt.Sprintf("recursive template instantiation detected for %q", e.Name)
}

// Wrap attaches a location/stage prefix to err using xerrors, preserving it
// for errors.As/errors.Unwrap while adding frame info for diagnostics.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return xerrors.Errorf("%s: %w", stage, err)
}
