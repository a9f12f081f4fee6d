// Package registry implements the Template Registry R (§4.1): it catalogs
// declared pointer types and template definitions, and separates template
// parameters from ordinary parameters in a function signature.
package registry

import (
	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
)

// TemplateParameter is §3's record: a pointer-typed parameter position,
// stripped from the template's signature.
type TemplateParameter struct {
	TypeName string
	Symbol   string // "" if the slot is unnamed
	Index    int    // 0-based position in the original parameter list
}

// TemplateDefinition is §3's record: the original prototype plus a
// stripped definition with pointer-typed parameters removed.
type TemplateDefinition struct {
	Original   *glsl.Prototype
	Stripped   *glsl.FuncDef
	Parameters []TemplateParameter
}

// IngestResult tags what R decided about one external declaration.
type IngestResult struct {
	ConsumedAsType     bool
	ConsumedAsTemplate *TemplateDefinition
	Passthrough        glsl.ExternalDecl // set iff neither of the above
}

// Registry is R: pointer types, template definitions, and known (ordinary)
// functions, each keyed by name. Pointer types also keep their insertion
// order (pointerOrder); templates and known functions are plain maps.
type Registry struct {
	pointerTypes   map[string]*glsl.Prototype
	pointerOrder   []string
	templates      map[string]*TemplateDefinition
	knownFunctions map[string]*glsl.Prototype
}

func New() *Registry {
	return &Registry{
		pointerTypes:   make(map[string]*glsl.Prototype),
		templates:      make(map[string]*TemplateDefinition),
		knownFunctions: make(map[string]*glsl.Prototype),
	}
}

func (r *Registry) PointerType(name string) (*glsl.Prototype, bool) {
	p, ok := r.pointerTypes[name]
	return p, ok
}

func (r *Registry) PointerTypeNames() []string {
	out := make([]string, len(r.pointerOrder))
	copy(out, r.pointerOrder)
	return out
}

func (r *Registry) Template(name string) (*TemplateDefinition, bool) {
	t, ok := r.templates[name]
	return t, ok
}

func (r *Registry) KnownFunction(name string) (*glsl.Prototype, bool) {
	p, ok := r.knownFunctions[name]
	return p, ok
}

// PushFunctionDeclaration records an ordinary function's prototype in the
// known-functions table, per §4.6's "push_function_declaration".
func (r *Registry) PushFunctionDeclaration(proto *glsl.Prototype) {
	r.knownFunctions[proto.Name] = proto
}

// Ingest implements §4.1's contract.
func (r *Registry) Ingest(decl glsl.ExternalDecl) (IngestResult, error) {
	if fp, ok := decl.(*glsl.Declaration); ok {
		if proto, ok := fp.Decl.(*glsl.FuncProtoDecl); ok {
			return r.ingestPointerType(proto.Proto)
		}
		return IngestResult{Passthrough: decl}, nil
	}

	if fd, ok := decl.(*glsl.FuncDef); ok {
		return r.ingestFuncDef(fd)
	}

	return IngestResult{Passthrough: decl}, nil
}

func (r *Registry) ingestPointerType(proto *glsl.Prototype) (IngestResult, error) {
	if prev, exists := r.pointerTypes[proto.Name]; exists {
		return IngestResult{}, &glslterrors.DuplicatePointerDefinition{
			Name:     proto.Name,
			Previous: glsl.SprintDecl(&glsl.Declaration{Decl: &glsl.FuncProtoDecl{Proto: prev}}),
		}
	}
	r.pointerTypes[proto.Name] = proto
	r.pointerOrder = append(r.pointerOrder, proto.Name)
	return IngestResult{ConsumedAsType: true}, nil
}

func (r *Registry) ingestFuncDef(fd *glsl.FuncDef) (IngestResult, error) {
	var params []TemplateParameter
	var stripped []*glsl.Param

	for i, p := range fd.Proto.Params {
		typeName := p.Type.Name
		if _, isPointer := r.pointerTypes[typeName]; !isPointer {
			stripped = append(stripped, p)
			continue
		}
		if p.Array != nil && len(p.Array.Sizes) > 0 {
			return IngestResult{}, &glslterrors.ArrayedTemplateParameter{Name: fd.Proto.Name, Index: i}
		}
		params = append(params, TemplateParameter{TypeName: typeName, Symbol: p.Name, Index: i})
	}

	if len(params) == 0 {
		return IngestResult{Passthrough: fd}, nil
	}

	strippedProto := &glsl.Prototype{
		ReturnType: fd.Proto.ReturnType,
		Name:       fd.Proto.Name,
		Params:     stripped,
	}
	def := &TemplateDefinition{
		Original:   fd.Proto,
		Stripped:   &glsl.FuncDef{Proto: strippedProto, Body: fd.Body},
		Parameters: params,
	}
	r.templates[fd.Proto.Name] = def
	return IngestResult{ConsumedAsTemplate: def}, nil
}

// StrippedParamCount returns the number of ordinary (non-template)
// parameters left in the stripped signature.
func (t *TemplateDefinition) StrippedParamCount() int {
	return len(t.Stripped.Proto.Params)
}

// templateParamIndexSet reports, for a template, the set of original
// parameter indices that are template slots.
func (t *TemplateDefinition) templateParamIndexSet() map[int]bool {
	set := make(map[int]bool, len(t.Parameters))
	for _, tp := range t.Parameters {
		set[tp.Index] = true
	}
	return set
}

// TemplateParamIndexSet exposes templateParamIndexSet to other packages.
// The instantiate package's partition step does not use it; it walks
// Parameters in index order instead.
func (t *TemplateDefinition) TemplateParamIndexSet() map[int]bool {
	return t.templateParamIndexSet()
}
