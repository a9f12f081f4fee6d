// Package scope implements the Scope Interface S (§4.2): a chain of name
// environments rooted at one Global scope, with a Local scope created per
// template instantiation. Per §9's "inheritance depth > 1 forbidden" note,
// this is a two-variant tagged family behind one interface rather than a
// class hierarchy — Local embeds its parent as a Scope field, never
// another Local directly.
package scope

import (
	"sort"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/registry"
)

// TransformConfig is §3's record: the single recognized option is the
// generated-identifier prefix.
type TransformConfig struct {
	Prefix string
}

// DefaultConfig returns the default TransformConfig ("_glslt_" prefix).
func DefaultConfig() TransformConfig {
	return TransformConfig{Prefix: "_glslt_"}
}

// DeclaredSymbol is §3's record, created while the instantiator walks a
// function body.
type DeclaredSymbol struct {
	Name     string
	SymbolID int
	GenID    string
	DeclType string
	Array    *glsl.ArraySpec
}

// CapturedParameter promotes a DeclaredSymbol into a specialization's
// signature because a template-argument expression referenced it.
// CallSiteName is the identifier that names this value at the exact call
// site that triggered the capture: the symbol's original source name when
// captured directly from an instantiator's own symbol table, or its
// GenID when forwarded from an already-captured outer parameter (the
// enclosing specialized body only knows that value by its GenID).
type CapturedParameter struct {
	DeclaredSymbol
	CallSiteName string
}

// TemplateArg is one extracted template-argument slot bound in a Local
// scope: the (possibly capture-rewritten) expression, its pointer-type
// name, and the template parameter's symbol name (if any).
type TemplateArg struct {
	Expr            glsl.Expr
	PointerTypeName string
	ParamName       string
}

// ResolvedKind tags a ResolvedArgument.
type ResolvedKind int

const (
	ResolvedName ResolvedKind = iota
	ResolvedLambda
)

// ResolvedArgument is the result of resolve_function_name: either a bare
// name referencing a real function, or a lambda-body expression.
type ResolvedArgument struct {
	Kind            ResolvedKind
	Name            string
	Expr            glsl.Expr
	PointerTypeName string
}

// Instantiator is the minimal surface the scope package needs from the
// instantiator (§4.4) to keep transform_arg_call's substituted lambda
// bodies fully rewritten: after substitution, nested template calls that
// the lambda body itself contains must still be discovered and
// specialized, so Local.TransformArgCall re-enters the walk once on the
// substituted result.
type Instantiator interface {
	TransformExpr(e glsl.Expr, s Scope) (glsl.Expr, error)
}

// Scope is §4.2's capability interface.
type Scope interface {
	Config() TransformConfig
	Parent() (Scope, bool)
	DeclaredPointerTypes() []string
	GetTemplate(name string) (*registry.TemplateDefinition, bool)
	TemplateInstanceDeclared(mangled string) bool
	MarkInstantiated(mangled string)
	BeginInstantiation(mangled string) bool
	EndInstantiation(mangled string)
	RegisterTemplateInstance(fns []glsl.ExternalDecl)
	TakeInstancedTemplates() []glsl.ExternalDecl
	ResolveFunctionName(name string) (*ResolvedArgument, bool)
	TransformArgCall(call *glsl.CallExpr, instantiator Instantiator) (glsl.Expr, error)
	CapturedParameters() []CapturedParameter
}

// Global is the root scope: the registry, the set of already-mangled
// specialization names (dedup cache), and the buffer of specializations
// minted but not yet drained by the output unit.
type Global struct {
	config       TransformConfig
	reg          *registry.Registry
	instantiated map[string]bool
	inProgress   map[string]bool
	buffered     []glsl.ExternalDecl
}

func NewGlobal(config TransformConfig, reg *registry.Registry) *Global {
	return &Global{config: config, reg: reg, instantiated: make(map[string]bool), inProgress: make(map[string]bool)}
}

func (g *Global) Registry() *registry.Registry { return g.reg }

func (g *Global) Config() TransformConfig { return g.config }

func (g *Global) Parent() (Scope, bool) { return nil, false }

func (g *Global) DeclaredPointerTypes() []string { return g.reg.PointerTypeNames() }

func (g *Global) GetTemplate(name string) (*registry.TemplateDefinition, bool) {
	return g.reg.Template(name)
}

func (g *Global) TemplateInstanceDeclared(mangled string) bool {
	return g.instantiated[mangled]
}

// MarkInstantiated records mangled as declared. Called by the instantiate
// package once a specialization has actually been produced (step 5 of
// §4.5), distinct from TemplateInstanceDeclared's read-only check.
func (g *Global) MarkInstantiated(mangled string) {
	g.instantiated[mangled] = true
}

// BeginInstantiation records mangled as "currently being specialized" and
// reports whether it was not already in progress. A false return means
// the specialization walk has re-entered its own mangled name before
// completing — a recursive template (§9's "detect cycles in the
// in-progress mangled-name set" decision).
func (g *Global) BeginInstantiation(mangled string) bool {
	if g.inProgress[mangled] {
		return false
	}
	g.inProgress[mangled] = true
	return true
}

// EndInstantiation clears mangled's in-progress marker once its
// specialization body has been fully walked.
func (g *Global) EndInstantiation(mangled string) {
	delete(g.inProgress, mangled)
}

func (g *Global) RegisterTemplateInstance(fns []glsl.ExternalDecl) {
	g.buffered = append(g.buffered, fns...)
}

func (g *Global) TakeInstancedTemplates() []glsl.ExternalDecl {
	out := g.buffered
	g.buffered = nil
	return out
}

func (g *Global) ResolveFunctionName(name string) (*ResolvedArgument, bool) {
	if _, ok := g.reg.KnownFunction(name); ok {
		return &ResolvedArgument{Kind: ResolvedName, Name: name}, true
	}
	return nil, false
}

// TransformArgCall at the global scope is never "mine": the global scope
// binds no template parameters, so every call-site rewrite attempt bubbles
// up to "try as a regular template call" (§4.2).
func (g *Global) TransformArgCall(call *glsl.CallExpr, instantiator Instantiator) (glsl.Expr, error) {
	return nil, &glslterrors.TransformAsTemplate{}
}

func (g *Global) CapturedParameters() []CapturedParameter { return nil }

// Local is created per template call (§4.5 step 4).
type Local struct {
	parent      Scope
	mangled     string
	args        []TemplateArg
	byName      map[string]int // template-parameter symbol name -> index into args
	captures    []CapturedParameter
	capturedSet map[string]bool // gen_id -> already captured, to dedup across multiple references
}

// NewLocal constructs a Local scope bound to parent, with the given
// extracted template-argument slots (already capture-rewritten by the
// caller per §4.5 step 3) and the mangled specialization name computed in
// step 2.
func NewLocal(parent Scope, mangled string, args []TemplateArg) *Local {
	byName := make(map[string]int, len(args))
	for i, a := range args {
		if a.ParamName != "" {
			byName[a.ParamName] = i
		}
	}
	return &Local{parent: parent, mangled: mangled, args: args, byName: byName, capturedSet: make(map[string]bool)}
}

func (l *Local) Mangled() string { return l.mangled }

// SetArgs installs the final, capture-renamed template-argument list,
// rebuilding the by-name lookup used by ResolveFunctionName and
// TransformArgCall. Called once, after NewLocal, by the caller that
// capture-walks each slot expression (capture must see this Local to
// record captures before the final expr list is known).
func (l *Local) SetArgs(args []TemplateArg) {
	l.args = args
	l.byName = make(map[string]int, len(args))
	for i, a := range args {
		if a.ParamName != "" {
			l.byName[a.ParamName] = i
		}
	}
}

func (l *Local) Config() TransformConfig { return l.parent.Config() }

func (l *Local) Parent() (Scope, bool) { return l.parent, true }

func (l *Local) DeclaredPointerTypes() []string { return l.parent.DeclaredPointerTypes() }

func (l *Local) GetTemplate(name string) (*registry.TemplateDefinition, bool) {
	return l.parent.GetTemplate(name)
}

func (l *Local) TemplateInstanceDeclared(mangled string) bool {
	return l.parent.TemplateInstanceDeclared(mangled)
}

func (l *Local) MarkInstantiated(mangled string) {
	l.parent.MarkInstantiated(mangled)
}

func (l *Local) BeginInstantiation(mangled string) bool {
	return l.parent.BeginInstantiation(mangled)
}

func (l *Local) EndInstantiation(mangled string) {
	l.parent.EndInstantiation(mangled)
}

func (l *Local) RegisterTemplateInstance(fns []glsl.ExternalDecl) {
	l.parent.RegisterTemplateInstance(fns)
}

func (l *Local) TakeInstancedTemplates() []glsl.ExternalDecl {
	return l.parent.TakeInstancedTemplates()
}

// ResolveFunctionName implements §4.4's "Resolution of a name to a
// function": if name is bound to a template parameter, resolve through the
// bound argument (a bare variable naming a real function, or else treated
// as a lambda); otherwise delegate to the parent.
func (l *Local) ResolveFunctionName(name string) (*ResolvedArgument, bool) {
	idx, ok := l.byName[name]
	if !ok {
		return l.parent.ResolveFunctionName(name)
	}
	arg := l.args[idx]
	if v, ok := arg.Expr.(*glsl.Variable); ok {
		if resolved, ok := l.parent.ResolveFunctionName(v.Name); ok {
			resolved.PointerTypeName = arg.PointerTypeName
			return resolved, true
		}
	}
	return &ResolvedArgument{Kind: ResolvedLambda, Expr: arg.Expr, PointerTypeName: arg.PointerTypeName}, true
}

// TransformArgCall implements §4.5's "Rewriting a template-parameter
// call". call.Args have already been pre-order transformed by the caller.
func (l *Local) TransformArgCall(call *glsl.CallExpr, instantiator Instantiator) (glsl.Expr, error) {
	name := call.Fun.Name()
	idx, ok := l.byName[name]
	if !ok {
		// Not bound here: if it's a nested template in scope, let §4.4
		// handle specialization; otherwise bubble further up the chain.
		if _, isTemplate := l.GetTemplate(name); isTemplate {
			return nil, &glslterrors.TransformAsTemplate{}
		}
		return l.parent.TransformArgCall(call, instantiator)
	}

	bound := l.args[idx]

	// The pointer type must still be declared at the point of rewrite: this
	// mirrors local_scope.rs's transform_arg_call, which looks up the bound
	// argument's pointer type before deciding whether it's a direct function
	// reference or a lambda body, and fails the whole rewrite if it's gone.
	pt, ok := l.findPointerTypeFor(idx)
	if !ok {
		return nil, &glslterrors.UndeclaredPointerType{Name: bound.PointerTypeName}
	}

	if v, isVar := bound.Expr.(*glsl.Variable); isVar {
		if _, isReal := l.parent.ResolveFunctionName(v.Name); isReal {
			return &glsl.CallExpr{Fun: glsl.FunIdentifier{Ident: v.Name}, Args: call.Args}, nil
		}
	}

	substituted := substituteLambda(bound.Expr, call.Args, lambdaParamNames(pt))
	return instantiator.TransformExpr(substituted, l)
}

// lambdaParamNames returns the pointer type's declared parameter names,
// used for `_name` placeholder substitution alongside `_1, _2, ...`.
func lambdaParamNames(pt *glsl.Prototype) []string {
	names := make([]string, len(pt.Params))
	for i, p := range pt.Params {
		names[i] = p.Name
	}
	return names
}

func (l *Local) findPointerTypeFor(idx int) (*glsl.Prototype, bool) {
	g := rootGlobal(l)
	if g == nil {
		return nil, false
	}
	return g.Registry().PointerType(l.args[idx].PointerTypeName)
}

func rootGlobal(s Scope) *Global {
	for {
		if g, ok := s.(*Global); ok {
			return g
		}
		p, ok := s.Parent()
		if !ok {
			return nil
		}
		s = p
	}
}

// CapturedParameters returns the local scope's capture list, sorted by
// symbol_id ascending (§4.5 step 3's stability contract).
func (l *Local) CapturedParameters() []CapturedParameter {
	out := make([]CapturedParameter, len(l.captures))
	copy(out, l.captures)
	sort.Slice(out, func(i, j int) bool { return out[i].SymbolID < out[j].SymbolID })
	return out
}

// Capture records sym as captured if it has not already been recorded by
// gen_id (idempotent across repeated references within the same
// template-argument expression set). Symbol ids restart at 0 in every
// nested instantiator, so only the gen_id, minted from the shared
// counter, tells two symbols apart. callSiteName is the identifier used
// to forward this value as an argument at the call site under
// specialization.
func (l *Local) Capture(sym DeclaredSymbol, callSiteName string) {
	if l.capturedSet[sym.GenID] {
		return
	}
	l.capturedSet[sym.GenID] = true
	l.captures = append(l.captures, CapturedParameter{DeclaredSymbol: sym, CallSiteName: callSiteName})
}

// MergeParentCaptures merges in any of parent's already-captured
// parameters not yet collected here, per §4.5 step 3's final merge: these
// propagate transitively even when this template's own argument
// expressions never reference them directly.
func (l *Local) MergeParentCaptures(parentCaptures []CapturedParameter) {
	for _, c := range parentCaptures {
		l.Capture(c.DeclaredSymbol, c.GenID)
	}
}

// TemplateArgs exposes the bound template-argument slots. The instantiate
// package builds a specialization's extra formal parameters and call-site
// arguments from CapturedParameters, not from this list.
func (l *Local) TemplateArgs() []TemplateArg { return l.args }
