package unit

import (
	"fmt"
	"regexp"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/instantiate"
	"github.com/glslt-go/glslt/registry"
	"github.com/glslt-go/glslt/scope"
)

// identPattern is used only to extract free identifiers from an
// unparsed macro body for the dependency DAG (§4.6): the source
// preprocessor historically never parsed macro bodies as GLSL, so there
// is no AST to walk here, just lexical text. A regexp is the stdlib tool
// for that and nothing in the retrieval pack does this differently.
var identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// Minifying is the minifying output unit (§4.6): it indexes every
// declaration by its dependency-DAG key, tracks static declarations
// separately, and at finalization emits only what is transitively
// reachable from the wanted roots.
type Minifying struct {
	reg    *registry.Registry
	global *scope.Global
	prefix string

	dag    *dag
	stored map[Key]glsl.ExternalDecl

	staticDecls []glsl.ExternalDecl
}

// NewMinifying creates a minifying unit sharing reg and global.
func NewMinifying(reg *registry.Registry, global *scope.Global, prefix string) *Minifying {
	return &Minifying{
		reg:    reg,
		global: global,
		prefix: prefix,
		dag:    newDAG(),
		stored: make(map[Key]glsl.ExternalDecl),
	}
}

// PushFunctionDeclaration implements §4.6's push_function_declaration for
// the minifying unit: record in R, extend the DAG from the function's
// body, then store it under FunctionDefinition(name).
func (u *Minifying) PushFunctionDeclaration(def *glsl.FuncDef) {
	u.reg.PushFunctionDeclaration(def.Proto)
	w := newDepWalker(u.dag, u.stored)
	w.walkFuncDef(def)
	u.stored[FuncDefKey(def.Proto.Name)] = def
}

// Ingest implements §4.6's minifying-variant ingest algorithm.
func (u *Minifying) Ingest(decl glsl.ExternalDecl) error {
	result, err := u.reg.Ingest(decl)
	if err != nil {
		return err
	}
	if result.ConsumedAsType || result.ConsumedAsTemplate != nil {
		return nil
	}
	return u.ingestPassthrough(result.Passthrough)
}

func (u *Minifying) ingestPassthrough(decl glsl.ExternalDecl) error {
	switch d := decl.(type) {
	case *glsl.FuncDef:
		inst := instantiate.New(u.prefix)
		produced, err := inst.TransformFuncDef(d, u.global)
		if err != nil {
			return err
		}
		for _, p := range produced {
			u.PushFunctionDeclaration(p.(*glsl.FuncDef))
		}
		return nil
	case *glsl.Preprocessor:
		return u.ingestPreprocessor(d)
	case *glsl.Declaration:
		return u.ingestDeclaration(d)
	}
	return nil
}

func (u *Minifying) ingestPreprocessor(d *glsl.Preprocessor) error {
	switch dir := d.Directive.(type) {
	case *glsl.VersionDirective, *glsl.ExtensionDirective:
		u.staticDecls = append(u.staticDecls, d)
		return nil
	case *glsl.DefineDirective:
		u.ingestDefine(d, dir)
		return nil
	case *glsl.RawDirective:
		return &glslterrors.UnsupportedPreprocessor{Directive: dir.Name}
	}
	return nil
}

func (u *Minifying) ingestDefine(d *glsl.Preprocessor, dir *glsl.DefineDirective) {
	exclude := make(map[string]bool, len(dir.Params))
	for _, p := range dir.Params {
		exclude[p] = true
	}

	var key Key
	if dir.Params != nil {
		key = FuncDefKey(dir.Name)
	} else {
		key = DeclarationKey(dir.Name)
	}

	seen := make(map[string]bool)
	for _, m := range identPattern.FindAllString(dir.Value, -1) {
		if exclude[m] || seen[m] || m == dir.Name {
			continue
		}
		seen[m] = true
		u.dag.addEdge(key, DeclarationKey(m))
	}

	u.stored[key] = d
}

func (u *Minifying) ingestDeclaration(d *glsl.Declaration) error {
	switch dd := d.Decl.(type) {
	case *glsl.FuncProtoDecl:
		return fmt.Errorf("minifying unit: unexpected bodyless prototype %q at ingest stage", dd.Proto.Name)

	case *glsl.InitDeclaratorList:
		return u.ingestInitDeclaratorList(d, dd)

	case *glsl.PrecisionDecl, *glsl.InterfaceBlock, *glsl.InvariantDecl:
		u.staticDecls = append(u.staticDecls, d)
		return nil
	}
	return nil
}

func (u *Minifying) ingestInitDeclaratorList(d *glsl.Declaration, dd *glsl.InitDeclaratorList) error {
	if dd.Type.Struct != nil && dd.Type.Struct.Name != "" {
		key := DeclarationKey(dd.Type.Struct.Name)
		w := newDepWalker(u.dag, u.stored)
		w.setStructScopeIfUnset(dd.Type.Struct.Name)
		for _, f := range dd.Type.Struct.Fields {
			w.walkType(f.Type)
		}
		u.stored[key] = d
		return nil
	}

	if dd.Head != nil && dd.Head.Name != "" {
		key := DeclarationKey(dd.Head.Name)
		w := newDepWalker(u.dag, u.stored)
		w.scope, w.scopeSet = key, true
		w.walkType(dd.Type)
		w.walkArray(dd.Head.Array)
		w.walkExpr(dd.Head.Init)
		u.stored[key] = d
		return nil
	}

	return &glslterrors.UnsupportedIdl{List: glsl.SprintDecl(d)}
}

// Finalize implements §4.6's finalization step: a synthetic root with
// edges to FunctionDefinition(w) for each wanted root w, depth-first
// post-order traversal, then static_declarations followed by the
// reached declarations in DFS post-order.
func (u *Minifying) Finalize(wantedRoots []string) *glsl.TranslationUnit {
	roots := make([]Key, len(wantedRoots))
	for i, w := range wantedRoots {
		roots[i] = FuncDefKey(w)
	}

	order := u.dag.reachable(roots)

	decls := make([]glsl.ExternalDecl, 0, len(u.staticDecls)+len(order))
	decls = append(decls, u.staticDecls...)
	for _, k := range order {
		if d, ok := u.stored[k]; ok {
			decls = append(decls, d)
		}
	}
	return &glsl.TranslationUnit{Decls: decls}
}
