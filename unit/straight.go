// Package unit implements the Output Unit U (§4.6): the straight variant,
// which preserves input order, and the minifying variant, which tracks a
// dependency DAG and emits only the transitively-needed subset (§4.7).
package unit

import (
	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/instantiate"
	"github.com/glslt-go/glslt/registry"
	"github.com/glslt-go/glslt/scope"
)

// Straight is the straight output unit: an ordered list of external
// declarations, with specializations spliced in immediately before the
// function that first needed them.
type Straight struct {
	reg    *registry.Registry
	global *scope.Global
	prefix string
	decls  []glsl.ExternalDecl
}

// NewStraight creates a straight unit sharing reg and global (the caller
// owns their lifetime for as long as this unit is used, per §3's
// "Ownership" note).
func NewStraight(reg *registry.Registry, global *scope.Global, prefix string) *Straight {
	return &Straight{reg: reg, global: global, prefix: prefix}
}

// PushFunctionDeclaration implements §4.6's push_function_declaration.
func (u *Straight) PushFunctionDeclaration(def *glsl.FuncDef) {
	u.reg.PushFunctionDeclaration(def.Proto)
	u.decls = append(u.decls, def)
}

// Ingest implements §4.6's straight-variant ingest algorithm.
func (u *Straight) Ingest(decl glsl.ExternalDecl) error {
	result, err := u.reg.Ingest(decl)
	if err != nil {
		return err
	}
	if result.ConsumedAsType || result.ConsumedAsTemplate != nil {
		return nil
	}

	if fd, ok := result.Passthrough.(*glsl.FuncDef); ok {
		inst := instantiate.New(u.prefix)
		produced, err := inst.TransformFuncDef(fd, u.global)
		if err != nil {
			return err
		}
		for _, p := range produced {
			u.PushFunctionDeclaration(p.(*glsl.FuncDef))
		}
		return nil
	}

	u.decls = append(u.decls, result.Passthrough)
	return nil
}

// TranslationUnit returns the final translation unit: the concatenation of
// every ingested/produced declaration, in insertion order.
func (u *Straight) TranslationUnit() *glsl.TranslationUnit {
	return &glsl.TranslationUnit{Decls: u.decls}
}
