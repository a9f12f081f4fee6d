// Package glslt implements a GLSL template compiler: it expands
// pointer-typed function parameters into content-addressed specializations
// (see the glsl, registry, scope, instantiate, and unit packages for the
// pipeline stages) and re-emits plain GLSL.
//
// Transform runs the straight pipeline, which preserves input order and
// keeps every declaration. TransformMin runs the minifying pipeline, which
// keeps only what is transitively reachable from a set of wanted root
// function names.
package glslt

import (
	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/registry"
	"github.com/glslt-go/glslt/scope"
	"github.com/glslt-go/glslt/unit"
)

// Option configures a transform run.
type Option func(*scope.TransformConfig)

// WithPrefix overrides the generated-identifier prefix (default "_glslt_").
// An empty prefix leaves the default in place.
func WithPrefix(prefix string) Option {
	return func(c *scope.TransformConfig) {
		if prefix != "" {
			c.Prefix = prefix
		}
	}
}

func buildConfig(opts []Option) scope.TransformConfig {
	cfg := scope.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// Transform runs the straight pipeline over tu: every pointer-type
// declaration and template definition is consumed, every ordinary function
// is walked for template calls, and the result preserves input order with
// specializations spliced in immediately before their first user.
func Transform(tu *glsl.TranslationUnit, opts ...Option) (*glsl.TranslationUnit, error) {
	cfg := buildConfig(opts)
	reg := registry.New()
	global := scope.NewGlobal(cfg, reg)
	u := unit.NewStraight(reg, global, cfg.Prefix)

	for _, d := range tu.Decls {
		if err := u.Ingest(d); err != nil {
			return nil, glslterrors.Wrap("transform", err)
		}
	}
	return u.TranslationUnit(), nil
}

// TransformMin runs the minifying pipeline over tu: the same template
// expansion as Transform, but the output is restricted to the declarations
// transitively reachable from wantedRoots (function names), in DAG
// post-order, preceded by the static declarations (version, extension,
// precision, blocks, invariants) in input order.
func TransformMin(tu *glsl.TranslationUnit, wantedRoots []string, opts ...Option) (*glsl.TranslationUnit, error) {
	cfg := buildConfig(opts)
	reg := registry.New()
	global := scope.NewGlobal(cfg, reg)
	u := unit.NewMinifying(reg, global, cfg.Prefix)

	for _, d := range tu.Decls {
		if err := u.Ingest(d); err != nil {
			return nil, glslterrors.Wrap("transform_min", err)
		}
	}
	return u.Finalize(wantedRoots), nil
}
