package mangle_test

import (
	"testing"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/mangle"
)

func TestNameDeterministic(t *testing.T) {
	args := []mangle.Arg{
		{PointerTypeName: "Fn", Expr: &glsl.BinaryExpr{Op: "+", X: &glsl.Variable{Name: "_1"}, Y: &glsl.FloatLit{Text: "1.0"}}},
	}
	a := mangle.Name("_glslt_", "templ", args)
	b := mangle.Name("_glslt_", "templ", args)
	if a != b {
		t.Errorf("mangle.Name is not deterministic: %q != %q", a, b)
	}
}

func TestNameDistinctForDistinctArguments(t *testing.T) {
	mk := func(op string) []mangle.Arg {
		return []mangle.Arg{
			{PointerTypeName: "Fn", Expr: &glsl.BinaryExpr{Op: op, X: &glsl.Variable{Name: "_1"}, Y: &glsl.Variable{Name: "_2"}}},
		}
	}
	plus := mangle.Name("_glslt_", "templ", mk("+"))
	minus := mangle.Name("_glslt_", "templ", mk("-"))
	if plus == minus {
		t.Errorf("distinct argument expressions mangled to the same name %q", plus)
	}
}

func TestNameIgnoresRegularArguments(t *testing.T) {
	// mangle.Name is only ever called with the template-parameter slots; it
	// has no way to see regular arguments at all, so the same slot always
	// mangles the same way regardless of what else the call site passed.
	same := []mangle.Arg{{PointerTypeName: "Fn", Expr: &glsl.Variable{Name: "_1"}}}
	a := mangle.Name("_glslt_", "templ", same)
	b := mangle.Name("_glslt_", "templ", same)
	if a != b {
		t.Errorf("got %q and %q, want identical names", a, b)
	}
}

func TestNamePrefixAndTemplateName(t *testing.T) {
	name := mangle.Name("foo_", "bar", nil)
	wantPrefix := "foo_bar_"
	if len(name) <= len(wantPrefix) || name[:len(wantPrefix)] != wantPrefix {
		t.Errorf("got %q, want it to start with %q", name, wantPrefix)
	}
	if len(name) != len(wantPrefix)+6 {
		t.Errorf("got name of length %d, want %d (prefix + 6 hex chars)", len(name), len(wantPrefix)+6)
	}
}
