package scope_test

import (
	"errors"
	"testing"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/registry"
	"github.com/glslt-go/glslt/scope"
)

type noopInstantiator struct{}

func (noopInstantiator) TransformExpr(e glsl.Expr, s scope.Scope) (glsl.Expr, error) {
	return e, nil
}

func newLocal(t *testing.T) (*scope.Global, *scope.Local) {
	t.Helper()
	reg := registry.New()
	g := scope.NewGlobal(scope.DefaultConfig(), reg)
	l := scope.NewLocal(g, "_glslt_templ_abcdef", nil)
	return g, l
}

func TestCapturedParametersDedupAndSort(t *testing.T) {
	_, l := newLocal(t)

	high := scope.DeclaredSymbol{Name: "b", SymbolID: 5, GenID: "_glslt_lp1"}
	low := scope.DeclaredSymbol{Name: "a", SymbolID: 1, GenID: "_glslt_lp0"}

	l.Capture(high, "b")
	l.Capture(low, "a")
	l.Capture(high, "b") // repeated reference to the same symbol must not duplicate

	got := l.CapturedParameters()
	if len(got) != 2 {
		t.Fatalf("got %d captures, want 2: %+v", len(got), got)
	}
	if got[0].SymbolID != 1 || got[1].SymbolID != 5 {
		t.Errorf("captures not sorted by SymbolID ascending: %+v", got)
	}
}

func TestMergeParentCapturesPropagatesByGenID(t *testing.T) {
	_, parent := newLocal(t)
	outer := scope.DeclaredSymbol{Name: "k", SymbolID: 2, GenID: "_glslt_lp2"}
	parent.Capture(outer, "k")

	child := scope.NewLocal(parent, "_glslt_inner_123456", nil)
	child.MergeParentCaptures(parent.CapturedParameters())

	got := child.CapturedParameters()
	if len(got) != 1 {
		t.Fatalf("got %d captures, want 1: %+v", len(got), got)
	}
	if got[0].CallSiteName != outer.GenID {
		t.Errorf("got CallSiteName %q, want the parent's GenID %q (the nested body only knows this value by its forwarded name)", got[0].CallSiteName, outer.GenID)
	}
}

func TestBeginInstantiationDetectsCycle(t *testing.T) {
	g, _ := newLocal(t)
	if !g.BeginInstantiation("_glslt_templ_abcdef") {
		t.Fatalf("first BeginInstantiation should succeed")
	}
	if g.BeginInstantiation("_glslt_templ_abcdef") {
		t.Fatalf("re-entering an in-progress mangled name should fail")
	}
	g.EndInstantiation("_glslt_templ_abcdef")
	if !g.BeginInstantiation("_glslt_templ_abcdef") {
		t.Fatalf("BeginInstantiation should succeed again after EndInstantiation")
	}
}

func TestLocalForwardsInstantiationTrackingToGlobal(t *testing.T) {
	g, l := newLocal(t)
	if !l.BeginInstantiation("_glslt_other_111111") {
		t.Fatalf("Local.BeginInstantiation should succeed on first use")
	}
	if g.BeginInstantiation("_glslt_other_111111") {
		t.Fatalf("Global should see the in-progress marker set via Local")
	}
	l.EndInstantiation("_glslt_other_111111")
	// EndInstantiation only clears the in-progress marker; it never marks
	// the name as declared.
	if g.TemplateInstanceDeclared("_glslt_other_111111") {
		t.Errorf("EndInstantiation must not mark the name as declared")
	}
}

func TestResolveFunctionNameDelegatesThroughLocal(t *testing.T) {
	_, l := newLocal(t)
	if _, ok := l.ResolveFunctionName("doesNotExist"); ok {
		t.Errorf("ResolveFunctionName should fail to resolve a name bound nowhere in the chain")
	}
}

func TestTransformArgCallRejectsUndeclaredPointerType(t *testing.T) {
	_, l := newLocal(t)
	// "Ghost" is never ingested into the registry backing this Local's
	// Global, so the pointer-type lookup transform_arg_call performs before
	// rewriting the call must fail rather than silently treat it as having
	// no lambda parameter names.
	l.SetArgs([]scope.TemplateArg{
		{Expr: &glsl.Variable{Name: "_1"}, PointerTypeName: "Ghost", ParamName: "f"},
	})

	call := &glsl.CallExpr{Fun: glsl.FunIdentifier{Ident: "f"}}
	_, err := l.TransformArgCall(call, noopInstantiator{})

	var want *glslterrors.UndeclaredPointerType
	if !errors.As(err, &want) {
		t.Fatalf("got error %v (%T), want *glslterrors.UndeclaredPointerType", err, err)
	}
	if want.Name != "Ghost" {
		t.Errorf("got Name %q, want %q", want.Name, "Ghost")
	}
}
