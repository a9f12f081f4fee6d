package glslt_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/glslt-go/glslt"
	"github.com/glslt-go/glslt/glsl"
)

func transform(t *testing.T, src string) string {
	t.Helper()
	tu, err := glsl.ParseTranslationUnit(src, "test.glsl")
	if err != nil {
		t.Fatalf("ParseTranslationUnit: %v", err)
	}
	out, err := glslt.Transform(tu)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	return glsl.Sprint(out)
}

// TestDirectNameArgumentIsRewrittenInPlace covers the case where a template
// argument is a bare name that already resolves to a real function: the
// specialization body calls that function directly, with no lambda
// substitution involved.
func TestDirectNameArgumentIsRewrittenInPlace(t *testing.T) {
	src := `
float Fn(in float a, in float b);

float realAdd(in float a, in float b) {
	return a + b;
}

float templ(in Fn f, in float x) {
	return f(x, 1.0);
}

void main() {
	float r = templ(realAdd, 2.0);
}
`[1:]

	got := transform(t, src)

	if strings.Contains(got, "templ(") {
		t.Errorf("template should be fully consumed, got:\n%s", got)
	}

	specRe := regexp.MustCompile(`float (_glslt_templ_[0-9a-f]{6})\(float x\) \{\n\treturn realAdd\(x, 1\.0\);\n\}`)
	m := specRe.FindStringSubmatch(got)
	if m == nil {
		t.Fatalf("no specialization matching direct-name substitution found, got:\n%s", got)
	}
	name := m[1]

	if !strings.Contains(got, "float r = "+name+"(2.0);") {
		t.Errorf("call site not rewritten to call %s(2.0), got:\n%s", name, got)
	}
}

// TestLambdaArgumentsDedupeByText covers two call sites sharing an
// identical lambda-argument text (one specialization, reused) and a third
// with distinct text (a second, distinct specialization) — the content
// addressing in §4.3/§4.5 is keyed only on the pointer-typed argument's
// pretty-printed text, never on the other call-site arguments.
func TestLambdaArgumentsDedupeByText(t *testing.T) {
	src := `
float Fn(in float a, in float b);

float templ(in Fn f, in float x) {
	return f(x, 1.0);
}

void main() {
	float p = templ(_1 + _2, 2.0);
	float q = templ(_1 - _2, 3.0);
	float s = templ(_1 + _2, 9.0);
}
`[1:]

	got := transform(t, src)

	names := regexp.MustCompile(`float (_glslt_templ_[0-9a-f]{6})\(float x\)`).FindAllStringSubmatch(got, -1)
	distinct := map[string]bool{}
	for _, n := range names {
		distinct[n[1]] = true
	}
	if len(distinct) != 2 {
		t.Fatalf("got %d distinct specializations, want 2 (one per distinct lambda body): %v", len(distinct), distinct)
	}

	pName := regexp.MustCompile(`float p = (\w+)\(2\.0\);`).FindStringSubmatch(got)
	qName := regexp.MustCompile(`float q = (\w+)\(3\.0\);`).FindStringSubmatch(got)
	sName := regexp.MustCompile(`float s = (\w+)\(9\.0\);`).FindStringSubmatch(got)
	if pName == nil || qName == nil || sName == nil {
		t.Fatalf("could not find all three rewritten call sites in:\n%s", got)
	}
	if pName[1] != sName[1] {
		t.Errorf("p and s share the same lambda text %q and should resolve to the same specialization, got %s and %s", "_1 + _2", pName[1], sName[1])
	}
	if pName[1] == qName[1] {
		t.Errorf("p and q use distinct lambda text and must resolve to distinct specializations, both got %s", pName[1])
	}

	if !strings.Contains(got, "return x + 1.0;\n}") {
		t.Errorf("expected the \"_1 + _2\" specialization body to substitute to x + 1.0, got:\n%s", got)
	}
	if !strings.Contains(got, "return x - 1.0;\n}") {
		t.Errorf("expected the \"_1 - _2\" specialization body to substitute to x - 1.0, got:\n%s", got)
	}
}

// TestOuterVariableIsCaptured covers a lambda-argument expression that
// references a variable from the enclosing function: the specialization
// gains an extra formal parameter for it, and the call site forwards the
// variable's own name as the extra argument.
func TestOuterVariableIsCaptured(t *testing.T) {
	src := `
float Fn(in float a);

float templ(in Fn f, in float x) {
	return f(x);
}

void main() {
	float k = 3.0;
	float r = templ(_1 + k, 2.0);
}
`[1:]

	got := transform(t, src)

	specRe := regexp.MustCompile(`float (_glslt_templ_[0-9a-f]{6})\(float x, float (_glslt_lp\d+)\) \{\n\treturn x \+ (_glslt_lp\d+);\n\}`)
	m := specRe.FindStringSubmatch(got)
	if m == nil {
		t.Fatalf("no specialization with a captured extra parameter found, got:\n%s", got)
	}
	name, paramName, bodyName := m[1], m[2], m[3]
	if paramName != bodyName {
		t.Errorf("captured parameter name %q does not match the name used in the body %q", paramName, bodyName)
	}

	if !strings.Contains(got, "float r = "+name+"(2.0, k);") {
		t.Errorf("call site not rewritten to forward k as the captured argument, got:\n%s", got)
	}
}

// TestNestedTemplateCapturePropagates covers a template (infillSolidBorder)
// that is itself specialized because its caller's lambda captures a
// variable (prevColor), and whose body in turn calls a second template
// (filler) with a lambda built from the already-captured value — the same
// captured variable must surface in the outer specialization's own
// signature and propagate into the inner specialization's signature too,
// without being captured twice.
func TestNestedTemplateCapturePropagates(t *testing.T) {
	src := `
vec4 ColorFunction(float phase);

vec4 filler(float phase, float width, ColorFunction inner) {
	return width * inner(phase);
}

vec4 infillSolidBorder(float phase, float width, ColorFunction cfn) {
	return filler(phase, width, cfn(phase));
}

vec4 layerBody(vec4 prevColor) {
	return infillSolidBorder(12.5, 2.0, vec4(prevColor.xyz / _1, 1.0));
}

void main() {
	gl_FragColor = layerBody(vec4(0.0, 0.0, 0.0, 1.0));
}
`[1:]

	got := transform(t, src)

	outerRe := regexp.MustCompile(`vec4 (_glslt_infillSolidBorder_[0-9a-f]{6})\(float phase, float width, vec4 (_glslt_lp\d+)\) \{`)
	outerM := outerRe.FindStringSubmatch(got)
	if outerM == nil {
		t.Fatalf("infillSolidBorder's specialization should gain exactly one captured vec4 parameter, got:\n%s", got)
	}
	outerName, capturedName := outerM[1], outerM[2]

	innerRe := regexp.MustCompile(`vec4 (_glslt_filler_[0-9a-f]{6})\(float phase, float width, vec4 (_glslt_lp\d+), float (_glslt_lp\d+)\) \{`)
	innerM := innerRe.FindStringSubmatch(got)
	if innerM == nil {
		t.Fatalf("filler's specialization should gain the propagated vec4 capture plus its own float capture, got:\n%s", got)
	}
	innerName, innerVec4Capture, innerFloatCapture := innerM[1], innerM[2], innerM[3]

	if innerVec4Capture != capturedName {
		t.Errorf("filler's propagated capture %q should be the same symbol infillSolidBorder captured (%q), not a second distinct one", innerVec4Capture, capturedName)
	}

	if !strings.Contains(got, "return width * vec4("+capturedName+".xyz / "+innerFloatCapture+", 1.0);") {
		t.Errorf("filler's body should index the propagated capture and its own captured phase, got:\n%s", got)
	}

	wantCall := innerName + "(phase, width, " + capturedName + ", phase)"
	if !strings.Contains(got, wantCall) {
		t.Errorf("infillSolidBorder's specialization should call filler's specialization as %q, got:\n%s", wantCall, got)
	}

	if !strings.Contains(got, outerName+"(12.5, 2.0, prevColor)") {
		t.Errorf("layerBody should call infillSolidBorder's specialization forwarding prevColor by its own name, got:\n%s", got)
	}
}

// TestTransformIsIdempotent covers §8's idempotence invariant: running the
// transform a second time over its own output is a no-op, since the
// output no longer contains any pointer types or template calls.
func TestTransformIsIdempotent(t *testing.T) {
	src := `
float Fn(in float a, in float b);

float templ(in Fn f, in float x) {
	return f(x, 1.0);
}

void main() {
	float r = templ(_1 + _2, 2.0);
}
`[1:]

	once := transform(t, src)

	tu, err := glsl.ParseTranslationUnit(once, "test.glsl")
	if err != nil {
		t.Fatalf("re-parsing the first transform's output: %v", err)
	}
	out, err := glslt.Transform(tu)
	if err != nil {
		t.Fatalf("second Transform: %v", err)
	}
	twice := glsl.Sprint(out)

	if once != twice {
		t.Errorf("transform is not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

// TestTransformMinReachabilityAndOrdering covers the minifying pipeline's
// scenarios together: an unreferenced function is dropped entirely, a
// struct chain is emitted with its dependency before its dependent, a
// #define only referenced by a reachable function survives, and the
// #version directive is always preserved as a static declaration.
func TestTransformMinReachabilityAndOrdering(t *testing.T) {
	src := `
#version 330 core

#define PI 3.14159

struct A { float x; };
struct B { A a; };

float helper(in B b) {
	return b.a.x * PI;
}

float unused(in float y) {
	return y * 2.0;
}

void main() {
	float v = helper(B(A(1.0)));
}
`[1:]

	tu, err := glsl.ParseTranslationUnit(src, "test.glsl")
	if err != nil {
		t.Fatalf("ParseTranslationUnit: %v", err)
	}
	out, err := glslt.TransformMin(tu, []string{"main"})
	if err != nil {
		t.Fatalf("TransformMin: %v", err)
	}
	got := glsl.Sprint(out)

	if strings.Contains(got, "unused") {
		t.Errorf("unreferenced function must be dropped entirely, got:\n%s", got)
	}
	if !strings.HasPrefix(got, "#version 330 core\n") {
		t.Errorf("static #version directive must lead the output, got:\n%s", got)
	}

	idxA := strings.Index(got, "struct A {")
	idxB := strings.Index(got, "struct B {")
	idxPI := strings.Index(got, "#define PI")
	idxHelper := strings.Index(got, "float helper(")
	idxMain := strings.Index(got, "void main(")
	if idxA < 0 || idxB < 0 || idxPI < 0 || idxHelper < 0 || idxMain < 0 {
		t.Fatalf("missing expected declaration in output:\n%s", got)
	}
	if !(idxA < idxB && idxB < idxPI && idxPI < idxHelper && idxHelper < idxMain) {
		t.Errorf("dependency ordering violated: want struct A < struct B < #define PI < helper < main, got indices A=%d B=%d PI=%d helper=%d main=%d\n%s",
			idxA, idxB, idxPI, idxHelper, idxMain, got)
	}
}
