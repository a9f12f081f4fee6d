package glsl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/glslt-go/glslt/glsl"
)

func TestParseTranslationUnitRoundTrip(t *testing.T) {
	src := `
#version 330 core

struct Light {
	vec3 pos;
	float intensity;
};

uniform Light u_light;

float square(in float x) {
	float y = x * x;
	return y;
}

void main() {
	float a = square(u_light.intensity);
	if (a > 0.0) {
		a = a + 1.0;
	} else {
		a = 0.0;
	}
}
`[1:]

	want := `
#version 330 core

struct Light {
	vec3 pos;
	float intensity;
};

uniform Light u_light;

float square(in float x) {
	float y = x * x;
	return y;
}

void main() {
	float a = square(u_light.intensity);
	if (a > 0.0) {
		a = a + 1.0;
	}
	else {
		a = 0.0;
	}
}
`[1:]

	tu, err := glsl.ParseTranslationUnit(src, "test.glsl")
	if err != nil {
		t.Fatalf("ParseTranslationUnit: %v", err)
	}
	got := glsl.Sprint(tu)
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s\ndiff:\n%s", got, want, cmp.Diff(want, got))
	}
}

func TestParseConstructorVsCallDisambiguation(t *testing.T) {
	src := `
struct Point { float x; float y; };

Point make(in float x, in float y) {
	return Point(x, y);
}

void main() {
	Point p = make(1.0, 2.0);
	vec3 v = vec3(1.0, 2.0, 3.0);
}
`[1:]

	tu, err := glsl.ParseTranslationUnit(src, "test.glsl")
	if err != nil {
		t.Fatalf("ParseTranslationUnit: %v", err)
	}

	var found *glsl.CallExpr
	fd := tu.Decls[1].(*glsl.FuncDef)
	ret := fd.Body.Stmts[0].(*glsl.ReturnStmt)
	found = ret.X.(*glsl.CallExpr)
	if !found.Fun.IsConstructor() {
		t.Errorf("Point(x, y) should be recognized as a constructor call")
	}
	if found.Fun.Name() != "Point" {
		t.Errorf("got callee name %q, want %q", found.Fun.Name(), "Point")
	}

	mainFd := tu.Decls[2].(*glsl.FuncDef)
	callStmt := mainFd.Body.Stmts[0].(*glsl.DeclStmt)
	call := callStmt.Decl.Head.Init.(*glsl.CallExpr)
	if call.Fun.IsConstructor() {
		t.Errorf("make(1.0, 2.0) should not be recognized as a constructor call")
	}
}

func TestParseDefineDirectiveFunctionLike(t *testing.T) {
	src := "#define MAX(a, b) ((a) > (b) ? (a) : (b))\n"
	tu, err := glsl.ParseTranslationUnit(src, "test.glsl")
	if err != nil {
		t.Fatalf("ParseTranslationUnit: %v", err)
	}
	pp := tu.Decls[0].(*glsl.Preprocessor)
	def := pp.Directive.(*glsl.DefineDirective)
	if def.Name != "MAX" {
		t.Errorf("got name %q, want MAX", def.Name)
	}
	want := []string{"a", "b"}
	if diff := cmp.Diff(want, def.Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}
