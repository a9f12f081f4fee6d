package registry_test

import (
	"errors"
	"testing"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/registry"
)

func protoDecl(proto *glsl.Prototype) *glsl.Declaration {
	return &glsl.Declaration{Decl: &glsl.FuncProtoDecl{Proto: proto}}
}

func TestIngestPointerType(t *testing.T) {
	r := registry.New()
	proto := &glsl.Prototype{ReturnType: glsl.TypeSpecifier{Name: "float"}, Name: "Fn", Params: []*glsl.Param{
		{Type: glsl.TypeSpecifier{Name: "float"}, Name: "a"},
	}}
	result, err := r.Ingest(protoDecl(proto))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !result.ConsumedAsType {
		t.Fatalf("got %+v, want ConsumedAsType", result)
	}
	got, ok := r.PointerType("Fn")
	if !ok || got != proto {
		t.Errorf("PointerType(%q) = %v, %v", "Fn", got, ok)
	}
}

func TestIngestDuplicatePointerType(t *testing.T) {
	r := registry.New()
	proto := &glsl.Prototype{ReturnType: glsl.TypeSpecifier{Name: "float"}, Name: "Fn"}
	if _, err := r.Ingest(protoDecl(proto)); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	_, err := r.Ingest(protoDecl(proto))
	if err == nil {
		t.Fatalf("second Ingest: got nil error, want DuplicatePointerDefinition")
	}
	var dup *glslterrors.DuplicatePointerDefinition
	if !errors.As(err, &dup) {
		t.Fatalf("got error %v (%T), want *DuplicatePointerDefinition", err, err)
	}
	if dup.Name != "Fn" {
		t.Errorf("got Name %q, want %q", dup.Name, "Fn")
	}
}

func TestIngestFuncDefAsTemplate(t *testing.T) {
	r := registry.New()
	pointerProto := &glsl.Prototype{ReturnType: glsl.TypeSpecifier{Name: "float"}, Name: "Fn"}
	if _, err := r.Ingest(protoDecl(pointerProto)); err != nil {
		t.Fatalf("Ingest pointer type: %v", err)
	}

	fd := &glsl.FuncDef{
		Proto: &glsl.Prototype{
			ReturnType: glsl.TypeSpecifier{Name: "float"},
			Name:       "templ",
			Params: []*glsl.Param{
				{Type: glsl.TypeSpecifier{Name: "Fn"}, Name: "f"},
				{Type: glsl.TypeSpecifier{Name: "float"}, Name: "x"},
			},
		},
		Body: &glsl.BlockStmt{},
	}
	result, err := r.Ingest(fd)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.ConsumedAsTemplate == nil {
		t.Fatalf("got %+v, want ConsumedAsTemplate", result)
	}
	def := result.ConsumedAsTemplate
	if def.StrippedParamCount() != 1 {
		t.Errorf("got StrippedParamCount() = %d, want 1", def.StrippedParamCount())
	}
	if len(def.Parameters) != 1 || def.Parameters[0].TypeName != "Fn" || def.Parameters[0].Symbol != "f" || def.Parameters[0].Index != 0 {
		t.Errorf("got Parameters %+v, want one slot (Fn, f, index 0)", def.Parameters)
	}
	if got, _ := r.Template("templ"); got != def {
		t.Errorf("Template(%q) did not return the ingested definition", "templ")
	}
}

func TestIngestFuncDefPlainFunctionPassesThrough(t *testing.T) {
	r := registry.New()
	fd := &glsl.FuncDef{
		Proto: &glsl.Prototype{ReturnType: glsl.TypeSpecifier{Name: "void"}, Name: "main"},
		Body:  &glsl.BlockStmt{},
	}
	result, err := r.Ingest(fd)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Passthrough != fd {
		t.Errorf("got Passthrough %v, want the original FuncDef", result.Passthrough)
	}
}

func TestIngestArrayedTemplateParameterRejected(t *testing.T) {
	r := registry.New()
	pointerProto := &glsl.Prototype{ReturnType: glsl.TypeSpecifier{Name: "float"}, Name: "Fn"}
	if _, err := r.Ingest(protoDecl(pointerProto)); err != nil {
		t.Fatalf("Ingest pointer type: %v", err)
	}
	fd := &glsl.FuncDef{
		Proto: &glsl.Prototype{
			ReturnType: glsl.TypeSpecifier{Name: "float"},
			Name:       "templ",
			Params: []*glsl.Param{
				{Type: glsl.TypeSpecifier{Name: "Fn"}, Name: "f", Array: &glsl.ArraySpec{Sizes: []glsl.Expr{nil}}},
			},
		},
		Body: &glsl.BlockStmt{},
	}
	_, err := r.Ingest(fd)
	var arr *glslterrors.ArrayedTemplateParameter
	if !errors.As(err, &arr) {
		t.Fatalf("got error %v, want *ArrayedTemplateParameter", err)
	}
}
