package glslterrors_test

import (
	"errors"
	"testing"

	"github.com/glslt-go/glslt/glslterrors"
)

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			"DuplicatePointerDefinition",
			&glslterrors.DuplicatePointerDefinition{Name: "Fn", Previous: "float Fn(float a);"},
			`duplicate pointer type definition "Fn" (previously declared as: float Fn(float a);)`,
		},
		{
			"ArrayedTemplateParameter",
			&glslterrors.ArrayedTemplateParameter{Name: "templ", Index: 2},
			`template "templ": parameter 2 has pointer type with an array specifier`,
		},
		{
			"UnsupportedPreprocessor",
			&glslterrors.UnsupportedPreprocessor{Directive: "#ifdef FOO"},
			"unsupported preprocessor directive in minifying mode: #ifdef FOO",
		},
		{
			"UnsupportedIdl",
			&glslterrors.UnsupportedIdl{List: "float, float;"},
			"unsupported declaration in minifying mode (no declarator name): float, float;",
		},
		{
			"UndeclaredPointerType",
			&glslterrors.UndeclaredPointerType{Name: "Fn"},
			`undeclared pointer type "Fn"`,
		},
		{
			"InvalidParameter",
			&glslterrors.InvalidParameter{Index: 3},
			"invalid parameter at argument position 3",
		},
		{
			"RecursiveTemplate",
			&glslterrors.RecursiveTemplate{Name: "templ"},
			`recursive template instantiation detected for "templ"`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.err.Error(); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestWrapPreservesUnwrapping(t *testing.T) {
	inner := &glslterrors.RecursiveTemplate{Name: "templ"}
	wrapped := glslterrors.Wrap("transform", inner)

	var got *glslterrors.RecursiveTemplate
	if !errors.As(wrapped, &got) {
		t.Fatalf("errors.As failed to find the wrapped *RecursiveTemplate in %v", wrapped)
	}
	if got != inner {
		t.Errorf("got %v, want the original error value %v", got, inner)
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if err := glslterrors.Wrap("transform", nil); err != nil {
		t.Errorf("Wrap(stage, nil) = %v, want nil", err)
	}
}
