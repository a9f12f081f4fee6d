// Package mangle computes the deterministic, content-addressed
// specialization names described in §4.3: the same template invoked with
// textually identical arguments always mangles to the same name, which is
// the cache key §4.5 keys its "already instantiated" check on.
package mangle

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/glslt-go/glslt/glsl"
)

// Arg is one extracted template-argument slot: the expression bound to it,
// paired with the declared pointer-type name of the parameter it fills.
type Arg struct {
	PointerTypeName string
	Expr            glsl.Expr
}

// Name computes the mangled specialization name for template templateName
// given its template-argument slots, using prefix as the configured
// generated-identifier prefix (default "_glslt_", overridable via
// TransformConfig / -p).
//
// buf is the concatenation, in order, of each arg's pointer-type name
// followed by the pretty-printed text of its expression; the mangled name
// is prefix + templateName + "_" + the first 6 hex characters of buf's
// SHA-1. SHA-1 here is a short deterministic content hash, not a security
// primitive — any stable 160-bit-or-more hash with a hex form would do.
func Name(prefix, templateName string, args []Arg) string {
	var buf strings.Builder
	for _, a := range args {
		buf.WriteString(a.PointerTypeName)
		buf.WriteString(glsl.SprintExpr(a.Expr))
	}
	sum := sha1.Sum([]byte(buf.String()))
	hexSum := hex.EncodeToString(sum[:])
	return prefix + templateName + "_" + hexSum[:6]
}
