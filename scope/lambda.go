package scope

import (
	"strconv"

	"github.com/glslt-go/glslt/glsl"
)

// substituteLambda rewrites bound — a template-argument expression treated
// as a lambda body — replacing `_1, _2, ...` (positional) and, when
// paramNames is non-empty, `_<paramName>` (named) placeholders with the
// corresponding call-site argument expression from args. Every other node
// is deep-copied unchanged so repeated call sites never alias the same
// subtree.
func substituteLambda(bound glsl.Expr, args []glsl.Expr, paramNames []string) glsl.Expr {
	byPositional := make(map[string]glsl.Expr, len(args))
	for i, a := range args {
		byPositional["_"+strconv.Itoa(i+1)] = a
	}
	byName := make(map[string]glsl.Expr, len(paramNames))
	for i, n := range paramNames {
		if n != "" && i < len(args) {
			byName["_"+n] = args[i]
		}
	}

	var walk func(e glsl.Expr) glsl.Expr
	walk = func(e glsl.Expr) glsl.Expr {
		if e == nil {
			return nil
		}
		switch e := e.(type) {
		case *glsl.Variable:
			if repl, ok := byPositional[e.Name]; ok {
				return repl
			}
			if repl, ok := byName[e.Name]; ok {
				return repl
			}
			cp := *e
			return &cp
		case *glsl.IntLit:
			cp := *e
			return &cp
		case *glsl.FloatLit:
			cp := *e
			return &cp
		case *glsl.UintLit:
			cp := *e
			return &cp
		case *glsl.BoolLit:
			cp := *e
			return &cp
		case *glsl.CallExpr:
			newArgs := make([]glsl.Expr, len(e.Args))
			for i, a := range e.Args {
				newArgs[i] = walk(a)
			}
			return &glsl.CallExpr{Fun: e.Fun, Args: newArgs}
		case *glsl.BinaryExpr:
			return &glsl.BinaryExpr{Op: e.Op, X: walk(e.X), Y: walk(e.Y)}
		case *glsl.UnaryExpr:
			return &glsl.UnaryExpr{Op: e.Op, X: walk(e.X), Postfix: e.Postfix}
		case *glsl.CondExpr:
			return &glsl.CondExpr{Cond: walk(e.Cond), Then: walk(e.Then), Else: walk(e.Else)}
		case *glsl.AssignExpr:
			return &glsl.AssignExpr{Op: e.Op, Lhs: walk(e.Lhs), Rhs: walk(e.Rhs)}
		case *glsl.SelectExpr:
			return &glsl.SelectExpr{X: walk(e.X), Field: e.Field}
		case *glsl.IndexExpr:
			return &glsl.IndexExpr{X: walk(e.X), Index: walk(e.Index)}
		case *glsl.ParenExpr:
			return &glsl.ParenExpr{X: walk(e.X)}
		case *glsl.CommaExpr:
			newExprs := make([]glsl.Expr, len(e.Exprs))
			for i, x := range e.Exprs {
				newExprs[i] = walk(x)
			}
			return &glsl.CommaExpr{Exprs: newExprs}
		default:
			return e
		}
	}
	return walk(bound)
}
