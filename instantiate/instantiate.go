// Package instantiate implements the Instantiator I (§4.4) and
// specialization (§4.5): the AST walker that discovers template calls and
// synthesizes mangled specializations for them.
package instantiate

import (
	"errors"
	"fmt"

	"github.com/glslt-go/glslt/glsl"
	"github.com/glslt-go/glslt/glslterrors"
	"github.com/glslt-go/glslt/mangle"
	"github.com/glslt-go/glslt/registry"
	"github.com/glslt-go/glslt/scope"
)

// Counter mints the monotonically increasing gen_id suffix shared by an
// outermost Instantiator and every Instantiator nested inside it during
// specialization (§4.4: "scoped by the outermost instantiator; nested
// instantiators inherit and advance the counter").
type Counter struct{ n int }

func (c *Counter) next() int {
	v := c.n
	c.n++
	return v
}

// Instantiator is created once per ordinary function definition arriving
// through the output unit (§4.4), plus once more per nested specialization
// body (sharing its outer Counter).
type Instantiator struct {
	prefix      string
	counter     *Counter
	symbols     map[string]scope.DeclaredSymbol
	nextSymbol  int
	err         error
}

// New creates a fresh top-level Instantiator.
func New(prefix string) *Instantiator {
	return &Instantiator{prefix: prefix, counter: &Counter{}, symbols: make(map[string]scope.DeclaredSymbol)}
}

func nested(prefix string, counter *Counter) *Instantiator {
	return &Instantiator{prefix: prefix, counter: counter, symbols: make(map[string]scope.DeclaredSymbol)}
}

// TransformFuncDef walks fd's parameters and body once, discovering and
// specializing template calls. It returns the specializations minted
// during the walk followed by the (possibly rewritten) function
// definition itself, per §4.4's "specializations first, then the
// function" contract — or the first recorded error, per §7's propagation
// policy.
func (i *Instantiator) TransformFuncDef(fd *glsl.FuncDef, sc scope.Scope) ([]glsl.ExternalDecl, error) {
	newBody, err := i.walkBody(fd.Proto, fd.Body, sc)
	if err != nil {
		return nil, err
	}
	if i.err != nil {
		return nil, i.err
	}
	specs := sc.TakeInstancedTemplates()
	return append(specs, &glsl.FuncDef{Proto: fd.Proto, Body: newBody}), nil
}

func (i *Instantiator) walkBody(proto *glsl.Prototype, body *glsl.BlockStmt, sc scope.Scope) (*glsl.BlockStmt, error) {
	for _, p := range proto.Params {
		i.declareSymbol(p.Name, p.Type.Name, p.Array, sc)
	}
	return i.transformBlock(body, sc)
}

// declareSymbol records a function-parameter or local-variable declarator
// as a DeclaredSymbol, skipping unnamed declarators and declarators whose
// type is a pointer type (§4.4/§3).
func (i *Instantiator) declareSymbol(name, declType string, array *glsl.ArraySpec, sc scope.Scope) {
	if name == "" || i.isPointerType(declType, sc) {
		return
	}
	sym := scope.DeclaredSymbol{
		Name:     name,
		SymbolID: i.nextSymbol,
		GenID:    fmt.Sprintf("%slp%d", i.prefix, i.counter.next()),
		DeclType: declType,
		Array:    array,
	}
	i.nextSymbol++
	i.symbols[name] = sym
}

func (i *Instantiator) isPointerType(name string, sc scope.Scope) bool {
	for _, p := range sc.DeclaredPointerTypes() {
		if p == name {
			return true
		}
	}
	return false
}

func (i *Instantiator) recordErr(err error) {
	if i.err == nil {
		i.err = err
	}
}

// --- statement walk ----------------------------------------------------------

func (i *Instantiator) transformBlock(b *glsl.BlockStmt, sc scope.Scope) (*glsl.BlockStmt, error) {
	out := &glsl.BlockStmt{Stmts: make([]glsl.Stmt, 0, len(b.Stmts))}
	for _, s := range b.Stmts {
		ns, err := i.transformStmt(s, sc)
		if err != nil {
			return nil, err
		}
		out.Stmts = append(out.Stmts, ns)
	}
	return out, nil
}

func (i *Instantiator) transformStmt(s glsl.Stmt, sc scope.Scope) (glsl.Stmt, error) {
	switch s := s.(type) {
	case *glsl.BlockStmt:
		return i.transformBlock(s, sc)
	case *glsl.ExprStmt:
		if s.X == nil {
			return s, nil
		}
		x, err := i.TransformExpr(s.X, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.ExprStmt{X: x}, nil
	case *glsl.DeclStmt:
		return i.transformDeclStmt(s, sc)
	case *glsl.IfStmt:
		cond, err := i.TransformExpr(s.Cond, sc)
		if err != nil {
			return nil, err
		}
		then, err := i.transformStmt(s.Then, sc)
		if err != nil {
			return nil, err
		}
		var els glsl.Stmt
		if s.Else != nil {
			els, err = i.transformStmt(s.Else, sc)
			if err != nil {
				return nil, err
			}
		}
		return &glsl.IfStmt{Cond: cond, Then: then, Else: els}, nil
	case *glsl.ForStmt:
		var init glsl.Stmt
		var err error
		if s.Init != nil {
			init, err = i.transformStmt(s.Init, sc)
			if err != nil {
				return nil, err
			}
		}
		var cond, post glsl.Expr
		if s.Cond != nil {
			if cond, err = i.TransformExpr(s.Cond, sc); err != nil {
				return nil, err
			}
		}
		if s.Post != nil {
			if post, err = i.TransformExpr(s.Post, sc); err != nil {
				return nil, err
			}
		}
		body, err := i.transformStmt(s.Body, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
	case *glsl.WhileStmt:
		cond, err := i.TransformExpr(s.Cond, sc)
		if err != nil {
			return nil, err
		}
		body, err := i.transformStmt(s.Body, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.WhileStmt{Cond: cond, Body: body}, nil
	case *glsl.DoWhileStmt:
		body, err := i.transformStmt(s.Body, sc)
		if err != nil {
			return nil, err
		}
		cond, err := i.TransformExpr(s.Cond, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.DoWhileStmt{Body: body, Cond: cond}, nil
	case *glsl.ReturnStmt:
		if s.X == nil {
			return s, nil
		}
		x, err := i.TransformExpr(s.X, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.ReturnStmt{X: x}, nil
	case *glsl.JumpStmt:
		return s, nil
	case *glsl.SwitchStmt:
		tag, err := i.TransformExpr(s.Tag, sc)
		if err != nil {
			return nil, err
		}
		newCases := make([]*glsl.CaseClause, len(s.Cases))
		for ci, c := range s.Cases {
			newValues := make([]glsl.Expr, len(c.Values))
			for vi, v := range c.Values {
				nv, err := i.TransformExpr(v, sc)
				if err != nil {
					return nil, err
				}
				newValues[vi] = nv
			}
			newStmts := make([]glsl.Stmt, len(c.Stmts))
			for si, cs := range c.Stmts {
				ns, err := i.transformStmt(cs, sc)
				if err != nil {
					return nil, err
				}
				newStmts[si] = ns
			}
			newCases[ci] = &glsl.CaseClause{Values: newValues, Default: c.Default, Stmts: newStmts}
		}
		return &glsl.SwitchStmt{Tag: tag, Cases: newCases}, nil
	default:
		return s, nil
	}
}

func (i *Instantiator) transformDeclStmt(s *glsl.DeclStmt, sc scope.Scope) (glsl.Stmt, error) {
	list := s.Decl
	newList := &glsl.InitDeclaratorList{Qualifiers: list.Qualifiers, Type: list.Type}
	var sharedArray *glsl.ArraySpec
	if list.Head != nil {
		sharedArray = list.Head.Array
		i.declareSymbol(list.Head.Name, list.Type.Name, sharedArray, sc)
		head, err := i.transformInitDeclarator(list.Head, sc)
		if err != nil {
			return nil, err
		}
		newList.Head = head
	}
	for _, d := range list.Tail {
		i.declareSymbol(d.Name, list.Type.Name, sharedArray, sc)
		nd, err := i.transformInitDeclarator(d, sc)
		if err != nil {
			return nil, err
		}
		newList.Tail = append(newList.Tail, nd)
	}
	return &glsl.DeclStmt{Decl: newList}, nil
}

func (i *Instantiator) transformInitDeclarator(d *glsl.InitDeclarator, sc scope.Scope) (*glsl.InitDeclarator, error) {
	if d.Init == nil {
		return d, nil
	}
	init, err := i.TransformExpr(d.Init, sc)
	if err != nil {
		return nil, err
	}
	return &glsl.InitDeclarator{Name: d.Name, Array: d.Array, Init: init}, nil
}

// --- expression walk ----------------------------------------------------------

// TransformExpr implements scope.Instantiator and §4.4's expression
// dispatch: every call expression is checked against built-ins, then the
// current scope's template-parameter bindings, then the template
// registry; every other node is recursively rewritten unchanged.
func (i *Instantiator) TransformExpr(e glsl.Expr, sc scope.Scope) (glsl.Expr, error) {
	switch e := e.(type) {
	case *glsl.CallExpr:
		return i.transformCall(e, sc)
	case *glsl.BinaryExpr:
		x, err := i.TransformExpr(e.X, sc)
		if err != nil {
			return nil, err
		}
		y, err := i.TransformExpr(e.Y, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.BinaryExpr{Op: e.Op, X: x, Y: y}, nil
	case *glsl.UnaryExpr:
		x, err := i.TransformExpr(e.X, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.UnaryExpr{Op: e.Op, X: x, Postfix: e.Postfix}, nil
	case *glsl.CondExpr:
		cond, err := i.TransformExpr(e.Cond, sc)
		if err != nil {
			return nil, err
		}
		then, err := i.TransformExpr(e.Then, sc)
		if err != nil {
			return nil, err
		}
		els, err := i.TransformExpr(e.Else, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.CondExpr{Cond: cond, Then: then, Else: els}, nil
	case *glsl.AssignExpr:
		lhs, err := i.TransformExpr(e.Lhs, sc)
		if err != nil {
			return nil, err
		}
		rhs, err := i.TransformExpr(e.Rhs, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.AssignExpr{Op: e.Op, Lhs: lhs, Rhs: rhs}, nil
	case *glsl.SelectExpr:
		x, err := i.TransformExpr(e.X, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.SelectExpr{X: x, Field: e.Field}, nil
	case *glsl.IndexExpr:
		x, err := i.TransformExpr(e.X, sc)
		if err != nil {
			return nil, err
		}
		idx, err := i.TransformExpr(e.Index, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.IndexExpr{X: x, Index: idx}, nil
	case *glsl.ParenExpr:
		x, err := i.TransformExpr(e.X, sc)
		if err != nil {
			return nil, err
		}
		return &glsl.ParenExpr{X: x}, nil
	case *glsl.CommaExpr:
		exprs := make([]glsl.Expr, len(e.Exprs))
		for idx, x := range e.Exprs {
			nx, err := i.TransformExpr(x, sc)
			if err != nil {
				return nil, err
			}
			exprs[idx] = nx
		}
		return &glsl.CommaExpr{Exprs: exprs}, nil
	default:
		return e, nil
	}
}

func (i *Instantiator) transformCall(call *glsl.CallExpr, sc scope.Scope) (glsl.Expr, error) {
	newArgs := make([]glsl.Expr, len(call.Args))
	for idx, a := range call.Args {
		na, err := i.TransformExpr(a, sc)
		if err != nil {
			return nil, err
		}
		newArgs[idx] = na
	}
	newCall := &glsl.CallExpr{Fun: call.Fun, Args: newArgs}

	if call.Fun.IsConstructor() {
		return newCall, nil
	}
	name := call.Fun.Name()
	if isBuiltinFunction(name) {
		return newCall, nil
	}

	rewritten, err := sc.TransformArgCall(newCall, i)
	if err == nil {
		return rewritten, nil
	}

	var asTemplate *glslterrors.TransformAsTemplate
	if !errors.As(err, &asTemplate) {
		i.recordErr(err)
		return newCall, nil
	}

	tmpl, found := sc.GetTemplate(name)
	if !found {
		return newCall, nil
	}

	specialized, err := i.specialize(tmpl, newCall, sc)
	if err != nil {
		i.recordErr(err)
		return newCall, nil
	}
	return specialized, nil
}

// slotArg is one extracted template-argument position from §4.5 step 1.
type slotArg struct {
	expr       glsl.Expr
	typeName   string
	symbolName string
}

// specialize implements §4.5.
func (i *Instantiator) specialize(tmpl *registry.TemplateDefinition, call *glsl.CallExpr, sc scope.Scope) (glsl.Expr, error) {
	slots, regularArgs, err := partitionArgs(tmpl, call.Args)
	if err != nil {
		return nil, err
	}

	mangleArgs := make([]mangle.Arg, len(slots))
	for idx, s := range slots {
		mangleArgs[idx] = mangle.Arg{PointerTypeName: s.typeName, Expr: s.expr}
	}
	mangled := mangle.Name(sc.Config().Prefix, tmpl.Original.Name, mangleArgs)

	local := scope.NewLocal(sc, mangled, nil)

	combined := make(map[string]scope.DeclaredSymbol, len(i.symbols))
	for name, sym := range i.symbols {
		combined[name] = sym
	}
	if parentLocal, ok := sc.(*scope.Local); ok {
		for _, cp := range parentLocal.CapturedParameters() {
			combined[cp.GenID] = cp.DeclaredSymbol
		}
	}

	args := make([]scope.TemplateArg, len(slots))
	for idx, s := range slots {
		renamed := captureWalk(s.expr, combined, local)
		args[idx] = scope.TemplateArg{Expr: renamed, PointerTypeName: s.typeName, ParamName: s.symbolName}
	}
	local.SetArgs(args)

	if parentLocal, ok := sc.(*scope.Local); ok {
		local.MergeParentCaptures(parentLocal.CapturedParameters())
	}

	if !sc.TemplateInstanceDeclared(mangled) {
		if !sc.BeginInstantiation(mangled) {
			return nil, &glslterrors.RecursiveTemplate{Name: tmpl.Original.Name}
		}
		defer sc.EndInstantiation(mangled)

		freshBody := cloneBlockStmt(tmpl.Stripped.Body)
		freshProto := cloneProto(tmpl.Stripped.Proto)

		nestedInst := nested(i.prefix, i.counter)
		newBody, err := nestedInst.walkBody(freshProto, freshBody, local)
		if err != nil {
			return nil, err
		}
		if nestedInst.err != nil {
			return nil, nestedInst.err
		}

		captures := local.CapturedParameters()
		newParams := make([]*glsl.Param, len(freshProto.Params), len(freshProto.Params)+len(captures))
		for idx, p := range freshProto.Params {
			newParams[idx] = &glsl.Param{Type: p.Type, Name: p.Name, Array: p.Array}
		}
		for _, cp := range captures {
			newParams = append(newParams, &glsl.Param{
				Type:  glsl.TypeSpecifier{Name: cp.DeclType},
				Name:  cp.GenID,
				Array: cp.Array,
			})
		}
		newProto := &glsl.Prototype{ReturnType: freshProto.ReturnType, Name: mangled, Params: newParams}
		specializedDef := &glsl.FuncDef{Proto: newProto, Body: newBody}

		nestedSpecs := local.TakeInstancedTemplates()
		sc.RegisterTemplateInstance(append(nestedSpecs, specializedDef))
		sc.MarkInstantiated(mangled)
	}

	finalArgs := append([]glsl.Expr{}, regularArgs...)
	for _, cp := range local.CapturedParameters() {
		finalArgs = append(finalArgs, &glsl.Variable{Name: cp.CallSiteName})
	}
	return &glsl.CallExpr{Fun: glsl.FunIdentifier{Ident: mangled}, Args: finalArgs}, nil
}

// partitionArgs implements §4.5 step 1: walk call-site args and
// T.parameters' indices in lockstep, splitting template slots from
// ordinary arguments while preserving each group's relative order.
func partitionArgs(tmpl *registry.TemplateDefinition, args []glsl.Expr) ([]slotArg, []glsl.Expr, error) {
	var slots []slotArg
	var regular []glsl.Expr
	cursor := 0
	for pos, arg := range args {
		if cursor < len(tmpl.Parameters) && tmpl.Parameters[cursor].Index == pos {
			tp := tmpl.Parameters[cursor]
			slots = append(slots, slotArg{expr: arg, typeName: tp.TypeName, symbolName: tp.Symbol})
			cursor++
			continue
		}
		regular = append(regular, arg)
	}
	if cursor != len(tmpl.Parameters) {
		return nil, nil, &glslterrors.InvalidParameter{Index: tmpl.Parameters[cursor].Index}
	}
	return slots, regular, nil
}

// captureWalk recursively rewrites expr, replacing every Variable whose
// name is a key of known with a reference to its GenID and recording the
// capture on local, keyed by the matched name so the call site can
// forward the right identifier (§4.5 step 3).
func captureWalk(expr glsl.Expr, known map[string]scope.DeclaredSymbol, local *scope.Local) glsl.Expr {
	var walk func(e glsl.Expr) glsl.Expr
	walk = func(e glsl.Expr) glsl.Expr {
		if e == nil {
			return nil
		}
		switch e := e.(type) {
		case *glsl.Variable:
			if sym, ok := known[e.Name]; ok {
				local.Capture(sym, e.Name)
				return &glsl.Variable{Name: sym.GenID}
			}
			cp := *e
			return &cp
		case *glsl.CallExpr:
			newArgs := make([]glsl.Expr, len(e.Args))
			for idx, a := range e.Args {
				newArgs[idx] = walk(a)
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
			for idx, x := range e.Exprs {
				newExprs[idx] = walk(x)
			}
			return &glsl.CommaExpr{Exprs: newExprs}
		default:
			return e
		}
	}
	return walk(expr)
}

func cloneBlockStmt(b *glsl.BlockStmt) *glsl.BlockStmt {
	out := &glsl.BlockStmt{Stmts: make([]glsl.Stmt, len(b.Stmts))}
	copy(out.Stmts, b.Stmts)
	return out
}

func cloneProto(p *glsl.Prototype) *glsl.Prototype {
	params := make([]*glsl.Param, len(p.Params))
	copy(params, p.Params)
	return &glsl.Prototype{ReturnType: p.ReturnType, Name: p.Name, Params: params}
}
