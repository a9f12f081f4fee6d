package unit

import "github.com/glslt-go/glslt/glsl"

// KeyKind distinguishes the two kinds of keyed external identifier the
// dependency DAG tracks (§3).
type KeyKind int

const (
	FuncKey KeyKind = iota
	DeclKey
)

// Key is a node in the dependency DAG: FunctionDefinition(name) or
// Declaration(name).
type Key struct {
	Kind KeyKind
	Name string
}

func FuncDefKey(name string) Key { return Key{Kind: FuncKey, Name: name} }
func DeclarationKey(name string) Key { return Key{Kind: DeclKey, Name: name} }

// dag is the dependency DAG (§4.7): edges point from "scope that uses" to
// "symbol used". Adjacency is kept as an order-preserving slice plus a
// dedup set so traversal is deterministic (§5), grounded on
// go/callgraph/static/static.go's seen-map + recursive-visit idiom rather
// than a general graph library (none exists anywhere in the retrieval
// pack for this to depend on instead).
type dag struct {
	adj     map[Key][]Key
	seenAdj map[Key]map[Key]bool
}

func newDAG() *dag {
	return &dag{adj: make(map[Key][]Key), seenAdj: make(map[Key]map[Key]bool)}
}

// addEdge records scope -> used, ignoring duplicate and self-edges (§3:
// "Self-loops are forbidden").
func (d *dag) addEdge(scope, used Key) {
	if scope == used {
		return
	}
	if d.seenAdj[scope] == nil {
		d.seenAdj[scope] = make(map[Key]bool)
	}
	if d.seenAdj[scope][used] {
		return
	}
	d.seenAdj[scope][used] = true
	d.adj[scope] = append(d.adj[scope], used)
}

// reachable returns the post-order DFS traversal from a synthetic root
// with edges to each of roots in order (§4.6 finalization step 1-2).
func (d *dag) reachable(roots []Key) []Key {
	seen := make(map[Key]bool)
	var order []Key
	var visit func(k Key)
	visit = func(k Key) {
		if seen[k] {
			return
		}
		seen[k] = true
		for _, next := range d.adj[k] {
			visit(next)
		}
		order = append(order, k)
	}
	for _, r := range roots {
		visit(r)
	}
	return order
}

// depWalker walks a declaration's subtree recording edges from the
// current scope key to every type name, function identifier, and
// previously-stored bare identifier reference it finds (§4.7).
type depWalker struct {
	dag      *dag
	stored   map[Key]glsl.ExternalDecl
	scopeSet bool
	scope    Key
}

func newDepWalker(d *dag, stored map[Key]glsl.ExternalDecl) *depWalker {
	return &depWalker{dag: d, stored: stored}
}

// setFunctionScope unconditionally enters FunctionDefinition(name) scope,
// matching §4.7's "entering a function definition sets the scope".
func (w *depWalker) setFunctionScope(name string) {
	w.scope = FuncDefKey(name)
	w.scopeSet = true
}

// setStructScopeIfUnset enters Declaration(name) scope only if no scope
// has been set yet, matching §4.7's "if none is set" rule for structs.
func (w *depWalker) setStructScopeIfUnset(name string) {
	if w.scopeSet || name == "" {
		return
	}
	w.scope = DeclarationKey(name)
	w.scopeSet = true
}

func (w *depWalker) typeRef(name string) {
	if !w.scopeSet || name == "" {
		return
	}
	w.dag.addEdge(w.scope, DeclarationKey(name))
}

func (w *depWalker) funcRef(name string) {
	if !w.scopeSet {
		return
	}
	w.dag.addEdge(w.scope, FuncDefKey(name))
}

func (w *depWalker) bareIdentRef(name string) {
	if !w.scopeSet {
		return
	}
	key := DeclarationKey(name)
	if _, ok := w.stored[key]; ok {
		w.dag.addEdge(w.scope, key)
	}
}

func (w *depWalker) walkType(t glsl.TypeSpecifier) {
	if t.Struct != nil {
		w.setStructScopeIfUnset(t.Struct.Name)
		for _, f := range t.Struct.Fields {
			w.walkType(f.Type)
		}
		return
	}
	w.typeRef(t.Name)
}

func (w *depWalker) walkProto(p *glsl.Prototype) {
	w.walkType(p.ReturnType)
	for _, param := range p.Params {
		w.walkType(param.Type)
		w.walkArray(param.Array)
	}
}

func (w *depWalker) walkArray(a *glsl.ArraySpec) {
	if a == nil {
		return
	}
	for _, sz := range a.Sizes {
		w.walkExpr(sz)
	}
}

func (w *depWalker) walkFuncDef(fd *glsl.FuncDef) {
	w.setFunctionScope(fd.Proto.Name)
	w.walkProto(fd.Proto)
	w.walkBlock(fd.Body)
}

func (w *depWalker) walkBlock(b *glsl.BlockStmt) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		w.walkStmt(s)
	}
}

func (w *depWalker) walkStmt(s glsl.Stmt) {
	switch s := s.(type) {
	case *glsl.BlockStmt:
		w.walkBlock(s)
	case *glsl.ExprStmt:
		w.walkExpr(s.X)
	case *glsl.DeclStmt:
		w.walkType(s.Decl.Type)
		if s.Decl.Head != nil {
			w.walkArray(s.Decl.Head.Array)
			w.walkExpr(s.Decl.Head.Init)
		}
		for _, d := range s.Decl.Tail {
			w.walkArray(d.Array)
			w.walkExpr(d.Init)
		}
	case *glsl.IfStmt:
		w.walkExpr(s.Cond)
		w.walkStmt(s.Then)
		w.walkStmt(s.Else)
	case *glsl.ForStmt:
		w.walkStmt(s.Init)
		w.walkExpr(s.Cond)
		w.walkExpr(s.Post)
		w.walkStmt(s.Body)
	case *glsl.WhileStmt:
		w.walkExpr(s.Cond)
		w.walkStmt(s.Body)
	case *glsl.DoWhileStmt:
		w.walkStmt(s.Body)
		w.walkExpr(s.Cond)
	case *glsl.ReturnStmt:
		w.walkExpr(s.X)
	case *glsl.SwitchStmt:
		w.walkExpr(s.Tag)
		for _, c := range s.Cases {
			for _, v := range c.Values {
				w.walkExpr(v)
			}
			for _, cs := range c.Stmts {
				w.walkStmt(cs)
			}
		}
	}
}

func (w *depWalker) walkExpr(e glsl.Expr) {
	if e == nil {
		return
	}
	switch e := e.(type) {
	case *glsl.Variable:
		w.bareIdentRef(e.Name)
	case *glsl.CallExpr:
		if e.Fun.IsConstructor() {
			w.typeRef(e.Fun.Name())
		} else {
			w.funcRef(e.Fun.Name())
		}
		for _, a := range e.Args {
			w.walkExpr(a)
		}
	case *glsl.BinaryExpr:
		w.walkExpr(e.X)
		w.walkExpr(e.Y)
	case *glsl.UnaryExpr:
		w.walkExpr(e.X)
	case *glsl.CondExpr:
		w.walkExpr(e.Cond)
		w.walkExpr(e.Then)
		w.walkExpr(e.Else)
	case *glsl.AssignExpr:
		w.walkExpr(e.Lhs)
		w.walkExpr(e.Rhs)
	case *glsl.SelectExpr:
		w.walkExpr(e.X)
	case *glsl.IndexExpr:
		w.walkExpr(e.X)
		w.walkExpr(e.Index)
	case *glsl.ParenExpr:
		w.walkExpr(e.X)
	case *glsl.CommaExpr:
		for _, x := range e.Exprs {
			w.walkExpr(x)
		}
	}
}
