// Package glsl models the subset of the OpenGL Shading Language syntax that
// the GLSLT template-instantiation core needs: external declarations,
// function prototypes and definitions, statements and expressions. It plays
// the role of the "parser collaborator" and "pretty-printer collaborator"
// that the core treats as external.
//
// The node kinds below follow go/ast's shape: a small family of marker
// interfaces (ExternalDecl, Decl, PPDirective, Stmt, Expr), each implemented
// by a handful of concrete struct types. There is no position tracking or
// comment preservation; neither is required by the core and both are
// explicit non-goals of the language this package serves.
package glsl

// Ident is a GLSL identifier: [A-Za-z_][A-Za-z0-9_]*.
type Ident = string

// TranslationUnit is a full, include-expanded GLSL source file (or the
// concatenation of several, per the driver surface).
type TranslationUnit struct {
	Decls []ExternalDecl
}

// ExternalDecl is a top-level declaration: a preprocessor directive, a
// non-function declaration, or a function (prototype or definition).
type ExternalDecl interface {
	externalDecl()
}

// Preprocessor is a top-level preprocessor directive.
type Preprocessor struct {
	Directive PPDirective
}

func (*Preprocessor) externalDecl() {}

// Declaration is a top-level, non-function declaration: a bodyless function
// prototype, a variable/struct declarator list, a precision statement, an
// interface block, or an invariant declaration.
type Declaration struct {
	Decl Decl
}

func (*Declaration) externalDecl() {}

// FuncDef is a function definition (has a body). If its prototype has at
// least one pointer-typed parameter it is a template definition (§4.1);
// otherwise it is an ordinary function.
type FuncDef struct {
	Proto *Prototype
	Body  *BlockStmt
}

func (*FuncDef) externalDecl() {}

// Decl is the sum of non-function top-level declaration kinds.
type Decl interface {
	decl()
}

// FuncProtoDecl is a bodyless function prototype declared at file scope.
// Per §4.1 it becomes a pointer type; a second prototype with the same name
// is a DuplicatePointerDefinition error.
type FuncProtoDecl struct {
	Proto *Prototype
}

func (*FuncProtoDecl) decl() {}

// InitDeclaratorList is a C-style comma-separated declarator list sharing
// one base type, e.g. `float a = 1.0, b[2];` or a bare struct
// declaration `struct A { float x; };`.
type InitDeclaratorList struct {
	Qualifiers []string
	Type       TypeSpecifier
	Head       *InitDeclarator // nil if this is a bare struct/type declaration with no declarator
	Tail       []*InitDeclarator
}

// InitDeclarator is one declarator within an InitDeclaratorList.
type InitDeclarator struct {
	Name  Ident
	Array *ArraySpec
	Init  Expr // nil if uninitialized
}

// PrecisionDecl is `precision <qualifier> <type>;`.
type PrecisionDecl struct {
	Qualifier string
	Type      TypeSpecifier
}

func (*PrecisionDecl) decl() {}

// InterfaceBlock is `<qualifier> Name { fields... } instanceName[N];`.
type InterfaceBlock struct {
	Qualifier    string
	Name         Ident
	Fields       []*StructField
	InstanceName Ident // optional
	Array        *ArraySpec
}

func (*InterfaceBlock) decl() {}

// InvariantDecl is `invariant a, b;`.
type InvariantDecl struct {
	Names []Ident
}

func (*InvariantDecl) decl() {}

func (*InitDeclaratorList) decl() {}

// PPDirective is the sum of preprocessor directive kinds.
type PPDirective interface {
	ppDirective()
}

// VersionDirective is `#version 330 core`.
type VersionDirective struct {
	Number  int
	Profile string // optional, e.g. "core", "compatibility", "es"
}

func (*VersionDirective) ppDirective() {}

// ExtensionDirective is `#extension GL_ARB_name : enable`.
type ExtensionDirective struct {
	Name     string
	Behavior string
}

func (*ExtensionDirective) ppDirective() {}

// DefineDirective is `#define NAME ...` or `#define NAME(args) ...`.
// Params is nil for an object-like macro and non-nil (possibly empty) for a
// function-like one. Value is the raw, unparsed remainder of the line.
type DefineDirective struct {
	Name   Ident
	Params []Ident
	Value  string
}

func (*DefineDirective) ppDirective() {}

// RawDirective is any other preprocessor directive (#include, #ifdef,
// #pragma, #undef, ...), kept as raw text so the minifying unit can reject
// it with UnsupportedPreprocessor (§4.6) while the straight unit can pass
// it through unchanged.
type RawDirective struct {
	Name Ident // directive keyword, e.g. "ifdef"
	Rest string
}

func (*RawDirective) ppDirective() {}

// TypeSpecifier is a type reference: either a named type (builtin, pointer
// type, struct type) or an inline struct specifier.
type TypeSpecifier struct {
	Name   Ident            // builtin/user type name; empty if Struct != nil and anonymous
	Struct *StructSpecifier // non-nil for an inline `struct { ... }` specifier
}

// StructSpecifier is an inline or named struct definition.
type StructSpecifier struct {
	Name   Ident // optional
	Fields []*StructField
}

// StructField is one field declaration within a struct or interface block.
type StructField struct {
	Type  TypeSpecifier
	Names []*StructFieldDeclarator
}

// StructFieldDeclarator is one declared name within a StructField.
type StructFieldDeclarator struct {
	Name  Ident
	Array *ArraySpec
}

// ArraySpec represents one or more `[...]` suffixes. A nil Size element
// denotes an unsized dimension (`[]`).
type ArraySpec struct {
	Sizes []Expr
}

// Prototype is (return-type, name, parameters), shared by pointer-type
// declarations, ordinary function prototypes, and function definitions.
type Prototype struct {
	ReturnType TypeSpecifier
	Name       Ident
	Params     []*Param
}

// Param is one function parameter declaration. Arrays attach to a
// parameter, never to its pointer type (data model invariant, §3).
type Param struct {
	Storage string // "", "in", "out", "inout", "const"
	Type    TypeSpecifier
	Name    Ident // optional (unnamed parameter)
	Array   *ArraySpec
}

// Stmt is the sum of statement kinds.
type Stmt interface {
	stmt()
}

// BlockStmt is `{ ... }`.
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmt() {}

// ExprStmt is an expression statement, or the empty statement `;` when X is
// nil.
type ExprStmt struct {
	X Expr
}

func (*ExprStmt) stmt() {}

// DeclStmt is a local variable declaration statement.
type DeclStmt struct {
	Decl *InitDeclaratorList
}

func (*DeclStmt) stmt() {}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // optional
}

func (*IfStmt) stmt() {}

// ForStmt is `for (Init; Cond; Post) Body`.
type ForStmt struct {
	Init Stmt // DeclStmt or ExprStmt, may be nil
	Cond Expr // optional
	Post Expr // optional
	Body Stmt
}

func (*ForStmt) stmt() {}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmt() {}

// DoWhileStmt is `do Body while (Cond);`.
type DoWhileStmt struct {
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) stmt() {}

// ReturnStmt is `return [X];`.
type ReturnStmt struct {
	X Expr // optional
}

func (*ReturnStmt) stmt() {}

// JumpStmt is `break;`, `continue;`, or `discard;`.
type JumpStmt struct {
	Kind string
}

func (*JumpStmt) stmt() {}

// SwitchStmt is `switch (Tag) { Cases... }`.
type SwitchStmt struct {
	Tag   Expr
	Cases []*CaseClause
}

func (*SwitchStmt) stmt() {}

// CaseClause is one `case X:`/`default:` label followed by statements,
// falling through to the next clause like C.
type CaseClause struct {
	Values  []Expr // empty + Default == true for `default:`
	Default bool
	Stmts   []Stmt
}

// Expr is the sum of expression kinds.
type Expr interface {
	expr()
}

// Variable is a bare identifier reference.
type Variable struct {
	Name Ident
}

func (*Variable) expr() {}

// IntLit, FloatLit, UintLit, BoolLit are literal expressions. Text keeps the
// original token spelling (unparsed) since the core never evaluates
// literals, only substitutes and re-prints them.
type IntLit struct{ Text string }
type FloatLit struct{ Text string }
type UintLit struct{ Text string }
type BoolLit struct{ Value bool }

func (*IntLit) expr()   {}
func (*FloatLit) expr() {}
func (*UintLit) expr()  {}
func (*BoolLit) expr()  {}

// FunIdentifier is the callee of a CallExpr: either a plain identifier
// (ordinary function or template-parameter invocation) or a type specifier
// (a constructor call such as `vec3(...)`). Exactly one of Ident/Type is
// set, mirroring the "parser promotes a type-headed callee" policy from §6.
type FunIdentifier struct {
	Ident Ident
	Type  *TypeSpecifier
}

// Name returns the callee's textual name regardless of which variant is
// set, or "" if neither is (which never happens for a well-formed node).
func (f FunIdentifier) Name() string {
	if f.Type != nil {
		return f.Type.Name
	}
	return f.Ident
}

// IsConstructor reports whether this callee is a type-specifier-headed
// constructor call rather than a plain identifier call.
func (f FunIdentifier) IsConstructor() bool {
	return f.Type != nil
}

// CallExpr is a function or constructor call.
type CallExpr struct {
	Fun  FunIdentifier
	Args []Expr
}

func (*CallExpr) expr() {}

// BinaryExpr is `X Op Y` for any GLSL binary operator.
type BinaryExpr struct {
	Op   string
	X, Y Expr
}

func (*BinaryExpr) expr() {}

// UnaryExpr is a prefix or postfix unary operator (`-x`, `!x`, `x++`, ...).
type UnaryExpr struct {
	Op      string
	X       Expr
	Postfix bool
}

func (*UnaryExpr) expr() {}

// CondExpr is the ternary conditional `Cond ? Then : Else`.
type CondExpr struct {
	Cond, Then, Else Expr
}

func (*CondExpr) expr() {}

// AssignExpr is `Lhs Op Rhs` for `=`, `+=`, `-=`, etc.
type AssignExpr struct {
	Op       string
	Lhs, Rhs Expr
}

func (*AssignExpr) expr() {}

// SelectExpr is `X.Field` (struct field access or swizzle).
type SelectExpr struct {
	X     Expr
	Field string
}

func (*SelectExpr) expr() {}

// IndexExpr is `X[Index]`.
type IndexExpr struct {
	X     Expr
	Index Expr
}

func (*IndexExpr) expr() {}

// ParenExpr is `(X)`, kept explicit so the printer can round-trip
// precedence without needing a full associativity table.
type ParenExpr struct {
	X Expr
}

func (*ParenExpr) expr() {}

// CommaExpr is the comma-operator sequence `X, Y, Z` as seen in for-loop
// post-expressions.
type CommaExpr struct {
	Exprs []Expr
}

func (*CommaExpr) expr() {}
