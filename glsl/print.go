package glsl

import (
	"fmt"
	"strings"
)

// Fprint writes tu to b as GLSL source text. Output is flat and
// deterministic: one construct per logical unit of whitespace, no attempt
// to preserve the original layout (neither spec.md nor this package's
// contract requires a byte-faithful round-trip). The same node tree always
// prints to the same bytes, which §4.3 relies on for mangling input.
func Fprint(b *strings.Builder, tu *TranslationUnit) {
	for i, d := range tu.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}
		printExternalDecl(b, d)
	}
}

// Sprint is Fprint into a fresh string.
func Sprint(tu *TranslationUnit) string {
	var b strings.Builder
	Fprint(&b, tu)
	return b.String()
}

// SprintExpr prints a single expression node, used for §4.3 mangling.
func SprintExpr(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

// SprintDecl prints a single external declaration, used to quote a
// declaration in an error value (DuplicatePointerDefinition, UnsupportedIdl).
func SprintDecl(d ExternalDecl) string {
	var b strings.Builder
	printExternalDecl(&b, d)
	return b.String()
}

func printExternalDecl(b *strings.Builder, d ExternalDecl) {
	switch d := d.(type) {
	case *Preprocessor:
		printDirective(b, d.Directive)
	case *Declaration:
		printDecl(b, d.Decl)
	case *FuncDef:
		printPrototype(b, d.Proto)
		b.WriteByte(' ')
		printBlockStmt(b, d.Body, 0)
		b.WriteByte('\n')
	default:
		fmt.Fprintf(b, "/* unknown external decl %T */\n", d)
	}
}

func printDirective(b *strings.Builder, d PPDirective) {
	switch d := d.(type) {
	case *VersionDirective:
		fmt.Fprintf(b, "#version %d", d.Number)
		if d.Profile != "" {
			fmt.Fprintf(b, " %s", d.Profile)
		}
		b.WriteByte('\n')
	case *ExtensionDirective:
		fmt.Fprintf(b, "#extension %s : %s\n", d.Name, d.Behavior)
	case *DefineDirective:
		b.WriteString("#define ")
		b.WriteString(d.Name)
		if d.Params != nil {
			b.WriteByte('(')
			b.WriteString(strings.Join(d.Params, ", "))
			b.WriteByte(')')
		}
		if d.Value != "" {
			b.WriteByte(' ')
			b.WriteString(d.Value)
		}
		b.WriteByte('\n')
	case *RawDirective:
		b.WriteByte('#')
		b.WriteString(d.Name)
		if d.Rest != "" {
			b.WriteByte(' ')
			b.WriteString(d.Rest)
		}
		b.WriteByte('\n')
	default:
		fmt.Fprintf(b, "/* unknown directive %T */\n", d)
	}
}

func printDecl(b *strings.Builder, d Decl) {
	switch d := d.(type) {
	case *FuncProtoDecl:
		printPrototype(b, d.Proto)
		b.WriteString(";\n")
	case *InitDeclaratorList:
		printInitDeclaratorList(b, d)
		b.WriteString(";\n")
	case *PrecisionDecl:
		fmt.Fprintf(b, "precision %s ", d.Qualifier)
		printTypeSpecifier(b, d.Type)
		b.WriteString(";\n")
	case *InterfaceBlock:
		if d.Qualifier != "" {
			b.WriteString(d.Qualifier)
			b.WriteByte(' ')
		}
		b.WriteString(d.Name)
		b.WriteByte(' ')
		printFieldList(b, d.Fields)
		if d.InstanceName != "" {
			b.WriteByte(' ')
			b.WriteString(d.InstanceName)
			printArraySpec(b, d.Array)
		}
		b.WriteString(";\n")
	case *InvariantDecl:
		b.WriteString("invariant ")
		b.WriteString(strings.Join(d.Names, ", "))
		b.WriteString(";\n")
	default:
		fmt.Fprintf(b, "/* unknown decl %T */\n", d)
	}
}

func printInitDeclaratorList(b *strings.Builder, d *InitDeclaratorList) {
	for _, q := range d.Qualifiers {
		b.WriteString(q)
		b.WriteByte(' ')
	}
	printTypeSpecifier(b, d.Type)
	if d.Head == nil {
		return
	}
	b.WriteByte(' ')
	printInitDeclarator(b, d.Head)
	for _, decl := range d.Tail {
		b.WriteString(", ")
		printInitDeclarator(b, decl)
	}
}

func printInitDeclarator(b *strings.Builder, d *InitDeclarator) {
	b.WriteString(d.Name)
	printArraySpec(b, d.Array)
	if d.Init != nil {
		b.WriteString(" = ")
		printExpr(b, d.Init)
	}
}

func printArraySpec(b *strings.Builder, arr *ArraySpec) {
	if arr == nil {
		return
	}
	for _, sz := range arr.Sizes {
		b.WriteByte('[')
		if sz != nil {
			printExpr(b, sz)
		}
		b.WriteByte(']')
	}
}

func printTypeSpecifier(b *strings.Builder, t TypeSpecifier) {
	if t.Struct != nil {
		b.WriteString("struct")
		if t.Struct.Name != "" {
			b.WriteByte(' ')
			b.WriteString(t.Struct.Name)
		}
		b.WriteByte(' ')
		printFieldList(b, t.Struct.Fields)
		return
	}
	b.WriteString(t.Name)
}

func printFieldList(b *strings.Builder, fields []*StructField) {
	b.WriteString("{\n")
	for _, f := range fields {
		b.WriteByte('\t')
		printTypeSpecifier(b, f.Type)
		b.WriteByte(' ')
		for i, fd := range f.Names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fd.Name)
			printArraySpec(b, fd.Array)
		}
		b.WriteString(";\n")
	}
	b.WriteByte('}')
}

func printPrototype(b *strings.Builder, p *Prototype) {
	printTypeSpecifier(b, p.ReturnType)
	b.WriteByte(' ')
	b.WriteString(p.Name)
	b.WriteByte('(')
	for i, param := range p.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		printParam(b, param)
	}
	b.WriteByte(')')
}

func printParam(b *strings.Builder, p *Param) {
	if p.Storage != "" {
		b.WriteString(p.Storage)
		b.WriteByte(' ')
	}
	printTypeSpecifier(b, p.Type)
	if p.Name != "" {
		b.WriteByte(' ')
		b.WriteString(p.Name)
		printArraySpec(b, p.Array)
	}
}

// --- statements --------------------------------------------------------------

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteByte('\t')
	}
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	switch s := s.(type) {
	case *BlockStmt:
		indent(b, depth)
		printBlockStmt(b, s, depth)
		b.WriteByte('\n')
	case *ExprStmt:
		indent(b, depth)
		if s.X != nil {
			printExpr(b, s.X)
		}
		b.WriteString(";\n")
	case *DeclStmt:
		indent(b, depth)
		printInitDeclaratorList(b, s.Decl)
		b.WriteString(";\n")
	case *IfStmt:
		indent(b, depth)
		b.WriteString("if (")
		printExpr(b, s.Cond)
		b.WriteString(") ")
		printStmtInline(b, s.Then, depth)
		if s.Else != nil {
			indent(b, depth)
			b.WriteString("else ")
			printStmtInline(b, s.Else, depth)
		}
	case *ForStmt:
		indent(b, depth)
		b.WriteString("for (")
		if s.Init != nil {
			printForInit(b, s.Init)
		}
		b.WriteString("; ")
		if s.Cond != nil {
			printExpr(b, s.Cond)
		}
		b.WriteString("; ")
		if s.Post != nil {
			printExpr(b, s.Post)
		}
		b.WriteString(") ")
		printStmtInline(b, s.Body, depth)
	case *WhileStmt:
		indent(b, depth)
		b.WriteString("while (")
		printExpr(b, s.Cond)
		b.WriteString(") ")
		printStmtInline(b, s.Body, depth)
	case *DoWhileStmt:
		indent(b, depth)
		b.WriteString("do ")
		printStmtInline(b, s.Body, depth)
		indent(b, depth)
		b.WriteString("while (")
		printExpr(b, s.Cond)
		b.WriteString(");\n")
	case *ReturnStmt:
		indent(b, depth)
		b.WriteString("return")
		if s.X != nil {
			b.WriteByte(' ')
			printExpr(b, s.X)
		}
		b.WriteString(";\n")
	case *JumpStmt:
		indent(b, depth)
		b.WriteString(s.Kind)
		b.WriteString(";\n")
	case *SwitchStmt:
		indent(b, depth)
		b.WriteString("switch (")
		printExpr(b, s.Tag)
		b.WriteString(") {\n")
		for _, c := range s.Cases {
			indent(b, depth+1)
			if c.Default {
				b.WriteString("default:\n")
			} else {
				b.WriteString("case ")
				printExpr(b, c.Values[0])
				b.WriteString(":\n")
			}
			for _, st := range c.Stmts {
				printStmt(b, st, depth+2)
			}
		}
		indent(b, depth)
		b.WriteString("}\n")
	default:
		indent(b, depth)
		fmt.Fprintf(b, "/* unknown stmt %T */;\n", s)
	}
}

// printStmtInline prints a statement that follows `if (...) `, `for (...) `,
// etc. on the same line when it's a block, or indented on its own line
// otherwise.
func printStmtInline(b *strings.Builder, s Stmt, depth int) {
	if bs, ok := s.(*BlockStmt); ok {
		printBlockStmt(b, bs, depth)
		b.WriteByte('\n')
		return
	}
	b.WriteByte('\n')
	printStmt(b, s, depth+1)
}

func printForInit(b *strings.Builder, s Stmt) {
	switch s := s.(type) {
	case *DeclStmt:
		printInitDeclaratorList(b, s.Decl)
	case *ExprStmt:
		if s.X != nil {
			printExpr(b, s.X)
		}
	}
}

func printBlockStmt(b *strings.Builder, s *BlockStmt, depth int) {
	b.WriteString("{\n")
	for _, st := range s.Stmts {
		printStmt(b, st, depth+1)
	}
	indent(b, depth)
	b.WriteByte('}')
}

// --- expressions --------------------------------------------------------------

func printExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Variable:
		b.WriteString(e.Name)
	case *IntLit:
		b.WriteString(e.Text)
	case *FloatLit:
		b.WriteString(e.Text)
	case *UintLit:
		b.WriteString(e.Text)
	case *BoolLit:
		if e.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *CallExpr:
		b.WriteString(e.Fun.Name())
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, a)
		}
		b.WriteByte(')')
	case *BinaryExpr:
		printExpr(b, e.X)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		printExpr(b, e.Y)
	case *UnaryExpr:
		if e.Postfix {
			printExpr(b, e.X)
			b.WriteString(e.Op)
		} else {
			b.WriteString(e.Op)
			printExpr(b, e.X)
		}
	case *CondExpr:
		printExpr(b, e.Cond)
		b.WriteString(" ? ")
		printExpr(b, e.Then)
		b.WriteString(" : ")
		printExpr(b, e.Else)
	case *AssignExpr:
		printExpr(b, e.Lhs)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		printExpr(b, e.Rhs)
	case *SelectExpr:
		printExpr(b, e.X)
		b.WriteByte('.')
		b.WriteString(e.Field)
	case *IndexExpr:
		printExpr(b, e.X)
		b.WriteByte('[')
		printExpr(b, e.Index)
		b.WriteByte(']')
	case *ParenExpr:
		b.WriteByte('(')
		printExpr(b, e.X)
		b.WriteByte(')')
	case *CommaExpr:
		for i, x := range e.Exprs {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, x)
		}
	default:
		fmt.Fprintf(b, "/* unknown expr %T */", e)
	}
}
