package glsl

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTranslationUnit parses src as a GLSL translation unit. filename is
// used only in error messages. Preprocessor directives are recognized on a
// line basis (a line whose first non-blank character is '#') and are kept
// as top-level ExternalDecl nodes interleaved with the declarations around
// them; a directive is never expected to appear inside a single
// declaration or statement, matching every real-world shader and every
// scenario in this package's test suite.
func ParseTranslationUnit(src string, filename string) (*TranslationUnit, error) {
	segs := splitSegments(stripComments(src))

	tu := &TranslationUnit{}
	knownTypes := map[string]bool{}
	for _, seg := range segs {
		if seg.directive {
			dir, err := parseDirectiveLine(seg.text, seg.line)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", filename, err)
			}
			tu.Decls = append(tu.Decls, &Preprocessor{Directive: dir})
			continue
		}

		p := newParser(seg.text, seg.line, filename)
		p.knownTypes = knownTypes
		for !p.atEOF() {
			decl, err := p.parseExternalDecl()
			if err != nil {
				return nil, err
			}
			tu.Decls = append(tu.Decls, decl)
		}
	}
	return tu, nil
}

// --- line splitting: preprocessor lines vs. code lines ---------------------

type segment struct {
	directive bool
	text      string
	line      int
}

func splitSegments(src string) []segment {
	lines := strings.Split(src, "\n")
	var segs []segment
	var code strings.Builder
	codeStart := 0
	codeOpen := false

	flushCode := func(endLine int) {
		if codeOpen {
			segs = append(segs, segment{directive: false, text: code.String(), line: codeStart})
			code.Reset()
			codeOpen = false
		}
	}

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		trimmed := strings.TrimLeft(lines[i], " \t\r")
		if strings.HasPrefix(trimmed, "#") {
			flushCode(lineNo)
			text := trimmed
			for strings.HasSuffix(strings.TrimRight(text, " \t\r"), "\\") && i+1 < len(lines) {
				text = strings.TrimRight(strings.TrimRight(text, " \t\r"), "\\") + " "
				i++
				text += strings.TrimLeft(lines[i], " \t\r")
			}
			segs = append(segs, segment{directive: true, text: text, line: lineNo})
			continue
		}
		if !codeOpen {
			codeOpen = true
			codeStart = lineNo
		}
		code.WriteString(lines[i])
		code.WriteByte('\n')
	}
	flushCode(len(lines) + 1)
	return segs
}

// --- preprocessor directive parsing ----------------------------------------

func parseDirectiveLine(line string, lineNo int) (PPDirective, error) {
	rest := strings.TrimPrefix(line, "#")
	rest = strings.TrimLeft(rest, " \t")
	name, tail := splitFirstWord(rest)

	switch name {
	case "version":
		fields := strings.Fields(tail)
		if len(fields) == 0 {
			return nil, tokenError(lineNo, "#version: missing number")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, tokenError(lineNo, "#version: invalid number %q", fields[0])
		}
		profile := ""
		if len(fields) > 1 {
			profile = fields[1]
		}
		return &VersionDirective{Number: n, Profile: profile}, nil
	case "extension":
		parts := strings.SplitN(tail, ":", 2)
		ext := &ExtensionDirective{Name: strings.TrimSpace(parts[0])}
		if len(parts) == 2 {
			ext.Behavior = strings.TrimSpace(parts[1])
		}
		return ext, nil
	case "define":
		return parseDefineDirective(tail, lineNo)
	default:
		return &RawDirective{Name: name, Rest: strings.TrimSpace(tail)}, nil
	}
}

func splitFirstWord(s string) (word, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := 0
	for i < len(s) && isIdentCont(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func parseDefineDirective(tail string, lineNo int) (PPDirective, error) {
	tail = strings.TrimLeft(tail, " \t")
	name, rest := splitFirstWord(tail)
	if name == "" {
		return nil, tokenError(lineNo, "#define: missing macro name")
	}
	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, tokenError(lineNo, "#define %s: unterminated parameter list", name)
		}
		paramStr := rest[1:end]
		var params []Ident
		if strings.TrimSpace(paramStr) != "" {
			for _, p := range strings.Split(paramStr, ",") {
				params = append(params, strings.TrimSpace(p))
			}
		}
		return &DefineDirective{Name: name, Params: params, Value: strings.TrimSpace(rest[end+1:])}, nil
	}
	return &DefineDirective{Name: name, Value: strings.TrimSpace(rest)}, nil
}

// --- token stream with one-token lookahead ---------------------------------

type parser struct {
	s          *scanner
	filename   string
	tok        token
	ahead      *token
	knownTypes map[string]bool // struct type names declared so far, for constructor-call disambiguation
}

func newParser(src string, startLine int, filename string) *parser {
	p := &parser{s: newScanner(src, startLine), filename: filename}
	p.advance()
	return p
}

func (p *parser) advance() {
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil
		return
	}
	p.tok = p.s.next()
}

func (p *parser) peek2() token {
	if p.ahead == nil {
		t := p.s.next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *parser) atEOF() bool { return p.tok.kind == tokEOF }

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: line %d: %s", p.filename, p.tok.line, fmt.Sprintf(format, args...))
}

func (p *parser) isPunct(s string) bool { return p.tok.kind == tokPunct && p.tok.text == s }
func (p *parser) isIdent(s string) bool { return p.tok.kind == tokIdent && p.tok.text == s }

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errf("expected %q, got %q", s, p.tok.text)
	}
	p.advance()
	return nil
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errf("expected identifier, got %q", p.tok.text)
	}
	name := p.tok.text
	p.advance()
	return name, nil
}

var storageQualifiers = map[string]bool{
	"in": true, "out": true, "inout": true, "const": true,
}

var declQualifiers = map[string]bool{
	"const": true, "in": true, "out": true, "inout": true, "uniform": true,
	"varying": true, "attribute": true, "centroid": true, "flat": true,
	"smooth": true, "noperspective": true, "layout": true, "buffer": true,
	"shared": true, "highp": true, "mediump": true, "lowp": true, "precise": true,
	"patch": true, "sample": true, "coherent": true, "volatile": true,
	"restrict": true, "readonly": true, "writeonly": true,
}

// --- external declarations --------------------------------------------------

func (p *parser) parseExternalDecl() (ExternalDecl, error) {
	if p.isIdent("precision") {
		p.advance()
		qual, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		typ, err := p.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Declaration{Decl: &PrecisionDecl{Qualifier: qual, Type: typ}}, nil
	}

	if p.isIdent("invariant") {
		p.advance()
		var names []Ident
		for {
			n, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			names = append(names, n)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Declaration{Decl: &InvariantDecl{Names: names}}, nil
	}

	var quals []string
	for p.tok.kind == tokIdent && declQualifiers[p.tok.text] {
		quals = append(quals, p.tok.text)
		p.advance()
		if quals[len(quals)-1] == "layout" && p.isPunct("(") {
			depth := 0
			for {
				if p.isPunct("(") {
					depth++
				} else if p.isPunct(")") {
					depth--
				}
				p.advance()
				if depth == 0 {
					break
				}
			}
		}
	}

	// Interface block: QUALIFIER Name { ... } [instance] ;
	if len(quals) > 0 && p.tok.kind == tokIdent && p.peek2().kind == tokPunct && p.peek2().text == "{" {
		name, _ := p.expectIdent()
		fields, err := p.parseStructFieldList()
		if err != nil {
			return nil, err
		}
		ib := &InterfaceBlock{Qualifier: strings.Join(quals, " "), Name: name, Fields: fields}
		if p.tok.kind == tokIdent {
			ib.InstanceName, _ = p.expectIdent()
			if p.isPunct("[") {
				arr, err := p.parseArraySpec()
				if err != nil {
					return nil, err
				}
				ib.Array = arr
			}
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Declaration{Decl: ib}, nil
	}

	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}

	// Bare struct declaration with no declarator: `struct A { ... };`
	if p.isPunct(";") {
		p.advance()
		return &Declaration{Decl: &InitDeclaratorList{Qualifiers: quals, Type: typ}}, nil
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.isPunct("(") {
		proto, err := p.finishPrototype(typ, name)
		if err != nil {
			return nil, err
		}
		if p.isPunct("{") {
			body, err := p.parseBlockStmt()
			if err != nil {
				return nil, err
			}
			return &FuncDef{Proto: proto, Body: body}, nil
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Declaration{Decl: &FuncProtoDecl{Proto: proto}}, nil
	}

	decl := &InitDeclaratorList{Qualifiers: quals, Type: typ}
	head, err := p.finishInitDeclarator(name)
	if err != nil {
		return nil, err
	}
	decl.Head = head
	for p.isPunct(",") {
		p.advance()
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		d, err := p.finishInitDeclarator(n)
		if err != nil {
			return nil, err
		}
		decl.Tail = append(decl.Tail, d)
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &Declaration{Decl: decl}, nil
}

func (p *parser) finishInitDeclarator(name string) (*InitDeclarator, error) {
	d := &InitDeclarator{Name: name}
	if p.isPunct("[") {
		arr, err := p.parseArraySpec()
		if err != nil {
			return nil, err
		}
		d.Array = arr
	}
	if p.isPunct("=") {
		p.advance()
		init, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		d.Init = init
	}
	return d, nil
}

func (p *parser) parseArraySpec() (*ArraySpec, error) {
	arr := &ArraySpec{}
	for p.isPunct("[") {
		p.advance()
		if p.isPunct("]") {
			p.advance()
			arr.Sizes = append(arr.Sizes, nil)
			continue
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, err
		}
		arr.Sizes = append(arr.Sizes, e)
	}
	return arr, nil
}

func (p *parser) finishPrototype(ret TypeSpecifier, name string) (*Prototype, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	proto := &Prototype{ReturnType: ret, Name: name}
	if p.isIdent("void") && p.peek2().kind == tokPunct && p.peek2().text == ")" {
		p.advance()
	}
	for !p.isPunct(")") {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		proto.Params = append(proto.Params, param)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return proto, nil
}

func (p *parser) parseParam() (*Param, error) {
	param := &Param{}
	for p.tok.kind == tokIdent && (storageQualifiers[p.tok.text] || p.tok.text == "const") {
		if param.Storage == "" {
			param.Storage = p.tok.text
		} else {
			param.Storage = param.Storage + " " + p.tok.text
		}
		p.advance()
	}
	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	param.Type = typ
	if p.tok.kind == tokIdent {
		param.Name, _ = p.expectIdent()
		if p.isPunct("[") {
			arr, err := p.parseArraySpec()
			if err != nil {
				return nil, err
			}
			param.Array = arr
		}
	}
	return param, nil
}

func (p *parser) parseTypeSpecifier() (TypeSpecifier, error) {
	if p.isIdent("struct") {
		p.advance()
		name := ""
		if p.tok.kind == tokIdent {
			name, _ = p.expectIdent()
		}
		fields, err := p.parseStructFieldList()
		if err != nil {
			return TypeSpecifier{}, err
		}
		if name != "" && p.knownTypes != nil {
			p.knownTypes[name] = true
		}
		return TypeSpecifier{Struct: &StructSpecifier{Name: name, Fields: fields}}, nil
	}
	if p.tok.kind != tokIdent {
		return TypeSpecifier{}, p.errf("expected type specifier, got %q", p.tok.text)
	}
	name := p.tok.text
	p.advance()
	return TypeSpecifier{Name: name}, nil
}

func (p *parser) parseStructFieldList() ([]*StructField, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var fields []*StructField
	for !p.isPunct("}") {
		typ, err := p.parseTypeSpecifier()
		if err != nil {
			return nil, err
		}
		f := &StructField{Type: typ}
		for {
			n, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			fd := &StructFieldDeclarator{Name: n}
			if p.isPunct("[") {
				arr, err := p.parseArraySpec()
				if err != nil {
					return nil, err
				}
				fd.Array = arr
			}
			f.Names = append(f.Names, fd)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return fields, nil
}

// --- statements --------------------------------------------------------------

func (p *parser) parseStmt() (Stmt, error) {
	switch {
	case p.isPunct("{"):
		return p.parseBlockStmt()
	case p.isPunct(";"):
		p.advance()
		return &ExprStmt{}, nil
	case p.isIdent("if"):
		return p.parseIfStmt()
	case p.isIdent("for"):
		return p.parseForStmt()
	case p.isIdent("while"):
		return p.parseWhileStmt()
	case p.isIdent("do"):
		return p.parseDoWhileStmt()
	case p.isIdent("return"):
		p.advance()
		if p.isPunct(";") {
			p.advance()
			return &ReturnStmt{}, nil
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ReturnStmt{X: e}, nil
	case p.isIdent("break"), p.isIdent("continue"), p.isIdent("discard"):
		kind := p.tok.text
		p.advance()
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &JumpStmt{Kind: kind}, nil
	case p.isIdent("switch"):
		return p.parseSwitchStmt()
	default:
		if p.startsDecl() {
			return p.parseDeclStmt()
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &ExprStmt{X: e}, nil
	}
}

// startsDecl reports whether the current position begins a local variable
// declaration rather than an expression statement: a qualifier keyword, or
// an identifier immediately followed by another identifier (type then
// name) rather than an operator/call.
func (p *parser) startsDecl() bool {
	if p.tok.kind != tokIdent {
		return false
	}
	if declQualifiers[p.tok.text] {
		return true
	}
	if p.tok.text == "struct" {
		return true
	}
	nxt := p.peek2()
	return nxt.kind == tokIdent
}

func (p *parser) parseDeclStmt() (Stmt, error) {
	var quals []string
	for p.tok.kind == tokIdent && declQualifiers[p.tok.text] {
		quals = append(quals, p.tok.text)
		p.advance()
	}
	typ, err := p.parseTypeSpecifier()
	if err != nil {
		return nil, err
	}
	decl := &InitDeclaratorList{Qualifiers: quals, Type: typ}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	head, err := p.finishInitDeclarator(name)
	if err != nil {
		return nil, err
	}
	decl.Head = head
	for p.isPunct(",") {
		p.advance()
		n, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		d, err := p.finishInitDeclarator(n)
		if err != nil {
			return nil, err
		}
		decl.Tail = append(decl.Tail, d)
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &DeclStmt{Decl: decl}, nil
}

func (p *parser) parseBlockStmt() (*BlockStmt, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	b := &BlockStmt{}
	for !p.isPunct("}") {
		if p.atEOF() {
			return nil, p.errf("unterminated block")
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		b.Stmts = append(b.Stmts, s)
	}
	p.advance()
	return b, nil
}

func (p *parser) parseIfStmt() (Stmt, error) {
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	ifs := &IfStmt{Cond: cond, Then: then}
	if p.isIdent("else") {
		p.advance()
		els, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		ifs.Else = els
	}
	return ifs, nil
}

func (p *parser) parseForStmt() (Stmt, error) {
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var init Stmt
	if p.isPunct(";") {
		p.advance()
	} else if p.startsDecl() {
		s, err := p.parseDeclStmt()
		if err != nil {
			return nil, err
		}
		init = s
	} else {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		init = &ExprStmt{X: e}
	}
	var cond Expr
	if !p.isPunct(";") {
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = c
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var post Expr
	if !p.isPunct(")") {
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		post = c
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *parser) parseWhileStmt() (Stmt, error) {
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body}, nil
}

func (p *parser) parseDoWhileStmt() (Stmt, error) {
	p.advance()
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if err := p.expectIdentKeyword("while"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &DoWhileStmt{Body: body, Cond: cond}, nil
}

func (p *parser) expectIdentKeyword(kw string) error {
	if !p.isIdent(kw) {
		return p.errf("expected %q, got %q", kw, p.tok.text)
	}
	p.advance()
	return nil
}

func (p *parser) parseSwitchStmt() (Stmt, error) {
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	tag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	sw := &SwitchStmt{Tag: tag}
	for !p.isPunct("}") {
		cc := &CaseClause{}
		if p.isIdent("case") {
			p.advance()
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			cc.Values = append(cc.Values, e)
		} else if p.isIdent("default") {
			p.advance()
			cc.Default = true
		} else {
			return nil, p.errf("expected case or default, got %q", p.tok.text)
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		for !p.isIdent("case") && !p.isIdent("default") && !p.isPunct("}") {
			s, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			cc.Stmts = append(cc.Stmts, s)
		}
		sw.Cases = append(sw.Cases, cc)
	}
	p.advance()
	return sw, nil
}

// --- expressions (precedence climbing) --------------------------------------

var binaryPrec = map[string]int{
	"||": 1, "^^": 2, "&&": 3,
	"|": 4, "^": 5, "&": 6,
	"==": 7, "!=": 7,
	"<": 8, ">": 8, "<=": 8, ">=": 8,
	"<<": 9, ">>": 9,
	"+": 10, "-": 10,
	"*": 11, "/": 11, "%": 11,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "^=": true, "|=": true,
}

func (p *parser) parseExpr() (Expr, error) {
	e, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if p.isPunct(",") {
		exprs := []Expr{e}
		for p.isPunct(",") {
			p.advance()
			next, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, next)
		}
		return &CommaExpr{Exprs: exprs}, nil
	}
	return e, nil
}

func (p *parser) parseAssignExpr() (Expr, error) {
	lhs, err := p.parseCondExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokPunct && assignOps[p.tok.text] {
		op := p.tok.text
		p.advance()
		rhs, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Op: op, Lhs: lhs, Rhs: rhs}, nil
	}
	return lhs, nil
}

func (p *parser) parseCondExpr() (Expr, error) {
	cond, err := p.parseBinaryExpr(1)
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		p.advance()
		then, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		els, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &CondExpr{Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

func (p *parser) parseBinaryExpr(minPrec int) (Expr, error) {
	lhs, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		if p.tok.kind != tokPunct {
			break
		}
		prec, ok := binaryPrec[p.tok.text]
		if !ok || prec < minPrec {
			break
		}
		op := p.tok.text
		p.advance()
		rhs, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{Op: op, X: lhs, Y: rhs}
	}
	return lhs, nil
}

var unaryOps = map[string]bool{"+": true, "-": true, "!": true, "~": true, "++": true, "--": true}

func (p *parser) parseUnaryExpr() (Expr, error) {
	if p.tok.kind == tokPunct && unaryOps[p.tok.text] {
		op := p.tok.text
		p.advance()
		x, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, X: x}, nil
	}
	return p.parsePostfixExpr()
}

func (p *parser) parsePostfixExpr() (Expr, error) {
	e, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			e = &SelectExpr{X: e, Field: field}
		case p.isPunct("["):
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			e = &IndexExpr{X: e, Index: idx}
		case p.isPunct("++"), p.isPunct("--"):
			op := p.tok.text
			p.advance()
			e = &UnaryExpr{Op: op, X: e, Postfix: true}
		default:
			return e, nil
		}
	}
}

func (p *parser) parsePrimaryExpr() (Expr, error) {
	switch {
	case p.isPunct("("):
		p.advance()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &ParenExpr{X: e}, nil
	case p.tok.kind == tokInt:
		t := p.tok.text
		p.advance()
		return &IntLit{Text: t}, nil
	case p.tok.kind == tokUint:
		t := p.tok.text
		p.advance()
		return &UintLit{Text: t}, nil
	case p.tok.kind == tokFloat:
		t := p.tok.text
		p.advance()
		return &FloatLit{Text: t}, nil
	case p.isIdent("true"):
		p.advance()
		return &BoolLit{Value: true}, nil
	case p.isIdent("false"):
		p.advance()
		return &BoolLit{Value: false}, nil
	case p.tok.kind == tokIdent:
		name := p.tok.text
		p.advance()
		if p.isPunct("(") {
			if isBuiltinTypeName(name) || (p.knownTypes != nil && p.knownTypes[name]) {
				return p.finishCallExpr(FunIdentifier{Type: &TypeSpecifier{Name: name}})
			}
			return p.finishCallExpr(FunIdentifier{Ident: name})
		}
		return &Variable{Name: name}, nil
	default:
		return nil, p.errf("unexpected token %q in expression", p.tok.text)
	}
}

func (p *parser) finishCallExpr(fun FunIdentifier) (Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	call := &CallExpr{Fun: fun}
	if p.isIdent("void") && p.peek2().kind == tokPunct && p.peek2().text == ")" {
		p.advance()
		p.advance()
		return call, nil
	}
	for !p.isPunct(")") {
		arg, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return call, nil
}

var builtinTypeNames = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "float": true, "double": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"sampler2D": true, "sampler3D": true, "samplerCube": true,
	"sampler2DArray": true, "sampler2DShadow": true, "samplerCubeShadow": true,
}

func isBuiltinTypeName(name string) bool { return builtinTypeNames[name] }
