// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/literal"
	"github.com/ruchy-lang/ruchy/ruchyerrors"
	"github.com/ruchy-lang/ruchy/scanner"
	"github.com/ruchy-lang/ruchy/token"
)

// The parser structure holds the parser's internal state while it turns a
// token stream into an *ast.File. It is used through the ParseFile/ParseExpr
// entry points in interface.go.
type parser struct {
	file    *token.File
	src     []byte
	errors  ruchyerrors.List
	scanner scanner.Scanner

	mode mode

	// Next token
	pos token.Pos   // token position
	tok token.Token // one token look-ahead
	lit string      // token literal

	curSegments []scanner.Segment // interpolation segments of the current FSTRING token

	// Comments are attached to the next top-level production that asks for
	// them; this is a simpler scheme than the teacher's position-tracking
	// commentState, since Ruchy's CommentGroup carries no mid-construct
	// Position field.
	pendingComment *ast.CommentGroup

	// syncPos and syncCnt are not read or written by any parse function;
	// error recovery consumes single tokens instead (see parseOperand).
	syncPos token.Pos
	syncCnt int
}

func (p *parser) init(file *token.File, src []byte, modeOpts []Option) {
	p.file = file
	p.src = src
	for _, f := range modeOpts {
		f(p)
	}

	var sm scanner.Mode
	if p.mode&parseCommentsMode != 0 {
		sm = scanner.ScanComments
	}
	eh := func(pos token.Position, msg string) {
		p.errors.AddNewf(p.file.Pos(pos.Offset), "%s", msg)
	}
	p.scanner.Init(file, src, eh, sm)

	p.next()
}

func (p *parser) next0() {
	p.pos, p.tok, p.lit = p.scanner.Scan()
	if p.tok == token.FSTRING {
		p.curSegments = append([]scanner.Segment(nil), p.scanner.Segments()...)
	}
}

// next advances to the next non-comment token, collecting any comment group
// encountered along the way into pendingComment.
func (p *parser) next() {
	prevLine := 0
	if p.pos.IsValid() {
		prevLine = p.file.Line(p.pos)
	}
	p.next0()
	if p.mode&parseCommentsMode == 0 || p.tok != token.COMMENT {
		return
	}

	var list []*ast.Comment
	firstLine := p.file.Line(p.pos)
	endLine := firstLine
	for p.tok == token.COMMENT {
		list = append(list, &ast.Comment{Slash: p.pos, Text: p.lit})
		endLine = p.file.Line(p.pos)
		p.next0()
	}
	cg := &ast.CommentGroup{List: list}
	switch {
	case prevLine != 0 && firstLine == prevLine:
		cg.Line = true
	case endLine+1 == p.file.Line(p.pos) && p.tok != token.EOF:
		cg.Doc = true
	}
	p.pendingComment = cg
}

// takeComment returns and clears any comment group collected since the last
// call, for attachment to the node about to be parsed.
func (p *parser) takeComment() *ast.CommentGroup {
	cg := p.pendingComment
	p.pendingComment = nil
	return cg
}

func (p *parser) errf(pos token.Pos, format string, args ...interface{}) {
	if p.mode&allErrorsMode == 0 {
		n := len(p.errors)
		if n > 0 && pos.IsValid() && p.errors[n-1].Position().IsValid() &&
			p.errors[n-1].Position().Position().Line == pos.Position().Line {
			return // discard - likely a spurious cascading error
		}
		if n >= maxErrors {
			panic(bailout{})
		}
	}
	p.errors.AddNewf(pos, format, args...)
}

func (p *parser) errorExpected(pos token.Pos, obj string) {
	if pos != p.pos {
		p.errf(pos, "expected %s", obj)
		return
	}
	if p.tok.IsLiteral() {
		p.errf(pos, "expected %s, found %s %s", obj, p.tok, p.lit)
	} else {
		p.errf(pos, "expected %s, found '%s'", obj, p.tok)
	}
}

func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos
	if p.tok != tok {
		p.errorExpected(pos, "'"+tok.String()+"'")
	}
	p.next()
	return pos
}

// expectGTR closes a generic type argument list, splitting a SHR ('>>')
// token in two so that nested generics like List<List<Int>> parse without
// requiring a space before the closing bracket.
func (p *parser) expectGTR() token.Pos {
	pos := p.pos
	switch p.tok {
	case token.GTR:
		p.next()
	case token.SHR:
		p.tok = token.GTR
		p.pos = p.pos.Add(1)
	default:
		p.errorExpected(pos, "'>'")
	}
	return pos
}

func isAssignOp(tok token.Token) bool {
	switch tok {
	case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN,
		token.MUL_ASSIGN, token.QUO_ASSIGN, token.REM_ASSIGN:
		return true
	}
	return false
}

// canStartExpr reports whether tok can be the first token of an expression.
// It is used to decide, without backtracking, whether an optional trailing
// construct (a let-body, a break value, a range's high bound) is present.
func canStartExpr(tok token.Token) bool {
	switch tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING, token.FSTRING,
		token.CHAR, token.ATOM, token.TRUE, token.FALSE, token.NULL,
		token.LPAREN, token.LBRACK, token.LBRACE,
		token.SUB, token.NOT,
		token.LET, token.IF, token.MATCH, token.WHILE, token.FOR, token.LOOP,
		token.LOOPLABEL, token.BREAK, token.CONTINUE, token.RETURN,
		token.FUN, token.FN, token.OR, token.ASYNC, token.AWAIT, token.AT:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Declarations

func (p *parser) parseFile() *ast.File {
	var decls []ast.Decl
	for p.tok != token.EOF {
		// A ';' between two declarations (e.g. after a func/struct/enum's
		// closing '}', spec E2's `fun fact(n) {...}; fact(10)`) is a no-op
		// separator here, same as the optional trailing ';' parseDecl's
		// ExprDecl branch already swallows for expression statements.
		if p.tok == token.SEMICOLON {
			p.next()
			continue
		}
		decls = append(decls, p.parseDecl())
	}
	return &ast.File{Decls: decls}
}

func (p *parser) parseDecl() ast.Decl {
	doc := p.takeComment()

	pub := false
	pubPos := token.NoPos
	if p.tok == token.PUB {
		pub = true
		pubPos = p.pos
		p.next()
	}

	var d ast.Decl
	switch p.tok {
	case token.FUN, token.FN:
		d = p.parseFuncDecl(pub, pubPos)
	case token.STRUCT:
		d = p.parseStructDecl(pub, pubPos)
	case token.ENUM:
		d = p.parseEnumDecl(pub, pubPos)
	case token.TRAIT:
		d = p.parseTraitDecl(pub, pubPos)
	case token.IMPL:
		if pub {
			p.errf(pubPos, "'pub' is not allowed before 'impl'")
		}
		d = p.parseImplDecl()
	case token.USE:
		if pub {
			p.errf(pubPos, "'pub' is not allowed before 'use'")
		}
		d = p.parseUseDecl()
	case token.MOD:
		d = p.parseModDecl(pub, pubPos)
	default:
		if pub {
			p.errf(pubPos, "expected a declaration after 'pub'")
		}
		x := p.parseExprSeq()
		if p.tok == token.SEMICOLON {
			p.next()
		}
		d = &ast.ExprDecl{X: x}
	}
	d.AddComment(doc)
	return d
}

func (p *parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for p.tok != token.RPAREN && p.tok != token.EOF {
		pat := p.parsePattern()
		var typ ast.Expr
		if p.tok == token.COLON {
			p.next()
			typ = p.parseTypeExpr()
		}
		params = append(params, &ast.Param{Pat: pat, Type: typ})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseFuncDecl(pub bool, pubPos token.Pos) *ast.FuncDecl {
	funPos := p.pos
	p.next() // 'fun' or 'fn'
	name := p.parseIdent()
	params := p.parseParamList()
	var retType ast.Expr
	if p.tok == token.ARROW {
		p.next()
		retType = p.parseTypeExpr()
	}
	body := p.parseBlockExpr()
	return &ast.FuncDecl{Pub: pub, PubPos: pubPos, Fun: funPos, Name: name, Params: params, ReturnType: retType, Body: body}
}

// parseTraitMethod parses one trait member, whose body is optional (a bare
// signature ending in ';' for methods without a default implementation).
func (p *parser) parseTraitMethod() *ast.FuncDecl {
	doc := p.takeComment()
	funPos := p.pos
	p.next()
	name := p.parseIdent()
	params := p.parseParamList()
	var retType ast.Expr
	if p.tok == token.ARROW {
		p.next()
		retType = p.parseTypeExpr()
	}
	body := &ast.BlockExpr{}
	if p.tok == token.LBRACE {
		body = p.parseBlockExpr()
	} else if p.tok == token.SEMICOLON {
		p.next()
	} else {
		p.errorExpected(p.pos, "'{' or ';'")
	}
	d := &ast.FuncDecl{Fun: funPos, Name: name, Params: params, ReturnType: retType, Body: body}
	d.AddComment(doc)
	return d
}

func (p *parser) parseFieldDef() *ast.FieldDef {
	fpub := false
	if p.tok == token.PUB {
		fpub = true
		p.next()
	}
	name := p.parseIdent()
	p.expect(token.COLON)
	typ := p.parseTypeExpr()
	return &ast.FieldDef{Pub: fpub, Name: name, Type: typ}
}

func (p *parser) parseStructDecl(pub bool, pubPos token.Pos) *ast.StructDecl {
	structPos := p.expect(token.STRUCT)
	name := p.parseIdent()
	lbrace := p.expect(token.LBRACE)
	var fields []*ast.FieldDef
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fields = append(fields, p.parseFieldDef())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.StructDecl{Pub: pub, PubPos: pubPos, Struct: structPos, Name: name, Lbrace: lbrace, Fields: fields, Rbrace: rbrace}
}

func (p *parser) parseVariantDef() *ast.VariantDef {
	name := p.parseIdent()
	v := &ast.VariantDef{Name: name}
	switch p.tok {
	case token.LPAREN:
		p.next()
		for p.tok != token.RPAREN && p.tok != token.EOF {
			v.Elts = append(v.Elts, p.parseTypeExpr())
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RPAREN)
	case token.LBRACE:
		p.next()
		for p.tok != token.RBRACE && p.tok != token.EOF {
			v.Fields = append(v.Fields, p.parseFieldDef())
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		p.expect(token.RBRACE)
	}
	return v
}

func (p *parser) parseEnumDecl(pub bool, pubPos token.Pos) *ast.EnumDecl {
	enumPos := p.expect(token.ENUM)
	name := p.parseIdent()
	lbrace := p.expect(token.LBRACE)
	var variants []*ast.VariantDef
	for p.tok != token.RBRACE && p.tok != token.EOF {
		variants = append(variants, p.parseVariantDef())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.EnumDecl{Pub: pub, PubPos: pubPos, Enum: enumPos, Name: name, Lbrace: lbrace, Variants: variants, Rbrace: rbrace}
}

func (p *parser) parseTraitDecl(pub bool, pubPos token.Pos) *ast.TraitDecl {
	traitPos := p.expect(token.TRAIT)
	name := p.parseIdent()
	lbrace := p.expect(token.LBRACE)
	var methods []*ast.FuncDecl
	for p.tok != token.RBRACE && p.tok != token.EOF {
		methods = append(methods, p.parseTraitMethod())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.TraitDecl{Pub: pub, PubPos: pubPos, Trait: traitPos, Name: name, Lbrace: lbrace, Methods: methods, Rbrace: rbrace}
}

func (p *parser) parseImplDecl() *ast.ImplDecl {
	implPos := p.expect(token.IMPL)
	first := p.parseIdent()
	var trait *ast.Ident
	var forPos token.Pos
	typeName := first
	if p.tok == token.FOR {
		trait = first
		forPos = p.pos
		p.next()
		typeName = p.parseIdent()
	}
	lbrace := p.expect(token.LBRACE)
	var methods []*ast.FuncDecl
	for p.tok != token.RBRACE && p.tok != token.EOF {
		methods = append(methods, p.parseFuncDecl(false, token.NoPos))
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.ImplDecl{Impl: implPos, Trait: trait, For: forPos, Type: typeName, Lbrace: lbrace, Methods: methods, Rbrace: rbrace}
}

// parseUseDecl parses `use a::b::c [as alias]`. "as" has no dedicated token
// (token.go reserves no AS keyword); it is recognized contextually as an
// identifier, the way the teacher's import spec recognizes bare "package" by
// literal text rather than by keyword.
func (p *parser) parseUseDecl() *ast.UseDecl {
	usePos := p.expect(token.USE)
	comps := []*ast.Ident{p.parseIdent()}
	for p.tok == token.COLONCOLON {
		p.next()
		comps = append(comps, p.parseIdent())
	}
	path := &ast.ModulePath{Components: comps}

	var asPos token.Pos
	var alias *ast.Ident
	if p.tok == token.IDENT && p.lit == "as" {
		asPos = p.pos
		p.next()
		alias = p.parseIdent()
	}
	if p.tok == token.SEMICOLON {
		p.next()
	}
	return &ast.UseDecl{Use: usePos, Path: path, As: asPos, Alias: alias}
}

func (p *parser) parseModDecl(pub bool, pubPos token.Pos) *ast.ModDecl {
	modPos := p.expect(token.MOD)
	name := p.parseIdent()
	lbrace := p.expect(token.LBRACE)
	var decls []ast.Decl
	for p.tok != token.RBRACE && p.tok != token.EOF {
		decls = append(decls, p.parseDecl())
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.ModDecl{Pub: pub, PubPos: pubPos, Mod: modPos, Name: name, Lbrace: lbrace, Decls: decls, Rbrace: rbrace}
}

// ----------------------------------------------------------------------------
// Types
//
// Type annotations reuse the expression grammar: a path expression, optional
// generic arguments spelled with '<' '>' and represented as an IndexExpr
// over a TupleLit for arity > 1, matching how the teacher keeps its label
// and type syntax inside the same Expr hierarchy as values.

func (p *parser) parseTypePath() ast.Expr {
	ident := p.parseIdent()
	if p.tok != token.COLONCOLON {
		return ident
	}
	comps := []*ast.Ident{ident}
	for p.tok == token.COLONCOLON {
		p.next()
		comps = append(comps, p.parseIdent())
	}
	return &ast.PathExpr{Components: comps}
}

func (p *parser) parseTypeExpr() ast.Expr {
	base := p.parseTypePath()
	if p.tok != token.LSS {
		return base
	}
	lbrack := p.pos
	p.next()
	var args []ast.Expr
	for p.tok != token.GTR && p.tok != token.SHR && p.tok != token.EOF {
		args = append(args, p.parseTypeExpr())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rbrack := p.expectGTR()
	var idx ast.Expr
	switch len(args) {
	case 0:
		idx = &ast.TupleLit{Lparen: lbrack, Rparen: rbrack}
	case 1:
		idx = args[0]
	default:
		idx = &ast.TupleLit{Lparen: lbrack, Elts: args, Rparen: rbrack}
	}
	return &ast.IndexExpr{X: base, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
}

// ----------------------------------------------------------------------------
// Patterns

func (p *parser) parseIdent() *ast.Ident {
	pos := p.pos
	name := "_"
	if p.tok == token.IDENT {
		name = p.lit
		p.next()
	} else {
		p.expect(token.IDENT)
	}
	return &ast.Ident{NamePos: pos, Name: ast.Intern(name)}
}

func (p *parser) parsePattern() ast.Pattern {
	first := p.parsePrimaryPattern()
	if p.tok != token.OR {
		return first
	}
	alts := []ast.Pattern{first}
	for p.tok == token.OR {
		p.next()
		alts = append(alts, p.parsePrimaryPattern())
	}
	return &ast.OrPattern{Alts: alts}
}

func (p *parser) parsePrimaryPattern() ast.Pattern {
	switch p.tok {
	case token.MUT:
		mutPos := p.pos
		p.next()
		name := p.parseIdent()
		return &ast.BindingPattern{Mutable: true, MutPos: mutPos, Name: name}
	case token.IDENT:
		if p.lit == "_" {
			pos := p.pos
			p.next()
			return &ast.WildcardPattern{Underscore: pos}
		}
		return p.parsePathPattern()
	case token.INT, token.FLOAT, token.STRING, token.FSTRING, token.CHAR, token.ATOM, token.TRUE, token.FALSE:
		return &ast.LiteralPattern{Value: p.parseOperand()}
	case token.SUB:
		opPos := p.pos
		p.next()
		x := p.parseOperand()
		return &ast.LiteralPattern{Value: &ast.UnaryExpr{OpPos: opPos, Op: token.SUB, X: x}}
	case token.LPAREN:
		return p.parseTuplePattern()
	case token.LBRACK:
		return p.parseListPattern()
	default:
		pos := p.pos
		p.errorExpected(pos, "pattern")
		p.next()
		return &ast.WildcardPattern{Underscore: pos}
	}
}

// parsePathPattern handles a (possibly `::`-qualified) identifier pattern,
// branching into a plain binding, a struct pattern, or a tuple/struct/unit
// enum-variant pattern depending on what follows.
func (p *parser) parsePathPattern() ast.Pattern {
	path := []*ast.Ident{p.parseIdent()}
	for p.tok == token.COLONCOLON {
		p.next()
		path = append(path, p.parseIdent())
	}

	switch p.tok {
	case token.LPAREN:
		p.next()
		var elts []ast.Pattern
		rest := false
		for p.tok != token.RPAREN && p.tok != token.EOF {
			if p.tok == token.RANGE {
				p.next()
				rest = true
				break
			}
			elts = append(elts, p.parsePattern())
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		rparen := p.expect(token.RPAREN)
		return &ast.EnumVariantPattern{Path: path, Elts: elts, Rest: rest, Rparen: rparen}

	case token.LBRACE:
		lbrace := p.pos
		p.next()
		var fields []*ast.FieldPattern
		rest := false
		for p.tok != token.RBRACE && p.tok != token.EOF {
			if p.tok == token.RANGE {
				p.next()
				rest = true
				break
			}
			fname := p.parseIdent()
			var fpat ast.Pattern
			if p.tok == token.COLON {
				p.next()
				fpat = p.parsePattern()
			} else {
				fpat = &ast.BindingPattern{Name: fname}
			}
			fields = append(fields, &ast.FieldPattern{Name: fname, Pat: fpat})
			if p.tok == token.COMMA {
				p.next()
				continue
			}
			break
		}
		rbrace := p.expect(token.RBRACE)
		if len(path) == 1 {
			return &ast.StructPattern{Name: path[0], Lbrace: lbrace, Fields: fields, Rest: rest, Rbrace: rbrace}
		}
		return &ast.EnumVariantPattern{Path: path, IsStruct: true, Fields: fields, Rest: rest, Rbrace: rbrace}

	default:
		if len(path) == 1 {
			return &ast.BindingPattern{Name: path[0]}
		}
		return &ast.EnumVariantPattern{Path: path}
	}
}

func (p *parser) parseTuplePattern() *ast.TuplePattern {
	lparen := p.expect(token.LPAREN)
	var elts []ast.Pattern
	for p.tok != token.RPAREN && p.tok != token.EOF {
		elts = append(elts, p.parsePattern())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rparen := p.expect(token.RPAREN)
	return &ast.TuplePattern{Lparen: lparen, Elts: elts, Rparen: rparen}
}

func (p *parser) parseListPattern() *ast.ListPattern {
	lbrack := p.expect(token.LBRACK)
	var elts []ast.Pattern
	var rest *ast.Ident
	for p.tok != token.RBRACK && p.tok != token.EOF {
		if p.tok == token.RANGE {
			p.next()
			if p.tok == token.IDENT {
				rest = p.parseIdent()
			} else {
				rest = ast.NewIdent("_")
			}
			break
		}
		elts = append(elts, p.parsePattern())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ListPattern{Lbrack: lbrack, Elts: elts, Rest: rest, Rbrack: rbrack}
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpr() ast.Expr {
	x := p.parseBinaryExpr(token.LowestPrec + 1)
	if isAssignOp(p.tok) {
		opPos, op := p.pos, p.tok
		p.next()
		value := p.parseExpr()
		return &ast.AssignExpr{Target: x, OpPos: opPos, Op: op, Value: value}
	}
	return x
}

// parseExprSeq parses a `;`-separated run of expressions as a single Expr:
// one expression if there is only one, otherwise a synthetic BlockExpr with
// no brace positions (mirroring NewIdent's precedent of NoPos for nodes
// synthesized by the parser rather than read verbatim from source). This is
// also how a let-binding's Body absorbs the remainder of its enclosing
// sequence, since LetExpr is parsed through the same parseExpr dispatch.
func (p *parser) parseExprSeq() ast.Expr {
	first := p.parseExpr()
	if p.tok != token.SEMICOLON {
		return first
	}
	exprs := []ast.Expr{first}
	semis := []bool{true}
	p.next()
	for canStartExpr(p.tok) {
		e := p.parseExpr()
		exprs = append(exprs, e)
		if p.tok == token.SEMICOLON {
			semis = append(semis, true)
			p.next()
			continue
		}
		semis = append(semis, false)
		break
	}
	return &ast.BlockExpr{Exprs: exprs, Semi: semis}
}

func desugarPipe(lhs, rhs ast.Expr, pos token.Pos) ast.Expr {
	if call, ok := rhs.(*ast.CallExpr); ok {
		call.Args = append([]ast.Expr{lhs}, call.Args...)
		return call
	}
	return &ast.CallExpr{Fun: rhs, Lparen: pos, Args: []ast.Expr{lhs}, Rparen: pos}
}

func (p *parser) parseBinaryExpr(minPrec int) ast.Expr {
	x := p.parseUnaryExpr()
	for {
		op := p.tok
		if isAssignOp(op) {
			return x
		}
		prec := op.Precedence()
		if prec < minPrec {
			return x
		}
		opPos := p.pos
		p.next()

		switch op {
		case token.RANGE, token.RANGE_INCL:
			var high ast.Expr
			if canStartExpr(p.tok) {
				high = p.parseBinaryExpr(prec + 1)
			}
			x = &ast.RangeExpr{Low: x, OpPos: opPos, Inclusive: op == token.RANGE_INCL, High: high}
		case token.PIPE_ARROW:
			rhs := p.parseBinaryExpr(prec + 1)
			x = desugarPipe(x, rhs, opPos)
		default:
			nextMin := prec + 1
			if op.IsRightAssociative() {
				nextMin = prec
			}
			y := p.parseBinaryExpr(nextMin)
			x = &ast.BinaryExpr{X: x, OpPos: opPos, Op: op, Y: y}
		}
	}
}

func (p *parser) parseUnaryExpr() ast.Expr {
	switch p.tok {
	case token.SUB, token.NOT:
		pos, op := p.pos, p.tok
		p.next()
		x := p.parseUnaryExpr()
		return &ast.UnaryExpr{OpPos: pos, Op: op, X: x}
	case token.AWAIT:
		pos := p.pos
		p.next()
		x := p.parseUnaryExpr()
		return &ast.AwaitExpr{Await: pos, X: x}
	}
	return p.parsePostfixExpr()
}

func (p *parser) parseArgList() []ast.Expr {
	var args []ast.Expr
	for p.tok != token.RPAREN && p.tok != token.EOF {
		args = append(args, p.parseExpr())
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	return args
}

func (p *parser) parsePostfixExpr() ast.Expr {
	x := p.parseOperand()
	for {
		switch p.tok {
		case token.PERIOD:
			dot := p.pos
			p.next()
			sel := p.parseIdent()
			if p.tok == token.LPAREN {
				lparen := p.pos
				p.next()
				args := p.parseArgList()
				rparen := p.expect(token.RPAREN)
				x = &ast.MethodCallExpr{Recv: x, Dot: dot, Method: sel, Lparen: lparen, Args: args, Rparen: rparen}
			} else {
				x = &ast.SelectorExpr{X: x, Dot: dot, Sel: sel}
			}
		case token.LPAREN:
			lparen := p.pos
			p.next()
			args := p.parseArgList()
			rparen := p.expect(token.RPAREN)
			x = &ast.CallExpr{Fun: x, Lparen: lparen, Args: args, Rparen: rparen}
		case token.LBRACK:
			lbrack := p.pos
			p.next()
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = &ast.IndexExpr{X: x, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
		default:
			return x
		}
	}
}

func (p *parser) parseOperand() ast.Expr {
	switch p.tok {
	case token.IDENT:
		ident := p.parseIdent()
		if p.tok != token.COLONCOLON {
			return ident
		}
		comps := []*ast.Ident{ident}
		for p.tok == token.COLONCOLON {
			p.next()
			comps = append(comps, p.parseIdent())
		}
		return &ast.PathExpr{Components: comps}

	case token.INT:
		x := &ast.IntLit{ValuePos: p.pos, Value: p.lit}
		p.next()
		return x

	case token.FLOAT:
		x := &ast.FloatLit{ValuePos: p.pos, Value: p.lit}
		p.next()
		return x

	case token.STRING:
		pos, raw := p.pos, p.lit
		body := raw
		if n := len(body); n >= 2 && body[n-1] == body[0] {
			body = body[1 : n-1]
		}
		val, err := literal.Unquote(body)
		if err != nil {
			p.errf(pos, "invalid string literal: %v", err)
		}
		p.next()
		return &ast.StringLit{ValuePos: pos, Value: val, Raw: raw}

	case token.FSTRING:
		return p.parseFStringLit()

	case token.CHAR:
		pos, raw := p.pos, p.lit
		body := raw
		if n := len(body); n >= 2 && body[n-1] == body[0] {
			body = body[1 : n-1]
		}
		val, err := literal.Unquote(body)
		if err != nil {
			p.errf(pos, "invalid char literal: %v", err)
		}
		p.next()
		return &ast.CharLit{ValuePos: pos, Value: val, Raw: raw}

	case token.ATOM:
		pos, name := p.pos, p.lit
		p.next()
		return &ast.AtomLit{ColonPos: pos, Name: ast.Intern(name)}

	case token.TRUE, token.FALSE:
		x := &ast.BoolLit{ValuePos: p.pos, Value: p.tok == token.TRUE}
		p.next()
		return x

	case token.NULL:
		pos := p.pos
		p.next()
		return &ast.UnitLit{Lparen: pos}

	case token.LPAREN:
		return p.parseParenOrTuple()

	case token.LBRACK:
		return p.parseListOrComprehension()

	case token.LBRACE:
		return p.parseBraceExpr()

	case token.OR:
		return p.parseClosureLit()

	case token.FUN, token.FN:
		return p.parseFuncLit()

	case token.ASYNC:
		return p.parseAsyncExpr()

	case token.AT:
		return p.parseAttrExpr()

	case token.LET:
		return p.parseLetExpr()

	case token.IF:
		return p.parseIfExpr()

	case token.MATCH:
		return p.parseMatchExpr()

	case token.WHILE:
		return p.parseWhileExpr(nil)

	case token.FOR:
		return p.parseForExpr(nil)

	case token.LOOP:
		return p.parseLoopExpr(nil)

	case token.LOOPLABEL:
		return p.parseLabeledLoop()

	case token.BREAK:
		return p.parseBreakExpr()

	case token.CONTINUE:
		return p.parseContinueExpr()

	case token.RETURN:
		return p.parseReturnExpr()

	default:
		pos := p.pos
		p.errorExpected(pos, "expression")
		p.next()
		return &ast.BadExpr{From: pos, To: p.pos}
	}
}

func (p *parser) parseFStringLit() *ast.FStringLit {
	pos, raw, segs := p.pos, p.lit, p.curSegments
	p.next()

	out := make([]ast.FStringSegment, 0, len(segs))
	for _, seg := range segs {
		if seg.Literal {
			out = append(out, ast.FStringSegment{Text: seg.Text})
			continue
		}
		src := p.src[seg.ExprStart:seg.ExprEnd]
		sub, err := ParseExpr(p.file.Name(), src)
		if err != nil {
			p.errors.Add(ruchyerrors.Promote(err, "invalid f-string expression"))
			out = append(out, ast.FStringSegment{Expr: &ast.BadExpr{From: pos, To: pos}})
			continue
		}
		out = append(out, ast.FStringSegment{Expr: sub})
	}
	return &ast.FStringLit{FPos: pos, Segments: out, Raw: raw}
}

func (p *parser) parseParenOrTuple() ast.Expr {
	lparen := p.expect(token.LPAREN)
	if p.tok == token.RPAREN {
		p.next()
		return &ast.UnitLit{Lparen: lparen}
	}
	first := p.parseExpr()
	if p.tok != token.COMMA {
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: lparen, X: first, Rparen: rparen}
	}
	elts := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.next()
		if p.tok == token.RPAREN {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	rparen := p.expect(token.RPAREN)
	return &ast.TupleLit{Lparen: lparen, Elts: elts, Rparen: rparen}
}

func (p *parser) parseListOrComprehension() ast.Expr {
	lbrack := p.expect(token.LBRACK)
	if p.tok == token.RBRACK {
		rbrack := p.pos
		p.next()
		return &ast.ListLit{Lbrack: lbrack, Rbrack: rbrack}
	}
	first := p.parseExpr()
	if p.tok == token.FOR {
		clauses := p.parseComprehensionClauses()
		rbrack := p.expect(token.RBRACK)
		return &ast.ListComprehension{Lbrack: lbrack, Expr: first, Clauses: clauses, Rbrack: rbrack}
	}
	elts := []ast.Expr{first}
	for p.tok == token.COMMA {
		p.next()
		if p.tok == token.RBRACK {
			break
		}
		elts = append(elts, p.parseExpr())
	}
	rbrack := p.expect(token.RBRACK)
	return &ast.ListLit{Lbrack: lbrack, Elts: elts, Rbrack: rbrack}
}

func (p *parser) parseComprehensionClauses() []ast.Clause {
	var clauses []ast.Clause
	for p.tok == token.FOR || p.tok == token.IF {
		if p.tok == token.FOR {
			forPos := p.pos
			p.next()
			pat := p.parsePattern()
			inPos := p.expect(token.IN)
			src := p.parseBinaryExpr(token.LowestPrec + 1)
			clauses = append(clauses, &ast.ForClause{For: forPos, Pat: pat, In: inPos, Source: src})
			continue
		}
		ifPos := p.pos
		p.next()
		cond := p.parseBinaryExpr(token.LowestPrec + 1)
		clauses = append(clauses, &ast.IfClause{If: ifPos, Cond: cond})
	}
	return clauses
}

// parseBraceExpr parses a primary-position '{'. It speculatively parses the
// first element as an expression; if a ':' follows, the whole thing is a map
// literal, otherwise it is a block. if/while/for/loop/fun bodies never go
// through here (they call parseBlockExpr directly) so they are never
// map-ambiguous, the same way Rust requires parens around a struct literal
// used as a loop/if condition.
func (p *parser) parseBraceExpr() ast.Expr {
	lbrace := p.expect(token.LBRACE)
	if p.tok == token.RBRACE {
		rbrace := p.pos
		p.next()
		return &ast.BlockExpr{Lbrace: lbrace, Rbrace: rbrace}
	}
	first := p.parseExpr()
	if p.tok == token.COLON {
		return p.parseMapLitBody(lbrace, first)
	}
	return p.parseBlockBody(lbrace, first)
}

func (p *parser) parseMapLitBody(lbrace token.Pos, key ast.Expr) *ast.MapLit {
	colon := p.expect(token.COLON)
	value := p.parseExpr()
	entries := []*ast.MapEntry{{Key: key, Colon: colon, Value: value}}
	for p.tok == token.COMMA {
		p.next()
		if p.tok == token.RBRACE {
			break
		}
		k := p.parseExpr()
		c := p.expect(token.COLON)
		v := p.parseExpr()
		entries = append(entries, &ast.MapEntry{Key: k, Colon: c, Value: v})
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.MapLit{Lbrace: lbrace, Entries: entries, Rbrace: rbrace}
}

// parseBlockBody finishes a block whose first expression has already been
// parsed (used both by parseBlockExpr and parseBraceExpr's speculative
// disambiguation).
func (p *parser) parseBlockBody(lbrace token.Pos, first ast.Expr) *ast.BlockExpr {
	exprs := []ast.Expr{first}
	var semis []bool
	semi := false
	if p.tok == token.SEMICOLON {
		semi = true
		p.next()
	}
	semis = append(semis, semi)

	for p.tok != token.RBRACE && p.tok != token.EOF {
		e := p.parseExpr()
		exprs = append(exprs, e)
		semi := false
		if p.tok == token.SEMICOLON {
			semi = true
			p.next()
		}
		semis = append(semis, semi)
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.BlockExpr{Lbrace: lbrace, Exprs: exprs, Semi: semis, Rbrace: rbrace}
}

func (p *parser) parseBlockExpr() *ast.BlockExpr {
	lbrace := p.expect(token.LBRACE)
	if p.tok == token.RBRACE {
		rbrace := p.pos
		p.next()
		return &ast.BlockExpr{Lbrace: lbrace, Rbrace: rbrace}
	}
	first := p.parseExpr()
	return p.parseBlockBody(lbrace, first)
}

// parseLetExpr parses `let [mut] pat [: Type] = value`, then greedily
// absorbs the remainder of its enclosing ';'-sequence into Body: Body stays
// nil exactly when nothing follows, which is how the parser realizes the
// "extends the enclosing block's remaining scope" rule documented on
// ast.LetExpr without any special-casing in parseBlockBody's own loop (the
// next token is already the block terminator once Body has consumed the
// rest).
func (p *parser) parseLetExpr() *ast.LetExpr {
	letPos := p.expect(token.LET)
	mutable := false
	if p.tok == token.MUT {
		mutable = true
		p.next()
	}
	pat := p.parsePattern()
	var typ ast.Expr
	if p.tok == token.COLON {
		p.next()
		typ = p.parseTypeExpr()
	}
	eq := p.expect(token.ASSIGN)
	value := p.parseExpr()

	var body ast.Expr
	if p.tok == token.SEMICOLON {
		p.next()
		if canStartExpr(p.tok) {
			body = p.parseExprSeq()
		}
	}
	return &ast.LetExpr{Let: letPos, Mutable: mutable, Pat: pat, Type: typ, Eq: eq, Value: value, Body: body}
}

func (p *parser) parseIfExpr() *ast.IfExpr {
	ifPos := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlockExpr()
	var elseExpr ast.Expr
	if p.tok == token.ELSE {
		p.next()
		if p.tok == token.IF {
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = p.parseBlockExpr()
		}
	}
	return &ast.IfExpr{If: ifPos, Cond: cond, Then: then, Else: elseExpr}
}

func (p *parser) parseMatchExpr() *ast.MatchExpr {
	matchPos := p.expect(token.MATCH)
	scrutinee := p.parseExpr()
	p.expect(token.LBRACE)
	var arms []*ast.MatchArm
	for p.tok != token.RBRACE && p.tok != token.EOF {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.tok == token.IF {
			p.next()
			guard = p.parseExpr()
		}
		arrow := p.expect(token.FAT_ARROW)
		body := p.parseExpr()
		arms = append(arms, &ast.MatchArm{Pat: pat, Guard: guard, Arrow: arrow, Body: body})
		if p.tok == token.COMMA {
			p.next()
		}
	}
	rbrace := p.expect(token.RBRACE)
	return &ast.MatchExpr{Match: matchPos, Scrutinee: scrutinee, Arms: arms, Rbrace: rbrace}
}

func (p *parser) parseWhileExpr(label *ast.Ident) *ast.WhileExpr {
	whilePos := p.expect(token.WHILE)
	cond := p.parseExpr()
	body := p.parseBlockExpr()
	return &ast.WhileExpr{Label: label, While: whilePos, Cond: cond, Body: body}
}

func (p *parser) parseForExpr(label *ast.Ident) *ast.ForExpr {
	forPos := p.expect(token.FOR)
	pat := p.parsePattern()
	inPos := p.expect(token.IN)
	iter := p.parseExpr()
	body := p.parseBlockExpr()
	return &ast.ForExpr{Label: label, For: forPos, Pat: pat, In: inPos, Iter: iter, Body: body}
}

func (p *parser) parseLoopExpr(label *ast.Ident) *ast.LoopExpr {
	loopPos := p.expect(token.LOOP)
	body := p.parseBlockExpr()
	return &ast.LoopExpr{Label: label, Loop: loopPos, Body: body}
}

func (p *parser) parseLabeledLoop() ast.Expr {
	label := &ast.Ident{NamePos: p.pos, Name: ast.Intern(p.lit)}
	p.next() // consume LOOPLABEL
	switch p.tok {
	case token.WHILE:
		return p.parseWhileExpr(label)
	case token.FOR:
		return p.parseForExpr(label)
	case token.LOOP:
		return p.parseLoopExpr(label)
	default:
		p.errorExpected(p.pos, "'while', 'for', or 'loop' after label")
		return &ast.BadExpr{From: label.Pos(), To: p.pos}
	}
}

func (p *parser) parseLifetimeLabel() *ast.Ident {
	if p.tok != token.LIFETIME {
		p.errorExpected(p.pos, "loop label")
		return nil
	}
	label := &ast.Ident{NamePos: p.pos, Name: ast.Intern(p.lit)}
	p.next()
	return label
}

func (p *parser) parseBreakExpr() *ast.BreakExpr {
	breakPos := p.expect(token.BREAK)
	var label *ast.Ident
	if p.tok == token.LIFETIME {
		label = p.parseLifetimeLabel()
	}
	var value ast.Expr
	if canStartExpr(p.tok) {
		value = p.parseExpr()
	}
	return &ast.BreakExpr{Break: breakPos, Label: label, Value: value}
}

func (p *parser) parseContinueExpr() *ast.ContinueExpr {
	continuePos := p.expect(token.CONTINUE)
	var label *ast.Ident
	if p.tok == token.LIFETIME {
		label = p.parseLifetimeLabel()
	}
	return &ast.ContinueExpr{Continue: continuePos, Label: label}
}

func (p *parser) parseReturnExpr() *ast.ReturnExpr {
	returnPos := p.expect(token.RETURN)
	var value ast.Expr
	if canStartExpr(p.tok) {
		value = p.parseExpr()
	}
	return &ast.ReturnExpr{Return: returnPos, Value: value}
}

func (p *parser) parseClosureLit() *ast.FuncLit {
	bar := p.expect(token.OR)
	var params []*ast.Param
	for p.tok != token.OR && p.tok != token.EOF {
		pat := p.parsePattern()
		var typ ast.Expr
		if p.tok == token.COLON {
			p.next()
			typ = p.parseTypeExpr()
		}
		params = append(params, &ast.Param{Pat: pat, Type: typ})
		if p.tok == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.OR)
	var retType ast.Expr
	if p.tok == token.ARROW {
		p.next()
		retType = p.parseTypeExpr()
	}
	body := p.parseExpr()
	return &ast.FuncLit{Fun: bar, Bar: true, Params: params, ReturnType: retType, Body: body}
}

func (p *parser) parseFuncLit() *ast.FuncLit {
	funPos := p.pos
	p.next() // 'fun' or 'fn'
	params := p.parseParamList()
	var retType ast.Expr
	if p.tok == token.ARROW {
		p.next()
		retType = p.parseTypeExpr()
	}
	body := p.parseExpr()
	return &ast.FuncLit{Fun: funPos, Params: params, ReturnType: retType, Body: body}
}

func (p *parser) parseAsyncExpr() *ast.AsyncExpr {
	asyncPos := p.expect(token.ASYNC)
	body := p.parseBlockExpr()
	return &ast.AsyncExpr{Async: asyncPos, Body: body}
}

func (p *parser) parseAttrExpr() *ast.AttrExpr {
	at := p.expect(token.AT)
	name := p.parseIdent()
	var args []ast.Expr
	if p.tok == token.LPAREN {
		p.next()
		args = p.parseArgList()
		p.expect(token.RPAREN)
	}
	x := p.parseExpr()
	return &ast.AttrExpr{At: at, Name: name, Args: args, X: x}
}
