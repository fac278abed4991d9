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

// Package ast declares the types used to represent the Ruchy syntax tree.
//
// Ruchy is expression-oriented: every construct, including forms that look
// like statements in other languages, produces a value. The canonical node
// set mirrors spec section 3.3 — a tagged variant over expressions, with a
// parallel variant for patterns and a small set of top-level declarations.
package ast

import (
	"strings"

	"github.com/ruchy-lang/ruchy/token"
)

// ----------------------------------------------------------------------------
// Interfaces

// A Node represents any node in the abstract syntax tree. Every node carries
// a span (spec section 3.1); Pos and End give its two endpoints.
type Node interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node

	Comments() []*CommentGroup
	AddComment(*CommentGroup)
}

// An Expr is implemented by all expression nodes. Because Ruchy is
// expression-oriented, this also covers what other languages would call
// statements (let-bindings, loops, return/break/continue).
type Expr interface {
	Node
	exprNode()
}

func (*BadExpr) exprNode()        {}
func (*Ident) exprNode()          {}
func (*IntLit) exprNode()         {}
func (*FloatLit) exprNode()       {}
func (*StringLit) exprNode()      {}
func (*FStringLit) exprNode()     {}
func (*CharLit) exprNode()        {}
func (*BoolLit) exprNode()        {}
func (*AtomLit) exprNode()        {}
func (*UnitLit) exprNode()        {}
func (*ParenExpr) exprNode()      {}
func (*BinaryExpr) exprNode()     {}
func (*UnaryExpr) exprNode()      {}
func (*AssignExpr) exprNode()     {}
func (*LetExpr) exprNode()        {}
func (*BlockExpr) exprNode()      {}
func (*IfExpr) exprNode()         {}
func (*MatchExpr) exprNode()      {}
func (*WhileExpr) exprNode()      {}
func (*ForExpr) exprNode()        {}
func (*LoopExpr) exprNode()       {}
func (*BreakExpr) exprNode()      {}
func (*ContinueExpr) exprNode()   {}
func (*ReturnExpr) exprNode()     {}
func (*FuncLit) exprNode()        {}
func (*CallExpr) exprNode()       {}
func (*MethodCallExpr) exprNode() {}
func (*SelectorExpr) exprNode()   {}
func (*IndexExpr) exprNode()      {}
func (*ListLit) exprNode()        {}
func (*TupleLit) exprNode()       {}
func (*MapLit) exprNode()         {}
func (*ListComprehension) exprNode() {}
func (*RangeExpr) exprNode()      {}
func (*AsyncExpr) exprNode()      {}
func (*AwaitExpr) exprNode()      {}
func (*AttrExpr) exprNode()       {}
func (*PathExpr) exprNode()       {}

// A Decl node is implemented by all top-level and module-level declarations.
type Decl interface {
	Node
	declNode()
}

func (*BadDecl) declNode()    {}
func (*FuncDecl) declNode()   {}
func (*StructDecl) declNode() {}
func (*EnumDecl) declNode()   {}
func (*TraitDecl) declNode()  {}
func (*ImplDecl) declNode()   {}
func (*UseDecl) declNode()    {}
func (*ModDecl) declNode()    {}
func (*ExprDecl) declNode()   {}

// A Pattern is implemented by all pattern nodes (spec section 3.3's
// "Patterns form a parallel variant set").
type Pattern interface {
	Node
	patternNode()
}

func (*WildcardPattern) patternNode()    {}
func (*BindingPattern) patternNode()     {}
func (*LiteralPattern) patternNode()     {}
func (*TuplePattern) patternNode()       {}
func (*StructPattern) patternNode()      {}
func (*EnumVariantPattern) patternNode() {}
func (*ListPattern) patternNode()        {}
func (*OrPattern) patternNode()          {}

// A Clause is part of a list comprehension.
type Clause interface {
	Node
	clauseNode()
}

func (*ForClause) clauseNode() {}
func (*IfClause) clauseNode()  {}

// ----------------------------------------------------------------------------
// Comments — kept in the teacher's shape: a side-table of comment groups
// attached to nodes, rather than inline fields, so printing and position
// bookkeeping stay independent of comment placement.

type comments struct {
	groups *[]*CommentGroup
}

func (c *comments) Comments() []*CommentGroup {
	if c.groups == nil {
		return []*CommentGroup{}
	}
	return *c.groups
}

func (c *comments) AddComment(cg *CommentGroup) {
	if cg == nil {
		return
	}
	if c.groups == nil {
		a := []*CommentGroup{cg}
		c.groups = &a
		return
	}
	*c.groups = append(*c.groups, cg)
}

// A Comment node represents a single //-style or /*-style comment.
type Comment struct {
	Slash token.Pos
	Text  string
}

func (g *Comment) Comments() []*CommentGroup { return nil }
func (g *Comment) AddComment(*CommentGroup)  {}
func (c *Comment) Pos() token.Pos            { return c.Slash }
func (c *Comment) End() token.Pos            { return c.Slash.Add(len(c.Text)) }

// A CommentGroup represents a sequence of comments with no other tokens and
// no empty lines between them.
type CommentGroup struct {
	Doc  bool
	Line bool // true if it is on the same line as the node's end pos.
	List []*Comment
}

func (g *CommentGroup) Pos() token.Pos            { return g.List[0].Pos() }
func (g *CommentGroup) End() token.Pos            { return g.List[len(g.List)-1].End() }
func (g *CommentGroup) Comments() []*CommentGroup { return nil }
func (g *CommentGroup) AddComment(*CommentGroup)  {}

func isWhitespace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

func stripTrailingWhitespace(s string) string {
	i := len(s)
	for i > 0 && isWhitespace(s[i-1]) {
		i--
	}
	return s[0:i]
}

// Text returns the text of the comment group with comment markers, the
// first space of a line comment, and leading/trailing empty lines removed.
// Multiple interior empty lines collapse to one, and the result is
// newline-terminated unless empty.
func (g *CommentGroup) Text() string {
	if g == nil {
		return ""
	}
	comments := make([]string, len(g.List))
	for i, c := range g.List {
		comments[i] = c.Text
	}

	lines := make([]string, 0, 10)
	for _, c := range comments {
		switch c[1] {
		case '/':
			c = c[2:]
			if len(c) > 0 && c[0] == ' ' {
				c = c[1:]
			}
		case '*':
			c = c[2 : len(c)-2]
		}

		cl := strings.Split(c, "\n")
		for _, l := range cl {
			lines = append(lines, stripTrailingWhitespace(l))
		}
	}

	n := 0
	for _, line := range lines {
		if line != "" || n > 0 && lines[n-1] != "" {
			lines[n] = line
			n++
		}
	}
	lines = lines[0:n]

	if n > 0 && lines[n-1] != "" {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// ----------------------------------------------------------------------------
// Literals and identifiers

// An Ident node represents an identifier reference. Per spec section 3.7,
// identifiers are interned so identity comparison of the Name field after
// Intern suffices for equality.
type Ident struct {
	comments
	NamePos token.Pos
	Name    string
}

func (x *Ident) Pos() token.Pos { return x.NamePos }
func (x *Ident) End() token.Pos { return x.NamePos.Add(len(x.Name)) }
func (x *Ident) String() string {
	if x != nil {
		return x.Name
	}
	return "<nil>"
}

// NewIdent creates an Ident with no position, for synthesized nodes (e.g.
// pipeline desugaring, transpiler output).
func NewIdent(name string) *Ident {
	return &Ident{NamePos: token.NoPos, Name: Intern(name)}
}

// IntLit is an integer literal (spec 3.2: decimal, 0x/0b/0o, underscore
// separators).
type IntLit struct {
	comments
	ValuePos token.Pos
	Value    string // raw source text, e.g. "1_000", "0x1F"
}

func (x *IntLit) Pos() token.Pos { return x.ValuePos }
func (x *IntLit) End() token.Pos { return x.ValuePos.Add(len(x.Value)) }

// FloatLit is a floating point literal.
type FloatLit struct {
	comments
	ValuePos token.Pos
	Value    string
}

func (x *FloatLit) Pos() token.Pos { return x.ValuePos }
func (x *FloatLit) End() token.Pos { return x.ValuePos.Add(len(x.Value)) }

// StringLit is an unprefixed string literal; braces in its content are
// preserved literally (spec section 3.2).
type StringLit struct {
	comments
	ValuePos token.Pos
	Value    string // decoded value
	Raw      string // original source text including quotes
}

func (x *StringLit) Pos() token.Pos { return x.ValuePos }
func (x *StringLit) End() token.Pos { return x.ValuePos.Add(len(x.Raw)) }

// FStringSegment is one piece of an f-string: either literal text or an
// embedded expression.
type FStringSegment struct {
	Text string // set when Expr is nil
	Expr Expr   // set for an interpolated segment
}

// FStringLit is an f"..." interpolated string literal.
type FStringLit struct {
	comments
	FPos     token.Pos // position of the leading 'f'
	Segments []FStringSegment
	Raw      string
}

func (x *FStringLit) Pos() token.Pos { return x.FPos }
func (x *FStringLit) End() token.Pos { return x.FPos.Add(len(x.Raw) + 1) }

// CharLit is a single-quoted character literal.
type CharLit struct {
	comments
	ValuePos token.Pos
	Value    string // decoded rune, as a one-rune string
	Raw      string
}

func (x *CharLit) Pos() token.Pos { return x.ValuePos }
func (x *CharLit) End() token.Pos { return x.ValuePos.Add(len(x.Raw)) }

// BoolLit is `true` or `false`.
type BoolLit struct {
	comments
	ValuePos token.Pos
	Value    bool
}

func (x *BoolLit) Pos() token.Pos { return x.ValuePos }
func (x *BoolLit) End() token.Pos {
	if x.Value {
		return x.ValuePos.Add(4)
	}
	return x.ValuePos.Add(5)
}

// AtomLit is an interned `:name` atom literal.
type AtomLit struct {
	comments
	ColonPos token.Pos
	Name     string
}

func (x *AtomLit) Pos() token.Pos { return x.ColonPos }
func (x *AtomLit) End() token.Pos { return x.ColonPos.Add(1 + len(x.Name)) }

// UnitLit is the value of statement-like forms: `()`.
type UnitLit struct {
	comments
	Lparen token.Pos
}

func (x *UnitLit) Pos() token.Pos { return x.Lparen }
func (x *UnitLit) End() token.Pos { return x.Lparen.Add(2) }

// ----------------------------------------------------------------------------
// Composite expressions

// A BadExpr node is a placeholder for an expression containing a syntax
// error the parser could not recover from locally.
type BadExpr struct {
	comments
	From, To token.Pos
}

func (x *BadExpr) Pos() token.Pos { return x.From }
func (x *BadExpr) End() token.Pos { return x.To }

// A ParenExpr node represents a parenthesized expression.
type ParenExpr struct {
	comments
	Lparen token.Pos
	X      Expr
	Rparen token.Pos
}

func (x *ParenExpr) Pos() token.Pos { return x.Lparen }
func (x *ParenExpr) End() token.Pos { return x.Rparen.Add(1) }

// A BinaryExpr node represents a binary expression.
type BinaryExpr struct {
	comments
	X     Expr
	OpPos token.Pos
	Op    token.Token
	Y     Expr
}

func (x *BinaryExpr) Pos() token.Pos { return x.X.Pos() }
func (x *BinaryExpr) End() token.Pos { return x.Y.End() }

// A UnaryExpr node represents a unary expression: `-x`, `!x`.
type UnaryExpr struct {
	comments
	OpPos token.Pos
	Op    token.Token
	X     Expr
}

func (x *UnaryExpr) Pos() token.Pos { return x.OpPos }
func (x *UnaryExpr) End() token.Pos { return x.X.End() }

// An AssignExpr node represents a plain or compound assignment. Target must
// be an Ident, SelectorExpr, or IndexExpr.
type AssignExpr struct {
	comments
	Target Expr
	OpPos  token.Pos
	Op     token.Token // ASSIGN, ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, QUO_ASSIGN, REM_ASSIGN
	Value  Expr
}

func (x *AssignExpr) Pos() token.Pos { return x.Target.Pos() }
func (x *AssignExpr) End() token.Pos { return x.Value.End() }

// A LetExpr node represents a let-binding. When Body is nil, the binding
// extends the enclosing block's remaining scope (spec section 3.3); when
// Body is non-nil, the binding scopes only over Body.
type LetExpr struct {
	comments
	Let     token.Pos
	Mutable bool
	Pat     Pattern
	Type    Expr // optional type annotation; nil if absent
	Eq      token.Pos
	Value   Expr
	Body    Expr // optional
}

func (x *LetExpr) Pos() token.Pos { return x.Let }
func (x *LetExpr) End() token.Pos {
	if x.Body != nil {
		return x.Body.End()
	}
	return x.Value.End()
}

// A BlockExpr node is a brace-delimited sequence of expressions; its value
// is that of the last expression (unit if empty or if the last expression
// ends with a statement-terminating semicolon — the parser records this via
// Semi).
type BlockExpr struct {
	comments
	Lbrace token.Pos
	Exprs  []Expr
	Semi   []bool // Semi[i] true if Exprs[i] was followed by ';'
	Rbrace token.Pos
}

func (x *BlockExpr) Pos() token.Pos { return x.Lbrace }
func (x *BlockExpr) End() token.Pos { return x.Rbrace.Add(1) }

// An IfExpr node represents `if cond { ... } else { ... }`. Else may be a
// *BlockExpr or another *IfExpr (else-if chaining), or nil.
type IfExpr struct {
	comments
	If   token.Pos
	Cond Expr
	Then *BlockExpr
	Else Expr
}

func (x *IfExpr) Pos() token.Pos { return x.If }
func (x *IfExpr) End() token.Pos {
	if x.Else != nil {
		return x.Else.End()
	}
	return x.Then.End()
}

// A MatchArm is one `pattern [if guard] => body` arm of a match expression.
type MatchArm struct {
	comments
	Pat   Pattern
	Guard Expr // optional
	Arrow token.Pos
	Body  Expr
}

func (a *MatchArm) Pos() token.Pos { return a.Pat.Pos() }
func (a *MatchArm) End() token.Pos { return a.Body.End() }

// A MatchExpr node represents `match scrutinee { arm, ... }`.
type MatchExpr struct {
	comments
	Match     token.Pos
	Scrutinee Expr
	Arms      []*MatchArm
	Rbrace    token.Pos
}

func (x *MatchExpr) Pos() token.Pos { return x.Match }
func (x *MatchExpr) End() token.Pos { return x.Rbrace.Add(1) }

// A WhileExpr node represents an optionally labeled `while` loop.
type WhileExpr struct {
	comments
	Label *Ident // optional, name only (no leading ')
	While token.Pos
	Cond  Expr
	Body  *BlockExpr
}

func (x *WhileExpr) Pos() token.Pos {
	if x.Label != nil {
		return x.Label.Pos()
	}
	return x.While
}
func (x *WhileExpr) End() token.Pos { return x.Body.End() }

// A ForExpr node represents an optionally labeled `for pat in iter { ... }`
// loop.
type ForExpr struct {
	comments
	Label *Ident
	For   token.Pos
	Pat   Pattern
	In    token.Pos
	Iter  Expr
	Body  *BlockExpr
}

func (x *ForExpr) Pos() token.Pos {
	if x.Label != nil {
		return x.Label.Pos()
	}
	return x.For
}
func (x *ForExpr) End() token.Pos { return x.Body.End() }

// A LoopExpr node represents an optionally labeled unconditional `loop`.
type LoopExpr struct {
	comments
	Label *Ident
	Loop  token.Pos
	Body  *BlockExpr
}

func (x *LoopExpr) Pos() token.Pos {
	if x.Label != nil {
		return x.Label.Pos()
	}
	return x.Loop
}
func (x *LoopExpr) End() token.Pos { return x.Body.End() }

// A BreakExpr node represents `break label? value?`.
type BreakExpr struct {
	comments
	Break token.Pos
	Label *Ident
	Value Expr
}

func (x *BreakExpr) Pos() token.Pos { return x.Break }
func (x *BreakExpr) End() token.Pos {
	if x.Value != nil {
		return x.Value.End()
	}
	if x.Label != nil {
		return x.Label.End()
	}
	return x.Break.Add(len("break"))
}

// A ContinueExpr node represents `continue label?`.
type ContinueExpr struct {
	comments
	Continue token.Pos
	Label    *Ident
}

func (x *ContinueExpr) Pos() token.Pos { return x.Continue }
func (x *ContinueExpr) End() token.Pos {
	if x.Label != nil {
		return x.Label.End()
	}
	return x.Continue.Add(len("continue"))
}

// A ReturnExpr node represents `return value?`.
type ReturnExpr struct {
	comments
	Return token.Pos
	Value  Expr
}

func (x *ReturnExpr) Pos() token.Pos { return x.Return }
func (x *ReturnExpr) End() token.Pos {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Return.Add(len("return"))
}

// A Param is one parameter of a function literal or definition.
type Param struct {
	comments
	Pat  Pattern
	Type Expr // optional
}

func (p *Param) Pos() token.Pos { return p.Pat.Pos() }
func (p *Param) End() token.Pos {
	if p.Type != nil {
		return p.Type.End()
	}
	return p.Pat.End()
}

// A FuncLit node represents an anonymous function/lambda: `fun(params) expr`
// or `|params| expr` shorthand (both parse to the same node; Bar records
// which spelling was used, purely for round-trip printing).
type FuncLit struct {
	comments
	Fun        token.Pos
	Bar        bool // true if written with |params| shorthand
	Params     []*Param
	ReturnType Expr // optional
	Body       Expr
}

func (x *FuncLit) Pos() token.Pos { return x.Fun }
func (x *FuncLit) End() token.Pos { return x.Body.End() }

// A CallExpr node represents a function call. Pipeline expressions
// (`e |> f(args)`) desugar into CallExpr at parse time per spec section 3.3,
// so there is no separate pipeline node.
type CallExpr struct {
	comments
	Fun    Expr
	Lparen token.Pos
	Args   []Expr
	Rparen token.Pos
}

func (x *CallExpr) Pos() token.Pos { return x.Fun.Pos() }
func (x *CallExpr) End() token.Pos { return x.Rparen.Add(1) }

// A MethodCallExpr node represents `recv.method(args)`. It is kept distinct
// from CallExpr-of-a-SelectorExpr because method dispatch resolves against
// the receiver's runtime value: a user impl method for its type first, then
// the builtin methods of its kind. There is no fallback to free function
// lookup.
type MethodCallExpr struct {
	comments
	Recv   Expr
	Dot    token.Pos
	Method *Ident
	Lparen token.Pos
	Args   []Expr
	Rparen token.Pos
}

func (x *MethodCallExpr) Pos() token.Pos { return x.Recv.Pos() }
func (x *MethodCallExpr) End() token.Pos { return x.Rparen.Add(1) }

// A SelectorExpr node represents field access: `x.field`.
type SelectorExpr struct {
	comments
	X   Expr
	Dot token.Pos
	Sel *Ident
}

func (x *SelectorExpr) Pos() token.Pos { return x.X.Pos() }
func (x *SelectorExpr) End() token.Pos { return x.Sel.End() }

// An IndexExpr node represents `x[index]`.
type IndexExpr struct {
	comments
	X      Expr
	Lbrack token.Pos
	Index  Expr
	Rbrack token.Pos
}

func (x *IndexExpr) Pos() token.Pos { return x.X.Pos() }
func (x *IndexExpr) End() token.Pos { return x.Rbrack.Add(1) }

// A ListLit node represents a literal list: `[1, 2, 3]`.
type ListLit struct {
	comments
	Lbrack token.Pos
	Elts   []Expr
	Rbrack token.Pos
}

func (x *ListLit) Pos() token.Pos { return x.Lbrack }
func (x *ListLit) End() token.Pos { return x.Rbrack.Add(1) }

// A TupleLit node represents a fixed-arity tuple: `(1, "a", true)`.
type TupleLit struct {
	comments
	Lparen token.Pos
	Elts   []Expr
	Rparen token.Pos
}

func (x *TupleLit) Pos() token.Pos { return x.Lparen }
func (x *TupleLit) End() token.Pos { return x.Rparen.Add(1) }

// A MapEntry is one `key: value` pair of a map literal.
type MapEntry struct {
	comments
	Key   Expr
	Colon token.Pos
	Value Expr
}

func (e *MapEntry) Pos() token.Pos { return e.Key.Pos() }
func (e *MapEntry) End() token.Pos { return e.Value.End() }

// A MapLit node represents a literal map: `{"a": 1, "b": 2}`.
type MapLit struct {
	comments
	Lbrace  token.Pos
	Entries []*MapEntry
	Rbrace  token.Pos
}

func (x *MapLit) Pos() token.Pos { return x.Lbrace }
func (x *MapLit) End() token.Pos { return x.Rbrace.Add(1) }

// A ForClause is a `for pat in iter` clause of a list comprehension.
type ForClause struct {
	comments
	For    token.Pos
	Pat    Pattern
	In     token.Pos
	Source Expr
}

func (c *ForClause) Pos() token.Pos { return c.For }
func (c *ForClause) End() token.Pos { return c.Source.End() }

// An IfClause is an `if cond` guard clause of a list comprehension.
type IfClause struct {
	comments
	If   token.Pos
	Cond Expr
}

func (c *IfClause) Pos() token.Pos { return c.If }
func (c *IfClause) End() token.Pos { return c.Cond.End() }

// A ListComprehension node represents `[expr for pat in iter if cond]`.
type ListComprehension struct {
	comments
	Lbrack  token.Pos
	Expr    Expr
	Clauses []Clause
	Rbrack  token.Pos
}

func (x *ListComprehension) Pos() token.Pos { return x.Lbrack }
func (x *ListComprehension) End() token.Pos { return x.Rbrack.Add(1) }

// A RangeExpr node represents `low..high` (half-open) or `low..=high`
// (closed).
type RangeExpr struct {
	comments
	Low       Expr
	OpPos     token.Pos
	Inclusive bool
	High      Expr
}

func (x *RangeExpr) Pos() token.Pos {
	if x.Low != nil {
		return x.Low.Pos()
	}
	return x.OpPos
}
func (x *RangeExpr) End() token.Pos {
	if x.High != nil {
		return x.High.End()
	}
	if x.Inclusive {
		return x.OpPos.Add(3)
	}
	return x.OpPos.Add(2)
}

// An AsyncExpr node represents `async { ... }`.
type AsyncExpr struct {
	comments
	Async token.Pos
	Body  *BlockExpr
}

func (x *AsyncExpr) Pos() token.Pos { return x.Async }
func (x *AsyncExpr) End() token.Pos { return x.Body.End() }

// An AwaitExpr node represents `await x`.
type AwaitExpr struct {
	comments
	Await token.Pos
	X     Expr
}

func (x *AwaitExpr) Pos() token.Pos { return x.Await }
func (x *AwaitExpr) End() token.Pos { return x.X.End() }

// An AttrExpr node wraps an expression with a named attribute annotation:
// `@name(args) expr`.
type AttrExpr struct {
	comments
	At   token.Pos
	Name *Ident
	Args []Expr
	X    Expr
}

func (x *AttrExpr) Pos() token.Pos { return x.At }
func (x *AttrExpr) End() token.Pos { return x.X.End() }

// A PathExpr node represents a `::`-separated module path reference used as
// an expression, e.g. `math::pi` or `collections::List::new`.
type PathExpr struct {
	comments
	Components []*Ident
}

func (x *PathExpr) Pos() token.Pos { return x.Components[0].Pos() }
func (x *PathExpr) End() token.Pos { return x.Components[len(x.Components)-1].End() }

// ----------------------------------------------------------------------------
// Patterns

// A WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	comments
	Underscore token.Pos
}

func (p *WildcardPattern) Pos() token.Pos { return p.Underscore }
func (p *WildcardPattern) End() token.Pos { return p.Underscore.Add(1) }

// A BindingPattern binds the matched value to Name, optionally as mutable.
type BindingPattern struct {
	comments
	Mutable bool
	MutPos  token.Pos
	Name    *Ident
}

func (p *BindingPattern) Pos() token.Pos {
	if p.Mutable {
		return p.MutPos
	}
	return p.Name.Pos()
}
func (p *BindingPattern) End() token.Pos { return p.Name.End() }

// A LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	comments
	Value Expr
}

func (p *LiteralPattern) Pos() token.Pos { return p.Value.Pos() }
func (p *LiteralPattern) End() token.Pos { return p.Value.End() }

// A TuplePattern destructures a tuple.
type TuplePattern struct {
	comments
	Lparen token.Pos
	Elts   []Pattern
	Rparen token.Pos
}

func (p *TuplePattern) Pos() token.Pos { return p.Lparen }
func (p *TuplePattern) End() token.Pos { return p.Rparen.Add(1) }

// A FieldPattern is one `name: pattern` (or shorthand `name`, where Pat is a
// BindingPattern over the same Ident) element of a StructPattern.
type FieldPattern struct {
	comments
	Name *Ident
	Pat  Pattern
}

func (p *FieldPattern) Pos() token.Pos { return p.Name.Pos() }
func (p *FieldPattern) End() token.Pos { return p.Pat.End() }

// A StructPattern destructures a struct/object value by field name.
type StructPattern struct {
	comments
	Name   *Ident // struct type name, optional
	Lbrace token.Pos
	Fields []*FieldPattern
	Rest   bool // true if the pattern ends with `..`
	Rbrace token.Pos
}

func (p *StructPattern) Pos() token.Pos {
	if p.Name != nil {
		return p.Name.Pos()
	}
	return p.Lbrace
}
func (p *StructPattern) End() token.Pos { return p.Rbrace.Add(1) }

// An EnumVariantPattern matches a specific enum variant, in tuple or struct
// form.
type EnumVariantPattern struct {
	comments
	Path     []*Ident // enum name followed by variant name, e.g. Option::Some
	IsStruct bool
	Elts     []Pattern       // tuple-form payload
	Fields   []*FieldPattern // struct-form payload
	Rest     bool
	Rparen   token.Pos
	Rbrace   token.Pos
}

func (p *EnumVariantPattern) Pos() token.Pos { return p.Path[0].Pos() }
func (p *EnumVariantPattern) End() token.Pos {
	if p.IsStruct {
		return p.Rbrace.Add(1)
	}
	if p.Rparen.IsValid() {
		return p.Rparen.Add(1)
	}
	return p.Path[len(p.Path)-1].End()
}

// A ListPattern destructures a list, with an optional `..rest` tail binding.
type ListPattern struct {
	comments
	Lbrack token.Pos
	Elts   []Pattern
	Rest   *Ident // nil if no rest element
	Rbrack token.Pos
}

func (p *ListPattern) Pos() token.Pos { return p.Lbrack }
func (p *ListPattern) End() token.Pos { return p.Rbrack.Add(1) }

// An OrPattern matches if any of its alternatives match: `pat1 | pat2`.
type OrPattern struct {
	comments
	Alts []Pattern
}

func (p *OrPattern) Pos() token.Pos { return p.Alts[0].Pos() }
func (p *OrPattern) End() token.Pos { return p.Alts[len(p.Alts)-1].End() }

// ----------------------------------------------------------------------------
// Declarations

// A BadDecl node is a placeholder for a declaration the parser could not
// recover from locally.
type BadDecl struct {
	comments
	From, To token.Pos
}

func (d *BadDecl) Pos() token.Pos { return d.From }
func (d *BadDecl) End() token.Pos { return d.To }

// A FuncDecl node represents a named, top-level or impl-block function
// definition.
type FuncDecl struct {
	comments
	Pub        bool
	PubPos     token.Pos
	Fun        token.Pos
	Name       *Ident
	Params     []*Param
	ReturnType Expr
	Body       *BlockExpr
}

func (d *FuncDecl) Pos() token.Pos {
	if d.Pub {
		return d.PubPos
	}
	return d.Fun
}
func (d *FuncDecl) End() token.Pos { return d.Body.End() }

// A FieldDef is one named, typed field of a struct declaration.
type FieldDef struct {
	comments
	Pub  bool
	Name *Ident
	Type Expr
}

func (f *FieldDef) Pos() token.Pos { return f.Name.Pos() }
func (f *FieldDef) End() token.Pos { return f.Type.End() }

// A StructDecl node represents `struct Name { fields }`.
type StructDecl struct {
	comments
	Pub    bool
	PubPos token.Pos
	Struct token.Pos
	Name   *Ident
	Lbrace token.Pos
	Fields []*FieldDef
	Rbrace token.Pos
}

func (d *StructDecl) Pos() token.Pos {
	if d.Pub {
		return d.PubPos
	}
	return d.Struct
}
func (d *StructDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A VariantDef is one case of an enum declaration, in unit, tuple, or
// struct form.
type VariantDef struct {
	comments
	Name   *Ident
	Elts   []Expr      // tuple-form payload types
	Fields []*FieldDef // struct-form payload fields
}

func (v *VariantDef) Pos() token.Pos { return v.Name.Pos() }
func (v *VariantDef) End() token.Pos {
	switch {
	case len(v.Fields) > 0:
		return v.Fields[len(v.Fields)-1].End()
	case len(v.Elts) > 0:
		return v.Elts[len(v.Elts)-1].End()
	default:
		return v.Name.End()
	}
}

// An EnumDecl node represents `enum Name { variants }`.
type EnumDecl struct {
	comments
	Pub      bool
	PubPos   token.Pos
	Enum     token.Pos
	Name     *Ident
	Lbrace   token.Pos
	Variants []*VariantDef
	Rbrace   token.Pos
}

func (d *EnumDecl) Pos() token.Pos {
	if d.Pub {
		return d.PubPos
	}
	return d.Enum
}
func (d *EnumDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A TraitDecl node represents `trait Name { method signatures/defaults }`.
type TraitDecl struct {
	comments
	Pub     bool
	PubPos  token.Pos
	Trait   token.Pos
	Name    *Ident
	Lbrace  token.Pos
	Methods []*FuncDecl
	Rbrace  token.Pos
}

func (d *TraitDecl) Pos() token.Pos {
	if d.Pub {
		return d.PubPos
	}
	return d.Trait
}
func (d *TraitDecl) End() token.Pos { return d.Rbrace.Add(1) }

// An ImplDecl node represents `impl [Trait for] Type { methods }`.
type ImplDecl struct {
	comments
	Impl    token.Pos
	Trait   *Ident // nil for an inherent impl
	For     token.Pos
	Type    *Ident
	Lbrace  token.Pos
	Methods []*FuncDecl
	Rbrace  token.Pos
}

func (d *ImplDecl) Pos() token.Pos { return d.Impl }
func (d *ImplDecl) End() token.Pos { return d.Rbrace.Add(1) }

// A UseDecl node represents `use path::to::Name [as Alias]`.
type UseDecl struct {
	comments
	Use   token.Pos
	Path  *ModulePath
	As    token.Pos
	Alias *Ident // nil if no alias
}

func (d *UseDecl) Pos() token.Pos { return d.Use }
func (d *UseDecl) End() token.Pos {
	if d.Alias != nil {
		return d.Alias.End()
	}
	return d.Path.End()
}

// A ModDecl node represents an inline module: `mod name { decls }`.
type ModDecl struct {
	comments
	Pub    bool
	PubPos token.Pos
	Mod    token.Pos
	Name   *Ident
	Lbrace token.Pos
	Decls  []Decl
	Rbrace token.Pos
}

func (d *ModDecl) Pos() token.Pos {
	if d.Pub {
		return d.PubPos
	}
	return d.Mod
}
func (d *ModDecl) End() token.Pos { return d.Rbrace.Add(1) }

// An ExprDecl node wraps a top-level expression statement (for scripts that
// are a flat sequence of expressions rather than only declarations).
type ExprDecl struct {
	comments
	X Expr
}

func (d *ExprDecl) Pos() token.Pos { return d.X.Pos() }
func (d *ExprDecl) End() token.Pos { return d.X.End() }

// ----------------------------------------------------------------------------
// Files

// A File node represents one parsed Ruchy source file.
type File struct {
	Filename string
	comments
	Decls      []Decl
	Unresolved []*Ident // identifiers not resolved to a binding within the file
}

func (f *File) Pos() token.Pos {
	if len(f.Decls) > 0 {
		return f.Decls[0].Pos()
	}
	return token.NoPos
}

func (f *File) End() token.Pos {
	if n := len(f.Decls); n > 0 {
		return f.Decls[n-1].End()
	}
	return token.NoPos
}
