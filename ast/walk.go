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

package ast

import "fmt"

// Walk traverses an AST in depth-first order: it starts by calling
// before(node); node must not be nil. If before returns true (or is nil),
// Walk recurses into each non-nil child, then calls after. Either callback
// may be nil.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if before != nil && !before(node) {
		return
	}

	walkList(Comments(node), before, after)

	switch n := node.(type) {
	case *Comment, *CommentGroup:
		// handled via Comments() above

	// Literals and identifiers: no children.
	case *BadExpr, *Ident, *IntLit, *FloatLit, *StringLit, *CharLit, *BoolLit,
		*AtomLit, *UnitLit, *WildcardPattern:

	case *FStringLit:
		for _, seg := range n.Segments {
			if seg.Expr != nil {
				walk(seg.Expr, before, after)
			}
		}

	case *ParenExpr:
		walk(n.X, before, after)

	case *BinaryExpr:
		walk(n.X, before, after)
		walk(n.Y, before, after)

	case *UnaryExpr:
		walk(n.X, before, after)

	case *AssignExpr:
		walk(n.Target, before, after)
		walk(n.Value, before, after)

	case *LetExpr:
		walk(n.Pat, before, after)
		if n.Type != nil {
			walk(n.Type, before, after)
		}
		walk(n.Value, before, after)
		if n.Body != nil {
			walk(n.Body, before, after)
		}

	case *BlockExpr:
		walkList(n.Exprs, before, after)

	case *IfExpr:
		walk(n.Cond, before, after)
		walk(n.Then, before, after)
		if n.Else != nil {
			walk(n.Else, before, after)
		}

	case *MatchArm:
		walk(n.Pat, before, after)
		if n.Guard != nil {
			walk(n.Guard, before, after)
		}
		walk(n.Body, before, after)

	case *MatchExpr:
		walk(n.Scrutinee, before, after)
		for _, arm := range n.Arms {
			walk(arm, before, after)
		}

	case *WhileExpr:
		walk(n.Cond, before, after)
		walk(n.Body, before, after)

	case *ForExpr:
		walk(n.Pat, before, after)
		walk(n.Iter, before, after)
		walk(n.Body, before, after)

	case *LoopExpr:
		walk(n.Body, before, after)

	case *BreakExpr:
		if n.Value != nil {
			walk(n.Value, before, after)
		}

	case *ContinueExpr:
		// nothing further

	case *ReturnExpr:
		if n.Value != nil {
			walk(n.Value, before, after)
		}

	case *Param:
		walk(n.Pat, before, after)
		if n.Type != nil {
			walk(n.Type, before, after)
		}

	case *FuncLit:
		for _, p := range n.Params {
			walk(p, before, after)
		}
		if n.ReturnType != nil {
			walk(n.ReturnType, before, after)
		}
		walk(n.Body, before, after)

	case *CallExpr:
		walk(n.Fun, before, after)
		walkList(n.Args, before, after)

	case *MethodCallExpr:
		walk(n.Recv, before, after)
		walk(n.Method, before, after)
		walkList(n.Args, before, after)

	case *SelectorExpr:
		walk(n.X, before, after)
		walk(n.Sel, before, after)

	case *IndexExpr:
		walk(n.X, before, after)
		walk(n.Index, before, after)

	case *ListLit:
		walkList(n.Elts, before, after)

	case *TupleLit:
		walkList(n.Elts, before, after)

	case *MapEntry:
		walk(n.Key, before, after)
		walk(n.Value, before, after)

	case *MapLit:
		for _, e := range n.Entries {
			walk(e, before, after)
		}

	case *ForClause:
		walk(n.Pat, before, after)
		walk(n.Source, before, after)

	case *IfClause:
		walk(n.Cond, before, after)

	case *ListComprehension:
		walk(n.Expr, before, after)
		walkList(n.Clauses, before, after)

	case *RangeExpr:
		if n.Low != nil {
			walk(n.Low, before, after)
		}
		if n.High != nil {
			walk(n.High, before, after)
		}

	case *AsyncExpr:
		walk(n.Body, before, after)

	case *AwaitExpr:
		walk(n.X, before, after)

	case *AttrExpr:
		walk(n.Name, before, after)
		walkList(n.Args, before, after)
		walk(n.X, before, after)

	case *PathExpr:
		walkList(n.Components, before, after)

	case *BindingPattern:
		walk(n.Name, before, after)

	case *LiteralPattern:
		walk(n.Value, before, after)

	case *TuplePattern:
		walkList(n.Elts, before, after)

	case *FieldPattern:
		walk(n.Name, before, after)
		walk(n.Pat, before, after)

	case *StructPattern:
		if n.Name != nil {
			walk(n.Name, before, after)
		}
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *EnumVariantPattern:
		walkList(n.Path, before, after)
		walkList(n.Elts, before, after)
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *ListPattern:
		walkList(n.Elts, before, after)
		if n.Rest != nil {
			walk(n.Rest, before, after)
		}

	case *OrPattern:
		walkList(n.Alts, before, after)

	case *BadDecl:
		// nothing further

	case *FuncDecl:
		walk(n.Name, before, after)
		for _, p := range n.Params {
			walk(p, before, after)
		}
		if n.ReturnType != nil {
			walk(n.ReturnType, before, after)
		}
		walk(n.Body, before, after)

	case *FieldDef:
		walk(n.Name, before, after)
		walk(n.Type, before, after)

	case *StructDecl:
		walk(n.Name, before, after)
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *VariantDef:
		walk(n.Name, before, after)
		walkList(n.Elts, before, after)
		for _, f := range n.Fields {
			walk(f, before, after)
		}

	case *EnumDecl:
		walk(n.Name, before, after)
		for _, v := range n.Variants {
			walk(v, before, after)
		}

	case *TraitDecl:
		walk(n.Name, before, after)
		for _, m := range n.Methods {
			walk(m, before, after)
		}

	case *ImplDecl:
		if n.Trait != nil {
			walk(n.Trait, before, after)
		}
		walk(n.Type, before, after)
		for _, m := range n.Methods {
			walk(m, before, after)
		}

	case *ModulePath:
		walkList(n.Components, before, after)

	case *UseDecl:
		walk(n.Path, before, after)
		if n.Alias != nil {
			walk(n.Alias, before, after)
		}

	case *ModDecl:
		walk(n.Name, before, after)
		walkList(n.Decls, before, after)

	case *ExprDecl:
		walk(n.X, before, after)

	case *File:
		walkList(n.Decls, before, after)

	default:
		panic(fmt.Sprintf("Walk: unexpected node type %T", n))
	}

	if after != nil {
		after(node)
	}
}

func walk(node Node, before func(Node) bool, after func(Node)) {
	Walk(node, before, after)
}

func walkList[N Node](list []N, before func(Node) bool, after func(Node)) {
	for _, node := range list {
		walk(node, before, after)
	}
}

// Comments returns the comment groups directly attached to node.
func Comments(node Node) []*CommentGroup {
	return node.Comments()
}
