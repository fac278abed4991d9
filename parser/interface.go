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

// Package parser implements a parser for Ruchy source files (component C2).
// It turns a token stream from the scanner into an *ast.File. At an
// unexpected token it reports the error and consumes that one token
// (substituting a Bad node or a wildcard pattern), so that a single parse
// can report more than one error; it does not skip ahead to a
// synchronization token.
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ruchy-lang/ruchy/ast"
	"github.com/ruchy-lang/ruchy/token"
)

func readSource(filename string, src interface{}) ([]byte, error) {
	if src != nil {
		switch s := src.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		case *bytes.Buffer:
			if s != nil {
				return s.Bytes(), nil
			}
		case io.Reader:
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, s); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}
		return nil, fmt.Errorf("invalid source type %T", src)
	}
	return os.ReadFile(filename)
}

// Option specifies a parse option.
type Option func(p *parser)

var (
	// ParseComments causes comments to be retained on the returned AST.
	ParseComments Option = func(p *parser) { p.mode |= parseCommentsMode }

	// AllErrors causes all syntax errors to be reported, not just the
	// first few.
	AllErrors Option = func(p *parser) { p.mode |= allErrorsMode }
)

type mode uint

const (
	parseCommentsMode mode = 1 << iota
	allErrorsMode
)

const maxErrors = 10

// ParseFile parses a single Ruchy source file and returns the resulting
// *ast.File. Source is read from src if non-nil (string, []byte, or
// io.Reader), otherwise from the named file. Positions are recorded in a
// fresh token.FileSet; use ParseFileSet to supply one.
//
// If the source could not be read, f is nil and err describes the failure.
// If syntax errors were found, f is the partial tree built so far (with
// *ast.Bad* nodes standing in for the unparsable fragments) and err is a
// ruchyerrors.Error list sorted by position.
func ParseFile(filename string, src interface{}, mode ...Option) (f *ast.File, err error) {
	return ParseFileSet(token.NewFileSet(), filename, src, mode...)
}

// ParseFileSet is like ParseFile but records positions in the caller-owned
// fset, so multiple files can share one position space.
func ParseFileSet(fset *token.FileSet, filename string, src interface{}, mode ...Option) (f *ast.File, err error) {
	text, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}

	var p parser
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
		p.errors.Sort()
		err = p.errors.Err()
	}()

	file := fset.AddFile(filename, len(text))
	p.init(file, text, mode)
	f = p.parseFile()
	f.Filename = filename
	return f, err
}

// ParseExpr parses src as a single standalone expression.
func ParseExpr(filename string, src interface{}, mode ...Option) (ast.Expr, error) {
	text, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}

	var p parser
	var x ast.Expr
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
		p.errors.Sort()
		err = p.errors.Err()
	}()

	fset := token.NewFileSet()
	file := fset.AddFile(filename, len(text))
	p.init(file, text, mode)
	x = p.parseExpr()
	p.expect(token.EOF)
	return x, err
}

// bailout is used as a panic value once the error count exceeds maxErrors
// (unless AllErrors is set), unwinding straight back to ParseFile/ParseExpr.
type bailout struct{}
