package ruchyerrors

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/token"
)

// Kind is the closed taxonomy of interpreter/parser error kinds from
// spec.md section 7. It is carried separately from the free-form message so
// that the driver, LSP, and tests can match on error identity rather than
// string content.
type Kind string

const (
	KindLexError               Kind = "LexError"
	KindParseError              Kind = "ParseError"
	KindNameResolution          Kind = "NameResolution"
	KindTypeError               Kind = "TypeError"
	KindImmutableAssignment     Kind = "ImmutableAssignment"
	KindDivisionByZero          Kind = "DivisionByZero"
	KindPatternMatchFailed      Kind = "PatternMatchFailed"
	KindNonExhaustiveMatch      Kind = "NonExhaustiveMatch"
	KindArityMismatch           Kind = "ArityMismatch"
	KindIndexOutOfBounds        Kind = "IndexOutOfBounds"
	KindKeyNotFound             Kind = "KeyNotFound"
	KindUnsupportedFeature      Kind = "UnsupportedFeature"
	KindRecursionLimitExceeded  Kind = "RecursionLimitExceeded"
	KindRuntimeError            Kind = "RuntimeError"
)

// RuchyError is a concrete Error implementation for errors that belong to
// the closed taxonomy. It extends the teacher's posError shape with a Kind
// tag and optional help/note lines (spec.md section 6.4's diagnostic
// format). No package in this module constructs one; the interpreter
// reports its errors through its own interp.Error type.
type RuchyError struct {
	kind Kind
	pos  token.Pos
	Message
	help string
	note string
}

var _ Error = &RuchyError{}

// NewKind creates a taxonomy-tagged error at the given position.
func NewKind(kind Kind, p token.Pos, format string, args ...interface{}) *RuchyError {
	return &RuchyError{kind: kind, pos: p, Message: NewMessagef(format, args...)}
}

// WithHelp attaches a "help:" suggestion line and returns the receiver for
// chaining.
func (e *RuchyError) WithHelp(format string, args ...interface{}) *RuchyError {
	e.help = fmt.Sprintf(format, args...)
	return e
}

// WithNote attaches a "note:" line and returns the receiver for chaining.
func (e *RuchyError) WithNote(format string, args ...interface{}) *RuchyError {
	e.note = fmt.Sprintf(format, args...)
	return e
}

// Kind returns the error's taxonomy tag.
func (e *RuchyError) Kind() Kind { return e.kind }

// Help returns the help suggestion, if any.
func (e *RuchyError) Help() string { return e.help }

// Note returns the note line, if any.
func (e *RuchyError) Note() string { return e.note }

func (e *RuchyError) Position() token.Pos         { return e.pos }
func (e *RuchyError) InputPositions() []token.Pos { return nil }
func (e *RuchyError) Path() []string              { return nil }

func (e *RuchyError) Error() string {
	s := e.Message.Error()
	if e.help != "" {
		s += "\nhelp: " + e.help
	}
	if e.note != "" {
		s += "\nnote: " + e.note
	}
	return s
}

// KindOf reports the taxonomy Kind of err, if it (or a wrapped cause) is a
// *RuchyError, and whether one was found.
func KindOf(err error) (Kind, bool) {
	var re *RuchyError
	if As(err, &re) {
		return re.kind, true
	}
	return "", false
}
