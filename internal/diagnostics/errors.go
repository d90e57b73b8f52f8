package diagnostics

import (
	"errors"
	"fmt"

	"github.com/funvibe/clasp/internal/token"
)

// Kind is the closed set of error categories surfaced by the pipeline.
type Kind string

const (
	TokenError      Kind = "TokenError"
	ParserError     Kind = "ParserError"
	TypeError       Kind = "TypeError"
	RuntimeError    Kind = "RuntimeError"
	NativeError     Kind = "NativeError"
	DependencyError Kind = "DependencyError"
	InternalError   Kind = "InternalError"
)

type ErrorCode string

const (
	// Lexical
	ErrL001 ErrorCode = "L001" // unexpected character
	ErrL002 ErrorCode = "L002" // malformed literal

	// Syntax
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // invalid assignment target
	ErrP003 ErrorCode = "P003" // unexpected end of input
	ErrP004 ErrorCode = "P004" // cannot start an expression
	ErrP005 ErrorCode = "P005" // mismatched vdom closing tag
	ErrP006 ErrorCode = "P006" // nesting too deep

	// Static semantics
	ErrT001 ErrorCode = "T001" // undefined name
	ErrT002 ErrorCode = "T002" // incompatible types
	ErrT003 ErrorCode = "T003" // unknown member
	ErrT004 ErrorCode = "T004" // access violation
	ErrT005 ErrorCode = "T005" // wrong arity
	ErrT006 ErrorCode = "T006" // interface not implemented
	ErrT007 ErrorCode = "T007" // invalid declaration
	ErrT008 ErrorCode = "T008" // operator type mismatch
	ErrT009 ErrorCode = "T009" // not iterable
	ErrT010 ErrorCode = "T010" // not callable

	// Dynamic semantics
	ErrR001 ErrorCode = "R001" // generic runtime failure
	ErrR002 ErrorCode = "R002" // missing member
	ErrR003 ErrorCode = "R003" // wrong arity
	ErrR004 ErrorCode = "R004" // null dereference
	ErrR005 ErrorCode = "R005" // iteration protocol violation
	ErrR006 ErrorCode = "R006" // cancelled

	ErrN001 ErrorCode = "N001" // native bridge failure

	ErrD001 ErrorCode = "D001" // module not found / load failure
	ErrD002 ErrorCode = "D002" // imported name not declared

	ErrI001 ErrorCode = "I001" // uncaught host fault
)

// DiagnosticError is the single error type produced by every stage.
type DiagnosticError struct {
	Kind    Kind
	Code    ErrorCode
	Message string
	Span    token.Span
	File    string
	Cause   error
}

func (e *DiagnosticError) Error() string {
	if e.Span.Line > 0 {
		return fmt.Sprintf("[%s] %s at %d:%d", e.Kind, e.Message, e.Span.Line, e.Span.Column)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Cause
}

// NewError builds a diagnostic anchored at a span.
func NewError(kind Kind, code ErrorCode, span token.Span, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// Wrap turns an arbitrary Go error into a diagnostic of the given kind,
// keeping the original in the chain.
func Wrap(kind Kind, code ErrorCode, span token.Span, err error) *DiagnosticError {
	if de, ok := As(err); ok {
		return de
	}
	return &DiagnosticError{Kind: kind, Code: code, Message: err.Error(), Span: span, Cause: err}
}

// As extracts a *DiagnosticError from an error chain.
func As(err error) (*DiagnosticError, bool) {
	var de *DiagnosticError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := As(err)
	return ok && de.Kind == kind
}
