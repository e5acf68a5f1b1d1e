package expr

import (
	"errors"
	"fmt"
)

var (
	ErrUnresolvedNotation = errors.New("unresolved notation")
	ErrSyntax             = errors.New("syntax error")
	ErrEvaluation         = errors.New("evaluation error")
	ErrRewriteCycle       = errors.New("rewrite did not reach a fixed point")
)

// NotationError reports a domain symbol left over after rewriting.
type NotationError struct {
	Expression string
	Symbol     string
	Position   int
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("%v: %q at position %d in %q", ErrUnresolvedNotation, e.Symbol, e.Position, e.Expression)
}

func (e *NotationError) Unwrap() error {
	return ErrUnresolvedNotation
}

type SyntaxError struct {
	Expression string
	Position   int
	Msg        string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at position %d in %q: %s", ErrSyntax, e.Position, e.Expression, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// EvalError reports a failure while evaluating a parsed expression. Err, when
// set, is the underlying cause such as a lookup failure in the store.
type EvalError struct {
	Op  string
	Msg string
	Err error
}

func (e *EvalError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return fmt.Sprintf("%v in %s: %s", ErrEvaluation, e.Op, msg)
}

func (e *EvalError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEvaluation}
	}
	return []error{ErrEvaluation, e.Err}
}

func evalErrorf(op, format string, args ...any) *EvalError {
	return &EvalError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
