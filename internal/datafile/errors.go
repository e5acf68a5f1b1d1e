// Package datafile reads the plain-text outputs of the simulation codes:
// whitespace separated numeric tables and column format declarations.
package datafile

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("format declaration missing required field")
	ErrRaggedRow    = errors.New("row width differs from first row")
	ErrNoColumn     = errors.New("column out of range")
	ErrTooFewRows   = errors.New("not enough rows")
)

// ParseError locates malformed content. Line is 1-based; Column is the
// 0-based field index, or -1 when the whole line is at fault.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: field %d: %v", e.Path, e.Line, e.Column+1, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
