package rules

import (
	"errors"
	"fmt"
)

// ErrRuleParse is matched by every *ParseError.
var ErrRuleParse = errors.New("rule parse error")

// ParseError represents a malformed rule source.
type ParseError struct {
	// Path is the rule source that failed to parse (may be empty for
	// records supplied directly by the host).
	Path string
	// Line is the line number where the error occurred (if available).
	Line int
	// Column is the column number where the error occurred (if available).
	Column int
	// Index is the offending record index, or -1.
	Index int
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	src := e.Path
	if src == "" {
		src = "<records>"
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", src, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", src, e.Line, e.Message)
	case e.Index >= 0:
		return fmt.Sprintf("parse error in %s at rule %d: %s", src, e.Index, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", src, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRuleParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrRuleParse
}

// recordError builds a ParseError for record i.
func recordError(i int, format string, args ...any) *ParseError {
	return &ParseError{Index: i, Message: fmt.Sprintf(format, args...)}
}
