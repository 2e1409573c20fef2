package syntax

import (
	"errors"
	"fmt"
)

// ErrFunctionNotFound is returned when the requested function is not defined
// in the source.
var ErrFunctionNotFound = errors.New("function not found")

// SyntaxError reports the first ERROR or MISSING node in a parse tree.
type SyntaxError struct {
	Line    int
	Column  int
	Snippet string
	Missing bool
}

func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("syntax error at line %d, column %d: missing %s", e.Line, e.Column, e.Snippet)
	}
	if e.Snippet == "" {
		return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at line %d, column %d near %q", e.Line, e.Column, e.Snippet)
}
