// Package syntax turns Python source into the small statement tree the walker
// understands. Parsing is done by tree-sitter; the tree-sitter tree is released
// before the converted nodes are returned.
package syntax

import "strings"

// Kind is the closed set of node variants the walker dispatches on.
type Kind int

const (
	KindStatement  Kind = iota // simple statement, no structural children
	KindCompound               // with/try/match and friends: children visited generically
	KindExpression             // expression node, only present when Options.Expressions is set
	KindIf                     // if / elif
	KindFor                    // for, async for
	KindWhile                  // while
	KindReturn                 // return
	KindBreak                  // break
	KindContinue               // continue
	KindDefinition             // nested def / class, rendered as one statement

	kindCount
)

// Kinds lists every Kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	switch k {
	case KindStatement:
		return "statement"
	case KindCompound:
		return "compound"
	case KindExpression:
		return "expression"
	case KindIf:
		return "if"
	case KindFor:
		return "for"
	case KindWhile:
		return "while"
	case KindReturn:
		return "return"
	case KindBreak:
		return "break"
	case KindContinue:
		return "continue"
	case KindDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// Node is one converted syntax node. Lines are 1-based and inclusive.
type Node struct {
	Kind      Kind
	Type      string // tree-sitter node type, e.g. "if_statement"
	StartLine int
	EndLine   int
	HasSpan   bool

	// Body and OrElse hold the statements of conditionals and loops. An elif
	// chain is stored as a nested KindIf node, alone in OrElse.
	Body   []*Node
	OrElse []*Node

	// Children holds the structural children visited by the generic handler.
	Children []*Node
}

// Function is the analyzed function definition.
type Function struct {
	Name      string
	Params    string
	StartLine int
	EndLine   int
	Body      []*Node

	// Lines is the whole source split on newlines, used for labels.
	Lines []string
}

// FunctionInfo summarizes a function definition found in a source file.
type FunctionInfo struct {
	Name      string `json:"name"`
	Params    string `json:"params"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Snippet returns the trimmed source text of lines start..end (1-based,
// inclusive). Out-of-range spans yield "".
func Snippet(lines []string, start, end int) string {
	if end < start {
		end = start
	}
	if start < 1 || end > len(lines) {
		return ""
	}
	return strings.TrimSpace(strings.Join(lines[start-1:end], "\n"))
}
