// Package complexity scores Python functions by cyclomatic complexity,
// computed as decision points + 1.
package complexity

import (
	"context"
	"fmt"

	"github.com/l3aro/cfgviz/pkg/syntax"
	sitter "github.com/smacker/go-tree-sitter"
)

// Score is the complexity of one function.
type Score struct {
	Name       string `json:"name"`
	StartLine  int    `json:"start_line"`
	Complexity int    `json:"complexity"`
}

// Analyze scores every function definition in src outside class bodies, in
// source order. Nested functions get their own score and do not add to their
// parent's.
func Analyze(ctx context.Context, src []byte) ([]Score, error) {
	tree, err := syntax.ParseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var scores []Score
	syntax.WalkFunctions(tree.RootNode(), func(n *sitter.Node) {
		scores = append(scores, Score{
			Name:       n.ChildByFieldName("name").Content(src),
			StartLine:  int(n.StartPoint().Row) + 1,
			Complexity: countDecisionPoints(n.ChildByFieldName("body")) + 1,
		})
	})
	return scores, nil
}

// Function returns the score of the named function.
func Function(ctx context.Context, src []byte, name string) (int, error) {
	scores, err := Analyze(ctx, src)
	if err != nil {
		return 0, err
	}
	for _, s := range scores {
		if s.Name == name {
			return s.Complexity, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", syntax.ErrFunctionNotFound, name)
}

// countDecisionPoints counts branching constructs below node, stopping at
// nested function definitions.
func countDecisionPoints(node *sitter.Node) int {
	if node == nil {
		return 0
	}

	count := 0
	switch node.Type() {
	case "if_statement", "elif_clause", "for_statement", "while_statement",
		"except_clause", "except_group_clause", "conditional_expression",
		"for_in_clause", "if_clause", "boolean_operator", "case_clause":
		count++
	case "function_definition", "lambda":
		return 0
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		count += countDecisionPoints(node.NamedChild(i))
	}
	return count
}
