package syntax

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Options controls how much of the tree is converted.
type Options struct {
	// Expressions keeps expression nodes as generic children, so the walk
	// covers the whole syntax tree instead of statements only.
	Expressions bool
}

// NewPythonParser creates a new tree-sitter parser for Python.
func NewPythonParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return parser
}

// ParseTree parses src and fails with a *SyntaxError when the tree contains
// ERROR or MISSING nodes. The caller owns the returned tree and must Close it.
func ParseTree(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := NewPythonParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parsing source: no tree produced")
	}

	root := tree.RootNode()
	if root.HasError() {
		serr := firstError(root, src)
		tree.Close()
		return nil, serr
	}
	return tree, nil
}

// ParseFunction parses src and converts the named function. When the function
// is absent the error wraps ErrFunctionNotFound.
func ParseFunction(ctx context.Context, src []byte, name string, opts Options) (*Function, error) {
	tree, err := ParseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := &converter{content: src, opts: opts}
	funcNode := c.findFunction(tree.RootNode(), name)
	if funcNode == nil {
		return nil, fmt.Errorf("%w: %q", ErrFunctionNotFound, name)
	}

	fn := &Function{
		Name:      name,
		Params:    c.params(funcNode),
		StartLine: startLine(funcNode),
		EndLine:   endLine(funcNode),
		Lines:     strings.Split(string(src), "\n"),
	}
	if body := funcNode.ChildByFieldName("body"); body != nil {
		fn.Body = c.statements(body)
	}
	return fn, nil
}

// ListFunctions returns every function definition outside class bodies, in
// source order.
func ListFunctions(ctx context.Context, src []byte) ([]FunctionInfo, error) {
	tree, err := ParseTree(ctx, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := &converter{content: src}
	var out []FunctionInfo
	WalkFunctions(tree.RootNode(), func(n *sitter.Node) {
		out = append(out, FunctionInfo{
			Name:      c.text(n.ChildByFieldName("name")),
			Params:    c.params(n),
			StartLine: startLine(n),
			EndLine:   endLine(n),
		})
	})
	return out, nil
}

// converter copies the parts of a tree-sitter tree the walker needs.
type converter struct {
	content []byte
	opts    Options
}

func (c *converter) findFunction(root *sitter.Node, name string) *sitter.Node {
	var found *sitter.Node
	WalkFunctions(root, func(n *sitter.Node) {
		if found == nil && c.text(n.ChildByFieldName("name")) == name {
			found = n
		}
	})
	return found
}

// WalkFunctions visits function definitions below node depth-first, not
// descending into class definitions. Every lookup in cfgviz finds functions
// this way, so methods are never candidates.
func WalkFunctions(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	if node.Type() == "function_definition" {
		visit(node)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Type() == "class_definition" {
			continue
		}
		WalkFunctions(child, visit)
	}
}

// params renders the parameter list without its parentheses, whitespace
// collapsed.
func (c *converter) params(fn *sitter.Node) string {
	text := c.text(fn.ChildByFieldName("parameters"))
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	return strings.Join(strings.Fields(text), " ")
}

// statements converts the named children of a block, skipping comments.
func (c *converter) statements(block *sitter.Node) []*Node {
	var out []*Node
	for i := 0; i < int(block.NamedChildCount()); i++ {
		child := block.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, c.statement(child))
	}
	return out
}

func (c *converter) statement(n *sitter.Node) *Node {
	node := c.newNode(n, classify(n))

	switch node.Kind {
	case KindIf:
		node.Body = c.fieldStatements(n, "consequence")
		node.OrElse = c.alternatives(c.namedChildrenOfType(n, "elif_clause", "else_clause"), endLine(n))
	case KindFor, KindWhile:
		node.Body = c.fieldStatements(n, "body")
		if alt := c.namedChildrenOfType(n, "else_clause"); len(alt) > 0 {
			node.OrElse = c.fieldStatements(alt[0], "body")
		}
	case KindCompound:
		node.Children = c.compoundChildren(n)
	case KindStatement:
		if c.opts.Expressions {
			node.Children = c.expressions(n)
		}
	}
	return node
}

// alternatives folds elif/else clauses into the OrElse shape of a Python AST:
// each elif becomes a conditional holding the remaining clauses.
func (c *converter) alternatives(clauses []*sitter.Node, chainEnd int) []*Node {
	if len(clauses) == 0 {
		return nil
	}
	first := clauses[0]
	if first.Type() == "else_clause" {
		return c.fieldStatements(first, "body")
	}

	elif := c.newNode(first, KindIf)
	elif.EndLine = chainEnd
	elif.Body = c.fieldStatements(first, "consequence")
	elif.OrElse = c.alternatives(clauses[1:], chainEnd)
	return []*Node{elif}
}

// compoundChildren collects the statements held by blocks and clauses of a
// compound statement, plus expressions when enabled.
func (c *converter) compoundChildren(n *sitter.Node) []*Node {
	var out []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		switch {
		case child.Type() == "block":
			out = append(out, c.statements(child)...)
		case isClause(child):
			out = append(out, c.statement(child))
		case c.opts.Expressions:
			out = append(out, c.expression(child))
		}
	}
	return out
}

func (c *converter) expressions(n *sitter.Node) []*Node {
	var out []*Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, c.expression(child))
	}
	return out
}

func (c *converter) expression(n *sitter.Node) *Node {
	node := c.newNode(n, KindExpression)
	node.Children = c.expressions(n)
	return node
}

func (c *converter) fieldStatements(n *sitter.Node, field string) []*Node {
	block := n.ChildByFieldName(field)
	if block == nil {
		return nil
	}
	return c.statements(block)
}

func (c *converter) namedChildrenOfType(n *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		for _, t := range types {
			if child.Type() == t {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

func (c *converter) newNode(n *sitter.Node, kind Kind) *Node {
	return &Node{
		Kind:      kind,
		Type:      n.Type(),
		StartLine: startLine(n),
		EndLine:   endLine(n),
		HasSpan:   n.EndByte() > n.StartByte(),
	}
}

// text extracts the text content of a node from the source.
func (c *converter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start >= uint32(len(c.content)) || end > uint32(len(c.content)) {
		return ""
	}
	return string(c.content[start:end])
}

func classify(n *sitter.Node) Kind {
	switch n.Type() {
	case "if_statement":
		return KindIf
	case "for_statement":
		return KindFor
	case "while_statement":
		return KindWhile
	case "return_statement":
		return KindReturn
	case "break_statement":
		return KindBreak
	case "continue_statement":
		return KindContinue
	case "function_definition", "class_definition", "decorated_definition":
		return KindDefinition
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child != nil && (child.Type() == "block" || isClause(child)) {
			return KindCompound
		}
	}
	return KindStatement
}

// isClause matches the clause nodes of try/match/with statements.
func isClause(n *sitter.Node) bool {
	switch n.Type() {
	case "except_clause", "except_group_clause", "else_clause", "finally_clause", "case_clause":
		return true
	}
	return false
}

func startLine(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

func endLine(n *sitter.Node) int { return int(n.EndPoint().Row) + 1 }

// firstError locates the first ERROR or MISSING node in document order.
func firstError(root *sitter.Node, src []byte) *SyntaxError {
	var found *sitter.Node
	var search func(n *sitter.Node)
	search = func(n *sitter.Node) {
		if found != nil || n == nil || !n.HasError() && !n.IsMissing() {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			search(n.Child(i))
		}
	}
	search(root)

	if found == nil {
		return &SyntaxError{Line: 1, Column: 1}
	}

	serr := &SyntaxError{
		Line:    int(found.StartPoint().Row) + 1,
		Column:  int(found.StartPoint().Column) + 1,
		Missing: found.IsMissing(),
	}
	if serr.Missing {
		serr.Snippet = found.Type()
	} else {
		c := &converter{content: src}
		serr.Snippet = firstLine(c.text(found))
	}
	return serr
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
