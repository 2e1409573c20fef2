// Package walker renders a converted Python function as a flow graph.
//
// Two handler sets exist. Compat draws the legacy layout: branches and
// loops hang only their first statement off the condition or header vertex and
// the walk resumes from that vertex, so there is no merge point. Join chains
// every statement and joins branch and loop exits at explicit merge vertices.
package walker

import (
	"fmt"

	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/l3aro/cfgviz/pkg/syntax"
)

// Mode selects the handler set.
type Mode string

const (
	ModeCompat Mode = "compat"
	ModeJoin   Mode = "join"
)

// DefaultLabelWidth is the label length at which snippets get truncated.
const DefaultLabelWidth = 70

// Options configures a Walker.
type Options struct {
	Mode       Mode
	LabelWidth int

	// Sequence allocates vertex IDs. Nil gets a fresh sequence; sharing one
	// across walkers keeps their ID ranges disjoint.
	Sequence *flowgraph.Sequence
}

// Exit is a position control can leave from, with the label the next edge
// should carry.
type Exit struct {
	Vertex flowgraph.VertexID
	Label  string
}

// handler finishes the subtree of n whose vertex v already exists and returns
// the positions control reaches afterwards.
type handler func(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit

// walkContext is threaded through every handler call.
type walkContext struct {
	graph *flowgraph.Graph
	lines []string
	exit  flowgraph.VertexID
	loops []*loopFrame
}

// loopFrame collects what break and continue need in join mode.
type loopFrame struct {
	header flowgraph.VertexID
	breaks []Exit
}

func (c walkContext) withLoop(f *loopFrame) walkContext {
	loops := make([]*loopFrame, len(c.loops), len(c.loops)+1)
	copy(loops, c.loops)
	c.loops = append(loops, f)
	return c
}

func (c walkContext) innermostLoop() *loopFrame {
	if len(c.loops) == 0 {
		return nil
	}
	return c.loops[len(c.loops)-1]
}

// Walker builds graphs. Reusing a Walker keeps allocating from the same
// sequence, so every walk gets fresh IDs.
type Walker struct {
	mode     Mode
	width    int
	seq      *flowgraph.Sequence
	handlers map[syntax.Kind]handler
}

// New creates a walker. It fails when the mode is unknown or when any syntax
// kind has no handler.
func New(opts Options) (*Walker, error) {
	if opts.Mode == "" {
		opts.Mode = ModeCompat
	}
	if opts.LabelWidth == 0 {
		opts.LabelWidth = DefaultLabelWidth
	}
	if opts.LabelWidth < 4 {
		return nil, fmt.Errorf("label width %d too small", opts.LabelWidth)
	}
	if opts.Sequence == nil {
		opts.Sequence = flowgraph.NewSequence()
	}

	var handlers map[syntax.Kind]handler
	switch opts.Mode {
	case ModeCompat:
		handlers = compatHandlers()
	case ModeJoin:
		handlers = joinHandlers()
	default:
		return nil, fmt.Errorf("unknown walk mode %q (use %q or %q)", opts.Mode, ModeCompat, ModeJoin)
	}
	for _, k := range syntax.Kinds() {
		if handlers[k] == nil {
			return nil, fmt.Errorf("%s mode has no handler for %s nodes", opts.Mode, k)
		}
	}

	return &Walker{
		mode:     opts.Mode,
		width:    opts.LabelWidth,
		seq:      opts.Sequence,
		handlers: handlers,
	}, nil
}

// Mode returns the handler set in use.
func (w *Walker) Mode() Mode {
	return w.mode
}

// Walk renders fn. Vertices are allocated entry, exit, args, then statements.
func (w *Walker) Walk(fn *syntax.Function) *flowgraph.Graph {
	g := flowgraph.New(fn.Name)
	ctx := walkContext{graph: g, lines: fn.Lines}

	entry := w.addVertex(ctx, "ENTRY: "+fn.Name, flowgraph.EntryStyle)
	exit := w.addVertex(ctx, "EXIT: "+fn.Name, flowgraph.ExitStyle)
	g.Entry, g.Exit = entry, exit
	ctx.exit = exit

	args := w.addVertex(ctx, fmt.Sprintf("ARGS: (%s)", fn.Params), flowgraph.ArgsStyle)
	g.AddEdge(entry, args, "")

	// Top-level statements are chained in both modes; a return leaves no
	// position, so whatever follows it gets no incoming edge.
	cursor := []Exit{{Vertex: args}}
	for _, stmt := range fn.Body {
		cursor = w.visit(ctx, stmt, cursor)
	}

	for _, e := range cursor {
		if e.Vertex != exit {
			g.AddEdge(e.Vertex, exit, e.Label)
		}
	}
	return g
}

// visit creates the vertex for n, connects it from every position in from and
// hands the rest of the subtree to the handler for n's kind.
func (w *Walker) visit(ctx walkContext, n *syntax.Node, from []Exit) []Exit {
	v := w.addVertex(ctx, w.label(ctx.lines, n), flowgraph.StatementStyle)
	for _, e := range from {
		ctx.graph.AddEdge(e.Vertex, v, e.Label)
	}
	return w.handlers[n.Kind](w, ctx, n, v)
}

func (w *Walker) addVertex(ctx walkContext, label string, style flowgraph.Style) flowgraph.VertexID {
	id := w.seq.Next()
	ctx.graph.AddVertex(flowgraph.Vertex{ID: id, Label: label, Style: style})
	return id
}

// connect draws an edge from each exit to target. An exit's own label wins
// over the fallback.
func connect(ctx walkContext, exits []Exit, target flowgraph.VertexID, fallback string) {
	for _, e := range exits {
		label := e.Label
		if label == "" {
			label = fallback
		}
		ctx.graph.AddEdge(e.Vertex, target, label)
	}
}

// label renders "L<line>: <snippet>", or "<type>" for nodes without a span.
func (w *Walker) label(lines []string, n *syntax.Node) string {
	if !n.HasSpan {
		return "<" + n.Type + ">"
	}
	snippet := syntax.Snippet(lines, n.StartLine, n.EndLine)
	if snippet == "" {
		return fmt.Sprintf("L%d: %s", n.StartLine, n.Type)
	}
	return fmt.Sprintf("L%d: %s", n.StartLine, Truncate(snippet, w.width))
}

// Truncate cuts s to width-3 runes plus "..." once it reaches width runes.
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) < width {
		return s
	}
	return string(r[:width-3]) + "..."
}
