package walker

import (
	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/l3aro/cfgviz/pkg/syntax"
)

// MergeLabel is the label of the vertices join mode inserts where branches
// reconverge.
const MergeLabel = "merge"

func joinHandlers() map[syntax.Kind]handler {
	return map[syntax.Kind]handler{
		syntax.KindStatement:  joinGeneric,
		syntax.KindCompound:   joinGeneric,
		syntax.KindExpression: joinGeneric,
		syntax.KindDefinition: joinGeneric,
		syntax.KindIf:         joinIf,
		syntax.KindFor:        joinLoop,
		syntax.KindWhile:      joinLoop,
		syntax.KindReturn:     compatReturn,
		syntax.KindBreak:      joinBreak,
		syntax.KindContinue:   joinContinue,
	}
}

// sequence visits stmts one after another, each starting where the previous
// one left off.
func (w *Walker) sequence(ctx walkContext, stmts []*syntax.Node, from []Exit) []Exit {
	cur := from
	for _, stmt := range stmts {
		cur = w.visit(ctx, stmt, cur)
	}
	return cur
}

// merge joins several exits at a fresh merge vertex. Zero or one exit passes
// through unchanged.
func (w *Walker) merge(ctx walkContext, exits []Exit) []Exit {
	if len(exits) <= 1 {
		return exits
	}
	m := w.addVertex(ctx, MergeLabel, flowgraph.MergeStyle)
	connect(ctx, exits, m, "")
	return []Exit{{Vertex: m}}
}

func joinGeneric(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	if n.Type == "try_statement" {
		return joinTry(w, ctx, n, v)
	}
	return w.sequence(ctx, n.Children, []Exit{{Vertex: v}})
}

// joinTry runs the body from the try vertex, followed by its else clause. Each
// handler branches from the try vertex on its own. Everything that survives
// meets at a merge vertex ahead of the finally clause; when nothing does, the
// finally clause hangs off the try vertex so it stays reachable.
func joinTry(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	var body, handlers []*syntax.Node
	var orElse, final *syntax.Node
	for _, c := range n.Children {
		switch c.Type {
		case "except_clause", "except_group_clause":
			handlers = append(handlers, c)
		case "else_clause":
			orElse = c
		case "finally_clause":
			final = c
		default:
			body = append(body, c)
		}
	}

	exits := w.sequence(ctx, body, []Exit{{Vertex: v}})
	if orElse != nil {
		exits = w.visit(ctx, orElse, exits)
	}
	for _, h := range handlers {
		exits = append(exits, w.visit(ctx, h, []Exit{{Vertex: v, Label: flowgraph.LabelExcept}})...)
	}
	exits = w.merge(ctx, exits)

	if final == nil {
		return exits
	}
	if len(exits) == 0 {
		exits = []Exit{{Vertex: v, Label: flowgraph.LabelFinally}}
	}
	return w.visit(ctx, final, exits)
}

// joinIf chains both arms. A missing else arm is a pending False exit from the
// condition.
func joinIf(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	exits := w.sequence(ctx, n.Body, []Exit{{Vertex: v, Label: flowgraph.LabelTrue}})
	if len(n.OrElse) > 0 {
		exits = append(exits, w.sequence(ctx, n.OrElse, []Exit{{Vertex: v, Label: flowgraph.LabelFalse}})...)
	} else {
		exits = append(exits, Exit{Vertex: v, Label: flowgraph.LabelFalse})
	}
	return w.merge(ctx, exits)
}

// joinLoop leaves through the header's False exit (or the loop-else body) and
// through every break in the body.
func joinLoop(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	enter, orElse := loopLabels(n)
	frame := &loopFrame{header: v}

	body := w.sequence(ctx.withLoop(frame), n.Body, []Exit{{Vertex: v, Label: enter}})
	connect(ctx, w.merge(ctx, body), v, flowgraph.LabelLoopBack)

	var exits []Exit
	if len(n.OrElse) > 0 {
		exits = w.sequence(ctx, n.OrElse, []Exit{{Vertex: v, Label: orElse}})
	} else {
		exits = []Exit{{Vertex: v, Label: flowgraph.LabelFalse}}
	}
	exits = append(exits, frame.breaks...)
	return w.merge(ctx, exits)
}

func joinBreak(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	frame := ctx.innermostLoop()
	if frame == nil {
		return []Exit{{Vertex: v}}
	}
	frame.breaks = append(frame.breaks, Exit{Vertex: v, Label: flowgraph.LabelBreak})
	return nil
}

func joinContinue(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	frame := ctx.innermostLoop()
	if frame == nil {
		return []Exit{{Vertex: v}}
	}
	ctx.graph.AddEdge(v, frame.header, flowgraph.LabelContinue)
	return nil
}
