package walker

import (
	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/l3aro/cfgviz/pkg/syntax"
)

func compatHandlers() map[syntax.Kind]handler {
	return map[syntax.Kind]handler{
		syntax.KindStatement:  compatGeneric,
		syntax.KindCompound:   compatGeneric,
		syntax.KindExpression: compatGeneric,
		syntax.KindDefinition: compatGeneric,
		syntax.KindBreak:      compatGeneric,
		syntax.KindContinue:   compatGeneric,
		syntax.KindIf:         compatIf,
		syntax.KindFor:        compatLoop,
		syntax.KindWhile:      compatLoop,
		syntax.KindReturn:     compatReturn,
	}
}

// compatGeneric fans every child out of v and continues from the last child's
// position. A last child that ends the flow leaves the walk at v.
func compatGeneric(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	var last []Exit
	for _, child := range n.Children {
		last = w.visit(ctx, child, []Exit{{Vertex: v}})
	}
	if len(last) == 0 {
		return []Exit{{Vertex: v}}
	}
	return last
}

// compatIf walks only the first statement of each arm. Without an else arm the
// condition gets a "False (No else)" self-edge. The walk resumes from the
// condition vertex, not from either arm.
func compatIf(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	if len(n.Body) > 0 {
		w.visit(ctx, n.Body[0], []Exit{{Vertex: v, Label: flowgraph.LabelTrue}})
	}
	if len(n.OrElse) > 0 {
		w.visit(ctx, n.OrElse[0], []Exit{{Vertex: v, Label: flowgraph.LabelFalse}})
	} else {
		ctx.graph.AddEdge(v, v, flowgraph.LabelNoElse)
	}
	return []Exit{{Vertex: v}}
}

// compatLoop treats v as the loop header: the first body statement hangs off
// it, its position loops back, and the walk resumes from the header.
func compatLoop(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	enter, orElse := loopLabels(n)

	if len(n.Body) > 0 {
		exits := w.visit(ctx, n.Body[0], []Exit{{Vertex: v, Label: enter}})
		for _, e := range exits {
			ctx.graph.AddEdge(e.Vertex, v, flowgraph.LabelLoopBack)
		}
	}
	if len(n.OrElse) > 0 {
		w.visit(ctx, n.OrElse[0], []Exit{{Vertex: v, Label: orElse}})
	} else {
		ctx.graph.AddEdge(v, v, flowgraph.LabelFalse)
	}
	return []Exit{{Vertex: v}}
}

func compatReturn(w *Walker, ctx walkContext, n *syntax.Node, v flowgraph.VertexID) []Exit {
	ctx.graph.AddEdge(v, ctx.exit, flowgraph.LabelReturn)
	return nil
}

// loopLabels returns the body-entry and loop-else edge labels for a loop kind.
func loopLabels(n *syntax.Node) (enter, orElse string) {
	if n.Kind == syntax.KindWhile {
		return flowgraph.LabelTrue, flowgraph.LabelWhileElse
	}
	return flowgraph.LabelEnterLoop, flowgraph.LabelForElse
}
