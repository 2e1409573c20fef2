package render

import (
	"fmt"
	"strings"

	"github.com/awalterschulze/gographviz"
	"github.com/l3aro/cfgviz/pkg/flowgraph"
)

const dotGraphName = "cfg"

// DOT renders g as a digraph. Vertices are declared with their label, shape,
// style and colors; edges keep their order and multiplicity.
func DOT(g *flowgraph.Graph, opts Options) (string, error) {
	rankDir := opts.RankDir
	if rankDir == "" {
		rankDir = "LR"
	}

	out := gographviz.NewGraph()
	if err := out.SetName(dotGraphName); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}

	attrs := map[string]string{"rankdir": rankDir}
	if g.Comment != "" {
		attrs["comment"] = quote(g.Comment)
	}
	if opts.Title {
		attrs["label"] = quote(fmt.Sprintf("Control Flow Graph for \"%s\"", g.Name))
		attrs["labelloc"] = "t"
		attrs["fontsize"] = "20"
	}
	for field, value := range attrs {
		if err := out.AddAttr(dotGraphName, field, value); err != nil {
			return "", fmt.Errorf("graph attribute %s: %w", field, err)
		}
	}

	for _, v := range g.Vertices {
		if err := out.AddNode(dotGraphName, string(v.ID), vertexAttrs(v)); err != nil {
			return "", fmt.Errorf("vertex %s: %w", v.ID, err)
		}
	}

	for _, e := range g.Edges {
		var edgeAttrs map[string]string
		if e.Label != "" {
			edgeAttrs = map[string]string{"label": quote(e.Label)}
		}
		if err := out.AddEdge(string(e.From), string(e.To), true, edgeAttrs); err != nil {
			return "", fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
	}

	return out.String(), nil
}

func vertexAttrs(v flowgraph.Vertex) map[string]string {
	attrs := map[string]string{
		"label": quote(v.Label),
		"shape": string(v.Style.Shape),
	}
	if v.Style.Style != "" {
		attrs["style"] = quote(v.Style.Style)
	}
	if v.Style.Color != "" {
		attrs["color"] = quote(v.Style.Color)
	}
	if v.Style.FillColor != "" {
		attrs["fillcolor"] = quote(v.Style.FillColor)
	}
	return attrs
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote renders s as a DOT double-quoted string. Newlines become \n, which
// Graphviz draws as centered line breaks.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
