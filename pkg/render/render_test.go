package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *flowgraph.Graph {
	g := flowgraph.New("check")
	g.AddVertex(flowgraph.Vertex{ID: "node_0", Label: "ENTRY: check", Style: flowgraph.EntryStyle})
	g.AddVertex(flowgraph.Vertex{ID: "node_1", Label: "EXIT: check", Style: flowgraph.ExitStyle})
	g.AddVertex(flowgraph.Vertex{ID: "node_2", Label: "ARGS: (x)", Style: flowgraph.ArgsStyle})
	g.AddVertex(flowgraph.Vertex{ID: "node_3", Label: `L2: if x == "a\b":` + "\n    pass", Style: flowgraph.StatementStyle})
	g.AddVertex(flowgraph.Vertex{ID: "node_4", Label: "<pass_statement>", Style: flowgraph.StatementStyle})
	g.Entry, g.Exit = "node_0", "node_1"
	g.AddEdge("node_0", "node_2", "")
	g.AddEdge("node_2", "node_3", "")
	g.AddEdge("node_3", "node_4", flowgraph.LabelTrue)
	g.AddEdge("node_3", "node_3", flowgraph.LabelNoElse)
	g.AddEdge("node_3", "node_3", flowgraph.LabelNoElse)
	g.AddEdge("node_4", "node_1", flowgraph.LabelReturn)
	return g
}

// compact drops whitespace so assertions do not depend on DOT layout.
func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestDOT(t *testing.T) {
	out, err := DOT(sampleGraph(), Options{})
	require.NoError(t, err)
	flat := compact(out)

	assert.True(t, strings.HasPrefix(flat, "digraphcfg{"), out)
	assert.Contains(t, flat, "rankdir=LR")
	assert.Contains(t, flat, compact(`comment="Control Flow Graph"`))
	assert.Contains(t, flat, compact(`label="ENTRY: check"`))
	assert.Contains(t, flat, compact(`label="ARGS: (x)"`))
	assert.Contains(t, flat, compact(`label="<pass_statement>"`))
	assert.Contains(t, flat, compact(`label="L2: if x == \"a\\b\":\n    pass"`))
	assert.Contains(t, flat, "shape=doublecircle")
	assert.Contains(t, flat, "shape=ellipse")
	assert.Contains(t, flat, compact(`fillcolor="lightgray"`))
	assert.Contains(t, flat, compact(`node_4->node_1[ label="Return" ]`))
	assert.Contains(t, flat, "node_0->node_2;")
	assert.NotContains(t, flat, "labelloc")

	assert.Equal(t, 2, strings.Count(flat, compact(`node_3->node_3[ label="False (No else)" ]`)), "parallel edges are kept")
}

func TestDOT_Options(t *testing.T) {
	out, err := DOT(sampleGraph(), Options{RankDir: "TB", Title: true})
	require.NoError(t, err)
	flat := compact(out)

	assert.Contains(t, flat, "rankdir=TB")
	assert.Contains(t, flat, compact(`label="Control Flow Graph for \"check\""`))
	assert.Contains(t, flat, "labelloc=t")
	assert.Contains(t, flat, "fontsize=20")
}

func TestDOT_EmptyGraph(t *testing.T) {
	out, err := DOT(flowgraph.New("missing"), Options{})
	require.NoError(t, err)

	flat := compact(out)
	assert.True(t, strings.HasPrefix(flat, "digraphcfg{"))
	assert.NotContains(t, flat, "node_")
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleGraph(), FormatJSON, Options{}))

	var decoded flowgraph.Graph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "check", decoded.Name)
	assert.Equal(t, flowgraph.VertexID("node_0"), decoded.Entry)
	assert.Len(t, decoded.Vertices, 5)
	assert.Len(t, decoded.Edges, 6)
	assert.Contains(t, buf.String(), `"shape": "doublecircle"`)
}

func TestEncode_MsgpackRoundTrip(t *testing.T) {
	g := sampleGraph()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, FormatMsgpack, Options{}))

	decoded, err := DecodeMsgpack(&buf)
	require.NoError(t, err)
	assert.Equal(t, g.Name, decoded.Name)
	assert.Equal(t, g.Entry, decoded.Entry)
	assert.Equal(t, g.Exit, decoded.Exit)
	assert.Equal(t, g.Vertices, decoded.Vertices)
	assert.Equal(t, g.Edges, decoded.Edges)

	v, ok := decoded.Vertex("node_3")
	require.True(t, ok)
	assert.Equal(t, g.Vertices[3].Label, v.Label)
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sampleGraph(), Format("svg"), Options{})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"dot", FormatDOT, false},
		{"JSON", FormatJSON, false},
		{"msgpack", FormatMsgpack, false},
		{"svg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "user_behavior_cfg_ast.dot", OutputPath("user_behavior_cfg_ast", FormatDOT))
	assert.Equal(t, "out/graph.json", OutputPath("out/graph", FormatJSON))
	assert.Equal(t, "graph.msgpack", OutputPath("graph", FormatMsgpack))
	assert.Equal(t, "graph.gv", OutputPath("graph.gv", FormatDOT))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "check.dot")

	require.NoError(t, WriteFile(path, sampleGraph(), FormatDOT, Options{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")

	err = WriteFile(filepath.Join(dir, "missing", "check.dot"), sampleGraph(), FormatDOT, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exists and is writable")
}
