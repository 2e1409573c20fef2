// Package flowgraph defines the vertex and edge records produced when a
// function is walked for visualization.
package flowgraph

// VertexID identifies a vertex. IDs have the form node_<n>.
type VertexID string

// Shape is the outline a renderer draws for a vertex.
type Shape string

const (
	ShapeBox          Shape = "box"
	ShapeEllipse      Shape = "ellipse"
	ShapeDoubleCircle Shape = "doublecircle"
	ShapeRect         Shape = "rect"
	ShapePoint        Shape = "point"
)

// DefaultVertexStyle is the DOT style applied to ordinary vertices.
const DefaultVertexStyle = "rounded"

// Edge labels used by the walker.
const (
	LabelTrue      = "True"
	LabelFalse     = "False"
	LabelNoElse    = "False (No else)"
	LabelEnterLoop = "Enter Loop"
	LabelLoopBack  = "Loop back"
	LabelForElse   = "Else (No Break)"
	LabelWhileElse = "False (Else)"
	LabelReturn    = "Return"
	LabelBreak     = "Break"
	LabelContinue  = "Continue"
	LabelExcept    = "Except"
	LabelFinally   = "Finally"
)

// Style holds the cosmetic attributes of a vertex.
type Style struct {
	Shape     Shape  `json:"shape" msgpack:"shape"`
	Style     string `json:"style,omitempty" msgpack:"style,omitempty"`
	Color     string `json:"color,omitempty" msgpack:"color,omitempty"`
	FillColor string `json:"fillcolor,omitempty" msgpack:"fillcolor,omitempty"`
}

// Vertex is a labeled graph node.
type Vertex struct {
	ID    VertexID `json:"id" msgpack:"id"`
	Label string   `json:"label" msgpack:"label"`
	Style Style    `json:"style" msgpack:"style"`
}

// Edge is a directed edge with an optional label.
type Edge struct {
	From  VertexID `json:"from" msgpack:"from"`
	To    VertexID `json:"to" msgpack:"to"`
	Label string   `json:"label,omitempty" msgpack:"label,omitempty"`
}

// Predefined styles.
var (
	StatementStyle = Style{Shape: ShapeBox, Style: DefaultVertexStyle, Color: "black"}
	EntryStyle     = Style{Shape: ShapeEllipse, Style: DefaultVertexStyle, Color: "green"}
	ExitStyle      = Style{Shape: ShapeDoubleCircle, Style: DefaultVertexStyle, Color: "red"}
	ArgsStyle      = Style{Shape: ShapeRect, Style: "filled", Color: "black", FillColor: "lightgray"}
	MergeStyle     = Style{Shape: ShapePoint, Color: "gray40"}
)
