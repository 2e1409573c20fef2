// Package render serializes flow graphs to disk. DOT is the primary format;
// JSON and msgpack carry the same vertex and edge records for other tools.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/cfgviz/pkg/flowgraph"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is an output encoding.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatDOT, FormatJSON, FormatMsgpack}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (use dot, json or msgpack)", s)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatMsgpack:
		return ".msgpack"
	default:
		return ".dot"
	}
}

// Options controls DOT layout attributes.
type Options struct {
	// RankDir is the DOT rankdir; empty means LR.
	RankDir string
	// Title adds a top graph label naming the function.
	Title bool
}

// Encode writes g to w in format f.
func Encode(w io.Writer, g *flowgraph.Graph, f Format, opts Options) error {
	switch f {
	case FormatDOT:
		text, err := DOT(g, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encoding msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// DecodeMsgpack reads a graph written with FormatMsgpack.
func DecodeMsgpack(r io.Reader) (*flowgraph.Graph, error) {
	var g flowgraph.Graph
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding msgpack: %w", err)
	}
	return &g, nil
}

// WriteFile encodes g and writes it to path in one write.
func WriteFile(path string, g *flowgraph.Graph, f Format, opts Options) error {
	var buf bytes.Buffer
	if err := Encode(&buf, g, f, opts); err != nil {
		return fmt.Errorf("rendering %s graph: %w", f, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w (check that %s exists and is writable)", path, err, filepath.Dir(path))
	}
	return nil
}

// OutputPath appends the format's extension to base unless base already has
// an extension.
func OutputPath(base string, f Format) string {
	if filepath.Ext(base) != "" {
		return base
	}
	return base + f.Extension()
}
