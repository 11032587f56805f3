package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mavenfetch/pkg/errors"
)

type document struct {
	Meta  Metadata `json:"meta,omitempty"`
	Nodes []node   `json:"nodes"`
	Edges []edge   `json:"edges"`
}

type node struct {
	ID   string   `json:"id"`
	Meta Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes g as node-link JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(g *Graph, w io.Writer) error {
	out := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	if len(g.meta) > 0 {
		out.Meta = g.meta
	}
	for _, n := range g.Nodes() {
		nd := node{ID: n.ID}
		if len(n.Meta) > 0 {
			nd.Meta = n.Meta
		}
		out.Nodes = append(out.Nodes, nd)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a graph written by [WriteJSON].
func ReadJSON(r io.Reader) (*Graph, error) {
	var in document
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	g := New(in.Meta)
	for _, n := range in.Nodes {
		if err := g.AddNode(Node{ID: n.ID, Meta: n.Meta}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range in.Edges {
		if err := g.AddEdge(Edge(e)); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ExportFile writes g to path in the format named by its extension:
// ".json" (node-link JSON), ".dot" (Graphviz source) or ".svg" (rendered).
func ExportFile(ctx context.Context, g *Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var b strings.Builder
		if err := WriteJSON(g, &b); err != nil {
			return err
		}
		data = []byte(b.String())
	case ".dot", ".gv":
		data = []byte(ToDOT(g, Options{}))
	case ".svg":
		svg, err := RenderSVG(ctx, ToDOT(g, Options{}))
		if err != nil {
			return err
		}
		data = svg
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (use .json, .dot or .svg)", ext)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
