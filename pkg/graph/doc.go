// Package graph holds the resolution graph of a run and its exports.
//
// Nodes are coordinate strings and edges point from a package to each
// dependency it resolved:
//
//	g := graph.New(nil)
//	_ = g.AddNode(graph.Node{ID: "g:a:1.0"})
//	_ = g.AddNode(graph.Node{ID: "g:b:2.0"})
//	_ = g.AddEdge(graph.Edge{From: "g:a:1.0", To: "g:b:2.0"})
//
// [WriteJSON] produces node-link JSON, [ToDOT] Graphviz source and
// [RenderSVG] an SVG drawing via github.com/goccy/go-graphviz.
// [ExportFile] picks the format from a file extension.
package graph
