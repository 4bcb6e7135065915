// Package depgraph is the directed artifact graph shared by the namespace
// and type dependency analyzers. Edge order is insertion order, so cycle
// reports are deterministic for a deterministic walk.
package depgraph

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/panbanda/depend/pkg/ast"
)

// Graph is a directed graph over artifacts.
type Graph struct {
	nodes     []ast.Artifact
	index     map[ast.ID]int
	efferents map[ast.ID][]ast.Artifact
	afferents map[ast.ID][]ast.Artifact
	edges     map[[2]ast.ID]bool
	cycles    map[ast.ID][]ast.Artifact
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:     make(map[ast.ID]int),
		efferents: make(map[ast.ID][]ast.Artifact),
		afferents: make(map[ast.ID][]ast.Artifact),
		edges:     make(map[[2]ast.ID]bool),
		cycles:    make(map[ast.ID][]ast.Artifact),
	}
}

// AddNode adds a if it is not present yet.
func (g *Graph) AddNode(a ast.Artifact) {
	if _, ok := g.index[a.ID()]; ok {
		return
	}
	g.index[a.ID()] = len(g.nodes)
	g.nodes = append(g.nodes, a)
}

// AddEdge records that from depends on to. Self edges and duplicates are
// ignored; the result reports whether the edge was new.
func (g *Graph) AddEdge(from, to ast.Artifact) bool {
	g.AddNode(from)
	g.AddNode(to)
	if from.ID() == to.ID() {
		return false
	}
	key := [2]ast.ID{from.ID(), to.ID()}
	if g.edges[key] {
		return false
	}
	g.edges[key] = true
	g.efferents[from.ID()] = append(g.efferents[from.ID()], to)
	g.afferents[to.ID()] = append(g.afferents[to.ID()], from)
	// A new edge can close a cycle for any start node.
	clear(g.cycles)
	return true
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []ast.Artifact { return g.nodes }

// Has reports whether a is a node.
func (g *Graph) Has(a ast.Artifact) bool {
	_, ok := g.index[a.ID()]
	return ok
}

// Efferents returns the nodes a depends on.
func (g *Graph) Efferents(a ast.Artifact) []ast.Artifact { return g.efferents[a.ID()] }

// Afferents returns the nodes that depend on a.
func (g *Graph) Afferents(a ast.Artifact) []ast.Artifact { return g.afferents[a.ID()] }

// Cycle returns the first cycle reached by a depth-first search from a
// along efferent edges, as the search path with the repeated node appended,
// or nil if no cycle is reachable. Results are memoized per start node.
func (g *Graph) Cycle(a ast.Artifact) []ast.Artifact {
	if cycle, ok := g.cycles[a.ID()]; ok {
		return cycle
	}
	var path []ast.Artifact
	var cycle []ast.Artifact
	if g.collectCycle(&path, a) {
		cycle = path
	}
	g.cycles[a.ID()] = cycle
	return cycle
}

func (g *Graph) collectCycle(path *[]ast.Artifact, a ast.Artifact) bool {
	for _, p := range *path {
		if p.ID() == a.ID() {
			*path = append(*path, a)
			return true
		}
	}
	*path = append(*path, a)
	for _, e := range g.efferents[a.ID()] {
		if g.collectCycle(path, e) {
			return true
		}
	}
	*path = (*path)[:len(*path)-1]
	return false
}

// StronglyConnected returns every strongly connected component with more
// than one node. Members and components are ordered by node insertion.
func (g *Graph) StronglyConnected() [][]ast.Artifact {
	dg := simple.NewDirectedGraph()
	for i := range g.nodes {
		dg.AddNode(simple.Node(i))
	}
	for _, from := range g.nodes {
		for _, to := range g.efferents[from.ID()] {
			dg.SetEdge(simple.Edge{F: simple.Node(g.index[from.ID()]), T: simple.Node(g.index[to.ID()])})
		}
	}

	var out [][]ast.Artifact
	for _, scc := range topo.TarjanSCC(dg) {
		if len(scc) < 2 {
			continue
		}
		out = append(out, g.members(scc))
	}
	slices.SortFunc(out, func(a, b []ast.Artifact) int {
		return g.index[a[0].ID()] - g.index[b[0].ID()]
	})
	return out
}

func (g *Graph) members(nodes []graph.Node) []ast.Artifact {
	ids := make([]int, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, int(n.ID()))
	}
	slices.Sort(ids)
	out := make([]ast.Artifact, 0, len(ids))
	for _, i := range ids {
		out = append(out, g.nodes[i])
	}
	return out
}
