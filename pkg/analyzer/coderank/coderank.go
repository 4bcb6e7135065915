// Package coderank ranks types by how much of the code base builds on them.
//
// Each strategy contributes edges from a type to the types it relies on:
// its parent class and interfaces (inheritance), the declared types of its
// properties (property) or the types named by its methods (method). CodeRank
// (cr) is PageRank over those edges; reverse CodeRank (rcr) is PageRank over
// the reversed edges. Ranks are scaled by the node count so that a graph of
// n types carries a total rank of n.
package coderank

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/depgraph"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricCR  = "cr"
	MetricRCR = "rcr"
)

const (
	damping   = 0.85
	tolerance = 1e-6
)

var _ analyzer.NodeAware = (*Analyzer)(nil)

// Strategy selects which references become ranking edges.
type Strategy string

const (
	StrategyInheritance Strategy = "inheritance"
	StrategyProperty    Strategy = "property"
	StrategyMethod      Strategy = "method"
)

// Strategies returns every known strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyInheritance, StrategyProperty, StrategyMethod}
}

// ParseStrategy parses a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown coderank strategy %q", s)
}

// Analyzer computes CodeRank and reverse CodeRank per type.
type Analyzer struct {
	analyzer.Base

	strategies map[Strategy]bool
	graph      *depgraph.Graph
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithStrategies replaces the default inheritance strategy. An empty list
// keeps the default.
func WithStrategies(strategies ...Strategy) Option {
	return func(a *Analyzer) {
		if len(strategies) == 0 {
			return
		}
		a.strategies = make(map[Strategy]bool, len(strategies))
		for _, s := range strategies {
			a.strategies[s] = true
		}
	}
}

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a CodeRank analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		Base:       analyzer.NewBase(analyzer.KindCodeRank),
		strategies: map[Strategy]bool{StrategyInheritance: true},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze collects the strategy edges over namespaces and ranks every type
// reached.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.graph = depgraph.New()

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Namespace:
			return true
		case *ast.Type:
			a.graph.AddNode(n)
			if a.strategies[StrategyInheritance] {
				a.edge(n, n.ParentClass())
				for _, i := range n.DeclaredInterfaces() {
					a.edge(n, i)
				}
			}
			return true
		case *ast.Callable:
			if n.IsMethod() && a.strategies[StrategyMethod] {
				a.edge(n.Parent(), n.ReturnType())
				for _, t := range n.ExceptionTypes() {
					a.edge(n.Parent(), t)
				}
				for _, t := range n.Dependencies() {
					a.edge(n.Parent(), t)
				}
			}
		case *ast.Property:
			if a.strategies[StrategyProperty] {
				a.edge(n.DeclaringType(), n.Type())
			}
		}
		return false
	})

	nodes := a.graph.Nodes()
	if len(nodes) > 0 {
		cr := a.rank(false)
		rcr := a.rank(true)
		for i, n := range nodes {
			a.Set(n.ID(), MetricCR, cr[int64(i)])
			a.Set(n.ID(), MetricRCR, rcr[int64(i)])
		}
	}
	return a.Finish(nil)
}

func (a *Analyzer) edge(from, to *ast.Type) {
	if from == nil || to == nil {
		return
	}
	a.graph.AddEdge(from, to)
}

// rank runs PageRank over the collected graph, reversed if asked, and
// scales the result so that the ranks sum to the node count.
func (a *Analyzer) rank(reversed bool) map[int64]float64 {
	nodes := a.graph.Nodes()
	index := make(map[ast.ID]int64, len(nodes))
	g := simple.NewDirectedGraph()
	for i, n := range nodes {
		index[n.ID()] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, from := range nodes {
		for _, to := range a.graph.Efferents(from) {
			f, t := index[from.ID()], index[to.ID()]
			if reversed {
				f, t = t, f
			}
			g.SetEdge(simple.Edge{F: simple.Node(f), T: simple.Node(t)})
		}
	}

	ranks := network.PageRankSparse(g, damping, tolerance)
	total := 0.0
	for _, r := range ranks {
		total += r
	}
	if total == 0 {
		return ranks
	}
	scale := float64(len(nodes)) / total
	for id, r := range ranks {
		ranks[id] = r * scale
	}
	return ranks
}
