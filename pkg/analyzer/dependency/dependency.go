// Package dependency builds the namespace dependency graph and derives
// Robert C. Martin's package metrics from it.
//
// A namespace depends on another when one of its types extends, implements
// or references a type owned by the other through a method signature, a
// method body or a property declaration. For every namespace the analyzer
// reports the number of concrete, abstract and total classes, afferent and
// efferent coupling, abstractness A = ac/tc, instability I = ce/(ca+ce) and
// the distance from the main sequence D = |A + I - 1|. Traits are not
// counted as classes; interfaces count as abstract classes.
package dependency

import (
	"context"
	"math"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/depgraph"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricTC = "tc"
	MetricCC = "cc"
	MetricAC = "ac"
	MetricCA = "ca"
	MetricCE = "ce"
	MetricA  = "a"
	MetricI  = "i"
	MetricD  = "d"
)

var (
	_ analyzer.NodeAware  = (*Analyzer)(nil)
	_ analyzer.GraphAware = (*Analyzer)(nil)
)

type classCounts struct {
	concrete int
	abstract int
}

// Analyzer computes the namespace dependency graph.
type Analyzer struct {
	analyzer.Base

	graph  *depgraph.Graph
	counts map[ast.ID]*classCounts
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a namespace dependency analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		Base:  analyzer.NewBase(analyzer.KindDependency),
		graph: depgraph.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the graph over namespaces and computes per-namespace
// metrics.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.graph = depgraph.New()
	a.counts = make(map[ast.ID]*classCounts)

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Namespace:
			a.graph.AddNode(n)
			a.count(n)
		case *ast.Type:
			a.visitType(n)
		case *ast.Callable:
			a.visitCallable(n)
		case *ast.Property:
			a.depend(n.DeclaringType(), n.Type())
		}
		return true
	})

	for _, n := range a.graph.Nodes() {
		a.SetAll(n.ID(), a.metrics(n))
	}
	return a.Finish(nil)
}

func (a *Analyzer) count(n *ast.Namespace) *classCounts {
	c, ok := a.counts[n.ID()]
	if !ok {
		c = &classCounts{}
		a.counts[n.ID()] = c
	}
	return c
}

func (a *Analyzer) visitType(t *ast.Type) {
	if t.Namespace() != nil {
		c := a.count(t.Namespace())
		switch {
		case t.Kind() == ast.TypeTrait:
		case t.IsAbstract():
			c.abstract++
		default:
			c.concrete++
		}
	}
	a.depend(t, t.ParentClass())
	for _, i := range t.DeclaredInterfaces() {
		a.depend(t, i)
	}
}

func (a *Analyzer) visitCallable(fn *ast.Callable) {
	owner := fn.Namespace()
	a.dependNamespace(owner, fn.ReturnType())
	for _, t := range fn.ExceptionTypes() {
		a.dependNamespace(owner, t)
	}
	for _, t := range fn.Dependencies() {
		a.dependNamespace(owner, t)
	}
}

func (a *Analyzer) depend(from, to *ast.Type) {
	if from == nil {
		return
	}
	a.dependNamespace(from.Namespace(), to)
}

func (a *Analyzer) dependNamespace(from *ast.Namespace, to *ast.Type) {
	if from == nil || to == nil || to.Namespace() == nil {
		return
	}
	a.graph.AddEdge(from, to.Namespace())
}

func (a *Analyzer) metrics(n ast.Artifact) analyzer.Metrics {
	var cc, ac int
	if c, ok := a.counts[n.ID()]; ok {
		cc, ac = c.concrete, c.abstract
	}
	tc := cc + ac
	ca := len(a.graph.Afferents(n))
	ce := len(a.graph.Efferents(n))

	var abstractness, instability float64
	if tc > 0 {
		abstractness = float64(ac) / float64(tc)
	}
	if ca+ce > 0 {
		instability = float64(ce) / float64(ca+ce)
	}
	return analyzer.Metrics{
		MetricTC: float64(tc),
		MetricCC: float64(cc),
		MetricAC: float64(ac),
		MetricCA: float64(ca),
		MetricCE: float64(ce),
		MetricA:  abstractness,
		MetricI:  instability,
		MetricD:  math.Abs(abstractness + instability - 1),
	}
}

// Afferents returns the namespaces that depend on n.
func (a *Analyzer) Afferents(n ast.Artifact) []ast.Artifact { return a.graph.Afferents(n) }

// Efferents returns the namespaces n depends on.
func (a *Analyzer) Efferents(n ast.Artifact) []ast.Artifact { return a.graph.Efferents(n) }

// Cycle returns the first namespace cycle reachable from n, or nil.
func (a *Analyzer) Cycle(n ast.Artifact) []ast.Artifact { return a.graph.Cycle(n) }

// Cycles returns every group of mutually dependent namespaces.
func (a *Analyzer) Cycles() [][]ast.Artifact { return a.graph.StronglyConnected() }
