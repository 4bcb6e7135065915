// Package classdependency builds the type-level dependency graph: a type
// depends on its parent class, its declared interfaces, the types its
// methods return, throw or reference and the declared types of its
// properties.
package classdependency

import (
	"context"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/depgraph"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricCA = "ca"
	MetricCE = "ce"
)

var (
	_ analyzer.NodeAware  = (*Analyzer)(nil)
	_ analyzer.GraphAware = (*Analyzer)(nil)
)

// Analyzer computes the type dependency graph.
type Analyzer struct {
	analyzer.Base

	graph *depgraph.Graph
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a type dependency analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		Base:  analyzer.NewBase(analyzer.KindClassDependency),
		graph: depgraph.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze builds the graph over the types declared in namespaces.
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
			a.depend(n, n.ParentClass())
			for _, i := range n.DeclaredInterfaces() {
				a.depend(n, i)
			}
			return true
		case *ast.Callable:
			if !n.IsMethod() {
				return false
			}
			a.depend(n.Parent(), n.ReturnType())
			for _, t := range n.ExceptionTypes() {
				a.depend(n.Parent(), t)
			}
			for _, t := range n.Dependencies() {
				a.depend(n.Parent(), t)
			}
		case *ast.Property:
			a.depend(n.DeclaringType(), n.Type())
		}
		return false
	})

	for _, n := range a.graph.Nodes() {
		a.Set(n.ID(), MetricCA, float64(len(a.graph.Afferents(n))))
		a.Set(n.ID(), MetricCE, float64(len(a.graph.Efferents(n))))
	}
	return a.Finish(nil)
}

func (a *Analyzer) depend(from, to *ast.Type) {
	if from == nil || to == nil {
		return
	}
	a.graph.AddEdge(from, to)
}

// Afferents returns the types that depend on t.
func (a *Analyzer) Afferents(t ast.Artifact) []ast.Artifact { return a.graph.Afferents(t) }

// Efferents returns the types t depends on.
func (a *Analyzer) Efferents(t ast.Artifact) []ast.Artifact { return a.graph.Efferents(t) }

// Cycle returns the first type cycle reachable from t, or nil.
func (a *Analyzer) Cycle(t ast.Artifact) []ast.Artifact { return a.graph.Cycle(t) }

// Cycles returns every group of mutually dependent types.
func (a *Analyzer) Cycles() [][]ast.Artifact { return a.graph.StronglyConnected() }
