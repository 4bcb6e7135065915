// Package nodecount counts the artifacts of each namespace and of the
// whole project.
package nodecount

import (
	"context"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricNOP = "nop"
	MetricNOC = "noc"
	MetricNOI = "noi"
	MetricNOM = "nom"
	MetricNOF = "nof"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

// Analyzer counts namespaces, classes, interfaces, methods and functions.
// Traits and enums count as classes.
type Analyzer struct {
	analyzer.Base

	project analyzer.Metrics
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a node count analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindNodeCount)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze counts the artifacts in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.project = analyzer.Metrics{MetricNOP: 0, MetricNOC: 0, MetricNOI: 0, MetricNOM: 0, MetricNOF: 0}

	for _, ns := range namespaces {
		a.Set(ns.ID(), MetricNOC, 0)
		a.Set(ns.ID(), MetricNOI, 0)
		a.Set(ns.ID(), MetricNOM, 0)
		a.Set(ns.ID(), MetricNOF, 0)
	}
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Namespace:
			a.project[MetricNOP]++
		case *ast.Type:
			key := MetricNOC
			if n.IsInterface() {
				key = MetricNOI
			}
			a.add(n.Namespace(), key)
			a.Set(n.ID(), MetricNOM, float64(len(n.Methods())))
		case *ast.Callable:
			if n.IsMethod() {
				a.add(n.Namespace(), MetricNOM)
			} else {
				a.add(n.Namespace(), MetricNOF)
			}
		}
		return true
	})
	return a.Finish(nil)
}

func (a *Analyzer) add(ns *ast.Namespace, key string) {
	a.project[key]++
	if ns == nil {
		return
	}
	v, _ := a.Metric(ns.ID(), key)
	a.Set(ns.ID(), key, v+1)
}

// ProjectMetrics returns the project totals.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	return a.project.Clone()
}
