// Package hierarchy counts the shape of the class hierarchy: abstract and
// concrete classes, hierarchy roots and leaves, and the number of children
// of each class.
package hierarchy

import (
	"context"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricNOC = "noc"

	MetricCLSA  = "clsa"
	MetricCLSC  = "clsc"
	MetricRoots = "roots"
	MetricLeafs = "leafs"
	MetricNOI   = "noi"
	MetricNOM   = "nom"
	MetricNOF   = "nof"
	MetricNOP   = "nop"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

type totals struct {
	classes, abstract int
	interfaces        int
	methods           int
	functions         int
	namespaces        int
}

// Analyzer computes hierarchy metrics.
type Analyzer struct {
	analyzer.Base

	totals   totals
	classes  []*ast.Type
	children map[ast.ID]int
	roots    map[ast.ID]bool
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a hierarchy analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindHierarchy)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze walks namespaces and records the hierarchy counts.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.totals = totals{}
	a.classes = nil
	a.children = make(map[ast.ID]int)
	a.roots = make(map[ast.ID]bool)

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Namespace:
			a.totals.namespaces++
		case *ast.Type:
			a.visitType(n)
		case *ast.Callable:
			if n.IsMethod() {
				a.totals.methods++
			} else {
				a.totals.functions++
			}
		}
		return true
	})

	for _, c := range a.classes {
		a.Set(c.ID(), MetricNOC, float64(a.children[c.ID()]))
	}
	return a.Finish(nil)
}

func (a *Analyzer) visitType(t *ast.Type) {
	switch {
	case t.IsInterface():
		a.totals.interfaces++
		return
	case !t.IsClass():
		return
	}
	a.totals.classes++
	if t.IsAbstract() {
		a.totals.abstract++
	}
	a.classes = append(a.classes, t)

	if p := t.ParentClass(); p != nil {
		a.children[p.ID()]++
		if p.IsUserDefined() && p.ParentClass() == nil {
			a.roots[p.ID()] = true
		}
	}
}

// ProjectMetrics returns the project totals. A root is a user-defined class
// without a parent that has at least one child; a leaf is a class without
// children.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	leafs := 0
	for _, c := range a.classes {
		if a.children[c.ID()] == 0 {
			leafs++
		}
	}
	return analyzer.Metrics{
		MetricCLSA:  float64(a.totals.abstract),
		MetricCLSC:  float64(a.totals.classes - a.totals.abstract),
		MetricRoots: float64(len(a.roots)),
		MetricLeafs: float64(leafs),
		MetricNOI:   float64(a.totals.interfaces),
		MetricNOM:   float64(a.totals.methods),
		MetricNOF:   float64(a.totals.functions),
		MetricNOP:   float64(a.totals.namespaces),
	}
}
