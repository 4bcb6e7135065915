// Package coupling computes afferent and efferent coupling between types,
// the number of distinct calls per callable and project fanout.
//
// A type couples to the return, exception and dependency types of its
// methods and to the declared types of its properties. Pairs in which one
// side is a subtype of the other are not coupling.
package coupling

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricCA     = "ca"
	MetricCE     = "ce"
	MetricCBO    = "cbo"
	MetricCalls  = "calls"
	MetricFanout = "fanout"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

type couplingSets struct {
	ca *roaring64.Bitmap
	ce *roaring64.Bitmap
}

// Analyzer computes type coupling and call counts.
type Analyzer struct {
	analyzer.Base

	sets   map[ast.ID]*couplingSets
	order  []ast.ID
	calls  int
	fanout int
	err    error
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a coupling analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindCoupling)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes coupling for every type in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.sets = make(map[ast.ID]*couplingSets)
	a.order = nil
	a.calls, a.fanout, a.err = 0, 0, nil

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		if a.err != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.Type:
			a.init(n)
		case *ast.Callable:
			if n.IsMethod() {
				a.visitMethod(n)
			} else {
				a.visitFunction(n)
			}
		case *ast.Property:
			a.couple(n.DeclaringType(), n.Type())
		}
		return true
	})
	if a.err != nil {
		return a.Finish(a.err)
	}

	for _, id := range a.order {
		s := a.sets[id]
		ce := float64(s.ce.GetCardinality())
		a.Set(id, MetricCA, float64(s.ca.GetCardinality()))
		a.Set(id, MetricCE, ce)
		a.Set(id, MetricCBO, ce)
		a.fanout += int(ce)
	}
	return a.Finish(nil)
}

func (a *Analyzer) init(t *ast.Type) *couplingSets {
	s, ok := a.sets[t.ID()]
	if !ok {
		s = &couplingSets{ca: roaring64.New(), ce: roaring64.New()}
		a.sets[t.ID()] = s
		a.order = append(a.order, t.ID())
	}
	return s
}

func (a *Analyzer) visitMethod(m *ast.Callable) {
	owner := m.Parent()
	a.couple(owner, m.ReturnType())
	for _, t := range m.ExceptionTypes() {
		a.couple(owner, t)
	}
	for _, t := range m.Dependencies() {
		a.couple(owner, t)
	}
	a.countCalls(m)
}

func (a *Analyzer) visitFunction(fn *ast.Callable) {
	var fanouts []*ast.Type
	seen := make(map[ast.ID]bool)
	add := func(t *ast.Type) {
		if t == nil || seen[t.ID()] {
			return
		}
		seen[t.ID()] = true
		fanouts = append(fanouts, t)
	}
	add(fn.ReturnType())
	for _, t := range fn.ExceptionTypes() {
		add(t)
	}
	for _, t := range fn.Dependencies() {
		add(t)
	}

	for _, t := range fanouts {
		a.init(t).ca.Add(uint64(fn.ID()))
	}
	a.fanout += len(fanouts)
	a.Set(fn.ID(), MetricFanout, float64(len(fanouts)))
	a.countCalls(fn)
}

// couple records that owner depends on coupled unless either is a subtype
// of the other.
func (a *Analyzer) couple(owner, coupled *ast.Type) {
	if owner == nil {
		return
	}
	from := a.init(owner)
	if coupled == nil {
		return
	}

	sub, err := coupled.IsSubtypeOf(owner)
	if err == nil && !sub {
		sub, err = owner.IsSubtypeOf(coupled)
	}
	if err != nil {
		a.err = fmt.Errorf("coupling %s -> %s: %w", owner.QualifiedName(), coupled.QualifiedName(), err)
		return
	}
	if sub {
		return
	}

	to := a.init(coupled)
	from.ce.Add(uint64(coupled.ID()))
	to.ca.Add(uint64(owner.ID()))
}

func (a *Analyzer) countCalls(fn *ast.Callable) {
	n := CountCalls(fn.Body())
	a.calls += n
	a.Set(fn.ID(), MetricCalls, float64(n))
}

// CountCalls returns the number of distinct call signatures in body. The
// signature of an invocation is the first child image of each enclosing
// member prefix, outermost first, followed by the invoked name.
func CountCalls(body *ast.Node) int {
	if body == nil {
		return 0
	}
	invoked := make(map[string]struct{})
	for _, inv := range body.FindChildrenOfKind(ast.NodeInvocation, nil) {
		var sig string
		for _, prefix := range inv.ParentsOfKind(ast.NodeMemberPrefix) {
			if child := prefix.Child(0); child != nil && child != inv {
				sig += child.Image + "."
			}
		}
		sig += inv.Image
		invoked[sig] = struct{}{}
	}
	return len(invoked)
}

// ProjectMetrics returns the total calls and fanout.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	return analyzer.Metrics{
		MetricCalls:  float64(a.calls),
		MetricFanout: float64(a.fanout),
	}
}
