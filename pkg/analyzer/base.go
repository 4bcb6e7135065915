package analyzer

import (
	"context"

	"github.com/panbanda/depend/pkg/ast"
)

// Base carries the state shared by every analyzer. Embed it and call Begin
// at the top of Analyze and Finish at the end.
type Base struct {
	kind      Kind
	done      bool
	metrics   map[ast.ID]Metrics
	listeners []Listener
}

// NewBase creates a Base for the given kind.
func NewBase(kind Kind) Base {
	return Base{kind: kind, metrics: make(map[ast.ID]Metrics)}
}

// Kind returns the analyzer kind.
func (b *Base) Kind() Kind { return b.kind }

// AddListener registers a lifecycle listener.
func (b *Base) AddListener(l Listener) {
	b.listeners = append(b.listeners, l)
}

// Done reports whether a pass completed.
func (b *Base) Done() bool { return b.done }

// Begin starts a pass. It returns false when a pass already ran on this
// instance, and an error when ctx is already cancelled.
func (b *Base) Begin(ctx context.Context) (bool, error) {
	if b.done {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.done = true
	b.metrics = make(map[ast.ID]Metrics)
	for _, l := range b.listeners {
		l.StartAnalyzer(b.kind)
	}
	return true, nil
}

// Finish ends the pass started by Begin. A failed pass drops its partial
// results so that a later call runs again.
func (b *Base) Finish(err error) error {
	if err != nil {
		b.done = false
		b.metrics = make(map[ast.ID]Metrics)
		return err
	}
	for _, l := range b.listeners {
		l.EndAnalyzer(b.kind)
	}
	return nil
}

// Set records one metric for an artifact.
func (b *Base) Set(id ast.ID, key string, value float64) {
	m, ok := b.metrics[id]
	if !ok {
		m = make(Metrics)
		b.metrics[id] = m
	}
	m[key] = value
}

// SetAll records several metrics for an artifact.
func (b *Base) SetAll(id ast.ID, values Metrics) {
	for k, v := range values {
		b.Set(id, k, v)
	}
}

// Metric returns one recorded metric.
func (b *Base) Metric(id ast.ID, key string) (float64, bool) {
	v, ok := b.metrics[id][key]
	return v, ok
}

// Has reports whether any metric was recorded for id.
func (b *Base) Has(id ast.ID) bool {
	_, ok := b.metrics[id]
	return ok
}

// NodeMetrics returns a copy of the metrics recorded for a.
func (b *Base) NodeMetrics(a ast.Artifact) Metrics {
	if a == nil {
		return Metrics{}
	}
	return b.metrics[a.ID()].Clone()
}

// Walk traverses namespaces with v in declaration order, reporting every
// visited artifact to the listeners.
func (b *Base) Walk(v ast.Visitor, namespaces []*ast.Namespace) {
	ast.WalkNamespaces(&listening{base: b, v: v}, namespaces)
}

// Inspect is Walk for a function; f returning false prunes the artifact's
// children.
func (b *Base) Inspect(namespaces []*ast.Namespace, f func(ast.Artifact) bool) {
	b.Walk(inspector(f), namespaces)
}

func (b *Base) startVisit(a ast.Artifact) {
	for _, l := range b.listeners {
		l.StartVisit(b.kind, a)
	}
}

func (b *Base) endVisit(a ast.Artifact) {
	for _, l := range b.listeners {
		l.EndVisit(b.kind, a)
	}
}

// listening wraps a visitor and brackets each artifact between StartVisit
// and EndVisit. owner is the artifact whose children it visits.
type listening struct {
	base  *Base
	v     ast.Visitor
	owner ast.Artifact
}

func (l *listening) Visit(a ast.Artifact) ast.Visitor {
	if a == nil {
		l.v.Visit(nil)
		if l.owner != nil {
			l.base.endVisit(l.owner)
		}
		return nil
	}
	l.base.startVisit(a)
	w := l.v.Visit(a)
	if w == nil {
		l.base.endVisit(a)
		return nil
	}
	return &listening{base: l.base, v: w, owner: a}
}

type inspector func(ast.Artifact) bool

func (f inspector) Visit(a ast.Artifact) ast.Visitor {
	if a == nil {
		return nil
	}
	if f(a) {
		return f
	}
	return nil
}
