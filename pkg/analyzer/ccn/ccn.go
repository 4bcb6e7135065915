// Package ccn computes cyclomatic complexity.
//
// CCN1 starts at 1 per callable and counts each if, elseif, conditional
// expression, loop, catch and non-default switch label. CCN2 additionally
// counts short-circuit boolean and logical and/or operators.
package ccn

import (
	"context"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricCCN  = "ccn"
	MetricCCN2 = "ccn2"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

// Complexity is the pair of counters folded through a callable body.
type Complexity struct {
	CCN  int `json:"ccn"`
	CCN2 int `json:"ccn2"`
}

// Analyzer computes CCN1 and CCN2 for every callable.
type Analyzer struct {
	analyzer.CachingBase

	total Complexity
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithCache restores and stores callable results through d.
func WithCache(d analyzer.CacheDriver) Option {
	return func(a *Analyzer) {
		a.SetCacheDriver(d)
	}
}

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a cyclomatic complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{CachingBase: analyzer.NewCachingBase(analyzer.KindCCN, "ccn", nil)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the complexity of every callable in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.total = Complexity{}

	a.LoadCache()
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		if fn, ok := n.(*ast.Callable); ok {
			a.visitCallable(fn)
		}
		return true
	})
	if err := a.UnloadCache(); err != nil {
		return a.Finish(err)
	}
	return a.Finish(nil)
}

func (a *Analyzer) visitCallable(fn *ast.Callable) {
	var c Complexity
	if !a.Restore(fn, &c) {
		c = Calculate(fn.Body())
		a.Store(fn, c)
	}
	a.Set(fn.ID(), MetricCCN, float64(c.CCN))
	a.Set(fn.ID(), MetricCCN2, float64(c.CCN2))
	a.total.CCN += c.CCN
	a.total.CCN2 += c.CCN2
}

// Calculate folds the decision points of a callable body. A nil body has
// complexity 1.
func Calculate(body *ast.Node) Complexity {
	c := Complexity{CCN: 1, CCN2: 1}
	if body == nil {
		return c
	}
	return count(body, c)
}

func count(n *ast.Node, c Complexity) Complexity {
	switch n.Kind {
	case ast.NodeIf, ast.NodeElseIf, ast.NodeConditional,
		ast.NodeFor, ast.NodeForeach, ast.NodeWhile, ast.NodeDoWhile,
		ast.NodeCatch:
		c.CCN++
		c.CCN2++
	case ast.NodeSwitchLabel:
		if !n.Default {
			c.CCN++
			c.CCN2++
		}
	case ast.NodeBooleanAnd, ast.NodeBooleanOr, ast.NodeLogicalAnd, ast.NodeLogicalOr:
		c.CCN2++
	default:
	}
	for _, child := range n.Children() {
		c = count(child, c)
	}
	return c
}

// CCN returns the CCN1 of a callable, or 0 if it was not analyzed.
func (a *Analyzer) CCN(n ast.Artifact) int {
	if n == nil {
		return 0
	}
	v, _ := a.Metric(n.ID(), MetricCCN)
	return int(v)
}

// CCN2 returns the CCN2 of a callable, or 0 if it was not analyzed.
func (a *Analyzer) CCN2(n ast.Artifact) int {
	if n == nil {
		return 0
	}
	v, _ := a.Metric(n.ID(), MetricCCN2)
	return int(v)
}

// ProjectMetrics returns the sums over all callables.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	return analyzer.Metrics{
		MetricCCN:  float64(a.total.CCN),
		MetricCCN2: float64(a.total.CCN2),
	}
}
