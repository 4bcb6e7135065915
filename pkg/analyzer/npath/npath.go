// Package npath computes the NPath complexity of callables: the number of
// acyclic execution paths through a body.
//
// Each statement contributes a factor to an accumulator that starts at 1.
// Nested statement bodies are evaluated with a fresh accumulator and folded
// back in as additive terms. Values are exact and may exceed any fixed
// width; the float64 metric is an approximation of NPath.
package npath

import (
	"context"
	"math/big"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const MetricNPath = "npath"

var _ analyzer.NodeAware = (*Analyzer)(nil)

// Analyzer computes NPath for every callable.
type Analyzer struct {
	analyzer.CachingBase

	exact map[ast.ID]*big.Int
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

// New creates an NPath analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		CachingBase: analyzer.NewCachingBase(analyzer.KindNPath, "npath", nil),
		exact:       make(map[ast.ID]*big.Int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes NPath for every callable in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.exact = make(map[ast.ID]*big.Int)

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
	var cached string
	value, ok := new(big.Int), false
	if a.Restore(fn, &cached) {
		_, ok = value.SetString(cached, 10)
	}
	if !ok {
		value = Calculate(fn.Body())
		a.Store(fn, value.String())
	}
	a.exact[fn.ID()] = value
	f, _ := new(big.Float).SetInt(value).Float64()
	a.Set(fn.ID(), MetricNPath, f)
}

// NPath returns the exact complexity of a callable, or nil if it was not
// analyzed.
func (a *Analyzer) NPath(n ast.Artifact) *big.Int {
	if n == nil {
		return nil
	}
	v, ok := a.exact[n.ID()]
	if !ok {
		return nil
	}
	return new(big.Int).Set(v)
}

// Calculate returns the NPath of a callable body. A nil body has NPath 1.
func Calculate(body *ast.Node) *big.Int {
	one := big.NewInt(1)
	if body == nil {
		return one
	}
	return visit(body, one)
}

// visit folds n into the accumulator acc and returns the new accumulator.
func visit(n *ast.Node, acc *big.Int) *big.Int {
	switch n.Kind {
	case ast.NodeIf, ast.NodeElseIf:
		return mul(visitIf(n), acc)
	case ast.NodeFor:
		return mul(visitFor(n), acc)
	case ast.NodeForeach:
		return mul(visitForeach(n), acc)
	case ast.NodeWhile:
		return mul(visitWhile(n), acc)
	case ast.NodeDoWhile:
		return mul(visitDoWhile(n), acc)
	case ast.NodeSwitch:
		return mul(visitSwitch(n), acc)
	case ast.NodeTry:
		return mul(visitTry(n), acc)
	case ast.NodeConditional:
		return mul(visitConditional(n), acc)
	case ast.NodeReturn:
		return mul(visitReturn(n), acc)
	default:
		for _, child := range n.Children() {
			acc = visit(child, acc)
		}
		return acc
	}
}

// body evaluates a nested statement with a fresh accumulator.
func body(n *ast.Node) *big.Int {
	return visit(n, big.NewInt(1))
}

// statements sums the fresh-accumulator values of n's statement children,
// skipping the first skip children.
func statements(n *ast.Node, skip int) *big.Int {
	sum := new(big.Int)
	for i, child := range n.Children() {
		if i < skip || !child.Kind.IsStatement() {
			continue
		}
		sum.Add(sum, body(child))
	}
	return sum
}

func visitIf(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(0))
	np.Add(np, statements(n, 1))
	// The third child is the else branch, which may itself be an elseif.
	if n.Child(2) == nil {
		np.Add(np, big.NewInt(1))
	}
	return np
}

func visitFor(n *ast.Node) *big.Int {
	np := big.NewInt(1)
	for _, child := range n.Children() {
		switch {
		case child.Kind == ast.NodeExpression:
			np.Add(np, sumComplexity(child))
		case child.Kind.IsStatement():
			np.Add(np, body(child))
		}
	}
	return np
}

func visitForeach(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(0))
	np.Add(np, statements(n, 1))
	return np.Add(np, big.NewInt(1))
}

func visitWhile(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(0))
	if stmt := n.Child(1); stmt != nil {
		np.Add(np, body(stmt))
	}
	return np.Add(np, big.NewInt(1))
}

func visitDoWhile(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(1))
	if stmt := n.Child(0); stmt != nil {
		np.Add(np, body(stmt))
	}
	return np.Add(np, big.NewInt(1))
}

func visitSwitch(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(0))
	for _, child := range n.Children()[min(1, len(n.Children())):] {
		if child.Kind == ast.NodeSwitchLabel {
			np.Add(np, body(child))
		}
	}
	return np
}

func visitTry(n *ast.Node) *big.Int {
	return statements(n, 0)
}

func visitConditional(n *ast.Node) *big.Int {
	np := sumComplexity(n.Child(0))
	if len(n.Children()) == 2 {
		np.Mul(np, big.NewInt(2))
	}
	for _, branch := range n.Children()[min(1, len(n.Children())):] {
		np.Add(np, sumComplexity(branch))
	}
	return np.Add(np, big.NewInt(2))
}

func visitReturn(n *ast.Node) *big.Int {
	np := sumComplexity(n)
	if np.Sign() == 0 {
		return np.SetInt64(1)
	}
	return np
}

// sumComplexity is the additive complexity of an expression: a nested
// conditional counts with its own rules, a boolean or logical operator leaf
// counts 1, anything else sums its children.
func sumComplexity(n *ast.Node) *big.Int {
	sum := new(big.Int)
	if n == nil {
		return sum
	}
	switch n.Kind {
	case ast.NodeConditional:
		return visitConditional(n)
	case ast.NodeBooleanAnd, ast.NodeBooleanOr,
		ast.NodeLogicalAnd, ast.NodeLogicalOr, ast.NodeLogicalXor:
		return sum.SetInt64(1)
	default:
		for _, child := range n.Children() {
			sum.Add(sum, sumComplexity(child))
		}
		return sum
	}
}

func mul(x, y *big.Int) *big.Int {
	return new(big.Int).Mul(x, y)
}
