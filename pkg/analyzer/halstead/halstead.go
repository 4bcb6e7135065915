// Package halstead computes Halstead software science measures from the
// token stream of each callable.
package halstead

import (
	"context"
	"math"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

var _ analyzer.NodeAware = (*Analyzer)(nil)

// Basis holds the four counts every Halstead measure derives from.
type Basis struct {
	DistinctOperators int `json:"n1"`
	DistinctOperands  int `json:"n2"`
	TotalOperators    int `json:"N1"`
	TotalOperands     int `json:"N2"`
}

// Measures are the derived Halstead values.
type Measures struct {
	Length     float64 // hnt
	Vocabulary float64 // hnd
	Volume     float64 // hv
	Difficulty float64 // hd
	Level      float64 // hl
	Effort     float64 // he
	Time       float64 // ht
	Bugs       float64 // hb
	Content    float64 // hi
}

// Analyzer computes Halstead measures for every callable.
type Analyzer struct {
	analyzer.CachingBase

	basis map[ast.ID]Basis
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

// New creates a Halstead analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		CachingBase: analyzer.NewCachingBase(analyzer.KindHalstead, "halstead-basis", nil),
		basis:       make(map[ast.ID]Basis),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the measures of every callable in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.basis = make(map[ast.ID]Basis)

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
	var b Basis
	if !a.Restore(fn, &b) {
		b = Classify(fn.Tokens()).Basis()
		a.Store(fn, b)
	}
	a.basis[fn.ID()] = b
	a.SetAll(fn.ID(), b.Metrics())
}

// Basis returns the counts recorded for a callable.
func (a *Analyzer) Basis(n ast.Artifact) (Basis, bool) {
	if n == nil {
		return Basis{}, false
	}
	b, ok := a.basis[n.ID()]
	return b, ok
}

// Volume returns the Halstead volume of a callable, or 0 if it was not
// analyzed.
func (a *Analyzer) Volume(n ast.Artifact) float64 {
	b, _ := a.Basis(n)
	return b.Measures().Volume
}

// Measures derives the Halstead measures from b. Zero divisors are replaced
// by 1.
func (b Basis) Measures() Measures {
	var m Measures
	m.Length = float64(b.TotalOperators + b.TotalOperands)
	m.Vocabulary = float64(b.DistinctOperators + b.DistinctOperands)
	if m.Vocabulary > 0 {
		m.Volume = m.Length * math.Log2(m.Vocabulary)
	}
	m.Difficulty = (float64(b.DistinctOperators) / 2) *
		(float64(b.TotalOperators) / float64(orOne(b.DistinctOperands)))
	m.Level = 1 / orOneF(m.Difficulty)
	m.Effort = m.Volume * m.Difficulty
	m.Time = m.Effort / 18
	m.Bugs = math.Pow(m.Effort, 2.0/3.0) / 3000
	m.Content = m.Volume / orOneF(m.Difficulty)
	return m
}

// Metrics returns the basis counts and the derived measures under their
// metric names.
func (b Basis) Metrics() analyzer.Metrics {
	m := b.Measures()
	return analyzer.Metrics{
		"n1":  float64(b.DistinctOperators),
		"n2":  float64(b.DistinctOperands),
		"N1":  float64(b.TotalOperators),
		"N2":  float64(b.TotalOperands),
		"hnt": m.Length,
		"hnd": m.Vocabulary,
		"hv":  m.Volume,
		"hd":  m.Difficulty,
		"hl":  m.Level,
		"he":  m.Effort,
		"ht":  m.Time,
		"hb":  m.Bugs,
		"hi":  m.Content,
	}
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func orOneF(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}
