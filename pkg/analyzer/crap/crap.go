// Package crap computes the Change Risk Anti-Patterns index of callables:
// crap = ccn2² · (1 - cov/100)³ + ccn2, where cov is the percentage of the
// callable's statements covered by tests.
package crap

import (
	"context"
	"fmt"
	"math"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/ccn"
	"github.com/panbanda/depend/pkg/ast"
	"github.com/panbanda/depend/pkg/coverage"
)

const (
	MetricCRAP     = "crap"
	MetricCoverage = "cov"
)

var (
	_ analyzer.NodeAware = (*Analyzer)(nil)
	_ analyzer.Enabler   = (*Analyzer)(nil)
)

// Analyzer computes the CRAP index. Without a coverage report it is
// disabled and Analyze does nothing.
type Analyzer struct {
	analyzer.Base

	ccn    *ccn.Analyzer
	report coverage.Report
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a CRAP analyzer. report may be nil.
func New(c *ccn.Analyzer, report coverage.Report, opts ...Option) *Analyzer {
	a := &Analyzer{
		Base:   analyzer.NewBase(analyzer.KindCRAP),
		ccn:    c,
		report: report,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a coverage report was supplied.
func (a *Analyzer) Enabled() bool { return a.report != nil }

// Analyze computes the index of every non-abstract callable.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	if !a.Enabled() {
		return nil
	}
	err := analyzer.RequireAll(ctx, analyzer.KindCRAP, namespaces, analyzer.Dep(analyzer.KindCCN, a.ccn))
	if err != nil {
		return err
	}

	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	if r, ok := a.report.(interface{ Err() error }); ok {
		if err := r.Err(); err != nil {
			return a.Finish(fmt.Errorf("coverage report: %w", err))
		}
	}

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		fn, ok := n.(*ast.Callable)
		if !ok {
			return true
		}
		if fn.IsAbstract() {
			return false
		}
		cov := a.report.Coverage(fn)
		a.Set(fn.ID(), MetricCoverage, cov)
		a.Set(fn.ID(), MetricCRAP, Index(a.ccn.CCN2(fn), cov))
		return false
	})
	return a.Finish(nil)
}

// Index computes the CRAP index for a callable with the given CCN2 and
// coverage percentage.
func Index(ccn2 int, cov float64) float64 {
	c := float64(ccn2)
	return c*c*math.Pow(1-cov/100, 3) + c
}
