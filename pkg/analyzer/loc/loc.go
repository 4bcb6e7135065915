// Package loc counts lines of code for types and callables:
//
//	loc    lines spanned by the declaration
//	cloc   lines holding comments
//	eloc   lines holding code and no comment
//	lloc   logical lines: statements and control structures
//	ncloc  loc - cloc
//
// Counts for callables and types cover the tokens from the first opening
// curly brace on, so signatures do not count as executable lines.
package loc

import (
	"context"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

const (
	MetricLOC   = "loc"
	MetricCLOC  = "cloc"
	MetricELOC  = "eloc"
	MetricLLOC  = "lloc"
	MetricNCLOC = "ncloc"
)

var (
	_ analyzer.NodeAware    = (*Analyzer)(nil)
	_ analyzer.ProjectAware = (*Analyzer)(nil)
)

// Counts are the line counts of one artifact.
type Counts struct {
	LOC   int `json:"loc"`
	CLOC  int `json:"cloc"`
	ELOC  int `json:"eloc"`
	LLOC  int `json:"lloc"`
	NCLOC int `json:"ncloc"`
}

func (c Counts) add(o Counts) Counts {
	return Counts{
		LOC:   c.LOC + o.LOC,
		CLOC:  c.CLOC + o.CLOC,
		ELOC:  c.ELOC + o.ELOC,
		LLOC:  c.LLOC + o.LLOC,
		NCLOC: c.NCLOC + o.NCLOC,
	}
}

func (c Counts) metrics() analyzer.Metrics {
	return analyzer.Metrics{
		MetricLOC:   float64(c.LOC),
		MetricCLOC:  float64(c.CLOC),
		MetricELOC:  float64(c.ELOC),
		MetricLLOC:  float64(c.LLOC),
		MetricNCLOC: float64(c.NCLOC),
	}
}

// Analyzer counts lines for every type and callable.
type Analyzer struct {
	analyzer.Base

	project Counts
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a lines-of-code analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindLOC)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze counts lines for every type and callable in namespaces. Project
// totals sum top-level types and functions; methods are already inside
// their type.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}
	a.project = Counts{}

	a.Inspect(namespaces, func(n ast.Artifact) bool {
		switch n := n.(type) {
		case *ast.Type:
			c := Count(n.StartLine(), n.EndLine(), n.Tokens())
			a.SetAll(n.ID(), c.metrics())
			a.project = a.project.add(c)
		case *ast.Callable:
			c := Count(n.StartLine(), n.EndLine(), n.Tokens())
			a.SetAll(n.ID(), c.metrics())
			if !n.IsMethod() {
				a.project = a.project.add(c)
			}
		}
		return true
	})
	return a.Finish(nil)
}

// ELOC returns the executable lines of an artifact, or 0 if it was not
// analyzed.
func (a *Analyzer) ELOC(n ast.Artifact) int {
	if n == nil {
		return 0
	}
	v, _ := a.Metric(n.ID(), MetricELOC)
	return int(v)
}

// ProjectMetrics returns the summed counts.
func (a *Analyzer) ProjectMetrics() analyzer.Metrics {
	return a.project.metrics()
}

// Count computes the line counts of a declaration spanning start..end with
// the given tokens.
func Count(start, end int, tokens []ast.Token) Counts {
	var c Counts
	if end >= start && start > 0 {
		c.LOC = end - start + 1
	}

	i := 0
	for i < len(tokens) && tokens[i].Kind != ast.TokenOpenCurly {
		i++
	}
	if i == len(tokens) {
		i = 0
	}

	comments := make(map[int]bool)
	code := make(map[int]bool)
	depth, forDepth := 0, -1
	for _, tok := range tokens[i:] {
		lines := code
		if tok.Kind.IsComment() {
			lines = comments
		}
		for l := tok.StartLine; l <= max(tok.StartLine, tok.EndLine); l++ {
			lines[l] = true
		}

		switch tok.Kind {
		case ast.TokenOpenParen:
			depth++
		case ast.TokenCloseParen:
			depth--
			if depth == forDepth {
				forDepth = -1
			}
		case ast.TokenSemicolon:
			// separators inside a for header are not statements
			if forDepth < 0 {
				c.LLOC++
			}
		case ast.TokenFor:
			c.LLOC++
			forDepth = depth
		case ast.TokenIf, ast.TokenElseIf, ast.TokenElse, ast.TokenForeach, ast.TokenWhile,
			ast.TokenDo, ast.TokenSwitch, ast.TokenCase, ast.TokenDefault,
			ast.TokenTry, ast.TokenCatch, ast.TokenFinally:
			c.LLOC++
		}
	}

	c.CLOC = len(comments)
	for l := range code {
		if !comments[l] {
			c.ELOC++
		}
	}
	c.NCLOC = max(c.LOC-c.CLOC, 0)
	return c
}
