// Package classlevel computes size and weighted-complexity metrics of
// classes, traits and enums.
package classlevel

import (
	"context"
	"fmt"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/ccn"
	"github.com/panbanda/depend/pkg/ast"
)

// Metric names.
const (
	MetricIMPL   = "impl"   // implemented interfaces, transitively
	MetricCIS    = "cis"    // public methods plus public properties
	MetricCSZ    = "csz"    // methods plus properties
	MetricNPM    = "npm"    // public methods
	MetricVARS   = "vars"   // declared properties
	MetricVARSI  = "varsi"  // declared plus inherited non-private properties
	MetricVARSNP = "varsnp" // declared non-private properties
	MetricWMC    = "wmc"    // sum of ccn2 over declared methods
	MetricWMCI   = "wmci"   // wmc plus inherited non-private methods
	MetricWMCNP  = "wmcnp"  // sum of ccn2 over declared non-private methods
)

var _ analyzer.NodeAware = (*Analyzer)(nil)

// Analyzer computes class-level metrics.
type Analyzer struct {
	analyzer.Base

	ccn *ccn.Analyzer
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithListener registers a lifecycle listener.
func WithListener(l analyzer.Listener) Option {
	return func(a *Analyzer) {
		a.AddListener(l)
	}
}

// New creates a class-level analyzer that weights methods by c.
func New(c *ccn.Analyzer, opts ...Option) *Analyzer {
	a := &Analyzer{Base: analyzer.NewBase(analyzer.KindClassLevel), ccn: c}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze computes the metrics of every non-interface type in namespaces.
func (a *Analyzer) Analyze(ctx context.Context, namespaces []*ast.Namespace) error {
	if err := analyzer.RequireAll(ctx, analyzer.KindClassLevel, namespaces,
		analyzer.Dep(analyzer.KindCCN, a.ccn)); err != nil {
		return err
	}
	ok, err := a.Begin(ctx)
	if !ok || err != nil {
		return err
	}

	var visitErr error
	a.Inspect(namespaces, func(n ast.Artifact) bool {
		if visitErr != nil {
			return false
		}
		switch n := n.(type) {
		case *ast.Namespace:
			return true
		case *ast.Type:
			if n.IsInterface() {
				return false
			}
			m, err := a.measure(n)
			if err != nil {
				visitErr = fmt.Errorf("class level metrics of %s: %w", n.QualifiedName(), err)
				return false
			}
			a.SetAll(n.ID(), m)
		}
		return false
	})
	return a.Finish(visitErr)
}

func (a *Analyzer) measure(t *ast.Type) (analyzer.Metrics, error) {
	interfaces, err := t.Interfaces()
	if err != nil {
		return nil, err
	}
	allMethods, err := t.AllMethods()
	if err != nil {
		return nil, err
	}
	allProperties, err := t.AllProperties()
	if err != nil {
		return nil, err
	}

	var npm, wmc, wmcnp int
	for _, m := range t.Methods() {
		c := a.ccn.CCN2(m)
		wmc += c
		if m.IsPublic() {
			npm++
		}
		if !m.IsPrivate() {
			wmcnp += c
		}
	}

	wmci := wmc
	for _, m := range allMethods {
		if m.Parent() != t && !m.IsPrivate() {
			wmci += a.ccn.CCN2(m)
		}
	}

	varsnp, cis := 0, npm
	for _, p := range t.Properties() {
		if !p.IsPrivate() {
			varsnp++
		}
		if p.IsPublic() {
			cis++
		}
	}
	varsi := len(t.Properties())
	for _, p := range allProperties {
		if p.DeclaringType() != t && !p.IsPrivate() {
			varsi++
		}
	}

	return analyzer.Metrics{
		MetricIMPL:   float64(len(interfaces)),
		MetricCIS:    float64(cis),
		MetricCSZ:    float64(len(t.Methods()) + len(t.Properties())),
		MetricNPM:    float64(npm),
		MetricVARS:   float64(len(t.Properties())),
		MetricVARSI:  float64(varsi),
		MetricVARSNP: float64(varsnp),
		MetricWMC:    float64(wmc),
		MetricWMCI:   float64(wmci),
		MetricWMCNP:  float64(wmcnp),
	}, nil
}
