package engine

import (
	"slices"
	"strings"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
)

// ArtifactResult holds the merged metrics of one artifact.
type ArtifactResult struct {
	Artifact ast.Artifact
	// Kind is namespace, class, interface, trait, enum, method, function or
	// property.
	Kind    string
	Name    string
	File    string
	Line    int
	Metrics analyzer.Metrics
}

// Results is the merged output of a run.
type Results struct {
	Artifacts []ArtifactResult
	Project   analyzer.Metrics
	// NamespaceCycles and TypeCycles hold each distinct dependency cycle
	// once, as the closed path the cycle search found.
	NamespaceCycles [][]ast.Artifact
	TypeCycles      [][]ast.Artifact
}

// Results collects the metrics of every artifact in namespaces that any
// analyzer reported, in walk order. Metrics are merged in run order; a key
// already set by an earlier analyzer is stored as "<analyzer>.<key>".
func (e *Engine) Results(namespaces []*ast.Namespace) *Results {
	r := &Results{Project: analyzer.Metrics{}}

	ast.WalkNamespaces(inspector(func(a ast.Artifact) {
		m := analyzer.Metrics{}
		for _, k := range e.order {
			if na, ok := e.analyzers[k].(analyzer.NodeAware); ok {
				merge(m, k, na.NodeMetrics(a))
			}
		}
		if len(m) == 0 {
			return
		}
		res := describe(a)
		res.Metrics = m
		r.Artifacts = append(r.Artifacts, res)
	}), namespaces)

	for _, k := range e.order {
		if pa, ok := e.analyzers[k].(analyzer.ProjectAware); ok && analyzer.IsEnabled(pa) {
			merge(r.Project, k, pa.ProjectMetrics())
		}
	}

	if g, ok := e.analyzers[analyzer.KindDependency].(analyzer.GraphAware); ok {
		var nodes []ast.Artifact
		for _, ns := range namespaces {
			nodes = append(nodes, ns)
		}
		r.NamespaceCycles = distinctCycles(g, nodes)
	}
	if g, ok := e.analyzers[analyzer.KindClassDependency].(analyzer.GraphAware); ok {
		var nodes []ast.Artifact
		for _, ns := range namespaces {
			for _, t := range ns.Types() {
				nodes = append(nodes, t)
			}
		}
		r.TypeCycles = distinctCycles(g, nodes)
	}
	return r
}

func merge(dst analyzer.Metrics, kind analyzer.Kind, src analyzer.Metrics) {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, taken := dst[key]; taken {
			dst[string(kind)+"."+key] = src[key]
			continue
		}
		dst[key] = src[key]
	}
}

// distinctCycles trims each node's search path to the cycle it closes and
// keeps one path per set of members.
func distinctCycles(g analyzer.GraphAware, nodes []ast.Artifact) [][]ast.Artifact {
	seen := make(map[string]bool)
	var out [][]ast.Artifact
	for _, n := range nodes {
		path := g.Cycle(n)
		if len(path) == 0 {
			continue
		}
		closing := path[len(path)-1].ID()
		start := slices.IndexFunc(path, func(a ast.Artifact) bool { return a.ID() == closing })
		cycle := path[start:]

		ids := make([]string, 0, len(cycle)-1)
		for _, a := range cycle[:len(cycle)-1] {
			ids = append(ids, a.ID().String())
		}
		slices.Sort(ids)
		key := strings.Join(ids, ",")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, slices.Clone(cycle))
	}
	return out
}

func describe(a ast.Artifact) ArtifactResult {
	res := ArtifactResult{Artifact: a, Name: a.Name()}
	switch a := a.(type) {
	case *ast.Namespace:
		res.Kind = "namespace"
	case *ast.Type:
		res.Kind = a.Kind().String()
		res.Name = a.QualifiedName()
		res.File, res.Line = a.File(), a.StartLine()
	case *ast.Callable:
		res.Kind = a.Kind().String()
		res.Name = a.QualifiedName()
		res.File, res.Line = a.File(), a.StartLine()
	case *ast.Property:
		res.Kind = "property"
		if t := a.DeclaringType(); t != nil {
			res.Name = t.QualifiedName() + "." + a.Name()
			res.File = t.File()
		}
		res.Line = a.Line()
	}
	return res
}

type inspector func(ast.Artifact)

func (f inspector) Visit(a ast.Artifact) ast.Visitor {
	if a == nil {
		return nil
	}
	f(a)
	return f
}
