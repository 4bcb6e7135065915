package report

import (
	"time"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/ast"
	"github.com/panbanda/depend/pkg/engine"
)

// Metadata contains report generation metadata.
type Metadata struct {
	Source        string    `json:"source" yaml:"source" toon:"source"`
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at" toon:"generated_at"`
	DependVersion string    `json:"depend_version" yaml:"depend_version" toon:"depend_version"`
	Analyzers     []string  `json:"analyzers" yaml:"analyzers" toon:"analyzers"`
}

// Artifact is the serialized form of one analyzed artifact.
type Artifact struct {
	Kind    string           `json:"kind" yaml:"kind" toon:"kind"`
	Name    string           `json:"name" yaml:"name" toon:"name"`
	File    string           `json:"file,omitempty" yaml:"file,omitempty" toon:"file,omitempty"`
	Line    int              `json:"line,omitempty" yaml:"line,omitempty" toon:"line,omitempty"`
	Metrics analyzer.Metrics `json:"metrics" yaml:"metrics" toon:"metrics"`
}

// Document is the serialized result of a run.
type Document struct {
	Metadata        Metadata         `json:"metadata" yaml:"metadata" toon:"metadata"`
	Project         analyzer.Metrics `json:"project" yaml:"project" toon:"project"`
	Artifacts       []Artifact       `json:"artifacts" yaml:"artifacts" toon:"artifacts"`
	NamespaceCycles [][]string       `json:"namespace_cycles,omitempty" yaml:"namespace_cycles,omitempty" toon:"namespace_cycles,omitempty"`
	TypeCycles      [][]string       `json:"type_cycles,omitempty" yaml:"type_cycles,omitempty" toon:"type_cycles,omitempty"`
}

// Artifact groups, in report order.
const (
	GroupNamespaces = "Namespaces"
	GroupTypes      = "Types"
	GroupCallables  = "Callables"
	GroupProperties = "Properties"
)

// Group returns the report group of an artifact kind.
func Group(kind string) string {
	switch kind {
	case "namespace":
		return GroupNamespaces
	case "method", "function":
		return GroupCallables
	case "property":
		return GroupProperties
	default:
		return GroupTypes
	}
}

// NewDocument converts engine results.
func NewDocument(meta Metadata, r *engine.Results) *Document {
	doc := &Document{
		Metadata: meta,
		Project:  r.Project,
	}
	if doc.Project == nil {
		doc.Project = analyzer.Metrics{}
	}
	doc.Artifacts = make([]Artifact, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		doc.Artifacts = append(doc.Artifacts, Artifact{
			Kind:    a.Kind,
			Name:    a.Name,
			File:    a.File,
			Line:    a.Line,
			Metrics: a.Metrics,
		})
	}
	doc.NamespaceCycles = cycleNames(r.NamespaceCycles)
	doc.TypeCycles = cycleNames(r.TypeCycles)
	return doc
}

// Select returns the artifacts of one group.
func (d *Document) Select(group string) []Artifact {
	var out []Artifact
	for _, a := range d.Artifacts {
		if Group(a.Kind) == group {
			out = append(out, a)
		}
	}
	return out
}

func cycleNames(cycles [][]ast.Artifact) [][]string {
	if len(cycles) == 0 {
		return nil
	}
	out := make([][]string, len(cycles))
	for i, c := range cycles {
		names := make([]string, len(c))
		for j, a := range c {
			names[j] = label(a)
		}
		out[i] = names
	}
	return out
}

func label(a ast.Artifact) string {
	switch a := a.(type) {
	case *ast.Type:
		return a.QualifiedName()
	case *ast.Callable:
		return a.QualifiedName()
	default:
		return a.Name()
	}
}

// Thresholds are the limits above which ccn2 and npath are flagged, and
// below which mi is flagged. A zero limit disables its check.
type Thresholds struct {
	CCN2  int
	NPath int
	MI    float64
}

// Exceeds reports whether value of metric crosses its threshold.
func (t Thresholds) Exceeds(metric string, value float64) bool {
	switch metric {
	case "ccn2":
		return t.CCN2 > 0 && value > float64(t.CCN2)
	case "npath":
		return t.NPath > 0 && value > float64(t.NPath)
	case "mi":
		return t.MI > 0 && value < t.MI
	default:
		return false
	}
}
