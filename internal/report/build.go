package report

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/depend/internal/output"
)

// Build lays a document out as a summary, one table per artifact group and
// the dependency cycles.
func Build(doc *Document, th Thresholds) *output.Report {
	r := &output.Report{Title: "depend", Data: doc}

	summary := &output.Section{Title: "Summary"}
	for _, k := range sortedKeys(doc.Project) {
		summary.Lines = append(summary.Lines, k+": "+FormatValue(doc.Project[k]))
	}
	r.Sections = append(r.Sections, summary)

	for _, g := range []string{GroupNamespaces, GroupTypes, GroupCallables, GroupProperties} {
		arts := doc.Select(g)
		if len(arts) == 0 {
			continue
		}
		r.Sections = append(r.Sections, table(g, arts, th))
	}

	r.Sections = append(r.Sections,
		cycleSection("Namespace cycles", doc.NamespaceCycles),
		cycleSection("Type cycles", doc.TypeCycles),
	)
	return r
}

func table(title string, arts []Artifact, th Thresholds) *output.Table {
	var columns []string
	seen := make(map[string]bool)
	for _, a := range arts {
		for k := range a.Metrics {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	slices.Sort(columns)

	headers := append([]string{"Name", "Kind", "Location"}, columns...)
	t := output.NewTable(title, headers, nil, nil, arts)
	for i, a := range arts {
		row := []string{a.Name, a.Kind, location(a)}
		for j, c := range columns {
			v, ok := a.Metrics[c]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, FormatValue(v))
			if th.Exceeds(c, v) {
				t.Flag(i, 3+j)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func location(a Artifact) string {
	if a.File == "" {
		return ""
	}
	if a.Line == 0 {
		return a.File
	}
	return a.File + ":" + strconv.Itoa(a.Line)
}

func cycleSection(title string, cycles [][]string) *output.Section {
	s := &output.Section{Title: title, Data: cycles}
	for _, c := range cycles {
		s.Lines = append(s.Lines, strings.Join(c, " -> "))
	}
	return s
}

var printer = message.NewPrinter(language.English)

// FormatValue prints integral values with digit grouping and everything
// else with two decimals.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return strconv.FormatFloat(v, 'f', -1, 64)
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return printer.Sprintf("%d", int64(v))
	default:
		return printer.Sprintf("%.2f", v)
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
