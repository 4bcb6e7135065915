package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/internal/output"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/engine"
)

var analyzerUsage = map[analyzer.Kind]string{
	analyzer.KindCCN:             "Cyclomatic complexity (ccn, ccn2)",
	analyzer.KindNPath:           "Acyclic execution paths (npath)",
	analyzer.KindHalstead:        "Halstead measures (n1, n2, N1, N2, hv, hd, he, ...)",
	analyzer.KindLOC:             "Lines of code (loc, cloc, eloc, lloc, ncloc)",
	analyzer.KindMaintainability: "Maintainability index (mi)",
	analyzer.KindCRAP:            "Change risk anti-patterns (cov, crap); needs a coverage report",
	analyzer.KindCoupling:        "Class coupling and call fan-out (ca, cbo, ce, calls, fanout)",
	analyzer.KindCohesion:        "Lack of cohesion in methods (lcom4)",
	analyzer.KindClassLevel:      "Class size and complexity (cis, csz, impl, vars, wmc, ...)",
	analyzer.KindDependency:      "Namespace dependencies (ca, ce, a, i, d)",
	analyzer.KindClassDependency: "Type dependencies (ca, ce)",
	analyzer.KindInheritance:     "Inheritance depth and overrides (dit, noam, noom, nocc, andc, ahh)",
	analyzer.KindHierarchy:       "Class hierarchy counts (clsa, clsc, roots, leafs, noc)",
	analyzer.KindNodeCount:       "Artifact counts (nop, noc, noi, nom, nof)",
	analyzer.KindCodeRank:        "CodeRank and reverse CodeRank (cr, rcr)",
}

func analyzersCmd() *cli.Command {
	return &cli.Command{
		Name:   "analyzers",
		Usage:  "List the available analyzers",
		Action: runAnalyzersCmd,
	}
}

type analyzerInfo struct {
	Name     string   `json:"name" yaml:"name" toon:"name"`
	Usage    string   `json:"usage" yaml:"usage" toon:"usage"`
	Requires []string `json:"requires,omitempty" yaml:"requires,omitempty" toon:"requires,omitempty"`
}

func runAnalyzersCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var infos []analyzerInfo
	var rows [][]string
	for _, k := range analyzer.Kinds() {
		info := analyzerInfo{
			Name:     string(k),
			Usage:    analyzerUsage[k],
			Requires: kindNames(engine.Requirements(k)),
		}
		infos = append(infos, info)
		rows = append(rows, []string{info.Name, info.Usage, strings.Join(info.Requires, ", ")})
	}
	return formatter.Output(output.NewTable("Analyzers", []string{"Name", "Metrics", "Requires"}, rows, nil, infos))
}
