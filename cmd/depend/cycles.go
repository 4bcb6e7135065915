package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/internal/output"
	"github.com/panbanda/depend/internal/report"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/forest"
)

// cycleReport is the structured output of the cycles command.
type cycleReport struct {
	NamespaceCycles [][]string `json:"namespace_cycles" yaml:"namespace_cycles" toon:"namespace_cycles"`
	TypeCycles      [][]string `json:"type_cycles" yaml:"type_cycles" toon:"type_cycles"`
}

func cyclesCmd() *cli.Command {
	return &cli.Command{
		Name:      "cycles",
		Usage:     "List namespace and type dependency cycles",
		ArgsUsage: "<forest.json>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail",
				Usage: "Exit with status 3 when a cycle exists",
			},
		},
		Action: runCyclesCmd,
	}
}

func runCyclesCmd(c *cli.Context) error {
	path, err := forestPath(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	namespaces, err := forest.DecodeFile(path)
	if err != nil {
		return err
	}

	e, err := newEngine(cfg, []analyzer.Kind{analyzer.KindDependency, analyzer.KindClassDependency})
	if err != nil {
		return err
	}
	if err := e.Run(c.Context, namespaces); err != nil {
		return err
	}
	doc := report.NewDocument(report.Metadata{Source: path}, e.Results(namespaces))
	data := cycleReport{NamespaceCycles: doc.NamespaceCycles, TypeCycles: doc.TypeCycles}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	built := report.Build(doc, report.Thresholds{})
	sections := built.Sections[len(built.Sections)-2:]
	if err := formatter.Output(&output.Report{Title: "Dependency cycles", Sections: sections, Data: data}); err != nil {
		return err
	}

	if n := len(data.NamespaceCycles) + len(data.TypeCycles); n > 0 && c.Bool("fail") {
		return cli.Exit(fmt.Sprintf("%d dependency cycles found", n), 3)
	}
	return nil
}
