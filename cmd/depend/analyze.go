package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/internal/progress"
	"github.com/panbanda/depend/internal/report"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/config"
	"github.com/panbanda/depend/pkg/engine"
	"github.com/panbanda/depend/pkg/forest"
	"github.com/panbanda/depend/pkg/logger"
	"github.com/panbanda/depend/pkg/watch"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Compute metrics for a code forest",
		ArgsUsage: "<forest.json>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "analyzer",
				Aliases: []string{"a"},
				Usage:   "Analyzer to run (repeatable, default: all)",
			},
			&cli.StringSliceFlag{
				Name:  "coderank-strategy",
				Usage: "CodeRank edge strategy: inheritance, property, method (repeatable)",
			},
			&cli.StringFlag{
				Name:  "coverage-report",
				Usage: "Clover XML coverage report enabling the crap analyzer",
			},
			&cli.StringFlag{
				Name:  "html",
				Usage: "Also write an HTML report to this path",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show analyzer progress on stderr",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-run when the forest or coverage report changes",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	path, err := forestPath(c)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg.Analysis.Analyzers = mergeList(c, "analyzer", cfg.Analysis.Analyzers)
	cfg.Analysis.CodeRankStrategies = mergeList(c, "coderank-strategy", cfg.Analysis.CodeRankStrategies)
	if p := c.String("coverage-report"); p != "" {
		cfg.Coverage.Clover = p
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	kinds, err := cfg.AnalyzerKinds()
	if err != nil {
		return err
	}

	if !c.Bool("watch") {
		return analyzeOnce(c, cfg, path, kinds)
	}

	if err := analyzeOnce(c, cfg, path, kinds); err != nil {
		color.Red("Error: %v", err)
	}
	files := []string{path}
	if cfg.Coverage.Clover != "" {
		files = append(files, cfg.Coverage.Clover)
	}
	w, err := watch.NewWatcher(files, 0)
	if err != nil {
		return err
	}
	defer w.Stop()
	w.SetOutput(os.Stderr)
	w.SetCallback(func(string) {
		if err := analyzeOnce(c, cfg, path, kinds); err != nil {
			color.Red("Error: %v", err)
		}
	})
	if err := w.Start(c.Context); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// analyzeOnce decodes the forest, runs the engine and writes the report.
// Each call builds a fresh engine, so a coverage report is re-read.
func analyzeOnce(c *cli.Context, cfg *config.Config, path string, kinds []analyzer.Kind) error {
	start := time.Now()
	namespaces, err := forest.DecodeFile(path)
	if err != nil {
		return err
	}
	logger.Debug("Decoded forest", "path", path, "namespaces", len(namespaces), "elapsed", time.Since(start))

	var tracker *progress.Tracker
	var opts []engine.Option
	if c.Bool("progress") {
		tracker = progress.NewTracker(os.Stderr)
		opts = append(opts, engine.WithListener(tracker))
	}
	e, err := newEngine(cfg, kinds, opts...)
	if err != nil {
		return err
	}

	for _, k := range e.Order() {
		if analyzer.IsEnabled(e.Analyzer(k)) {
			continue
		}
		if tracker != nil {
			tracker.Skipped(k, "no coverage report")
		} else {
			logger.Info("Skipping analyzer", "analyzer", k, "reason", "no coverage report")
		}
	}

	if err := e.Run(c.Context, namespaces); err != nil {
		var re *engine.RunError
		if tracker != nil && errors.As(err, &re) {
			tracker.Failed(re.Kind, re.Err)
		}
		return err
	}

	doc := report.NewDocument(report.Metadata{
		Source:        path,
		GeneratedAt:   time.Now().UTC(),
		DependVersion: version,
		Analyzers:     kindNames(e.Order()),
	}, e.Results(namespaces))
	th := thresholds(cfg)

	if htmlPath := c.String("html"); htmlPath != "" {
		r, err := report.NewRenderer()
		if err != nil {
			return err
		}
		if err := r.RenderToFile(htmlPath, report.NewRenderData(doc, th)); err != nil {
			return fmt.Errorf("write html report: %w", err)
		}
		if cfg.Output.Verbose {
			color.New(color.FgGreen).Fprintf(os.Stderr, "HTML report written to %s\n", htmlPath)
		}
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	logger.Debug("Analysis finished", "artifacts", len(doc.Artifacts), "elapsed", time.Since(start))
	return formatter.Output(report.Build(doc, th))
}
