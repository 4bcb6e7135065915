package main

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/internal/cache"
	"github.com/panbanda/depend/internal/output"
	"github.com/panbanda/depend/internal/report"
	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/config"
	"github.com/panbanda/depend/pkg/coverage"
	"github.com/panbanda/depend/pkg/engine"
)

// loadConfig reads --config, or the first config in the search path, and
// applies the global flags on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if f := c.String("format"); f != "" {
		cfg.Output.Format = string(output.ParseFormat(f))
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// forestPath returns the single positional forest argument.
func forestPath(c *cli.Context) (string, error) {
	switch c.Args().Len() {
	case 1:
		return c.Args().First(), nil
	case 0:
		return "", cli.Exit("missing forest document argument", 2)
	default:
		return "", cli.Exit(fmt.Sprintf("expected one forest document, got %d", c.Args().Len()), 2)
	}
}

func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
}

// newEngine builds an engine for kinds with the cache and coverage report
// the config names.
func newEngine(cfg *config.Config, kinds []analyzer.Kind, opts ...engine.Option) (*engine.Engine, error) {
	if cfg.Cache.Enabled {
		d, err := cache.New(cfg.Cache.Dir, cfg.CacheTTL(), true)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		opts = append(opts, engine.WithCache(d))
	}
	if cfg.Coverage.Clover != "" {
		opts = append(opts, engine.WithCoverage(coverage.NewClover(cfg.Coverage.Clover)))
	}
	strategies, err := cfg.Strategies()
	if err != nil {
		return nil, err
	}
	if len(strategies) > 0 {
		opts = append(opts, engine.WithCodeRankStrategies(strategies...))
	}
	return engine.New(kinds, opts...)
}

func thresholds(cfg *config.Config) report.Thresholds {
	return report.Thresholds{
		CCN2:  cfg.Thresholds.CCN2,
		NPath: cfg.Thresholds.NPath,
		MI:    cfg.Thresholds.MI,
	}
}

func kindNames(kinds []analyzer.Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// mergeList replaces list with the flag's values when the flag was set.
func mergeList(c *cli.Context, flag string, list []string) []string {
	if !c.IsSet(flag) {
		return list
	}
	return slices.Clone(c.StringSlice(flag))
}
