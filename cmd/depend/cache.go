package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/depend/internal/cache"
	"github.com/panbanda/depend/internal/output"
	"github.com/panbanda/depend/internal/report"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache statistics",
				Action: runCacheStatsCmd,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cache entry",
				Action: runCacheClearCmd,
			},
		},
	}
}

func openCache(c *cli.Context) (*cache.File, *output.Formatter, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	d, err := cache.New(cfg.Cache.Dir, cfg.CacheTTL(), true)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return nil, nil, err
	}
	return d, formatter, nil
}

func runCacheStatsCmd(c *cli.Context) error {
	d, formatter, err := openCache(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	stats, err := d.GetStats()
	if err != nil {
		return err
	}
	rows := [][]string{
		{"directory", d.Dir()},
		{"entries", report.FormatValue(float64(stats.Entries))},
		{"size (bytes)", report.FormatValue(float64(stats.TotalSize))},
		{"oldest", stats.OldestAge.Round(time.Second).String()},
		{"newest", stats.NewestAge.Round(time.Second).String()},
	}
	return formatter.Output(output.NewTable("Cache", []string{"Property", "Value"}, rows, nil, stats))
}

func runCacheClearCmd(c *cli.Context) error {
	d, formatter, err := openCache(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := d.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	formatter.Success("Cache cleared: %s", d.Dir())
	return nil
}
