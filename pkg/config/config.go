package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/coderank"
	"github.com/panbanda/depend/pkg/logger"
)

// Config holds all configuration options for depend.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Coverage report settings
	Coverage CoverageConfig `koanf:"coverage" toml:"coverage"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	// Thresholds highlighted in text output
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`
}

// AnalysisConfig controls which analyzers run.
type AnalysisConfig struct {
	// Analyzers lists analyzer kinds; empty runs all of them.
	Analyzers          []string `koanf:"analyzers" toml:"analyzers"`
	CodeRankStrategies []string `koanf:"coderank_strategies" toml:"coderank_strategies"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours, 0 keeps entries forever
}

// CoverageConfig points at an optional coverage report.
type CoverageConfig struct {
	Clover string `koanf:"clover" toml:"clover"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, yaml, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// ThresholdConfig defines the values above (or, for mi, below) which a
// metric is flagged.
type ThresholdConfig struct {
	CCN2  int     `koanf:"ccn2" toml:"ccn2"`
	NPath int     `koanf:"npath" toml:"npath"`
	MI    float64 `koanf:"mi" toml:"mi"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			CodeRankStrategies: []string{string(coderank.StrategyInheritance)},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".depend/cache",
			TTL:     0,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
		Thresholds: ThresholdConfig{
			CCN2:  10,
			NPath: 200,
			MI:    50,
		},
	}
}

// Load loads configuration from a file. Values missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SearchPaths returns the candidate config files in lookup order.
func SearchPaths() []string {
	names := []string{
		"depend.toml",
		"depend.yaml",
		"depend.yml",
		"depend.json",
		".depend.toml",
		".depend.yaml",
		".depend.yml",
		".depend.json",
	}
	var paths []string
	for _, dir := range []string{".", ".depend"} {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}

// LoadOrDefault loads the first config found in SearchPaths, or returns the
// defaults.
func LoadOrDefault() *Config {
	cfg, _ := Discover()
	return cfg
}

// Discover is LoadOrDefault that also returns the file the config came
// from, or "" for the defaults. Files that fail to load are skipped.
func Discover() (*Config, string) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("Skipping unreadable config", "path", path, "err", err)
			continue
		}
		return cfg, path
	}
	return DefaultConfig(), ""
}

// Validate checks analyzer names, strategies and the output format.
func (c *Config) Validate() error {
	if _, err := c.AnalyzerKinds(); err != nil {
		return err
	}
	if _, err := c.Strategies(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "text", "json", "yaml", "markdown", "toon":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %d", c.Cache.TTL)
	}
	return nil
}

// AnalyzerKinds parses Analysis.Analyzers.
func (c *Config) AnalyzerKinds() ([]analyzer.Kind, error) {
	kinds := make([]analyzer.Kind, 0, len(c.Analysis.Analyzers))
	for _, name := range c.Analysis.Analyzers {
		k, ok := analyzer.ParseKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown analyzer %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Strategies parses Analysis.CodeRankStrategies.
func (c *Config) Strategies() ([]coderank.Strategy, error) {
	strategies := make([]coderank.Strategy, 0, len(c.Analysis.CodeRankStrategies))
	for _, name := range c.Analysis.CodeRankStrategies {
		s, err := coderank.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Hour
}
