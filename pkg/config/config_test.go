package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/analyzer/coderank"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Analysis.Analyzers) != 0 {
		t.Errorf("Analysis.Analyzers = %v, want empty", cfg.Analysis.Analyzers)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be true by default")
	}
	if cfg.Cache.Dir != ".depend/cache" {
		t.Errorf("Cache.Dir = %s, want .depend/cache", cfg.Cache.Dir)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
	if cfg.Thresholds.CCN2 != 10 {
		t.Errorf("Thresholds.CCN2 = %d, want 10", cfg.Thresholds.CCN2)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error: %v", err)
	}

	strategies, err := cfg.Strategies()
	if err != nil {
		t.Fatalf("Strategies() error: %v", err)
	}
	if len(strategies) != 1 || strategies[0] != coderank.StrategyInheritance {
		t.Errorf("Strategies() = %v, want [inheritance]", strategies)
	}
}

func TestLoadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "depend.toml")

	content := `
[analysis]
analyzers = ["ccn", "npath"]
coderank_strategies = ["method", "property"]

[cache]
enabled = false
ttl = 24

[coverage]
clover = "build/clover.xml"

[thresholds]
npath = 500
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	kinds, err := cfg.AnalyzerKinds()
	if err != nil {
		t.Fatalf("AnalyzerKinds() error: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != analyzer.KindCCN || kinds[1] != analyzer.KindNPath {
		t.Errorf("AnalyzerKinds() = %v, want [ccn npath]", kinds)
	}
	strategies, _ := cfg.Strategies()
	if len(strategies) != 2 || strategies[0] != coderank.StrategyMethod {
		t.Errorf("Strategies() = %v, want [method property]", strategies)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
	if cfg.CacheTTL() != 24*time.Hour {
		t.Errorf("CacheTTL() = %v, want 24h", cfg.CacheTTL())
	}
	if cfg.Coverage.Clover != "build/clover.xml" {
		t.Errorf("Coverage.Clover = %s, want build/clover.xml", cfg.Coverage.Clover)
	}
	if cfg.Thresholds.NPath != 500 {
		t.Errorf("Thresholds.NPath = %d, want 500", cfg.Thresholds.NPath)
	}
	// untouched values keep their defaults
	if cfg.Thresholds.CCN2 != 10 {
		t.Errorf("Thresholds.CCN2 = %d, want default 10", cfg.Thresholds.CCN2)
	}
	if cfg.Cache.Dir != ".depend/cache" {
		t.Errorf("Cache.Dir = %s, want default", cfg.Cache.Dir)
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "depend.yaml")

	content := `
analysis:
  analyzers: [dependency]

output:
  format: yaml
  color: false

thresholds:
  mi: 65.5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Output.Format = %s, want yaml", cfg.Output.Format)
	}
	if cfg.Output.Color {
		t.Error("Output.Color should be false")
	}
	if cfg.Thresholds.MI != 65.5 {
		t.Errorf("Thresholds.MI = %v, want 65.5", cfg.Thresholds.MI)
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "depend.json")

	content := `{
  "output": {
    "format": "json",
    "verbose": true
  },
  "thresholds": {
    "ccn2": 25
  }
}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Output.Verbose {
		t.Error("Output.Verbose should be true")
	}
	if cfg.Thresholds.CCN2 != 25 {
		t.Errorf("Thresholds.CCN2 = %d, want 25", cfg.Thresholds.CCN2)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown analyzer", "[analysis]\nanalyzers = [\"churn\"]\n"},
		{"unknown strategy", "[analysis]\ncoderank_strategies = [\"call\"]\n"},
		{"unknown format", "[output]\nformat = \"pdf\"\n"},
		{"negative ttl", "[cache]\nttl = -1\n"},
		{"syntax error", "[analysis\ninvalid toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "depend.toml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := Load(configPath); err == nil {
				t.Error("Load() should return error")
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/depend.toml")
	if err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg := LoadOrDefault()
	if cfg == nil {
		t.Fatal("LoadOrDefault() returned nil")
	}
	if cfg.Thresholds.NPath != 200 {
		t.Errorf("LoadOrDefault() returned non-default NPath: %d", cfg.Thresholds.NPath)
	}
}

func TestLoadOrDefaultPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".depend"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(".depend", "depend.toml"): "[thresholds]\nnpath = 3\n",
		"depend.yaml":                           "thresholds:\n  npath: 2\n",
		"depend.toml":                           "[thresholds]\nnpath = 1\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	t.Chdir(tmpDir)

	if got := LoadOrDefault().Thresholds.NPath; got != 1 {
		t.Errorf("NPath = %d, want 1 from depend.toml", got)
	}

	if err := os.Remove("depend.toml"); err != nil {
		t.Fatal(err)
	}
	if got := LoadOrDefault().Thresholds.NPath; got != 2 {
		t.Errorf("NPath = %d, want 2 from depend.yaml", got)
	}

	if err := os.Remove("depend.yaml"); err != nil {
		t.Fatal(err)
	}
	if got := LoadOrDefault().Thresholds.NPath; got != 3 {
		t.Errorf("NPath = %d, want 3 from .depend/depend.toml", got)
	}
}

func TestLoadOrDefaultSkipsBrokenConfig(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "depend.toml"), []byte("[output]\nformat = \"pdf\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".depend.json"), []byte(`{"thresholds":{"npath":7}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(tmpDir)

	if got := LoadOrDefault().Thresholds.NPath; got != 7 {
		t.Errorf("NPath = %d, want 7 from .depend.json", got)
	}
}

func TestDiscoverReportsSource(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if _, source := Discover(); source != "" {
		t.Errorf("Discover() source = %q, want empty", source)
	}

	if err := os.WriteFile(".depend.yml", []byte("cache:\n  enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, source := Discover()
	if source != ".depend.yml" {
		t.Errorf("Discover() source = %q, want .depend.yml", source)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}
}
