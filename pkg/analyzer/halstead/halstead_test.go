package halstead

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/internal/cache"
	tu "github.com/panbanda/depend/internal/testutil"
	"github.com/panbanda/depend/pkg/ast"
)

// if ($a > 1) { return $b->name; }
func ifReturnTokens() []ast.Token {
	return tu.Tokens(1,
		"if", "if", "open_paren", "(", "variable", "$a", "operator", ">", "number", "1",
		"close_paren", ")", "open_curly", "{", "return", "return",
		"variable", "$b", "object_operator", "->", "identifier", "name", "semicolon", ";",
		"close_curly", "}",
	)
}

func TestClassify(t *testing.T) {
	c := Classify(ifReturnTokens())
	assert.Equal(t, []string{"if", ">", "{", "return", ";"}, c.Operators)
	assert.Equal(t, []string{"$a", "1", "$b->name"}, c.Operands)
	assert.Equal(t, Basis{DistinctOperators: 5, DistinctOperands: 3, TotalOperators: 5, TotalOperands: 3}, c.Basis())
}

func TestClassifySkipRules(t *testing.T) {
	tests := []struct {
		name      string
		tokens    []ast.Token
		operators []string
		operands  []string
	}{
		{
			"goto folds its label",
			tu.Tokens(1, "goto", "goto", "identifier", "end", "semicolon", ";"),
			[]string{"goto end", ";"},
			nil,
		},
		{
			"declarations are skipped",
			tu.Tokens(1, "const", "const", "identifier", "X", "operator", "=", "number", "1",
				"semicolon", ";", "variable", "$y"),
			nil,
			[]string{"$y"},
		},
		{
			"static access without receiver",
			tu.Tokens(1, "double_colon", "::", "identifier", "create"),
			nil,
			[]string{"::create"},
		},
		{
			"chained access folds into one operand",
			tu.Tokens(1, "variable", "$a", "object_operator", "->", "identifier", "b",
				"object_operator", "->", "identifier", "c"),
			nil,
			[]string{"$a->b->c"},
		},
		{
			"comments and tags are ignored",
			tu.Tokens(1, "open_tag", "<?php", "comment", "// x", "doc_comment", "/** y */",
				"heredoc_start", "<<<EOT", "heredoc_end", "EOT", "close_tag", "?>"),
			nil,
			nil,
		},
		{
			"literals are operands",
			tu.Tokens(1, "string", "'s'", "true", "true", "false", "false", "null", "null"),
			nil,
			[]string{"'s'", "true", "false", "null"},
		},
		{
			"repeated operators count each occurrence",
			tu.Tokens(1, "variable", "$a", "operator", "+", "variable", "$a", "operator", "+", "variable", "$a"),
			[]string{"+", "+"},
			[]string{"$a", "$a", "$a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.tokens)
			assert.Equal(t, tt.operators, c.Operators)
			assert.Equal(t, tt.operands, c.Operands)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	tokens := ifReturnTokens()
	first := Classify(tokens).Basis()
	second := Classify(tokens).Basis()
	assert.Equal(t, first, second)

	m := first.Measures()
	assert.Equal(t, float64(first.TotalOperators+first.TotalOperands), m.Length)
}

func TestMeasures(t *testing.T) {
	m := Basis{DistinctOperators: 5, DistinctOperands: 3, TotalOperators: 5, TotalOperands: 3}.Measures()

	assert.Equal(t, 8.0, m.Length)
	assert.Equal(t, 8.0, m.Vocabulary)
	assert.InDelta(t, 24.0, m.Volume, 1e-9)
	assert.InDelta(t, 25.0/6.0, m.Difficulty, 1e-9)
	assert.InDelta(t, 6.0/25.0, m.Level, 1e-9)
	assert.InDelta(t, 100.0, m.Effort, 1e-9)
	assert.InDelta(t, 100.0/18.0, m.Time, 1e-9)
	assert.InDelta(t, math.Pow(100, 2.0/3.0)/3000, m.Bugs, 1e-12)
	assert.InDelta(t, 5.76, m.Content, 1e-9)
}

func TestMeasuresZeroGuards(t *testing.T) {
	m := Basis{}.Measures()
	assert.Zero(t, m.Volume)
	assert.Zero(t, m.Difficulty)
	assert.Equal(t, 1.0, m.Level)
	assert.Zero(t, m.Content)
	assert.Zero(t, m.Bugs)

	onlyOperators := Basis{DistinctOperators: 2, TotalOperators: 4}.Measures()
	assert.Equal(t, 4.0, onlyOperators.Difficulty, "a missing operand count is treated as 1")
	metrics := Basis{DistinctOperators: 2, TotalOperators: 4}.Metrics()
	for _, v := range metrics {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func forest() ([]*ast.Namespace, *ast.Callable) {
	b := ast.NewBuilder()
	f := b.Function(b.Namespace("app"), "f")
	f.SetTokens(ifReturnTokens())
	return b.Namespaces(), f
}

func TestAnalyze(t *testing.T) {
	namespaces, f := forest()
	a := New()
	require.NoError(t, a.Analyze(context.Background(), namespaces))

	m := a.NodeMetrics(f)
	assert.Equal(t, 5.0, m["n1"])
	assert.Equal(t, 3.0, m["N2"])
	assert.InDelta(t, 24.0, m["hv"], 1e-9)
	assert.InDelta(t, 24.0, a.Volume(f), 1e-9)
	assert.Len(t, m, 13)
}

func TestCacheRoundTrip(t *testing.T) {
	namespaces, f := forest()
	store := cache.NewMemory()
	first := New(WithCache(store))
	require.NoError(t, first.Analyze(context.Background(), namespaces))

	second := New(WithCache(store))
	require.NoError(t, second.Analyze(context.Background(), namespaces))
	assert.Equal(t, first.NodeMetrics(f), second.NodeMetrics(f))
	assert.Equal(t, 1, store.Hits())
	assert.Equal(t, 1, store.Sets())
}
