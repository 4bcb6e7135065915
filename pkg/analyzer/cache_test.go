package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/depend/pkg/ast"
)

type memDriver struct {
	data map[string][]byte
	gets int
	sets int
}

func newMemDriver() *memDriver { return &memDriver{data: make(map[string][]byte)} }

func (m *memDriver) Get(key string) ([]byte, bool) {
	m.gets++
	d, ok := m.data[key]
	return d, ok
}

func (m *memDriver) Set(key string, data []byte) error {
	m.sets++
	m.data[key] = data
	return nil
}

type cached struct {
	N int `json:"n"`
}

func cacheFixture() *ast.Callable {
	b := ast.NewBuilder()
	f := b.Function(b.Namespace("app"), "f")
	f.SetTokens([]ast.Token{
		ast.NewToken(ast.TokenReturn, "return", 1),
		ast.NewToken(ast.TokenNumber, "1", 1),
	})
	return f
}

func TestCacheWritesOnlyOnUnload(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	c := NewCachingBase(KindCCN, "ccn", d)

	c.LoadCache()
	assert.False(t, c.Restore(f, &cached{}))
	c.Store(f, cached{N: 4})
	assert.Zero(t, d.sets)
	require.NoError(t, c.UnloadCache())
	assert.Equal(t, 1, d.sets)
	assert.Contains(t, d.data, f.ID().String()+"@ccn")

	fresh := NewCachingBase(KindCCN, "ccn", d)
	fresh.LoadCache()
	var got cached
	require.True(t, fresh.Restore(f, &got))
	assert.Equal(t, 4, got.N)
}

func TestCacheDiscardPersistsNothing(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	c := NewCachingBase(KindCCN, "ccn", d)

	c.LoadCache()
	c.Store(f, cached{N: 1})
	c.DiscardCache()
	require.NoError(t, c.UnloadCache())
	assert.Zero(t, d.sets)
}

func TestCacheRejectsChangedTokens(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	c := NewCachingBase(KindNPath, "npath", d)
	c.LoadCache()
	c.Store(f, cached{N: 2})
	require.NoError(t, c.UnloadCache())

	f.SetTokens(append(f.Tokens(), ast.NewToken(ast.TokenSemicolon, ";", 1)))
	c.LoadCache()
	assert.False(t, c.Restore(f, &cached{}))
}

func TestCacheShapesDoNotCollide(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	a := NewCachingBase(KindCCN, "ccn", d)
	b := NewCachingBase(KindNPath, "npath", d)

	assert.NotEqual(t, a.CacheKey(f), b.CacheKey(f))
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	c := NewCachingBase(KindCCN, "ccn", d)
	d.data[c.CacheKey(f)] = []byte("{not json")

	c.LoadCache()
	assert.False(t, c.Restore(f, &cached{}))
}

func TestCacheWithoutSessionOrDriver(t *testing.T) {
	f := cacheFixture()
	d := newMemDriver()
	c := NewCachingBase(KindCCN, "ccn", d)
	c.Store(f, cached{N: 1})
	assert.False(t, c.Restore(f, &cached{}))
	assert.Zero(t, d.gets)

	none := NewCachingBase(KindCCN, "ccn", nil)
	none.LoadCache()
	none.Store(f, cached{N: 1})
	assert.False(t, none.Restore(f, &cached{}))
	assert.NoError(t, none.UnloadCache())
}

func TestFingerprintStable(t *testing.T) {
	tokens := cacheFixture().Tokens()
	assert.Equal(t, Fingerprint(tokens), Fingerprint(tokens))
	assert.NotEqual(t, Fingerprint(tokens), Fingerprint(tokens[:1]))
	assert.Len(t, Fingerprint(nil), 64)
}
