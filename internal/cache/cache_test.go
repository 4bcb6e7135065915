package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()

	c, err := New(filepath.Join(tmpDir, "cache"), 24*time.Hour, true)
	require.NoError(t, err)
	assert.True(t, c.Enabled())

	c, err = New("", 0, false)
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}

func TestNewCreatesDirectory(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "nested", "cache", "dir")

	_, err := New(cacheDir, time.Hour, true)
	require.NoError(t, err)
	assert.DirExists(t, cacheDir)
}

func TestSetAndGet(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	key := "0123456789abcdef@ccn"
	require.NoError(t, c.Set(key, []byte(`{"ccn":2}`)))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, `{"ccn":2}`, string(got))

	_, ok = c.Get("nonexistent-key")
	assert.False(t, ok)
}

func TestGetCorruptEntryIsMiss(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(c.keyPath("k"), []byte("{broken"), 0600))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	require.NoError(t, c.Set("k", []byte("data")))
	require.NoError(t, c.Invalidate("k"))
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("k"), "invalidating a missing key is not an error")
}

func TestClear(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	c, err := New(cacheDir, time.Hour, true)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Set(string(rune('a'+i)), []byte("data")))
	}
	require.NoError(t, c.Clear())
	assert.NoDirExists(t, cacheDir)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	require.NoError(t, err)

	assert.NoError(t, c.Set("key", []byte("data")))
	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("key"))
	assert.NoError(t, c.Clear())

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestGetStats(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(string(rune('a'+i)), []byte("data")))
	}
	stats, err = c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Positive(t, stats.TotalSize)
}

func TestTTLExpiration(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	entry := []byte(`{"key":"k","timestamp":"2000-01-01T00:00:00Z","data":"ZGF0YQ=="}`)
	require.NoError(t, os.WriteFile(c.keyPath("k"), entry, 0600))

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.NoFileExists(t, c.keyPath("k"), "expired entries are removed")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), 0, true)
	require.NoError(t, err)

	entry := []byte(`{"key":"k","timestamp":"2000-01-01T00:00:00Z","data":"ZGF0YQ=="}`)
	require.NoError(t, os.WriteFile(c.keyPath("k"), entry, 0600))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "data", string(got))
}

func TestKeyPath(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	path1 := c.keyPath("key1")
	assert.NotEqual(t, path1, c.keyPath("key2"))
	assert.Equal(t, path1, c.keyPath("key1"))
	assert.Equal(t, ".json", filepath.Ext(path1))
	assert.Equal(t, c.Dir(), filepath.Dir(path1))
}

func TestSpecialCharactersInKey(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "cache"), time.Hour, true)
	require.NoError(t, err)

	for _, key := range []string{"a/b/c", "../escape", "x@y:z", "spaces in key"} {
		require.NoError(t, c.Set(key, []byte(key)))
		got, ok := c.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, key, string(got))
	}
}

func TestMemoryCounts(t *testing.T) {
	m := NewMemory()
	_, ok := m.Get("k")
	assert.False(t, ok)

	data := []byte("v")
	require.NoError(t, m.Set("k", data))
	data[0] = 'x'

	got, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got), "stored bytes are copied")
	assert.Equal(t, 2, m.Gets())
	assert.Equal(t, 1, m.Hits())
	assert.Equal(t, 1, m.Sets())
	assert.Equal(t, 1, m.Len())
}
