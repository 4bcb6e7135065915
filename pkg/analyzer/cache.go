package analyzer

import (
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/zeebo/blake3"

	"github.com/panbanda/depend/pkg/ast"
	"github.com/panbanda/depend/pkg/logger"
)

// CacheDriver is the key-value store consulted by caching analyzers.
type CacheDriver interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Cacheable is an artifact whose metrics can be cached: the fingerprint of
// its tokens decides whether a stored entry is still valid.
type Cacheable interface {
	ID() ast.ID
	Tokens() []ast.Token
}

type cacheEntry struct {
	Fingerprint string          `json:"fingerprint"`
	Value       json.RawMessage `json:"value"`
}

// CachingBase is a Base whose per-artifact results can be restored from and
// written back to a CacheDriver. A session is bracketed by LoadCache and
// UnloadCache; writes are buffered and only reach the driver on UnloadCache,
// so a failed pass (DiscardCache) persists nothing.
type CachingBase struct {
	Base

	driver  CacheDriver
	shape   string
	pending map[string][]byte
	open    bool
}

// NewCachingBase creates a CachingBase. shape names the layout of the cached
// value and becomes part of every key.
func NewCachingBase(kind Kind, shape string, driver CacheDriver) CachingBase {
	return CachingBase{Base: NewBase(kind), driver: driver, shape: shape}
}

// SetCacheDriver replaces the driver. A nil driver disables caching.
func (c *CachingBase) SetCacheDriver(d CacheDriver) { c.driver = d }

// LoadCache opens a cache session.
func (c *CachingBase) LoadCache() {
	c.pending = make(map[string][]byte)
	c.open = true
}

// Restore decodes the cached value for a into v. It reports false on a miss,
// when the artifact's tokens changed since the entry was written, or when no
// session is open.
func (c *CachingBase) Restore(a Cacheable, v any) bool {
	if !c.open || c.driver == nil {
		return false
	}
	key := c.key(a)
	data, ok := c.driver.Get(key)
	if !ok {
		return false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		return false
	}
	if entry.Fingerprint != Fingerprint(a.Tokens()) {
		return false
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		logger.Warn("discarding undecodable cache value", "key", key, "err", err)
		return false
	}
	return true
}

// Store buffers v as the cached value for a.
func (c *CachingBase) Store(a Cacheable, v any) {
	if !c.open || c.driver == nil {
		return
	}
	value, err := json.Marshal(v)
	if err != nil {
		logger.Warn("skipping unencodable cache value", "kind", c.kind, "err", err)
		return
	}
	data, err := json.Marshal(cacheEntry{Fingerprint: Fingerprint(a.Tokens()), Value: value})
	if err != nil {
		return
	}
	c.pending[c.key(a)] = data
}

// UnloadCache flushes the buffered writes and closes the session.
func (c *CachingBase) UnloadCache() error {
	if !c.open {
		return nil
	}
	c.open = false
	pending := c.pending
	c.pending = nil
	if c.driver == nil {
		return nil
	}
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := c.driver.Set(k, pending[k]); err != nil {
			return err
		}
	}
	return nil
}

// DiscardCache closes the session without writing.
func (c *CachingBase) DiscardCache() {
	c.open = false
	c.pending = nil
}

// CacheKey returns the key under which a's value is stored.
func (c *CachingBase) CacheKey(a Cacheable) string { return c.key(a) }

func (c *CachingBase) key(a Cacheable) string {
	return a.ID().String() + "@" + c.shape
}

// Fingerprint hashes a token stream.
func Fingerprint(tokens []ast.Token) string {
	h := blake3.New()
	var buf []byte
	for _, t := range tokens {
		buf = buf[:0]
		buf = append(buf, string(t.Kind)...)
		buf = append(buf, 0)
		buf = append(buf, t.Image...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, int64(t.StartLine), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(t.EndLine), 10)
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
