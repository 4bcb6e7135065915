// Package cache provides the key-value stores behind the analyzers' result
// cache.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/panbanda/depend/pkg/analyzer"
	"github.com/panbanda/depend/pkg/logger"
)

var (
	_ analyzer.CacheDriver = (*File)(nil)
	_ analyzer.CacheDriver = (*Memory)(nil)
)

// File stores one JSON file per key under a directory. File names are the
// BLAKE3 hash of the key.
type File struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry is the on-disk record.
type Entry struct {
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
	Data      []byte    `json:"data"`
}

// New creates a file cache. A disabled cache misses every Get and drops
// every Set. A ttl of zero keeps entries forever.
func New(dir string, ttl time.Duration, enabled bool) (*File, error) {
	if !enabled {
		return &File{enabled: false}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &File{
		dir:     dir,
		ttl:     ttl,
		enabled: true,
	}, nil
}

// Dir returns the cache directory.
func (c *File) Dir() string { return c.dir }

// Enabled reports whether the cache reads and writes entries.
func (c *File) Enabled() bool { return c.enabled }

// Get retrieves a cached entry if it exists and is not expired.
func (c *File) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.keyPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("cache read failed", "key", key, "err", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("cache entry corrupt", "key", key, "err", err)
		return nil, false
	}
	if entry.Key != key {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	return entry.Data, true
}

// Set stores data in the cache.
func (c *File) Set(key string, data []byte) error {
	if !c.enabled {
		return nil
	}

	entry := Entry{
		Key:       key,
		Timestamp: time.Now(),
		Data:      data,
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return os.WriteFile(c.keyPath(key), entryData, 0600)
}

// Invalidate removes a cache entry. Removing a missing entry is not an
// error.
func (c *File) Invalidate(key string) error {
	if !c.enabled {
		return nil
	}
	err := os.Remove(c.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cache entries.
func (c *File) Clear() error {
	if !c.enabled {
		return nil
	}
	return os.RemoveAll(c.dir)
}

func (c *File) keyPath(key string) string {
	hash := blake3.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(hash[:])+".json")
}

// Stats describes the cache directory.
type Stats struct {
	Entries   int           `json:"entries" yaml:"entries"`
	TotalSize int64         `json:"total_size" yaml:"total_size"`
	OldestAge time.Duration `json:"oldest_age" yaml:"oldest_age"`
	NewestAge time.Duration `json:"newest_age" yaml:"newest_age"`
}

// GetStats returns statistics about the cache.
func (c *File) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest, newest time.Time

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()

		modTime := info.ModTime()
		if oldest.IsZero() || modTime.Before(oldest) {
			oldest = modTime
		}
		if newest.IsZero() || modTime.After(newest) {
			newest = modTime
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return stats, nil
	}
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	if !newest.IsZero() {
		stats.NewestAge = time.Since(newest)
	}
	return stats, nil
}
