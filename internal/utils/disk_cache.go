package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/vmihailenco/msgpack/v5"
)

// diskCacheFormat is bumped whenever the on-disk record layout changes
const diskCacheFormat = 1

type diskRecord[V any] struct {
	Format int    `msgpack:"f"`
	Key    string `msgpack:"k"`
	Value  V      `msgpack:"v"`
}

// DiskCache stores msgpack-encoded values under a directory, one file per
// key. Keys are expected to be content hashes (see ContentHash).
type DiskCache[V any] struct {
	dir    string
	hits   atomic.Int64
	misses atomic.Int64
}

// NewDiskCache creates the cache directory if needed
func NewDiskCache[V any](dir string) (*DiskCache[V], error) {
	if err := NotEmpty("cache_dir")(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, WrapCreateError(fmt.Sprintf("cache directory %s", dir), err)
	}
	return &DiskCache[V]{dir: dir}, nil
}

func (c *DiskCache[V]) path(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(c.dir, shard, key+".msgpack")
}

// Get returns the value stored for key. A missing, stale or unreadable
// record is a miss, not an error.
func (c *DiskCache[V]) Get(key string) (V, bool) {
	var zero V
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		c.misses.Add(1)
		return zero, false
	}

	var record diskRecord[V]
	if err := msgpack.Unmarshal(data, &record); err != nil || record.Format != diskCacheFormat || record.Key != key {
		c.misses.Add(1)
		return zero, false
	}
	c.hits.Add(1)
	return record.Value, true
}

// Put stores value under key, replacing the file atomically
func (c *DiskCache[V]) Put(key string, value V) error {
	data, err := msgpack.Marshal(diskRecord[V]{Format: diskCacheFormat, Key: key, Value: value})
	if err != nil {
		return WrapCreateError("cache record", err)
	}

	target := c.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return WrapCreateError("cache shard", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return WrapCreateError("cache record", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return WrapCreateError("cache record", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return WrapCreateError("cache record", err)
	}
	return os.Rename(tmp.Name(), target)
}

// Clear removes every record
func (c *DiskCache[V]) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the hit and miss counts since the cache was opened
func (c *DiskCache[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Dir returns the cache directory
func (c *DiskCache[V]) Dir() string {
	return c.dir
}
