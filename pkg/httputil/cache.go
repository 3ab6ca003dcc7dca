// Package httputil provides HTTP response caching for the API clients.
//
// The ListMap export endpoint is slow and the declination service is rate
// limited, so responses are cached on disk between runs. The cache is a
// plain directory of JSON files; it requires no daemon and survives
// process restarts.
package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live. The data still exists on disk but is stale;
// callers should fetch fresh data and update the cache with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of arbitrary JSON-marshalable data.
//
// Each entry is stored as a JSON file in the cache directory, with the
// filename derived from a SHA-256 hash of the cache key. This keeps key
// names filesystem-safe and prevents collisions across namespaces.
//
// Entries have a TTL based on file modification time. A TTL of 0 means
// entries never expire.
//
// A nil *Cache is valid and behaves as a cache that never hits; this is
// how --no-cache is implemented.
//
// Use [Cache.Namespace] to create scoped views that automatically prefix
// keys, avoiding collisions between services:
//
//	listmap := cache.Namespace("listmap:")
//	geomag := cache.Namespace("geomag:")
type Cache struct {
	dir    string
	ttl    time.Duration
	prefix string
}

// NewCache creates a Cache that stores entries in dir with the given TTL.
//
// If dir is empty, the default is $XDG_CACHE_HOME/tastopo, falling back to
// ~/.cache/tastopo. The directory is created if it doesn't exist; creation
// failure is the only error source.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "tastopo")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the absolute path to the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Get retrieves a cached value by key and unmarshals it into v.
//
// Outcomes:
//   - (true, nil): hit; the value was found, is fresh, and was unmarshaled into v.
//   - (false, nil): miss; no entry exists. v is unchanged.
//   - (false, ErrExpired): entry exists but exceeded its TTL. v is unchanged.
//   - (false, other): I/O or unmarshal error.
//
// Get is a non-mutating read; it never touches modification times.
func (c *Cache) Get(key string, v any) (bool, error) {
	if c == nil {
		return false, nil
	}
	path := c.keyPath(c.prefix + key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// Set stores a value in the cache under the given key, overwriting any
// existing entry and refreshing its TTL. The value must be JSON-marshalable.
func (c *Cache) Set(key string, v any) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(c.keyPath(c.prefix+key), data, 0o644)
}

// Namespace returns a scoped view of the cache that prefixes all keys with
// prefix. The returned Cache shares the directory and TTL of its parent.
// Namespace of a nil cache is nil.
func (c *Cache) Namespace(prefix string) *Cache {
	if c == nil {
		return nil
	}
	return &Cache{
		dir:    c.dir,
		ttl:    c.ttl,
		prefix: c.prefix + prefix,
	}
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
