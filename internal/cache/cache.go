package cache

import (
	"bytes"
	"encoding/gob"
	"errors"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a cached page stays fresh when no TTL is configured.
const DefaultTTL = 4 * time.Hour

// Cache wraps go-cache with GOB persistence. Values stored in it must be
// registered with encoding/gob by the package that stores them.
type Cache struct {
	inner *gocache.Cache
	dirty bool
}

// New creates an empty cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{inner: gocache.New(ttl, ttl+ttl/2)}
}

// LoadFromFile loads a cache from a GOB file. A missing file yields an empty
// cache; an undecodable one is reported through ErrCorrupt together with a
// fresh cache so callers can log and carry on.
func LoadFromFile(filename string, ttl time.Duration) (*Cache, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(ttl), nil
		}
		return nil, err
	}
	items := map[string]gocache.Item{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&items); err != nil {
		return New(ttl), &CorruptError{File: filename, Err: err}
	}
	c := New(ttl)
	for k, item := range items {
		if item.Expired() {
			continue
		}
		c.inner.Set(k, item.Object, time.Until(time.Unix(0, item.Expiration)))
	}
	return c, nil
}

// CorruptError is returned alongside a usable empty cache when the cache
// file could not be decoded.
type CorruptError struct {
	File string
	Err  error
}

func (e *CorruptError) Error() string {
	return "cache file " + e.File + " is unreadable (starting fresh): " + e.Err.Error()
}

func (e *CorruptError) Unwrap() error { return e.Err }

// SaveToFile saves the cache to a GOB file. Nothing is written when the cache
// has not changed since it was loaded.
func (c *Cache) SaveToFile(filename string) error {
	if !c.dirty {
		return nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.inner.Items()); err != nil {
		return err
	}
	if err := os.WriteFile(filename, buf.Bytes(), 0600); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Get retrieves a value by key.
func (c *Cache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Set stores a value with default expiration.
func (c *Cache) Set(key string, val any) {
	c.inner.Set(key, val, gocache.DefaultExpiration)
	c.dirty = true
}

// Len returns the number of unexpired entries.
func (c *Cache) Len() int {
	return c.inner.ItemCount()
}

// Flush clears all cached items.
func (c *Cache) Flush() {
	c.inner.Flush()
	c.dirty = true
}
