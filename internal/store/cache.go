package store

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// CachedStore serves repeated reads from an LRU cache. Misses are not cached.
type CachedStore struct {
	backend Store
	cache   *lru.Cache
}

// NewCachedStore wraps backend with a cache holding up to size keys
func NewCachedStore(backend Store, size int) (*CachedStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("lru cache: %w", err)
	}
	return &CachedStore{backend: backend, cache: cache}, nil
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.cache.Get(key); ok {
		return clone(v.([]byte)), nil
	}

	v, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.cache.Remove(key)
		}
		return nil, err
	}
	c.cache.Add(key, clone(v))
	return v, nil
}

func (c *CachedStore) PutAll(ctx context.Context, entries map[string][]byte) error {
	if err := c.backend.PutAll(ctx, entries); err != nil {
		for k := range entries {
			c.cache.Remove(k)
		}
		return err
	}
	for k, v := range entries {
		c.cache.Add(k, clone(v))
	}
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		c.cache.Remove(k)
	}
	return c.backend.Delete(ctx, keys...)
}

func (c *CachedStore) Close() error {
	c.cache.Purge()
	return c.backend.Close()
}
