package counter

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
)

var _ Counter = (*MemoryCounter)(nil)

// MemoryCounter keeps the record in a process-local cache.
// It stands in for a real store when running locally and in tests.
type MemoryCounter struct {
	key   string
	cache *cache.Cache
}

func NewMemoryCounter(key string) *MemoryCounter {
	return &MemoryCounter{
		key:   key,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (c *MemoryCounter) Get(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeError("cache.Get", err)
	}
	v, ok := c.cache.Get(c.key)
	if !ok {
		return 0, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, storeError("cache.Get", fmt.Errorf("key=%s holds %T", c.key, v))
	}
	return n, nil
}

func (c *MemoryCounter) Up(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, storeError("cache.IncrementInt64", err)
	}
	// Add fails when the key already exists, which is the common case.
	_ = c.cache.Add(c.key, int64(0), cache.NoExpiration)
	n, err := c.cache.IncrementInt64(c.key, 1)
	if err != nil {
		return 0, storeError("cache.IncrementInt64", err)
	}
	return n, nil
}
