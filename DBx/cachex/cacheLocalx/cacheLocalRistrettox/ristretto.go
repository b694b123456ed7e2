package cacheLocalRistrettox

import (
	"time"

	"gitee.com/hgg_test/ry_admin/DBx/cachex/cacheLocalx"
	"github.com/dgraph-io/ristretto/v2"
)

var _ cacheLocalx.CacheLocalIn[string, int] = (*CacheLocalRistrettoStr[string, int])(nil)

type CacheLocalRistrettoStr[K cacheLocalx.Key, V any] struct {
	cache *ristretto.Cache[K, V]
}

// NewCacheLocalRistrettoStr 是高性能、并发安全、带准入策略的内存缓存库
func NewCacheLocalRistrettoStr[K cacheLocalx.Key, V any](cache *ristretto.Cache[K, V]) *CacheLocalRistrettoStr[K, V] {
	return &CacheLocalRistrettoStr[K, V]{cache: cache}
}

// NewDefault 按条数计费，maxItems 为最多缓存条数
func NewDefault[K cacheLocalx.Key, V any](maxItems int64) (*CacheLocalRistrettoStr[K, V], error) {
	if maxItems <= 0 {
		maxItems = 1024
	}
	cache, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: maxItems * 10, // 按键跟踪次数，官方建议为条数的 10 倍
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return NewCacheLocalRistrettoStr(cache), nil
}

func (c *CacheLocalRistrettoStr[K, V]) Set(key K, value V, ttl time.Duration, weight int64) error {
	if weight <= 0 {
		weight = 1
	}
	if c.cache.SetWithTTL(key, value, weight, ttl) {
		return nil
	}
	return cacheLocalx.ErrCacheRejected
}

func (c *CacheLocalRistrettoStr[K, V]) Get(key K) (V, error) {
	if value, ok := c.cache.Get(key); ok {
		return value, nil
	}
	var v V
	return v, cacheLocalx.ErrCacheMiss
}

func (c *CacheLocalRistrettoStr[K, V]) Del(key K) error {
	c.cache.Del(key)
	return nil
}

func (c *CacheLocalRistrettoStr[K, V]) Clear() {
	c.cache.Clear()
}

func (c *CacheLocalRistrettoStr[K, V]) Close() {
	c.cache.Close()
}

func (c *CacheLocalRistrettoStr[K, V]) WaitSet() {
	c.cache.Wait()
}
