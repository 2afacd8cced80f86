package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensemate_cache_hits_total",
			Help: "Total cache hits by cache name.",
		},
		[]string{"cache"},
	)
	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expensemate_cache_misses_total",
			Help: "Total cache misses by cache name.",
		},
		[]string{"cache"},
	)
)

// LRUCache is a size-bounded LRU whose entries expire after a fixed TTL.
type LRUCache[T any] struct {
	name   string
	lru    *expirable.LRU[string, T]
	hits   prometheus.Counter
	misses prometheus.Counter
}

var _ Cache[int] = (*LRUCache[int])(nil)

// NewLRUCache creates a named cache. The name labels the hit/miss metrics.
func NewLRUCache[T any](name string, maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		name:   name,
		lru:    expirable.NewLRU[string, T](maxSize, nil, ttl),
		hits:   cacheHitsTotal.WithLabelValues(name),
		misses: cacheMissesTotal.WithLabelValues(name),
	}
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}
	return v, ok
}

func (c *LRUCache[T]) Set(key string, data T) {
	c.lru.Add(key, data)
}

func (c *LRUCache[T]) Delete(key string) {
	c.lru.Remove(key)
}

func (c *LRUCache[T]) Purge() {
	c.lru.Purge()
}

func (c *LRUCache[T]) Size() int {
	return c.lru.Len()
}

func (c *LRUCache[T]) Name() string {
	return c.name
}
