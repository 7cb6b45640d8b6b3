package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/pixload/internal/resource"
)

// SizeFunc reports the byte footprint of a value.
type SizeFunc[V any] func(V) int64

// EvictFunc is called, with the cache lock held, for every evicted or removed entry.
// It must not call back into the cache.
type EvictFunc[V any] func(key string, value V, size int64)

// LRU is a thread-safe byte-budgeted LRU cache keyed by string.
type LRU[V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List
	sizeOf    SizeFunc[V]
	onEvict   EvictFunc[V]
	rc        *resource.Controller

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type entry[V any] struct {
	key   string
	value V
	size  int64
}

// Option configures an LRU.
type Option[V any] func(*LRU[V])

// WithOnEvict registers a callback for evicted entries.
func WithOnEvict[V any](fn EvictFunc[V]) Option[V] {
	return func(c *LRU[V]) {
		c.onEvict = fn
	}
}

// WithResourceController tracks retained bytes in rc.
func WithResourceController[V any](rc *resource.Controller) Option[V] {
	return func(c *LRU[V]) {
		c.rc = rc
	}
}

// NewLRU creates a cache holding at most capacity bytes as measured by sizeOf.
func NewLRU[V any](capacity int64, sizeOf SizeFunc[V], opts ...Option[V]) *LRU[V] {
	c := &LRU[V]{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
		sizeOf:    sizeOf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and marks it most recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Contains reports whether key is cached without touching recency or stats.
func (c *LRU[V]) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put inserts value unless key is already cached, in which case value is
// discarded and Put returns false. After insertion least recently used
// entries are evicted until the cache fits its capacity, which evicts the
// new entry too when it alone exceeds the capacity.
func (c *LRU[V]) Put(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return false
	}

	itemSize := c.sizeOf(value)
	if itemSize < 0 {
		itemSize = 0
	}

	c.rc.TrackMemory(itemSize)

	ent := &entry[V]{key: key, value: value, size: itemSize}
	c.items[key] = c.evictList.PushFront(ent)
	c.size += itemSize

	c.evict()
	return true
}

// Remove drops key from the cache.
func (c *LRU[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(ent)
	return true
}

func (c *LRU[V]) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			return
		}
		c.removeElement(element)
		c.evictions.Add(1)
	}
}

func (c *LRU[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[V])
	delete(c.items, kv.key)
	c.size -= kv.size
	c.rc.ReleaseMemory(kv.size)
	if c.onEvict != nil {
		c.onEvict(kv.key, kv.value, kv.size)
	}
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the current size of the cache in bytes.
func (c *LRU[V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Capacity returns the byte budget.
func (c *LRU[V]) Capacity() int64 {
	return c.capacity
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Entries   int
	Size      int64
	Capacity  int64
	Hits      int64
	Misses    int64
	Evictions int64
	// HitRate is hits / (hits + misses), 0 when nothing was looked up.
	HitRate float64
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	entries, size := len(c.items), c.size
	c.mu.Unlock()

	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Stats{
		Entries:   entries,
		Size:      size,
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}
