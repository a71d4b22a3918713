// Package cache provides a sharded LRU used for glyph stroke templates and
// vectorization results.
//
// Lookups of hot glyphs happen once per letter per text action, so the
// cache is sharded to keep lock contention negligible and evicts least
// recently used entries per shard.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// shardCount must be a power of 2 for fast modulo via bitwise AND.
	shardCount = 16
	shardMask  = shardCount - 1

	// DefaultCapacity is the default maximum entries per shard.
	DefaultCapacity = 128
)

// Hasher computes a hash for a key, used for shard selection.
type Hasher[K any] func(K) uint64

// StringHasher computes the FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// Uint64Hasher returns the key itself as the hash.
func Uint64Hasher(u uint64) uint64 { return u }

// Stats reports cache effectiveness counters.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// LRU is a thread-safe, sharded least-recently-used cache.
type LRU[K comparable, V any] struct {
	shards   [shardCount]*shard[K, V]
	hasher   Hasher[K]
	capacity int // per shard

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shard[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*node[K, V]
	// Intrusive doubly linked list, most recent at head.
	head, tail *node[K, V]
}

type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// New creates a sharded LRU with the given per-shard capacity. A capacity
// of 0 or less uses DefaultCapacity.
func New[K comparable, V any](capacity int, hasher Hasher[K]) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &LRU[K, V]{hasher: hasher, capacity: capacity}
	for i := range c.shards {
		c.shards[i] = &shard[K, V]{entries: make(map[K]*node[K, V])}
	}
	return c
}

func (c *LRU[K, V]) shardFor(key K) *shard[K, V] {
	return c.shards[c.hasher(key)&shardMask]
}

// Get retrieves a cached value, marking it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	s := c.shardFor(key)
	s.mu.Lock()
	n, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	s.moveToFront(n)
	v := n.value
	s.mu.Unlock()
	c.hits.Add(1)
	return v, true
}

// Set stores a value, evicting the oldest entries past capacity. The value
// is stored as-is; callers must not mutate it after caching.
func (c *LRU[K, V]) Set(key K, value V) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		n.value = value
		s.moveToFront(n)
		return
	}

	for len(s.entries) >= c.capacity {
		if !s.evictOldest() {
			break
		}
		c.evictions.Add(1)
	}

	n := &node[K, V]{key: key, value: value}
	s.entries[key] = n
	s.pushFront(n)
}

// GetOrCreate returns the cached value or creates and caches it. The create
// function runs with the shard lock held, preventing duplicate computation
// of the same key; keep it fast.
func (c *LRU[K, V]) GetOrCreate(key K, create func() V) V {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.entries[key]; ok {
		s.moveToFront(n)
		c.hits.Add(1)
		return n.value
	}

	c.misses.Add(1)
	value := create()

	for len(s.entries) >= c.capacity {
		if !s.evictOldest() {
			break
		}
		c.evictions.Add(1)
	}

	n := &node[K, V]{key: key, value: value}
	s.entries[key] = n
	s.pushFront(n)
	return value
}

// Delete removes an entry, reporting whether it existed.
func (c *LRU[K, V]) Delete(key K) bool {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.entries[key]
	if !ok {
		return false
	}
	s.unlink(n)
	delete(s.entries, key)
	return true
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.entries = make(map[K]*node[K, V])
		s.head, s.tail = nil, nil
		s.mu.Unlock()
	}
}

// Len returns the total number of entries across all shards.
func (c *LRU[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Stats returns current cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Len:       c.Len(),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// List management. All methods require the shard lock.

func (s *shard[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

func (s *shard[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (s *shard[K, V]) moveToFront(n *node[K, V]) {
	if s.head == n {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

func (s *shard[K, V]) evictOldest() bool {
	if s.tail == nil {
		return false
	}
	oldest := s.tail
	s.unlink(oldest)
	delete(s.entries, oldest.key)
	return true
}
