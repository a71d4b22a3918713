package vectorize

import (
	"context"
	"encoding/json"
	"hash/fnv"

	"github.com/scribeware/chalk/cache"
)

// Memo wraps a Client with an LRU over (image bytes, tuning) so that the
// same source image is never vectorized twice in one authoring session.
type Memo struct {
	inner Client
	lru   *cache.LRU[uint64, []Polyline]
}

// NewMemo wraps inner with a cache of the given per-shard capacity.
func NewMemo(inner Client, capacity int) *Memo {
	return &Memo{
		inner: inner,
		lru:   cache.New[uint64, []Polyline](capacity, cache.Uint64Hasher),
	}
}

// Vectorize returns the cached result for identical inputs, delegating to
// the wrapped client on a miss. Failed calls are not cached, so transient
// fetch errors retry naturally.
func (m *Memo) Vectorize(ctx context.Context, imageBytes []byte, tuning Tuning) ([]Polyline, error) {
	key := memoKey(imageBytes, tuning)
	if polys, ok := m.lru.Get(key); ok {
		return polys, nil
	}

	polys, err := m.inner.Vectorize(ctx, imageBytes, tuning)
	if err != nil {
		return nil, err
	}
	m.lru.Set(key, polys)
	return polys, nil
}

// Stats exposes the underlying cache counters.
func (m *Memo) Stats() cache.Stats {
	return m.lru.Stats()
}

// memoKey hashes the image bytes together with the tuning block.
func memoKey(imageBytes []byte, tuning Tuning) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(imageBytes)
	if tb, err := json.Marshal(tuning); err == nil {
		_, _ = h.Write(tb)
	}
	return h.Sum64()
}
