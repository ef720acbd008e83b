package motor

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const cacheShardCount = 256

// NoOpCache never stores anything; every lookup is a miss.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(key string) (int64, bool) {
	return 0, false
}

func (c *NoOpCache) Put(key string, value int64) {}

func (c *NoOpCache) Clear() {}

func (c *NoOpCache) Size() int {
	return 0
}

// ShardedCache is an unbounded size cache owned by one simulation run. It
// grows for the lifetime of the run and is dropped with it.
type ShardedCache struct {
	shards [cacheShardCount]*cacheShard
}

type cacheShard struct {
	table map[string]int64
	mu    sync.RWMutex
}

func NewShardedCache() *ShardedCache {
	c := &ShardedCache{}
	for i := range c.shards {
		c.shards[i] = &cacheShard{table: make(map[string]int64)}
	}
	return c
}

// uses 256 shards with xxhash distribution to minimize lock contention between workers
func (c *ShardedCache) shard(key string) *cacheShard {
	return c.shards[xxhash.Sum64String(key)%cacheShardCount]
}

func (c *ShardedCache) Get(key string) (int64, bool) {
	s := c.shard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.table[key]
	return v, ok
}

func (c *ShardedCache) Put(key string, value int64) {
	s := c.shard(key)
	s.mu.Lock()
	s.table[key] = value
	s.mu.Unlock()
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. compute runs outside the lock, so two workers racing on the same
// key may both compute; the first stored value wins and is returned to both.
func (c *ShardedCache) GetOrCompute(key string, compute func() (int64, error)) (int64, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		return 0, err
	}

	// double-checked: another worker may have stored the key meanwhile
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.table[key]; ok {
		return existing, nil
	}
	s.table[key] = v
	return v, nil
}

func (c *ShardedCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		s.table = make(map[string]int64)
		s.mu.Unlock()
	}
}

func (c *ShardedCache) Size() int {
	size := 0
	for _, s := range c.shards {
		s.mu.RLock()
		size += len(s.table)
		s.mu.RUnlock()
	}
	return size
}
