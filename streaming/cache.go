package streaming

import (
	"github.com/dgraph-io/ristretto"
	"github.com/onuse/cubeworld/cubesphere"
)

// ClientCache is the client-side cache of received, decompressed chunk
// voxel data, backed by ristretto for admission-aware eviction instead
// of the arbitrary-oldest-key eviction a plain map would need.
type ClientCache struct {
	cache *ristretto.Cache
}

// NewClientCache returns a cache sized for maxCached chunk entries.
func NewClientCache(maxCached int64) (*ClientCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCached * 10,
		MaxCost:     maxCached,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &ClientCache{cache: cache}, nil
}

// Insert stores data for addr, costed at 1 entry.
func (c *ClientCache) Insert(addr cubesphere.ChunkAddress, data []byte) {
	c.cache.Set(addr, data, 1)
}

// Get retrieves cached chunk data for addr.
func (c *ClientCache) Get(addr cubesphere.ChunkAddress) ([]byte, bool) {
	v, ok := c.cache.Get(addr)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Contains reports whether addr is cached.
func (c *ClientCache) Contains(addr cubesphere.ChunkAddress) bool {
	_, ok := c.cache.Get(addr)
	return ok
}
