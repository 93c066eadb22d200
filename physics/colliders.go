package physics

import (
	"sync"

	"github.com/onuse/cubeworld/cubesphere"
	"github.com/onuse/cubeworld/voxel"
)

// ColliderHandle identifies one sparse-voxel collider registered with
// the rigid-body engine. The engine itself is an external
// collaborator; this package only tracks which chunk owns which
// handle so it can be rebuilt or removed.
type ColliderHandle uint64

// ColliderBuilder constructs a collider handle from a chunk's current
// voxel data, or reports that the chunk is entirely air (no collider
// needed). The rigid-body engine supplies the real implementation.
type ColliderBuilder interface {
	Build(chunk *voxel.ChunkData, registry *voxel.TypeRegistry) (ColliderHandle, bool)
	Remove(handle ColliderHandle)
}

// ChunkColliderMap keeps one collider per loaded chunk with any solid
// voxel, rebuilding it whenever the chunk's voxel data changes and
// removing it when the chunk unloads.
type ChunkColliderMap struct {
	mu       sync.Mutex
	builder  ColliderBuilder
	colliders map[cubesphere.ChunkAddress]ColliderHandle
}

// NewChunkColliderMap returns an empty collider map backed by builder.
func NewChunkColliderMap(builder ColliderBuilder) *ChunkColliderMap {
	return &ChunkColliderMap{
		builder:   builder,
		colliders: make(map[cubesphere.ChunkAddress]ColliderHandle),
	}
}

// SyncEdits processes this tick's voxel edit events: for each
// distinct dirty chunk, removes any existing collider and rebuilds it
// from current voxel data. Chunks with no solid voxel get no
// collider. Multiple edits to the same chunk in one tick collapse to
// a single rebuild.
func (c *ChunkColliderMap) SyncEdits(events []voxel.EditEvent, mgr *voxel.ChunkManager, registry *voxel.TypeRegistry) {
	seen := make(map[cubesphere.ChunkAddress]struct{}, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Addr]; ok {
			continue
		}
		seen[ev.Addr] = struct{}{}
		c.rebuild(ev.Addr, mgr, registry)
	}
}

func (c *ChunkColliderMap) rebuild(addr cubesphere.ChunkAddress, mgr *voxel.ChunkManager, registry *voxel.TypeRegistry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.colliders[addr]; ok {
		c.builder.Remove(old)
		delete(c.colliders, addr)
	}

	chunk := mgr.Chunk(addr)
	if chunk == nil {
		return
	}
	handle, hasSolid := c.builder.Build(chunk, registry)
	if hasSolid {
		c.colliders[addr] = handle
	}
}

// OnChunkUnloaded removes addr's collider, if it has one.
func (c *ChunkColliderMap) OnChunkUnloaded(addr cubesphere.ChunkAddress) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if h, ok := c.colliders[addr]; ok {
		c.builder.Remove(h)
		delete(c.colliders, addr)
	}
}

// Handle returns addr's current collider handle, if any.
func (c *ChunkColliderMap) Handle(addr cubesphere.ChunkAddress) (ColliderHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.colliders[addr]
	return h, ok
}
