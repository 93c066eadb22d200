package voxel

import (
	"sync"

	"github.com/onuse/cubeworld/cubesphere"
)

// DirtyFlags tracks which downstream consumers need to revisit a
// chunk: save-dirty (needs persisting), mesh-dirty (needs remeshing),
// collision-dirty (needs its collider rebuilt).
type DirtyFlags struct {
	Save      bool
	Mesh      bool
	Collision bool
}

// EditEvent is recorded whenever a chunk's contents change, consumed
// by the meshing and physics pipelines once per tick.
type EditEvent struct {
	Addr cubesphere.ChunkAddress
}

// ChunkManager owns the authoritative ChunkAddress -> ChunkData map,
// per-chunk dirty flags, and a data_version counter per chunk used by
// the meshing pipeline to detect stale in-flight work.
type ChunkManager struct {
	mu       sync.RWMutex
	chunks   map[cubesphere.ChunkAddress]*ChunkData
	dirty    map[cubesphere.ChunkAddress]DirtyFlags
	versions map[cubesphere.ChunkAddress]uint64
	events   []EditEvent
}

// NewChunkManager returns an empty manager.
func NewChunkManager() *ChunkManager {
	return &ChunkManager{
		chunks:   make(map[cubesphere.ChunkAddress]*ChunkData),
		dirty:    make(map[cubesphere.ChunkAddress]DirtyFlags),
		versions: make(map[cubesphere.ChunkAddress]uint64),
	}
}

// LoadChunk inserts chunk at addr, replacing any existing chunk there.
func (m *ChunkManager) LoadChunk(addr cubesphere.ChunkAddress, chunk *ChunkData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[addr] = chunk
	m.versions[addr]++
}

// UnloadChunk removes addr from the manager, returning whether it had
// unsaved (save-dirty) data.
func (m *ChunkManager) UnloadChunk(addr cubesphere.ChunkAddress) (wasDirty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wasDirty = m.dirty[addr].Save
	delete(m.chunks, addr)
	delete(m.dirty, addr)
	delete(m.versions, addr)
	return wasDirty
}

// Chunk returns the chunk at addr, or nil if not loaded.
func (m *ChunkManager) Chunk(addr cubesphere.ChunkAddress) *ChunkData {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chunks[addr]
}

// IsLoaded reports whether addr currently has a loaded chunk.
func (m *ChunkManager) IsLoaded(addr cubesphere.ChunkAddress) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.chunks[addr]
	return ok
}

// LoadedAddresses returns a snapshot of every currently loaded
// address.
func (m *ChunkManager) LoadedAddresses() []cubesphere.ChunkAddress {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]cubesphere.ChunkAddress, 0, len(m.chunks))
	for a := range m.chunks {
		out = append(out, a)
	}
	return out
}

// DataVersion returns the current change counter for addr, used by
// the meshing pipeline to detect that in-flight work has gone stale.
func (m *ChunkManager) DataVersion(addr cubesphere.ChunkAddress) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[addr]
}

// MarkEdited records that a voxel write occurred at addr: bumps the
// data version, sets all three dirty flags, and appends an edit event
// for this tick's consumers.
func (m *ChunkManager) MarkEdited(addr cubesphere.ChunkAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[addr]++
	d := m.dirty[addr]
	d.Save, d.Mesh, d.Collision = true, true, true
	m.dirty[addr] = d
	m.events = append(m.events, EditEvent{Addr: addr})
}

// DrainEvents returns and clears the accumulated edit events, for the
// meshing and physics pipelines to consume once per tick.
func (m *ChunkManager) DrainEvents() []EditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.events
	m.events = nil
	return events
}

// ClearMeshDirty clears addr's Mesh flag (e.g. after a successful
// remesh); the Save and Collision flags are left as they are.
func (m *ChunkManager) ClearMeshDirty(addr cubesphere.ChunkAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.dirty[addr]
	d.Mesh = false
	m.dirty[addr] = d
}

// Dirty returns the current dirty flags for addr.
func (m *ChunkManager) Dirty(addr cubesphere.ChunkAddress) DirtyFlags {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirty[addr]
}
