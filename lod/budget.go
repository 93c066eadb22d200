// Package lod implements the per-chunk memory budget tracker and
// eviction policy, and the LOD transition crossfade state machine.
package lod

import "github.com/onuse/cubeworld/cubesphere"

// ChunkMemoryUsage is the estimated byte cost of one loaded chunk:
// its voxel storage and its current mesh.
type ChunkMemoryUsage struct {
	VoxelBytes uint64
	MeshBytes  uint64
}

// Total returns VoxelBytes + MeshBytes.
func (u ChunkMemoryUsage) Total() uint64 { return u.VoxelBytes + u.MeshBytes }

// EstimateUsage estimates a chunk's memory footprint from its LOD and
// current triangle count. Resolution halves per LOD level down to a
// floor of 32>>5; voxel storage is approximated at half a byte per
// voxel plus a fixed overhead; mesh storage approximates 20 bytes of
// vertex data and 4 bytes of index data per triangle's three corners.
func EstimateUsage(lodLevel uint8, triangleCount uint64) ChunkMemoryUsage {
	shift := lodLevel
	if shift > 5 {
		shift = 5
	}
	resolution := uint64(32 >> shift)
	voxelCount := resolution * resolution * resolution
	voxelBytes := voxelCount/2 + 64
	meshBytes := triangleCount*3*20 + triangleCount*3*4
	return ChunkMemoryUsage{VoxelBytes: voxelBytes, MeshBytes: meshBytes}
}

// BudgetConfig caps total voxel and mesh memory.
type BudgetConfig struct {
	VoxelBudget uint64
	MeshBudget  uint64
}

const (
	gb = 1 << 30
	mb = 1 << 20
)

// DefaultBudgetConfig: 2 GiB voxel budget, 1 GiB mesh budget.
func DefaultBudgetConfig() BudgetConfig { return BudgetConfig{VoxelBudget: 2 * gb, MeshBudget: 1 * gb} }

// LowBudgetConfig: 512 MiB voxel, 256 MiB mesh — constrained clients.
func LowBudgetConfig() BudgetConfig { return BudgetConfig{VoxelBudget: 512 * mb, MeshBudget: 256 * mb} }

// HighBudgetConfig: 4 GiB voxel, 2 GiB mesh — generous clients/servers.
func HighBudgetConfig() BudgetConfig { return BudgetConfig{VoxelBudget: 4 * gb, MeshBudget: 2 * gb} }

// BudgetTracker accumulates per-chunk memory usage against a
// BudgetConfig, tracking running totals so is_over_budget is O(1).
type BudgetTracker struct {
	Config           BudgetConfig
	chunkUsage       map[cubesphere.ChunkAddress]ChunkMemoryUsage
	totalVoxelBytes  uint64
	totalMeshBytes   uint64
}

// NewBudgetTracker returns an empty tracker under cfg.
func NewBudgetTracker(cfg BudgetConfig) *BudgetTracker {
	return &BudgetTracker{Config: cfg, chunkUsage: make(map[cubesphere.ChunkAddress]ChunkMemoryUsage)}
}

// OnChunkLoaded records (or replaces) the usage for addr, adjusting
// running totals by the delta from any prior usage at that address.
func (t *BudgetTracker) OnChunkLoaded(addr cubesphere.ChunkAddress, usage ChunkMemoryUsage) {
	if old, ok := t.chunkUsage[addr]; ok {
		t.totalVoxelBytes -= old.VoxelBytes
		t.totalMeshBytes -= old.MeshBytes
	}
	t.chunkUsage[addr] = usage
	t.totalVoxelBytes += usage.VoxelBytes
	t.totalMeshBytes += usage.MeshBytes
}

// OnChunkUnloaded removes addr's contribution to the running totals.
func (t *BudgetTracker) OnChunkUnloaded(addr cubesphere.ChunkAddress) {
	if old, ok := t.chunkUsage[addr]; ok {
		t.totalVoxelBytes -= old.VoxelBytes
		t.totalMeshBytes -= old.MeshBytes
		delete(t.chunkUsage, addr)
	}
}

// IsOverBudget reports whether either running total exceeds its
// budget.
func (t *BudgetTracker) IsOverBudget() bool {
	return t.totalVoxelBytes > t.Config.VoxelBudget || t.totalMeshBytes > t.Config.MeshBudget
}

// VoxelOverage returns how far over the voxel budget the tracker is
// (0 if under).
func (t *BudgetTracker) VoxelOverage() uint64 {
	return saturatingSub(t.totalVoxelBytes, t.Config.VoxelBudget)
}

// MeshOverage returns how far over the mesh budget the tracker is (0
// if under).
func (t *BudgetTracker) MeshOverage() uint64 {
	return saturatingSub(t.totalMeshBytes, t.Config.MeshBudget)
}

func saturatingSub(a, b uint64) uint64 {
	if a <= b {
		return 0
	}
	return a - b
}

// LoadedAddresses returns every address the tracker currently has
// usage recorded for.
func (t *BudgetTracker) LoadedAddresses() []cubesphere.ChunkAddress {
	out := make([]cubesphere.ChunkAddress, 0, len(t.chunkUsage))
	for a := range t.chunkUsage {
		out = append(out, a)
	}
	return out
}

// Usage returns the recorded usage for addr.
func (t *BudgetTracker) Usage(addr cubesphere.ChunkAddress) ChunkMemoryUsage {
	return t.chunkUsage[addr]
}
