package lod

import (
	"sort"

	"github.com/onuse/cubeworld/cubesphere"
)

// SelectEvictions returns the chunks to evict from tracker to bring
// both voxel and mesh usage back under budget, given a priority map
// (missing entries default to 0.0, evicted first). Chunks are sorted
// ascending by priority and popped until the cumulative freed bytes
// meet both overage targets. Returns nil if tracker is not over
// budget.
func SelectEvictions(tracker *BudgetTracker, priorities map[cubesphere.ChunkAddress]float64) []cubesphere.ChunkAddress {
	if !tracker.IsOverBudget() {
		return nil
	}
	voxelTarget := tracker.VoxelOverage()
	meshTarget := tracker.MeshOverage()

	addrs := tracker.LoadedAddresses()
	sort.Slice(addrs, func(i, j int) bool {
		return priorities[addrs[i]] < priorities[addrs[j]]
	})

	var evictions []cubesphere.ChunkAddress
	var freedVoxel, freedMesh uint64
	for _, addr := range addrs {
		if freedVoxel >= voxelTarget && freedMesh >= meshTarget {
			break
		}
		usage := tracker.Usage(addr)
		freedVoxel += usage.VoxelBytes
		freedMesh += usage.MeshBytes
		evictions = append(evictions, addr)
	}
	return evictions
}
