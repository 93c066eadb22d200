package lod

import (
	"testing"

	"github.com/onuse/cubeworld/cubesphere"
)

func TestIsOverBudgetAndOverage(t *testing.T) {
	tracker := NewBudgetTracker(BudgetConfig{VoxelBudget: 100, MeshBudget: 100})
	addr := cubesphere.ChunkAddress{X: 1}
	tracker.OnChunkLoaded(addr, ChunkMemoryUsage{VoxelBytes: 150, MeshBytes: 50})

	if !tracker.IsOverBudget() {
		t.Fatalf("expected over budget")
	}
	if tracker.VoxelOverage() != 50 {
		t.Fatalf("voxel overage = %d, want 50", tracker.VoxelOverage())
	}
	if tracker.MeshOverage() != 0 {
		t.Fatalf("mesh overage = %d, want 0", tracker.MeshOverage())
	}
}

func TestOnChunkLoadedReplacesPriorUsage(t *testing.T) {
	tracker := NewBudgetTracker(DefaultBudgetConfig())
	addr := cubesphere.ChunkAddress{X: 1}
	tracker.OnChunkLoaded(addr, ChunkMemoryUsage{VoxelBytes: 1000})
	tracker.OnChunkLoaded(addr, ChunkMemoryUsage{VoxelBytes: 500})
	if tracker.Usage(addr).VoxelBytes != 500 {
		t.Fatalf("expected replaced usage 500, got %d", tracker.Usage(addr).VoxelBytes)
	}
}

func TestSelectEvictionsPopsLowestPriorityFirst(t *testing.T) {
	tracker := NewBudgetTracker(BudgetConfig{VoxelBudget: 100, MeshBudget: 1000})
	a := cubesphere.ChunkAddress{X: 1}
	b := cubesphere.ChunkAddress{X: 2}
	c := cubesphere.ChunkAddress{X: 3}
	tracker.OnChunkLoaded(a, ChunkMemoryUsage{VoxelBytes: 60})
	tracker.OnChunkLoaded(b, ChunkMemoryUsage{VoxelBytes: 60})
	tracker.OnChunkLoaded(c, ChunkMemoryUsage{VoxelBytes: 60})

	priorities := map[cubesphere.ChunkAddress]float64{a: 5.0, b: 1.0, c: 3.0}
	evictions := SelectEvictions(tracker, priorities)
	if len(evictions) == 0 {
		t.Fatalf("expected some evictions")
	}
	if evictions[0] != b {
		t.Fatalf("expected lowest-priority chunk b evicted first, got %v", evictions[0])
	}
}

func TestSelectEvictionsMissingPriorityDefaultsToZero(t *testing.T) {
	tracker := NewBudgetTracker(BudgetConfig{VoxelBudget: 10, MeshBudget: 1000})
	a := cubesphere.ChunkAddress{X: 1}
	b := cubesphere.ChunkAddress{X: 2}
	tracker.OnChunkLoaded(a, ChunkMemoryUsage{VoxelBytes: 20})
	tracker.OnChunkLoaded(b, ChunkMemoryUsage{VoxelBytes: 20})

	evictions := SelectEvictions(tracker, map[cubesphere.ChunkAddress]float64{a: 5.0})
	if evictions[0] != b {
		t.Fatalf("expected chunk with default priority 0 evicted first, got %v", evictions[0])
	}
}

func TestSelectEvictionsNoneWhenUnderBudget(t *testing.T) {
	tracker := NewBudgetTracker(DefaultBudgetConfig())
	tracker.OnChunkLoaded(cubesphere.ChunkAddress{X: 1}, ChunkMemoryUsage{VoxelBytes: 10})
	if evictions := SelectEvictions(tracker, nil); evictions != nil {
		t.Fatalf("expected no evictions when under budget, got %v", evictions)
	}
}
