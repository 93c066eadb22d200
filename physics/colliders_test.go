package physics

import (
	"testing"

	"github.com/onuse/cubeworld/cubesphere"
	"github.com/onuse/cubeworld/voxel"
)

type fakeBuilder struct {
	nextHandle ColliderHandle
	removed    []ColliderHandle
}

func (f *fakeBuilder) Build(chunk *voxel.ChunkData, registry *voxel.TypeRegistry) (ColliderHandle, bool) {
	hasSolid := false
	for z := 0; z < voxel.ChunkSize && !hasSolid; z++ {
		for y := 0; y < voxel.ChunkSize && !hasSolid; y++ {
			for x := 0; x < voxel.ChunkSize; x++ {
				if chunk.Get(x, y, z) != voxel.Air {
					hasSolid = true
					break
				}
			}
		}
	}
	if !hasSolid {
		return 0, false
	}
	f.nextHandle++
	return f.nextHandle, true
}

func (f *fakeBuilder) Remove(h ColliderHandle) {
	f.removed = append(f.removed, h)
}

func TestSyncEditsBuildsColliderForSolidChunk(t *testing.T) {
	mgr := voxel.NewChunkManager()
	addr := cubesphere.ChunkAddress{X: 1}
	chunk := voxel.NewChunkData(1) // uniform solid
	mgr.LoadChunk(addr, chunk)

	builder := &fakeBuilder{}
	colliders := NewChunkColliderMap(builder)
	colliders.SyncEdits([]voxel.EditEvent{{Addr: addr}}, mgr, nil)

	if _, ok := colliders.Handle(addr); !ok {
		t.Fatalf("expected a collider to be registered for a solid chunk")
	}
}

func TestSyncEditsSkipsEmptyChunk(t *testing.T) {
	mgr := voxel.NewChunkManager()
	addr := cubesphere.ChunkAddress{X: 2}
	mgr.LoadChunk(addr, voxel.NewChunkData(voxel.Air))

	builder := &fakeBuilder{}
	colliders := NewChunkColliderMap(builder)
	colliders.SyncEdits([]voxel.EditEvent{{Addr: addr}}, mgr, nil)

	if _, ok := colliders.Handle(addr); ok {
		t.Fatalf("expected no collider for an all-air chunk")
	}
}

func TestSyncEditsDedupesRepeatedEditsInOneTick(t *testing.T) {
	mgr := voxel.NewChunkManager()
	addr := cubesphere.ChunkAddress{X: 3}
	mgr.LoadChunk(addr, voxel.NewChunkData(1))

	builder := &fakeBuilder{}
	colliders := NewChunkColliderMap(builder)
	colliders.SyncEdits([]voxel.EditEvent{{Addr: addr}, {Addr: addr}, {Addr: addr}}, mgr, nil)

	if builder.nextHandle != 1 {
		t.Fatalf("expected a single rebuild for repeated edits to the same chunk, got %d builds", builder.nextHandle)
	}
}

func TestOnChunkUnloadedRemovesCollider(t *testing.T) {
	mgr := voxel.NewChunkManager()
	addr := cubesphere.ChunkAddress{X: 4}
	mgr.LoadChunk(addr, voxel.NewChunkData(1))

	builder := &fakeBuilder{}
	colliders := NewChunkColliderMap(builder)
	colliders.SyncEdits([]voxel.EditEvent{{Addr: addr}}, mgr, nil)
	colliders.OnChunkUnloaded(addr)

	if _, ok := colliders.Handle(addr); ok {
		t.Fatalf("expected collider to be removed after unload")
	}
	if len(builder.removed) != 1 {
		t.Fatalf("expected Remove to be called once, got %d", len(builder.removed))
	}
}
