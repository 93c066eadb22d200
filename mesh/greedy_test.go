package mesh

import (
	"testing"

	"github.com/onuse/cubeworld/voxel"
)

func TestGreedyMeshEmptyChunkProducesNoGeometry(t *testing.T) {
	n := uniformNeighborhood(voxel.Air)
	reg := voxel.NewTypeRegistry(nil)
	m := GreedyMesh(n, reg, 0)
	if len(m.Vertices) != 0 || len(m.Indices) != 0 {
		t.Fatalf("expected empty mesh for all-air chunk, got %d verts", len(m.Vertices))
	}
}

func TestGreedyMeshSolidChunkSurroundedBySolidProducesNoGeometry(t *testing.T) {
	n := Neighborhood{Center: voxel.NewChunkData(1)}
	for i := range n.Neighbors {
		n.Neighbors[i] = voxel.NewChunkData(1)
	}
	reg := voxel.NewTypeRegistry([]voxel.TypeInfo{{}, {Solid: true, Transparency: voxel.Opaque}})
	m := GreedyMesh(n, reg, 0)
	if len(m.Vertices) != 0 {
		t.Fatalf("expected no visible faces when fully enclosed, got %d verts", len(m.Vertices))
	}
}

func TestGreedyMeshSolidChunkInAirProducesSixFaces(t *testing.T) {
	n := uniformNeighborhood(1)
	reg := voxel.NewTypeRegistry([]voxel.TypeInfo{{}, {Solid: true, Transparency: voxel.Opaque}})
	m := GreedyMesh(n, reg, 0)
	if len(m.Vertices) == 0 {
		t.Fatalf("expected visible faces for solid chunk exposed to air")
	}
	// Each of the 6 directions greedy-merges its entire 32x32 face
	// into a single quad (4 verts, 2 tris) since the chunk is uniform.
	if len(m.Vertices) != 6*4 {
		t.Fatalf("expected 6 merged quads (24 verts), got %d", len(m.Vertices))
	}
	if len(m.Indices) != 6*6 {
		t.Fatalf("expected 6 merged quads (36 indices), got %d", len(m.Indices))
	}
}
