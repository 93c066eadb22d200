// Package mesh implements the asynchronous chunk-to-mesh pipeline:
// greedy meshing with per-vertex ambient occlusion, run by a bounded
// worker pool that the owning context feeds snapshots into and drains
// results from once per tick.
package mesh

import (
	"github.com/onuse/cubeworld/cubesphere"
	"github.com/onuse/cubeworld/voxel"
)

// FaceDir is one of the six cardinal mesh directions a chunk is swept
// along during greedy meshing.
type FaceDir int

const (
	DirPosX FaceDir = iota
	DirNegX
	DirPosY
	DirNegY
	DirPosZ
	DirNegZ
)

// Vertex is one emitted mesh vertex: position (chunk-local, in voxel
// units), the voxel type it belongs to, its ambient-occlusion value
// (0..3), and the face direction it was swept from.
type Vertex struct {
	Pos      [3]float32
	VoxelID  voxel.TypeID
	AO       uint8
	FaceDir  FaceDir
}

// Mesh is an opaque vertex+index buffer, consumed by the renderer.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Neighborhood is an owned, self-contained snapshot of one chunk and
// its six face-adjacent neighbors, handed to a worker so workers never
// touch live world state.
type Neighborhood struct {
	Center    *voxel.ChunkData
	Neighbors [6]*voxel.ChunkData // indexed by FaceDir
}

// Task is one unit of meshing work submitted to the pipeline.
type Task struct {
	Addr         cubesphere.ChunkAddress
	Neighborhood Neighborhood
	DataVersion  uint64
	Registry     *voxel.TypeRegistry
}

// Result is what a worker produces for a Task. Callers compare
// DataVersion against the chunk manager's current version to detect
// and discard stale results — this is the pipeline's only
// cancellation mechanism.
type Result struct {
	Addr        cubesphere.ChunkAddress
	Mesh        Mesh
	DataVersion uint64
}
