package cubesphere

// MaxLOD is the finest-to-coarsest LOD span: LOD 0 is finest detail,
// MaxLOD is the single chunk covering the whole face.
const MaxLOD = 20

// ChunkAddress identifies one chunk: a face, an LOD, a quadtree cell
// (X,Y) within that face at that LOD, and a radial shell index Z that
// is independent of the face subdivision (voxel chunks extend above
// and below the nominal sphere surface).
type ChunkAddress struct {
	Face CubeFace
	Lod  uint8
	X, Y int32
	Z    int32
}

// GridSize returns the per-axis chunk count of a face's quadtree grid
// at the given LOD: 2^(MaxLOD-lod). LOD 0 is finest.
func GridSize(lod uint8) int32 {
	if int(lod) > MaxLOD {
		panic("cubesphere: negative or out-of-range chunk LOD")
	}
	return 1 << uint(MaxLOD-int(lod))
}

// UVBounds returns the UV rectangle this chunk address covers on its
// face: [x*s, (x+1)*s] x [y*s, (y+1)*s] where s = 1/GridSize(lod).
func (a ChunkAddress) UVBounds() (u0, v0, u1, v1 float64) {
	grid := float64(GridSize(a.Lod))
	s := 1.0 / grid
	return float64(a.X) * s, float64(a.Y) * s, float64(a.X+1) * s, float64(a.Y+1) * s
}

// AllDirections enumerates the four same-face step directions, reusing
// Edge as the direction vocabulary: stepping "East" moves toward the
// face's East edge.
var AllDirections = [4]Edge{North, South, East, West}

// SameFaceResult is the result of a same-face neighbor query.
type SameFaceResult struct {
	Addr    ChunkAddress
	OffFace bool
}

// SameFaceNeighbor steps addr by one grid cell toward dir, at the same
// LOD and face. Returns OffFace precisely when the step would leave
// [0, GridSize).
func (a ChunkAddress) SameFaceNeighbor(dir Edge) SameFaceResult {
	grid := GridSize(a.Lod)
	nx, ny := a.X, a.Y
	switch dir {
	case West:
		nx--
	case East:
		nx++
	case South:
		ny--
	case North:
		ny++
	}
	if nx < 0 || nx >= grid || ny < 0 || ny >= grid {
		return SameFaceResult{OffFace: true}
	}
	return SameFaceResult{Addr: ChunkAddress{Face: a.Face, Lod: a.Lod, X: nx, Y: ny, Z: a.Z}}
}

// CrossFaceNeighbor produces the adjacent chunk on the neighbor face
// for a direction that steps off the edge of a. It panics if a is not
// in fact at that edge (caller contract: only call this after
// SameFaceNeighbor reports OffFace).
func (a ChunkAddress) CrossFaceNeighbor(dir Edge) ChunkAddress {
	grid := GridSize(a.Lod)
	requireAtEdge(a, dir, grid)
	adj := FaceAdjacency(a.Face, dir)

	// Edge-parallel integer coordinate, flipped per the adjacency
	// entry using the same grid-1-minus rule as the UV transform.
	var t int32
	switch dir {
	case North, South:
		t = a.X
	case East, West:
		t = a.Y
	}
	if adj.Flipped {
		t = grid - 1 - t
	}

	var nx, ny int32
	switch adj.NeighborEdge {
	case North:
		nx, ny = t, grid-1
	case South:
		nx, ny = t, 0
	case East:
		nx, ny = grid-1, t
	case West:
		nx, ny = 0, t
	}
	return ChunkAddress{Face: adj.NeighborFace, Lod: a.Lod, X: nx, Y: ny, Z: a.Z}
}

// requireAtEdge panics (caller contract) if a is not positioned at the
// named edge of its face's grid.
func requireAtEdge(a ChunkAddress, dir Edge, grid int32) {
	ok := false
	switch dir {
	case West:
		ok = a.X == 0
	case East:
		ok = a.X == grid-1
	case South:
		ok = a.Y == 0
	case North:
		ok = a.Y == grid-1
	}
	if !ok {
		panic("cubesphere: cross-face neighbor queried for non-edge address")
	}
}
