package mesh

import "github.com/onuse/cubeworld/voxel"

// voxelAt returns the voxel at (x,y,z) extended one cell past a
// chunk's boundary into n.Neighbors, or the center chunk itself when
// still in range.
func (n Neighborhood) voxelAt(x, y, z int) voxel.TypeID {
	const size = voxel.ChunkSize
	switch {
	case x < 0:
		return n.Neighbors[DirNegX].Get(size-1, clamp(y), clamp(z))
	case x >= size:
		return n.Neighbors[DirPosX].Get(0, clamp(y), clamp(z))
	case y < 0:
		return n.Neighbors[DirNegY].Get(clamp(x), size-1, clamp(z))
	case y >= size:
		return n.Neighbors[DirPosY].Get(clamp(x), 0, clamp(z))
	case z < 0:
		return n.Neighbors[DirNegZ].Get(clamp(x), clamp(y), size-1)
	case z >= size:
		return n.Neighbors[DirPosZ].Get(clamp(x), clamp(y), 0)
	default:
		return n.Center.Get(x, y, z)
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v >= voxel.ChunkSize {
		return voxel.ChunkSize - 1
	}
	return v
}

// faceVisible reports whether the face of voxel `self` pointing at
// neighbor `other` should be emitted: the neighbor is air, or self is
// transparent and other differs, or self is opaque and other is
// transparent.
func faceVisible(reg *voxel.TypeRegistry, self, other voxel.TypeID) bool {
	if other == voxel.Air {
		return true
	}
	selfInfo := reg.Info(self)
	otherInfo := reg.Info(other)
	if selfInfo.Transparency != voxel.Opaque && self != other {
		return true
	}
	if selfInfo.Transparency == voxel.Opaque && otherInfo.Transparency != voxel.Opaque {
		return true
	}
	return false
}

// GreedyMesh runs greedy meshing with ambient occlusion over a chunk
// neighborhood at the given registry, one pass per of the six face
// directions, building one Mesh for the chunk at lod (0 = finest;
// N = 32 >> lod per axis, with vertex positions scaled by 2^lod so
// the mesh occupies the same world extent regardless of LOD).
func GreedyMesh(n Neighborhood, reg *voxel.TypeRegistry, lod uint8) Mesh {
	resolution := voxel.ChunkSize >> lod
	if resolution < 1 {
		resolution = 1
	}
	scale := float32(int(1) << lod)

	var out Mesh
	for dir := DirPosX; dir <= DirNegZ; dir++ {
		meshDirection(&out, n, reg, dir, resolution, scale)
	}
	return out
}

type axisMap struct {
	u, v, w int // which of x,y,z map to sweep-u, sweep-v, sweep-layer
	sign    int
}

var dirAxes = map[FaceDir]axisMap{
	DirPosX: {u: 1, v: 2, w: 0, sign: 1},
	DirNegX: {u: 1, v: 2, w: 0, sign: -1},
	DirPosY: {u: 0, v: 2, w: 1, sign: 1},
	DirNegY: {u: 0, v: 2, w: 1, sign: -1},
	DirPosZ: {u: 0, v: 1, w: 2, sign: 1},
	DirNegZ: {u: 0, v: 1, w: 2, sign: -1},
}

func meshDirection(out *Mesh, n Neighborhood, reg *voxel.TypeRegistry, dir FaceDir, resolution int, scale float32) {
	axes := dirAxes[dir]
	step := 1 << uint(lodShift(resolution))

	visited := make([][]bool, resolution)
	for i := range visited {
		visited[i] = make([]bool, resolution)
	}

	for layer := 0; layer < resolution; layer++ {
		for i := range visited {
			for j := range visited[i] {
				visited[i][j] = false
			}
		}
		for vi := 0; vi < resolution; vi++ {
			for ui := 0; ui < resolution; ui++ {
				if visited[ui][vi] {
					continue
				}
				pos := coordFor(axes, ui*step, vi*step, layer*step)
				self := n.Center.Get(pos[0], pos[1], pos[2])
				if self == voxel.Air {
					visited[ui][vi] = true
					continue
				}
				neighborPos := coordFor(axes, ui*step, vi*step, layer*step)
				neighborPos[axes.w] += axes.sign * step
				other := n.voxelAt(neighborPos[0], neighborPos[1], neighborPos[2])
				if !faceVisible(reg, self, other) {
					visited[ui][vi] = true
					continue
				}

				aos := [4]uint8{
					computeAO(n, axes, dir, ui*step, vi*step, layer*step, 0),
					computeAO(n, axes, dir, ui*step, vi*step, layer*step, 1),
					computeAO(n, axes, dir, ui*step, vi*step, layer*step, 2),
					computeAO(n, axes, dir, ui*step, vi*step, layer*step, 3),
				}

				// Extend width in u while coalescible.
				w := 1
				for ui+w < resolution && !visited[ui+w][vi] && canMerge(n, reg, axes, dir, (ui+w)*step, vi*step, layer*step, self, aos) {
					w++
				}
				// Extend height in v while the whole width-w row
				// coalesces.
				h := 1
			extendV:
				for vi+h < resolution {
					for k := 0; k < w; k++ {
						if visited[ui+k][vi+h] || !canMerge(n, reg, axes, dir, (ui+k)*step, (vi+h)*step, layer*step, self, aos) {
							break extendV
						}
					}
					h++
				}

				for du := 0; du < w; du++ {
					for dv := 0; dv < h; dv++ {
						visited[ui+du][vi+dv] = true
					}
				}

				emitQuad(out, axes, dir, ui, vi, layer, w, h, step, scale, self, aos)
			}
		}
	}
}

func lodShift(resolution int) int {
	if resolution >= voxel.ChunkSize {
		return 0
	}
	shift := 0
	for (voxel.ChunkSize >> shift) > resolution {
		shift++
	}
	return shift
}

func coordFor(axes axisMap, u, v, w int) [3]int {
	var c [3]int
	c[axes.u] = u
	c[axes.v] = v
	c[axes.w] = w
	return c
}

func canMerge(n Neighborhood, reg *voxel.TypeRegistry, axes axisMap, dir FaceDir, u, v, w int, want voxel.TypeID, wantAO [4]uint8) bool {
	pos := coordFor(axes, u, v, w)
	self := n.Center.Get(pos[0], pos[1], pos[2])
	if self != want {
		return false
	}
	neighborPos := pos
	neighborPos[axes.w] += axes.sign
	other := n.voxelAt(neighborPos[0], neighborPos[1], neighborPos[2])
	if !faceVisible(reg, self, other) {
		return false
	}
	ao := [4]uint8{
		computeAO(n, axes, dir, u, v, w, 0),
		computeAO(n, axes, dir, u, v, w, 1),
		computeAO(n, axes, dir, u, v, w, 2),
		computeAO(n, axes, dir, u, v, w, 3),
	}
	return ao == wantAO
}

// computeAO computes the ambient-occlusion value (0..3) for corner
// `corner` of the quad at (u,v,w) facing dir: value is 3 if both side
// voxels are solid, else the count of solid cells among the two sides
// and the diagonal corner.
func computeAO(n Neighborhood, axes axisMap, dir FaceDir, u, v, w, corner int) uint8 {
	du, dv := cornerOffsets(corner)
	facePos := coordFor(axes, u, v, w)
	facePos[axes.w] += axes.sign

	side1 := facePos
	side1[axes.u] += du
	side2 := facePos
	side2[axes.v] += dv
	diag := facePos
	diag[axes.u] += du
	diag[axes.v] += dv

	s1 := n.voxelAt(side1[0], side1[1], side1[2]) != voxel.Air
	s2 := n.voxelAt(side2[0], side2[1], side2[2]) != voxel.Air
	d := n.voxelAt(diag[0], diag[1], diag[2]) != voxel.Air

	if s1 && s2 {
		return 3
	}
	count := 0
	if s1 {
		count++
	}
	if s2 {
		count++
	}
	if d {
		count++
	}
	return uint8(count)
}

func cornerOffsets(corner int) (du, dv int) {
	switch corner {
	case 0:
		return -1, -1
	case 1:
		return 1, -1
	case 2:
		return 1, 1
	default:
		return -1, 1
	}
}

func emitQuad(out *Mesh, axes axisMap, dir FaceDir, u, v, layer, w, h, step int, scale float32, voxelID voxel.TypeID, ao [4]uint8) {
	base := uint32(len(out.Vertices))

	corners := [4][2]int{{u, v}, {u + w, v}, {u + w, v + h}, {u, v + h}}
	// Quad-diagonal flip: when ao[0]+ao[2] > ao[1]+ao[3], the split
	// stays continuous by reordering so the diagonal follows the
	// flatter AO gradient. The index buffer below always triangulates
	// 0-1-2, 0-2-3 of whatever corner order is supplied, so flipping
	// here reorders which corners occupy slots 0..3.
	if int(ao[0])+int(ao[2]) > int(ao[1])+int(ao[3]) {
		corners = [4][2]int{corners[1], corners[2], corners[3], corners[0]}
		ao = [4]uint8{ao[1], ao[2], ao[3], ao[0]}
	}

	for i, c := range corners {
		pos := coordFor(axes, c[0]*step, c[1]*step, layer*step)
		if axes.sign > 0 {
			pos[axes.w] += step
		}
		out.Vertices = append(out.Vertices, Vertex{
			// pos is already grid index times step (2^lod), which is the
			// LOD scaling; multiplying by scale again would double it.
			Pos:     [3]float32{float32(pos[0]), float32(pos[1]), float32(pos[2])},
			VoxelID: voxelID,
			AO:      ao[i],
			FaceDir: dir,
		})
	}
	out.Indices = append(out.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}
