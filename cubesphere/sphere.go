package cubesphere

import "math"

// faceBasis gives the outward normal and the (u-axis, v-axis) tangent
// directions used to walk a face's UV square out into 3D, matching
// the basis used to derive adjacencyTable.
type faceBasis struct {
	normal, uAxis, vAxis [3]float64
}

var faceBases = map[CubeFace]faceBasis{
	PosX: {normal: [3]float64{1, 0, 0}, uAxis: [3]float64{0, 0, 1}, vAxis: [3]float64{0, 1, 0}},
	NegX: {normal: [3]float64{-1, 0, 0}, uAxis: [3]float64{0, 0, -1}, vAxis: [3]float64{0, 1, 0}},
	PosY: {normal: [3]float64{0, 1, 0}, uAxis: [3]float64{1, 0, 0}, vAxis: [3]float64{0, 0, -1}},
	NegY: {normal: [3]float64{0, -1, 0}, uAxis: [3]float64{1, 0, 0}, vAxis: [3]float64{0, 0, 1}},
	PosZ: {normal: [3]float64{0, 0, 1}, uAxis: [3]float64{1, 0, 0}, vAxis: [3]float64{0, 1, 0}},
	NegZ: {normal: [3]float64{0, 0, -1}, uAxis: [3]float64{-1, 0, 0}, vAxis: [3]float64{0, 1, 0}},
}

// ToUnitSphere maps a FaceCoord to a point on the unit sphere: project
// the face's UV square out to the cube surface, then normalize. This is
// the plain normalized-cube projection; it is not the Everitt
// area-correcting mapping, and no warp is applied to u or v before
// projecting. Continuous across face edges — two
// parameterizations of the same physical edge map to the same 3D
// point, by construction of faceBases/adjacencyTable.
func ToUnitSphere(fc FaceCoord) [3]float64 {
	b := faceBases[fc.Face]
	s := 2*fc.U - 1
	t := 2*fc.V - 1
	x := b.normal[0] + s*b.uAxis[0] + t*b.vAxis[0]
	y := b.normal[1] + s*b.uAxis[1] + t*b.vAxis[1]
	z := b.normal[2] + s*b.uAxis[2] + t*b.vAxis[2]
	length := math.Sqrt(x*x + y*y + z*z)
	return [3]float64{x / length, y / length, z / length}
}

// FromUnitSphere is the inverse of ToUnitSphere: given a point on the
// unit sphere, determines which face it projects onto (the axis of
// largest magnitude) and its UV coordinates on that face.
func FromUnitSphere(dir [3]float64) FaceCoord {
	ax, ay, az := math.Abs(dir[0]), math.Abs(dir[1]), math.Abs(dir[2])
	var face CubeFace
	switch {
	case ax >= ay && ax >= az:
		if dir[0] >= 0 {
			face = PosX
		} else {
			face = NegX
		}
	case ay >= ax && ay >= az:
		if dir[1] >= 0 {
			face = PosY
		} else {
			face = NegY
		}
	default:
		if dir[2] >= 0 {
			face = PosZ
		} else {
			face = NegZ
		}
	}

	b := faceBases[face]
	normalMag := dir[0]*b.normal[0] + dir[1]*b.normal[1] + dir[2]*b.normal[2]
	// Project the cube point out along the face normal to unit
	// normal-distance, recovering the s,t that ToUnitSphere started
	// from, up to the same scale factor on both axes.
	px := dir[0] / normalMag
	py := dir[1] / normalMag
	pz := dir[2] / normalMag
	s := px*b.uAxis[0] + py*b.uAxis[1] + pz*b.uAxis[2]
	t := px*b.vAxis[0] + py*b.vAxis[1] + pz*b.vAxis[2]
	return FaceCoord{Face: face, U: (s + 1) / 2, V: (t + 1) / 2}
}
