package coord

import "math"

// UnitsPerMeter is the number of WorldPosition units (millimeters) in
// one meter, used by the local-frame conversion contract.
const UnitsPerMeter = 1000.0

// RecenterThresholdMeters is the default floating-origin recenter
// threshold: once a player's local-frame offset from the physics
// origin exceeds this many meters, the origin shifts.
const RecenterThresholdMeters = 64.0

// WorldPosition is an exact planetary-scale position: three i128
// millimeter scalars. Arithmetic is exact; coordinate differences must
// always be computed in Int128 space before any float conversion.
type WorldPosition struct {
	X, Y, Z Int128
}

// WorldPositionFromMeters builds a WorldPosition from float meters,
// rounding to the nearest millimeter. Only sensible near the origin;
// planetary-scale positions should be constructed from integer mm.
func WorldPositionFromMeters(x, y, z float64) WorldPosition {
	return WorldPosition{
		X: Int128FromFloat64Round(x * UnitsPerMeter),
		Y: Int128FromFloat64Round(y * UnitsPerMeter),
		Z: Int128FromFloat64Round(z * UnitsPerMeter),
	}
}

// Add returns p + q.
func (p WorldPosition) Add(q WorldPosition) WorldPosition {
	return WorldPosition{X: p.X.Add(q.X), Y: p.Y.Add(q.Y), Z: p.Z.Add(q.Z)}
}

// Sub returns p - q, computed entirely in Int128 space.
func (p WorldPosition) Sub(q WorldPosition) WorldPosition {
	return WorldPosition{X: p.X.Sub(q.X), Y: p.Y.Sub(q.Y), Z: p.Z.Sub(q.Z)}
}

// Equal reports whether p and q denote the same position.
func (p WorldPosition) Equal(q WorldPosition) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0 && p.Z.Cmp(q.Z) == 0
}

// Vec3 is a local-frame, origin-relative position or direction in
// meters, the unit a 32-bit physics/render pipeline consumes.
type Vec3 struct {
	X, Y, Z float32
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 {
	x, y, z := float64(v.X), float64(v.Y), float64(v.Z)
	return math.Sqrt(x*x + y*y + z*z)
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// PhysicsOrigin identifies the world point that corresponds to the
// rigid-body engine's local (0,0,0). It is a single process-wide
// value; its only writer is Recenter. Any reader must pair it with a
// WorldPosition to produce a local frame.
type PhysicsOrigin struct {
	World WorldPosition
}

// ToLocal converts a world position into the local f32 frame relative
// to origin: local(p) = f32(f64(p - origin) / UnitsPerMeter). All
// subtraction happens in Int128 space before any float conversion.
func ToLocal(p WorldPosition, origin PhysicsOrigin) Vec3 {
	d := p.Sub(origin.World)
	return Vec3{
		X: float32(d.X.Float64() / UnitsPerMeter),
		Y: float32(d.Y.Float64() / UnitsPerMeter),
		Z: float32(d.Z.Float64() / UnitsPerMeter),
	}
}

// FromLocal is the inverse of ToLocal: it reconstructs a world
// position from a local-frame offset, rounding to the nearest
// millimeter.
func FromLocal(v Vec3, origin PhysicsOrigin) WorldPosition {
	offset := WorldPosition{
		X: Int128FromFloat64Round(float64(v.X) * UnitsPerMeter),
		Y: Int128FromFloat64Round(float64(v.Y) * UnitsPerMeter),
		Z: Int128FromFloat64Round(float64(v.Z) * UnitsPerMeter),
	}
	return origin.World.Add(offset)
}
