package physics

import (
	"math"

	"github.com/onuse/cubeworld/coord"
)

// GravitySource is one body exerting gravity: a planet, moon, or
// station with spin gravity.
type GravitySource struct {
	Position            coord.WorldPosition
	Mass                float64
	SurfaceGravity      float64 // m/s^2 at SurfaceRadius
	SurfaceRadius       float64 // meters
	InfluenceRadius     float64 // meters; sources beyond this don't contribute
	ConstantNearSurface bool    // hold SurfaceGravity constant within the atmosphere band
	AtmosphereHeight    float64 // meters above SurfaceRadius where the constant band ends
}

// LocalGravity is the net gravity felt at one point: a direction and
// a magnitude in m/s^2.
type LocalGravity struct {
	Direction coord.Vec3
	Magnitude float32
}

// defaultGravity is what a point with no nearby source experiences:
// -Y with zero magnitude (used as the zero-g fallback too).
var defaultGravity = LocalGravity{Direction: coord.Vec3{X: 0, Y: -1, Z: 0}, Magnitude: 0}

const gravityEpsilon = 1e-6

// ComputeGravity sums the contribution of every source within its
// InfluenceRadius of entityPos: magnitude = SurfaceGravity held
// constant inside the atmosphere band, else SurfaceGravity *
// (SurfaceRadius/distance)^2 (inverse-square falloff). If the summed
// magnitude is below epsilon, gravity defaults to -Y with zero
// magnitude — this is the zero-g case.
func ComputeGravity(entityPos coord.WorldPosition, sources []GravitySource) LocalGravity {
	var totalX, totalY, totalZ float64

	for _, src := range sources {
		delta := entityPos.Sub(src.Position)
		dx := delta.X.Float64() / coord.UnitsPerMeter
		dy := delta.Y.Float64() / coord.UnitsPerMeter
		dz := delta.Z.Float64() / coord.UnitsPerMeter
		distance := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if distance > src.InfluenceRadius || distance < 1.0 {
			continue
		}

		var magnitude float64
		if src.ConstantNearSurface && distance <= src.SurfaceRadius+src.AtmosphereHeight {
			magnitude = src.SurfaceGravity
		} else {
			ratio := src.SurfaceRadius / distance
			magnitude = src.SurfaceGravity * ratio * ratio
		}

		// Direction points from the entity toward the source.
		invDist := 1.0 / distance
		totalX += -dx * invDist * magnitude
		totalY += -dy * invDist * magnitude
		totalZ += -dz * invDist * magnitude
	}

	totalMag := math.Sqrt(totalX*totalX + totalY*totalY + totalZ*totalZ)
	if totalMag < gravityEpsilon {
		return defaultGravity
	}
	inv := 1.0 / totalMag
	return LocalGravity{
		Direction: coord.Vec3{X: float32(totalX * inv), Y: float32(totalY * inv), Z: float32(totalZ * inv)},
		Magnitude: float32(totalMag),
	}
}

// ApplyGravityForce returns the per-tick force (mass * direction *
// magnitude) a dynamic body of the given mass should receive. The
// rigid-body engine's own built-in world gravity must be zeroed so
// this is the only gravity contribution.
func ApplyGravityForce(g LocalGravity, mass float64) coord.Vec3 {
	return coord.Vec3{
		X: g.Direction.X * g.Magnitude * float32(mass),
		Y: g.Direction.Y * g.Magnitude * float32(mass),
		Z: g.Direction.Z * g.Magnitude * float32(mass),
	}
}
