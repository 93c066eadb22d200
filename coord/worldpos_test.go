package coord

import (
	"math"
	"testing"
)

func TestToLocalFromLocalRoundTrip(t *testing.T) {
	origin := PhysicsOrigin{World: WorldPositionFromMeters(1000, -200, 5000)}
	lcg := uint64(42)
	next := func() float64 {
		lcg = lcg*6364136223846793005 + 1442695040888963407
		return (float64(lcg>>11) / float64(1<<53)) * 1024 - 512
	}
	for i := 0; i < 100; i++ {
		dx, dy, dz := next(), next(), next()
		p := FromLocal(Vec3{X: float32(dx), Y: float32(dy), Z: float32(dz)}, origin)
		local := ToLocal(p, origin)
		if math.Abs(float64(local.X)-dx) > 1e-3 ||
			math.Abs(float64(local.Y)-dy) > 1e-3 ||
			math.Abs(float64(local.Z)-dz) > 1e-3 {
			t.Fatalf("round-trip mismatch at %d: got (%v,%v,%v) want (%v,%v,%v)",
				i, local.X, local.Y, local.Z, dx, dy, dz)
		}
	}
}

func TestToLocalSubtractsInInt128Space(t *testing.T) {
	origin := PhysicsOrigin{World: WorldPosition{
		X: Int128FromInt64(1_000_000_000_000),
		Y: Int128FromInt64(0),
		Z: Int128FromInt64(0),
	}}
	p := WorldPosition{
		X: Int128FromInt64(1_000_000_001_000),
		Y: Int128FromInt64(0),
		Z: Int128FromInt64(0),
	}
	local := ToLocal(p, origin)
	if math.Abs(float64(local.X)-1.0) > 1e-6 {
		t.Fatalf("expected 1m offset, got %v", local.X)
	}
}
