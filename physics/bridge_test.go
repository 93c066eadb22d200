package physics

import (
	"math"
	"testing"

	"github.com/onuse/cubeworld/coord"
)

func metersPos(x, y, z float64) coord.WorldPosition {
	return coord.WorldPositionFromMeters(x, y, z)
}

func TestRecenterPreservesPairwiseDistance(t *testing.T) {
	origin := coord.PhysicsOrigin{World: metersPos(0, 0, 0)}
	bodies := []*Body{
		{WorldPos: metersPos(10, 0, 0)},
		{WorldPos: metersPos(20, 5, -3)},
	}
	SyncToEngine(bodies, origin)

	before := bodies[0].Local.Sub(bodies[1].Local).Length()

	player := metersPos(100, 0, 0) // well beyond RecenterThresholdMeters
	newOrigin, shifted := Recenter(origin, player, bodies, coord.RecenterThresholdMeters)
	if !shifted {
		t.Fatalf("expected a recenter to occur")
	}

	after := bodies[0].Local.Sub(bodies[1].Local).Length()
	if math.Abs(float64(before-after)) > 0.002 {
		t.Fatalf("pairwise distance not preserved: before=%v after=%v", before, after)
	}

	// World-space positions must round-trip to within ~1mm.
	for _, b := range bodies {
		recovered := coord.FromLocal(b.Local, newOrigin)
		diff := recovered.Sub(b.WorldPos)
		if math.Abs(diff.X.Float64()) > 1 || math.Abs(diff.Y.Float64()) > 1 || math.Abs(diff.Z.Float64()) > 1 {
			t.Fatalf("world position not preserved within 1mm: got %+v, want %+v", recovered, b.WorldPos)
		}
	}
}

func TestRecenterNoOpBelowThreshold(t *testing.T) {
	origin := coord.PhysicsOrigin{World: metersPos(0, 0, 0)}
	bodies := []*Body{{WorldPos: metersPos(1, 0, 0)}}
	SyncToEngine(bodies, origin)

	player := metersPos(2, 0, 0)
	newOrigin, shifted := Recenter(origin, player, bodies, coord.RecenterThresholdMeters)
	if shifted {
		t.Fatalf("expected no recenter below threshold")
	}
	if !newOrigin.World.Equal(origin.World) {
		t.Fatalf("origin must be unchanged when no recenter occurs")
	}
}

func TestSyncRoundTrip(t *testing.T) {
	origin := coord.PhysicsOrigin{World: metersPos(5, 5, 5)}
	bodies := []*Body{{WorldPos: metersPos(7, 5, 5)}}
	SyncToEngine(bodies, origin)
	bodies[0].Local.X += 1.0 // simulate a physics-engine step
	SyncFromEngine(bodies, origin)

	got := bodies[0].WorldPos
	want := metersPos(8, 5, 5)
	diff := got.Sub(want)
	if diff.X.Float64() > 1.0 || diff.X.Float64() < -1.0 {
		t.Fatalf("expected round trip within 1mm, got diff %v", diff)
	}
}
