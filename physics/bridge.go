// Package physics implements the i128-to-f32 bridge that hands
// planetary-scale WorldPositions to a 32-bit rigid-body engine,
// floating-origin recentering, and multi-source gravity.
package physics

import (
	"github.com/onuse/cubeworld/coord"
)

// Body is one entity synced between WorldPosition space and the local
// physics engine. WorldPos is authoritative; Local mirrors the
// rigid-body engine's own translation between sync points.
type Body struct {
	WorldPos coord.WorldPosition
	Local    coord.Vec3
}

// SyncToEngine copies WorldPos -> Local for every body, relative to
// origin. Call this before stepping the rigid-body engine.
func SyncToEngine(bodies []*Body, origin coord.PhysicsOrigin) {
	for _, b := range bodies {
		b.Local = coord.ToLocal(b.WorldPos, origin)
	}
}

// SyncFromEngine copies each body's (engine-stepped) Local translation
// back into WorldPos. Call this after stepping the rigid-body engine,
// before the recenter check.
func SyncFromEngine(bodies []*Body, origin coord.PhysicsOrigin) {
	for _, b := range bodies {
		b.WorldPos = coord.FromLocal(b.Local, origin)
	}
}

// Recenter shifts origin to playerWorld if the player's current local
// offset from origin exceeds thresholdMeters, translating every active
// body's local position by the inverse shift so its world-space
// position is unchanged (up to <=1mm rounding).
//
// Returns the new origin and whether a shift occurred.
func Recenter(origin coord.PhysicsOrigin, playerWorld coord.WorldPosition, bodies []*Body, thresholdMeters float64) (coord.PhysicsOrigin, bool) {
	shift := coord.ToLocal(playerWorld, origin)
	if shift.Length() <= thresholdMeters {
		return origin, false
	}
	newOrigin := coord.PhysicsOrigin{World: playerWorld}
	for _, b := range bodies {
		b.Local = b.Local.Sub(shift)
	}
	return newOrigin, true
}
