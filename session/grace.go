package session

import (
	"sync"
	"time"
)

// SessionStateKind distinguishes the phases of a connection's
// lifecycle, including the grace-period hold for a dropped client.
type SessionStateKind int

const (
	// Authenticating: connection accepted, waiting for login.
	Authenticating SessionStateKind = iota
	// Playing: player is active in the world.
	Playing
	// Suspended: disconnected but within the grace period; session
	// data is preserved so the player can resume without a full rejoin.
	Suspended
	// Removed: cleanup complete.
	Removed
)

// SessionState is a connection's current lifecycle state. Since is
// only meaningful when Kind is Suspended.
type SessionState struct {
	Kind  SessionStateKind
	Since time.Time
}

// GraceConfig controls how long a disconnected player's session is
// preserved before it is fully torn down.
type GraceConfig struct {
	GracePeriod time.Duration
}

// DefaultGraceConfig holds a suspended session for 60 seconds.
func DefaultGraceConfig() GraceConfig {
	return GraceConfig{GracePeriod: 60 * time.Second}
}

// Expired reports whether a Suspended state has outlived the grace
// period, as of now.
func (s SessionState) Expired(cfg GraceConfig, now time.Time) bool {
	if s.Kind != Suspended {
		return false
	}
	return now.Sub(s.Since) > cfg.GracePeriod
}

// graceTracker records which clients are currently suspended, so
// ExpireSuspendedSessions can find and evict the ones whose grace
// period has elapsed. Kept separate from Manager's session map since
// suspension is an out-of-band hold on an otherwise-removed client.
type graceTracker struct {
	mu        sync.Mutex
	suspended map[ClientID]SessionState
}

func newGraceTracker() *graceTracker {
	return &graceTracker{suspended: make(map[ClientID]SessionState)}
}

func (g *graceTracker) suspend(clientID ClientID, since time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.suspended[clientID] = SessionState{Kind: Suspended, Since: since}
}

func (g *graceTracker) resume(clientID ClientID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.suspended, clientID)
}

func (g *graceTracker) state(clientID ClientID) (SessionState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.suspended[clientID]
	return s, ok
}

// expired returns the client IDs whose suspension has outlived cfg's
// grace period as of now, without removing them.
func (g *graceTracker) expired(cfg GraceConfig, now time.Time) []ClientID {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []ClientID
	for clientID, s := range g.suspended {
		if s.Expired(cfg, now) {
			out = append(out, clientID)
		}
	}
	return out
}
