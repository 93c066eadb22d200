// Package interest implements spatial interest management: which
// entities are relevant to each connected client, and the per-tick
// enter/exit transitions that drive replication spawns and despawns.
package interest

import "github.com/onuse/cubeworld/world"

// Position is a 3D point in meters, kept independent of coord.WorldPosition
// so interest checks stay a cheap float64 squared-distance comparison.
type Position struct {
	X, Y, Z float64
}

// WithinRadius reports whether a and b are within radius meters of
// each other, via squared distance to avoid a square root.
func WithinRadius(a, b Position, radius float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	distSq := dx*dx + dy*dy + dz*dz
	return distSq <= radius*radius
}

// Area defines the spherical region around a client within which
// entities are considered relevant.
type Area struct {
	Radius float64
}

// DefaultArea is the interest radius used when a client doesn't
// configure one explicitly.
var DefaultArea = Area{Radius: 500.0}

// TrackedEntity is one entity known to the interest system: its
// network identity and current position.
type TrackedEntity struct {
	NetworkID world.NetworkID
	Position  Position
}

// ClientInterestSet tracks which NetworkIDs are currently within a
// client's interest area, plus the previous tick's set, for computing
// enter/exit transitions.
type ClientInterestSet struct {
	Current  map[world.NetworkID]struct{}
	Previous map[world.NetworkID]struct{}
}

func newClientInterestSet() *ClientInterestSet {
	return &ClientInterestSet{
		Current:  make(map[world.NetworkID]struct{}),
		Previous: make(map[world.NetworkID]struct{}),
	}
}

// Transitions computes which entities entered and exited between
// Previous and Current.
func (s *ClientInterestSet) Transitions() Transitions {
	t := Transitions{
		Entered: make(map[world.NetworkID]struct{}),
		Exited:  make(map[world.NetworkID]struct{}),
	}
	for nid := range s.Current {
		if _, ok := s.Previous[nid]; !ok {
			t.Entered[nid] = struct{}{}
		}
	}
	for nid := range s.Previous {
		if _, ok := s.Current[nid]; !ok {
			t.Exited[nid] = struct{}{}
		}
	}
	return t
}

// Advance moves Current into Previous and clears Current for the next
// evaluation pass.
func (s *ClientInterestSet) Advance() {
	s.Previous = s.Current
	s.Current = make(map[world.NetworkID]struct{})
}

// Transitions is the set of entities that entered or exited a
// client's interest area during a single tick.
type Transitions struct {
	Entered map[world.NetworkID]struct{}
	Exited  map[world.NetworkID]struct{}
}

type clientEntry struct {
	set      *ClientInterestSet
	area     Area
	position Position
}

// System evaluates spatial interest for all connected clients each
// tick.
type System struct {
	clients map[world.ClientID]*clientEntry
	order   []world.ClientID
}

// New returns a System with no registered clients.
func New() *System {
	return &System{clients: make(map[world.ClientID]*clientEntry)}
}

// AddClient registers a client with a given interest area and initial
// position.
func (s *System) AddClient(clientID world.ClientID, area Area, pos Position) {
	if _, ok := s.clients[clientID]; ok {
		return
	}
	s.clients[clientID] = &clientEntry{set: newClientInterestSet(), area: area, position: pos}
	s.order = append(s.order, clientID)
}

// RemoveClient drops clientID from interest tracking.
func (s *System) RemoveClient(clientID world.ClientID) {
	delete(s.clients, clientID)
	for i, id := range s.order {
		if id == clientID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetClientPosition updates a client's tracked position.
func (s *System) SetClientPosition(clientID world.ClientID, pos Position) {
	if e, ok := s.clients[clientID]; ok {
		e.position = pos
	}
}

// SetClientRadius updates a client's interest area radius.
func (s *System) SetClientRadius(clientID world.ClientID, radius float64) {
	if e, ok := s.clients[clientID]; ok {
		e.area.Radius = radius
	}
}

// ClientTransition pairs a client with its computed interest
// transitions for one evaluation tick.
type ClientTransition struct {
	ClientID    world.ClientID
	Transitions Transitions
}

// Evaluate runs one interest evaluation tick against entities,
// returning per-client transitions in client-registration order.
func (s *System) Evaluate(entities []TrackedEntity) []ClientTransition {
	results := make([]ClientTransition, 0, len(s.order))
	for _, clientID := range s.order {
		entry := s.clients[clientID]
		entry.set.Advance()
		for _, e := range entities {
			if WithinRadius(entry.position, e.Position, entry.area.Radius) {
				entry.set.Current[e.NetworkID] = struct{}{}
			}
		}
		results = append(results, ClientTransition{ClientID: clientID, Transitions: entry.set.Transitions()})
	}
	return results
}

// InterestSet returns the current interest set for a client, if
// registered.
func (s *System) InterestSet(clientID world.ClientID) (*ClientInterestSet, bool) {
	e, ok := s.clients[clientID]
	if !ok {
		return nil, false
	}
	return e.set, true
}

// CurrentNetworkIDs returns the NetworkIDs currently visible to
// clientID, suitable as the `visible` input to
// world.ReplicationServer.Replicate.
func (s *System) CurrentNetworkIDs(clientID world.ClientID) []world.NetworkID {
	e, ok := s.clients[clientID]
	if !ok {
		return nil
	}
	out := make([]world.NetworkID, 0, len(e.set.Current))
	for nid := range e.set.Current {
		out = append(out, nid)
	}
	return out
}
