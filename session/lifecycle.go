package session

import (
	"sync"
	"time"

	"github.com/onuse/cubeworld/interest"
	"github.com/onuse/cubeworld/streaming"
	"github.com/onuse/cubeworld/world"
)

// ProtocolVersion is the multiplayer wire protocol version this build
// speaks. A ConnectionRequest naming any other version is rejected.
const ProtocolVersion uint32 = 1

// DefaultTimeout is how long a client may go without a heartbeat
// before it is considered disconnected.
const DefaultTimeout = 30 * time.Second

// ClientID identifies a connected client; an alias of world.ClientID
// since the two are always the same value.
type ClientID = world.ClientID

// ConnectionRequest is the client's initial handshake.
type ConnectionRequest struct {
	PlayerName      string
	AuthToken       string
	ProtocolVersion uint32
}

// AuthResultKind distinguishes an accepted from a rejected connection.
type AuthResultKind int

const (
	Accepted AuthResultKind = iota
	Rejected
)

// AuthResult is the server's response to a ConnectionRequest.
type AuthResult struct {
	Kind      AuthResultKind
	ClientID  ClientID
	NetworkID world.NetworkID
	Reason    string // valid when Kind == Rejected
}

// InitialWorldState is the snapshot sent to a freshly-joined client.
type InitialWorldState struct {
	YourNetworkID  world.NetworkID
	ServerTick     uint64
	WorldTime      float64
	NearbyChunks   []streaming.ChunkDataMessage
	NearbyEntities []world.SpawnEntity
}

// BuildInitialWorldState assembles an InitialWorldState from a
// freshly-joined client's own first replication pass: the spawn
// messages produced for it already describe every entity in its
// interest area.
func BuildInitialWorldState(yourNetworkID world.NetworkID, serverTick uint64, worldTime float64, nearbyChunks []streaming.ChunkDataMessage, firstReplication world.ReplicationMessages) InitialWorldState {
	return InitialWorldState{
		YourNetworkID:  yourNetworkID,
		ServerTick:     serverTick,
		WorldTime:      worldTime,
		NearbyChunks:   nearbyChunks,
		NearbyEntities: firstReplication.Spawns,
	}
}

// DisconnectReason distinguishes why a client left.
type DisconnectReason int

const (
	Voluntary DisconnectReason = iota
	Kicked
	Timeout
)

// ConnectionState tracks liveness of a connected client via heartbeats.
type ConnectionState struct {
	ClientID        ClientID
	LastHeartbeat   time.Time
	TimeoutDuration time.Duration
}

// NewConnectionState starts a connection state with the default
// 30-second timeout, heartbeat recorded as of now.
func NewConnectionState(clientID ClientID, now time.Time) *ConnectionState {
	return &ConnectionState{ClientID: clientID, LastHeartbeat: now, TimeoutDuration: DefaultTimeout}
}

// IsTimedOut reports whether the client has exceeded the timeout window.
func (c *ConnectionState) IsTimedOut(now time.Time) bool {
	return now.Sub(c.LastHeartbeat) > c.TimeoutDuration
}

// RecordHeartbeat resets the timeout clock.
func (c *ConnectionState) RecordHeartbeat(now time.Time) {
	c.LastHeartbeat = now
}

// PlayerSaveData is persisted player state for session continuity
// across joins. Position is stored in millimeters, matching
// PlayerState's wire representation.
type PlayerSaveData struct {
	PlayerName   string
	X, Y, Z      int64
	LastSeenTick uint64
}

// PlayerState is the authoritative, replicated component describing a
// connected player's position and facing.
type PlayerState struct {
	PlayerID           ClientID
	X, Y, Z            int64
	YawMrad, PitchMrad int32
}

const playerStateTag = "PlayerState"

// activeSession is what Manager needs to remember about a client
// between join and leave: its local entity and the name used to key
// saved state for rejoin.
type activeSession struct {
	entity     world.EntityID
	playerName string
}

// Manager drives the full player connection lifecycle: authentication,
// entity spawn/despawn, registration with replication and interest,
// heartbeat-based timeout detection, and grace-period suspension for
// clients that drop without a clean disconnect.
type Manager struct {
	mu          sync.Mutex
	world       *world.World
	replication *world.ReplicationServer
	interest    *interest.System
	grace       *graceTracker
	graceCfg    GraceConfig

	connections map[ClientID]*ConnectionState
	sessions    map[ClientID]activeSession
	saves       map[string]PlayerSaveData
	tokens      *TokenIssuer
}

// NewManager returns a Manager wired to the given world, replication
// server, and interest system, using the given grace-period config.
// tokens validates each ConnectionRequest's auth token.
func NewManager(w *world.World, repl *world.ReplicationServer, interestSys *interest.System, graceCfg GraceConfig, tokens *TokenIssuer) *Manager {
	return &Manager{
		world:       w,
		replication: repl,
		interest:    interestSys,
		grace:       newGraceTracker(),
		graceCfg:    graceCfg,
		connections: make(map[ClientID]*ConnectionState),
		sessions:    make(map[ClientID]activeSession),
		saves:       make(map[string]PlayerSaveData),
		tokens:      tokens,
	}
}

// Authenticate validates a ConnectionRequest's protocol version and
// signed auth token, returning a Rejected result without allocating
// any resources on failure. The player name in req must match the
// name embedded in the token's claims.
func (m *Manager) Authenticate(clientID ClientID, req ConnectionRequest) AuthResult {
	if req.ProtocolVersion != ProtocolVersion {
		return AuthResult{Kind: Rejected, Reason: "unsupported protocol version"}
	}
	claims, err := m.tokens.Validate(req.AuthToken)
	if err != nil {
		return AuthResult{Kind: Rejected, Reason: "invalid auth token"}
	}
	if claims.PlayerName != req.PlayerName {
		return AuthResult{Kind: Rejected, Reason: "token does not match player name"}
	}
	return AuthResult{Kind: Accepted, ClientID: clientID}
}

// Join spawns a player entity — resuming at its saved position if one
// exists for playerName, else at the origin — registers the client
// with replication and interest, and begins heartbeat tracking.
func (m *Manager) Join(clientID ClientID, req ConnectionRequest, area interest.Area, pos interest.Position, now time.Time) world.NetworkID {
	m.mu.Lock()
	defer m.mu.Unlock()

	networkID := m.replication.AllocateNetworkID()

	var x, y, z int64
	if save, ok := m.saves[req.PlayerName]; ok {
		x, y, z = save.X, save.Y, save.Z
		delete(m.saves, req.PlayerName)
	}

	entity := m.world.Spawn()
	m.world.AssignNetworkID(entity, networkID)
	m.world.Set(entity, playerStateTag, PlayerState{PlayerID: clientID, X: x, Y: y, Z: z})

	m.replication.AddClient(clientID)
	m.interest.AddClient(clientID, area, pos)
	m.connections[clientID] = NewConnectionState(clientID, now)
	m.sessions[clientID] = activeSession{entity: entity, playerName: req.PlayerName}

	return networkID
}

// Leave saves the player's current state under its session name,
// despawns its entity, and unregisters it from replication, interest,
// and connection tracking. Other clients learn of the departure on
// the next replication pass via the normal despawn path.
func (m *Manager) Leave(clientID ClientID, tick uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveLocked(clientID, tick)
}

func (m *Manager) leaveLocked(clientID ClientID, tick uint64) {
	sess, ok := m.sessions[clientID]
	if !ok {
		return
	}
	if ps, ok := m.world.Get(sess.entity, playerStateTag); ok {
		p := ps.(PlayerState)
		m.saves[sess.playerName] = PlayerSaveData{
			PlayerName:   sess.playerName,
			X:            p.X,
			Y:            p.Y,
			Z:            p.Z,
			LastSeenTick: tick,
		}
	}
	m.world.Despawn(sess.entity)
	m.replication.RemoveClient(clientID)
	m.interest.RemoveClient(clientID)
	delete(m.connections, clientID)
	delete(m.sessions, clientID)
	m.grace.resume(clientID)
}

// Disconnect handles an unclean drop: a Voluntary or Kicked
// disconnect leaves immediately, while any other reason (a detected
// timeout, a severed transport) is held in Suspended state for the
// grace period so a quick reconnect can resume without a full rejoin.
func (m *Manager) Disconnect(clientID ClientID, tick uint64, reason DisconnectReason, now time.Time) {
	if reason == Voluntary || reason == Kicked {
		m.Leave(clientID, tick)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[clientID]; !ok {
		return
	}
	m.grace.suspend(clientID, now)
}

// Resume clears a client's Suspended state after it reconnects within
// the grace period, without re-spawning its entity.
func (m *Manager) Resume(clientID ClientID, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grace.resume(clientID)
	if c, ok := m.connections[clientID]; ok {
		c.RecordHeartbeat(now)
	}
}

// SessionState reports a client's current grace-period state, if it
// is suspended.
func (m *Manager) SessionState(clientID ClientID) (SessionState, bool) {
	return m.grace.state(clientID)
}

// ExpireSuspendedSessions fully tears down every suspended session
// whose grace period has elapsed as of now, returning the affected
// client IDs so the transport layer can drop their connections.
func (m *Manager) ExpireSuspendedSessions(tick uint64, now time.Time) []ClientID {
	expired := m.grace.expired(m.graceCfg, now)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, clientID := range expired {
		m.leaveLocked(clientID, tick)
	}
	return expired
}

// CheckTimeouts returns the client IDs whose heartbeat has lapsed
// past DefaultTimeout (or their configured override) as of now. The
// caller is expected to follow up with Disconnect(..., Timeout, ...).
func (m *Manager) CheckTimeouts(now time.Time) []ClientID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ClientID
	for clientID, c := range m.connections {
		if c.IsTimedOut(now) {
			out = append(out, clientID)
		}
	}
	return out
}

// Heartbeat records that clientID is still alive.
func (m *Manager) Heartbeat(clientID ClientID, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.connections[clientID]; ok {
		c.RecordHeartbeat(now)
	}
}

// Entity returns the local world entity for a connected client.
func (m *Manager) Entity(clientID ClientID) (world.EntityID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[clientID]
	return sess.entity, ok
}
