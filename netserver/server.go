package netserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/onuse/cubeworld/bandwidth"
	"github.com/onuse/cubeworld/interest"
	"github.com/onuse/cubeworld/metrics"
	"github.com/onuse/cubeworld/session"
	"github.com/onuse/cubeworld/streaming"
	"github.com/onuse/cubeworld/world"
)

// upgrader accepts connections from any origin, matching the
// teacher's development-mode websocket setup.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientState is everything the Hub tracks for one connected
// websocket: the connection itself, its outbound rate budget and
// chunk-streaming queue, and its chat rate limiter.
type clientState struct {
	conn           *websocket.Conn
	writeMu        sync.Mutex
	playerName     string
	reconnectToken uuid.UUID
	bandwidth      *bandwidth.ClientTracker
	stream         *streaming.SendQueue
	chatLimiter    *RateTracker
}

// Hub owns every connected client and drives the periodic replication
// and chunk-streaming tick, generalizing the teacher's
// clients-map-plus-ticker pattern (server.go's `clients
// map[*websocket.Conn]*sync.Mutex` / `simulationLoop`) from a single
// mesh broadcast to the full per-client envelope catalogue.
type Hub struct {
	mu            sync.RWMutex
	clients       map[session.ClientID]*clientState
	tokenToClient map[uuid.UUID]session.ClientID
	nextClientID  atomic.Uint64

	sessions       *session.Manager
	world          *world.World
	replicationSet *world.ReplicationSet
	replication    *world.ReplicationServer
	interest       *interest.System
	chatConfig     ChatConfig
	bandwidthCfg   bandwidth.Config
	streamCfg      streaming.Config
	chunkProvider  streaming.ChunkDataProvider
	metrics        *metrics.Registry
}

// NewHub wires a Hub to the shared world/replication/interest/session
// state and a chunk data provider supplying raw voxel bytes for
// streaming.
func NewHub(w *world.World, repl *world.ReplicationServer, interestSys *interest.System, sessions *session.Manager, set *world.ReplicationSet, chunkProvider streaming.ChunkDataProvider, reg *metrics.Registry) *Hub {
	return &Hub{
		clients:        make(map[session.ClientID]*clientState),
		tokenToClient:  make(map[uuid.UUID]session.ClientID),
		sessions:       sessions,
		world:          w,
		replicationSet: set,
		replication:    repl,
		interest:       interestSys,
		chatConfig:     DefaultChatConfig(),
		bandwidthCfg:   bandwidth.DefaultConfig(),
		streamCfg:      streaming.DefaultConfig(),
		chunkProvider:  chunkProvider,
		metrics:        reg,
	}
}

// ServeWS upgrades an HTTP request to a websocket connection,
// performs the login handshake, and then services inbound messages
// until the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("netserver: upgrade error:", err)
		return
	}

	var loginEnv Envelope
	if err := conn.ReadJSON(&loginEnv); err != nil {
		conn.Close()
		return
	}
	var loginReq LoginRequest
	if err := Decode(loginEnv, &loginReq); err != nil || loginEnv.Type != TypeLoginRequest {
		conn.Close()
		return
	}

	clientID := session.ClientID(h.nextClientID.Add(1))
	req := session.ConnectionRequest{
		PlayerName:      loginReq.PlayerName,
		AuthToken:       loginReq.AuthToken,
		ProtocolVersion: session.ProtocolVersion,
	}
	result := h.sessions.Authenticate(clientID, req)
	if result.Kind != session.Accepted {
		h.writeEnvelope(conn, TypeLoginResponse, LoginResponse{Success: false, Message: result.Reason})
		conn.Close()
		return
	}

	now := time.Now()
	networkID := h.sessions.Join(clientID, req, interest.DefaultArea, interest.Position{}, now)
	token := uuid.New()

	state := &clientState{
		conn:           conn,
		playerName:     loginReq.PlayerName,
		reconnectToken: token,
		bandwidth:      bandwidth.NewClientTracker(uint64(clientID), h.bandwidthCfg),
		stream:         streaming.NewSendQueue(),
		chatLimiter:    NewRateTracker(h.chatConfig.RateLimitMessages, h.chatConfig.RateLimitWindow),
	}

	h.mu.Lock()
	h.clients[clientID] = state
	h.tokenToClient[token] = clientID
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.ConnectedClients.Inc()
	}

	h.writeEnvelope(conn, TypeLoginResponse, LoginResponse{
		PlayerID:       uint64(clientID),
		Success:        true,
		Message:        "welcome",
		ReconnectToken: token.String(),
	})
	log.Printf("netserver: client %d joined as %q (network id %d)", clientID, loginReq.PlayerName, networkID)

	// The new client's shadow starts empty, so the next regular Tick
	// spawns everything currently in its interest area — no separate
	// initial-state message is needed.
	h.readLoop(clientID, conn)
}

// readLoop services inbound envelopes for one client until the
// connection errors or closes, at which point the client is
// suspended for its grace period rather than dropped immediately —
// it may still be reachable via a quick reconnect.
func (h *Hub) readLoop(clientID session.ClientID, conn *websocket.Conn) {
	defer func() {
		h.sessions.Disconnect(clientID, 0, session.Timeout, time.Now())
	}()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		h.sessions.Heartbeat(clientID, time.Now())
		h.handleEnvelope(clientID, env)
	}
}

func (h *Hub) handleEnvelope(clientID session.ClientID, env Envelope) {
	switch env.Type {
	case TypePing:
		var ping Ping
		if Decode(env, &ping) == nil {
			h.writeEnvelopeTo(clientID, TypePong, Pong{TimestampMs: ping.TimestampMs, Sequence: ping.Sequence})
		}
	case TypeChatIntent:
		h.handleChat(clientID, env)
	case TypeLogout:
		h.sessions.Disconnect(clientID, 0, session.Voluntary, time.Now())
	// PlayerPosition and PlayerAction are consumed by the authoritative
	// simulation loop, outside this transport's responsibility.
	default:
	}
}

func (h *Hub) handleChat(clientID session.ClientID, env Envelope) {
	var wireIntent struct {
		Global  bool    `json:"global"`
		Radius  float64 `json:"radius"`
		Content string  `json:"content"`
	}
	if err := Decode(env, &wireIntent); err != nil {
		return
	}
	scope := ChatScope{Kind: ChatProximity, Radius: wireIntent.Radius}
	if wireIntent.Global {
		scope = ChatScope{Kind: ChatGlobal}
	}

	h.mu.RLock()
	state, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	intent := ChatMessageIntent{Scope: scope, Content: wireIntent.Content}
	if ValidateChatMessage(h.chatConfig, state.chatLimiter, intent, time.Now()) != RejectNone {
		return
	}

	entity, ok := h.sessions.Entity(clientID)
	if !ok {
		return
	}
	networkID, _ := h.world.NetworkIDOf(entity)

	msg := ChatMessage{
		SenderNetworkID: networkID,
		SenderName:      state.playerName,
		Scope:           scope,
		Content:         intent.Content,
		TimestampMs:     uint64(time.Now().UnixMilli()),
	}

	h.mu.RLock()
	var recipients []ConnectedClient
	for cid, cs := range h.clients {
		recipients = append(recipients, ConnectedClient{ClientID: cid, Position: interest.Position{}})
		_ = cs
	}
	h.mu.RUnlock()

	for _, cid := range BroadcastChat(msg, interest.Position{}, recipients) {
		h.writeEnvelopeTo(cid, TypeChatMessage, msg)
	}
}

// connSender adapts a websocket connection to bandwidth.MessageSender.
type connSender struct {
	state *clientState
}

func (c connSender) Send(data []byte) {
	c.state.writeMu.Lock()
	defer c.state.writeMu.Unlock()
	_ = c.state.conn.WriteMessage(websocket.TextMessage, data)
}

// Tick runs one full server tick: interest evaluation, replication
// diffing, chunk streaming, and bandwidth-budgeted delivery to every
// connected client. Mirrors the teacher's simulationLoop/
// broadcastMeshData pair, generalized from an unconditional broadcast
// to the per-client priority-budgeted send path bandwidth.go defines.
func (h *Hub) Tick(tick uint64, worldTime float64, positions map[session.ClientID]interest.Position) {
	expired := h.sessions.ExpireSuspendedSessions(tick, time.Now())
	for _, clientID := range expired {
		h.dropClient(clientID)
	}
	for _, clientID := range h.sessions.CheckTimeouts(time.Now()) {
		h.sessions.Disconnect(clientID, tick, session.Timeout, time.Now())
	}

	var entities []interest.TrackedEntity
	for _, ne := range h.world.NetworkEntities() {
		entities = append(entities, interest.TrackedEntity{NetworkID: ne.Net, Position: interest.Position{}})
	}
	for clientID, pos := range positions {
		h.interest.SetClientPosition(clientID, pos)
	}
	transitions := h.interest.Evaluate(entities)

	visible := make(map[world.ClientID][]world.NetworkID, len(transitions))
	for _, ct := range transitions {
		visible[ct.ClientID] = h.interest.CurrentNetworkIDs(ct.ClientID)
	}

	msgs := h.replication.Replicate(h.world, h.replicationSet, tick, visible)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for clientID, state := range h.clients {
		var queue []bandwidth.PrioritizedMessage
		if m, ok := msgs[clientID]; ok {
			for _, spawn := range m.Spawns {
				queue = append(queue, envelopeMessage(TypeSpawnEntity, toWireSpawn(spawn), bandwidth.NearbyEntities))
				if h.metrics != nil {
					h.metrics.ReplicationSpawns.Inc()
				}
			}
			for _, upd := range m.Updates {
				queue = append(queue, envelopeMessage(TypeEntityUpdate, toWireUpdate(upd), bandwidth.NearbyEntities))
				if h.metrics != nil {
					h.metrics.ReplicationUpdates.Inc()
				}
			}
			for _, desp := range m.Despawns {
				queue = append(queue, envelopeMessage(TypeDespawnEntity, DespawnEntity{NetworkID: uint64(desp.NetworkID)}, bandwidth.NearbyEntities))
				if h.metrics != nil {
					h.metrics.ReplicationDespawns.Inc()
				}
			}
		}

		for _, chunkMsg := range state.stream.FlushTick(h.streamCfg, h.chunkProvider) {
			queue = append(queue, envelopeMessage(TypeChunkData, ChunkData{
				ChunkX:           int64(chunkMsg.Addr.X),
				ChunkY:           int64(chunkMsg.Addr.Y),
				ChunkZ:           int64(chunkMsg.Addr.Z),
				Face:             uint8(chunkMsg.Addr.Face),
				VoxelData:        chunkMsg.Compressed,
				UncompressedSize: chunkMsg.UncompressedSize,
			}, bandwidth.ChunkData))
			if h.metrics != nil {
				h.metrics.ChunkStreamSent.Inc()
				h.metrics.ChunkStreamBytesSent.Add(float64(len(chunkMsg.Compressed)))
			}
		}

		deferred := bandwidth.SendTickMessages(state.bandwidth, queue, connSender{state})
		if h.metrics != nil {
			h.metrics.MessagesDeferred.Add(float64(len(deferred)))
			h.metrics.BandwidthBytesSent.Add(float64(state.bandwidth.AverageUsage()))
		}
	}
	if h.metrics != nil {
		h.metrics.ConnectedClients.Set(float64(len(h.clients)))
	}
}

func envelopeMessage(typ MessageType, payload any, priority bandwidth.MessagePriority) bandwidth.PrioritizedMessage {
	env, err := Encode(typ, payload)
	if err != nil {
		return bandwidth.PrioritizedMessage{Priority: priority}
	}
	data, err := json.Marshal(env)
	if err != nil {
		return bandwidth.PrioritizedMessage{Priority: priority}
	}
	return bandwidth.PrioritizedMessage{Priority: priority, Data: data}
}

func toWireSpawn(s world.SpawnEntity) SpawnEntity {
	comps := make(map[string][]byte, len(s.Components))
	for _, c := range s.Components {
		comps[c.Tag] = c.Bytes
	}
	return SpawnEntity{NetworkID: uint64(s.NetworkID), Components: comps}
}

func toWireUpdate(u world.EntityUpdate) EntityUpdate {
	changed := make(map[string][]byte, len(u.Changed))
	for _, c := range u.Changed {
		changed[c.Tag] = c.Bytes
	}
	return EntityUpdate{NetworkID: uint64(u.NetworkID), Tick: u.Tick, Changed: changed}
}

// dropClient removes a fully-expired client's transport state; its
// world/replication/interest cleanup was already done by
// Manager.ExpireSuspendedSessions.
func (h *Hub) dropClient(clientID session.ClientID) {
	h.mu.Lock()
	state, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
		delete(h.tokenToClient, state.reconnectToken)
	}
	h.mu.Unlock()
	if ok {
		state.conn.Close()
	}
}

func (h *Hub) writeEnvelope(conn *websocket.Conn, typ MessageType, payload any) {
	env, err := Encode(typ, payload)
	if err != nil {
		return
	}
	conn.WriteJSON(env)
}

func (h *Hub) writeEnvelopeTo(clientID session.ClientID, typ MessageType, payload any) {
	h.mu.RLock()
	state, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	env, err := Encode(typ, payload)
	if err != nil {
		return
	}
	state.writeMu.Lock()
	defer state.writeMu.Unlock()
	state.conn.WriteJSON(env)
}
