package world

import "bytes"

// ClientID identifies one connected client for replication purposes.
// The session layer owns the authoritative mapping to a transport
// connection; this package only needs it as a map key.
type ClientID uint64

// clientShadow is the server's record of what one client has already
// been told about: for each NetworkID it knows of, the last bytes sent
// per component tag.
type clientShadow struct {
	entities map[NetworkID]map[string][]byte
}

func newClientShadow() *clientShadow {
	return &clientShadow{entities: make(map[NetworkID]map[string][]byte)}
}

// ReplicationServer diffs authoritative World state against each
// client's shadow state and produces the minimal spawn/update/despawn
// messages needed to bring that client up to date.
type ReplicationServer struct {
	nextNetworkID NetworkID
	shadows       map[ClientID]*clientShadow
}

// NewReplicationServer returns a server with no registered clients.
func NewReplicationServer() *ReplicationServer {
	return &ReplicationServer{nextNetworkID: 1, shadows: make(map[ClientID]*clientShadow)}
}

// AllocateNetworkID hands out the next NetworkID. NetworkIDs are never
// reused, even after the entity holding one despawns.
func (s *ReplicationServer) AllocateNetworkID() NetworkID {
	id := s.nextNetworkID
	s.nextNetworkID++
	return id
}

// AddClient registers clientID with empty shadow state, so its first
// replication pass spawns every currently visible entity.
func (s *ReplicationServer) AddClient(clientID ClientID) {
	if _, ok := s.shadows[clientID]; !ok {
		s.shadows[clientID] = newClientShadow()
	}
}

// RemoveClient drops clientID's shadow state.
func (s *ReplicationServer) RemoveClient(clientID ClientID) {
	delete(s.shadows, clientID)
}

// Replicate runs one replication tick over visible, the set of entities
// currently in each client's interest area (see the interest package).
// visible maps a ClientID to the NetworkIDs that client should see this
// tick; an entity absent from a client's visible set is treated exactly
// like a despawn for that client, per the interest-exit rule.
func (s *ReplicationServer) Replicate(w *World, set *ReplicationSet, tick uint64, visible map[ClientID][]NetworkID) map[ClientID]ReplicationMessages {
	current := make(map[NetworkID][]ComponentBytes)
	for _, ne := range w.NetworkEntities() {
		var comps []ComponentBytes
		for _, desc := range set.Descriptors() {
			if data, ok := desc.serialize(w, ne.Entity); ok {
				comps = append(comps, ComponentBytes{Tag: desc.Tag, Bytes: data})
			}
		}
		current[ne.Net] = comps
	}

	result := make(map[ClientID]ReplicationMessages, len(s.shadows))
	for clientID, shadow := range s.shadows {
		var msgs ReplicationMessages
		visibleSet := toSet(visible[clientID])

		for nid := range shadow.entities {
			if _, ok := visibleSet[nid]; !ok {
				msgs.Despawns = append(msgs.Despawns, DespawnEntity{NetworkID: nid})
				delete(shadow.entities, nid)
			}
		}

		for nid := range visibleSet {
			comps, ok := current[nid]
			if !ok {
				continue
			}
			existing, known := shadow.entities[nid]
			if !known {
				msgs.Spawns = append(msgs.Spawns, SpawnEntity{NetworkID: nid, Components: comps})
				shadow.entities[nid] = snapshotMap(comps)
				continue
			}
			var changed []ComponentBytes
			for _, c := range comps {
				if old, ok := existing[c.Tag]; !ok || !bytes.Equal(old, c.Bytes) {
					changed = append(changed, c)
					existing[c.Tag] = c.Bytes
				}
			}
			if len(changed) > 0 {
				msgs.Updates = append(msgs.Updates, EntityUpdate{NetworkID: nid, Tick: tick, Changed: changed})
			}
		}

		result[clientID] = msgs
	}
	return result
}

func toSet(ids []NetworkID) map[NetworkID]struct{} {
	s := make(map[NetworkID]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func snapshotMap(comps []ComponentBytes) map[string][]byte {
	m := make(map[string][]byte, len(comps))
	for _, c := range comps {
		m[c.Tag] = c.Bytes
	}
	return m
}
