package world

// ReplicationClient applies ReplicationMessages received from the
// server to a local World, maintaining the NetworkID -> local entity
// mapping.
type ReplicationClient struct {
	netToLocal map[NetworkID]EntityID
}

// NewReplicationClient returns a client with no known entities.
func NewReplicationClient() *ReplicationClient {
	return &ReplicationClient{netToLocal: make(map[NetworkID]EntityID)}
}

// Apply applies one tick's worth of replication messages to w.
func (c *ReplicationClient) Apply(w *World, set *ReplicationSet, msgs ReplicationMessages) {
	for _, spawn := range msgs.Spawns {
		id := w.Spawn()
		w.AssignNetworkID(id, spawn.NetworkID)
		c.netToLocal[spawn.NetworkID] = id
		applyComponents(w, set, id, spawn.Components)
	}

	for _, update := range msgs.Updates {
		id, ok := c.netToLocal[update.NetworkID]
		if !ok {
			continue
		}
		applyComponents(w, set, id, update.Changed)
	}

	for _, despawn := range msgs.Despawns {
		id, ok := c.netToLocal[despawn.NetworkID]
		if !ok {
			continue
		}
		delete(c.netToLocal, despawn.NetworkID)
		w.Despawn(id)
	}
}

// LocalEntity resolves a NetworkID to its local entity, if known.
func (c *ReplicationClient) LocalEntity(nid NetworkID) (EntityID, bool) {
	id, ok := c.netToLocal[nid]
	return id, ok
}

func applyComponents(w *World, set *ReplicationSet, id EntityID, comps []ComponentBytes) {
	byTag := make(map[string]ComponentDescriptor, len(set.Descriptors()))
	for _, d := range set.Descriptors() {
		byTag[d.Tag] = d
	}
	for _, c := range comps {
		if desc, ok := byTag[c.Tag]; ok {
			desc.deserialize(w, id, c.Bytes)
		}
	}
}
