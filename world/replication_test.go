package world

import "testing"

type position struct {
	X, Y, Z float64
}

type health struct {
	HP int
}

func newTestSet() *ReplicationSet {
	set := NewReplicationSet()
	Register[position](set, "Position")
	Register[health](set, "Health")
	return set
}

func TestNewClientFirstPassSpawnsAllVisibleEntities(t *testing.T) {
	w := New()
	set := newTestSet()
	server := NewReplicationServer()

	e1 := w.Spawn()
	n1 := server.AllocateNetworkID()
	w.AssignNetworkID(e1, n1)
	w.Set(e1, "Position", position{1, 2, 3})

	server.AddClient(1)
	visible := map[ClientID][]NetworkID{1: {n1}}

	msgs := server.Replicate(w, set, 1, visible)
	got := msgs[1]
	if len(got.Spawns) != 1 || got.Spawns[0].NetworkID != n1 {
		t.Fatalf("expected one spawn for %v, got %+v", n1, got)
	}
	if len(got.Updates) != 0 || len(got.Despawns) != 0 {
		t.Fatalf("expected no updates/despawns on first pass, got %+v", got)
	}
}

func TestUnchangedComponentsProduceNoUpdate(t *testing.T) {
	w := New()
	set := newTestSet()
	server := NewReplicationServer()
	server.AddClient(1)

	e1 := w.Spawn()
	n1 := server.AllocateNetworkID()
	w.AssignNetworkID(e1, n1)
	w.Set(e1, "Position", position{1, 2, 3})

	visible := map[ClientID][]NetworkID{1: {n1}}
	server.Replicate(w, set, 1, visible) // first pass: spawn

	msgs := server.Replicate(w, set, 2, visible)
	if len(msgs[1].Spawns) != 0 || len(msgs[1].Updates) != 0 {
		t.Fatalf("expected no messages for unchanged entity, got %+v", msgs[1])
	}
}

func TestChangedComponentProducesUpdateForChangedTagOnly(t *testing.T) {
	w := New()
	set := newTestSet()
	server := NewReplicationServer()
	server.AddClient(1)

	e1 := w.Spawn()
	n1 := server.AllocateNetworkID()
	w.AssignNetworkID(e1, n1)
	w.Set(e1, "Position", position{0, 0, 0})
	w.Set(e1, "Health", health{100})

	visible := map[ClientID][]NetworkID{1: {n1}}
	server.Replicate(w, set, 1, visible)

	w.Set(e1, "Position", position{5, 0, 0})
	msgs := server.Replicate(w, set, 2, visible)

	updates := msgs[1].Updates
	if len(updates) != 1 || len(updates[0].Changed) != 1 || updates[0].Changed[0].Tag != "Position" {
		t.Fatalf("expected a single Position update, got %+v", updates)
	}
}

func TestDespawnedNetworkIDNeverReused(t *testing.T) {
	w := New()
	set := newTestSet()
	server := NewReplicationServer()
	server.AddClient(1)

	e1 := w.Spawn()
	n1 := server.AllocateNetworkID()
	w.AssignNetworkID(e1, n1)
	w.Set(e1, "Position", position{1, 1, 1})

	visible := map[ClientID][]NetworkID{1: {n1}}
	server.Replicate(w, set, 1, visible)

	w.Despawn(e1)
	msgs := server.Replicate(w, set, 2, map[ClientID][]NetworkID{1: {}})
	if len(msgs[1].Despawns) != 1 || msgs[1].Despawns[0].NetworkID != n1 {
		t.Fatalf("expected despawn of %v, got %+v", n1, msgs[1])
	}

	e2 := w.Spawn()
	n2 := server.AllocateNetworkID()
	if n2 == n1 {
		t.Fatalf("network id reused after despawn")
	}
	_ = e2
}

func TestInterestExitProducesImmediateDespawnRegardlessOfEntityState(t *testing.T) {
	w := New()
	set := newTestSet()
	server := NewReplicationServer()
	server.AddClient(1)

	e1 := w.Spawn()
	n1 := server.AllocateNetworkID()
	w.AssignNetworkID(e1, n1)
	w.Set(e1, "Position", position{1, 1, 1})

	server.Replicate(w, set, 1, map[ClientID][]NetworkID{1: {n1}})
	// Entity unchanged, but it leaves interest range this tick.
	msgs := server.Replicate(w, set, 2, map[ClientID][]NetworkID{1: {}})
	if len(msgs[1].Despawns) != 1 {
		t.Fatalf("expected despawn when entity leaves interest, got %+v", msgs[1])
	}
}

func TestClientAppliesSpawnUpdateDespawn(t *testing.T) {
	serverWorld := New()
	set := newTestSet()
	server := NewReplicationServer()
	server.AddClient(1)

	e1 := serverWorld.Spawn()
	n1 := server.AllocateNetworkID()
	serverWorld.AssignNetworkID(e1, n1)
	serverWorld.Set(e1, "Position", position{1, 2, 3})

	clientWorld := New()
	client := NewReplicationClient()

	visible := map[ClientID][]NetworkID{1: {n1}}
	msgs := server.Replicate(serverWorld, set, 1, visible)
	client.Apply(clientWorld, set, msgs[1])

	localID, ok := client.LocalEntity(n1)
	if !ok {
		t.Fatalf("expected client to know local entity for %v", n1)
	}
	pos, ok := clientWorld.Get(localID, "Position")
	if !ok || pos.(position) != (position{1, 2, 3}) {
		t.Fatalf("expected Position to be deserialized, got %+v", pos)
	}

	serverWorld.Set(e1, "Position", position{9, 9, 9})
	msgs = server.Replicate(serverWorld, set, 2, visible)
	client.Apply(clientWorld, set, msgs[1])
	pos, _ = clientWorld.Get(localID, "Position")
	if pos.(position) != (position{9, 9, 9}) {
		t.Fatalf("expected updated Position, got %+v", pos)
	}

	serverWorld.Despawn(e1)
	msgs = server.Replicate(serverWorld, set, 3, map[ClientID][]NetworkID{1: {}})
	client.Apply(clientWorld, set, msgs[1])
	if clientWorld.Exists(localID) {
		t.Fatalf("expected local entity to be despawned")
	}
	if _, ok := client.LocalEntity(n1); ok {
		t.Fatalf("expected client mapping to forget despawned network id")
	}
}
