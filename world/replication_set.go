package world

import "encoding/json"

// ComponentDescriptor is a type-erased, replicated component kind: a
// stable wire tag plus functions to serialize it out of a World entity
// and deserialize it back in. Only descriptors registered in a
// ReplicationSet participate in replication.
type ComponentDescriptor struct {
	Tag        string
	serialize  func(w *World, id EntityID) ([]byte, bool)
	deserialize func(w *World, id EntityID, data []byte)
}

// ReplicationSet is the ordered list of component kinds the server
// replicates to clients.
type ReplicationSet struct {
	descriptors []ComponentDescriptor
}

// NewReplicationSet returns an empty set.
func NewReplicationSet() *ReplicationSet {
	return &ReplicationSet{}
}

// Register adds a replicated component of type T under tag. T must be
// JSON-marshalable; this mirrors the teacher's own wire-message
// encoding rather than a binary codec.
func Register[T any](set *ReplicationSet, tag string) {
	set.descriptors = append(set.descriptors, ComponentDescriptor{
		Tag: tag,
		serialize: func(w *World, id EntityID) ([]byte, bool) {
			v, ok := w.Get(id, tag)
			if !ok {
				return nil, false
			}
			typed, ok := v.(T)
			if !ok {
				return nil, false
			}
			data, err := json.Marshal(typed)
			if err != nil {
				return nil, false
			}
			return data, true
		},
		deserialize: func(w *World, id EntityID, data []byte) {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				return
			}
			w.Set(id, tag, v)
		},
	})
}

// Descriptors returns the registered component descriptors, in
// registration order.
func (s *ReplicationSet) Descriptors() []ComponentDescriptor {
	return s.descriptors
}
