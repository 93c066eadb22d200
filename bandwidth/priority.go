// Package bandwidth implements per-client bandwidth enforcement,
// priority-based message scheduling, adaptive update-rate reduction,
// and network statistics.
package bandwidth

// MessagePriority orders outgoing messages for one client's per-tick
// send pass. Lower values are offered the tick's budget first; a
// message that does not fit is deferred even when a later, higher-value
// message is small enough to be sent.
type MessagePriority int

const (
	// PlayerState is the client's own authoritative position. Never
	// deferred in practice: it is scheduled first and is tiny.
	PlayerState MessagePriority = iota
	// NearbyEntities carries entities within the client's interest area.
	NearbyEntities
	// VoxelEdits carries real-time block changes.
	VoxelEdits
	// ChunkData carries streamed chunk payloads.
	ChunkData
	// Chat carries text communication.
	Chat
	// Metadata carries stats, debug info, and other non-critical data.
	Metadata
)

// PrioritizedMessage is a message tagged with a scheduling priority
// and its serialized payload.
type PrioritizedMessage struct {
	Priority MessagePriority
	Data     []byte
}

// Size returns the byte length of the message payload.
func (m PrioritizedMessage) Size() int {
	return len(m.Data)
}
