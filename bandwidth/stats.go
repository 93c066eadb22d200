package bandwidth

import (
	"sync"
	"sync/atomic"
)

// MessageTag identifies a wire message kind for per-type bandwidth
// breakdowns, matching the netserver envelope catalogue.
type MessageTag string

// NetworkCounters are live, lock-free counters bumped by the network
// I/O goroutines as messages cross the wire.
type NetworkCounters struct {
	BytesSent         atomic.Uint64
	BytesReceived     atomic.Uint64
	BytesSentRaw      atomic.Uint64
	BytesReceivedRaw  atomic.Uint64
	MessagesSent      atomic.Uint64
	MessagesReceived  atomic.Uint64
}

// RecordSend records one outgoing message: wireBytes is the
// post-compression size, rawBytes the pre-compression size.
func (c *NetworkCounters) RecordSend(wireBytes, rawBytes uint64) {
	c.BytesSent.Add(wireBytes)
	c.BytesSentRaw.Add(rawBytes)
	c.MessagesSent.Add(1)
}

// RecordReceive records one incoming message.
func (c *NetworkCounters) RecordReceive(wireBytes, rawBytes uint64) {
	c.BytesReceived.Add(wireBytes)
	c.BytesReceivedRaw.Add(rawBytes)
	c.MessagesReceived.Add(1)
}

// StatsSnapshot is a point-in-time snapshot of NetworkCounters.
type StatsSnapshot struct {
	BytesSent        uint64
	BytesReceived    uint64
	BytesSentRaw     uint64
	BytesReceivedRaw uint64
	MessagesSent     uint64
	MessagesReceived uint64
}

// SnapshotAndReset atomically swaps every counter with 0 and returns
// the pre-reset values.
func (c *NetworkCounters) SnapshotAndReset() StatsSnapshot {
	return StatsSnapshot{
		BytesSent:        c.BytesSent.Swap(0),
		BytesReceived:    c.BytesReceived.Swap(0),
		BytesSentRaw:     c.BytesSentRaw.Swap(0),
		BytesReceivedRaw: c.BytesReceivedRaw.Swap(0),
		MessagesSent:     c.MessagesSent.Swap(0),
		MessagesReceived: c.MessagesReceived.Swap(0),
	}
}

// MessageTypeStats is the accumulated count and byte total for one
// message tag.
type MessageTypeStats struct {
	Count      uint64
	TotalBytes uint64
}

// PerMessageCounters tracks per-message-tag byte and count totals.
type PerMessageCounters struct {
	mu    sync.Mutex
	stats map[MessageTag]*MessageTypeStats
}

// NewPerMessageCounters returns an empty set of per-tag counters.
func NewPerMessageCounters() *PerMessageCounters {
	return &PerMessageCounters{stats: make(map[MessageTag]*MessageTypeStats)}
}

// Record adds one message of the given tag and byte size.
func (p *PerMessageCounters) Record(tag MessageTag, bytes uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.stats[tag]
	if !ok {
		entry = &MessageTypeStats{}
		p.stats[tag] = entry
	}
	entry.Count++
	entry.TotalBytes += bytes
}

// SnapshotAndReset returns the current per-tag totals and clears them.
func (p *PerMessageCounters) SnapshotAndReset() map[MessageTag]MessageTypeStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[MessageTag]MessageTypeStats, len(p.stats))
	for tag, s := range p.stats {
		out[tag] = *s
	}
	p.stats = make(map[MessageTag]*MessageTypeStats)
	return out
}

// DefaultWarningThresholdBytes is the default bandwidth alarm
// threshold: 10 MB/s.
const DefaultWarningThresholdBytes = 10 * 1024 * 1024

// NetworkStats holds the latest per-second network statistics,
// updated once per second from the live counters.
type NetworkStats struct {
	Current           StatsSnapshot
	PerMessage        map[MessageTag]MessageTypeStats
	WarningThreshold  uint64
}

// NewNetworkStats returns stats with the default warning threshold.
func NewNetworkStats() *NetworkStats {
	return &NetworkStats{WarningThreshold: DefaultWarningThresholdBytes}
}

// WarningSink receives a formatted warning when bandwidth usage
// exceeds the configured threshold; netserver wires this to its
// logger.
type WarningSink interface {
	Warnf(format string, args ...any)
}

// UpdateNetworkStats snapshots counters into stats, and invokes
// sink.Warnf if the combined send+receive rate exceeds the warning
// threshold. Call once per second from the server tick loop.
func UpdateNetworkStats(counters *NetworkCounters, perMsg *PerMessageCounters, stats *NetworkStats, sink WarningSink) {
	stats.Current = counters.SnapshotAndReset()
	stats.PerMessage = perMsg.SnapshotAndReset()

	total := stats.Current.BytesSent + stats.Current.BytesReceived
	if sink != nil && total > stats.WarningThreshold {
		sink.Warnf("bandwidth threshold exceeded: %d bytes/s (threshold %d bytes/s)", total, stats.WarningThreshold)
	}
}
