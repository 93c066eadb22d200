// Package metrics exports the server's queryable runtime state —
// bandwidth, replication, meshing, and chunk-streaming throughput —
// as prometheus gauges and counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric the server exposes. Construct one
// with NewRegistry and register it with an http.Handler via
// promhttp.HandlerFor(reg.Registry, ...).
type Registry struct {
	Registry *prometheus.Registry

	BandwidthBytesSent     prometheus.Counter
	BandwidthBytesReceived prometheus.Counter
	MessagesDeferred       prometheus.Counter

	ReplicationSpawns   prometheus.Counter
	ReplicationUpdates  prometheus.Counter
	ReplicationDespawns prometheus.Counter

	MeshingQueueDepth  prometheus.Gauge
	MeshingInFlight    prometheus.Gauge
	MeshingCompleted   prometheus.Counter

	ChunkStreamBytesSent prometheus.Counter
	ChunkStreamSent      prometheus.Counter

	ConnectedClients prometheus.Gauge
}

// NewRegistry constructs and registers every server metric.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		Registry: reg,
		BandwidthBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_bandwidth_bytes_sent_total",
			Help: "Total wire bytes sent to clients.",
		}),
		BandwidthBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_bandwidth_bytes_received_total",
			Help: "Total wire bytes received from clients.",
		}),
		MessagesDeferred: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_bandwidth_messages_deferred_total",
			Help: "Messages deferred to a later tick by the bandwidth budget.",
		}),
		ReplicationSpawns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_replication_spawns_total",
			Help: "SpawnEntity messages emitted.",
		}),
		ReplicationUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_replication_updates_total",
			Help: "EntityUpdate messages emitted.",
		}),
		ReplicationDespawns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_replication_despawns_total",
			Help: "DespawnEntity messages emitted.",
		}),
		MeshingQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cubeworld_meshing_queue_depth",
			Help: "Pending meshing tasks not yet accepted by the worker pool.",
		}),
		MeshingInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cubeworld_meshing_in_flight",
			Help: "Meshing tasks currently running.",
		}),
		MeshingCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_meshing_completed_total",
			Help: "Meshing tasks completed.",
		}),
		ChunkStreamBytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_chunk_stream_bytes_sent_total",
			Help: "Compressed chunk bytes sent to clients.",
		}),
		ChunkStreamSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cubeworld_chunk_stream_chunks_sent_total",
			Help: "Chunk payloads sent to clients.",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cubeworld_connected_clients",
			Help: "Currently connected clients.",
		}),
	}

	reg.MustRegister(
		r.BandwidthBytesSent, r.BandwidthBytesReceived, r.MessagesDeferred,
		r.ReplicationSpawns, r.ReplicationUpdates, r.ReplicationDespawns,
		r.MeshingQueueDepth, r.MeshingInFlight, r.MeshingCompleted,
		r.ChunkStreamBytesSent, r.ChunkStreamSent,
		r.ConnectedClients,
	)
	return r
}
