package streaming

import (
	"container/heap"

	"github.com/onuse/cubeworld/cubesphere"
	"github.com/pierrec/lz4/v4"
)

// ChunkDataMessage is sent from server to client: one chunk's
// LZ4-compressed voxel data plus its original size.
type ChunkDataMessage struct {
	Addr             cubesphere.ChunkAddress
	Compressed       []byte
	UncompressedSize uint32
}

// ChunkDataProvider returns the raw voxel bytes for addr, or false if
// unavailable (e.g. the chunk has since unloaded).
type ChunkDataProvider func(addr cubesphere.ChunkAddress) ([]byte, bool)

// CompressChunk LZ4-compresses raw chunk bytes.
func CompressChunk(raw []byte) ([]byte, error) {
	buf := make([]byte, lz4.CompressBlockBound(len(raw)))
	var c lz4.Compressor
	n, err := c.CompressBlock(raw, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// DecompressChunk reverses CompressChunk, given the known original size.
func DecompressChunk(compressed []byte, uncompressedSize int) ([]byte, error) {
	raw := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(compressed, raw)
	if err != nil {
		return nil, err
	}
	return raw[:n], nil
}

// FlushTick drains up to cfg.BytesPerTick worth of compressed chunk
// data from the queue, nearest first. A chunk whose provider reports
// unavailable is dropped without consuming budget. Once at least one
// message has been produced, a chunk that would overflow the
// remaining budget stops the flush rather than being skipped, so later
// (farther) chunks don't jump ahead of it next tick.
func (q *SendQueue) FlushTick(cfg Config, provider ChunkDataProvider) []ChunkDataMessage {
	budget := cfg.BytesPerTick
	var messages []ChunkDataMessage

	for q.heap.Len() > 0 {
		entry := q.heap[0]
		raw, ok := provider(entry.addr)
		if !ok {
			heap.Pop(&q.heap)
			continue
		}

		compressed, err := CompressChunk(raw)
		if err != nil {
			heap.Pop(&q.heap)
			continue
		}
		if len(compressed) > budget && len(messages) > 0 {
			break
		}

		heap.Pop(&q.heap)
		budget -= len(compressed)
		if budget < 0 {
			budget = 0
		}

		messages = append(messages, ChunkDataMessage{
			Addr:             entry.addr,
			Compressed:       compressed,
			UncompressedSize: uint32(len(raw)),
		})
		q.sent[entry.addr] = struct{}{}

		if budget == 0 {
			break
		}
	}

	return messages
}
