package loader

import (
	"container/heap"

	"github.com/onuse/cubeworld/cubesphere"
)

type queueEntry struct {
	distSq uint64
	addr   cubesphere.ChunkAddress
}

type entryHeap []queueEntry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].distSq != h[j].distSq {
		return h[i].distSq < h[j].distSq
	}
	// Deterministic tiebreak so test output doesn't depend on
	// insertion order.
	return addrLess(h[i].addr, h[j].addr)
}
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(queueEntry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func addrLess(a, b cubesphere.ChunkAddress) bool {
	if a.Face != b.Face {
		return a.Face < b.Face
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// LoadQueue is a nearest-first min-heap of pending chunk loads, with a
// dedup guard so the same address is never enqueued twice.
type LoadQueue struct {
	heap    entryHeap
	pending map[cubesphere.ChunkAddress]bool
}

// NewLoadQueue returns an empty queue.
func NewLoadQueue() *LoadQueue {
	return &LoadQueue{pending: make(map[cubesphere.ChunkAddress]bool)}
}

// Enqueue adds addr with the given squared distance, if not already
// pending.
func (q *LoadQueue) Enqueue(addr cubesphere.ChunkAddress, distSq uint64) {
	if q.pending[addr] {
		return
	}
	q.pending[addr] = true
	heap.Push(&q.heap, queueEntry{distSq: distSq, addr: addr})
}

// Dequeue pops the nearest pending address. ok is false if empty.
func (q *LoadQueue) Dequeue() (addr cubesphere.ChunkAddress, ok bool) {
	if len(q.heap) == 0 {
		return cubesphere.ChunkAddress{}, false
	}
	entry := heap.Pop(&q.heap).(queueEntry)
	delete(q.pending, entry.addr)
	return entry.addr, true
}

// Len returns the number of pending entries.
func (q *LoadQueue) Len() int { return len(q.heap) }

// IsEmpty reports whether the queue has no pending entries.
func (q *LoadQueue) IsEmpty() bool { return len(q.heap) == 0 }

// Clear empties the queue.
func (q *LoadQueue) Clear() {
	q.heap = nil
	q.pending = make(map[cubesphere.ChunkAddress]bool)
}
