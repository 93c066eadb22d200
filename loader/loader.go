package loader

import (
	"github.com/onuse/cubeworld/cubesphere"
	"github.com/onuse/cubeworld/voxel"
)

// TickResult reports what a single Tick call did.
type TickResult struct {
	Loaded        []cubesphere.ChunkAddress
	Unloaded      []cubesphere.ChunkAddress
	DirtyUnloaded []cubesphere.ChunkAddress
}

// Loader drives a ChunkManager's load/unload set relative to a camera
// position, at the same (face, lod) as the camera's own chunk, using
// Config's hysteresis band and per-tick budgets.
type Loader struct {
	cfg   Config
	queue *LoadQueue
}

// New returns a loader with the given config.
func New(cfg Config) *Loader {
	return &Loader{cfg: cfg, queue: NewLoadQueue()}
}

// Tick runs one step of the load/unload algorithm relative to
// cameraChunk: enqueue newly-in-range unloaded addresses, dequeue and
// load up to LoadsPerTick of them, then unload up to UnloadsPerTick
// chunks that fell outside UnloadRadius.
func (l *Loader) Tick(cameraChunk cubesphere.ChunkAddress, mgr *voxel.ChunkManager) TickResult {
	var result TickResult

	loadRadiusSq := uint64(l.cfg.LoadRadius) * uint64(l.cfg.LoadRadius)
	for dz := -l.cfg.LoadRadius; dz <= l.cfg.LoadRadius; dz++ {
		for dy := -l.cfg.LoadRadius; dy <= l.cfg.LoadRadius; dy++ {
			for dx := -l.cfg.LoadRadius; dx <= l.cfg.LoadRadius; dx++ {
				distSq := chunkDistanceSq(dx, dy, dz)
				if distSq > loadRadiusSq {
					continue
				}
				addr := cubesphere.ChunkAddress{
					Face: cameraChunk.Face,
					Lod:  cameraChunk.Lod,
					X:    cameraChunk.X + dx,
					Y:    cameraChunk.Y + dy,
					Z:    cameraChunk.Z + dz,
				}
				if !mgr.IsLoaded(addr) {
					l.queue.Enqueue(addr, distSq)
				}
			}
		}
	}

	for i := 0; i < l.cfg.LoadsPerTick; i++ {
		addr, ok := l.queue.Dequeue()
		if !ok {
			break
		}
		if mgr.IsLoaded(addr) {
			continue
		}
		mgr.LoadChunk(addr, voxel.NewChunkData(voxel.Air))
		result.Loaded = append(result.Loaded, addr)
	}

	unloadRadiusSq := uint64(l.cfg.UnloadRadius) * uint64(l.cfg.UnloadRadius)
	unloadCount := 0
	for _, addr := range mgr.LoadedAddresses() {
		if unloadCount >= l.cfg.UnloadsPerTick {
			break
		}
		if addr.Face != cameraChunk.Face || addr.Lod != cameraChunk.Lod {
			continue
		}
		distSq := chunkDistanceSq(addr.X-cameraChunk.X, addr.Y-cameraChunk.Y, addr.Z-cameraChunk.Z)
		if distSq <= unloadRadiusSq {
			continue
		}
		wasDirty := mgr.UnloadChunk(addr)
		result.Unloaded = append(result.Unloaded, addr)
		if wasDirty {
			result.DirtyUnloaded = append(result.DirtyUnloaded, addr)
		}
		unloadCount++
	}

	return result
}

func chunkDistanceSq(dx, dy, dz int32) uint64 {
	x, y, z := int64(dx), int64(dy), int64(dz)
	return uint64(x*x + y*y + z*z)
}
