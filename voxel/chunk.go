package voxel

// ChunkSize is the per-axis voxel count of a chunk.
const ChunkSize = 32

// ChunkVolume is the total voxel count of a chunk: 32^3.
const ChunkVolume = ChunkSize * ChunkSize * ChunkSize

// bitWidthSteps: the smallest bit width sufficient for a given
// palette length. Width 0 means uniform (palette.len() <= 1).
var bitWidthSteps = []struct {
	maxPaletteLen int
	width         uint8
}{
	{1, 0},
	{4, 2},
	{16, 4},
	{256, 8},
	{65535, 16},
}

func bitsForPaletteSize(n int) uint8 {
	for _, step := range bitWidthSteps {
		if n <= step.maxPaletteLen {
			return step.width
		}
	}
	panic("voxel: palette exceeds maximum representable size")
}

// ChunkData is a palette-compressed, bit-packed 32^3 voxel chunk: a
// small palette of the distinct voxel types present, and a packed
// index array referencing it. bit_width is always the smallest of
// {0,2,4,8,16} sufficient for the current palette length; 0 means the
// chunk is uniform and storage is empty.
type ChunkData struct {
	palette  []TypeID
	storage  bitPackedArray
	bitWidth uint8
}

// NewChunkData returns a uniform chunk: palette = [fill], bit width 0.
func NewChunkData(fill TypeID) *ChunkData {
	return &ChunkData{palette: []TypeID{fill}, bitWidth: 0}
}

// linearIndex maps (x,y,z) in [0,32) to a flat index: x + y*32 + z*1024.
func linearIndex(x, y, z int) int {
	return x + y*ChunkSize + z*ChunkSize*ChunkSize
}

// Get returns the voxel type at (x,y,z).
func (c *ChunkData) Get(x, y, z int) TypeID {
	if c.bitWidth == 0 {
		return c.palette[0]
	}
	idx := c.storage.get(linearIndex(x, y, z))
	return c.palette[idx]
}

// Set writes v at (x,y,z), growing the palette and, if the palette
// cardinality crosses a threshold, upgrading bit_width to the next
// step. Upgrading copies existing indices into wider storage in one
// pass.
func (c *ChunkData) Set(x, y, z int, v TypeID) {
	idx := c.paletteIndexOrInsert(v)
	if c.bitWidth == 0 {
		// Still uniform: v matched the existing single palette entry,
		// so there is nothing to write into (storage is empty).
		return
	}
	c.storage.set(linearIndex(x, y, z), idx)
}

func (c *ChunkData) paletteIndexOrInsert(v TypeID) uint32 {
	for i, t := range c.palette {
		if t == v {
			newWidth := bitsForPaletteSize(len(c.palette))
			if newWidth != c.bitWidth {
				c.upgradeStorage(newWidth)
			}
			return uint32(i)
		}
	}
	c.palette = append(c.palette, v)
	idx := uint32(len(c.palette) - 1)
	newWidth := bitsForPaletteSize(len(c.palette))
	if newWidth != c.bitWidth {
		c.upgradeStorage(newWidth)
	}
	return idx
}

// upgradeStorage rebuilds the packed array at a wider bit width,
// preserving existing data. Going from bit width 0 (uniform, all
// index 0) is O(1): the new array is simply all-zero.
func (c *ChunkData) upgradeStorage(newWidth uint8) {
	old := c.storage
	oldWidth := c.bitWidth
	c.bitWidth = newWidth
	c.storage = newBitPackedArray(newWidth, ChunkVolume)
	if oldWidth == 0 {
		return // every slot was implicitly index 0; new zero-array already reflects that.
	}
	for i := 0; i < ChunkVolume; i++ {
		c.storage.set(i, old.get(i))
	}
}

// Fill resets the entire chunk to a single uniform voxel type in O(1).
func (c *ChunkData) Fill(v TypeID) {
	c.palette = []TypeID{v}
	c.storage = bitPackedArray{}
	c.bitWidth = 0
}

// Compact scans all 32768 indices, keeps only palette entries actually
// used, and narrows bit_width if the used count drops through a
// threshold. Not intended to run on every Set; meant for
// pre-serialization or idle-time cleanup.
func (c *ChunkData) Compact() {
	if c.bitWidth == 0 {
		return
	}
	used := make([]bool, len(c.palette))
	for i := 0; i < ChunkVolume; i++ {
		used[c.storage.get(i)] = true
	}
	usedCount := 0
	remap := make([]int, len(c.palette))
	newPalette := make([]TypeID, 0, len(c.palette))
	for i, u := range used {
		if u {
			remap[i] = len(newPalette)
			newPalette = append(newPalette, c.palette[i])
			usedCount++
		}
	}
	if usedCount <= 1 {
		fill := TypeID(0)
		if usedCount == 1 {
			fill = newPalette[0]
		}
		c.Fill(fill)
		return
	}
	newWidth := bitsForPaletteSize(usedCount)
	newStorage := newBitPackedArray(newWidth, ChunkVolume)
	for i := 0; i < ChunkVolume; i++ {
		oldIdx := c.storage.get(i)
		newStorage.set(i, uint32(remap[oldIdx]))
	}
	c.palette = newPalette
	c.storage = newStorage
	c.bitWidth = newWidth
}

// PaletteLen returns the current palette cardinality.
func (c *ChunkData) PaletteLen() int { return len(c.palette) }

// BitWidth returns the current bit width.
func (c *ChunkData) BitWidth() uint8 { return c.bitWidth }
