package voxel

import "encoding/json"

// wireChunk is ChunkData's over-the-wire shape: the palette and its
// packed storage words, exactly what a receiver needs to reconstruct
// Get/Set behavior without replaying edit history. JSON rather than a
// binary codec, consistent with how the replication and netserver
// layers encode the rest of the wire protocol.
type wireChunk struct {
	Palette  []TypeID `json:"palette"`
	Words    []uint64 `json:"words"`
	Width    uint8    `json:"width"`
}

// Marshal encodes c into its wire representation. Callers streaming
// chunks to clients should Compact first to avoid shipping dead
// palette entries.
func (c *ChunkData) Marshal() ([]byte, error) {
	return json.Marshal(wireChunk{
		Palette: c.palette,
		Words:   c.storage.words,
		Width:   c.bitWidth,
	})
}

// Unmarshal decodes data produced by Marshal into a new ChunkData.
func Unmarshal(data []byte) (*ChunkData, error) {
	var w wireChunk
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	count := len(w.Palette)
	if count == 0 {
		count = 1
	}
	storage := bitPackedArray{words: w.Words, width: w.Width, count: ChunkVolume}
	palette := w.Palette
	if len(palette) == 0 {
		palette = []TypeID{0}
	}
	return &ChunkData{palette: palette, storage: storage, bitWidth: w.Width}, nil
}
