package riff

// containerChunk backs RIFF, RF64 and WAVE: their body is a 4-byte form
// type ("WAVE") followed by nested chunks, so the engine descends into
// them rather than loading their bytes wholesale.
type containerChunk struct {
	form string
}

func newContainerChunk(*Context) Chunk { return &containerChunk{} }

func (c *containerChunk) Dispose() Disposition { return Descend }

func (c *containerChunk) ProcessRead(*Context, []byte) error { return nil }
