package riff

import "github.com/go-adm/bwf/internal/sample"

// dataChunk does not load into memory (spec §4.3, "data: does not load
// into memory"). It records its file region and, once a fmt chunk has
// been seen, binds a *sample.Stream to that region.
type dataChunk struct {
	filePos int64
	length  int64
}

func newDataChunk(*Context) Chunk { return &dataChunk{} }

// Dispose reports Skip: the engine advances past the body without
// buffering it, recording the chunk's position via ProcessRead's sibling
// hook (handled specially by Engine.readOne, see engine.go).
func (c *dataChunk) Dispose() Disposition { return Skip }

func (c *dataChunk) ProcessRead(*Context, []byte) error { return nil }

// bindStream constructs the stream once the data chunk's extent and the
// fmt chunk's SoundFormat are both known.
func (c *dataChunk) bindStream(ctx *Context) *sample.Stream {
	if ctx.engine.format == nil {
		return nil
	}
	return sample.NewReader(ctx.engine.rd, c.filePos, c.length, *ctx.engine.format)
}
