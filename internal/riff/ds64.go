package riff

import "github.com/go-adm/bwf/internal/bytecodec"

// ds64Entry is one row of the ds64 chunk's generic size table, giving the
// real 64-bit length of a chunk whose on-file length field reads the RF64
// sentinel 0xFFFFFFFF.
type ds64Entry struct {
	ID   ID
	Size uint64
}

// ds64Chunk supplies the 64-bit length table described in spec §4.3: the
// three named fields cover RIFF/data/fact, and a generic table covers
// everything else.
type ds64Chunk struct {
	RIFFSize    uint64
	DataSize    uint64
	SampleCount uint64
	table       []ds64Entry
}

func newDS64Chunk(*Context) Chunk { return &ds64Chunk{} }

func (c *ds64Chunk) Dispose() Disposition { return Load }

func (c *ds64Chunk) ProcessRead(ctx *Context, body []byte) error {
	var off int
	var err error
	if c.RIFFSize, off, err = bytecodec.ReadU64LE(body, off); err != nil {
		return err
	}
	if c.DataSize, off, err = bytecodec.ReadU64LE(body, off); err != nil {
		return err
	}
	if c.SampleCount, off, err = bytecodec.ReadU64LE(body, off); err != nil {
		return err
	}
	var tableCount uint32
	if tableCount, off, err = bytecodec.ReadU32LE(body, off); err != nil {
		return err
	}
	c.table = make([]ds64Entry, 0, tableCount)
	for i := uint32(0); i < tableCount; i++ {
		var id ID
		if off+8 > len(body) {
			break
		}
		copy(id[:], body[off:off+4])
		off += 4
		var size uint64
		if size, off, err = bytecodec.ReadU64LE(body, off); err != nil {
			return err
		}
		c.table = append(c.table, ds64Entry{ID: id, Size: size})
	}
	ctx.engine.ds64 = c
	return nil
}

// sizeOf returns the 64-bit length of a generically tracked chunk, for
// IDs other than RIFF/data/fact (those are the named fields above).
func (c *ds64Chunk) sizeOf(id ID) (uint64, bool) {
	for _, e := range c.table {
		if e.ID == id {
			return e.Size, true
		}
	}
	return 0, false
}

func (c *ds64Chunk) CreateWriteData(*Context) ([]byte, error) {
	body := make([]byte, 28+len(c.table)*12)
	off := bytecodec.PutU64LE(body, 0, c.RIFFSize)
	off = bytecodec.PutU64LE(body, off, c.DataSize)
	off = bytecodec.PutU64LE(body, off, c.SampleCount)
	off = bytecodec.PutU32LE(body, off, uint32(len(c.table)))
	for _, e := range c.table {
		off += copy(body[off:], e.ID[:])
		off = bytecodec.PutU64LE(body, off, e.Size)
	}
	return body, nil
}
