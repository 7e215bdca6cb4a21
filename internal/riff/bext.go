package riff

import (
	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/google/uuid"
)

// Broadcast is the parsed `bext` chunk (EBU Tech 3285 Broadcast Extension):
// loaded verbatim and preserved, not interpreted further by the core, per
// spec §4.3 ("bext: ... not interpreted further by the core but
// preserved").
type Broadcast struct {
	Description         string
	Originator          string
	OriginatorReference string
	OriginationDate     string
	OriginationTime     string
	TimeReferenceLow    uint32
	TimeReferenceHigh   uint32
	Version             uint16
	UMID                [64]byte
	CodingHistory       string
}

type bextChunk struct {
	Broadcast
}

func newBextChunk(*Context) Chunk { return &bextChunk{} }

func (c *bextChunk) Dispose() Disposition { return Load }

func (c *bextChunk) ProcessRead(_ *Context, body []byte) error {
	var off int
	var err error
	if c.Description, off, err = bytecodec.ReadFixedString(body, off, 256); err != nil {
		return err
	}
	if c.Originator, off, err = bytecodec.ReadFixedString(body, off, 32); err != nil {
		return err
	}
	if c.OriginatorReference, off, err = bytecodec.ReadFixedString(body, off, 32); err != nil {
		return err
	}
	if c.OriginationDate, off, err = bytecodec.ReadFixedString(body, off, 10); err != nil {
		return err
	}
	if c.OriginationTime, off, err = bytecodec.ReadFixedString(body, off, 8); err != nil {
		return err
	}
	if c.TimeReferenceLow, off, err = bytecodec.ReadU32LE(body, off); err != nil {
		return err
	}
	if c.TimeReferenceHigh, off, err = bytecodec.ReadU32LE(body, off); err != nil {
		return err
	}
	if c.Version, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	if off+64 <= len(body) {
		copy(c.UMID[:], body[off:off+64])
		off += 64
	}
	off += 180 // reserved
	if off < len(body) {
		c.CodingHistory = string(body[off:])
	}
	return nil
}

func (c *bextChunk) CreateWriteData(*Context) ([]byte, error) {
	if c.OriginatorReference == "" {
		c.OriginatorReference = uuid.NewString()[:32]
	}
	body := make([]byte, 602+len(c.CodingHistory))
	off := bytecodec.PutFixedString(body, 0, 256, c.Description)
	off = bytecodec.PutFixedString(body, off, 32, c.Originator)
	off = bytecodec.PutFixedString(body, off, 32, c.OriginatorReference)
	off = bytecodec.PutFixedString(body, off, 10, c.OriginationDate)
	off = bytecodec.PutFixedString(body, off, 8, c.OriginationTime)
	off = bytecodec.PutU32LE(body, off, c.TimeReferenceLow)
	off = bytecodec.PutU32LE(body, off, c.TimeReferenceHigh)
	off = bytecodec.PutU16LE(body, off, c.Version)
	off += copy(body[off:], c.UMID[:])
	off += 180
	copy(body[off:], c.CodingHistory)
	return body, nil
}
