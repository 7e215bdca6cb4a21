// Package riff implements the BWF/RIFF/RF64 chunk registry and the
// read/write engine that walks a chunk tree, delegating to per-ID
// constructors the way internal/mul and internal/uop delegate to
// format-specific readers behind a common Entry/Reader interface.
package riff

import (
	"encoding/binary"
	"errors"
)

// ErrReadOnly is returned by write operations against a read-mode Engine.
var ErrReadOnly = errors.New("riff: stream opened read-only")

// ID is a 4-character chunk identifier, stored the way it appears on the
// wire (ASCII, left-justified, space-padded for short names like "fmt ").
type ID [4]byte

func NewID(s string) ID {
	var id ID
	copy(id[:], s)
	for i := len(s); i < 4; i++ {
		id[i] = ' '
	}
	return id
}

func (id ID) String() string { return string(id[:]) }

// u32 returns the big-endian uint32 form used as the registry key, per
// spec §4.2 ("chunk_id (u32 big-endian)").
func (id ID) u32() uint32 { return binary.BigEndian.Uint32(id[:]) }

var (
	idRIFF = NewID("RIFF")
	idRF64 = NewID("RF64")
	idWAVE = NewID("WAVE")
	idDS64 = NewID("ds64")
	idFMT  = NewID("fmt ")
	idBEXT = NewID("bext")
	idCHNA = NewID("chna")
	idAXML = NewID("axml")
	idDATA = NewID("data")
)

// Disposition selects how the engine handles one chunk body, per spec
// §4.3's three-way read protocol.
type Disposition int

const (
	// Skip advances past the chunk body without reading it.
	Skip Disposition = iota
	// Descend parses sub-chunks inside the body (RIFF/RF64/WAVE).
	Descend
	// Load reads the full body into memory and hands it to the chunk.
	Load
)

// Chunk is implemented by every registered chunk type. Dispose reports how
// the engine should handle the body; only Load chunks get ProcessRead
// called, with the chunk's raw bytes. Skip and Descend chunks are not
// called: the engine records a data chunk's extent itself, and the outer
// RIFF/RF64 wrapper with its WAVE tag is consumed inline by the engine.
type Chunk interface {
	Dispose() Disposition
	ProcessRead(ctx *Context, body []byte) error
}

// Writer is implemented by chunks that participate in the write protocol
// (spec §4.3 "Write protocol"). CreateWriteData returns the chunk's final
// body bytes; the engine handles the ID/length framing and padding.
type Writer interface {
	CreateWriteData(ctx *Context) ([]byte, error)
}

// Constructor builds a fresh Chunk instance for one occurrence of a chunk
// ID encountered during a read.
type Constructor func(ctx *Context) Chunk

// genericChunk is the fallback registered for unknown IDs: it loads and
// keeps the raw bytes so an unmodified round-trip reproduces them on
// write, per spec §4.2 ("preserves raw bytes for round-trip").
type genericChunk struct {
	raw []byte
}

func newGenericChunk(*Context) Chunk { return &genericChunk{} }

func (c *genericChunk) Dispose() Disposition { return Load }

func (c *genericChunk) ProcessRead(_ *Context, body []byte) error {
	c.raw = append([]byte(nil), body...)
	return nil
}

func (c *genericChunk) CreateWriteData(*Context) ([]byte, error) {
	return c.raw, nil
}
