package riff

import (
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-mmap/mmap"
	"github.com/go-adm/bwf/adm"
	"github.com/go-adm/bwf/internal/sample"
)

const (
	sizeSentinel = 0xFFFFFFFF
	headerBytes  = 8 // 4-byte id + 4-byte LE length
)

// Engine is the RiffChunkEngine of spec §4.3: it walks the chunk tree on
// open, applying the Skip/Descend/Load protocol, and rebuilds it on close
// with RF64 upgrade when needed. Read mode maps the file read-only with
// codeberg.org/go-mmap/mmap (mirroring internal/mul/internal/uop's
// mmap-backed random access); write mode uses a plain *os.File since an
// mmap region cannot grow as new sample data is staged.
type Engine struct {
	rd     io.ReaderAt
	closer io.Closer

	isRF64 bool
	ds64   *ds64Chunk
	format *sample.SoundFormat

	bext *Broadcast
	chna *chnaChunk
	axml *axmlChunk
	data *dataChunk

	// Write-mode state; populated by Create, consumed by Finalize.
	wr       *os.File
	sidecar  *os.File
	fmtW     *fmtChunk
	bextW    *bextChunk
	chnaW    *chnaChunk
	axmlW    *axmlChunk
	sampleWr *sample.Stream
}

// Open maps path read-only and parses its chunk tree into g (the chna
// chunk populates g directly as it's read, per spec §4.3/§4.5), per spec
// §4.3's read protocol.
func Open(path string, g *adm.Graph) (*Engine, *Context, error) {
	mm, err := mmap.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("riff: open %s: %w", path, err)
	}
	info, err := mm.Stat()
	if err != nil {
		mm.Close()
		return nil, nil, fmt.Errorf("riff: stat %s: %w", path, err)
	}

	e := &Engine{rd: mm, closer: mm}
	ctx := &Context{engine: e, Graph: g}

	if err := e.readAll(ctx, int(info.Size())); err != nil {
		mm.Close()
		return nil, nil, err
	}
	return e, ctx, nil
}

// Format returns the parsed fmt chunk's SoundFormat, or nil if none was
// encountered.
func (e *Engine) Format() *sample.SoundFormat { return e.format }

// Broadcast returns the parsed bext chunk, or nil.
func (e *Engine) Broadcast() *Broadcast { return e.bext }

// AxmlBytes returns the raw (already transcoded) axml payload, or nil.
func (e *Engine) AxmlBytes() []byte {
	if e.axml == nil {
		return nil
	}
	return e.axml.XML
}

// Samples binds and returns a read-mode Stream over the data chunk, or
// nil if no data/fmt chunk was found.
func (e *Engine) Samples() *sample.Stream {
	if e.data == nil {
		return nil
	}
	return e.data.bindStream(&Context{engine: e})
}

// TrackUIDByTrackNum returns the audioTrackUID registered in the chna
// chunk for the given 1-based track number, for TrackCursor construction
// (spec §4.7).
func (e *Engine) TrackUIDByTrackNum(trackNum uint16) (*adm.TrackUID, bool) {
	if e.chna == nil {
		return nil, false
	}
	return e.chna.Lookup(trackNum)
}

// Close releases the underlying file handle.
func (e *Engine) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

// readAll parses the top-level RIFF/RF64 wrapper and its direct children.
// WAVE is a 4-byte form tag embedded in the wrapper's body, not a chunk of
// its own, so it is consumed inline rather than dispatched through the
// registry.
func (e *Engine) readAll(ctx *Context, fileLen int) error {
	if fileLen < 12 {
		return errors.New("riff: file too small for a RIFF header")
	}

	var id ID
	if _, err := e.rd.ReadAt(id[:], 0); err != nil {
		return fmt.Errorf("riff: read outer id: %w", err)
	}
	switch id {
	case idRIFF:
		e.isRF64 = false
	case idRF64:
		e.isRF64 = true
	default:
		return fmt.Errorf("riff: not a RIFF/RF64 file (got %q)", id.String())
	}

	sizeBuf := make([]byte, 4)
	if _, err := e.rd.ReadAt(sizeBuf, 4); err != nil {
		return fmt.Errorf("riff: read outer size: %w", err)
	}

	form := make([]byte, 4)
	if _, err := e.rd.ReadAt(form, 8); err != nil {
		return fmt.Errorf("riff: read form tag: %w", err)
	}
	if string(form) != "WAVE" {
		return fmt.Errorf("riff: unsupported form %q", string(form))
	}

	pos := int64(12)
	for pos+headerBytes <= int64(fileLen) {
		next, err := e.readOne(ctx, pos, fileLen)
		if err != nil {
			return err
		}
		if next <= pos {
			break
		}
		pos = next
	}
	return nil
}

// readOne parses the chunk header at pos, dispatches it per its
// Disposition, and returns the file offset immediately following it.
func (e *Engine) readOne(ctx *Context, pos int64, fileLen int) (int64, error) {
	header := make([]byte, headerBytes)
	if _, err := e.rd.ReadAt(header, pos); err != nil {
		return pos, fmt.Errorf("riff: read chunk header at %d: %w", pos, err)
	}
	var id ID
	copy(id[:], header[:4])
	length := int64(leUint32(header[4:8]))

	if length == sizeSentinel && e.ds64 != nil {
		if real, ok := e.realSize(id); ok {
			length = int64(real)
		}
	}

	bodyPos := pos + headerBytes
	end := bodyPos + length
	if end > int64(fileLen) {
		end = int64(fileLen)
		length = end - bodyPos
	}

	ctor := lookup(id)
	chunk := ctor(ctx)

	switch chunk.Dispose() {
	case Skip:
		if dc, ok := chunk.(*dataChunk); ok {
			dc.filePos = bodyPos
			dc.length = length
			e.data = dc
		}
	case Descend:
		// RIFF/RF64/WAVE containers are only ever the outer wrapper,
		// handled by readAll; nothing nests one inside the WAVE body.
	case Load:
		body := make([]byte, length)
		if length > 0 {
			if _, err := e.rd.ReadAt(body, bodyPos); err != nil {
				return pos, fmt.Errorf("riff: read %s body: %w", id.String(), err)
			}
		}
		if err := chunk.ProcessRead(ctx, body); err != nil {
			return pos, fmt.Errorf("riff: process %s chunk: %w", id.String(), err)
		}
		e.retain(id, chunk)
	}

	advance := length + (length & 1) // pad byte for odd lengths
	return bodyPos + advance, nil
}

// retain stashes references to chunks the façade needs after the parse.
func (e *Engine) retain(id ID, chunk Chunk) {
	switch id {
	case idBEXT:
		if bc, ok := chunk.(*bextChunk); ok {
			e.bext = &bc.Broadcast
		}
	case idCHNA:
		if cc, ok := chunk.(*chnaChunk); ok {
			e.chna = cc
		}
	case idAXML:
		if ac, ok := chunk.(*axmlChunk); ok {
			e.axml = ac
		}
	case idDS64:
		if dc, ok := chunk.(*ds64Chunk); ok {
			e.ds64 = dc
		}
	}
}

// realSize resolves a size-sentinel chunk's true 64-bit length from the
// ds64 table (spec §4.3: RIFF/data/SampleCount have dedicated fields,
// everything else uses the generic table).
func (e *Engine) realSize(id ID) (uint64, bool) {
	switch id {
	case idRIFF, idRF64:
		return e.ds64.RIFFSize, true
	case idDATA:
		return e.ds64.DataSize, true
	default:
		return e.ds64.sizeOf(id)
	}
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
