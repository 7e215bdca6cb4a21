package riff

import (
	"fmt"
	"io"
	"os"

	"github.com/go-adm/bwf/adm"
	"github.com/go-adm/bwf/internal/sample"
	"github.com/kelindar/intmap"
)

const sidecarCopyBlock = 64 * 1024

// Create opens path for writing and pre-populates the fmt/bext/chna/axml/
// data chunks, per spec §4.9's `create` operation. Sample data is staged
// into a temporary sidecar file until Finalize, per spec §4.3's write
// protocol ("for data, this is the total bytes staged in a temporary
// sidecar file").
func Create(path string, format sample.SoundFormat, g *adm.Graph) (*Engine, *Context, error) {
	wr, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("riff: create %s: %w", path, err)
	}
	sidecar, err := os.CreateTemp("", "bwf-sidecar-*.raw")
	if err != nil {
		wr.Close()
		return nil, nil, fmt.Errorf("riff: create sample sidecar: %w", err)
	}

	e := &Engine{
		wr:      wr,
		sidecar: sidecar,
		format:  &format,
		fmtW:    &fmtChunk{SoundFormat: format},
		bextW:   &bextChunk{},
		chnaW:   &chnaChunk{byTrackNum: intmap.New(64, 0.9)},
		axmlW:   &axmlChunk{},
	}
	e.sampleWr = sample.NewWriter(sidecar, 0, format)

	ctx := &Context{engine: e, Graph: g}
	return e, ctx, nil
}

// WriteBroadcast returns the writable bext chunk for the caller to populate.
func (e *Engine) WriteBroadcast() *Broadcast {
	if e.bextW == nil {
		return nil
	}
	return &e.bextW.Broadcast
}

// SampleWriter returns the stream staging sample data into the sidecar.
func (e *Engine) SampleWriter() *sample.Stream { return e.sampleWr }

// SetAxmlBytes stages the serialized ADM XML payload for the axml chunk.
func (e *Engine) SetAxmlBytes(b []byte) {
	if e.axmlW != nil {
		e.axmlW.XML = b
	}
}

// Finalize writes the RIFF/RF64 header and every staged chunk to the
// output file, upgrading to RF64 when any chunk's body exceeds
// 0xFFFFFFFF bytes (spec §4.3's write protocol), then copies the sidecar
// sample bytes into the `data` chunk in 64 KiB blocks.
func (e *Engine) Finalize(ctx *Context) error {
	type entry struct {
		id   ID
		body []byte
	}

	fmtBody, err := e.fmtW.CreateWriteData(ctx)
	if err != nil {
		return err
	}
	bextBody, err := e.bextW.CreateWriteData(ctx)
	if err != nil {
		return err
	}
	chnaBody, err := e.chnaW.CreateWriteData(ctx)
	if err != nil {
		return err
	}
	axmlBody := e.axmlW.XML

	dataLen, err := e.sidecarLength()
	if err != nil {
		return err
	}

	entries := []entry{
		{idFMT, fmtBody},
		{idBEXT, bextBody},
		{idCHNA, chnaBody},
		{idAXML, axmlBody},
	}

	needsRF64 := dataLen > sizeSentinel
	for _, en := range entries {
		if len(en.body) > sizeSentinel {
			needsRF64 = true
		}
	}

	var riffSize uint64 = 4 // "WAVE"
	for _, en := range entries {
		riffSize += uint64(headerBytes + len(en.body) + (len(en.body) & 1))
	}
	riffSize += uint64(headerBytes) + uint64(dataLen) + uint64(dataLen&1)

	outerID := idRIFF
	if needsRF64 {
		outerID = idRF64
	}

	if _, err := e.wr.WriteAt(outerID[:], 0); err != nil {
		return err
	}
	pos := int64(8)
	if needsRF64 {
		if err := writeU32(e.wr, 4, sizeSentinel); err != nil {
			return err
		}
		if _, err := e.wr.WriteAt([]byte("WAVE"), 8); err != nil {
			return err
		}
		pos = 12

		ds64 := &ds64Chunk{RIFFSize: riffSize, DataSize: uint64(dataLen), SampleCount: 0}
		ds64Body, err := ds64.CreateWriteData(ctx)
		if err != nil {
			return err
		}
		pos, err = writeChunk(e.wr, pos, idDS64, ds64Body)
		if err != nil {
			return err
		}
	} else {
		if err := writeU32(e.wr, 4, uint32(riffSize)); err != nil {
			return err
		}
		if _, err := e.wr.WriteAt([]byte("WAVE"), 8); err != nil {
			return err
		}
	}

	var werr error
	for _, en := range entries {
		if pos, werr = writeChunk(e.wr, pos, en.id, en.body); werr != nil {
			return werr
		}
	}

	dataSize := uint32(dataLen)
	if needsRF64 {
		dataSize = sizeSentinel
	}
	if _, err := e.wr.WriteAt(idDATA[:], pos); err != nil {
		return err
	}
	if err := writeU32(e.wr, pos+4, dataSize); err != nil {
		return err
	}
	if err := e.copySidecar(pos + headerBytes); err != nil {
		return err
	}
	if dataLen&1 != 0 {
		if _, err := e.wr.WriteAt([]byte{0}, pos+headerBytes+dataLen); err != nil {
			return err
		}
	}

	return e.wr.Close()
}

func (e *Engine) sidecarLength() (int64, error) {
	info, err := e.sidecar.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (e *Engine) copySidecar(dstPos int64) error {
	defer os.Remove(e.sidecar.Name())
	defer e.sidecar.Close()

	buf := make([]byte, sidecarCopyBlock)
	var srcPos int64
	for {
		n, err := e.sidecar.ReadAt(buf, srcPos)
		if n > 0 {
			if _, werr := e.wr.WriteAt(buf[:n], dstPos+srcPos); werr != nil {
				return werr
			}
			srcPos += int64(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func writeChunk(w io.WriterAt, pos int64, id ID, body []byte) (int64, error) {
	if _, err := w.WriteAt(id[:], pos); err != nil {
		return pos, err
	}
	if err := writeU32(w, pos+4, uint32(len(body))); err != nil {
		return pos, err
	}
	if len(body) > 0 {
		if _, err := w.WriteAt(body, pos+headerBytes); err != nil {
			return pos, err
		}
	}
	advance := int64(len(body))
	if advance&1 != 0 {
		if _, err := w.WriteAt([]byte{0}, pos+headerBytes+advance); err != nil {
			return pos, err
		}
		advance++
	}
	return pos + headerBytes + advance, nil
}

func writeU32(w io.WriterAt, pos int64, v uint32) error {
	var b [4]byte
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	_, err := w.WriteAt(b[:], pos)
	return err
}
