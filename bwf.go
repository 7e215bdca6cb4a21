// Package bwf is the top-level façade of the engine: the AdmRiffFile of
// spec §4.9. Open composes the RIFF chunk engine, the chna/axml object
// graph builders, and finalisation into a single read entry point; Create
// pre-populates a writable file's chunks; Close drives XML/chna
// serialisation and chunk-length finalisation (upgrading to RF64 when
// needed) before copying staged sample data into place.
package bwf

import (
	"bytes"
	"fmt"

	"github.com/go-adm/bwf/adm"
	"github.com/go-adm/bwf/adm/admxml"
	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/go-adm/bwf/internal/riff"
	"github.com/go-adm/bwf/internal/sample"
)

// File is an open BWF/ADM file, either read-only (Open) or writable
// (Create), per spec §4.9.
type File struct {
	engine *riff.Engine
	ctx    *riff.Context
	graph  *adm.Graph
	mode   mode
}

type mode int

const (
	modeRead mode = iota
	modeWrite
)

// Open reads path's RIFF/RF64 container, locates fmt/data/chna/axml,
// builds the ADM object graph from chna and axml, resolves chna's
// pending TrackRef/PackRef entries against it, and finalises the graph
// (spec §4.9's `open` operation).
func Open(path string) (*File, error) {
	g := adm.NewGraph()
	e, ctx, err := riff.Open(path, g)
	if err != nil {
		return nil, err
	}

	if xmlBytes := e.AxmlBytes(); len(xmlBytes) > 0 {
		if err := admxml.Decode(bytes.NewReader(xmlBytes), g); err != nil {
			e.Close()
			return nil, fmt.Errorf("bwf: decode axml: %w", err)
		}
	}
	ctx.ResolvePendingCHNA()
	g.Finalise()

	return &File{engine: e, ctx: ctx, graph: g, mode: modeRead}, nil
}

// Create opens path for writing and pre-populates its fmt/bext/chna/axml/
// data chunks (spec §4.9's `create` operation). The caller populates the
// returned File's Graph and Broadcast fields, writes samples through
// SampleWriter, then calls Close to finalise the file.
func Create(path string, sampleRate uint32, channels uint16, format bytecodec.SampleFormat) (*File, error) {
	g := adm.NewGraph()
	sf := sample.SoundFormat{
		Channels:      channels,
		SampleRate:    sampleRate,
		BitsPerSample: uint16(format.BytesPerSample() * 8),
		Format:        format,
	}
	e, ctx, err := riff.Create(path, sf, g)
	if err != nil {
		return nil, err
	}
	return &File{engine: e, ctx: ctx, graph: g, mode: modeWrite}, nil
}

// Graph returns the file's ADM object graph.
func (f *File) Graph() *adm.Graph { return f.graph }

// Format returns the file's sample format.
func (f *File) Format() *sample.SoundFormat { return f.engine.Format() }

// Broadcast returns the file's bext chunk (read) or a writable one to
// populate before Close (write).
func (f *File) Broadcast() *riff.Broadcast {
	if f.mode == modeWrite {
		return f.engine.WriteBroadcast()
	}
	return f.engine.Broadcast()
}

// Samples returns the read-mode sample stream, or nil in write mode (use
// SampleWriter instead).
func (f *File) Samples() *sample.Stream {
	if f.mode != modeRead {
		return nil
	}
	return f.engine.Samples()
}

// SampleWriter returns the write-mode sample stream staging bytes into
// the sidecar file, or nil in read mode.
func (f *File) SampleWriter() *sample.Stream {
	if f.mode != modeWrite {
		return nil
	}
	return f.engine.SampleWriter()
}

// TrackUIDByTrackNum returns the audioTrackUID for a 1-based track
// number, for TrackCursor construction (spec §4.7).
func (f *File) TrackUIDByTrackNum(trackNum uint16) (*adm.TrackUID, bool) {
	return f.engine.TrackUIDByTrackNum(trackNum)
}

// Close finalises a write-mode file: runs Graph.Finalise, serialises the
// graph to axml (EBU mode) and chna, then finalises chunk lengths
// (upgrading to RF64 if needed) and copies staged sample data into the
// data chunk. Read-mode files are simply closed.
func (f *File) Close() error {
	if f.mode != modeWrite {
		return f.engine.Close()
	}

	f.graph.Finalise()

	var xmlBuf bytes.Buffer
	if err := admxml.Encode(&xmlBuf, f.graph, admxml.ModeEBU); err != nil {
		return fmt.Errorf("bwf: encode axml: %w", err)
	}
	f.engine.SetAxmlBytes(xmlBuf.Bytes())

	return f.engine.Finalize(f.ctx)
}
