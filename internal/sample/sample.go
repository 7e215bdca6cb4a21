// Package sample implements the SampleStream of spec §4.4: a
// (ReaderAt/WriterAt, offset, byte length) view over a WAV/BWF `data`
// chunk region, bound to a SoundFormat and a playback Clip, with
// position-change notification for cursor push-mode updates.
package sample

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-adm/bwf/internal/bytecodec"
)

// ErrReadOnly is returned by Write against a stream opened for reading only.
var ErrReadOnly = errors.New("sample: stream is read-only")

// SoundFormat describes the PCM layout of a data chunk's samples, as
// parsed from fmt (spec §4.3).
type SoundFormat struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	BigEndian     bool
	Format        bytecodec.SampleFormat
}

// BytesPerFrame is the stride between consecutive sample frames.
func (f SoundFormat) BytesPerFrame() int {
	return int(f.Channels) * f.Format.BytesPerSample()
}

// Clip is a bounded view into a stream: a frame range and channel window.
type Clip struct {
	StartFrame   int64
	NFrames      int64
	FirstChannel int
	NChannels    int
}

// UniversalTime is a rational sample-rate timebase expressed in
// nanoseconds, computed with 64-bit intermediates per spec §4.4.
type UniversalTime uint64

// FrameTime converts a frame index at sampleRate to nanoseconds.
func FrameTime(frame int64, sampleRate uint32) UniversalTime {
	if sampleRate == 0 {
		return 0
	}
	return UniversalTime(uint64(frame) * 1_000_000_000 / uint64(sampleRate))
}

// Stream is the SampleStream of spec §4.4.
type Stream struct {
	r          io.ReaderAt
	w          io.WriterAt
	offset     int64 // file offset of frame 0
	byteLength int64 // total bytes currently staged for this stream

	Format SoundFormat
	Clip   Clip

	pos         int64 // clip-relative frame position
	subscribers []func(UniversalTime)
}

// NewReader constructs a read-only stream bound to r at the given file
// offset/length, with clip defaulting to the full extent.
func NewReader(r io.ReaderAt, offset, byteLength int64, format SoundFormat) *Stream {
	frameBytes := int64(format.BytesPerFrame())
	nframes := int64(0)
	if frameBytes > 0 {
		nframes = byteLength / frameBytes
	}
	return &Stream{
		r: r, offset: offset, byteLength: byteLength,
		Format: format,
		Clip:   Clip{NFrames: nframes, NChannels: int(format.Channels)},
	}
}

// NewWriter constructs a writable, initially empty stream.
func NewWriter(w io.WriterAt, offset int64, format SoundFormat) *Stream {
	return &Stream{
		w: w, offset: offset,
		Format: format,
		Clip:   Clip{NChannels: int(format.Channels)},
	}
}

// Subscribe registers fn to be called with the new position's
// UniversalTime on every SetPosition (spec §4.7's push-mode cursor hook).
func (s *Stream) Subscribe(fn func(UniversalTime)) {
	s.subscribers = append(s.subscribers, fn)
}

// SetPosition clamps frame to the clip bounds and notifies subscribers.
func (s *Stream) SetPosition(frame int64) {
	switch {
	case frame < 0:
		frame = 0
	case frame > s.Clip.NFrames:
		frame = s.Clip.NFrames
	}
	s.pos = frame
	t := FrameTime(s.Clip.StartFrame+frame, s.Format.SampleRate)
	for _, fn := range s.subscribers {
		fn(t)
	}
}

// Position returns the current clip-relative frame position.
func (s *Stream) Position() int64 { return s.pos }

// Read transfers up to min(nframes, clip.NFrames-pos) frames into dst,
// converting sample format/endianness/channel window via bytecodec, and
// advances the position. A short count (possibly zero) signals
// end-of-clip.
func (s *Stream) Read(dst []byte, dstFormat bytecodec.SampleFormat, dstBigEndian bool, dstChan, dstStride, firstChan, nchan, nframes int) (int, error) {
	if s.r == nil {
		return 0, fmt.Errorf("sample: stream not opened for reading")
	}
	avail := s.Clip.NFrames - s.pos
	if int64(nframes) > avail {
		nframes = int(avail)
	}
	if nframes <= 0 {
		return 0, nil
	}

	frameBytes := s.Format.BytesPerFrame()
	filePos := s.offset + (s.Clip.StartFrame+s.pos)*int64(frameBytes)
	srcBytes := nframes * frameBytes
	buf := make([]byte, srcBytes)
	if _, err := s.r.ReadAt(buf, filePos); err != nil && err != io.EOF {
		return 0, err
	}

	src := bytecodec.Buffer{Data: buf, Format: s.Format.Format, BigEndian: s.Format.BigEndian, FirstChannel: firstChan, Stride: int(s.Format.Channels)}
	dstBuf := bytecodec.Buffer{Data: dst, Format: dstFormat, BigEndian: dstBigEndian, FirstChannel: dstChan, Stride: dstStride}
	if err := bytecodec.TransferSamples(dstBuf, src, nchan, nframes); err != nil {
		return 0, err
	}

	s.SetPosition(s.pos + int64(nframes))
	return nframes, nil
}

// Write transfers nframes frames from src into the stream, merging with
// existing frames when the write is a partial-channel overwrite (so other
// channels are preserved), and extends Clip.NFrames/byteLength to cover
// newly written data beyond the current end.
func (s *Stream) Write(src []byte, srcFormat bytecodec.SampleFormat, srcBigEndian bool, srcChan, srcStride, firstChan, nchan, nframes int) (int, error) {
	if s.w == nil {
		return 0, ErrReadOnly
	}

	frameBytes := s.Format.BytesPerFrame()
	filePos := s.offset + (s.Clip.StartFrame+s.pos)*int64(frameBytes)
	dstBytes := nframes * frameBytes
	buf := make([]byte, dstBytes)

	partial := nchan < int(s.Format.Channels)
	rd := s.r
	if rd == nil {
		rd, _ = s.w.(io.ReaderAt)
	}
	if partial && rd != nil && s.pos < s.Clip.NFrames {
		existing := buf
		if _, err := rd.ReadAt(existing, filePos); err != nil && err != io.EOF {
			return 0, err
		}
	}

	dst := bytecodec.Buffer{Data: buf, Format: s.Format.Format, BigEndian: s.Format.BigEndian, FirstChannel: firstChan, Stride: int(s.Format.Channels)}
	srcBuf := bytecodec.Buffer{Data: src, Format: srcFormat, BigEndian: srcBigEndian, FirstChannel: srcChan, Stride: srcStride}
	if err := bytecodec.TransferSamples(dst, srcBuf, nchan, nframes); err != nil {
		return 0, err
	}

	if _, err := s.w.WriteAt(buf, filePos); err != nil {
		return 0, err
	}

	end := s.pos + int64(nframes)
	if end > s.Clip.NFrames {
		s.Clip.NFrames = end
		s.byteLength = s.Clip.NFrames * int64(frameBytes)
	}
	s.SetPosition(end)
	return nframes, nil
}

// ByteLength returns the total bytes currently staged for this stream.
func (s *Stream) ByteLength() int64 { return s.byteLength }
