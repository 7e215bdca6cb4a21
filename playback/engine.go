package playback

import (
	"sync"

	"github.com/go-adm/bwf/cursor"
	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/go-adm/bwf/internal/sample"
)

// renderBufferFrames bounds each pull from the active clip, per spec
// §5's "clip buffers are pre-sized (default 4096 frames) to bound
// per-call work".
const renderBufferFrames = 4096

// Renderer is the downstream collaborator of spec §4.8's render loop: it
// consumes up to nframes frames of already-paced source audio — either
// the playlist's pulled clip buffer (already converted to the engine's
// destination format/channel layout), or the caller's own src buffer
// when the playlist is empty (the "bypass to renderer with source
// audio" path) — and writes its rendered output into dst, returning the
// destination frame count it produced. The actual spatial/mixing
// renderer is an external collaborator (spec §1/§9 exclude acoustic
// rendering); Engine only pulls, paces, cross-fades, and positions it.
type Renderer func(dst, src []byte, nframes int) int

// Engine is the PlaybackEngine of spec §4.8: a Playlist of clips plus one
// TrackCursor per output channel, driven through a single render call
// under one lock (spec §5's single-tlock concurrency model).
type Engine struct {
	mu sync.Mutex

	playlist *Playlist
	cursors  []*cursor.TrackCursor
	renderer Renderer

	dstFormat    bytecodec.SampleFormat
	dstBigEndian bool
	dstChan      int

	scratch []byte
}

// NewEngine constructs an engine over playlist, with one TrackCursor per
// output channel (nil entries are channels carrying no automation). When
// renderer is nil, Engine falls back to a built-in renderer that copies
// pulled audio straight through and applies the playlist's cross-fade
// envelope — a stand-in for the real spatial renderer an application
// would inject.
func NewEngine(playlist *Playlist, cursors []*cursor.TrackCursor, dstFormat bytecodec.SampleFormat, dstBigEndian bool, dstChan int, renderer Renderer) *Engine {
	e := &Engine{
		playlist:     playlist,
		cursors:      cursors,
		dstFormat:    dstFormat,
		dstBigEndian: dstBigEndian,
		dstChan:      dstChan,
	}
	if renderer == nil {
		renderer = e.defaultRenderer
	}
	e.renderer = renderer
	return e
}

// SetPlaybackPosition seeks the playlist (spec §4.8); see Playlist.SetPlaybackPosition.
func (e *Engine) SetPlaybackPosition(pos int64, force bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playlist.SetPlaybackPosition(pos, force)
}

// Render fills up to ndstFrames destination frames, per spec §4.8's
// three-step render loop: bypass straight to the renderer with src when
// the playlist is empty; otherwise repeatedly pull a bounded buffer from
// the active clip, push cursor positions for that buffer's start time
// (spec §5's ordering guarantee: positions are observed before the
// corresponding samples), and hand the buffer to the renderer, advancing
// by its reported frame count, until ndstFrames are filled or both the
// clip and the renderer report zero.
func (e *Engine) Render(src []byte, dst []byte, nsrcChan, ndstChan, nsrcFrames, ndstFrames int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	frameBytes := ndstChan * e.dstFormat.BytesPerSample()

	if e.playlist == nil || e.playlist.Empty() {
		n := e.renderer(dst, src, nsrcFrames)
		if n < ndstFrames && frameBytes > 0 {
			clearBuffer(dst[n*frameBytes:])
		}
		return n, nil
	}

	written := 0
	for written < ndstFrames {
		clip := e.playlist.Current()
		if clip == nil {
			if !e.playlist.Next() {
				break
			}
			continue
		}

		want := ndstFrames - written
		if want > renderBufferFrames {
			want = renderBufferFrames
		}

		chunkBytes := want * frameBytes
		if cap(e.scratch) < chunkBytes {
			e.scratch = make([]byte, chunkBytes)
		}
		buf := e.scratch[:chunkBytes]

		startFrame := e.playlist.AbsoluteFrame()
		n, err := clip.Read(buf, e.dstFormat, e.dstBigEndian, 0, ndstChan, 0, clip.Clip.NChannels, want)
		if err != nil {
			return written, err
		}
		if n == 0 {
			if !e.playlist.Next() {
				break
			}
			continue
		}

		e.pushCursorPositions(clip, startFrame)

		rendered := e.renderer(dst[written*frameBytes:], buf[:n*frameBytes], n)
		if rendered == 0 {
			break
		}
		written += rendered
	}

	if written < ndstFrames {
		clearBuffer(dst[written*frameBytes:])
	}

	return written, nil
}

// defaultRenderer is Engine's built-in Renderer: used when the caller
// injects none, it copies src to dst and applies the playlist's
// cross-fade envelope, since the real spatial renderer is external to
// this engine.
func (e *Engine) defaultRenderer(dst, src []byte, nframes int) int {
	frameBytes := e.dstChan * e.dstFormat.BytesPerSample()
	if frameBytes <= 0 {
		return 0
	}
	n := nframes
	if avail := len(dst) / frameBytes; n > avail {
		n = avail
	}
	if avail := len(src) / frameBytes; n > avail {
		n = avail
	}
	if n <= 0 {
		return 0
	}
	copy(dst[:n*frameBytes], src[:n*frameBytes])
	if e.playlist != nil {
		applyFade(dst[:n*frameBytes], e.dstFormat, e.dstBigEndian, e.dstChan, e.playlist)
	}
	return n
}

// pushCursorPositions seeks each output channel's TrackCursor to frame's
// absolute playlist position converted to nanoseconds via clip's sample
// rate (spec §4.7's push-mode integration).
func (e *Engine) pushCursorPositions(clip *sample.Stream, frame int64) {
	t := uint64(sample.FrameTime(frame, clip.Format.SampleRate))
	for _, tc := range e.cursors {
		if tc != nil {
			tc.Seek(t)
		}
	}
}

// applyFade scales buf's frames by the playlist's current cross-fade
// gain, calling FadeGain once per frame so every channel of a frame
// shares the same gain, per spec §4.8's linear envelope.
func applyFade(buf []byte, format bytecodec.SampleFormat, bigEndian bool, nchan int, playlist *Playlist) {
	sampleBytes := format.BytesPerSample()
	frameBytes := sampleBytes * nchan
	if sampleBytes <= 0 || frameBytes <= 0 {
		return
	}
	for frameOff := 0; frameOff+frameBytes <= len(buf); frameOff += frameBytes {
		gain := playlist.FadeGain()
		if gain == 1.0 {
			continue
		}
		for ch := 0; ch < nchan; ch++ {
			off := frameOff + ch*sampleBytes
			bytecodec.ScaleSample(buf[off:off+sampleBytes], format, bigEndian, gain)
		}
	}
}

func clearBuffer(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
