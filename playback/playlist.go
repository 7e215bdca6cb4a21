// Package playback implements the Playlist and PlaybackEngine of spec
// §4.8: an ordered sequence of sample clips with cross-fade-on-seek, and
// an engine that pulls bounded buffers from the active clip while driving
// a set of per-channel TrackCursors.
package playback

import "github.com/go-adm/bwf/internal/sample"

// fadeSamples is the constant cross-fade length of spec §4.8
// ("Fade length is constant (e.g., 100 samples)").
const fadeSamples = 100

// Playlist is an ordered sequence of SampleStream clips (spec §4.8).
type Playlist struct {
	clips        []*sample.Stream
	fileStartPos []int64 // cumulative sample count of preceding clips
	current      int
	loopAll      bool

	fadeDownCount int
	fadeUpCount   int
	pendingClip   int
	pendingPos    int64
}

// NewPlaylist constructs an empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{}
}

// SetLoopAll sets whether Next wraps back to the first clip after the
// last (supplemented from original_source/src/Playlist.h).
func (p *Playlist) SetLoopAll(loop bool) { p.loopAll = loop }

// AddClip appends clip to the playlist, recording its cumulative start
// position.
func (p *Playlist) AddClip(clip *sample.Stream) {
	start := int64(0)
	if n := len(p.clips); n > 0 {
		prevStart := p.fileStartPos[n-1]
		start = prevStart + p.clips[n-1].Clip.NFrames
	}
	p.clips = append(p.clips, clip)
	p.fileStartPos = append(p.fileStartPos, start)
}

// Empty reports whether the playlist has no clips.
func (p *Playlist) Empty() bool { return len(p.clips) == 0 }

// Current returns the active clip, or nil if the playlist is empty or
// exhausted (no loop-all).
func (p *Playlist) Current() *sample.Stream {
	if p.current < 0 || p.current >= len(p.clips) {
		return nil
	}
	return p.clips[p.current]
}

// AbsoluteFrame returns the absolute playlist-relative frame position of
// the active clip's current read pointer.
func (p *Playlist) AbsoluteFrame() int64 {
	clip := p.Current()
	if clip == nil {
		return 0
	}
	return p.fileStartPos[p.current] + clip.Position()
}

// Next advances to the following clip, wrapping to the first if loop-all
// is set; returns false if the playlist is now exhausted.
func (p *Playlist) Next() bool {
	p.current++
	if p.current >= len(p.clips) {
		if p.loopAll && len(p.clips) > 0 {
			p.current = 0
			p.clips[0].SetPosition(0)
			return true
		}
		return false
	}
	return true
}

// SetPlaybackPosition seeks the playlist to an absolute frame position.
// With force, the seek is immediate; otherwise it arms a cross-fade:
// fadeDownCount counts down while subsequent reads fade out the current
// position, then the actual seek occurs and fadeUpCount fades the new
// position in (spec §4.8).
func (p *Playlist) SetPlaybackPosition(pos int64, force bool) {
	clipIdx, clipPos := p.locate(pos)
	if force {
		p.current = clipIdx
		if clip := p.Current(); clip != nil {
			clip.SetPosition(clipPos)
		}
		p.fadeDownCount, p.fadeUpCount = 0, 0
		return
	}
	p.pendingClip, p.pendingPos = clipIdx, clipPos
	p.fadeDownCount = fadeSamples
}

func (p *Playlist) locate(pos int64) (int, int64) {
	for i := len(p.fileStartPos) - 1; i >= 0; i-- {
		if pos >= p.fileStartPos[i] {
			return i, pos - p.fileStartPos[i]
		}
	}
	return 0, 0
}

// FadeGain returns the linear-envelope gain in [0,1] to apply to the next
// sample read, and advances the fade state machine. Outside a fade it
// returns 1; the fade-down steps from 1 towards 0 over fadeSamples calls,
// and the fade-up from 0 towards 1.
func (p *Playlist) FadeGain() float64 {
	switch {
	case p.fadeDownCount > 0:
		gain := float64(p.fadeDownCount) / float64(fadeSamples)
		p.fadeDownCount--
		if p.fadeDownCount == 0 {
			p.current = p.pendingClip
			if clip := p.Current(); clip != nil {
				clip.SetPosition(p.pendingPos)
			}
			p.fadeUpCount = fadeSamples
		}
		return gain
	case p.fadeUpCount > 0:
		gain := 1.0 - float64(p.fadeUpCount)/float64(fadeSamples)
		p.fadeUpCount--
		return gain
	default:
		return 1.0
	}
}
