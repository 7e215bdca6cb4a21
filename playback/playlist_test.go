package playback

import (
	"testing"

	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/go-adm/bwf/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClip(t *testing.T, nframes int64) *sample.Stream {
	t.Helper()
	format := sample.SoundFormat{Channels: 1, SampleRate: 48000, Format: bytecodec.PCM16}
	buf := make([]byte, nframes*2)
	s := sample.NewReader(&memReaderAt{buf: buf}, 0, int64(len(buf)), format)
	return s
}

type memReaderAt struct{ buf []byte }

func (m *memReaderAt) ReadAt(p []byte, off int64) (int, error) {
	n := copy(p, m.buf[off:])
	return n, nil
}

func TestPlaylistNextAndLoop(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newTestClip(t, 10))
	p.AddClip(newTestClip(t, 10))
	p.current = 0

	require.True(t, p.Next())
	assert.Equal(t, 1, p.current)
	require.False(t, p.Next())

	p.SetLoopAll(true)
	p.current = 1
	require.True(t, p.Next())
	assert.Equal(t, 0, p.current)
}

func TestPlaylistLocateAcrossClips(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newTestClip(t, 10))
	p.AddClip(newTestClip(t, 10))

	idx, pos := p.locate(15)
	assert.Equal(t, 1, idx)
	assert.Equal(t, int64(5), pos)

	idx, pos = p.locate(3)
	assert.Equal(t, 0, idx)
	assert.Equal(t, int64(3), pos)
}

func TestPlaylistForcedSeekIsImmediate(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newTestClip(t, 10))
	p.AddClip(newTestClip(t, 10))

	p.SetPlaybackPosition(12, true)
	assert.Equal(t, 1, p.current)
	assert.Equal(t, int64(2), p.Current().Position())
	assert.Equal(t, 1.0, p.FadeGain())
}

func TestPlaylistUnforcedSeekCrossFades(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newTestClip(t, 10))
	p.AddClip(newTestClip(t, 10))
	p.current = 0

	p.SetPlaybackPosition(12, false)
	assert.Equal(t, fadeSamples, p.fadeDownCount)

	for i := 0; i < fadeSamples-1; i++ {
		gain := p.FadeGain()
		assert.Greater(t, gain, 0.0)
	}
	// final fade-down step triggers the seek and arms fade-up.
	p.FadeGain()
	assert.Equal(t, 1, p.current)
	assert.Equal(t, fadeSamples, p.fadeUpCount)
}
