package playback

import (
	"testing"

	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/go-adm/bwf/internal/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPatternClip(t *testing.T, nframes int64, fill byte) *sample.Stream {
	t.Helper()
	format := sample.SoundFormat{Channels: 1, SampleRate: 48000, Format: bytecodec.PCM16}
	buf := make([]byte, nframes*2)
	for i := range buf {
		buf[i] = fill
	}
	return sample.NewReader(&memReaderAt{buf: buf}, 0, int64(len(buf)), format)
}

func TestEngineRenderBypassesWhenEmpty(t *testing.T) {
	e := NewEngine(NewPlaylist(), nil, bytecodec.PCM16, false, 1, nil)
	dst := []byte{0xAA, 0xAA, 0xAA, 0xAA}
	n, err := e.Render(nil, dst, 0, 1, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []byte{0, 0, 0, 0}, dst)
}

func TestEngineRenderPullsFromActiveClip(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newPatternClip(t, 4, 0x01))
	e := NewEngine(p, nil, bytecodec.PCM16, false, 1, nil)

	dst := make([]byte, 4*2) // 4 frames, 1 channel, PCM16
	n, err := e.Render(nil, dst, 0, 1, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, byte(0x01), dst[0])
}

func TestEngineRenderZeroPadsPastExhaustion(t *testing.T) {
	p := NewPlaylist()
	p.AddClip(newPatternClip(t, 2, 0x01))
	e := NewEngine(p, nil, bytecodec.PCM16, false, 1, nil)

	dst := make([]byte, 6*2)
	for i := range dst {
		dst[i] = 0xFF
	}
	n, err := e.Render(nil, dst, 0, 1, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, byte(0), dst[4])
	assert.Equal(t, byte(0), dst[5])
}
