package bytecodec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferPCM16RoundTrip(t *testing.T) {
	const nframes = 8
	const nchan = 2

	src := make([]byte, nframes*nchan*2)
	for i := range src {
		src[i] = byte(i*7 + 3)
	}

	mid := make([]byte, nframes*nchan*4) // widen to PCM32
	err := TransferSamples(
		Buffer{Data: mid, Format: PCM32, Stride: nchan},
		Buffer{Data: src, Format: PCM16, Stride: nchan},
		nchan, nframes,
	)
	require.NoError(t, err)

	back := make([]byte, nframes*nchan*2)
	err = TransferSamples(
		Buffer{Data: back, Format: PCM16, Stride: nchan},
		Buffer{Data: mid, Format: PCM32, Stride: nchan},
		nchan, nframes,
	)
	require.NoError(t, err)

	assert.Equal(t, src, back, "widen-then-narrow PCM16->PCM32->PCM16 must be value preserving")
}

func TestTransferSaturatesOnNarrow(t *testing.T) {
	src := make([]byte, 4)
	PutU32LE(src, 0, 0x7FFFFFFF) // max positive PCM32

	dst := make([]byte, 2)
	err := TransferSamples(
		Buffer{Data: dst, Format: PCM16, Stride: 1},
		Buffer{Data: src, Format: PCM32, Stride: 1},
		1, 1,
	)
	require.NoError(t, err)

	v, _, _ := ReadU16LE(dst, 0)
	assert.Equal(t, uint16(0x7FFF), v)
}

func TestTransferFloatRange(t *testing.T) {
	src := make([]byte, 4)
	order(false).PutUint32(src, math.Float32bits(0.5))

	dst := make([]byte, 2)
	err := TransferSamples(
		Buffer{Data: dst, Format: PCM16, Stride: 1},
		Buffer{Data: src, Format: Float32, Stride: 1},
		1, 1,
	)
	require.NoError(t, err)

	v, _, _ := ReadU16LE(dst, 0)
	// 0.5 full scale should land close to half of int16 max.
	assert.InDelta(t, 16384, int16(v), 8)
}

func TestTransferChannelSelection(t *testing.T) {
	// 2 source channels, pick only channel 1 into a 1-channel destination.
	src := make([]byte, 2*2) // 1 frame, 2 channels, PCM16
	PutU16LE(src, 0, 111)
	PutU16LE(src, 2, 222)

	dst := make([]byte, 2)
	err := TransferSamples(
		Buffer{Data: dst, Format: PCM16, Stride: 1},
		Buffer{Data: src, Format: PCM16, Stride: 2, FirstChannel: 1},
		1, 1,
	)
	require.NoError(t, err)

	v, _, _ := ReadU16LE(dst, 0)
	assert.Equal(t, uint16(222), v)
}

func TestBytesPerSample(t *testing.T) {
	assert.Equal(t, 2, PCM16.BytesPerSample())
	assert.Equal(t, 3, PCM24.BytesPerSample())
	assert.Equal(t, 4, PCM32.BytesPerSample())
	assert.Equal(t, 4, Float32.BytesPerSample())
	assert.Equal(t, 8, Float64.BytesPerSample())
}
