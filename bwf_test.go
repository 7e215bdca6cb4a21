package bwf_test

import (
	"testing"

	"github.com/go-adm/bwf"
	"github.com/go-adm/bwf/bwftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRoundTripsGraphAndSamples(t *testing.T) {
	bwftest.WithGraph(t, func(f *bwf.File) {
		require.NotNil(t, f.Graph())
		require.Len(t, f.Graph().Objects(), 1)
		assert.Equal(t, "AO_1001", f.Graph().Objects()[0].ID)

		require.Len(t, f.Graph().TrackUIDs(), 1)
		assert.Equal(t, uint16(1), f.Graph().TrackUIDs()[0].TrackNum)

		samples := f.Samples()
		require.NotNil(t, samples)
		assert.Equal(t, int64(bwftest.Frames), samples.Clip.NFrames)

		tu, ok := f.TrackUIDByTrackNum(1)
		require.True(t, ok)
		assert.Equal(t, "ATU_00000001", tu.ID)
	})
}

func TestOpenMissingFile(t *testing.T) {
	_, err := bwf.Open("/nonexistent/path/does-not-exist.wav")
	assert.Error(t, err)
}
