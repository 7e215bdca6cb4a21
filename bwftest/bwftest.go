// Package bwftest provides fixtures for tests elsewhere in the module,
// mirroring ultima-sdk's TestWith helper (SPEC_FULL.md's AMBIENT STACK
// "Testing" entry): WithGraph builds a minimal on-disk BWF/ADM file with
// one mono object and hands the opened *bwf.File to the test function.
package bwftest

import (
	"os"
	"testing"

	"github.com/go-adm/bwf"
	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/stretchr/testify/require"
)

// SampleRate and Frames are the fixture's fixed sound format: mono,
// 16-bit PCM, a handful of silent frames, enough for cursor/playback
// tests to read through without special-casing an empty clip.
const (
	SampleRate = 48000
	Frames     = 256
)

// WithGraph creates a temporary BWF file with one audioObject/
// packFormat/channelFormat/streamFormat/trackFormat/trackUID covering a
// single mono track, writes Frames silent frames, closes and reopens it,
// then calls fn with the opened file. The file and its sidecar are
// removed when the test ends.
func WithGraph(t *testing.T, fn func(f *bwf.File)) {
	t.Helper()

	tmp, err := os.CreateTemp("", "bwftest-*.wav")
	require.NoError(t, err)
	path := tmp.Name()
	tmp.Close()
	t.Cleanup(func() { os.Remove(path) })

	wf, err := bwf.Create(path, SampleRate, 1, bytecodec.PCM16)
	require.NoError(t, err)

	g := wf.Graph()
	pf := g.CreatePackFormat("AP_00010001", "mono", 0)
	cf := g.CreateChannelFormat("AC_00010001", "mono", 0)
	pf.ChannelFormats = append(pf.ChannelFormats, cf)

	sf := g.CreateStreamFormat("AS_00010001", "mono", 0)
	sf.ChannelFormat = cf
	sf.PackFormat = pf

	tf := g.CreateTrackFormat("AT_00010001_01", "mono", 0)
	tf.StreamFormat = sf
	sf.TrackFormats = append(sf.TrackFormats, tf)

	tu := g.CreateTrackUID("ATU_00000001", 1)
	tu.TrackFormat = tf
	tu.PackFormat = pf

	o := g.CreateObject("AO_1001", "mono object")
	o.PackFormats = append(o.PackFormats, pf)
	o.TrackUIDs = append(o.TrackUIDs, tu)

	c := g.CreateContent("ACO_1001", "content")
	c.Objects = append(c.Objects, o)
	p := g.CreateProgramme("APR_1001", "programme")
	p.Contents = append(p.Contents, c)

	silence := make([]byte, bytecodec.PCM16.BytesPerSample()*Frames)
	sw := wf.SampleWriter()
	_, err = sw.Write(silence, bytecodec.PCM16, false, 0, 1, 0, 1, Frames)
	require.NoError(t, err)

	require.NoError(t, wf.Close())

	rf, err := bwf.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	fn(rf)
}
