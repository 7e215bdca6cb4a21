package admxml

import (
	"bytes"
	"testing"

	"github.com/go-adm/bwf/adm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleGraph(t *testing.T) *adm.Graph {
	t.Helper()
	g := adm.NewGraph()

	pf := g.CreatePackFormat("AP_00030001", "pack", adm.TypeObjects)
	cf1 := g.CreateChannelFormat("AC_00030001", "left", adm.TypeObjects)
	cf2 := g.CreateChannelFormat("AC_00030002", "right", adm.TypeObjects)
	pf.ChannelFormats = append(pf.ChannelFormats, cf1, cf2)

	bf1 := g.AddBlockFormat(cf1, 0, 10_000_000_000)
	bf1.HasPosition = true
	bf1.Position = adm.Position{Azimuth: 30, Elevation: 0, Distance: 1}
	bf2 := g.AddBlockFormat(cf2, 0, 10_000_000_000)
	bf2.HasPosition = true
	bf2.Position = adm.Position{Azimuth: -30, Elevation: 0, Distance: 1}

	sf1 := g.CreateStreamFormat("AS_00030001", "", adm.FormatPCM)
	sf2 := g.CreateStreamFormat("AS_00030002", "", adm.FormatPCM)
	sf1.ChannelFormat = cf1
	sf2.ChannelFormat = cf2
	sf1.PackFormat = pf
	sf2.PackFormat = pf

	tf1 := g.CreateTrackFormat("AT_00030001_00", "", adm.FormatPCM)
	tf2 := g.CreateTrackFormat("AT_00030002_00", "", adm.FormatPCM)
	tf1.StreamFormat = sf1
	tf2.StreamFormat = sf2
	sf1.TrackFormats = append(sf1.TrackFormats, tf1)
	sf2.TrackFormats = append(sf2.TrackFormats, tf2)

	tu1 := g.CreateTrackUID("ATU_00000001", 1)
	tu2 := g.CreateTrackUID("ATU_00000002", 2)
	tu1.TrackFormat = tf1
	tu2.TrackFormat = tf2
	tu1.PackFormat = pf
	tu2.PackFormat = pf

	o := g.CreateObject("AO_1001", "obj")
	o.SetTimeExplicit(0, 10_000_000_000)
	o.PackFormats = append(o.PackFormats, pf)
	o.TrackUIDs = append(o.TrackUIDs, tu1, tu2)

	c := g.CreateContent("ACO_1001", "content")
	c.Objects = append(c.Objects, o)

	p := g.CreateProgramme("APR_1001", "programme")
	p.Contents = append(p.Contents, c)

	return g
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := buildSampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, ModeEBU))
	assert.Contains(t, buf.String(), "<ebuCoreMain>")
	assert.Contains(t, buf.String(), "audioObjectID=\"AO_1001\"")

	g2 := adm.NewGraph()
	require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), g2))
	g2.Finalise()

	require.Len(t, g2.Programmes(), 1)
	require.Len(t, g2.Objects(), 1)
	o2 := g2.Objects()[0]
	assert.Equal(t, "AO_1001", o2.ID)
	startNS, ok := o2.StartTime()
	require.True(t, ok)
	assert.Equal(t, uint64(0), startNS)
	dur, ok := o2.Duration()
	require.True(t, ok)
	assert.Equal(t, uint64(10_000_000_000), dur)

	require.Len(t, o2.TrackUIDs, 2)
	require.NotNil(t, o2.TrackUIDs[0].TrackFormat)
	require.NotNil(t, o2.TrackUIDs[0].TrackFormat.StreamFormat)
	require.NotNil(t, o2.TrackUIDs[0].TrackFormat.StreamFormat.ChannelFormat)
	cf := o2.TrackUIDs[0].TrackFormat.StreamFormat.ChannelFormat
	require.Len(t, cf.Blocks, 1)
	assert.True(t, cf.Blocks[0].HasPosition)
	assert.InDelta(t, 30.0, cf.Blocks[0].Position.Azimuth, 0.001)
}

func TestDecodeITUMode(t *testing.T) {
	g := buildSampleGraph(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g, ModeITU))
	assert.Contains(t, buf.String(), "<ituADM>")

	g2 := adm.NewGraph()
	require.NoError(t, Decode(bytes.NewReader(buf.Bytes()), g2))
	assert.Len(t, g2.Programmes(), 1)
}
