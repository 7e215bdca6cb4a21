package cursor

import (
	"testing"

	"github.com/go-adm/bwf/adm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T, g *adm.Graph, trackNum uint16) (*adm.Object, *adm.ChannelFormat) {
	t.Helper()
	cf := g.CreateChannelFormat("", "", adm.TypeObjects)
	sf := g.CreateStreamFormat("", "", adm.FormatPCM)
	tf := g.CreateTrackFormat("", "", adm.FormatPCM)
	tu := g.CreateTrackUID("", trackNum)

	require.True(t, addRef(sf, cf))
	require.True(t, addRef(sf, tf))
	require.True(t, addRef(tu, tf))

	o := g.CreateObject("", "obj")
	o.TrackUIDs = append(o.TrackUIDs, tu)
	return o, cf
}

// addRef stands in for adm's package-private add dispatcher, which this
// package cannot call: it assigns the same forward references (and, for a
// stream format's track formats, the back-reference) directly on the
// exported fields, the way the finalise pass would.
func addRef(a, b any) bool {
	switch owner := a.(type) {
	case *adm.StreamFormat:
		switch target := b.(type) {
		case *adm.ChannelFormat:
			owner.ChannelFormat = target
			return true
		case *adm.TrackFormat:
			owner.TrackFormats = append(owner.TrackFormats, target)
			target.StreamFormat = owner
			return true
		}
	case *adm.TrackUID:
		if target, ok := b.(*adm.TrackFormat); ok {
			owner.TrackFormat = target
			return true
		}
	}
	return false
}

func TestCursorAddAndSeek(t *testing.T) {
	g := adm.NewGraph()
	o1, cf1 := buildChain(t, g, 3)
	o1.SetTimeExplicit(0, 10_000_000_000)
	g.AddBlockFormat(cf1, 0, 5_000_000_000)
	g.AddBlockFormat(cf1, 5_000_000_000, 5_000_000_000)

	o2, cf2 := buildChain(t, g, 3)
	o2.SetTimeExplicit(10_000_000_000, 10_000_000_000)
	g.AddBlockFormat(cf2, 0, 10_000_000_000)

	tc := New(3, g, testLogger{})
	require.True(t, tc.Add(o1))
	require.True(t, tc.Add(o2))

	tc.Seek(2_000_000_000)
	bf, ok := tc.Position()
	require.True(t, ok)
	assert.Equal(t, uint64(0), bf.RTime)

	tc.Seek(7_000_000_000)
	bf, ok = tc.Position()
	require.True(t, ok)
	assert.Equal(t, uint64(5_000_000_000), bf.RTime)

	tc.Seek(15_000_000_000)
	bf, ok = tc.Position()
	require.True(t, ok)
	assert.Same(t, cf2.Blocks[0], bf)
}

func TestCursorAddRejectsWrongChannel(t *testing.T) {
	g := adm.NewGraph()
	o, _ := buildChain(t, g, 3)

	tc := New(7, g, testLogger{})
	assert.False(t, tc.Add(o))
}

type testLogger struct{}

func (testLogger) Warnf(string, ...any) {}
