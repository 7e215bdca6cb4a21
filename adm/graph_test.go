package adm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTemporaryIDRewrite covers spec scenario S6: a programmatically built
// packFormat/channelFormat/blockFormat chain with no explicit IDs gets
// canonical IDs after Finalise.
func TestTemporaryIDRewrite(t *testing.T) {
	g := NewGraph()

	pf := g.CreatePackFormat("", "", TypeObjects)
	cf := g.CreateChannelFormat("", "", TypeObjects)
	add(ObjectHandle{Kind: KindPackFormat, PackFormat: pf}, ObjectHandle{Kind: KindChannelFormat, ChannelFormat: cf})
	g.AddBlockFormat(cf, 0, 0)

	g.Finalise()

	assert.Regexp(t, regexp.MustCompile(`^AP_0003[0-9a-fA-F]{4}$`), pf.ID)
	assert.Regexp(t, regexp.MustCompile(`^AC_0003[0-9a-fA-F]{4}$`), cf.ID)
	require.Len(t, cf.Blocks, 1)
	assert.Regexp(t, regexp.MustCompile(`^AB_0003[0-9a-fA-F]{4}_[0-9a-fA-F]{8}$`), cf.Blocks[0].ID)

	suffix := cf.ID[len("AC_"):]
	assert.Contains(t, cf.Blocks[0].ID, suffix)
}

// TestIDUniqueness exercises invariant 1: the same (type, id) pair always
// denotes the same object, and creating a second object under an existing
// (type, id) returns the first one unchanged.
func TestIDUniqueness(t *testing.T) {
	g := NewGraph()

	a := g.CreateContent("ACO_1000", "A")
	b := g.CreateContent("ACO_1000", "B")
	assert.Same(t, a, b, "same (type, id) must return the same object")
	assert.Equal(t, "A", b.Name)
}

// TestBlockSortInvariant covers invariant 2.
func TestBlockSortInvariant(t *testing.T) {
	g := NewGraph()
	cf := g.CreateChannelFormat("AC_00030001", "", TypeObjects)

	g.AddBlockFormat(cf, 5_000_000_000, 1_000_000_000)
	g.AddBlockFormat(cf, 1_000_000_000, 1_000_000_000)
	g.AddBlockFormat(cf, 3_000_000_000, 1_000_000_000)

	sortBlocks(cf)

	for i := 1; i < len(cf.Blocks); i++ {
		assert.LessOrEqual(t, cf.Blocks[i-1].RTime, cf.Blocks[i].RTime)
	}
}

// TestReferenceRejection covers spec scenario S4: a dangling
// audioContentIDRef is dropped with no error propagated to the caller.
func TestReferenceRejection(t *testing.T) {
	g := NewGraph()
	p := g.CreateProgramme("APR_1000", "prog")
	p.Bag.Add(XMLValue{Name: "audioContentIDRef", Value: "ACO_9999"})

	g.Finalise()

	assert.Empty(t, p.Contents)
	assert.Equal(t, 0, p.Bag.Len(), "dangling ref entry must still be dropped from the bag")
}

// TestReferenceIntegrity covers invariant 3: after finalisation no bag entry
// ends in IDRef/UIDRef/Ref.
func TestReferenceIntegrity(t *testing.T) {
	g := NewGraph()
	p := g.CreateProgramme("APR_1000", "prog")
	c := g.CreateContent("ACO_1000", "content")
	p.Bag.Add(XMLValue{Name: "audioContentIDRef", Value: c.ID})

	g.Finalise()

	require.Len(t, p.Contents, 1)
	assert.Same(t, c, p.Contents[0])
	for _, v := range p.Bag.All() {
		assert.False(t, isRefName(v.Name))
	}
}

// TestUpdateAudioObjectLimits covers scenario S1's time-derivation half: an
// object with two channel formats, each with one block at rtime=0 and a 10s
// duration, gets startTime=0/duration=10s.
func TestUpdateAudioObjectLimits(t *testing.T) {
	g := NewGraph()

	pf := g.CreatePackFormat("AP_00030001", "", TypeObjects)
	cf1 := g.CreateChannelFormat("AC_00030001", "", TypeObjects)
	cf2 := g.CreateChannelFormat("AC_00030002", "", TypeObjects)
	add(ObjectHandle{Kind: KindPackFormat, PackFormat: pf}, ObjectHandle{Kind: KindChannelFormat, ChannelFormat: cf1})
	add(ObjectHandle{Kind: KindPackFormat, PackFormat: pf}, ObjectHandle{Kind: KindChannelFormat, ChannelFormat: cf2})

	tenSeconds, err := ParseTime("00:00:10.00000")
	require.NoError(t, err)
	g.AddBlockFormat(cf1, 0, tenSeconds)
	g.AddBlockFormat(cf2, 0, tenSeconds)

	o := g.CreateObject("AO_1000", "obj")
	add(ObjectHandle{Kind: KindObject, Object: o}, ObjectHandle{Kind: KindPackFormat, PackFormat: pf})

	g.Finalise()

	start, ok := o.StartTime()
	require.True(t, ok)
	assert.Equal(t, uint64(0), start)
	dur, ok := o.Duration()
	require.True(t, ok)
	assert.Equal(t, tenSeconds, dur)
}

// TestUpdateAudioObjectLimitsSharedChannelSkipped ensures a channel format
// reachable from two objects is not relocated by either.
func TestUpdateAudioObjectLimitsSharedChannelSkipped(t *testing.T) {
	g := NewGraph()
	pf := g.CreatePackFormat("AP_00030001", "", TypeObjects)
	cf := g.CreateChannelFormat("AC_00030001", "", TypeObjects)
	add(ObjectHandle{Kind: KindPackFormat, PackFormat: pf}, ObjectHandle{Kind: KindChannelFormat, ChannelFormat: cf})
	g.AddBlockFormat(cf, 2_000_000_000, 1_000_000_000)

	o1 := g.CreateObject("AO_1000", "o1")
	o2 := g.CreateObject("AO_1001", "o2")
	add(ObjectHandle{Kind: KindObject, Object: o1}, ObjectHandle{Kind: KindPackFormat, PackFormat: pf})
	add(ObjectHandle{Kind: KindObject, Object: o2}, ObjectHandle{Kind: KindPackFormat, PackFormat: pf})

	g.Finalise()

	_, ok1 := o1.StartTime()
	_, ok2 := o2.StartTime()
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestFormatAndParseTimeRoundTrip(t *testing.T) {
	cases := []uint64{0, 10_000, 3_723_450_000, 10 * 10_000}
	for _, ns := range cases {
		s := FormatTime(ns)
		back, err := ParseTime(s)
		require.NoError(t, err)
		assert.Equal(t, ns, back)
	}
}
