// Package cursor implements the TrackCursor of spec §4.7: a per-channel
// read/write pointer over an AdmGraph's time-ordered audioObject/
// audioBlockFormat chain, used by the playback engine to drive automation
// reads and by authoring tools to append automation writes.
package cursor

import (
	"sort"

	"github.com/go-adm/bwf/adm"
)

// entry binds one audioObject reachable by this cursor's channel to the
// audioChannelFormat carrying its automation.
type entry struct {
	object        *adm.Object
	channelFormat *adm.ChannelFormat
}

// TrackCursor is a per-channel cursor constructed from a 1-based channel
// (track) index, per spec §4.7.
type TrackCursor struct {
	channel uint16
	graph   *adm.Graph
	log     adm.Logger

	entries []entry
	sorted  bool

	objectIndex int
	blockIndex  int
}

// New constructs a cursor for the given 1-based channel/track number. g is
// used by write-mode SetPosition to allocate new block formats through
// the graph's ID allocator.
func New(channel uint16, g *adm.Graph, log adm.Logger) *TrackCursor {
	return &TrackCursor{channel: channel, graph: g, log: log, objectIndex: -1, blockIndex: -1}
}

// Channel returns the cursor's 1-based track number.
func (tc *TrackCursor) Channel() uint16 { return tc.channel }

// Add filters o's track UIDs for ones whose TrackNum matches the cursor's
// channel, and records the (object, channelFormat) pair reached by the
// reference chain track -> trackFormat -> streamFormat -> channelFormat.
// Matching track UIDs whose chain is incomplete are skipped. The object is
// rejected and logged if two matching track UIDs resolve to different
// channel formats, or if no matching track UID has a complete chain; an
// object with no track UID on this channel is rejected without a log
// (spec §4.7).
func (tc *TrackCursor) Add(o *adm.Object) bool {
	var resolved *adm.ChannelFormat
	matches := 0

	for _, tu := range o.TrackUIDs {
		if tu.TrackNum != tc.channel {
			continue
		}
		matches++
		cf := channelFormatOf(tu)
		if cf == nil {
			continue
		}
		if resolved != nil && resolved != cf {
			tc.log.Warnf("cursor: object %s has ambiguous channel-format chain on channel %d", o.ID, tc.channel)
			return false
		}
		resolved = cf
	}

	if matches == 0 {
		return false
	}
	if resolved == nil {
		tc.log.Warnf("cursor: object %s has no complete channel-format chain on channel %d", o.ID, tc.channel)
		return false
	}

	tc.entries = append(tc.entries, entry{object: o, channelFormat: resolved})
	tc.sorted = false
	return true
}

func channelFormatOf(tu *adm.TrackUID) *adm.ChannelFormat {
	if tu.TrackFormat == nil || tu.TrackFormat.StreamFormat == nil {
		return nil
	}
	return tu.TrackFormat.StreamFormat.ChannelFormat
}

// sortEntries stable-sorts the cursor's object list by start time, per
// spec §4.7 ("The cursor's object list is sorted by object start time").
func (tc *TrackCursor) sortEntries() {
	if tc.sorted {
		return
	}
	sort.SliceStable(tc.entries, func(i, j int) bool {
		si, _ := tc.entries[i].object.StartTime()
		sj, _ := tc.entries[j].object.StartTime()
		return si < sj
	})
	tc.sorted = true
}

// activeObject returns the object/channel format pair the cursor is
// currently positioned on, or false if the cursor has no active entry.
func (tc *TrackCursor) activeObject() (entry, bool) {
	if tc.objectIndex < 0 || tc.objectIndex >= len(tc.entries) {
		return entry{}, false
	}
	return tc.entries[tc.objectIndex], true
}

// Seek moves the cursor to the block active at tNS, walking incrementally
// from the current position so repeated contiguous seeks are O(1), per
// spec §4.7.
func (tc *TrackCursor) Seek(tNS uint64) {
	tc.sortEntries()
	if len(tc.entries) == 0 {
		tc.objectIndex, tc.blockIndex = -1, -1
		return
	}
	if tc.objectIndex < 0 {
		tc.objectIndex = 0
		tc.blockIndex = -1
	}

	for {
		obj := tc.entries[tc.objectIndex].object
		start, _ := obj.StartTime()
		dur, _ := obj.Duration()
		switch {
		case tNS < start && tc.objectIndex > 0:
			tc.objectIndex--
			tc.blockIndex = -1
			continue
		case tNS >= start+dur && tc.objectIndex < len(tc.entries)-1:
			tc.objectIndex++
			tc.blockIndex = -1
			continue
		}
		break
	}

	obj := tc.entries[tc.objectIndex].object
	start, _ := obj.StartTime()
	relative := uint64(0)
	if tNS > start {
		relative = tNS - start
	}
	tc.seekBlock(relative)
}

// seekBlock walks blockIndex forward/backward within the active channel
// format's block list to the block covering the object-relative time rel.
func (tc *TrackCursor) seekBlock(rel uint64) {
	active, ok := tc.activeObject()
	if !ok {
		return
	}
	blocks := active.channelFormat.Blocks
	if len(blocks) == 0 {
		tc.blockIndex = -1
		return
	}
	if tc.blockIndex < 0 {
		tc.blockIndex = 0
	}
	for tc.blockIndex > 0 && blocks[tc.blockIndex].RTime > rel {
		tc.blockIndex--
	}
	for tc.blockIndex < len(blocks)-1 && blocks[tc.blockIndex+1].RTime <= rel {
		tc.blockIndex++
	}
}

// Position returns the block format active at the cursor's current
// position, or false if none (spec §4.7 "get_position").
func (tc *TrackCursor) Position() (*adm.BlockFormat, bool) {
	active, ok := tc.activeObject()
	if !ok || tc.blockIndex < 0 || tc.blockIndex >= len(active.channelFormat.Blocks) {
		return nil, false
	}
	return active.channelFormat.Blocks[tc.blockIndex], true
}

// PositionSupplement returns the active block's supplementary parameter
// map (spec §4.7 "get_position_supplement").
func (tc *TrackCursor) PositionSupplement() map[string]string {
	bf, ok := tc.Position()
	if !ok {
		return nil
	}
	return bf.Supplement
}
