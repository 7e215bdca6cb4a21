package riff

import (
	"github.com/go-adm/bwf/adm"
	"github.com/go-adm/bwf/internal/bytecodec"
	"github.com/kelindar/intmap"
)

const chnaRecordSize = 40

// chnaChunk parses/serializes the track UID table of spec §4.5. It builds
// audioTrackUID objects directly in the AdmGraph supplied by the Context,
// and stashes their TrackRef/PackRef strings as pending references to be
// resolved once axml has been parsed (the two chunks can appear in either
// order on the wire).
type chnaChunk struct {
	trackCount uint16
	uidCount   uint16

	// byTrackNum indexes the graph's track UIDs by their 1-based TrackNum
	// for O(1) lookup from TrackCursor construction (spec §4.7), grounded
	// on internal/mul's intmap-backed entry lookup.
	byTrackNum *intmap.Map // trackNum -> index into uids
	uids       []*adm.TrackUID
}

func newCHNAChunk(*Context) Chunk { return &chnaChunk{byTrackNum: intmap.New(64, 0.9)} }

func (c *chnaChunk) Dispose() Disposition { return Load }

type chnaPendingRef struct {
	trackUID *adm.TrackUID
	trackRef string
	packRef  string
}

func (c *chnaChunk) ProcessRead(ctx *Context, body []byte) error {
	var off int
	var err error
	if c.trackCount, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}
	if c.uidCount, off, err = bytecodec.ReadU16LE(body, off); err != nil {
		return err
	}

	for off+chnaRecordSize <= len(body) {
		record := body[off : off+chnaRecordSize]
		off += chnaRecordSize

		var roff int
		trackNum, roff, err := bytecodec.ReadU16LE(record, roff)
		if err != nil {
			return err
		}
		uid, roff, err := bytecodec.ReadFixedString(record, roff, 12)
		if err != nil {
			return err
		}
		trackRef, roff, err := bytecodec.ReadFixedString(record, roff, 14)
		if err != nil {
			return err
		}
		packRef, _, err := bytecodec.ReadFixedString(record, roff, 11)
		if err != nil {
			return err
		}

		tu := ctx.Graph.CreateTrackUID(uid, trackNum)
		c.byTrackNum.Store(uint32(trackNum), uint32(len(c.uids)))
		c.uids = append(c.uids, tu)
		ctx.pendingCHNA = append(ctx.pendingCHNA, chnaPendingRef{
			trackUID: tu, trackRef: trackRef, packRef: packRef,
		})
	}
	return nil
}

// Lookup returns the audioTrackUID registered for the given 1-based track
// number, if any.
func (c *chnaChunk) Lookup(trackNum uint16) (*adm.TrackUID, bool) {
	idx, ok := c.byTrackNum.Load(uint32(trackNum))
	if !ok {
		return nil, false
	}
	return c.uids[idx], true
}

// CreateWriteData sizes the table to the graph's current track UID list;
// TrackCount counts distinct trackNum values observed (spec §4.5).
func (c *chnaChunk) CreateWriteData(ctx *Context) ([]byte, error) {
	uids := ctx.Graph.TrackUIDs()
	seen := make(map[uint16]bool, len(uids))
	for _, u := range uids {
		seen[u.TrackNum] = true
	}

	body := make([]byte, 4+len(uids)*chnaRecordSize)
	off := bytecodec.PutU16LE(body, 0, uint16(len(seen)))
	off = bytecodec.PutU16LE(body, off, uint16(len(uids)))

	for _, u := range uids {
		off = bytecodec.PutU16LE(body, off, u.TrackNum)
		off = bytecodec.PutFixedString(body, off, 12, u.ID)
		trackRef, packRef := "", ""
		if u.TrackFormat != nil {
			trackRef = u.TrackFormat.ID
		}
		if u.PackFormat != nil {
			packRef = u.PackFormat.ID
		}
		off = bytecodec.PutFixedString(body, off, 14, trackRef)
		off = bytecodec.PutFixedString(body, off, 11, packRef)
		off++ // pad byte
	}
	return body, nil
}
