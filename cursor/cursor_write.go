package cursor

import "github.com/go-adm/bwf/adm"

// SetPosition authors automation at the cursor's current object, per spec
// §4.7's write-mode: if the new value equals the active block, nothing
// happens; if the active block already starts exactly at t, it is
// updated in place; otherwise a new block is appended, with the previous
// block's duration extended so its end aligns with the new block's start.
func (tc *TrackCursor) SetPosition(tNS uint64, pos adm.Position, supplement map[string]string) {
	active, ok := tc.activeObject()
	if !ok {
		return
	}
	start, _ := active.object.StartTime()
	relative := uint64(0)
	if tNS > start {
		relative = tNS - start
	}

	if bf, hasBlock := tc.Position(); hasBlock {
		if samePosition(bf, pos, supplement) {
			return
		}
		if bf.RTime == relative {
			applyPosition(bf, pos, supplement)
			return
		}
		bf.Duration = relative - bf.RTime
	}

	cf := active.channelFormat
	newBlock := tc.graph.AddBlockFormat(cf, relative, 0)
	applyPosition(newBlock, pos, supplement)
	tc.blockIndex = len(cf.Blocks) - 1
}

// EndPositionChanges closes the last open block at the cursor's current
// time (spec §4.7 "end_position_changes").
func (tc *TrackCursor) EndPositionChanges(tNS uint64) {
	bf, ok := tc.Position()
	if !ok {
		return
	}
	active, _ := tc.activeObject()
	start, _ := active.object.StartTime()
	relative := uint64(0)
	if tNS > start {
		relative = tNS - start
	}
	if relative > bf.RTime {
		bf.Duration = relative - bf.RTime
	}
}

func samePosition(bf *adm.BlockFormat, pos adm.Position, supplement map[string]string) bool {
	if bf.Position != pos {
		return false
	}
	if len(bf.Supplement) != len(supplement) {
		return false
	}
	for k, v := range supplement {
		if bf.Supplement[k] != v {
			return false
		}
	}
	return true
}

func applyPosition(bf *adm.BlockFormat, pos adm.Position, supplement map[string]string) {
	bf.HasPosition = true
	bf.Position = pos
	if bf.Supplement == nil {
		bf.Supplement = make(map[string]string, len(supplement))
	}
	for k, v := range supplement {
		bf.Supplement[k] = v
	}
}
