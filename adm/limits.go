package adm

// channelFormatsOf returns the deduplicated set of channel formats reachable
// from o: directly via its pack formats (including nested pack formats) and
// indirectly via its track UIDs' track format -> stream format chain.
func channelFormatsOf(o *Object) []*ChannelFormat {
	seen := make(map[*ChannelFormat]bool)
	var out []*ChannelFormat
	add := func(cf *ChannelFormat) {
		if cf == nil || seen[cf] {
			return
		}
		seen[cf] = true
		out = append(out, cf)
	}

	var walkPack func(pf *PackFormat)
	walkPack = func(pf *PackFormat) {
		for _, cf := range pf.ChannelFormats {
			add(cf)
		}
		for _, nested := range pf.Nested {
			walkPack(nested)
		}
	}
	for _, pf := range o.PackFormats {
		walkPack(pf)
	}

	for _, tu := range o.TrackUIDs {
		if tu.TrackFormat != nil && tu.TrackFormat.StreamFormat != nil {
			add(tu.TrackFormat.StreamFormat.ChannelFormat)
		}
	}
	return out
}

// channelFormatOwners maps each channel format reachable from any object in
// the graph to the set of distinct objects that reach it, used to detect
// sharing for UpdateAudioObjectLimits's relocation guard.
func (g *Graph) channelFormatOwners() map[*ChannelFormat]map[*Object]bool {
	owners := make(map[*ChannelFormat]map[*Object]bool)
	for _, o := range g.objectsList {
		for _, cf := range channelFormatsOf(o) {
			set, ok := owners[cf]
			if !ok {
				set = make(map[*Object]bool)
				owners[cf] = set
			}
			set[o] = true
		}
	}
	return owners
}

// UpdateAudioObjectLimits derives o's startTime/duration from the transitive
// closure of block formats reachable through its channel formats, per spec
// §4.6 "Updating audio object limits". It is a no-op if o's time was set
// explicitly, or if any reachable channel format is also reachable from a
// different audioObject (the shared channel cannot be relocated safely).
func (g *Graph) UpdateAudioObjectLimits(o *Object) {
	if o.explicit {
		return
	}

	channels := channelFormatsOf(o)
	if len(channels) == 0 {
		return
	}

	owners := g.channelFormatOwners()
	for _, cf := range channels {
		if len(owners[cf]) > 1 {
			return // shared with a sibling object; cannot relocate
		}
	}

	var minStart, maxEnd uint64
	found := false
	for _, cf := range channels {
		for _, bf := range cf.Blocks {
			end := bf.RTime + bf.Duration
			if !found {
				minStart, maxEnd, found = bf.RTime, end, true
				continue
			}
			if bf.RTime < minStart {
				minStart = bf.RTime
			}
			if end > maxEnd {
				maxEnd = end
			}
		}
	}
	if !found {
		return
	}

	if minStart != 0 {
		for _, cf := range channels {
			for _, bf := range cf.Blocks {
				bf.RTime -= minStart
			}
		}
	}

	o.setTimeDerived(minStart, maxEnd-minStart)
}
