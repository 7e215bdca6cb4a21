package adm

import (
	"fmt"
	"strings"
)

var elementToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name != "" {
			m[name] = Kind(k)
		}
	}
	return m
}()

// refTarget splits a value-bag entry name like "audioContentIDRef" or
// "audioTrackUIDRef" into the referenced Kind, per spec §3.1/§4.6.
func refTarget(name string) (Kind, bool) {
	if strings.HasSuffix(name, "IDRef") {
		elem := strings.TrimSuffix(name, "IDRef")
		if k, ok := elementToKind[elem]; ok {
			return k, true
		}
	}
	if strings.HasSuffix(name, "Ref") {
		elem := strings.TrimSuffix(name, "Ref")
		if k, ok := elementToKind[elem]; ok {
			return k, true
		}
	}
	return 0, false
}

// isRefName reports whether name is a reference-attribute name understood
// by resolveReferences (used to decide whether an entry is a candidate).
func isRefName(name string) bool {
	return strings.HasSuffix(name, "IDRef") || strings.HasSuffix(name, "Ref")
}

// handles returns every programme, content, object, pack format, stream
// format, track format and track UID registered in the graph as an
// ObjectHandle, used to walk their value bags uniformly during reference
// resolution. Channel and block formats are not included.
func (g *Graph) handles() []ObjectHandle {
	out := make([]ObjectHandle, 0,
		len(g.programmes)+len(g.contents)+len(g.objectsList)+len(g.packFormats)+
			len(g.streamFormats)+len(g.trackFormats)+len(g.trackUIDs))
	for _, p := range g.programmes {
		out = append(out, ObjectHandle{Kind: KindProgramme, Programme: p})
	}
	for _, c := range g.contents {
		out = append(out, ObjectHandle{Kind: KindContent, Content: c})
	}
	for _, o := range g.objectsList {
		out = append(out, ObjectHandle{Kind: KindObject, Object: o})
	}
	for _, p := range g.packFormats {
		out = append(out, ObjectHandle{Kind: KindPackFormat, PackFormat: p})
	}
	for _, s := range g.streamFormats {
		out = append(out, ObjectHandle{Kind: KindStreamFormat, StreamFormat: s})
	}
	for _, t := range g.trackFormats {
		out = append(out, ObjectHandle{Kind: KindTrackFormat, TrackFormat: t})
	}
	for _, u := range g.trackUIDs {
		out = append(out, ObjectHandle{Kind: KindTrackUID, TrackUID: u})
	}
	return out
}

func bagOf(h ObjectHandle) *ValueBag {
	switch h.Kind {
	case KindProgramme:
		return &h.Programme.Bag
	case KindContent:
		return &h.Content.Bag
	case KindObject:
		return &h.Object.Bag
	case KindPackFormat:
		return &h.PackFormat.Bag
	case KindStreamFormat:
		return &h.StreamFormat.Bag
	case KindTrackFormat:
		return &h.TrackFormat.Bag
	case KindTrackUID:
		return &h.TrackUID.Bag
	default:
		return nil
	}
}

// resolveReferences scans every object's value bag for reference entries,
// resolves them against the graph, invokes the owner's add dispatch, and
// removes the entry regardless of outcome (spec §4.6, invariant 3).
// Unresolved IDs (ReferenceError) and type-mismatched targets (TypeError)
// are logged and otherwise ignored; resolution never aborts the parse.
func (g *Graph) resolveReferences() {
	for _, owner := range g.handles() {
		bag := bagOf(owner)
		if bag == nil {
			continue
		}
		kept := bag.All()[:0:0]
		for _, v := range bag.All() {
			if !isRefName(v.Name) {
				kept = append(kept, v)
				continue
			}
			targetKind, ok := refTarget(v.Name)
			if !ok {
				kept = append(kept, v)
				continue
			}
			target, ok := g.Lookup(targetKind, v.Value)
			if !ok {
				g.Log.Warnf("reference error: %s %s references unresolved %s %q",
					owner.Kind.TypeName(), owner.ID(), targetKind.TypeName(), v.Value)
				continue // drop, do not keep
			}
			if !add(owner, target) {
				g.Log.Warnf("type error: %s %s cannot accept reference to %s %q via %s",
					owner.Kind.TypeName(), owner.ID(), targetKind.TypeName(), v.Value, v.Name)
			}
			// entry dropped either way
		}
		replaceBag(bag, kept)
	}
}

func replaceBag(bag *ValueBag, values []XMLValue) {
	for bag.Len() > 0 {
		bag.Remove(0)
	}
	for _, v := range values {
		bag.Add(v)
	}
}

// Finalise performs the full finalisation pass of spec §4.6: sort the
// track list, sort each channel format's blocks, resolve references,
// rewrite temporary IDs to canonical form, and derive start/duration for
// objects that were not given them explicitly.
func (g *Graph) Finalise() {
	g.sortTracks()
	for _, cf := range g.channelFormats {
		sortBlocks(cf)
	}
	g.resolveReferences()
	g.rewriteTemporaryIDs()
	for _, o := range g.objectsList {
		if !o.explicit {
			g.UpdateAudioObjectLimits(o)
		}
	}
}

func (g *Graph) nextSimple(kind Kind) uint32 {
	v, ok := g.counterSimple[kind]
	if !ok {
		v = 0x1000
	}
	g.counterSimple[kind] = v + 1
	return v
}

func (g *Graph) nextByType(kind Kind, tl TypeLabel) uint32 {
	bucket, ok := g.counterByType[kind]
	if !ok {
		bucket = make(map[TypeLabel]uint32)
		g.counterByType[kind] = bucket
	}
	v, ok := bucket[tl]
	if !ok {
		v = 1
	}
	bucket[tl] = v + 1
	return v
}

func (g *Graph) nextTrackFormatSuffix(tl TypeLabel, fl FormatLabel) uint32 {
	key := [2]uint16{uint16(tl), uint16(fl)}
	v := g.counterTrackFm[key]
	g.counterTrackFm[key] = v + 1
	return v
}

func (g *Graph) nextTrackUID() uint32 {
	g.counterTrackU++
	return g.counterTrackU
}

func isTemp(id string) bool { return strings.HasSuffix(id, "_T") }

// rewriteTemporaryIDs rewrites every object whose ID still carries the "_T"
// temporary suffix to its canonical form, cascading programme -> content ->
// object -> pack format -> (channel/stream/track formats, track UIDs and
// block formats via descent), per spec §4.6d.
func (g *Graph) rewriteTemporaryIDs() {
	for _, p := range g.programmes {
		if isTemp(p.ID) {
			g.assignCanonicalID(ObjectHandle{Kind: KindProgramme, Programme: p},
				fmt.Sprintf("APR_%04x", g.nextSimple(KindProgramme)))
		}
	}
	for _, c := range g.contents {
		if isTemp(c.ID) {
			g.assignCanonicalID(ObjectHandle{Kind: KindContent, Content: c},
				fmt.Sprintf("ACO_%04x", g.nextSimple(KindContent)))
		}
	}
	for _, o := range g.objectsList {
		if isTemp(o.ID) {
			g.assignCanonicalID(ObjectHandle{Kind: KindObject, Object: o},
				fmt.Sprintf("AO_%04x", g.nextSimple(KindObject)))
		}
	}
	for _, pf := range g.packFormats {
		g.rewritePackFormat(pf)
	}
	for _, sf := range g.streamFormats {
		if isTemp(sf.ID) {
			tl := streamTypeLabel(sf)
			g.assignCanonicalID(ObjectHandle{Kind: KindStreamFormat, StreamFormat: sf},
				fmt.Sprintf("AS_%04x%04x", uint16(tl), g.nextByType(KindStreamFormat, tl)))
		}
	}
	for _, tf := range g.trackFormats {
		if isTemp(tf.ID) {
			tl := trackFormatTypeLabel(tf)
			g.assignCanonicalID(ObjectHandle{Kind: KindTrackFormat, TrackFormat: tf},
				fmt.Sprintf("AT_%04x%04x_%02x", uint16(tl), uint16(tf.FormatLabel), g.nextTrackFormatSuffix(tl, tf.FormatLabel)))
		}
	}
	for _, u := range g.trackUIDs {
		if isTemp(u.ID) {
			g.assignCanonicalID(ObjectHandle{Kind: KindTrackUID, TrackUID: u},
				fmt.Sprintf("ATU_%08x", g.nextTrackUID()))
		}
	}
}

func (g *Graph) rewritePackFormat(pf *PackFormat) {
	if isTemp(pf.ID) {
		g.assignCanonicalID(ObjectHandle{Kind: KindPackFormat, PackFormat: pf},
			fmt.Sprintf("AP_%04x%04x", uint16(pf.TypeLabel), g.nextByType(KindPackFormat, pf.TypeLabel)))
	}
	for _, cf := range pf.ChannelFormats {
		g.rewriteChannelFormat(cf)
	}
	for _, nested := range pf.Nested {
		g.rewritePackFormat(nested)
	}
}

func (g *Graph) rewriteChannelFormat(cf *ChannelFormat) {
	if isTemp(cf.ID) {
		g.assignCanonicalID(ObjectHandle{Kind: KindChannelFormat, ChannelFormat: cf},
			fmt.Sprintf("AC_%04x%04x", uint16(cf.TypeLabel), g.nextByType(KindChannelFormat, cf.TypeLabel)))
		renumberBlocks(cf)
	}
}

// renumberBlocks recomputes every block format's ID from cf's current ID,
// preserving each block's position (already time-sorted) as its ordinal
// (spec §3.4, "renaming a channel renames its blocks").
func renumberBlocks(cf *ChannelFormat) {
	for i, bf := range cf.Blocks {
		bf.ID = blockFormatID(cf.ID, uint32(i))
	}
}

func streamTypeLabel(sf *StreamFormat) TypeLabel {
	if sf.ChannelFormat != nil {
		return sf.ChannelFormat.TypeLabel
	}
	if sf.PackFormat != nil {
		return sf.PackFormat.TypeLabel
	}
	return 0
}

func trackFormatTypeLabel(tf *TrackFormat) TypeLabel {
	if tf.StreamFormat != nil {
		return streamTypeLabel(tf.StreamFormat)
	}
	return 0
}
