package adm

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Logger receives tolerated parse faults (ReferenceError/TypeError per spec
// §7); the default implementation writes to the standard library logger,
// since the spec explicitly treats logging as an external collaborator
// (§1) and no example repo in this corpus ships a structured logger this
// package would otherwise need.
type Logger interface {
	Warnf(format string, args ...any)
}

type stdLogger struct{}

func (stdLogger) Warnf(format string, args ...any) { log.Printf("adm: "+format, args...) }

// Graph is the ADM typed object model: the set of all entities reachable
// from a file, their value bags, and the allocator/finalisation machinery
// described in spec §3-§4.6. Objects are owned exclusively by the Graph;
// references between them are non-owning back-pointers (spec §3.5).
type Graph struct {
	Log Logger

	objects map[string]ObjectHandle // "<TypeName>/<id>" -> handle

	programmes     []*Programme
	contents       []*Content
	objectsList    []*Object
	packFormats    []*PackFormat
	channelFormats []*ChannelFormat
	streamFormats  []*StreamFormat
	trackFormats   []*TrackFormat
	trackUIDs      []*TrackUID

	tempCounter uint32

	counterSimple  map[Kind]uint32            // programme/content/object -> 12-bit counter from 0x1000
	counterByType  map[Kind]map[TypeLabel]uint32 // pack/channel/stream -> per typeLabel counter from 1
	counterTrackFm map[[2]uint16]uint32       // (typeLabel,formatLabel) -> 2-hex counter from 0
	counterTrackU  uint32                     // from 1
}

// NewGraph constructs an empty, writable graph.
func NewGraph() *Graph {
	return &Graph{
		Log:            stdLogger{},
		objects:        make(map[string]ObjectHandle),
		counterSimple:  make(map[Kind]uint32),
		counterByType:  make(map[Kind]map[TypeLabel]uint32),
		counterTrackFm: make(map[[2]uint16]uint32),
	}
}

func key(kind Kind, id string) string {
	return kind.TypeName() + "/" + id
}

// Lookup returns the object registered under (kind, id), if any.
func (g *Graph) Lookup(kind Kind, id string) (ObjectHandle, bool) {
	h, ok := g.objects[key(kind, id)]
	return h, ok
}

// register implements the create(type, id, name) contract of spec §4.6:
// if (kind, id) is already mapped, the existing object is returned and h
// (a freshly constructed duplicate) is discarded; otherwise h is inserted
// and returned.
func (g *Graph) register(h ObjectHandle) ObjectHandle {
	k := key(h.Kind, h.ID())
	if existing, ok := g.objects[k]; ok {
		return existing
	}
	g.objects[k] = h
	return h
}

// assignCanonicalID gives h the id candidate, appending a "_%02x" suffix and
// retrying until unique if candidate is already registered to a different
// object (spec §3.2, "If an explicit ID collides, the allocator appends
// _%02x and retries until unique"). This is the only place a genuine
// collision can arise: create() above already guarantees no collision for
// caller-supplied IDs, so this matters only when a freshly computed
// canonical ID happens to coincide with an explicit ID the source file
// already used for a different object.
func (g *Graph) assignCanonicalID(h ObjectHandle, candidate string) string {
	id := candidate
	for attempt := 0; ; attempt++ {
		k := key(h.Kind, id)
		if existing, ok := g.objects[k]; ok && !sameObject(existing, h) {
			id = fmt.Sprintf("%s_%02x", candidate, attempt)
			continue
		}
		delete(g.objects, key(h.Kind, h.ID()))
		setID(h, id)
		g.objects[k] = h
		return id
	}
}

func sameObject(a, b ObjectHandle) bool {
	switch a.Kind {
	case KindProgramme:
		return a.Programme == b.Programme
	case KindContent:
		return a.Content == b.Content
	case KindObject:
		return a.Object == b.Object
	case KindPackFormat:
		return a.PackFormat == b.PackFormat
	case KindChannelFormat:
		return a.ChannelFormat == b.ChannelFormat
	case KindStreamFormat:
		return a.StreamFormat == b.StreamFormat
	case KindTrackFormat:
		return a.TrackFormat == b.TrackFormat
	case KindTrackUID:
		return a.TrackUID == b.TrackUID
	case KindBlockFormat:
		return a.BlockFormat == b.BlockFormat
	default:
		return false
	}
}

func setID(h ObjectHandle, id string) {
	switch h.Kind {
	case KindProgramme:
		h.Programme.ID = id
	case KindContent:
		h.Content.ID = id
	case KindObject:
		h.Object.ID = id
	case KindPackFormat:
		h.PackFormat.ID = id
	case KindChannelFormat:
		h.ChannelFormat.ID = id
	case KindStreamFormat:
		h.StreamFormat.ID = id
	case KindTrackFormat:
		h.TrackFormat.ID = id
	case KindTrackUID:
		h.TrackUID.ID = id
	case KindBlockFormat:
		h.BlockFormat.ID = id
	}
}

// tempID allocates a temporary ID for kind, ending in the "_T" suffix that
// marks it for rewrite during finalise (spec §3.2).
func (g *Graph) tempID(kind Kind) string {
	g.tempCounter++
	return fmt.Sprintf("%s_%04x_T", kind.IDPrefix(), g.tempCounter)
}

// CreateProgramme returns the existing programme registered under id, or
// constructs and registers a new one. An empty id allocates a temporary one.
func (g *Graph) CreateProgramme(id, name string) *Programme {
	if id == "" {
		id = g.tempID(KindProgramme)
	}
	h := ObjectHandle{Kind: KindProgramme, Programme: &Programme{ID: id, Name: name}}
	out := g.register(h)
	if !containsProgramme(g.programmes, out.Programme) {
		g.programmes = append(g.programmes, out.Programme)
	}
	return out.Programme
}

func containsProgramme(list []*Programme, p *Programme) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

// CreateContent returns the existing content registered under id, or
// constructs and registers a new one.
func (g *Graph) CreateContent(id, name string) *Content {
	if id == "" {
		id = g.tempID(KindContent)
	}
	h := ObjectHandle{Kind: KindContent, Content: &Content{ID: id, Name: name}}
	out := g.register(h)
	if !containsContent(g.contents, out.Content) {
		g.contents = append(g.contents, out.Content)
	}
	return out.Content
}

func containsContent(list []*Content, c *Content) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// CreateObject returns the existing object registered under id, or
// constructs and registers a new one.
func (g *Graph) CreateObject(id, name string) *Object {
	if id == "" {
		id = g.tempID(KindObject)
	}
	h := ObjectHandle{Kind: KindObject, Object: &Object{ID: id, Name: name}}
	out := g.register(h)
	if !containsObject(g.objectsList, out.Object) {
		g.objectsList = append(g.objectsList, out.Object)
	}
	return out.Object
}

func containsObject(list []*Object, o *Object) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

// CreatePackFormat returns the existing pack format registered under id, or
// constructs and registers a new one.
func (g *Graph) CreatePackFormat(id, name string, typeLabel TypeLabel) *PackFormat {
	if id == "" {
		id = g.tempID(KindPackFormat)
	}
	h := ObjectHandle{Kind: KindPackFormat, PackFormat: &PackFormat{ID: id, Name: name, TypeLabel: typeLabel}}
	out := g.register(h)
	if !containsPack(g.packFormats, out.PackFormat) {
		g.packFormats = append(g.packFormats, out.PackFormat)
	}
	return out.PackFormat
}

func containsPack(list []*PackFormat, p *PackFormat) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

// CreateChannelFormat returns the existing channel format registered under
// id, or constructs and registers a new one.
func (g *Graph) CreateChannelFormat(id, name string, typeLabel TypeLabel) *ChannelFormat {
	if id == "" {
		id = g.tempID(KindChannelFormat)
	}
	h := ObjectHandle{Kind: KindChannelFormat, ChannelFormat: &ChannelFormat{ID: id, Name: name, TypeLabel: typeLabel}}
	out := g.register(h)
	if !containsChannel(g.channelFormats, out.ChannelFormat) {
		g.channelFormats = append(g.channelFormats, out.ChannelFormat)
	}
	return out.ChannelFormat
}

func containsChannel(list []*ChannelFormat, c *ChannelFormat) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// CreateStreamFormat returns the existing stream format registered under
// id, or constructs and registers a new one.
func (g *Graph) CreateStreamFormat(id, name string, formatLabel FormatLabel) *StreamFormat {
	if id == "" {
		id = g.tempID(KindStreamFormat)
	}
	h := ObjectHandle{Kind: KindStreamFormat, StreamFormat: &StreamFormat{ID: id, Name: name, FormatLabel: formatLabel}}
	out := g.register(h)
	if !containsStream(g.streamFormats, out.StreamFormat) {
		g.streamFormats = append(g.streamFormats, out.StreamFormat)
	}
	return out.StreamFormat
}

func containsStream(list []*StreamFormat, s *StreamFormat) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// CreateTrackFormat returns the existing track format registered under id,
// or constructs and registers a new one.
func (g *Graph) CreateTrackFormat(id, name string, formatLabel FormatLabel) *TrackFormat {
	if id == "" {
		id = g.tempID(KindTrackFormat)
	}
	h := ObjectHandle{Kind: KindTrackFormat, TrackFormat: &TrackFormat{ID: id, Name: name, FormatLabel: formatLabel}}
	out := g.register(h)
	if !containsTrackFormat(g.trackFormats, out.TrackFormat) {
		g.trackFormats = append(g.trackFormats, out.TrackFormat)
	}
	return out.TrackFormat
}

func containsTrackFormat(list []*TrackFormat, t *TrackFormat) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// CreateTrackUID returns the existing track UID registered under id, or
// constructs and registers a new one.
func (g *Graph) CreateTrackUID(id string, trackNum uint16) *TrackUID {
	if id == "" {
		id = g.tempID(KindTrackUID)
	}
	h := ObjectHandle{Kind: KindTrackUID, TrackUID: &TrackUID{ID: id, TrackNum: trackNum}}
	out := g.register(h)
	if !containsTrackUID(g.trackUIDs, out.TrackUID) {
		g.trackUIDs = append(g.trackUIDs, out.TrackUID)
	}
	return out.TrackUID
}

func containsTrackUID(list []*TrackUID, t *TrackUID) bool {
	for _, x := range list {
		if x == t {
			return true
		}
	}
	return false
}

// AddBlockFormat appends a new block format to cf, allocating its ID from
// cf's own monotonic ordinal counter rather than a map scan, so that
// heavily automated channels stay on the fast path (spec §4.6).
func (g *Graph) AddBlockFormat(cf *ChannelFormat, rtime, duration uint64) *BlockFormat {
	bf := &BlockFormat{
		RTime:      rtime,
		Duration:   duration,
		Supplement: make(map[string]string),
		owner:      cf,
	}
	bf.ID = blockFormatID(cf.ID, uint32(len(cf.Blocks)))
	cf.Blocks = append(cf.Blocks, bf)
	return bf
}

func blockFormatID(channelID string, ordinal uint32) string {
	suffix := channelNumericSuffix(channelID)
	return fmt.Sprintf("AB_%s_%08x", suffix, ordinal)
}

// channelNumericSuffix extracts the "yyyyxxxx" numeric portion of a
// canonical channel-format ID (AC_yyyyxxxx); for a temporary "_T" id the
// "AC_" prefix and "_T" suffix are stripped the same way, and the block IDs
// built from it are recomputed once the channel itself is rewritten to
// canonical form (see rewriteChannelFormat and renumberBlocks).
func channelNumericSuffix(id string) string {
	rest := strings.TrimPrefix(id, "AC_")
	rest = strings.TrimSuffix(rest, "_T")
	return rest
}

// ForEachProgramme walks the graph's programmes in creation order.
func (g *Graph) ForEachProgramme(fn func(*Programme)) {
	for _, p := range g.programmes {
		fn(p)
	}
}

// Programmes returns the graph's programmes in creation order.
func (g *Graph) Programmes() []*Programme { return g.programmes }

// Contents returns the graph's contents in creation order.
func (g *Graph) Contents() []*Content { return g.contents }

// Objects returns the graph's objects in creation order.
func (g *Graph) Objects() []*Object { return g.objectsList }

// PackFormats returns the graph's pack formats in creation order.
func (g *Graph) PackFormats() []*PackFormat { return g.packFormats }

// ChannelFormats returns the graph's channel formats in creation order.
func (g *Graph) ChannelFormats() []*ChannelFormat { return g.channelFormats }

// StreamFormats returns the graph's stream formats in creation order.
func (g *Graph) StreamFormats() []*StreamFormat { return g.streamFormats }

// TrackFormats returns the graph's track formats in creation order.
func (g *Graph) TrackFormats() []*TrackFormat { return g.trackFormats }

// TrackUIDs returns the graph's track UIDs in creation order.
func (g *Graph) TrackUIDs() []*TrackUID { return g.trackUIDs }

// sortBlocks stable-sorts cf's blocks by RTime (spec §4.6b, invariant 2).
func sortBlocks(cf *ChannelFormat) {
	sort.SliceStable(cf.Blocks, func(i, j int) bool {
		return cf.Blocks[i].RTime < cf.Blocks[j].RTime
	})
}

// sortTracks sorts the graph's track UID list by TrackNum (spec §4.6a).
func (g *Graph) sortTracks() {
	sort.SliceStable(g.trackUIDs, func(i, j int) bool {
		return g.trackUIDs[i].TrackNum < g.trackUIDs[j].TrackNum
	})
}
