package riff

import "github.com/go-adm/bwf/adm"

// Context is passed to every chunk constructor and ProcessRead/
// CreateWriteData call; it is the shared state spec §4.3 describes as
// carrying "the Engine, the in-progress ds64 table, and the target
// AdmGraph".
type Context struct {
	engine *Engine
	Graph  *adm.Graph

	// pendingCHNA accumulates chna records whose TrackRef/PackRef have not
	// yet been resolved, since axml may be parsed before or after chna
	// (spec §4.5, "recorded ... as pending references to be resolved
	// after the axml is parsed").
	pendingCHNA []chnaPendingRef
}

// ResolvePendingCHNA looks up each pending chna record's TrackRef/PackRef
// against the graph (after axml has populated it) and attaches them to
// the corresponding audioTrackUID. Called once by the bwf façade after
// both chna and axml have been loaded and the graph's axml-derived
// objects are registered, but before AdmGraph.Finalise.
func (ctx *Context) ResolvePendingCHNA() {
	for _, p := range ctx.pendingCHNA {
		if p.trackRef != "" {
			if tf, ok := ctx.Graph.Lookup(adm.KindTrackFormat, p.trackRef); ok {
				p.trackUID.TrackFormat = tf.TrackFormat
			}
		}
		if p.packRef != "" {
			if pf, ok := ctx.Graph.Lookup(adm.KindPackFormat, p.packRef); ok {
				p.trackUID.PackFormat = pf.PackFormat
			}
		}
	}
}
