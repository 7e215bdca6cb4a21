package riff

import "sync"

// registry is the process-wide chunk_id -> Constructor table of spec §4.2.
// sync.Map suits a table that is effectively write-once at init() and read
// continuously afterwards, the same shape as the file-handle cache in
// the teacher's sdk.go.
var registry sync.Map // uint32 -> Constructor

func init() {
	Register(idRIFF, newContainerChunk)
	Register(idRF64, newContainerChunk)
	Register(idWAVE, newContainerChunk)
	Register(idDS64, newDS64Chunk)
	Register(idFMT, newFmtChunk)
	Register(idBEXT, newBextChunk)
	Register(idCHNA, newCHNAChunk)
	Register(idAXML, newAxmlChunk)
	Register(idDATA, newDataChunk)
}

// Register installs ctor for id. Registration is idempotent: the first
// caller for a given id wins, matching spec §4.2 ("first caller wins").
func Register(id ID, ctor Constructor) {
	registry.LoadOrStore(id.u32(), ctor)
}

// lookup returns the constructor registered for id, falling back to
// genericChunk for unknown IDs.
func lookup(id ID) Constructor {
	if v, ok := registry.Load(id.u32()); ok {
		return v.(Constructor)
	}
	return newGenericChunk
}
