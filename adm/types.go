// Package adm implements the ADM (Audio Definition Model) typed object
// graph: programmes, contents, objects, pack/channel/stream/track formats,
// track UIDs and their block-format automation, the value bag used to
// round-trip unknown XML attributes, and the ID allocator/finalisation
// pass described in spec §3-§4.6.
package adm

import "fmt"

// Kind identifies one of the eight ADM entity types plus the block format
// leaf. It doubles as the ID-prefix/reference-suffix lookup key, replacing
// the RTTI-based dynamic dispatch of the original C++ implementation with
// an explicit tagged union (spec §9, "Dynamic-cast-based reference dispatch").
type Kind int

// The nine object kinds of the ADM core.
const (
	KindProgramme Kind = iota
	KindContent
	KindObject
	KindPackFormat
	KindChannelFormat
	KindStreamFormat
	KindTrackFormat
	KindTrackUID
	KindBlockFormat
)

var kindNames = [...]string{
	KindProgramme:     "audioProgramme",
	KindContent:       "audioContent",
	KindObject:        "audioObject",
	KindPackFormat:    "audioPackFormat",
	KindChannelFormat: "audioChannelFormat",
	KindStreamFormat:  "audioStreamFormat",
	KindTrackFormat:   "audioTrackFormat",
	KindTrackUID:      "audioTrackUID",
	KindBlockFormat:   "audioBlockFormat",
}

// TypeName returns the ADM XML element name for k, e.g. "audioProgramme".
func (k Kind) TypeName() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

var idPrefixes = [...]string{
	KindProgramme:     "APR",
	KindContent:       "ACO",
	KindObject:        "AO",
	KindPackFormat:    "AP",
	KindChannelFormat: "AC",
	KindStreamFormat:  "AS",
	KindTrackFormat:   "AT",
	KindTrackUID:      "ATU",
	KindBlockFormat:   "AB",
}

// IDPrefix returns the ID prefix used by k, e.g. "AP" for audioPackFormat.
func (k Kind) IDPrefix() string {
	if int(k) < 0 || int(k) >= len(idPrefixes) {
		return ""
	}
	return idPrefixes[k]
}

// refSuffix returns the reference-attribute suffix for k: audioTrackUID
// uses a plain "Ref" suffix, every other entity uses "IDRef" (§3.1).
func (k Kind) refSuffix() string {
	if k == KindTrackUID {
		return "Ref"
	}
	return "IDRef"
}

// TypeLabel enumerates the spatial paradigm carried by pack/channel/stream
// formats (spec §3.1).
type TypeLabel uint16

// Recognised type labels.
const (
	TypeDirectSpeakers TypeLabel = 1
	TypeMatrix         TypeLabel = 2
	TypeObjects        TypeLabel = 3
	TypeHOA            TypeLabel = 4
	TypeBinaural       TypeLabel = 5
)

// FormatLabel enumerates the track/stream format payload encoding.
type FormatLabel uint16

// Recognised format labels.
const (
	FormatPCM FormatLabel = 1
)
