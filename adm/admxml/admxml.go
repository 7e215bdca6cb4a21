// Package admxml implements the bidirectional ADM XML codec of spec §6:
// Decode parses an axml chunk's bytes into an adm.Graph, consuming each
// audioXxxx element's attributes and sub-elements into that object's
// value bag (reference elements included, left for Graph.Finalise to
// resolve); Encode serialises a finalised graph back into ADM XML,
// re-deriving reference elements from the graph's typed pointers since
// Finalise's resolveReferences already consumed the original bag entries
// (spec §4.6, the C5/C6 split: "C6 itself does not resolve references,
// only serializes/deserializes the bag").
package admxml

import (
	"encoding/xml"

	"github.com/go-adm/bwf/adm"
)

// Mode selects the axml chunk's top-level wrapper element.
type Mode int

// The two wrapper modes of spec §6 ("axml chunk").
const (
	ModeEBU Mode = iota
	ModeITU
)

const (
	rootEBU = "ebuCoreMain"
	rootITU = "ituADM"
)

// elementKinds maps the flat audioFormatExtended child element names to
// their adm.Kind, mirroring adm's own (unexported) elementToKind table.
var elementKinds = map[string]adm.Kind{
	"audioProgramme":     adm.KindProgramme,
	"audioContent":       adm.KindContent,
	"audioObject":        adm.KindObject,
	"audioPackFormat":    adm.KindPackFormat,
	"audioChannelFormat": adm.KindChannelFormat,
	"audioStreamFormat":  adm.KindStreamFormat,
	"audioTrackFormat":   adm.KindTrackFormat,
	"audioTrackUID":      adm.KindTrackUID,
}

func openTag(enc *xml.Encoder, name string, attrs ...xml.Attr) error {
	return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func closeTag(enc *xml.Encoder, name string) error {
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
