package admxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/go-adm/bwf/adm"
)

// Decode scans r for the audioFormatExtended element (wrapped in either
// ebuCoreMain/coreMetadata/format or ituADM/coreMetadata, spec §6) and
// populates g from its flat list of audioXxxx children, each parsed via
// Graph.CreateXxx plus a value bag carrying every attribute and
// sub-element the typed model does not itself consume (spec §9 "value
// bag"). It does not resolve references or derive object time extents;
// call g.Finalise after Decode returns.
func Decode(r io.Reader, g *adm.Graph) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return fmt.Errorf("admxml: no audioFormatExtended element found")
		}
		if err != nil {
			return err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "audioFormatExtended" {
			return decodeFormatExtended(dec, g)
		}
	}
}

func decodeFormatExtended(dec *xml.Decoder, g *adm.Graph) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			kind, ok := elementKinds[t.Name.Local]
			if !ok {
				if _, err := readLeaf(dec, t); err != nil {
					return err
				}
				continue
			}
			if err := decodeObject(dec, g, t, kind); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "audioFormatExtended" {
				return nil
			}
		}
	}
}

// idAttrName/nameAttrName return the element's ID and Name attribute
// names, e.g. "audioObjectID"/"audioObjectName"; trackUID uses the bare
// "UID" attribute and carries no name (spec §6).
func idAttrName(kind adm.Kind) string {
	if kind == adm.KindTrackUID {
		return "UID"
	}
	return kind.TypeName() + "ID"
}

func nameAttrName(kind adm.Kind) string {
	return kind.TypeName() + "Name"
}

func idAndName(start xml.StartElement, kind adm.Kind) (id, name string) {
	idAttr, nameAttr := idAttrName(kind), nameAttrName(kind)
	for _, a := range start.Attr {
		switch a.Name.Local {
		case idAttr:
			id = a.Value
		case nameAttr:
			name = a.Value
		}
	}
	return id, name
}

func decodeObject(dec *xml.Decoder, g *adm.Graph, start xml.StartElement, kind adm.Kind) error {
	id, name := idAndName(start, kind)

	switch kind {
	case adm.KindProgramme:
		p := g.CreateProgramme(id, name)
		if err := fillBag(dec, start, &p.Bag, kind); err != nil {
			return err
		}
		adm.SetProgrammeValues(p)
	case adm.KindContent:
		c := g.CreateContent(id, name)
		if err := fillBag(dec, start, &c.Bag, kind); err != nil {
			return err
		}
		adm.SetContentValues(c)
	case adm.KindObject:
		o := g.CreateObject(id, name)
		if err := fillBag(dec, start, &o.Bag, kind); err != nil {
			return err
		}
		adm.SetObjectValues(o)
	case adm.KindPackFormat:
		pf := g.CreatePackFormat(id, name, 0)
		if err := fillBag(dec, start, &pf.Bag, kind); err != nil {
			return err
		}
		adm.SetPackFormatValues(pf)
	case adm.KindChannelFormat:
		cf := g.CreateChannelFormat(id, name, 0)
		if err := decodeChannelFormat(dec, g, cf, start); err != nil {
			return err
		}
		adm.SetChannelFormatValues(cf)
	case adm.KindStreamFormat:
		sf := g.CreateStreamFormat(id, name, 0)
		if err := fillBag(dec, start, &sf.Bag, kind); err != nil {
			return err
		}
		adm.SetStreamFormatValues(sf)
	case adm.KindTrackFormat:
		tf := g.CreateTrackFormat(id, name, 0)
		if err := fillBag(dec, start, &tf.Bag, kind); err != nil {
			return err
		}
		adm.SetTrackFormatValues(tf)
	case adm.KindTrackUID:
		tu := g.CreateTrackUID(id, 0)
		if err := fillBag(dec, start, &tu.Bag, kind); err != nil {
			return err
		}
		adm.SetTrackUIDValues(tu)
	}
	return nil
}

// fillBag drains start's remaining attributes (excluding the ID/Name pair
// already consumed) and its child elements into bag.
func fillBag(dec *xml.Decoder, start xml.StartElement, bag *adm.ValueBag, kind adm.Kind) error {
	idAttr, nameAttr := idAttrName(kind), nameAttrName(kind)
	for _, a := range start.Attr {
		if a.Name.Local == idAttr || a.Name.Local == nameAttr {
			continue
		}
		bag.Add(adm.XMLValue{Name: a.Name.Local, Value: a.Value, IsAttribute: true})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			leaf, err := readLeaf(dec, t)
			if err != nil {
				return err
			}
			bag.Add(leaf)
		case xml.EndElement:
			return nil
		}
	}
}

// decodeChannelFormat is fillBag specialised for audioChannelFormat: its
// audioBlockFormat children are true structural nesting (spec §6, "nested
// inside its owning audioChannelFormat"), not bag entries.
func decodeChannelFormat(dec *xml.Decoder, g *adm.Graph, cf *adm.ChannelFormat, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "audioChannelFormatID" || a.Name.Local == "audioChannelFormatName" {
			continue
		}
		cf.Bag.Add(adm.XMLValue{Name: a.Name.Local, Value: a.Value, IsAttribute: true})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "audioBlockFormat" {
				if err := decodeBlockFormat(dec, g, cf, t); err != nil {
					return err
				}
				continue
			}
			leaf, err := readLeaf(dec, t)
			if err != nil {
				return err
			}
			cf.Bag.Add(leaf)
		case xml.EndElement:
			return nil
		}
	}
}

func decodeBlockFormat(dec *xml.Decoder, g *adm.Graph, cf *adm.ChannelFormat, start xml.StartElement) error {
	bf := g.AddBlockFormat(cf, 0, 0)
	for _, a := range start.Attr {
		if a.Name.Local == "audioBlockFormatID" {
			bf.ID = a.Value
			continue
		}
		bf.Bag.Add(adm.XMLValue{Name: a.Name.Local, Value: a.Value, IsAttribute: true})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			leaf, err := readLeaf(dec, t)
			if err != nil {
				return err
			}
			bf.Bag.Add(leaf)
		case xml.EndElement:
			adm.SetBlockFormatValues(bf)
			return nil
		}
	}
}

// readLeaf reads one child element's attributes and immediate character
// data, discarding any deeper nesting; every ADM sub-element the codec
// round-trips through the bag (reference elements, rtime/duration,
// position, supplementary parameters) is a single-level leaf (spec §6).
func readLeaf(dec *xml.Decoder, start xml.StartElement) (adm.XMLValue, error) {
	v := adm.XMLValue{Name: start.Name.Local}
	if len(start.Attr) > 0 {
		v.Attrs = make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			v.Attrs[a.Name.Local] = a.Value
		}
	}
	var text strings.Builder
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return v, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				v.Value = strings.TrimSpace(text.String())
				return v, nil
			}
			depth--
		case xml.CharData:
			if depth == 0 {
				text.Write(t)
			}
		}
	}
}
