package admxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/go-adm/bwf/adm"
)

// Encode serialises g's object graph as ADM XML wrapped per mode (spec
// §6). It assumes g has already been through Finalise: reference elements
// are re-derived from the graph's typed pointers rather than read back
// from the bag, since resolveReferences drops the original IDRef/Ref
// entries as it consumes them.
func Encode(w io.Writer, g *adm.Graph, mode Mode) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := rootEBU
	if mode == ModeITU {
		root = rootITU
	}

	if err := openTag(enc, root); err != nil {
		return err
	}
	if err := openTag(enc, "coreMetadata"); err != nil {
		return err
	}
	if mode == ModeEBU {
		if err := openTag(enc, "format"); err != nil {
			return err
		}
	}
	if err := openTag(enc, "audioFormatExtended"); err != nil {
		return err
	}

	for _, p := range g.Programmes() {
		if err := encodeProgramme(enc, p); err != nil {
			return err
		}
	}
	for _, c := range g.Contents() {
		if err := encodeContent(enc, c); err != nil {
			return err
		}
	}
	for _, o := range g.Objects() {
		if err := encodeObject(enc, o); err != nil {
			return err
		}
	}
	for _, pf := range g.PackFormats() {
		if err := encodePackFormat(enc, pf); err != nil {
			return err
		}
	}
	for _, cf := range g.ChannelFormats() {
		if err := encodeChannelFormat(enc, cf); err != nil {
			return err
		}
	}
	for _, sf := range g.StreamFormats() {
		if err := encodeStreamFormat(enc, sf); err != nil {
			return err
		}
	}
	for _, tf := range g.TrackFormats() {
		if err := encodeTrackFormat(enc, tf); err != nil {
			return err
		}
	}
	for _, tu := range g.TrackUIDs() {
		if err := encodeTrackUID(enc, tu); err != nil {
			return err
		}
	}

	if err := closeTag(enc, "audioFormatExtended"); err != nil {
		return err
	}
	if mode == ModeEBU {
		if err := closeTag(enc, "format"); err != nil {
			return err
		}
	}
	if err := closeTag(enc, "coreMetadata"); err != nil {
		return err
	}
	if err := closeTag(enc, root); err != nil {
		return err
	}

	return enc.Flush()
}

// leaf writes <name attrs...>text</name>, omitting the body for empty text.
func leaf(enc *xml.Encoder, name, text string, attrs ...xml.Attr) error {
	if err := openTag(enc, name, attrs...); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return closeTag(enc, name)
}

// bagAttrs returns bag's attribute entries as xml.Attr, for folding into
// the owning element's start tag.
func bagAttrs(bag *adm.ValueBag) []xml.Attr {
	var out []xml.Attr
	for _, v := range bag.All() {
		if v.IsAttribute {
			out = append(out, attr(v.Name, v.Value))
		}
	}
	return out
}

// writeBagChildren emits bag's non-attribute entries as sibling elements.
func writeBagChildren(enc *xml.Encoder, bag *adm.ValueBag) error {
	for _, v := range bag.All() {
		if v.IsAttribute {
			continue
		}
		var attrs []xml.Attr
		for k, val := range v.Attrs {
			attrs = append(attrs, attr(k, val))
		}
		if err := leaf(enc, v.Name, v.Value, attrs...); err != nil {
			return err
		}
	}
	return nil
}

func encodeProgramme(enc *xml.Encoder, p *adm.Programme) error {
	attrs := []xml.Attr{attr("audioProgrammeID", p.ID)}
	if p.Name != "" {
		attrs = append(attrs, attr("audioProgrammeName", p.Name))
	}
	if p.Language != "" {
		attrs = append(attrs, attr("language", p.Language))
	}
	attrs = append(attrs, bagAttrs(&p.Bag)...)
	if err := openTag(enc, "audioProgramme", attrs...); err != nil {
		return err
	}
	for _, c := range p.Contents {
		if err := leaf(enc, "audioContentIDRef", c.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &p.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioProgramme")
}

func encodeContent(enc *xml.Encoder, c *adm.Content) error {
	attrs := []xml.Attr{attr("audioContentID", c.ID)}
	if c.Name != "" {
		attrs = append(attrs, attr("audioContentName", c.Name))
	}
	if c.Language != "" {
		attrs = append(attrs, attr("language", c.Language))
	}
	attrs = append(attrs, bagAttrs(&c.Bag)...)
	if err := openTag(enc, "audioContent", attrs...); err != nil {
		return err
	}
	for _, o := range c.Objects {
		if err := leaf(enc, "audioObjectIDRef", o.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &c.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioContent")
}

func encodeObject(enc *xml.Encoder, o *adm.Object) error {
	attrs := []xml.Attr{attr("audioObjectID", o.ID)}
	if o.Name != "" {
		attrs = append(attrs, attr("audioObjectName", o.Name))
	}
	if startNS, ok := o.StartTime(); ok {
		dur, _ := o.Duration()
		attrs = append(attrs, attr("startTime", adm.FormatTime(startNS)), attr("duration", adm.FormatTime(dur)))
	}
	if o.Gain != nil {
		attrs = append(attrs, attr("gain", fmt.Sprintf("%g", *o.Gain)))
	}
	if o.Importance != nil {
		attrs = append(attrs, attr("importance", fmt.Sprintf("%d", *o.Importance)))
	}
	attrs = append(attrs, bagAttrs(&o.Bag)...)
	if err := openTag(enc, "audioObject", attrs...); err != nil {
		return err
	}
	for _, nested := range o.Nested {
		if err := leaf(enc, "audioObjectIDRef", nested.ID); err != nil {
			return err
		}
	}
	for _, pf := range o.PackFormats {
		if err := leaf(enc, "audioPackFormatIDRef", pf.ID); err != nil {
			return err
		}
	}
	for _, tu := range o.TrackUIDs {
		if err := leaf(enc, "audioTrackUIDRef", tu.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &o.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioObject")
}

func encodePackFormat(enc *xml.Encoder, pf *adm.PackFormat) error {
	attrs := []xml.Attr{attr("audioPackFormatID", pf.ID)}
	if pf.Name != "" {
		attrs = append(attrs, attr("audioPackFormatName", pf.Name))
	}
	attrs = append(attrs, attr("typeLabel", fmt.Sprintf("%04x", uint16(pf.TypeLabel))))
	attrs = append(attrs, bagAttrs(&pf.Bag)...)
	if err := openTag(enc, "audioPackFormat", attrs...); err != nil {
		return err
	}
	for _, cf := range pf.ChannelFormats {
		if err := leaf(enc, "audioChannelFormatIDRef", cf.ID); err != nil {
			return err
		}
	}
	for _, nested := range pf.Nested {
		if err := leaf(enc, "audioPackFormatIDRef", nested.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &pf.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioPackFormat")
}

func encodeChannelFormat(enc *xml.Encoder, cf *adm.ChannelFormat) error {
	attrs := []xml.Attr{attr("audioChannelFormatID", cf.ID)}
	if cf.Name != "" {
		attrs = append(attrs, attr("audioChannelFormatName", cf.Name))
	}
	attrs = append(attrs, attr("typeLabel", fmt.Sprintf("%04x", uint16(cf.TypeLabel))))
	attrs = append(attrs, bagAttrs(&cf.Bag)...)
	if err := openTag(enc, "audioChannelFormat", attrs...); err != nil {
		return err
	}
	if err := writeBagChildren(enc, &cf.Bag); err != nil {
		return err
	}
	for _, bf := range cf.Blocks {
		if err := encodeBlockFormat(enc, bf); err != nil {
			return err
		}
	}
	return closeTag(enc, "audioChannelFormat")
}

func encodeBlockFormat(enc *xml.Encoder, bf *adm.BlockFormat) error {
	if err := openTag(enc, "audioBlockFormat", attr("audioBlockFormatID", bf.ID)); err != nil {
		return err
	}
	if err := leaf(enc, "rtime", adm.FormatTime(bf.RTime)); err != nil {
		return err
	}
	if err := leaf(enc, "duration", adm.FormatTime(bf.Duration)); err != nil {
		return err
	}
	if bf.HasPosition {
		if err := encodePosition(enc, bf.Position); err != nil {
			return err
		}
	}
	for name, val := range bf.Supplement {
		if err := leaf(enc, name, val); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &bf.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioBlockFormat")
}

func encodePosition(enc *xml.Encoder, pos adm.Position) error {
	coord := func(name string, v float64) error {
		return leaf(enc, "position", fmt.Sprintf("%.6f", v), attr("coordinate", name))
	}
	if pos.Cartesian {
		if err := coord("X", pos.X); err != nil {
			return err
		}
		if err := coord("Y", pos.Y); err != nil {
			return err
		}
		return coord("Z", pos.Z)
	}
	if err := coord("azimuth", pos.Azimuth); err != nil {
		return err
	}
	if err := coord("elevation", pos.Elevation); err != nil {
		return err
	}
	return coord("distance", pos.Distance)
}

func encodeStreamFormat(enc *xml.Encoder, sf *adm.StreamFormat) error {
	attrs := []xml.Attr{attr("audioStreamFormatID", sf.ID)}
	if sf.Name != "" {
		attrs = append(attrs, attr("audioStreamFormatName", sf.Name))
	}
	attrs = append(attrs, attr("formatLabel", fmt.Sprintf("%04x", uint16(sf.FormatLabel))))
	attrs = append(attrs, bagAttrs(&sf.Bag)...)
	if err := openTag(enc, "audioStreamFormat", attrs...); err != nil {
		return err
	}
	if sf.ChannelFormat != nil {
		if err := leaf(enc, "audioChannelFormatIDRef", sf.ChannelFormat.ID); err != nil {
			return err
		}
	}
	for _, tf := range sf.TrackFormats {
		if err := leaf(enc, "audioTrackFormatIDRef", tf.ID); err != nil {
			return err
		}
	}
	if sf.PackFormat != nil {
		if err := leaf(enc, "audioPackFormatIDRef", sf.PackFormat.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &sf.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioStreamFormat")
}

func encodeTrackFormat(enc *xml.Encoder, tf *adm.TrackFormat) error {
	attrs := []xml.Attr{attr("audioTrackFormatID", tf.ID)}
	if tf.Name != "" {
		attrs = append(attrs, attr("audioTrackFormatName", tf.Name))
	}
	attrs = append(attrs, attr("formatLabel", fmt.Sprintf("%04x", uint16(tf.FormatLabel))))
	attrs = append(attrs, bagAttrs(&tf.Bag)...)
	if err := openTag(enc, "audioTrackFormat", attrs...); err != nil {
		return err
	}
	if tf.StreamFormat != nil {
		if err := leaf(enc, "audioStreamFormatIDRef", tf.StreamFormat.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &tf.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioTrackFormat")
}

func encodeTrackUID(enc *xml.Encoder, tu *adm.TrackUID) error {
	attrs := []xml.Attr{attr("UID", tu.ID)}
	if tu.SampleRate != 0 {
		attrs = append(attrs, attr("sampleRate", fmt.Sprintf("%d", tu.SampleRate)))
	}
	if tu.BitDepth != 0 {
		attrs = append(attrs, attr("bitDepth", fmt.Sprintf("%d", tu.BitDepth)))
	}
	attrs = append(attrs, bagAttrs(&tu.Bag)...)
	if err := openTag(enc, "audioTrackUID", attrs...); err != nil {
		return err
	}
	if tu.TrackFormat != nil {
		if err := leaf(enc, "audioTrackFormatIDRef", tu.TrackFormat.ID); err != nil {
			return err
		}
	}
	if tu.PackFormat != nil {
		if err := leaf(enc, "audioPackFormatIDRef", tu.PackFormat.ID); err != nil {
			return err
		}
	}
	if err := writeBagChildren(enc, &tu.Bag); err != nil {
		return err
	}
	return closeTag(enc, "audioTrackUID")
}
