package adm

import (
	"strconv"
)

// reservedBlockNames are the sub-element names SetBlockFormatValues
// extracts into typed fields; everything else becomes either a
// supplementary parameter or stays in the bag verbatim.
var reservedBlockNames = map[string]bool{
	"rtime":    true,
	"duration": true,
	"position": true,
}

// SetProgrammeValues consumes "language" from p's bag into the typed field.
func SetProgrammeValues(p *Programme) {
	if v, ok := p.Bag.Take("language"); ok {
		p.Language = v.Value
	}
}

// SetContentValues consumes "language" from c's bag into the typed field.
func SetContentValues(c *Content) {
	if v, ok := c.Bag.Take("language"); ok {
		c.Language = v.Value
	}
}

// SetObjectValues consumes startTime/duration/gain/importance from o's bag.
// startTime/duration are only applied if both are present, per spec §3.1
// ("startTime, duration (optional)"); when applied, the object is marked
// explicit so UpdateAudioObjectLimits leaves it alone.
func SetObjectValues(o *Object) {
	startV, hasStart := o.Bag.Take("startTime")
	durV, hasDur := o.Bag.Take("duration")
	if hasStart && hasDur {
		start, errS := ParseTime(startV.Value)
		dur, errD := ParseTime(durV.Value)
		if errS == nil && errD == nil {
			o.SetTimeExplicit(start, dur)
		}
	}
	if v, ok := o.Bag.Take("gain"); ok {
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			o.Gain = &f
		}
	}
	if v, ok := o.Bag.Take("importance"); ok {
		if n, err := strconv.Atoi(v.Value); err == nil {
			o.Importance = &n
		}
	}
}

// SetPackFormatValues consumes "typeLabel" from pf's bag.
func SetPackFormatValues(pf *PackFormat) {
	if v, ok := pf.Bag.Take("typeLabel"); ok {
		if n, err := strconv.ParseUint(v.Value, 16, 16); err == nil {
			pf.TypeLabel = TypeLabel(n)
		}
	}
}

// SetChannelFormatValues consumes "typeLabel" from cf's bag.
func SetChannelFormatValues(cf *ChannelFormat) {
	if v, ok := cf.Bag.Take("typeLabel"); ok {
		if n, err := strconv.ParseUint(v.Value, 16, 16); err == nil {
			cf.TypeLabel = TypeLabel(n)
		}
	}
}

// SetStreamFormatValues consumes "formatLabel" from sf's bag.
func SetStreamFormatValues(sf *StreamFormat) {
	if v, ok := sf.Bag.Take("formatLabel"); ok {
		if n, err := strconv.ParseUint(v.Value, 16, 16); err == nil {
			sf.FormatLabel = FormatLabel(n)
		}
	}
}

// SetTrackFormatValues consumes "formatLabel" from tf's bag.
func SetTrackFormatValues(tf *TrackFormat) {
	if v, ok := tf.Bag.Take("formatLabel"); ok {
		if n, err := strconv.ParseUint(v.Value, 16, 16); err == nil {
			tf.FormatLabel = FormatLabel(n)
		}
	}
}

// SetTrackUIDValues consumes sampleRate/bitDepth from tu's bag.
func SetTrackUIDValues(tu *TrackUID) {
	if v, ok := tu.Bag.Take("sampleRate"); ok {
		if n, err := strconv.ParseUint(v.Value, 10, 32); err == nil {
			tu.SampleRate = uint32(n)
		}
	}
	if v, ok := tu.Bag.Take("bitDepth"); ok {
		if n, err := strconv.ParseUint(v.Value, 10, 16); err == nil {
			tu.BitDepth = uint16(n)
		}
	}
}

// SetBlockFormatValues consumes rtime/duration/position from bf's bag, and
// moves any other simple, attribute-free sub-element into the opaque
// Supplement map (spec §9, second open question).
func SetBlockFormatValues(bf *BlockFormat) {
	if v, ok := bf.Bag.Take("rtime"); ok {
		if t, err := ParseTime(v.Value); err == nil {
			bf.RTime = t
		}
	}
	if v, ok := bf.Bag.Take("duration"); ok {
		if t, err := ParseTime(v.Value); err == nil {
			bf.Duration = t
		}
	}

	for _, v := range bf.Bag.TakeAll("position") {
		coord := v.Attrs["coordinate"]
		f, err := strconv.ParseFloat(v.Value, 64)
		if err != nil {
			continue
		}
		switch coord {
		case "azimuth":
			bf.HasPosition = true
			bf.Position.Azimuth = f
		case "elevation":
			bf.HasPosition = true
			bf.Position.Elevation = f
		case "distance":
			bf.HasPosition = true
			bf.Position.Distance = f
		case "X", "x":
			bf.HasPosition = true
			bf.Position.Cartesian = true
			bf.Position.X = f
		case "Y", "y":
			bf.HasPosition = true
			bf.Position.Cartesian = true
			bf.Position.Y = f
		case "Z", "z":
			bf.HasPosition = true
			bf.Position.Cartesian = true
			bf.Position.Z = f
		}
	}

	remaining := bf.Bag.All()
	kept := remaining[:0:0]
	if bf.Supplement == nil {
		bf.Supplement = make(map[string]string)
	}
	for _, v := range remaining {
		if reservedBlockNames[v.Name] || v.IsAttribute || len(v.Attrs) > 0 {
			kept = append(kept, v)
			continue
		}
		bf.Supplement[v.Name] = v.Value
	}
	replaceBag(&bf.Bag, kept)
}
