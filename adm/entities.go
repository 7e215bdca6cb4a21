package adm

// Position is a block format's spatial parameter snapshot, either polar
// (azimuth/elevation/distance) or Cartesian (x/y/z); the two are mutually
// exclusive within one block (spec §6 "Position encoding").
type Position struct {
	Cartesian bool

	Azimuth   float64
	Elevation float64
	Distance  float64

	X float64
	Y float64
	Z float64
}

// BlockFormat is a time-bounded spatial parameter snapshot for one channel.
type BlockFormat struct {
	ID       string
	RTime    uint64 // nanoseconds, channel-format-relative
	Duration uint64 // nanoseconds

	HasPosition bool
	Position    Position

	// Supplement carries arbitrary name/string parameters (e.g. "diffuse")
	// that have no fixed schema (spec §9, second open question).
	Supplement map[string]string

	Bag ValueBag

	owner *ChannelFormat
}

// Programme is the root of a presentation: a named collection of contents.
type Programme struct {
	ID       string
	Name     string
	Language string

	Contents []*Content

	Bag ValueBag
}

// Content groups objects under a programme.
type Content struct {
	ID       string
	Name     string
	Language string

	Objects []*Object

	Bag ValueBag
}

// Object is an audioObject: it may nest other objects, reference pack
// formats and track UIDs, and carry an explicit or derived time extent.
type Object struct {
	ID   string
	Name string

	// startTime/duration are nil until either explicitly set by the XML
	// codec/builder or derived by UpdateAudioObjectLimits (spec §4.6).
	startTime *uint64
	duration  *uint64
	explicit  bool // true once startTime/duration were set by the caller

	Gain       *float64
	Importance *int

	Nested      []*Object
	PackFormats []*PackFormat
	TrackUIDs   []*TrackUID

	Bag ValueBag
}

// StartTime returns the object's start time in nanoseconds and whether it
// has been set (explicitly or derived).
func (o *Object) StartTime() (uint64, bool) {
	if o.startTime == nil {
		return 0, false
	}
	return *o.startTime, true
}

// Duration returns the object's duration in nanoseconds and whether it has
// been set.
func (o *Object) Duration() (uint64, bool) {
	if o.duration == nil {
		return 0, false
	}
	return *o.duration, true
}

// SetTimeExplicit sets the object's start/duration as an explicit value
// supplied by the application or XML; such objects are never rewritten by
// UpdateAudioObjectLimits (spec §4.6).
func (o *Object) SetTimeExplicit(start, duration uint64) {
	o.startTime = &start
	o.duration = &duration
	o.explicit = true
}

// setTimeDerived records a start/duration computed from the object's block
// format closure; it does not mark the object explicit.
func (o *Object) setTimeDerived(start, duration uint64) {
	o.startTime = &start
	o.duration = &duration
}

// PackFormat is an audioPackFormat: a spatial-paradigm grouping of channel
// formats, which may itself nest further pack formats.
type PackFormat struct {
	ID        string
	Name      string
	TypeLabel TypeLabel

	ChannelFormats []*ChannelFormat
	Nested         []*PackFormat

	Bag ValueBag
}

// ChannelFormat is an audioChannelFormat: the time-ordered sequence of
// block formats representing one logical channel's automation.
type ChannelFormat struct {
	ID        string
	Name      string
	TypeLabel TypeLabel

	Blocks []*BlockFormat

	Bag ValueBag
}

// StreamFormat is an audioStreamFormat: the link between a channel format
// and the track format(s)/pack format that carry it on the wire.
type StreamFormat struct {
	ID          string
	Name        string
	FormatLabel FormatLabel

	ChannelFormat *ChannelFormat
	TrackFormats  []*TrackFormat
	PackFormat    *PackFormat

	Bag ValueBag
}

// TrackFormat is an audioTrackFormat: the per-track payload descriptor,
// symmetrically cross-referencing its stream format (spec §9, cyclic
// references).
type TrackFormat struct {
	ID          string
	Name        string
	FormatLabel FormatLabel

	StreamFormat *StreamFormat

	Bag ValueBag
}

// TrackUID is an audioTrackUID: the physical-track identifier binding one
// WAV channel to an ADM channel-format chain.
type TrackUID struct {
	ID string

	// TrackNum is 1-based on the wire (chna) and kept 1-based internally;
	// callers that need a 0-based channel index should subtract one.
	TrackNum   uint16
	SampleRate uint32
	BitDepth   uint16

	TrackFormat *TrackFormat
	PackFormat  *PackFormat

	Bag ValueBag
}
