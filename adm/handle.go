package adm

import "fmt"

// ObjectHandle is an explicit tagged union over the eight ADM entity kinds
// plus block format, used to dispatch reference resolution without RTTI
// (spec §9, "Dynamic-cast-based reference dispatch").
type ObjectHandle struct {
	Kind Kind

	Programme     *Programme
	Content       *Content
	Object        *Object
	PackFormat    *PackFormat
	ChannelFormat *ChannelFormat
	StreamFormat  *StreamFormat
	TrackFormat   *TrackFormat
	TrackUID      *TrackUID
	BlockFormat   *BlockFormat
}

// ID returns the referenced object's ID string.
func (h ObjectHandle) ID() string {
	switch h.Kind {
	case KindProgramme:
		return h.Programme.ID
	case KindContent:
		return h.Content.ID
	case KindObject:
		return h.Object.ID
	case KindPackFormat:
		return h.PackFormat.ID
	case KindChannelFormat:
		return h.ChannelFormat.ID
	case KindStreamFormat:
		return h.StreamFormat.ID
	case KindTrackFormat:
		return h.TrackFormat.ID
	case KindTrackUID:
		return h.TrackUID.ID
	case KindBlockFormat:
		return h.BlockFormat.ID
	default:
		return ""
	}
}

// add attaches target to owner per the reference topology in spec §3.1. It
// returns false (driving the TypeError path) when target's kind is not one
// the owner accepts, or when a single-valued link on a stream or track
// format is already set to a different object. Re-adding a stream/track
// format link that already points at the same object is a no-op that
// returns true (spec §9, cyclic references); the list-valued links of
// programmes, contents, objects and pack formats append without a
// duplicate check.
func add(owner ObjectHandle, target ObjectHandle) bool {
	switch owner.Kind {
	case KindProgramme:
		if target.Kind != KindContent {
			return false
		}
		owner.Programme.Contents = append(owner.Programme.Contents, target.Content)
		return true

	case KindContent:
		if target.Kind != KindObject {
			return false
		}
		owner.Content.Objects = append(owner.Content.Objects, target.Object)
		return true

	case KindObject:
		switch target.Kind {
		case KindObject:
			owner.Object.Nested = append(owner.Object.Nested, target.Object)
			return true
		case KindPackFormat:
			owner.Object.PackFormats = append(owner.Object.PackFormats, target.PackFormat)
			return true
		case KindTrackUID:
			owner.Object.TrackUIDs = append(owner.Object.TrackUIDs, target.TrackUID)
			return true
		default:
			return false
		}

	case KindPackFormat:
		switch target.Kind {
		case KindChannelFormat:
			owner.PackFormat.ChannelFormats = append(owner.PackFormat.ChannelFormats, target.ChannelFormat)
			return true
		case KindPackFormat:
			owner.PackFormat.Nested = append(owner.PackFormat.Nested, target.PackFormat)
			return true
		default:
			return false
		}

	case KindStreamFormat:
		switch target.Kind {
		case KindChannelFormat:
			if owner.StreamFormat.ChannelFormat != nil {
				return owner.StreamFormat.ChannelFormat == target.ChannelFormat
			}
			owner.StreamFormat.ChannelFormat = target.ChannelFormat
			return true
		case KindTrackFormat:
			for _, tf := range owner.StreamFormat.TrackFormats {
				if tf == target.TrackFormat {
					return true // idempotent
				}
			}
			owner.StreamFormat.TrackFormats = append(owner.StreamFormat.TrackFormats, target.TrackFormat)
			// symmetric back-link (spec §9 cyclic references)
			if target.TrackFormat.StreamFormat == nil {
				target.TrackFormat.StreamFormat = owner.StreamFormat
			}
			return true
		case KindPackFormat:
			if owner.StreamFormat.PackFormat != nil {
				return owner.StreamFormat.PackFormat == target.PackFormat
			}
			owner.StreamFormat.PackFormat = target.PackFormat
			return true
		default:
			return false
		}

	case KindTrackFormat:
		if target.Kind != KindStreamFormat {
			return false
		}
		if owner.TrackFormat.StreamFormat != nil {
			return owner.TrackFormat.StreamFormat == target.StreamFormat
		}
		owner.TrackFormat.StreamFormat = target.StreamFormat
		// symmetric back-link
		found := false
		for _, tf := range target.StreamFormat.TrackFormats {
			if tf == owner.TrackFormat {
				found = true
				break
			}
		}
		if !found {
			target.StreamFormat.TrackFormats = append(target.StreamFormat.TrackFormats, owner.TrackFormat)
		}
		return true

	case KindTrackUID:
		switch target.Kind {
		case KindTrackFormat:
			owner.TrackUID.TrackFormat = target.TrackFormat
			return true
		case KindPackFormat:
			owner.TrackUID.PackFormat = target.PackFormat
			return true
		default:
			return false
		}

	default:
		return false
	}
}

func (k Kind) String() string {
	return fmt.Sprintf("%s(%d)", k.TypeName(), int(k))
}
