package formats

// Kind classifies a format by which elementary streams it carries.
type Kind int

const (
	Invalid Kind = iota
	Audio
	Video
	AudioVideo
)

func (k Kind) String() string {
	switch k {
	case Audio:
		return "audio"
	case Video:
		return "video"
	case AudioVideo:
		return "audio+video"
	default:
		return "invalid"
	}
}

// MarshalText renders the kind by name so JSON payloads stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Classify decides the kind of raw from its acodec and vcodec fields alone.
// A codec counts as set when present, non-null and not the literal "none".
// Bitrate fields are never consulted.
func Classify(raw RawFormat) Kind {
	audio := raw.codecSet("acodec")
	video := raw.codecSet("vcodec")

	switch {
	case audio && !video:
		return Audio
	case !audio && video:
		return Video
	case audio && video:
		return AudioVideo
	default:
		return Invalid
	}
}
