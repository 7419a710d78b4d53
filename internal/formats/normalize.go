package formats

import "math"

// CodecPair holds the audio and video codec names; an empty side means the
// stream is not present in the format.
type CodecPair struct {
	Audio string `json:"audio"`
	Video string `json:"video"`
}

// String renders the pair as "audio/video".
func (c CodecPair) String() string {
	return c.Audio + "/" + c.Video
}

// Normalized is the validated, uniform view of a single format.
type Normalized struct {
	ID         string
	Note       string
	Extension  string
	Resolution string
	FPS        *int
	Bitrate    float64
	Codec      CodecPair
	Kind       Kind
}

var requiredKeys = map[Kind][]string{
	Audio:      {"format_id", "abr", "acodec", "audio_ext"},
	Video:      {"format_id", "vbr", "vcodec", "video_ext", "fps", "resolution"},
	AudioVideo: {"format_id", "abr", "acodec", "vbr", "vcodec", "tbr", "ext"},
}

// RequiredKeys returns the keys a record of kind must carry.
func RequiredKeys(kind Kind) []string {
	return append([]string(nil), requiredKeys[kind]...)
}

// Normalize extracts the uniform attribute set from raw, which must already
// be classified as kind. Every absent required key is reported in a single
// *MissingFieldsError; a required key with null value counts as absent.
func Normalize(raw RawFormat, kind Kind) (Normalized, error) {
	keys, ok := requiredKeys[kind]
	if !ok {
		return Normalized{}, ErrInvalidKind
	}

	var missing []string
	for _, key := range keys {
		if !raw.has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return Normalized{}, &MissingFieldsError{Kind: kind, Keys: missing}
	}

	switch kind {
	case Audio:
		return normalizeAudio(raw)
	case Video:
		return normalizeVideo(raw)
	default:
		return normalizeAudioVideo(raw)
	}
}

func normalizeAudio(raw RawFormat) (Normalized, error) {
	n, err := base(raw, Audio)
	if err != nil {
		return Normalized{}, err
	}
	if n.Bitrate, err = raw.number("abr"); err != nil {
		return Normalized{}, err
	}
	if n.Codec.Audio, err = codec(raw, "acodec"); err != nil {
		return Normalized{}, err
	}
	if n.Extension, err = raw.text("audio_ext"); err != nil {
		return Normalized{}, err
	}
	return n, nil
}

func normalizeVideo(raw RawFormat) (Normalized, error) {
	n, err := base(raw, Video)
	if err != nil {
		return Normalized{}, err
	}
	if n.Bitrate, err = raw.number("vbr"); err != nil {
		return Normalized{}, err
	}
	if n.Codec.Video, err = codec(raw, "vcodec"); err != nil {
		return Normalized{}, err
	}
	if n.Extension, err = raw.text("video_ext"); err != nil {
		return Normalized{}, err
	}
	if n.Resolution, err = raw.text("resolution"); err != nil {
		return Normalized{}, err
	}
	if n.Resolution == "" {
		return Normalized{}, &FieldTypeError{Key: "resolution", Value: "", Want: "non-empty string"}
	}
	fps, err := raw.number("fps")
	if err != nil {
		return Normalized{}, err
	}
	fps = math.Round(fps)
	if fps < 0 || fps > math.MaxUint8 {
		return Normalized{}, &FieldTypeError{Key: "fps", Value: raw["fps"], Want: "frame rate in 0..255"}
	}
	rate := int(fps)
	n.FPS = &rate
	return n, nil
}

func normalizeAudioVideo(raw RawFormat) (Normalized, error) {
	n, err := base(raw, AudioVideo)
	if err != nil {
		return Normalized{}, err
	}
	// abr and vbr are required but only tbr feeds the row.
	for _, key := range []string{"abr", "vbr"} {
		if _, err := raw.number(key); err != nil {
			return Normalized{}, err
		}
	}
	if n.Bitrate, err = raw.number("tbr"); err != nil {
		return Normalized{}, err
	}
	if n.Codec.Audio, err = codec(raw, "acodec"); err != nil {
		return Normalized{}, err
	}
	if n.Codec.Video, err = codec(raw, "vcodec"); err != nil {
		return Normalized{}, err
	}
	if n.Extension, err = raw.text("ext"); err != nil {
		return Normalized{}, err
	}
	return n, nil
}

func base(raw RawFormat, kind Kind) (Normalized, error) {
	id, err := raw.text("format_id")
	if err != nil {
		return Normalized{}, err
	}
	return Normalized{
		ID:   id,
		Note: noteOf(raw, "format_note", "format"),
		Kind: kind,
	}, nil
}

func codec(raw RawFormat, key string) (string, error) {
	name, ok := raw[key].(string)
	if !ok || name == "" {
		return "", &FieldTypeError{Key: key, Value: raw[key], Want: "codec name"}
	}
	return name, nil
}
