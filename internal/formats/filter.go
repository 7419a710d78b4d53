package formats

import "strings"

// IsMedia reports whether raw describes a playable stream. Thumbnail mosaics
// (protocol "mhtml") and storyboard previews are pseudo-formats.
func IsMedia(raw RawFormat) bool {
	if protocol, _ := raw["protocol"].(string); protocol == "mhtml" {
		return false
	}
	return !strings.EqualFold(noteOf(raw, "format_note"), "storyboard")
}

// Filter returns the records of raws that IsMedia accepts, in input order.
func Filter(raws []RawFormat) []RawFormat {
	out := make([]RawFormat, 0, len(raws))
	for _, raw := range raws {
		if IsMedia(raw) {
			out = append(out, raw)
		}
	}
	return out
}
