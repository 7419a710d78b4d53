package formats

// Order groups formats as audio-only, then video-only, then combined,
// preserving input order within each group. Invalid entries are dropped.
func Order(ns []Normalized) []Normalized {
	out := make([]Normalized, 0, len(ns))
	for _, kind := range []Kind{Audio, Video, AudioVideo} {
		for _, n := range ns {
			if n.Kind == kind {
				out = append(out, n)
			}
		}
	}
	return out
}

// Failure records a record that classified as media but could not be normalized.
type Failure struct {
	Index    int    `json:"index"`
	FormatID string `json:"formatId,omitempty"`
	Kind     Kind   `json:"kind"`
	Err      error  `json:"-"`
}

// Error returns the failure message, for payloads that cannot carry the error.
func (f Failure) Error() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Stats counts what happened to each input record during Build.
type Stats struct {
	Total      int `json:"total"`
	Filtered   int `json:"filtered"`
	Invalid    int `json:"invalid"`
	Failed     int `json:"failed"`
	Audio      int `json:"audio"`
	Video      int `json:"video"`
	AudioVideo int `json:"audioVideo"`
}

// Listing is the ordered display rows built from one format list.
type Listing struct {
	Rows     []Row
	Failures []Failure
	Stats    Stats
}

// Build runs raws through filtering, classification, normalization,
// ordering and projection. Per-record normalization failures are collected
// rather than aborting the build. Index in a Failure refers to raws.
func Build(raws []RawFormat) Listing {
	listing := Listing{Stats: Stats{Total: len(raws)}}

	normalized := make([]Normalized, 0, len(raws))
	for i, raw := range raws {
		if !IsMedia(raw) {
			listing.Stats.Filtered++
			continue
		}

		kind := Classify(raw)
		if kind == Invalid {
			listing.Stats.Invalid++
			continue
		}

		n, err := Normalize(raw, kind)
		if err != nil {
			id, _ := raw.text("format_id")
			listing.Failures = append(listing.Failures, Failure{Index: i, FormatID: id, Kind: kind, Err: err})
			listing.Stats.Failed++
			continue
		}
		normalized = append(normalized, n)
	}

	ordered := Order(normalized)
	listing.Rows = make([]Row, 0, len(ordered))
	for _, n := range ordered {
		switch n.Kind {
		case Audio:
			listing.Stats.Audio++
		case Video:
			listing.Stats.Video++
		case AudioVideo:
			listing.Stats.AudioVideo++
		}
		listing.Rows = append(listing.Rows, Project(n))
	}

	return listing
}
