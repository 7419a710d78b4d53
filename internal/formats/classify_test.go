package formats

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  RawFormat
		want Kind
	}{
		{"audioOnly", RawFormat{"acodec": "opus", "vcodec": "none"}, Audio},
		{"audioMissingVideo", RawFormat{"acodec": "opus"}, Audio},
		{"audioNullVideo", RawFormat{"acodec": "opus", "vcodec": nil}, Audio},
		{"videoOnly", RawFormat{"acodec": "none", "vcodec": "vp9"}, Video},
		{"videoMissingAudio", RawFormat{"vcodec": "avc1.640028"}, Video},
		{"combined", RawFormat{"acodec": "mp4a.40.2", "vcodec": "avc1.42001E"}, AudioVideo},
		{"bothNone", RawFormat{"acodec": "none", "vcodec": "none"}, Invalid},
		{"bothNull", RawFormat{"acodec": nil, "vcodec": nil}, Invalid},
		{"empty", RawFormat{}, Invalid},
		{"zeroBitrateIgnored", RawFormat{"acodec": "mp4a.40.2", "vcodec": "avc1", "abr": 0.0, "vbr": 0.0}, AudioVideo},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.raw); got != tc.want {
				t.Fatalf("Classify() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClassifyDependsOnlyOnCodecs(t *testing.T) {
	base := RawFormat{"acodec": "opus", "vcodec": "none"}
	noisy := RawFormat{
		"acodec":      "opus",
		"vcodec":      "none",
		"format_id":   "251",
		"resolution":  "1920x1080",
		"fps":         60.0,
		"tbr":         0.0,
		"protocol":    "mhtml",
		"format_note": "storyboard",
	}

	if Classify(base) != Classify(noisy) {
		t.Fatalf("classification changed with unrelated fields: %v vs %v", Classify(base), Classify(noisy))
	}
}

func TestKindString(t *testing.T) {
	want := map[Kind]string{Audio: "audio", Video: "video", AudioVideo: "audio+video", Invalid: "invalid"}
	for kind, name := range want {
		if kind.String() != name {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, kind.String(), name)
		}
	}
}
