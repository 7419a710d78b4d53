package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vidfriends/formatlist/internal/formats"
)

// Info captures the subset of a yt-dlp info document used to build listings.
type Info struct {
	ID      string
	Title   string
	URL     string
	Formats []formats.RawFormat
}

// Provider returns format metadata for the supplied video URL.
type Provider interface {
	Lookup(ctx context.Context, url string) (Info, error)
}

// Dumper is implemented by providers that can return the raw info document.
type Dumper interface {
	Dump(ctx context.Context, url string) ([]byte, error)
}

// DecodeInfo parses a yt-dlp info document (--dump-single-json output).
func DecodeInfo(data []byte) (Info, error) {
	var payload struct {
		ID         string            `json:"id"`
		Title      string            `json:"title"`
		WebpageURL string            `json:"webpage_url"`
		Formats    []json.RawMessage `json:"formats"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return Info{}, fmt.Errorf("parse info document: %w", err)
	}
	if payload.Formats == nil {
		return Info{}, errors.New("info document has no formats")
	}

	info := Info{
		ID:      payload.ID,
		Title:   payload.Title,
		URL:     payload.WebpageURL,
		Formats: make([]formats.RawFormat, 0, len(payload.Formats)),
	}
	for i, raw := range payload.Formats {
		var f formats.RawFormat
		if err := json.Unmarshal(raw, &f); err != nil {
			return Info{}, fmt.Errorf("parse format %d: %w", i, err)
		}
		if f == nil {
			return Info{}, fmt.Errorf("parse format %d: not an object", i)
		}
		info.Formats = append(info.Formats, f)
	}

	return info, nil
}
