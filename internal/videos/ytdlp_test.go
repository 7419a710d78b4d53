package videos

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const sampleInfo = `{
	"id": "MNruRgXGFdk",
	"title": "Example",
	"webpage_url": "https://www.youtube.com/watch?v=MNruRgXGFdk",
	"formats": [
		{"format_id":"sb0","format_note":"storyboard","protocol":"mhtml","acodec":"none","vcodec":"none"},
		{"format_id":"140","acodec":"mp4a.40.2","vcodec":"none","abr":128.0,"audio_ext":"m4a","protocol":"https"}
	]
}`

func TestYTDLPProviderLookup(t *testing.T) {
	provider := NewYTDLPProvider("yt-dlp", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		wantArgs := []string{"--dump-single-json", "--no-warnings", "--no-playlist", "--skip-download", "https://example.com"}
		if len(args) != len(wantArgs) {
			t.Fatalf("unexpected args length: got %d want %d", len(args), len(wantArgs))
		}
		for i, arg := range wantArgs {
			if args[i] != arg {
				t.Fatalf("unexpected arg at %d: got %q want %q", i, args[i], arg)
			}
		}
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("expected yt-dlp to run with a deadline")
		}
		return []byte(sampleInfo), nil
	}

	info, err := provider.Lookup(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if info.ID != "MNruRgXGFdk" || info.Title != "Example" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(info.Formats) != 2 || info.Formats[1]["format_id"] != "140" {
		t.Fatalf("unexpected formats: %+v", info.Formats)
	}
}

func TestYTDLPProviderLookupDefaultsURL(t *testing.T) {
	provider := NewYTDLPProvider("", 0)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "yt-dlp" {
			t.Fatalf("unexpected binary %q", binary)
		}
		return []byte(`{"title":"t","formats":[]}`), nil
	}

	info, err := provider.Lookup(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if info.URL != "https://example.com/v" {
		t.Fatalf("expected URL fallback, got %q", info.URL)
	}
	if provider.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", provider.Timeout)
	}
}

func TestYTDLPProviderLookupErrors(t *testing.T) {
	cases := []struct {
		name string
		out  []byte
		err  error
	}{
		{"commandFailure", nil, errors.New("exit status 1")},
		{"badJSON", []byte("{"), nil},
		{"noFormats", []byte(`{"title":"Example"}`), nil},
		{"formatNotObject", []byte(`{"formats":[null]}`), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := NewYTDLPProvider("yt-dlp", time.Second)
			provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
				return tc.out, tc.err
			}
			if _, err := provider.Lookup(context.Background(), "https://example.com"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestYTDLPProviderNil(t *testing.T) {
	var provider *YTDLPProvider
	if _, err := provider.Lookup(context.Background(), "https://example.com"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestYTDLPProviderRateLimited(t *testing.T) {
	calls := 0
	provider := NewYTDLPProvider("yt-dlp", time.Second)
	provider.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		calls++
		return []byte(sampleInfo), nil
	}

	if _, err := provider.Lookup(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := provider.Lookup(ctx, "https://example.com"); err == nil {
		t.Fatal("expected second lookup to be throttled")
	}
	if calls != 1 {
		t.Fatalf("expected yt-dlp to run once, got %d", calls)
	}
}
