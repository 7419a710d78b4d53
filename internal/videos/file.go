package videos

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileProvider serves a single info document saved on disk, regardless of
// the URL asked for. It is meant for offline work against a captured
// `yt-dlp --dump-single-json` output.
type FileProvider struct {
	Path string
}

// NewFileProvider returns a provider reading the document at path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Dump returns the stored document bytes.
func (p *FileProvider) Dump(ctx context.Context, _ string) ([]byte, error) {
	if p == nil || strings.TrimSpace(p.Path) == "" {
		return nil, ErrProviderUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	return data, nil
}

// Lookup parses the stored document.
func (p *FileProvider) Lookup(ctx context.Context, url string) (Info, error) {
	data, err := p.Dump(ctx, url)
	if err != nil {
		return Info{}, err
	}
	info, err := DecodeInfo(data)
	if err != nil {
		return Info{}, fmt.Errorf("parse snapshot file %s: %w", p.Path, err)
	}
	return info, nil
}
