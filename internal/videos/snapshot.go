package videos

import (
	"context"
	"fmt"
)

// SnapshotStore persists raw info documents keyed by video URL.
type SnapshotStore interface {
	Save(ctx context.Context, url string, data []byte) error
	Load(ctx context.Context, url string) ([]byte, error)
}

// SnapshotProvider serves metadata from previously captured info documents.
type SnapshotProvider struct {
	Store SnapshotStore
}

// NewSnapshotProvider adapts store to the Provider interface.
func NewSnapshotProvider(store SnapshotStore) *SnapshotProvider {
	return &SnapshotProvider{Store: store}
}

// Dump returns the stored document for url.
func (p *SnapshotProvider) Dump(ctx context.Context, url string) ([]byte, error) {
	if p == nil || p.Store == nil {
		return nil, ErrProviderUnavailable
	}
	return p.Store.Load(ctx, url)
}

// Lookup loads and parses the stored document for url.
func (p *SnapshotProvider) Lookup(ctx context.Context, url string) (Info, error) {
	data, err := p.Dump(ctx, url)
	if err != nil {
		return Info{}, err
	}
	info, err := DecodeInfo(data)
	if err != nil {
		return Info{}, fmt.Errorf("parse snapshot for %s: %w", url, err)
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}

// Capture fetches the current document for url from source and stores it.
func Capture(ctx context.Context, source Dumper, store SnapshotStore, url string) (Info, error) {
	if source == nil || store == nil {
		return Info{}, ErrProviderUnavailable
	}
	data, err := source.Dump(ctx, url)
	if err != nil {
		return Info{}, err
	}
	info, err := DecodeInfo(data)
	if err != nil {
		return Info{}, fmt.Errorf("validate snapshot for %s: %w", url, err)
	}
	if err := store.Save(ctx, url, data); err != nil {
		return Info{}, fmt.Errorf("save snapshot for %s: %w", url, err)
	}
	return info, nil
}
