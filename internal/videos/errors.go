package videos

import "errors"

var (
	// ErrProviderUnavailable indicates the metadata provider is not configured.
	ErrProviderUnavailable = errors.New("video metadata provider unavailable")
	// ErrSnapshotNotFound indicates no stored info document exists for a URL.
	ErrSnapshotNotFound = errors.New("metadata snapshot not found")
)
