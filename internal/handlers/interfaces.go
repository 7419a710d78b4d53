package handlers

import (
	"context"

	"github.com/vidfriends/formatlist/internal/listing"
)

// FormatLister builds the format listing for a video URL.
type FormatLister interface {
	List(ctx context.Context, url string) (listing.Result, error)
}
