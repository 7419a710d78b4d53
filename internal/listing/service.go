package listing

import (
	"context"
	"log/slog"

	"github.com/vidfriends/formatlist/internal/formats"
	"github.com/vidfriends/formatlist/internal/logging"
	"github.com/vidfriends/formatlist/internal/videos"
)

// Result is the listing built for one URL together with its video details.
type Result struct {
	ID      string
	Title   string
	URL     string
	Listing formats.Listing
}

// Service resolves a URL through a metadata provider and builds its listing.
type Service struct {
	Provider videos.Provider
}

// NewService returns a Service backed by provider.
func NewService(provider videos.Provider) *Service {
	return &Service{Provider: provider}
}

// List fetches the formats for url and classifies them. Formats that fail
// normalization are logged and reported in the result, not returned as errors.
func (s *Service) List(ctx context.Context, url string) (result Result, err error) {
	if s == nil || s.Provider == nil {
		return Result{}, videos.ErrProviderUnavailable
	}

	ctx, span := logging.StartSpan(ctx, "listing.build", slog.String("url", url))
	defer func() {
		span.End(err,
			slog.Int("rows", len(result.Listing.Rows)),
			slog.Int("failures", len(result.Listing.Failures)),
		)
	}()

	info, err := s.Provider.Lookup(ctx, url)
	if err != nil {
		return Result{}, err
	}

	built := formats.Build(info.Formats)

	logger := logging.FromContext(ctx)
	for _, failure := range built.Failures {
		logger.Warn("format skipped",
			"formatId", failure.FormatID,
			"index", failure.Index,
			"kind", failure.Kind.String(),
			"error", failure.Err,
		)
	}
	logger.Debug("listing built",
		"total", built.Stats.Total,
		"filtered", built.Stats.Filtered,
		"invalid", built.Stats.Invalid,
	)

	return Result{ID: info.ID, Title: info.Title, URL: info.URL, Listing: built}, nil
}
