package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/vidfriends/formatlist/internal/formats"
	"github.com/vidfriends/formatlist/internal/logging"
	"github.com/vidfriends/formatlist/internal/videos"
)

// FormatsHandler serves classified format listings.
type FormatsHandler struct {
	Lister  FormatLister
	Limiter RateLimiter
}

type failureResponse struct {
	Index    int    `json:"index"`
	FormatID string `json:"formatId,omitempty"`
	Kind     string `json:"kind"`
	Error    string `json:"error"`
}

type formatsResponse struct {
	ID       string            `json:"id,omitempty"`
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Columns  []string          `json:"columns"`
	Rows     []formats.Row     `json:"rows"`
	Failures []failureResponse `json:"failures"`
	Stats    formats.Stats     `json:"stats"`
}

// List handles GET /api/v1/formats?url=<video url>.
func (h FormatsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Lister == nil {
		logger.Error("format listing dependencies unavailable")
		respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "format listing unavailable"})
		return
	}

	if !allowRequest(h.Limiter, r, "formats") {
		respondJSON(ctx, w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
		return
	}

	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "url is required"})
		return
	}
	if !validVideoURL(target) {
		respondJSON(ctx, w, http.StatusBadRequest, map[string]string{"error": "url must be an absolute http(s) url"})
		return
	}

	result, err := h.Lister.List(ctx, target)
	if err != nil {
		switch {
		case errors.Is(err, videos.ErrSnapshotNotFound):
			respondJSON(ctx, w, http.StatusNotFound, map[string]string{"error": "no metadata snapshot for url"})
		case errors.Is(err, videos.ErrProviderUnavailable):
			logger.Error("metadata provider unavailable", "error", err)
			respondJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "metadata provider unavailable"})
		default:
			logger.Warn("metadata lookup failed", "url", target, "error", err)
			respondJSON(ctx, w, http.StatusBadGateway, map[string]string{"error": "failed to extract format metadata"})
		}
		return
	}

	resp := formatsResponse{
		ID:       result.ID,
		Title:    result.Title,
		URL:      result.URL,
		Columns:  formats.Columns,
		Rows:     result.Listing.Rows,
		Failures: make([]failureResponse, 0, len(result.Listing.Failures)),
		Stats:    result.Listing.Stats,
	}
	if resp.URL == "" {
		resp.URL = target
	}
	for _, f := range result.Listing.Failures {
		resp.Failures = append(resp.Failures, failureResponse{
			Index:    f.Index,
			FormatID: f.FormatID,
			Kind:     f.Kind.String(),
			Error:    f.Error(),
		})
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

func validVideoURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}
