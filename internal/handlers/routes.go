package handlers

import "net/http"

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{Source: deps.Source}
	formatsHandler := FormatsHandler{Lister: deps.Formats, Limiter: deps.Limiter}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/formats", formatsHandler.List)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Formats FormatLister
	Limiter RateLimiter
	Source  string
}
