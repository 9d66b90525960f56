package api

import (
	"map-distance-service/internal/api/handlers"
	"map-distance-service/internal/platform/metrics"
	"map-distance-service/internal/session"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(store *session.Store) http.Handler {
	mux := http.NewServeMux()

	h := &handlers.SessionHandler{Store: store}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /sessions", h.Create)
	mux.HandleFunc("GET /sessions/{id}", h.Get)
	mux.HandleFunc("DELETE /sessions/{id}", h.Delete)

	mux.HandleFunc("POST /sessions/{id}/search/{role}", h.Input)
	mux.HandleFunc("GET /sessions/{id}/search/{role}", h.Suggestions)
	mux.HandleFunc("POST /sessions/{id}/search/{role}/select", h.Select)
	mux.HandleFunc("POST /sessions/{id}/click", h.Click)

	mux.HandleFunc("POST /sessions/{id}/distance", h.Distance)
	mux.HandleFunc("POST /sessions/{id}/location", h.Location)
	mux.HandleFunc("GET /sessions/{id}/map", h.Map)

	return loggingMiddleware(mux)
}
