package ors

import (
	"errors"
	"map-distance-service/internal/adapters/remote"
	"map-distance-service/internal/domain"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.openrouteservice.org"

// Client implements ports.Geocoder and ports.Router using OpenRouteService.
//
// It uses:
//   - /geocode/autocomplete for suggestions
//   - /v2/directions/{profile}/geojson for routes
//
// The client is safe for concurrent use.
type Client struct {
	http    *remote.Client
	baseURL string
	limit   int
}

type Option func(*Client)

// WithBaseURL points the client at a different ORS deployment.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithLimit sets the number of suggestions requested per search.
func WithLimit(n int) Option {
	return func(c *Client) { c.limit = n }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http.Session = hc }
}

// WithLimiter throttles outbound calls.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.http.Limiter = l }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	hc := remote.NewClient("ors", nil, nil)
	hc.Header.Set("Authorization", apiKey)

	c := &Client{
		http:    hc,
		baseURL: DefaultBaseURL,
		limit:   5,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// normalize ensures consistent queries by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// profile maps a travel mode to an ORS routing profile.
func profile(m domain.Mode) (string, error) {
	switch m {
	case domain.ModeWalking:
		return "foot-walking", nil
	case domain.ModeDriving:
		return "driving-car", nil
	case domain.ModeCycling:
		return "cycling-regular", nil
	}
	return "", domain.ErrUnknownMode
}
