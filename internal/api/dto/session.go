package dto

import (
	"map-distance-service/internal/domain"
	"map-distance-service/internal/session"
)

// DefaultMode is used when a request leaves the travel mode out.
const DefaultMode = domain.ModeDriving

type SessionResponse struct {
	session.State
	Alerts []string `json:"alerts"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type SelectRequest struct {
	Index *int `json:"index"`
}

type SearchResponse struct {
	Role        domain.Role    `json:"role"`
	Value       string         `json:"value"`
	Suggestions []domain.Place `json:"suggestions"`
	Alerts      []string       `json:"alerts"`
}

type ClickRequest struct {
	Target string `json:"target"`
}

type DistanceRequest struct {
	Mode string `json:"mode"`
}

// LocationRequest carries what the browser's geolocation reported:
// either a position or an error ("unsupported" or "unavailable").
type LocationRequest struct {
	Lon   *float64 `json:"lon"`
	Lat   *float64 `json:"lat"`
	Error string   `json:"error"`
	Mode  string   `json:"mode"`
}

const (
	LocationUnsupported = "unsupported"
	LocationUnavailable = "unavailable"
)
