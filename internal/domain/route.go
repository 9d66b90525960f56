package domain

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Route is the routing service's answer for one start/end/mode request.
// Geometry is the full path as [lon, lat] points.
type Route struct {
	Geometry       orb.LineString
	DistanceMeters float64
}

// FormatDistance renders a distance the way the result panel shows it,
// e.g. "Distance: 12.34 km (Driving)".
func FormatDistance(meters float64, mode Mode) string {
	return fmt.Sprintf("Distance: %.2f km (%s)", meters/1000, mode.Title())
}

// RouteCalculated is emitted after a route overlay is drawn.
type RouteCalculated struct {
	SessionID      string      `json:"session_id"`
	Mode           Mode        `json:"mode"`
	Start          Coordinates `json:"start"`
	End            Coordinates `json:"end"`
	DistanceMeters float64     `json:"distance_meters"`
	At             time.Time   `json:"at"`
}
