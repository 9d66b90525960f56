package ports

import (
	"map-distance-service/internal/domain"

	"github.com/paulmach/orb"
)

// Marker is a pin placed on the map.
type Marker interface {
	Remove()
}

// LineLayer describes how a line source is drawn.
type LineLayer struct {
	ID        string
	Source    string
	LineJoin  string
	LineCap   string
	LineColor string
	LineWidth float64
}

// MapView is the map rendering capability: viewport control, markers,
// and named sources/layers. Adding an id that already exists is an error.
type MapView interface {
	FlyTo(center domain.Coordinates, zoom float64)
	Center() domain.Coordinates
	Zoom() float64
	AddMarker(at domain.Coordinates, color string) Marker

	HasSource(id string) bool
	HasLayer(id string) bool
	AddSource(id string, geometry orb.LineString) error
	AddLayer(layer LineLayer) error
	RemoveLayer(id string)
	RemoveSource(id string)
}
