package domain

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Point returns the coordinates as an orb point (x=lon, y=lat).
func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// String renders "lon,lat", the segment format routing endpoints expect.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Validate rejects coordinates outside the WGS 84 range.
func (c Coordinates) Validate() error {
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range", c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", c.Lat)
	}
	return nil
}

// CoordinatesFromList parses a [lon, lat] pair as returned by geocoding APIs.
func CoordinatesFromList(v []float64) (Coordinates, error) {
	if len(v) != 2 {
		return Coordinates{}, fmt.Errorf("invalid coordinate format: got %d values, want 2", len(v))
	}
	return Coordinates{Lon: v[0], Lat: v[1]}, nil
}
