// Package mapview is an in-memory map: it keeps the viewport, the pins and
// the named line overlays a page would draw, and renders them as GeoJSON.
package mapview

import (
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/ports"
	"sort"
	"sync"

	"github.com/paulmach/orb"
)

// Initial viewport of a fresh page.
var (
	DefaultCenter = domain.Coordinates{Lon: 0, Lat: 20}
	DefaultZoom   = 2.0
)

type View struct {
	mu sync.Mutex

	center domain.Coordinates
	zoom   float64

	nextMarker int
	markers    map[int]MarkerState
	sources    map[string]orb.LineString
	layers     []ports.LineLayer
}

// MarkerState is a pin currently on the map.
type MarkerState struct {
	At    domain.Coordinates `json:"at"`
	Color string             `json:"color"`
}

func New(center domain.Coordinates, zoom float64) *View {
	return &View{
		center:  center,
		zoom:    zoom,
		markers: map[int]MarkerState{},
		sources: map[string]orb.LineString{},
	}
}

func (v *View) FlyTo(center domain.Coordinates, zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center = center
	v.zoom = zoom
}

func (v *View) Center() domain.Coordinates {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.center
}

func (v *View) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

func (v *View) AddMarker(at domain.Coordinates, color string) ports.Marker {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.nextMarker++
	id := v.nextMarker
	v.markers[id] = MarkerState{At: at, Color: color}
	return &marker{view: v, id: id}
}

// Markers returns the pins in the order they were added.
func (v *View) Markers() []MarkerState {
	v.mu.Lock()
	defer v.mu.Unlock()

	ids := make([]int, 0, len(v.markers))
	for id := range v.markers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]MarkerState, 0, len(ids))
	for _, id := range ids {
		out = append(out, v.markers[id])
	}
	return out
}

func (v *View) HasSource(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.sources[id]
	return ok
}

func (v *View) HasLayer(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layerIndex(id) >= 0
}

func (v *View) AddSource(id string, geometry orb.LineString) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.sources[id]; ok {
		return fmt.Errorf("source %q already exists", id)
	}
	v.sources[id] = append(orb.LineString(nil), geometry...)
	return nil
}

func (v *View) AddLayer(layer ports.LineLayer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.layerIndex(layer.ID) >= 0 {
		return fmt.Errorf("layer %q already exists", layer.ID)
	}
	if _, ok := v.sources[layer.Source]; !ok {
		return fmt.Errorf("layer %q: source %q does not exist", layer.ID, layer.Source)
	}
	v.layers = append(v.layers, layer)
	return nil
}

func (v *View) RemoveLayer(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.layerIndex(id); i >= 0 {
		v.layers = append(v.layers[:i], v.layers[i+1:]...)
	}
}

// RemoveSource drops a source. Layers still drawing it are dropped too.
func (v *View) RemoveSource(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.sources, id)
	kept := v.layers[:0]
	for _, l := range v.layers {
		if l.Source != id {
			kept = append(kept, l)
		}
	}
	v.layers = kept
}

// Layers returns the drawn line layers, bottom first.
func (v *View) Layers() []ports.LineLayer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]ports.LineLayer(nil), v.layers...)
}

// must hold v.mu
func (v *View) layerIndex(id string) int {
	for i, l := range v.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

type marker struct {
	view *View
	id   int
}

// Remove is idempotent.
func (m *marker) Remove() {
	m.view.mu.Lock()
	defer m.view.mu.Unlock()
	delete(m.view.markers, m.id)
}
