package mapview

import (
	"encoding/json"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/ports"
	"testing"

	"github.com/paulmach/orb"
)

func routeLayer() ports.LineLayer {
	return ports.LineLayer{ID: "route", Source: "route", LineJoin: "round", LineCap: "round", LineColor: "#0074D9", LineWidth: 4}
}

func TestViewStartsAtInitialViewport(t *testing.T) {
	v := New(DefaultCenter, DefaultZoom)
	if v.Center() != (domain.Coordinates{Lon: 0, Lat: 20}) || v.Zoom() != 2 {
		t.Fatalf("unexpected initial viewport: %+v zoom %v", v.Center(), v.Zoom())
	}

	v.FlyTo(domain.Coordinates{Lon: 2.35, Lat: 48.85}, 12)
	if v.Zoom() != 12 || v.Center().Lon != 2.35 {
		t.Fatalf("FlyTo not applied: %+v zoom %v", v.Center(), v.Zoom())
	}
}

func TestMarkerRemove(t *testing.T) {
	v := New(DefaultCenter, DefaultZoom)
	a := v.AddMarker(domain.Coordinates{Lon: 1, Lat: 1}, "red")
	v.AddMarker(domain.Coordinates{Lon: 2, Lat: 2}, "blue")

	a.Remove()
	a.Remove()

	ms := v.Markers()
	if len(ms) != 1 || ms[0].Color != "blue" {
		t.Fatalf("expected only the blue marker, got %+v", ms)
	}
}

func TestDuplicateSourceAndLayerRejected(t *testing.T) {
	v := New(DefaultCenter, DefaultZoom)
	line := orb.LineString{{0, 0}, {1, 1}}

	if err := v.AddLayer(routeLayer()); err == nil {
		t.Fatalf("expected error adding a layer without its source")
	}
	if err := v.AddSource("route", line); err != nil {
		t.Fatalf("AddSource: %v", err)
	}
	if err := v.AddSource("route", line); err == nil {
		t.Fatalf("expected duplicate source error")
	}
	if err := v.AddLayer(routeLayer()); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	if err := v.AddLayer(routeLayer()); err == nil {
		t.Fatalf("expected duplicate layer error")
	}

	v.RemoveLayer("route")
	v.RemoveSource("route")
	if v.HasLayer("route") || v.HasSource("route") {
		t.Fatalf("route overlay should be gone")
	}
}

func TestFeatureCollection(t *testing.T) {
	v := New(DefaultCenter, DefaultZoom)
	v.AddMarker(domain.Coordinates{Lon: 1, Lat: 2}, "red")
	_ = v.AddSource("route", orb.LineString{{1, 2}, {3, 4}})
	_ = v.AddLayer(routeLayer())

	fc := v.FeatureCollection()
	if len(fc.Features) != 2 {
		t.Fatalf("features = %d, want 2", len(fc.Features))
	}

	pt, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok || pt != (orb.Point{1, 2}) {
		t.Fatalf("marker geometry = %#v", fc.Features[0].Geometry)
	}
	if fc.Features[0].Properties.MustString("marker-color") != "red" {
		t.Fatalf("marker color missing: %v", fc.Features[0].Properties)
	}

	line := fc.Features[1]
	if _, ok := line.Geometry.(orb.LineString); !ok {
		t.Fatalf("route geometry = %T", line.Geometry)
	}
	if line.Properties.MustString("line-color") != "#0074D9" || line.Properties.MustFloat64("line-width") != 4 {
		t.Fatalf("route paint missing: %v", line.Properties)
	}

	if _, err := json.Marshal(fc); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}
