package ors

import (
	"context"
	"encoding/json"
	"errors"
	"map-distance-service/internal/domain"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient("ors-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLimit(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/autocomplete" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "ors-key" {
			t.Errorf("missing api key header")
		}
		if got := r.URL.Query().Get("text"); got != "1901 W Madison" {
			t.Errorf("text = %q", got)
		}
		if got := r.URL.Query().Get("size"); got != "3" {
			t.Errorf("size = %q", got)
		}
		w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[-112.0957,33.4817]},
			 "properties":{"label":"1901 W Madison St, Phoenix, AZ, USA"}}
		]}`))
	})

	places, err := c.Search(context.Background(), "1901   W Madison")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(places) != 1 || places[0].Name != "1901 W Madison St, Phoenix, AZ, USA" {
		t.Fatalf("places = %+v", places)
	}
	if places[0].Coordinates.Lon != -112.0957 || places[0].Coordinates.Lat != 33.4817 {
		t.Fatalf("coordinates = %+v", places[0].Coordinates)
	}
}

func TestRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/directions/cycling-regular/geojson" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Coordinates) != 2 || body.Coordinates[0][0] != 8.68 {
			t.Errorf("coordinates = %v", body.Coordinates)
		}
		w.Write([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature",
			"geometry":{"type":"LineString","coordinates":[[8.68,49.41],[8.69,49.42]]},
			"properties":{"summary":{"distance":1520.4,"duration":300.1}}}]}`))
	})

	route, err := c.Route(context.Background(),
		domain.Coordinates{Lon: 8.68, Lat: 49.41},
		domain.Coordinates{Lon: 8.69, Lat: 49.42},
		domain.ModeCycling,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.DistanceMeters != 1520.4 || len(route.Geometry) != 2 {
		t.Fatalf("route = %+v", route)
	}
}

func TestRouteNotFoundIsNoRoute(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":2010,"message":"Could not find routable point"}}`, http.StatusNotFound)
	})

	_, err := c.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lon: 1}, domain.ModeDriving)
	if !errors.Is(err, domain.ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
