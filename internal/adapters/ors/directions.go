package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"map-distance-service/internal/adapters/remote"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// Route retrieves the path and distance between two coordinates
// using the OpenRouteService directions endpoint.
func (c *Client) Route(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	mode domain.Mode,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	prof, err := profile(mode)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, prof)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{start.CoordsToList(), end.CoordsToList()},
	})
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route: marshal request: %w", err)
	}

	req, err := c.http.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route: %w", err)
	}

	resp, err := c.http.Do("route", req)
	if err != nil {
		// ORS answers 404 when no routable point or path exists.
		if remote.IsStatus(err, http.StatusNotFound) {
			return domain.Route{}, fmt.Errorf("ors route: %w: %v", domain.ErrNoRoute, err)
		}
		return domain.Route{}, fmt.Errorf("ors route: execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route: read body: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return domain.Route{}, fmt.Errorf("ors route: decode response: %w", err)
	}

	if len(fc.Features) == 0 {
		return domain.Route{}, fmt.Errorf("ors route: %w", domain.ErrNoRoute)
	}

	first := fc.Features[0]
	line, ok := first.Geometry.(orb.LineString)
	if !ok {
		return domain.Route{}, fmt.Errorf("ors route: unexpected geometry %T", first.Geometry)
	}

	// summary is empty when start and end snap to the same point.
	var meters float64
	if summary, ok := first.Properties["summary"].(map[string]any); ok {
		if d, ok := summary["distance"].(float64); ok {
			meters = d
		}
	}

	return domain.Route{Geometry: line, DistanceMeters: meters}, nil
}
