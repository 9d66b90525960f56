package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64           `json:"distance"`
		Geometry *geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// Route fetches the full-overview route between start and end.
func (c *Client) Route(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	mode domain.Mode,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "mapbox.Route")(&err)

	mode, err = domain.ParseMode(string(mode))
	if err != nil {
		return domain.Route{}, fmt.Errorf("mapbox route: %w", err)
	}

	endpoint := fmt.Sprintf("%s/directions/v5/mapbox/%s/%s;%s", c.baseURL, mode, start, end)

	req, err := c.http.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Route{}, fmt.Errorf("mapbox route: %w", err)
	}
	q := req.URL.Query()
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	q.Set("access_token", c.token)
	req.URL.RawQuery = q.Encode()

	resp, err := c.do("route", req)
	if err != nil {
		return domain.Route{}, fmt.Errorf("mapbox route: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("mapbox route: decode response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("mapbox route: code=%q: %w", decoded.Code, domain.ErrNoRoute)
	}

	first := decoded.Routes[0]
	if first.Geometry == nil {
		return domain.Route{}, fmt.Errorf("mapbox route: route has no geometry")
	}
	line, ok := first.Geometry.Coordinates.(orb.LineString)
	if !ok {
		return domain.Route{}, fmt.Errorf("mapbox route: unexpected geometry %q", first.Geometry.Type)
	}

	return domain.Route{Geometry: line, DistanceMeters: first.Distance}, nil
}
