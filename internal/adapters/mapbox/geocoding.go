package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type geocodeResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Search returns autocomplete suggestions for a partial query.
func (c *Client) Search(ctx context.Context, query string) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "mapbox.Search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Place{}, nil
	}

	endpoint := c.baseURL + "/geocoding/v5/mapbox.places/" + url.PathEscape(query) + ".json"

	req, err := c.http.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("mapbox search: %w", err)
	}
	q := req.URL.Query()
	q.Set("autocomplete", "true")
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("access_token", c.token)
	req.URL.RawQuery = q.Encode()

	resp, err := c.do("search", req)
	if err != nil {
		return nil, fmt.Errorf("mapbox search: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("mapbox search: decode response: %w", err)
	}

	out := make([]domain.Place, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords, err := domain.CoordinatesFromList(f.Geometry.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("mapbox search: feature %q: %w", f.PlaceName, err)
		}
		out = append(out, domain.Place{Name: f.PlaceName, Coordinates: coords})
	}

	return out, nil
}
