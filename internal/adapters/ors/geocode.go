package ors

import (
	"context"
	"fmt"
	"io"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/obs"
	"net/http"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Search resolves a partial query into ordered suggestions using /geocode/autocomplete.
func (c *Client) Search(ctx context.Context, query string) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "ors.Search")(&err)

	norm := normalize(query)
	if norm == "" {
		return []domain.Place{}, nil
	}

	req, err := c.http.NewRequest(ctx, http.MethodGet, c.baseURL+"/geocode/autocomplete", nil)
	if err != nil {
		return nil, fmt.Errorf("ors search: %w", err)
	}
	q := req.URL.Query()
	q.Set("text", norm)
	q.Set("size", strconv.Itoa(c.limit))
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do("search", req)
	if err != nil {
		return nil, fmt.Errorf("ors search: execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ors search: read body: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("ors search: decode response: %w", err)
	}

	out := make([]domain.Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}

		name := f.Properties.MustString("label", "")
		if name == "" {
			name = f.Properties.MustString("name", "")
		}
		if name == "" {
			continue
		}

		out = append(out, domain.Place{
			Name:        name,
			Coordinates: domain.Coordinates{Lon: pt.Lon(), Lat: pt.Lat()},
		})
	}

	return out, nil
}
