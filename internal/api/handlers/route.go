package handlers

import (
	"context"
	"errors"
	"map-distance-service/internal/api/dto"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/ports"
	"net/http"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// featureRenderer is implemented by map views that can render themselves.
type featureRenderer interface {
	FeatureCollection() *geojson.FeatureCollection
}

func parseMode(s string) (domain.Mode, error) {
	if strings.TrimSpace(s) == "" {
		return dto.DefaultMode, nil
	}
	return domain.ParseMode(s)
}

// Distance runs the distance calculation. Missing selections and routing
// failures are reported through alerts, not the status code.
func (h *SessionHandler) Distance(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.DistanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// The outcome is in the state and alerts.
	_ = s.CalculateDistance(r.Context(), mode)

	h.writeSession(w, r, http.StatusOK, s)
}

// Location uses the position the browser reported as the destination.
func (h *SessionHandler) Location(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.LocationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	locator, err := locatorFor(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	_ = s.UseMyLocation(r.Context(), locator, mode)

	h.writeSession(w, r, http.StatusOK, s)
}

// locatorFor turns the browser's report into a Locator.
func locatorFor(req dto.LocationRequest) (ports.Locator, error) {
	switch req.Error {
	case "":
	case dto.LocationUnsupported:
		return failingLocator(domain.ErrLocationUnsupported), nil
	case dto.LocationUnavailable:
		return failingLocator(domain.ErrLocationUnavailable), nil
	default:
		return nil, errors.New(`error must be "unsupported" or "unavailable"`)
	}

	if req.Lon == nil || req.Lat == nil {
		return nil, errors.New("lon and lat are required")
	}
	pos := domain.Coordinates{Lon: *req.Lon, Lat: *req.Lat}
	if err := pos.Validate(); err != nil {
		return nil, err
	}
	return ports.LocatorFunc(func(context.Context) (domain.Coordinates, error) {
		return pos, nil
	}), nil
}

func failingLocator(err error) ports.Locator {
	return ports.LocatorFunc(func(context.Context) (domain.Coordinates, error) {
		return domain.Coordinates{}, err
	})
}

// Map renders the session's map as GeoJSON.
func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	fr, ok := s.View().(featureRenderer)
	if !ok {
		writeError(w, r, http.StatusNotImplemented, "map view cannot be rendered")
		return
	}
	writeJSON(w, r, http.StatusOK, fr.FeatureCollection())
}
