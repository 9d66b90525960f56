package handlers

import (
	"errors"
	"map-distance-service/internal/api/dto"
	"map-distance-service/internal/autocomplete"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/session"
	"net/http"
)

// search resolves {id} and {role}, writing the error response itself.
func (h *SessionHandler) search(w http.ResponseWriter, r *http.Request) (*session.Session, *autocomplete.Controller, bool) {
	s, ok := h.session(w, r)
	if !ok {
		return nil, nil, false
	}

	role, err := domain.ParseRole(r.PathValue("role"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}

	c, err := s.Search(role)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	return s, c, true
}

func writeSearch(w http.ResponseWriter, r *http.Request, status int, s *session.Session, c *autocomplete.Controller) {
	writeJSON(w, r, status, dto.SearchResponse{
		Role:        c.Role(),
		Value:       c.Value(),
		Suggestions: c.Suggestions(),
		Alerts:      drainAlerts(s),
	})
}

// Input feeds a keystroke to the search. The lookup is debounced, so the
// response carries the list as it stands; poll Suggestions for the result.
func (h *SessionHandler) Input(w http.ResponseWriter, r *http.Request) {
	s, c, ok := h.search(w, r)
	if !ok {
		return
	}

	var req dto.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c.Input(req.Query)
	writeSearch(w, r, http.StatusAccepted, s, c)
}

func (h *SessionHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	s, c, ok := h.search(w, r)
	if !ok {
		return
	}
	writeSearch(w, r, http.StatusOK, s, c)
}

// Select picks a suggestion and returns the whole session, since a
// selection moves the map and may place a marker.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	s, c, ok := h.search(w, r)
	if !ok {
		return
	}

	var req dto.SelectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, r, http.StatusBadRequest, "index is required")
		return
	}

	if _, err := c.Select(*req.Index); err != nil {
		if errors.Is(err, autocomplete.ErrNoSuggestion) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, r, http.StatusInternalServerError, "select failed")
		return
	}

	h.writeSession(w, r, http.StatusOK, s)
}

// Click reports a click on the page. Every suggestion list except the one
// under the clicked input is dismissed.
func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.ClickRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Anything that is not a search input counts as outside all of them.
	target, err := domain.ParseRole(req.Target)
	if err != nil {
		target = ""
	}
	s.ClickOutside(target)

	h.writeSession(w, r, http.StatusOK, s)
}
