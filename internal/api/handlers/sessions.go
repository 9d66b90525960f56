package handlers

import (
	"map-distance-service/internal/api/dto"
	"map-distance-service/internal/session"
	"net/http"
)

type SessionHandler struct {
	Store *session.Store
}

// alertDrainer is implemented by notifiers that queue alerts for the page.
type alertDrainer interface {
	Drain() []string
}

// session resolves {id}, writing a 404 when it is unknown.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := h.Store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func drainAlerts(s *session.Session) []string {
	if d, ok := s.Notifier().(alertDrainer); ok {
		return d.Drain()
	}
	return []string{}
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, r *http.Request, status int, s *session.Session) {
	writeJSON(w, r, status, dto.SessionResponse{
		State:  s.State(),
		Alerts: drainAlerts(s),
	})
}

// Create starts a session for a freshly loaded page.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.Store.Create()
	w.Header().Set("Location", "/sessions/"+s.ID())
	h.writeSession(w, r, http.StatusCreated, s)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSession(w, r, http.StatusOK, s)
}

// Delete ends the session when the page goes away.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Delete(r.PathValue("id")) {
		writeError(w, r, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
