package session

import "map-distance-service/internal/domain"

// State is a point-in-time copy of what the page shows.
type State struct {
	ID           string                      `json:"id"`
	Center       domain.Coordinates          `json:"center"`
	Zoom         float64                     `json:"zoom"`
	Start        *domain.Coordinates         `json:"start"`
	End          *domain.Coordinates         `json:"end"`
	RoutePresent bool                        `json:"route_present"`
	Result       string                      `json:"result"`
	Searches     map[domain.Role]SearchState `json:"searches"`
}

type SearchState struct {
	Value       string         `json:"value"`
	Suggestions []domain.Place `json:"suggestions"`
}

func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		ID:           s.id,
		Center:       s.view.Center(),
		Zoom:         s.view.Zoom(),
		Start:        copyCoords(s.start),
		End:          copyCoords(s.end),
		RoutePresent: s.view.HasLayer(RouteID),
		Result:       s.result,
		Searches:     make(map[domain.Role]SearchState, len(s.searches)),
	}
	s.mu.Unlock()

	for role, c := range s.searches {
		st.Searches[role] = SearchState{Value: c.Value(), Suggestions: c.Suggestions()}
	}
	return st
}

func copyCoords(c *domain.Coordinates) *domain.Coordinates {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
