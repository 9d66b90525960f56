// Package session holds the state of one page: the map, the start and end
// selections with their markers, the route overlay and the three searches.
package session

import (
	"errors"
	"log/slog"
	"map-distance-service/internal/autocomplete"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/ports"
	"sync"
	"time"
)

// Alert texts shown to the user.
const (
	MsgMissingStart        = "Please search and select a starting location first."
	MsgMissingEnd          = "Please search and select a destination location."
	MsgRouteFailed         = "Unable to calculate distance. Please try again."
	MsgLocationUnsupported = "Geolocation is not supported by your browser."
	MsgLocationUnavailable = "Unable to retrieve your location."
)

const (
	DefaultFlyZoom = 12.0

	RouteID    = "route"
	routeJoin  = "round"
	routeCap   = "round"
	routeColor = "#0074D9"
	routeWidth = 4
)

// ErrSuperseded is returned when start or end changed while a route was
// being fetched; the stale route is not drawn.
var ErrSuperseded = errors.New("route request superseded")

// Deps are the capabilities a session drives.
type Deps struct {
	View     ports.MapView
	Geocoder ports.Geocoder
	Router   ports.Router
	Notifier ports.Notifier
	Events   ports.EventPublisher // optional
	Logger   *slog.Logger         // optional
}

type Option func(*Session)

// WithFlyZoom sets the zoom used when flying to a selection.
func WithFlyZoom(z float64) Option {
	return func(s *Session) { s.flyZoom = z }
}

// WithSearchOptions configures every search controller.
func WithSearchOptions(opts ...autocomplete.Option) Option {
	return func(s *Session) { s.searchOpts = append(s.searchOpts, opts...) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type Session struct {
	id       string
	view     ports.MapView
	router   ports.Router
	notifier ports.Notifier
	events   ports.EventPublisher
	logger   *slog.Logger

	flyZoom    float64
	searchOpts []autocomplete.Option
	now        func() time.Time
	searches   map[domain.Role]*autocomplete.Controller

	mu          sync.Mutex
	start       *domain.Coordinates
	end         *domain.Coordinates
	startMarker ports.Marker
	endMarker   ports.Marker
	result      string
	// bumped whenever start or end changes
	endpoints uint64
	// bumped for every routing request; only the latest may draw
	calcs      uint64
	lastActive time.Time
}

func New(id string, deps Deps, opts ...Option) *Session {
	s := &Session{
		id:       id,
		view:     deps.View,
		router:   deps.Router,
		notifier: deps.Notifier,
		events:   deps.Events,
		logger:   deps.Logger,
		flyZoom:  DefaultFlyZoom,
		now:      time.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session", id)
	s.lastActive = s.now()

	searchOpts := append([]autocomplete.Option{autocomplete.WithLogger(s.logger)}, s.searchOpts...)
	s.searches = map[domain.Role]*autocomplete.Controller{
		domain.RoleGeneral: autocomplete.New(domain.RoleGeneral, deps.Geocoder, s.FocusPlace, searchOpts...),
		domain.RoleStart:   autocomplete.New(domain.RoleStart, deps.Geocoder, s.SetStart, searchOpts...),
		domain.RoleEnd:     autocomplete.New(domain.RoleEnd, deps.Geocoder, s.SetEnd, searchOpts...),
	}
	return s
}

func (s *Session) ID() string { return s.id }

// View exposes the map the session draws on.
func (s *Session) View() ports.MapView { return s.view }

func (s *Session) Notifier() ports.Notifier { return s.notifier }

// Search returns the controller of one search input.
func (s *Session) Search(role domain.Role) (*autocomplete.Controller, error) {
	c, ok := s.searches[role]
	if !ok {
		return nil, domain.ErrUnknownRole
	}
	return c, nil
}

// FocusPlace centers the map on a general search selection.
func (s *Session) FocusPlace(place domain.Place) {
	s.view.FlyTo(place.Coordinates, s.flyZoom)
}

// SetStart makes place the route start.
func (s *Session) SetStart(place domain.Place) {
	s.setEndpoint(domain.RoleStart, place.Coordinates)
}

// SetEnd makes place the route destination.
func (s *Session) SetEnd(place domain.Place) {
	s.setEndpoint(domain.RoleEnd, place.Coordinates)
}

// setEndpoint flies to at and puts the role's marker there. Replacing an
// existing marker also takes the route down, since it no longer matches.
func (s *Session) setEndpoint(role domain.Role, at domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.FlyTo(at, s.flyZoom)

	marker, coords := &s.startMarker, &s.start
	if role == domain.RoleEnd {
		marker, coords = &s.endMarker, &s.end
	}

	if *marker != nil {
		(*marker).Remove()
		s.removeRoute()
	}
	*marker = s.view.AddMarker(at, role.MarkerColor())
	c := at
	*coords = &c
	s.endpoints++
}

// ClickOutside dismisses every suggestion list except the one belonging to
// the clicked input. An empty target dismisses all of them.
func (s *Session) ClickOutside(target domain.Role) {
	for role, c := range s.searches {
		if role != target {
			c.Dismiss()
		}
	}
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = s.now()
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Close stops all pending and in-flight searches.
func (s *Session) Close() {
	for _, c := range s.searches {
		c.Close()
	}
}
