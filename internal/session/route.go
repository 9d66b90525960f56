package session

import (
	"context"
	"errors"
	"fmt"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/metrics"
	"map-distance-service/internal/platform/obs"
	"map-distance-service/internal/ports"

	"github.com/paulmach/orb"
)

// CalculateDistance routes from start to end for mode, draws the route and
// sets the result text. Missing endpoints are alerted without any remote
// call. A failed request is alerted and leaves the previous route and text
// as they were.
func (s *Session) CalculateDistance(ctx context.Context, mode domain.Mode) (err error) {
	defer obs.Time(ctx, "session.CalculateDistance")(&err)

	s.mu.Lock()
	if s.start == nil {
		s.mu.Unlock()
		s.notifier.Alert(MsgMissingStart)
		return domain.ErrMissingStart
	}
	if s.end == nil {
		s.mu.Unlock()
		s.notifier.Alert(MsgMissingEnd)
		return domain.ErrMissingEnd
	}
	start, end := *s.start, *s.end
	endpoints := s.endpoints
	s.calcs++
	calc := s.calcs
	s.mu.Unlock()

	route, err := s.router.Route(ctx, start, end, mode)
	if err != nil {
		s.mu.Lock()
		superseded := calc != s.calcs
		s.mu.Unlock()

		switch {
		case superseded:
			s.logger.InfoContext(ctx, "superseded route lookup failed", "mode", mode, "err", err)
			metrics.StaleLookupsDiscarded.WithLabelValues("route").Inc()
			return ErrSuperseded
		case errors.Is(err, context.Canceled):
			// The caller went away; nobody is left to read the alert.
			s.logger.InfoContext(ctx, "route lookup cancelled", "mode", mode)
			return err
		}

		s.logger.ErrorContext(ctx, "route lookup failed", "mode", mode, "start", start, "end", end, "err", err)
		s.notifier.Alert(MsgRouteFailed)
		return fmt.Errorf("calculate distance: %w", err)
	}

	s.mu.Lock()
	if endpoints != s.endpoints || calc != s.calcs {
		s.mu.Unlock()
		metrics.StaleLookupsDiscarded.WithLabelValues("route").Inc()
		return ErrSuperseded
	}
	if err := s.drawRoute(route.Geometry); err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "draw route failed", "err", err)
		s.notifier.Alert(MsgRouteFailed)
		return fmt.Errorf("calculate distance: %w", err)
	}
	s.result = domain.FormatDistance(route.DistanceMeters, mode)
	s.mu.Unlock()

	s.publish(ctx, domain.RouteCalculated{
		SessionID:      s.id,
		Mode:           mode,
		Start:          start,
		End:            end,
		DistanceMeters: route.DistanceMeters,
		At:             s.now().UTC(),
	})
	return nil
}

// must hold s.mu
func (s *Session) drawRoute(line orb.LineString) error {
	s.removeRoute()
	if err := s.view.AddSource(RouteID, line); err != nil {
		return err
	}
	return s.view.AddLayer(ports.LineLayer{
		ID:        RouteID,
		Source:    RouteID,
		LineJoin:  routeJoin,
		LineCap:   routeCap,
		LineColor: routeColor,
		LineWidth: routeWidth,
	})
}

// must hold s.mu
func (s *Session) removeRoute() {
	if s.view.HasLayer(RouteID) {
		s.view.RemoveLayer(RouteID)
	}
	if s.view.HasSource(RouteID) {
		s.view.RemoveSource(RouteID)
	}
}

func (s *Session) publish(ctx context.Context, evt domain.RouteCalculated) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRouteCalculated(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish route event failed", "err", err)
	}
}

// UseMyLocation makes the user's position the destination, and routes to
// it straight away when a start is already set.
func (s *Session) UseMyLocation(ctx context.Context, locator ports.Locator, mode domain.Mode) error {
	pos, err := locator.CurrentPosition(ctx)
	if err != nil {
		msg := MsgLocationUnavailable
		if errors.Is(err, domain.ErrLocationUnsupported) {
			msg = MsgLocationUnsupported
		}
		s.logger.WarnContext(ctx, "geolocation failed", "err", err)
		s.notifier.Alert(msg)
		return err
	}

	s.setEndpoint(domain.RoleEnd, pos)

	s.mu.Lock()
	hasStart := s.start != nil
	s.mu.Unlock()
	if !hasStart {
		return nil
	}
	return s.CalculateDistance(ctx, mode)
}
