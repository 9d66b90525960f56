package mock

import (
	"context"
	"fmt"
	"map-distance-service/internal/domain"
	"sync"
)

// Geocoder answers searches from a fixed query -> places table.
// Unknown queries yield an empty list. Calls records every query seen.
type Geocoder struct {
	mu      sync.Mutex
	results map[string][]domain.Place
	errs    map[string]error
	calls   []string

	// Hook, when set, runs before the lookup returns (e.g. to block on a channel).
	Hook func(ctx context.Context, query string)
}

func NewGeocoder(results map[string][]domain.Place) *Geocoder {
	if results == nil {
		results = map[string][]domain.Place{}
	}
	return &Geocoder{results: results, errs: map[string]error{}}
}

// Fail makes searches for query return err.
func (g *Geocoder) Fail(query string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[query] = err
}

func (g *Geocoder) Search(ctx context.Context, query string) ([]domain.Place, error) {
	g.mu.Lock()
	g.calls = append(g.calls, query)
	hook := g.Hook
	g.mu.Unlock()

	if hook != nil {
		hook(ctx, query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.errs[query]; ok {
		return nil, err
	}
	out := make([]domain.Place, len(g.results[query]))
	copy(out, g.results[query])
	return out, nil
}

// Calls returns the queries searched so far, in order.
func (g *Geocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type RoutePair struct {
	From, To domain.Coordinates
	Mode     domain.Mode
	Route    domain.Route
}

// Router answers routing requests from a fixed table of pairs.
// Unknown pairs return domain.ErrNoRoute.
type Router struct {
	mu    sync.Mutex
	m     map[string]domain.Route
	err   error
	calls int

	Hook func(ctx context.Context)
}

func NewRouter(pairs []RoutePair) *Router {
	m := make(map[string]domain.Route, len(pairs))
	for _, p := range pairs {
		m[routeKey(p.From, p.To, p.Mode)] = p.Route
	}
	return &Router{m: m}
}

// FailWith makes every request return err.
func (r *Router) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Router) Route(ctx context.Context, start, end domain.Coordinates, mode domain.Mode) (domain.Route, error) {
	r.mu.Lock()
	r.calls++
	hook := r.Hook
	r.mu.Unlock()

	if hook != nil {
		hook(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.Route{}, r.err
	}
	route, ok := r.m[routeKey(start, end, mode)]
	if !ok {
		return domain.Route{}, fmt.Errorf("missing pair %s -> %s (%s): %w", start, end, mode, domain.ErrNoRoute)
	}
	return route, nil
}

// Calls reports how many routing requests were made.
func (r *Router) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func routeKey(from, to domain.Coordinates, mode domain.Mode) string {
	return from.String() + "|" + to.String() + "|" + string(mode)
}
