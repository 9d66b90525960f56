// Package autocomplete drives one search input: debounced remote lookups,
// the suggestion list, and selection.
package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/platform/metrics"
	"map-distance-service/internal/ports"
	"strings"
	"sync"
	"time"
)

const (
	DefaultDelay = 300 * time.Millisecond
	DefaultLimit = 5
)

var ErrNoSuggestion = errors.New("no suggestion at index")

// Timer is a scheduled call that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Controller holds the state of one search input.
//
// Each Input supersedes everything before it: the pending lookup is
// unscheduled, an in-flight lookup is cancelled, and any result that still
// arrives for an older input is dropped. The list therefore always reflects
// the latest query or is empty.
type Controller struct {
	role     domain.Role
	geocoder ports.Geocoder
	onSelect func(domain.Place)

	delay  time.Duration
	limit  int
	after  AfterFunc
	logger *slog.Logger

	mu          sync.Mutex
	value       string
	suggestions []domain.Place
	gen         uint64
	timer       Timer
	cancel      context.CancelFunc
	closed      bool
}

type Option func(*Controller)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLimit caps the number of suggestions kept from a lookup.
func WithLimit(n int) Option {
	return func(c *Controller) { c.limit = n }
}

// WithScheduler replaces time.AfterFunc.
func WithScheduler(f AfterFunc) Option {
	return func(c *Controller) { c.after = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a controller for role. onSelect runs once per successful
// Select, outside the controller's lock.
func New(role domain.Role, geocoder ports.Geocoder, onSelect func(domain.Place), opts ...Option) *Controller {
	c := &Controller{
		role:     role,
		geocoder: geocoder,
		onSelect: onSelect,
		delay:    DefaultDelay,
		limit:    DefaultLimit,
		after:    realAfterFunc,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Role() domain.Role { return c.role }

// Input records a new input value and schedules a lookup for it.
// A blank value clears the list without any remote call.
func (c *Controller) Input(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = query
	c.supersede()
	if c.closed {
		return
	}

	if strings.TrimSpace(query) == "" {
		c.suggestions = nil
		return
	}

	gen := c.gen
	c.timer = c.after(c.delay, func() { c.lookup(gen, query) })
}

// must hold c.mu
func (c *Controller) supersede() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) lookup(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	// The previous query's list must not stay selectable while this one is in flight.
	c.suggestions = nil
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	places, err := c.geocoder.Search(ctx, query)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		metrics.StaleLookupsDiscarded.WithLabelValues("search").Inc()
		return
	}
	c.cancel = nil

	if err != nil {
		c.logger.Error("search lookup failed", "role", c.role, "query", query, "err", err)
		c.suggestions = nil
		return
	}

	if c.limit > 0 && len(places) > c.limit {
		places = places[:c.limit]
	}
	c.suggestions = places
}

// Value returns the current input text.
func (c *Controller) Value() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Suggestions returns a copy of the current list, in service order.
// It is never nil.
func (c *Controller) Suggestions() []domain.Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Place, len(c.suggestions))
	copy(out, c.suggestions)
	return out
}

// Select picks suggestion i: the input takes the place name, the list is
// cleared and onSelect is called. An index outside the list changes nothing.
func (c *Controller) Select(i int) (domain.Place, error) {
	c.mu.Lock()
	if i < 0 || i >= len(c.suggestions) {
		n := len(c.suggestions)
		c.mu.Unlock()
		return domain.Place{}, fmt.Errorf("%w %d (list has %d)", ErrNoSuggestion, i, n)
	}

	place := c.suggestions[i]
	c.value = place.Name
	c.suggestions = nil
	c.supersede()
	c.mu.Unlock()

	if c.onSelect != nil {
		c.onSelect(place)
	}
	return place, nil
}

// Dismiss clears the list without touching the input value.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suggestions = nil
}

// Close stops the pending lookup and cancels the in-flight one.
// Later Input calls only record the value.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.supersede()
}
