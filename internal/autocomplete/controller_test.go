package autocomplete

import (
	"context"
	"errors"
	"map-distance-service/internal/adapters/mock"
	"map-distance-service/internal/domain"
	"sync"
	"testing"
	"time"
)

// manualClock collects scheduled calls; the test fires them explicitly.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every live timer, in scheduling order, on the caller's goroutine.
func (c *manualClock) fire() int {
	c.mu.Lock()
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due)
}

func places(names ...string) []domain.Place {
	out := make([]domain.Place, 0, len(names))
	for i, n := range names {
		out = append(out, domain.Place{Name: n, Coordinates: domain.Coordinates{Lon: float64(i), Lat: float64(i)}})
	}
	return out
}

func newController(t *testing.T, geo *mock.Geocoder, onSelect func(domain.Place)) (*Controller, *manualClock) {
	t.Helper()
	clock := &manualClock{}
	c := New(domain.RoleStart, geo, onSelect, WithScheduler(clock.AfterFunc))
	t.Cleanup(c.Close)
	return c, clock
}

func TestEmptyQueryClearsWithoutLookup(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Paris": places("Paris, France")})
	c, clock := newController(t, geo, nil)

	c.Input("Paris")
	clock.fire()
	if len(c.Suggestions()) != 1 {
		t.Fatalf("expected one suggestion, got %+v", c.Suggestions())
	}

	c.Input("")
	if n := clock.fire(); n != 0 {
		t.Fatalf("empty query scheduled %d lookups", n)
	}
	if len(c.Suggestions()) != 0 {
		t.Fatalf("expected empty list, got %+v", c.Suggestions())
	}

	c.Input("   ")
	clock.fire()
	if got := geo.Calls(); len(got) != 1 {
		t.Fatalf("remote calls = %v, want just the first", got)
	}
}

func TestRapidInputCoalescesIntoOneLookup(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Pari": places("Paris, France", "Paris, Texas")})
	c, clock := newController(t, geo, nil)

	c.Input("P")
	c.Input("Pa")
	c.Input("Par")
	c.Input("Pari")

	if n := clock.fire(); n != 1 {
		t.Fatalf("fired %d lookups, want 1", n)
	}
	if got := geo.Calls(); len(got) != 1 || got[0] != "Pari" {
		t.Fatalf("remote calls = %v, want [Pari]", got)
	}
	if got := c.Suggestions(); len(got) != 2 || got[0].Name != "Paris, France" {
		t.Fatalf("suggestions = %+v", got)
	}
}

func TestSuggestionsLimitedToFive(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Spring": places("a", "b", "c", "d", "e", "f", "g")})
	c, clock := newController(t, geo, nil)

	c.Input("Spring")
	clock.fire()
	if got := c.Suggestions(); len(got) != DefaultLimit {
		t.Fatalf("got %d suggestions, want %d", len(got), DefaultLimit)
	}
}

func TestStaleResultIsDiscarded(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{
		"Lon":    places("London"),
		"Lisbon": places("Lisbon"),
	})
	entered := make(chan struct{})
	geo.Hook = func(ctx context.Context, q string) {
		if q == "Lon" {
			close(entered)
			<-ctx.Done()
		}
	}
	c, clock := newController(t, geo, nil)

	c.Input("Lon")
	done := make(chan struct{})
	go func() {
		clock.fire()
		close(done)
	}()

	<-entered
	// Superseding while "Lon" is in flight cancels it.
	c.Input("Lisbon")
	<-done
	clock.fire()

	got := c.Suggestions()
	if len(got) != 1 || got[0].Name != "Lisbon" {
		t.Fatalf("suggestions = %+v, want only Lisbon", got)
	}
}

func TestLookupErrorLeavesListEmpty(t *testing.T) {
	geo := mock.NewGeocoder(nil)
	geo.Fail("Paris", errors.New("503"))
	c, clock := newController(t, geo, nil)

	c.Input("Paris")
	clock.fire()
	if len(c.Suggestions()) != 0 {
		t.Fatalf("expected empty list after failure")
	}
	if len(geo.Calls()) != 1 {
		t.Fatalf("failed lookups must not be retried: %v", geo.Calls())
	}
}

func TestSelectClearsListAndNotifiesOnce(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Paris": places("Paris, France", "Paris, Texas")})
	var selected []domain.Place
	c, clock := newController(t, geo, func(p domain.Place) { selected = append(selected, p) })

	c.Input("Paris")
	clock.fire()

	p, err := c.Select(1)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p.Name != "Paris, Texas" || c.Value() != "Paris, Texas" {
		t.Fatalf("value = %q, selected %q", c.Value(), p.Name)
	}
	if len(c.Suggestions()) != 0 {
		t.Fatalf("list should be cleared after select")
	}
	if len(selected) != 1 || selected[0].Name != "Paris, Texas" {
		t.Fatalf("onSelect calls = %+v", selected)
	}

	if _, err := c.Select(0); !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("second select err = %v, want ErrNoSuggestion", err)
	}
	if len(selected) != 1 {
		t.Fatalf("onSelect called again: %+v", selected)
	}
}

func TestSelectOutOfRangeChangesNothing(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Paris": places("Paris, France")})
	called := false
	c, clock := newController(t, geo, func(domain.Place) { called = true })

	c.Input("Paris")
	clock.fire()

	for _, i := range []int{-1, 1, 7} {
		if _, err := c.Select(i); !errors.Is(err, ErrNoSuggestion) {
			t.Fatalf("Select(%d) err = %v", i, err)
		}
	}
	if called || c.Value() != "Paris" || len(c.Suggestions()) != 1 {
		t.Fatalf("state changed: called=%v value=%q list=%+v", called, c.Value(), c.Suggestions())
	}
}

func TestDismissKeepsValue(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Paris": places("Paris, France")})
	c, clock := newController(t, geo, nil)

	c.Input("Paris")
	clock.fire()
	c.Dismiss()

	if len(c.Suggestions()) != 0 || c.Value() != "Paris" {
		t.Fatalf("dismiss: value=%q list=%+v", c.Value(), c.Suggestions())
	}
}

func TestCloseStopsPendingLookup(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Paris": places("Paris, France")})
	c, clock := newController(t, geo, nil)

	c.Input("Paris")
	c.Close()
	clock.fire()

	if len(geo.Calls()) != 0 {
		t.Fatalf("closed controller issued lookups: %v", geo.Calls())
	}
}

func TestRealSchedulerDebounces(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{"Rome": places("Rome, Italy")})
	c := New(domain.RoleGeneral, geo, nil, WithDelay(10*time.Millisecond))
	defer c.Close()

	c.Input("R")
	c.Input("Ro")
	c.Input("Rome")

	deadline := time.Now().Add(2 * time.Second)
	for len(c.Suggestions()) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("lookup never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := geo.Calls(); len(got) != 1 || got[0] != "Rome" {
		t.Fatalf("remote calls = %v, want [Rome]", got)
	}
}

func TestListClearedWhileNextLookupInFlight(t *testing.T) {
	geo := mock.NewGeocoder(map[string][]domain.Place{
		"Paris": places("Paris, France"),
		"Lyon":  places("Lyon, France"),
	})
	entered := make(chan struct{})
	release := make(chan struct{})
	geo.Hook = func(ctx context.Context, q string) {
		if q == "Lyon" {
			close(entered)
			select {
			case <-release:
			case <-ctx.Done():
			}
		}
	}
	c, clock := newController(t, geo, nil)

	c.Input("Paris")
	clock.fire()
	if len(c.Suggestions()) != 1 {
		t.Fatalf("expected Paris suggestion, got %+v", c.Suggestions())
	}

	c.Input("Lyon")
	done := make(chan struct{})
	go func() {
		clock.fire()
		close(done)
	}()
	<-entered

	if got := c.Suggestions(); len(got) != 0 {
		t.Fatalf("previous list still shown while Lyon is in flight: %+v", got)
	}
	if _, err := c.Select(0); !errors.Is(err, ErrNoSuggestion) {
		t.Fatalf("old suggestion still selectable: err = %v", err)
	}

	close(release)
	<-done
	if got := c.Suggestions(); len(got) != 1 || got[0].Name != "Lyon, France" {
		t.Fatalf("suggestions = %+v, want Lyon", got)
	}
}

// slowGeocoder ignores cancellation: "Lon" answers only once released.
type slowGeocoder struct {
	entered chan struct{}
	release chan struct{}
	results map[string][]domain.Place
}

func (g *slowGeocoder) Search(_ context.Context, q string) ([]domain.Place, error) {
	if q == "Lon" {
		close(g.entered)
		<-g.release
	}
	return g.results[q], nil
}

func TestLateResultIgnoringCancelIsDiscarded(t *testing.T) {
	geo := &slowGeocoder{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		results: map[string][]domain.Place{
			"Lon":    places("London"),
			"Lisbon": places("Lisbon"),
		},
	}
	clock := &manualClock{}
	c := New(domain.RoleEnd, geo, nil, WithScheduler(clock.AfterFunc))
	defer c.Close()

	c.Input("Lon")
	done := make(chan struct{})
	go func() {
		clock.fire()
		close(done)
	}()
	<-geo.entered

	c.Input("Lisbon")
	clock.fire()
	if got := c.Suggestions(); len(got) != 1 || got[0].Name != "Lisbon" {
		t.Fatalf("suggestions = %+v, want Lisbon", got)
	}

	// London arrives after Lisbon and must not replace it.
	close(geo.release)
	<-done
	if got := c.Suggestions(); len(got) != 1 || got[0].Name != "Lisbon" {
		t.Fatalf("after late London: %+v, want Lisbon", got)
	}
}
