package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.test")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider.Name != ProviderMapbox {
		t.Fatalf("provider = %q, want mapbox", cfg.Provider.Name)
	}
	if cfg.Provider.Mapbox.Token != "pk.test" {
		t.Fatalf("mapbox token not bound from MAPBOX_ACCESS_TOKEN")
	}
	if cfg.Search.Debounce != 300*time.Millisecond {
		t.Fatalf("debounce = %v, want 300ms", cfg.Search.Debounce)
	}
	if cfg.Search.Limit != 5 || cfg.Search.Zoom != 12 {
		t.Fatalf("search = %+v", cfg.Search)
	}
	if cfg.Map.CenterLon != 0 || cfg.Map.CenterLat != 20 || cfg.Map.Zoom != 2 {
		t.Fatalf("map = %+v", cfg.Map)
	}
	if cfg.Cache.Driver != CacheNone {
		t.Fatalf("cache driver = %q", cfg.Cache.Driver)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAPSEARCH_PROVIDER_NAME", "ors")
	t.Setenv("ORS_API_KEY", "ors-key")
	t.Setenv("MAPSEARCH_SEARCH_DEBOUNCE", "150ms")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.Name != ProviderORS || cfg.Provider.ORS.APIKey != "ors-key" {
		t.Fatalf("provider = %+v", cfg.Provider)
	}
	if cfg.Search.Debounce != 150*time.Millisecond {
		t.Fatalf("debounce = %v, want 150ms", cfg.Search.Debounce)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Config{
		Server:   ServerConfig{Port: 0, ReadTimeout: time.Second, WriteTimeout: time.Second},
		Provider: ProviderConfig{Name: ProviderMapbox, RatePerSecond: 1, Burst: 1},
		Search:   SearchConfig{Limit: 5},
		Cache:    CacheConfig{Driver: CachePostgres},
		Session:  SessionConfig{IdleTimeout: time.Minute},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"server.port", "mapbox.token", "database.url"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}
