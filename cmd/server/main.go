package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"map-distance-service/internal/adapters/cache"
	"map-distance-service/internal/adapters/mapbox"
	"map-distance-service/internal/adapters/natsevents"
	"map-distance-service/internal/adapters/notify"
	"map-distance-service/internal/adapters/ors"
	"map-distance-service/internal/adapters/repositories"
	"map-distance-service/internal/api"
	"map-distance-service/internal/autocomplete"
	"map-distance-service/internal/config"
	"map-distance-service/internal/domain"
	"map-distance-service/internal/mapview"
	"map-distance-service/internal/platform/db"
	"map-distance-service/internal/platform/logging"
	"map-distance-service/internal/ports"
	"map-distance-service/internal/services/lookup"
	"map-distance-service/internal/session"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (provider, caches, NATS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocoder, router, err := newProvider(cfg)
	if err != nil {
		return err
	}

	searchCache, routeCache, closeCache, err := newCaches(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	// Caches sit in front of the provider so repeated lookups stay local.
	geocoder = lookup.NewCachingGeocoder(geocoder, searchCache)
	router = lookup.NewCachingRouter(router, routeCache)

	var events ports.EventPublisher = natsevents.Noop{}
	if cfg.NATS.URL != "" {
		pub, err := natsevents.NewPublisher(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer pub.Close()
		events = pub
	}

	center := domain.Coordinates{Lon: cfg.Map.CenterLon, Lat: cfg.Map.CenterLat}

	store := session.NewStore(func(id string) *session.Session {
		return session.New(id, session.Deps{
			View:     mapview.New(center, cfg.Map.Zoom),
			Geocoder: geocoder,
			Router:   router,
			Notifier: &notify.Queue{},
			Events:   events,
		},
			session.WithFlyZoom(cfg.Search.Zoom),
			session.WithSearchOptions(
				autocomplete.WithDelay(cfg.Search.Debounce),
				autocomplete.WithLimit(cfg.Search.Limit),
			),
		)
	})
	go store.RunSweeper(ctx, time.Minute, cfg.Session.IdleTimeout)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           api.NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "provider", cfg.Provider.Name, "cache", cfg.Cache.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newProvider builds the configured search/routing client, throttled by one
// limiter shared across both endpoints.
func newProvider(cfg *config.Config) (ports.Geocoder, ports.Router, error) {
	limiter := rate.NewLimiter(rate.Limit(cfg.Provider.RatePerSecond), cfg.Provider.Burst)

	switch cfg.Provider.Name {
	case config.ProviderORS:
		c, err := ors.NewClient(cfg.Provider.ORS.APIKey,
			ors.WithBaseURL(cfg.Provider.ORS.BaseURL),
			ors.WithLimit(cfg.Search.Limit),
			ors.WithLimiter(limiter),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		c, err := mapbox.NewClient(cfg.Provider.Mapbox.Token,
			mapbox.WithBaseURL(cfg.Provider.Mapbox.BaseURL),
			mapbox.WithLimit(cfg.Search.Limit),
			mapbox.WithLimiter(limiter),
		)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	}
}

// newCaches opens the configured cache backend. With "none" both caches
// are nil and the lookup decorators pass straight through.
func newCaches(ctx context.Context, cfg *config.Config) (ports.SearchCache, ports.RouteCache, func(), error) {
	switch cfg.Cache.Driver {
	case config.CachePostgres:
		conn, err := db.Open(cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, nil, fmt.Errorf("init cache schema: %w", err)
		}
		return cache.NewSQLSearchCache(conn, cfg.Cache.TTL),
			cache.NewSQLRouteCache(conn, cfg.Cache.TTL),
			func() { closeDB(conn) },
			nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		return cache.NewRedisSearchCache(client, cfg.Cache.TTL),
			cache.NewRedisRouteCache(client, cfg.Cache.TTL),
			func() { _ = client.Close() },
			nil
	}

	return nil, nil, func() {}, nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		slog.Warn("close database", "err", err)
	}
}
