package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Search   SearchConfig   `mapstructure:"search"`
	Map      MapConfig      `mapstructure:"map"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ProviderConfig struct {
	Name          string       `mapstructure:"name"`
	RatePerSecond float64      `mapstructure:"rate_per_second"`
	Burst         int          `mapstructure:"burst"`
	Mapbox        MapboxConfig `mapstructure:"mapbox"`
	ORS           ORSConfig    `mapstructure:"ors"`
}

type MapboxConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

type ORSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Limit    int           `mapstructure:"limit"`
	Zoom     float64       `mapstructure:"zoom"`
}

type MapConfig struct {
	CenterLon float64 `mapstructure:"center_lon"`
	CenterLat float64 `mapstructure:"center_lat"`
	Zoom      float64 `mapstructure:"zoom"`
}

type CacheConfig struct {
	Driver string        `mapstructure:"driver"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	ProviderMapbox = "mapbox"
	ProviderORS    = "ors"

	CacheNone     = "none"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

// Load reads configuration from .env, an optional config file, and
// environment variables (MAPSEARCH_SEARCH_DEBOUNCE -> search.debounce).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MAPSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names used by the providers' own docs.
	_ = v.BindEnv("provider.mapbox.token", "MAPSEARCH_PROVIDER_MAPBOX_TOKEN", "MAPBOX_ACCESS_TOKEN")
	_ = v.BindEnv("provider.ors.api_key", "MAPSEARCH_PROVIDER_ORS_API_KEY", "ORS_API_KEY")
	_ = v.BindEnv("database.url", "MAPSEARCH_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("server.port", "MAPSEARCH_SERVER_PORT", "PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("provider.name", ProviderMapbox)
	v.SetDefault("provider.rate_per_second", 10)
	v.SetDefault("provider.burst", 5)
	v.SetDefault("provider.mapbox.token", "")
	v.SetDefault("provider.mapbox.base_url", "https://api.mapbox.com")
	v.SetDefault("provider.ors.api_key", "")
	v.SetDefault("provider.ors.base_url", "https://api.openrouteservice.org")
	v.SetDefault("search.debounce", "300ms")
	v.SetDefault("search.limit", 5)
	v.SetDefault("search.zoom", 12)
	v.SetDefault("map.center_lon", 0)
	v.SetDefault("map.center_lat", 20)
	v.SetDefault("map.zoom", 2)
	v.SetDefault("cache.driver", CacheNone)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("nats.url", "")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.Provider.Name {
	case ProviderMapbox:
		if strings.TrimSpace(c.Provider.Mapbox.Token) == "" {
			errs = append(errs, "provider.mapbox.token (MAPBOX_ACCESS_TOKEN) is required")
		}
	case ProviderORS:
		if strings.TrimSpace(c.Provider.ORS.APIKey) == "" {
			errs = append(errs, "provider.ors.api_key (ORS_API_KEY) is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("provider.name must be %q or %q, got %q", ProviderMapbox, ProviderORS, c.Provider.Name))
	}
	if c.Provider.RatePerSecond <= 0 {
		errs = append(errs, "provider.rate_per_second must be positive")
	}
	if c.Provider.Burst <= 0 {
		errs = append(errs, "provider.burst must be positive")
	}

	if c.Search.Debounce < 0 {
		errs = append(errs, "search.debounce must not be negative")
	}
	if c.Search.Limit < 1 || c.Search.Limit > 10 {
		errs = append(errs, fmt.Sprintf("search.limit must be 1-10, got %d", c.Search.Limit))
	}

	switch c.Cache.Driver {
	case CacheNone:
	case CachePostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, "database.url (DATABASE_URL) is required for the postgres cache")
		}
	case CacheRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			errs = append(errs, "redis.addr is required for the redis cache")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache.driver must be none, postgres or redis, got %q", c.Cache.Driver))
	}

	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, "session.idle_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
