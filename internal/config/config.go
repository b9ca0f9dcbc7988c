package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Catalog CatalogConfig
	TMDB    TMDBConfig
	Graph   GraphConfig
	Search  SearchConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int `validate:"gte=1,lte=65535"`
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// Catalog source kinds.
const (
	SourceTMDB    = "tmdb"
	SourceGraph   = "graph"
	SourceDataset = "dataset"
)

// CatalogConfig selects where movie, cast and credit lookups are served from.
type CatalogConfig struct {
	Source      string `validate:"oneof=tmdb graph dataset"`
	DatasetPath string `validate:"required_if=Source dataset"`
}

// TMDBConfig describes the remote movie catalog.
type TMDBConfig struct {
	APIKey            string
	BaseURL           string        `validate:"required,url"`
	RequestsPerSecond float64       `validate:"gt=0"`
	Burst             int           `validate:"gte=1"`
	Timeout           time.Duration `validate:"gt=0"`
	MaxRetries        int           `validate:"gte=0,lte=10"`
}

// GraphConfig describes connectivity to the graph database holding a local catalog.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// SearchConfig tunes the path search.
type SearchConfig struct {
	Timeout   time.Duration `validate:"gt=0"`
	FanOut    int           `validate:"gte=1,lte=64"`
	MaxSteps  int           `validate:"gte=0"`
	CacheCast bool
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

var (
	// ErrMissingAPIKey indicates the TMDB source was selected without credentials.
	ErrMissingAPIKey = errors.New("TMDB_API_KEY is required when CATALOG_SOURCE is tmdb")
	// ErrMissingGraphURI indicates the graph source was selected without a Bolt URI.
	ErrMissingGraphURI = errors.New("GRAPH_URI is required when CATALOG_SOURCE is graph")
)

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 3 * time.Minute
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	defaultTMDBRate         = 40.0
	defaultTMDBBurst        = 20
	defaultTMDBTimeout      = 10 * time.Second
	defaultTMDBMaxRetries   = 3
	defaultSearchTimeout    = 2 * time.Minute
	defaultSearchFanOut     = 1
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables, applying defaults,
// and validates the result.
func Load() (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv reads configuration from environment variables without validating
// it, for callers that apply their own overrides first.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Catalog: CatalogConfig{
			Source:      valueOrDefault("CATALOG_SOURCE", SourceTMDB),
			DatasetPath: os.Getenv("CATALOG_DATASET"),
		},
		TMDB: TMDBConfig{
			APIKey:            os.Getenv("TMDB_API_KEY"),
			BaseURL:           valueOrDefault("TMDB_BASE_URL", defaultTMDBBaseURL),
			RequestsPerSecond: parseFloatWithDefault("TMDB_REQUESTS_PER_SECOND", defaultTMDBRate),
			Burst:             parseIntWithDefault("TMDB_BURST", defaultTMDBBurst),
			Timeout:           defaultTMDBTimeout,
			MaxRetries:        parseIntWithDefault("TMDB_MAX_RETRIES", defaultTMDBMaxRetries),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", false),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Search: SearchConfig{
			Timeout:   defaultSearchTimeout,
			FanOut:    parseIntWithDefault("SEARCH_FAN_OUT", defaultSearchFanOut),
			MaxSteps:  parseIntWithDefault("SEARCH_MAX_STEPS", 0),
			CacheCast: parseBoolWithDefault("SEARCH_CACHE_CAST", false),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"TMDB_TIMEOUT", &cfg.TMDB.Timeout},
		{"SEARCH_TIMEOUT", &cfg.Search.Timeout},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.dst); err != nil {
			return Config{}, err
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", false)
	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Catalog.Source == SourceTMDB && c.TMDB.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Catalog.Source == SourceGraph && c.Graph.URI == "" {
		return ErrMissingGraphURI
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
