package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type MapboxConfig struct {
	BaseURL     string
	AccessToken string
	// Country and PlaceTypes scope the autocomplete the same way the
	// mobile client did (US cities only).
	Country    string
	PlaceTypes string
	Limit      int
}

type TicketmasterConfig struct {
	BaseURL string
	APIKey  string
	// PageSize caps results per call; the workflow never paginates past
	// the first page.
	PageSize int
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type Config struct {
	Repositories RepositoriesConfig
	Mapbox       MapboxConfig
	Ticketmaster TicketmasterConfig
	ServerPort   string
	// UpstreamTimeout bounds every place/event API call. The original
	// client relied on transport defaults; here it is explicit.
	UpstreamTimeout time.Duration
	SuggestDebounce time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "concertfindr"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Mapbox: MapboxConfig{
			BaseURL:     getEnvOrDefault("MAPBOX_BASE_URL", "https://api.mapbox.com/search/searchbox/v1"),
			AccessToken: getEnvOrDefault("MAPBOX_ACCESS_TOKEN", ""),
			Country:     getEnvOrDefault("MAPBOX_COUNTRY", "US"),
			PlaceTypes:  getEnvOrDefault("MAPBOX_PLACE_TYPES", "city"),
			Limit:       getEnvIntOrDefault("MAPBOX_SUGGEST_LIMIT", 10),
		},
		Ticketmaster: TicketmasterConfig{
			BaseURL:  getEnvOrDefault("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2"),
			APIKey:   getEnvOrDefault("TICKETMASTER_API_KEY", ""),
			PageSize: getEnvIntOrDefault("TICKETMASTER_PAGE_SIZE", 200),
		},
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8091"),
		UpstreamTimeout: getEnvDurationOrDefault("UPSTREAM_TIMEOUT", 10*time.Second),
		SuggestDebounce: getEnvDurationOrDefault("SUGGEST_DEBOUNCE", 300*time.Millisecond),
	}

	if cfg.Repositories.Postgres.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}
	if cfg.Mapbox.AccessToken == "" {
		return nil, fmt.Errorf("MAPBOX_ACCESS_TOKEN environment variable is required")
	}
	if cfg.Ticketmaster.APIKey == "" {
		return nil, fmt.Errorf("TICKETMASTER_API_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
