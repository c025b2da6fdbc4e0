package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the vet lookup service.
//
// Values come from, in order of precedence: VETSCOUT_* environment variables
// (a .env file is loaded first), the YAML file named by VETSCOUT_CONFIG_FILE, and defaults.
type Config struct {
	Env      string         // Env is the current environment: local, development, production.
	Port     int            // Port is the HTTP server port.
	Proxies  []string       // Proxies are the reverse proxies whose forwarded client address is trusted.
	Search   SearchConfig   // Search configures the remote vet search client.
	Locator  LocatorConfig  // Locator selects the platform geolocation source.
	Fallback FallbackConfig // Fallback selects the dataset used when the remote search fails.
	Session  SessionConfig  // Session selects where the credential pair is persisted.
	Database PostgresConfig // Database holds the postgres configuration (postgres fallback).
}

// SearchConfig configures the remote vet search API.
type SearchConfig struct {
	BaseURL   string        // BaseURL is the API base; empty means same-origin.
	Timeout   time.Duration // Timeout bounds each search request, zero disables it.
	RateLimit int           // RateLimit is the maximum requests per second, zero disables it.
}

type LocatorConfig struct {
	Type      string
	APIKey    string
	Latitude  float64
	Longitude float64
	Cache     bool
}

type FallbackConfig struct {
	Source        string
	WorkbookPath  string
	WorkbookSheet string
	ESAddresses   []string
	ESIndex       string
	PlacesAPIKey  string
	OverpassURL   string
}

type SessionConfig struct {
	Backend     string // Backend is memory or redis.
	RedisAddr   string
	RedisPrefix string
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Name     string // Name is the name of the database.
}

// MustLoad loads the configuration and panics when a value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := strconv.Atoi(v.GetString("port"))
	if err != nil {
		panic("failed to parse port for http server from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("search.timeout"))
	if err != nil {
		panic("failed to parse search timeout from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("search.rate_limit"))
	if err != nil {
		panic("failed to parse search rate limit from configuration, must be an integer type")
	}

	latitude, err := strconv.ParseFloat(v.GetString("locator.latitude"), 64)
	if err != nil {
		panic("failed to parse locator latitude from configuration")
	}

	longitude, err := strconv.ParseFloat(v.GetString("locator.longitude"), 64)
	if err != nil {
		panic("failed to parse locator longitude from configuration")
	}

	cache, err := strconv.ParseBool(v.GetString("locator.cache"))
	if err != nil {
		panic("failed to parse locator cache flag from configuration")
	}

	return &Config{
		Env:     v.GetString("env"),
		Port:    port,
		Proxies: splitList(v.GetString("trusted_proxies")),
		Search: SearchConfig{
			BaseURL:   v.GetString("api.base_url"),
			Timeout:   timeout,
			RateLimit: rateLimit,
		},
		Locator: LocatorConfig{
			Type:      v.GetString("locator.type"),
			APIKey:    v.GetString("locator.api_key"),
			Latitude:  latitude,
			Longitude: longitude,
			Cache:     cache,
		},
		Fallback: FallbackConfig{
			Source:        v.GetString("fallback.source"),
			WorkbookPath:  v.GetString("fallback.workbook_path"),
			WorkbookSheet: v.GetString("fallback.workbook_sheet"),
			ESAddresses:   splitList(v.GetString("fallback.es_addresses")),
			ESIndex:       v.GetString("fallback.es_index"),
			PlacesAPIKey:  v.GetString("fallback.places_api_key"),
			OverpassURL:   v.GetString("fallback.overpass_url"),
		},
		Session: SessionConfig{
			Backend:     v.GetString("session.backend"),
			RedisAddr:   v.GetString("session.redis_addr"),
			RedisPrefix: v.GetString("session.redis_prefix"),
		},
		Database: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetString("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Name:     v.GetString("postgres.db_name"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("VETSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", "8080")
	v.SetDefault("trusted_proxies", "")
	v.SetDefault("api.base_url", "")
	v.SetDefault("search.timeout", "0")
	v.SetDefault("search.rate_limit", "0")
	v.SetDefault("locator.type", "none")
	v.SetDefault("locator.api_key", "")
	v.SetDefault("locator.latitude", "0")
	v.SetDefault("locator.longitude", "0")
	v.SetDefault("locator.cache", "true")
	v.SetDefault("fallback.source", "builtin")
	v.SetDefault("fallback.workbook_path", "")
	v.SetDefault("fallback.workbook_sheet", "Sheet1")
	v.SetDefault("fallback.es_addresses", "")
	v.SetDefault("fallback.es_index", "vets")
	v.SetDefault("fallback.places_api_key", "")
	v.SetDefault("fallback.overpass_url", "")
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_prefix", "vetscout:")
	v.SetDefault("postgres.port", "5432")

	// The database keeps the unprefixed names shared with the other services.
	_ = v.BindEnv("postgres.host", "DB_HOST")
	_ = v.BindEnv("postgres.port", "DB_PORT")
	_ = v.BindEnv("postgres.user", "DB_USERNAME")
	_ = v.BindEnv("postgres.password", "DB_PASSWORD")
	_ = v.BindEnv("postgres.db_name", "DB_NAME")

	return v
}

func splitList(value string) []string {
	var items []string
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
