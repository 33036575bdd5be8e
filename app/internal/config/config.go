package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port string

	ShopAPIURL         string
	ShopAPITimeout     time.Duration
	ShopAPITokenSecret string
	// ShopAPILocation is the zone of the zone-less timestamps the shop API writes.
	ShopAPILocation *time.Location

	CartBackend  string
	SQLitePath   string
	MySQLDSN     string
	PostgresDSN  string
	RedisAddr    string
	CartSessions int

	SessionCookie string
	CookieSecure  bool

	LogLevel     string
	OTLPEndpoint string
}

// LoadDotEnv loads .env files into the environment when they exist.
// Variables already set win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	timeout, err := durationOr("SHOP_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	sessions, err := intOr("CART_SESSIONS", 10000)
	if err != nil {
		return Config{}, err
	}
	secure, err := boolOr("COOKIE_SECURE", false)
	if err != nil {
		return Config{}, err
	}
	loc, err := locationOr("SHOP_API_TIMEZONE", time.Local)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("APP_PORT", "8080"),

		ShopAPIURL:         os.Getenv("SHOP_API_URL"),
		ShopAPITimeout:     timeout,
		ShopAPITokenSecret: os.Getenv("SHOP_API_TOKEN_SECRET"),
		ShopAPILocation:    loc,

		CartBackend:  getenv("CART_BACKEND", BackendSQLite),
		SQLitePath:   getenv("SQLITE_PATH", "cart.db"),
		MySQLDSN:     os.Getenv("MYSQL_DSN"),
		PostgresDSN:  os.Getenv("PG_DSN"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		CartSessions: sessions,

		SessionCookie: getenv("SESSION_COOKIE", "sid"),
		CookieSecure:  secure,

		LogLevel:     getenv("LOG_LEVEL", "info"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// required
	if cfg.ShopAPIURL == "" {
		return Config{}, fmt.Errorf("SHOP_API_URL is required")
	}
	if cfg.CartSessions <= 0 {
		return Config{}, fmt.Errorf("CART_SESSIONS must be positive")
	}

	switch cfg.CartBackend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return Config{}, fmt.Errorf("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendMySQL:
		if cfg.MySQLDSN == "" {
			return Config{}, fmt.Errorf("MYSQL_DSN is required for the mysql backend")
		}
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("PG_DSN is required for the postgres backend")
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return Config{}, fmt.Errorf("CART_BACKEND %q is not one of memory, sqlite, mysql, postgres, redis", cfg.CartBackend)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func locationOr(key string, def *time.Location) (*time.Location, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an IANA zone name: %w", key, err)
	}
	return loc, nil
}
