// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Directory backend selectors.
const (
	DirectoryHTTP  = "http"
	DirectoryMySQL = "mysql"
)

// Config holds all runtime settings. Token lifetimes are configured in
// milliseconds, matching the values the account platform ships in its
// deployment profiles, and converted to durations at load time.
type Config struct {
	Env  string // application environment (dev, test, prod)
	Port string // HTTP port to listen on

	JWTSecret       string        // process-wide HS256 signing key
	AccessTokenTTL  time.Duration // access token validity window
	RefreshTokenTTL time.Duration // refresh token validity window

	DirectoryBackend string // "http" or "mysql"
	DirectoryURL     string // base URL of the user directory service (http backend)

	DBUser string // mysql backend settings
	DBPass string
	DBHost string
	DBPort string
	DBName string
}

// Load reads the configuration from the environment. Missing required
// variables abort startup with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		JWTSecret:        must("JWT_SECRET"),
		AccessTokenTTL:   time.Duration(mustInt64("ACCESS_TOKEN_EXPIRES_IN_MS")) * time.Millisecond,
		RefreshTokenTTL:  time.Duration(mustInt64("REFRESH_TOKEN_EXPIRES_IN_MS")) * time.Millisecond,
		DirectoryBackend: getenv("USER_DIRECTORY_BACKEND", DirectoryHTTP),
	}

	switch cfg.DirectoryBackend {
	case DirectoryHTTP:
		cfg.DirectoryURL = must("USER_DIRECTORY_URL")
	case DirectoryMySQL:
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	default:
		log.Fatalf("unknown USER_DIRECTORY_BACKEND: %q", cfg.DirectoryBackend)
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		log.Fatalf("token TTLs must be positive")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt64 is like must() but parses the value as an integer.
func mustInt64(key string) int64 {
	s := must(key)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
