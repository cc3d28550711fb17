package config

import (
	"os"
	"strconv"
	"time"
)

// ThrottleConfig tunes the Redis token bucket guarding /auth/login.
// Capacity is the burst size; RefillTokens are added every
// RefillInterval. TTL bounds how long idle buckets linger in Redis.
type ThrottleConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadThrottleConfig reads the login throttle settings, applying
// defaults that allow a small login burst per client IP.
func LoadThrottleConfig() ThrottleConfig {
	cfg := ThrottleConfig{
		Enabled:        envBool("LOGIN_THROTTLE_ENABLED", true),
		Capacity:       envInt("LOGIN_THROTTLE_CAPACITY", 10),
		RefillTokens:   envInt("LOGIN_THROTTLE_REFILL_TOKENS", 1),
		RefillInterval: envDur("LOGIN_THROTTLE_REFILL_INTERVAL", 3*time.Second),
		TTL:            envDur("LOGIN_THROTTLE_TTL", 10*time.Minute),
		Prefix:         getenv("LOGIN_THROTTLE_PREFIX", "throttle"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
