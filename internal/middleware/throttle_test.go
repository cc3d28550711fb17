package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oritang/bookstore-auth/internal/config"
)

func throttledServer(t *testing.T, cfg config.ThrottleConfig) *echo.Echo {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := echo.New()
	e.POST("/auth/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, LoginThrottle(cfg, rdb))
	return e
}

func postLogin(e *echo.Echo) int {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestLoginThrottle_BlocksAfterBurst(t *testing.T) {
	e := throttledServer(t, config.ThrottleConfig{
		Enabled:        true,
		Capacity:       3,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		Prefix:         "throttle",
	})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, postLogin(e), "request %d should pass", i+1)
	}

	require.Equal(t, http.StatusTooManyRequests, postLogin(e))
}

func TestLoginThrottle_DisabledPassesThrough(t *testing.T) {
	e := throttledServer(t, config.ThrottleConfig{Enabled: false})

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, postLogin(e))
	}
}
