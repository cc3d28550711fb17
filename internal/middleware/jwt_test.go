package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/oritang/bookstore-auth/internal/token"
)

func protectedServer(codec *token.Codec) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(RequireAccessToken(codec))
	g.GET("/whoami", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"roles":   c.Get("roles"),
		})
	})
	return e
}

func get(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAccessToken(t *testing.T) {
	codec := token.NewCodec("mw-secret")
	e := protectedServer(codec)

	access, err := codec.Generate(token.KindAccess, 5, []string{"ROLE_USER"}, time.Minute)
	require.NoError(t, err)

	rec := get(e, access)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user_id":5`)
}

func TestRequireAccessToken_Rejections(t *testing.T) {
	codec := token.NewCodec("mw-secret")
	e := protectedServer(codec)

	// No header at all.
	require.Equal(t, http.StatusUnauthorized, get(e, "").Code)

	// Garbage token.
	require.Equal(t, http.StatusUnauthorized, get(e, "Bearer junk").Code)

	// Expired token.
	expired, err := codec.Generate(token.KindAccess, 5, []string{"ROLE_USER"}, -time.Second)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(e, expired).Code)

	// Refresh tokens are not accepted on protected routes even when
	// manually prefixed.
	refresh, err := codec.Generate(token.KindRefresh, 5, []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(e, "Bearer "+refresh).Code)

	// Token signed with a different key.
	other, err := token.NewCodec("other-secret").Generate(token.KindAccess, 5, []string{"ROLE_USER"}, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, get(e, other).Code)
}
