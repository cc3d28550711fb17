package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oritang/bookstore-auth/internal/service"
	"github.com/oritang/bookstore-auth/internal/token"
)

// AuthHandler maps the session lifecycle onto the HTTP surface. All
// failure detail stays in the logs; clients only see the coarse status
// codes of the auth contract.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type reissueReq struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResp struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	LastLoginAt  time.Time `json:"lastLoginAt"`
}

// Login verifies credentials and returns a fresh token pair. Every
// failure, including an unreadable body, collapses to 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return unauthenticated(c)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return unauthenticated(c)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, email, req.Password)
	if err != nil {
		log.Printf("auth: login failed for %s: %v", email, err)
		return unauthenticated(c)
	}
	// The access token travels both in the body and in the response
	// header so the gateway can forward it without parsing the body.
	c.Response().Header().Set("Authorization", pair.AccessToken)
	return c.JSON(http.StatusOK, loginResp{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		LastLoginAt:  time.Now().UTC(),
	})
}

// Reissue rotates a refresh token into a new access/refresh pair.
func (h *AuthHandler) Reissue(c echo.Context) error {
	var req reissueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, nil)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Auth.Reissue(ctx, req.RefreshToken)
	if err != nil {
		log.Printf("auth: reissue failed: %v", err)
		return c.JSON(http.StatusBadRequest, nil)
	}
	return c.JSON(http.StatusCreated, pair)
}

// Logout revokes the refresh token named in the Refresh-Token header
// and instructs the client to clear its copy. Missing or unknown
// tokens are 400; tokens that fail signature or expiry checks are 502,
// matching the gateway contract the storefront depends on.
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := c.Request().Header.Get("Refresh-Token")

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, refreshToken); err != nil {
		log.Printf("auth: logout failed: %v", err)
		switch {
		case errors.Is(err, token.ErrTokenEmpty),
			errors.Is(err, service.ErrTokenTypeMismatch),
			errors.Is(err, service.ErrTokenNotFound):
			return c.NoContent(http.StatusBadRequest)
		case errors.Is(err, token.ErrTokenMalformed),
			errors.Is(err, token.ErrTokenExpired),
			errors.Is(err, token.ErrTokenUnsupported):
			return c.NoContent(http.StatusBadGateway)
		default:
			return c.NoContent(http.StatusInternalServerError)
		}
	}

	c.SetCookie(&http.Cookie{
		Name:   "Refresh-Token",
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})
	return c.NoContent(http.StatusOK)
}

// Info derives identity from the Authorization header without any
// store lookup. A missing or unusable token yields a 200 with a null
// body rather than an error.
func (h *AuthHandler) Info(c echo.Context) error {
	info, err := h.Auth.UserInfo(c.Request().Header.Get("Authorization"))
	if err != nil {
		log.Printf("auth: info lookup failed: %v", err)
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, info)
}

// TokensForExternalUser issues a pair for an identity resolved through
// the external SSO id, the counterpart of the partner login flow.
func (h *AuthHandler) TokensForExternalUser(c echo.Context) error {
	externalID := strings.TrimSpace(c.QueryParam("externalId"))
	if externalID == "" {
		return c.JSON(http.StatusBadRequest, nil)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	pair, err := h.Auth.LoginExternal(ctx, externalID)
	if err != nil {
		log.Printf("auth: external issuance failed: %v", err)
		return c.JSON(http.StatusBadRequest, nil)
	}
	return c.JSON(http.StatusCreated, pair)
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid credentials"})
}

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
