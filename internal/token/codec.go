// Package token creates and parses the signed, self-contained tokens
// that carry identity claims between services. Tokens are compact HS256
// JWTs; access tokens additionally carry the "Bearer " transport prefix
// so they can be placed into an Authorization header as-is.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates access tokens from refresh tokens via the
// token-type claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const bearerPrefix = "Bearer "

// Claims is the canonical claim schema. Timestamps ride in the embedded
// registered claims (iat, exp).
type Claims struct {
	TokenType string   `json:"token-type"`
	UserID    int64    `json:"userId"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single process-wide symmetric
// key. The key is fixed at construction and never rotated; build a new
// Codec to change it.
type Codec struct {
	key []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{key: []byte(secret)}
}

// Generate builds and signs a token of the given kind. Access tokens
// come back with the "Bearer " prefix already applied; refresh tokens
// are the bare compact form.
func (c *Codec) Generate(kind Kind, userID int64, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: string(kind),
		UserID:    userID,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", err
	}
	if kind == KindAccess {
		return bearerPrefix + signed, nil
	}
	return signed, nil
}

// parse strips the transport prefix if present, verifies the signature
// and decodes the claims. Parsing is idempotent and side-effect free.
func (c *Codec) parse(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	if raw == "" {
		return nil, ErrTokenEmpty
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenUnsupported
		}
		return c.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// classify folds the jwt library's error tree into this package's four
// kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupported):
		return ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}

// Validate returns nil for a well-formed, correctly signed, unexpired
// token and one of the package error kinds otherwise.
func (c *Codec) Validate(raw string) error {
	_, err := c.parse(raw)
	return err
}

// UserID returns the subject id claim.
func (c *Codec) UserID(raw string) (int64, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// Roles returns the role list claim.
func (c *Codec) Roles(raw string) ([]string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return nil, err
	}
	return claims.Roles, nil
}

// TokenKind returns the token-type claim.
func (c *Codec) TokenKind(raw string) (Kind, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	return Kind(claims.TokenType), nil
}
