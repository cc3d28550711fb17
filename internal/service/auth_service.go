// Package service implements the session lifecycle: login, token
// reissue, logout and stateless identity lookup. The server itself is
// stateless; the only session state is the refresh token record in the
// store, mirrored by the tokens the client holds.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oritang/bookstore-auth/internal/model"
	"github.com/oritang/bookstore-auth/internal/queue"
	"github.com/oritang/bookstore-auth/internal/repository"
	"github.com/oritang/bookstore-auth/internal/token"
)

// EventPublisher is the fire-and-forget sink for session events. A nil
// publisher disables events entirely.
type EventPublisher func(ctx context.Context, event queue.SessionEvent) error

// AuthService orchestrates the token codec, credential verifier and
// refresh token store.
type AuthService struct {
	codec      *token.Codec
	verifier   *Verifier
	tokens     *repository.RefreshTokenStore
	publish    EventPublisher
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	codec *token.Codec,
	verifier *Verifier,
	tokens *repository.RefreshTokenStore,
	publish EventPublisher,
	accessTTL, refreshTTL time.Duration,
) *AuthService {
	return &AuthService{
		codec:      codec,
		verifier:   verifier,
		tokens:     tokens,
		publish:    publish,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// issuePair generates a fresh access/refresh pair and saves the refresh
// token, replacing any prior record for the subject. Generation is pure
// and happens before the store write, so a failed request never leaves
// a partial mutation behind.
func (s *AuthService) issuePair(ctx context.Context, userID int64, roles []string) (*model.TokenPair, error) {
	access, err := s.codec.Generate(token.KindAccess, userID, roles, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.codec.Generate(token.KindRefresh, userID, roles, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokens.Save(ctx, userID, refresh, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) emit(ctx context.Context, action string, userID int64, roles []string) {
	if s.publish == nil {
		return
	}
	// Publisher logs its own failures; a broker outage must not fail
	// the session transition that already happened.
	_ = s.publish(ctx, queue.NewSessionEvent(action, userID, roles))
}

// Login verifies the credentials and issues a token pair. The previous
// refresh token for the subject, if any, is superseded in the store.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	p, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, p.ID, p.Roles)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, queue.ActionLogin, p.ID, p.Roles)
	return pair, nil
}

// LoginExternal issues a token pair for an identity resolved by its
// external SSO id.
func (s *AuthService) LoginExternal(ctx context.Context, externalID string) (*model.TokenPair, error) {
	p, err := s.verifier.VerifyExternal(ctx, externalID)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, p.ID, p.Roles)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, queue.ActionLogin, p.ID, p.Roles)
	return pair, nil
}

// checkRefreshToken runs the shared validation chain for reissue and
// logout: shape, signature, expiry, token type, then the store record.
// The store holds exactly one live refresh token per subject, and only
// that exact value passes; a rotated-out token fails with
// ErrTokenNotFound even though its signature is still valid.
func (s *AuthService) checkRefreshToken(ctx context.Context, refreshToken string) (int64, []string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return 0, nil, token.ErrTokenEmpty
	}
	if err := s.codec.Validate(refreshToken); err != nil {
		return 0, nil, err
	}
	kind, err := s.codec.TokenKind(refreshToken)
	if err != nil {
		return 0, nil, err
	}
	if kind != token.KindRefresh {
		return 0, nil, ErrTokenTypeMismatch
	}
	userID, err := s.codec.UserID(refreshToken)
	if err != nil {
		return 0, nil, err
	}
	current, err := s.tokens.Current(ctx, userID)
	if err != nil {
		return 0, nil, fmt.Errorf("read refresh token record: %w", err)
	}
	if current == "" || current != refreshToken {
		return 0, nil, ErrTokenNotFound
	}
	roles, err := s.codec.Roles(refreshToken)
	if err != nil {
		return 0, nil, err
	}
	return userID, roles, nil
}

// Reissue rotates a refresh token: the presented token must match the
// stored record, and the new pair overwrites it. The old refresh token
// stays cryptographically valid until its expiry but will no longer
// match the store.
func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	userID, roles, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	pair, err := s.issuePair(ctx, userID, roles)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, queue.ActionReissue, userID, roles)
	return pair, nil
}

// Logout validates the refresh token against the store and deletes the
// record, terminating the session server-side. The caller is expected
// to drop its client-held tokens.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	userID, roles, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete refresh token record: %w", err)
	}
	s.emit(ctx, queue.ActionLogout, userID, roles)
	return nil
}

// UserInfo derives the identity from an access token without touching
// the store; access tokens are self-validating and cannot be revoked
// here before expiry. A missing header or missing Bearer marker yields
// (nil, nil), matching the lenient contract of /auth/info.
func (s *AuthService) UserInfo(accessToken string) (*model.UserInfo, error) {
	if !strings.HasPrefix(accessToken, "Bearer ") {
		return nil, nil
	}
	id, err := s.codec.UserID(accessToken)
	if err != nil {
		return nil, err
	}
	roles, err := s.codec.Roles(accessToken)
	if err != nil {
		return nil, err
	}
	return &model.UserInfo{ID: id, Roles: roles}, nil
}
