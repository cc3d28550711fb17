package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oritang/bookstore-auth/internal/directory"
	"github.com/oritang/bookstore-auth/internal/repository"
	"github.com/oritang/bookstore-auth/internal/token"
)

type fakeDirectory struct {
	byEmail    map[string]*directory.Account
	byExternal map[string]*directory.Account
}

func (f *fakeDirectory) AccountByEmail(_ context.Context, email string) (*directory.Account, error) {
	if acc, ok := f.byEmail[email]; ok {
		return acc, nil
	}
	return nil, directory.ErrNotFound
}

func (f *fakeDirectory) AccountByExternalID(_ context.Context, id string) (*directory.Account, error) {
	if acc, ok := f.byExternal[id]; ok {
		return acc, nil
	}
	return nil, directory.ErrNotFound
}

func hash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(t *testing.T) (*AuthService, *token.Codec, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	dir := &fakeDirectory{
		byEmail: map[string]*directory.Account{
			"a@test.com": {ID: 1, PasswordHash: hash(t, "pw"), Roles: []string{"ROLE_USER"}, Status: "ACTIVE"},
			"w@test.com": {ID: 2, PasswordHash: hash(t, "pw"), Roles: []string{"ROLE_USER"}, Status: "WITHDRAWN"},
		},
		byExternal: map[string]*directory.Account{
			"ext-1": {ID: 3, Roles: []string{"ROLE_USER"}, Status: "ACTIVE"},
			"ext-2": {ID: 4, Roles: []string{"ROLE_USER"}, Status: "INACTIVE"},
		},
	}

	codec := token.NewCodec("test-secret")
	store := repository.NewRefreshTokenStore(rdb)
	verifier := NewVerifier(dir, nil)
	svc := NewAuthService(codec, verifier, store, nil, time.Minute, time.Hour)
	return svc, codec, mr
}

func TestLogin_Success(t *testing.T) {
	svc, codec, mr := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@test.com", "pw")
	require.NoError(t, err)

	id, err := codec.UserID(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	roles, err := codec.Roles(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, []string{"ROLE_USER"}, roles)

	require.Equal(t, pair.RefreshToken, mr.HGet("RefreshToken:1", "token"))
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, mr := newTestService(t)

	_, err := svc.Login(context.Background(), "a@test.com", "nope")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Empty(t, mr.Keys())
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@test.com", "pw")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogin_WithdrawnAccount(t *testing.T) {
	svc, _, mr := newTestService(t)

	_, err := svc.Login(context.Background(), "w@test.com", "pw")
	require.ErrorIs(t, err, ErrUserWithdrawn)
	require.Empty(t, mr.Keys())
}

func TestReissue_RotatesPair(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@test.com", "pw")
	require.NoError(t, err)

	reissued, err := svc.Reissue(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.RefreshToken, reissued.RefreshToken)
	require.Equal(t, reissued.RefreshToken, mr.HGet("RefreshToken:1", "token"))

	// The rotated-out token no longer matches the store record even
	// though its signature is still valid.
	_, err = svc.Reissue(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestReissue_MalformedTokenTouchesNoState(t *testing.T) {
	svc, _, mr := newTestService(t)

	_, err := svc.Reissue(context.Background(), "not.a.jwt")
	require.ErrorIs(t, err, token.ErrTokenMalformed)
	require.Empty(t, mr.Keys())
}

func TestReissue_EmptyToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Reissue(context.Background(), "")
	require.ErrorIs(t, err, token.ErrTokenEmpty)
}

func TestReissue_AccessTokenRejected(t *testing.T) {
	svc, codec, _ := newTestService(t)

	access, err := codec.Generate(token.KindAccess, 1, []string{"ROLE_USER"}, time.Minute)
	require.NoError(t, err)

	_, err = svc.Reissue(context.Background(), access)
	require.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestReissue_NoStoreRecord(t *testing.T) {
	svc, codec, mr := newTestService(t)

	refresh, err := codec.Generate(token.KindRefresh, 99, []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)

	_, err = svc.Reissue(context.Background(), refresh)
	require.ErrorIs(t, err, ErrTokenNotFound)
	require.Empty(t, mr.Keys())
}

func TestLogout_DeletesRecord(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@test.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.False(t, mr.Exists("RefreshToken:1"))

	// A second logout with the same token finds no record.
	err = svc.Logout(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestLogout_UnknownSubject(t *testing.T) {
	svc, codec, _ := newTestService(t)

	refresh, err := codec.Generate(token.KindRefresh, 404, []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)

	err = svc.Logout(context.Background(), refresh)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestUserInfo_Stateless(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@test.com", "pw")
	require.NoError(t, err)

	// Revoking the session does not affect access token introspection.
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))
	require.Empty(t, mr.Keys())

	info, err := svc.UserInfo(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(1), info.ID)
	require.Equal(t, []string{"ROLE_USER"}, info.Roles)
}

func TestUserInfo_MissingBearerMarker(t *testing.T) {
	svc, _, _ := newTestService(t)

	info, err := svc.UserInfo("")
	require.NoError(t, err)
	require.Nil(t, info)

	info, err = svc.UserInfo("Basic abc123")
	require.NoError(t, err)
	require.Nil(t, info)
}

func TestLoginExternal(t *testing.T) {
	svc, codec, mr := newTestService(t)
	ctx := context.Background()

	pair, err := svc.LoginExternal(ctx, "ext-1")
	require.NoError(t, err)

	id, err := codec.UserID(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(3), id)
	require.Equal(t, pair.RefreshToken, mr.HGet("RefreshToken:3", "token"))

	// Only ACTIVE accounts may use the external-id flow.
	_, err = svc.LoginExternal(ctx, "ext-2")
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.LoginExternal(ctx, "missing")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifier_DelegatesPasswordComparison(t *testing.T) {
	dir := &fakeDirectory{byEmail: map[string]*directory.Account{
		"x@test.com": {ID: 10, PasswordHash: "opaque", Roles: []string{"ROLE_USER"}, Status: "ACTIVE"},
	}}
	var gotHash, gotPlain string
	v := NewVerifier(dir, func(h, p string) bool {
		gotHash, gotPlain = h, p
		return true
	})

	p, err := v.Verify(context.Background(), "x@test.com", "secret")
	require.NoError(t, err)
	require.Equal(t, int64(10), p.ID)
	require.Equal(t, "opaque", gotHash)
	require.Equal(t, "secret", gotPlain)
}

func TestReissue_ExpiredRefreshToken(t *testing.T) {
	svc, codec, _ := newTestService(t)

	expired, err := codec.Generate(token.KindRefresh, 1, []string{"ROLE_USER"}, -time.Second)
	require.NoError(t, err)

	_, err = svc.Reissue(context.Background(), expired)
	require.True(t, errors.Is(err, token.ErrTokenExpired))
}
