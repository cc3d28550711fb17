package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	refreshKeyPrefix = "RefreshToken:"
	tokenField       = "token"
)

// RefreshTokenStore keeps the single currently-valid refresh token per
// subject in a Redis hash at RefreshToken:{subjectId}, field "token",
// with a TTL equal to the refresh validity window.
type RefreshTokenStore struct{ rdb *redis.Client }

func NewRefreshTokenStore(rdb *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{rdb: rdb}
}

func key(userID int64) string {
	return refreshKeyPrefix + strconv.FormatInt(userID, 10)
}

// Save replaces any prior record for the subject with the new refresh
// token and resets the TTL. The delete, write and expire run inside one
// MULTI/EXEC so a concurrent reader can never observe the record as
// absent mid-replace.
func (s *RefreshTokenStore) Save(ctx context.Context, userID int64, refreshToken string, ttl time.Duration) error {
	k := key(userID)
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, tokenField, refreshToken)
		p.PExpire(ctx, k, ttl)
		return nil
	})
	return err
}

// Exists reports whether a refresh token record is present for the
// subject, regardless of its value.
func (s *RefreshTokenStore) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.rdb.HExists(ctx, key(userID), tokenField).Result()
}

// Current returns the stored refresh token for the subject, or the
// empty string when no record exists.
func (s *RefreshTokenStore) Current(ctx context.Context, userID int64) (string, error) {
	v, err := s.rdb.HGet(ctx, key(userID), tokenField).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Delete removes the subject's record. Deleting an absent record is a
// no-op.
func (s *RefreshTokenStore) Delete(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
