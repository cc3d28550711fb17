package service

import "errors"

// Failure kinds produced by the session lifecycle. Token-shape failures
// (empty, malformed, expired, unsupported) surface directly from the
// token package; these cover the rest of the taxonomy.
var (
	// ErrUnauthenticated is the generic credential failure. Detailed
	// causes are logged, never returned to the caller.
	ErrUnauthenticated = errors.New("invalid credentials")
	// ErrUserWithdrawn marks an account the directory still knows but
	// that may no longer authenticate.
	ErrUserWithdrawn = errors.New("account has been withdrawn")
	// ErrTokenTypeMismatch is returned when an access token is
	// presented where a refresh token is required.
	ErrTokenTypeMismatch = errors.New("token is not a refresh token")
	// ErrTokenNotFound is returned for a cryptographically valid
	// refresh token with no matching store record, i.e. one that was
	// rotated out or revoked.
	ErrTokenNotFound = errors.New("no stored refresh token for subject")
)
