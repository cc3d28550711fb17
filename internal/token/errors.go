package token

import "errors"

// Validation failures are collapsed into four kinds. Callers branch on
// these with errors.Is; the underlying jwt library error is never
// surfaced past this package.
var (
	// ErrTokenEmpty is returned when no token value was supplied.
	ErrTokenEmpty = errors.New("token is empty")
	// ErrTokenMalformed covers bad format and invalid signatures.
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	// ErrTokenExpired is returned for tokens past their exp claim.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenUnsupported is returned for tokens signed with an
	// algorithm other than the one this process uses.
	ErrTokenUnsupported = errors.New("token algorithm is not supported")
)
