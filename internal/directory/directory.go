// Package directory resolves identities against the user directory, an
// external collaborator owned by the account team. Two implementations
// exist: an HTTP client speaking the directory's internal REST contract
// and a MySQL-backed lookup for standalone deployments.
package directory

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no account exists for the given email or
// external id.
var ErrNotFound = errors.New("directory: account not found")

// Account is the raw directory record. PasswordHash is opaque to this
// service; it is only ever handed to the injected comparison capability.
type Account struct {
	ID           int64    `json:"id"`
	PasswordHash string   `json:"password"`
	Roles        []string `json:"roles"`
	Status       string   `json:"status"`
}

// Directory is the lookup contract the credential verifier depends on.
type Directory interface {
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByExternalID(ctx context.Context, externalID string) (*Account, error)
}
