package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/oritang/bookstore-auth/internal/directory"
	"github.com/oritang/bookstore-auth/internal/model"
	"github.com/oritang/bookstore-auth/internal/utils"
)

// PasswordComparer checks a submitted password against the opaque hash
// returned by the directory. The verifier does not own this capability;
// it is injected so deployments can swap the hash scheme.
type PasswordComparer func(hash, plain string) bool

// Verifier resolves credentials to a Principal via the user directory.
// It is a pure lookup plus status filter; it performs no writes.
type Verifier struct {
	dir     directory.Directory
	compare PasswordComparer
}

func NewVerifier(dir directory.Directory, compare PasswordComparer) *Verifier {
	if compare == nil {
		compare = utils.VerifyPassword
	}
	return &Verifier{dir: dir, compare: compare}
}

// Verify resolves an email/password pair. Unknown emails and wrong
// passwords collapse to ErrUnauthenticated; withdrawn accounts are
// rejected even when the directory returns a record.
func (v *Verifier) Verify(ctx context.Context, email, password string) (*model.Principal, error) {
	acc, err := v.dir.AccountByEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	status := model.AccountStatus(acc.Status)
	if status == model.StatusWithdrawn {
		return nil, ErrUserWithdrawn
	}
	if !v.compare(acc.PasswordHash, password) {
		return nil, ErrUnauthenticated
	}
	return &model.Principal{ID: acc.ID, Roles: acc.Roles, Status: status}, nil
}

// VerifyExternal resolves an identity by its external SSO id. Unlike
// the password flow, only ACTIVE accounts may pass here.
func (v *Verifier) VerifyExternal(ctx context.Context, externalID string) (*model.Principal, error) {
	acc, err := v.dir.AccountByExternalID(ctx, externalID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("directory lookup: %w", err)
	}
	status := model.AccountStatus(acc.Status)
	if status != model.StatusActive {
		return nil, ErrUnauthenticated
	}
	return &model.Principal{ID: acc.ID, Roles: acc.Roles, Status: status}, nil
}
