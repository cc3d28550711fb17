package directory

import (
	"context"
	"database/sql"
	"errors"
)

// SQLDirectory answers lookups from a local MySQL user table instead of
// the remote directory service. Used when the service runs standalone,
// e.g. in development or single-node deployments.
type SQLDirectory struct{ DB *sql.DB }

func NewSQLDirectory(db *sql.DB) *SQLDirectory { return &SQLDirectory{DB: db} }

func (d *SQLDirectory) AccountByEmail(ctx context.Context, email string) (*Account, error) {
	return d.lookup(ctx,
		"SELECT id, password_hash, status FROM users WHERE email=? LIMIT 1", email)
}

func (d *SQLDirectory) AccountByExternalID(ctx context.Context, externalID string) (*Account, error) {
	return d.lookup(ctx,
		"SELECT id, password_hash, status FROM users WHERE external_id=? LIMIT 1", externalID)
}

func (d *SQLDirectory) lookup(ctx context.Context, query, arg string) (*Account, error) {
	var acc Account
	err := d.DB.QueryRowContext(ctx, query, arg).Scan(&acc.ID, &acc.PasswordHash, &acc.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := d.DB.QueryContext(ctx,
		"SELECT role FROM user_roles WHERE user_id=? ORDER BY role", acc.ID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		acc.Roles = append(acc.Roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &acc, nil
}
