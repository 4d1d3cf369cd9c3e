package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/dentalreserve/clinic-api/internal/model"
	"github.com/dentalreserve/clinic-api/pkg/errors"
)

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT username, last_name, password_hash, account_type FROM users WHERE username = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, username)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user")
		}
		return nil, errors.Storage("get user", err)
	}
	return &user, nil
}

func (r *userRepository) UpdateLastName(ctx context.Context, username string, lastName *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET last_name = $1 WHERE username = $2`, lastName, username)
	if err != nil {
		return errors.Storage("update profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFound("user")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE username = $2`, passwordHash, username)
	if err != nil {
		return errors.Storage("update password", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return errors.NotFound("user")
	}
	return nil
}
