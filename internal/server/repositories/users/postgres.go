// Package users provides a PostgreSQL-backed repository for user accounts
// and their pending reset tokens.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/okarpovs/doclib/internal/common"
	"github.com/okarpovs/doclib/internal/dbx"
	"github.com/okarpovs/doclib/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. The unique constraint on email makes a
// concurrent duplicate registration fail here; that violation is reported
// as common.ErrDuplicateEmail, never as a raw storage error.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByEmail returns the user stored under the given normalized email,
// or common.ErrNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash, reset_token, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.ResetToken, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdatePassword overwrites the stored hash. common.ErrNotFound when no
// such user exists.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query :=
		`UPDATE users SET password_hash = $1
		 WHERE email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, passwordHash, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(res, common.ErrNotFound)
}

// SetResetToken stores a pending recovery token, replacing any prior one so
// at most one token per user is active.
func (r *PostgresRepository) SetResetToken(ctx context.Context, email string, token string) error {
	query :=
		`UPDATE users SET reset_token = $1
		 WHERE email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, token, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(res, common.ErrNotFound)
}

// ClearResetToken verifies the pending token and clears it in a single
// conditional UPDATE. That is what makes redemption single-use: a second
// redemption (or one racing a newer token) matches zero rows and fails with
// common.ErrInvalidToken.
func (r *PostgresRepository) ClearResetToken(ctx context.Context, email string, token string) error {
	query :=
		`UPDATE users SET reset_token = NULL
		 WHERE email = $1 AND reset_token = $2
		 `

	res, err := r.db.ExecContext(ctx, query, email, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(res, common.ErrInvalidToken)
}

// requireRow maps an UPDATE that touched no rows to the given sentinel.
func requireRow(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return sentinel
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
