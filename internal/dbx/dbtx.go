// Package dbx holds the small database plumbing every repository shares:
// the DBTX interface that lets one repository type run against either a
// connection pool or an open transaction, and WithTx for multi-statement
// flows that must not half-apply.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the slice of database/sql the repositories actually call.
// Both *sql.DB and *sql.Tx satisfy it, so a repository bound to a
// transaction behaves exactly like one bound to the pool.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, hands fn a transactional DBTX, commits when fn
// returns nil, and rolls back when fn returns an error or panics (the panic
// is rethrown after rollback).
//
// Reset-token redemption is the canonical caller here: clearing the token and
// overwriting the password hash have to land together or not at all.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo := m.Users(tx)
//	    if err := repo.ClearResetToken(ctx, email, token); err != nil {
//	        return err
//	    }
//	    return repo.UpdatePassword(ctx, email, newHash)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
