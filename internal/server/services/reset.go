package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/okarpovs/doclib/internal/common"
	"github.com/okarpovs/doclib/internal/dbx"
	"github.com/okarpovs/doclib/internal/server/repositories/repomanager"
)

// resetTokenBytes is the number of random bytes behind a recovery token:
// 16 bytes gives 128 bits of entropy, rendered as 32 hex characters.
const resetTokenBytes = 16

// ResetService issues and redeems one-shot password recovery tokens.
// Delivery of the token to the account holder is the caller's problem.
type ResetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewResetService constructs a ResetService.
func NewResetService(db *sql.DB, m repomanager.RepositoryManager) *ResetService {
	return &ResetService{db: db, repomanager: m}
}

// Issue generates a fresh token from a secure random source and stores it
// against the normalized email, replacing any prior pending token so at most
// one is active per user. An unregistered email fails with
// common.ErrNotFound; the caller decides how much of that to reveal.
func (s *ResetService) Issue(ctx context.Context, email string) (string, error) {
	email = common.NormalizeEmail(email)

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return "", common.ErrInternal
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.SetResetToken(ctx, email, token); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error storing reset token: %w", err)
	}

	return token, nil
}

// Redeem exchanges a pending token for a new password. Verify-and-clear of
// the token and the password overwrite run in one transaction: either the
// token is consumed and the new hash is stored, or neither happens. A spent,
// absent, or mismatched token fails with common.ErrInvalidToken.
func (s *ResetService) Redeem(ctx context.Context, email, token, newPassword string) error {
	email = common.NormalizeEmail(email)
	if token == "" {
		return common.ErrInvalidToken
	}
	if email == "" || newPassword == "" {
		return common.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		if err := repoTx.ClearResetToken(ctx, email, token); err != nil {
			return err
		}
		return repoTx.UpdatePassword(ctx, email, string(hash))
	}); err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("error redeeming reset token: %w", err)
	}

	return nil
}
