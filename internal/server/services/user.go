// Package services contains server-side business logic. This file implements
// UserService, which handles registration, password verification, and issuing
// the JWT that carries the authenticated identity.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/okarpovs/doclib/internal/common"
	"github.com/okarpovs/doclib/internal/server/auth"
	"github.com/okarpovs/doclib/internal/server/config"
	"github.com/okarpovs/doclib/internal/server/models"
	"github.com/okarpovs/doclib/internal/server/repositories/repomanager"
)

// Session is the authenticated context established by a successful login.
type Session struct {
	UserID      string
	AccessToken string
}

// dummyPasswordHash is compared against when the email is unregistered, so a
// missing account costs the same bcrypt work as a wrong password. It is not
// a real credential.
const dummyPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoO0P1z1kDk8X3Qe1sR9rI5mJ3cR6yGStC"

// UserService provides the account-facing flows:
// - Register: create users
// - Login: verify credentials and mint an access token
// - SetPassword: overwrite the stored hash with a fresh one
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user from a raw email and password. The email is
// normalized (trimmed, lowercased) before it becomes the uniqueness key.
// A concurrent duplicate registration surfaces as common.ErrDuplicateEmail
// from the storage constraint, never as a raw DB error.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password against the stored hash and, on success,
// returns a Session with a signed access token. An unregistered email and a
// wrong password are indistinguishable to the caller: both fail with
// common.ErrUnauthorized, and any hash-comparison failure counts as a
// non-match.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = common.NormalizeEmail(email)

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// burn the same bcrypt work as a real comparison
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return nil, common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &Session{UserID: user.ID, AccessToken: token}, nil
}

// SetPassword re-hashes newPassword with a fresh salt and overwrites the
// stored hash. common.ErrNotFound when no such user exists.
func (s *UserService) SetPassword(ctx context.Context, email, newPassword string) error {
	email = common.NormalizeEmail(email)
	if email == "" || newPassword == "" {
		return common.ErrInvalidInput
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.UpdatePassword(ctx, email, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	return nil
}

// --- helpers below ---

// hashPassword draws a fresh random salt on every call, so hashing the same
// password twice yields different hashes.
func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword fails closed: any comparison error is a non-match.
func (s *UserService) checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
