package users

import (
	"context"

	"github.com/okarpovs/doclib/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
	SetResetToken(ctx context.Context, email string, token string) error
	ClearResetToken(ctx context.Context, email string, token string) error
}
