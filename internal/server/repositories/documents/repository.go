package documents

import (
	"context"

	"github.com/okarpovs/doclib/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, doc *models.Document) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error)
	GetByID(ctx context.Context, id string, ownerID string) (*models.Document, error)
	Delete(ctx context.Context, id string, ownerID string) error
}
