package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/okarpovs/doclib/internal/common"
	"github.com/okarpovs/doclib/internal/server/models"
	"github.com/okarpovs/doclib/internal/server/repositories/repomanager"
)

// Fallbacks applied when text is saved without an upload.
const (
	DefaultFilename = "pasted_text.txt"
	DefaultMIME     = "text/plain"
)

// DocumentService manages the per-user document library. Every operation is
// scoped by the owner id taken from the caller's authenticated context.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{db: db, repomanager: m}
}

// Save persists a new document. Whitespace-only content is rejected with
// common.ErrEmptyContent; missing filename and MIME hints get the pasted-text
// defaults.
func (s *DocumentService) Save(ctx context.Context, ownerID, content, filename, mime string) (*models.Document, error) {
	if ownerID == "" {
		return nil, common.ErrInvalidInput
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	if filename == "" {
		filename = DefaultFilename
	}
	if mime == "" {
		mime = DefaultMIME
	}

	repo := s.repomanager.Documents(s.db)
	doc, err := repo.Create(ctx, &models.Document{
		OwnerID:  ownerID,
		Filename: filename,
		MIME:     mime,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("error saving document: %w", err)
	}

	return doc, nil
}

// List returns the owner's documents, most recently created first. An owner
// with no documents gets an empty slice, and nobody ever sees another
// owner's rows.
func (s *DocumentService) List(ctx context.Context, ownerID string) ([]*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	docs, err := repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

// Get fetches one document, owner scoped. A foreign or missing document is
// common.ErrNotFound either way.
func (s *DocumentService) Get(ctx context.Context, id, ownerID string) (*models.Document, error) {
	repo := s.repomanager.Documents(s.db)
	doc, err := repo.GetByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading document: %w", err)
	}
	return doc, nil
}

// Delete removes the document when it belongs to ownerID; deleting a missing
// or foreign document is a silent no-op.
func (s *DocumentService) Delete(ctx context.Context, id, ownerID string) error {
	repo := s.repomanager.Documents(s.db)
	if err := repo.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	return nil
}
