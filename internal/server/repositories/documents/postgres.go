// Package documents provides a PostgreSQL-backed repository for owner-scoped
// text documents. Every read and delete is keyed by (id, owner_id), so a
// document is never visible outside its owner.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

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

// Create inserts a new document with a freshly generated id.
func (r *PostgresRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {

	query :=
		`INSERT INTO documents (id, owner_id, filename, mime, content)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	doc.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, query,
		doc.ID, doc.OwnerID, doc.Filename, doc.MIME, doc.Content).Scan(&doc.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

// ListByOwner returns all documents of one owner, most recently created
// first. An owner with no documents gets an empty slice.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Document, error) {
	query :=
		`SELECT id, owner_id, filename, mime, content, created_at FROM documents
		 WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	docs := make([]*models.Document, 0)
	for rows.Next() {
		doc := &models.Document{}
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.MIME, &doc.Content, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return docs, nil
}

// GetByID returns a single document if it exists and belongs to ownerID,
// common.ErrNotFound otherwise.
func (r *PostgresRepository) GetByID(ctx context.Context, id string, ownerID string) (*models.Document, error) {
	query :=
		`SELECT id, owner_id, filename, mime, content, created_at FROM documents
		 WHERE id = $1 AND owner_id = $2
		 `

	doc := &models.Document{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.MIME, &doc.Content, &doc.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return doc, nil
}

// Delete removes the document only when it belongs to ownerID. Deleting a
// missing or foreign document is a silent no-op so existence of other
// owners' documents is never leaked.
func (r *PostgresRepository) Delete(ctx context.Context, id string, ownerID string) error {
	query :=
		`DELETE FROM documents
		 WHERE id = $1 AND owner_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
