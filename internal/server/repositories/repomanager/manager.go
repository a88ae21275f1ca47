package repomanager

import (
	"context"
	"database/sql"

	"github.com/okarpovs/doclib/internal/dbx"
	"github.com/okarpovs/doclib/internal/server/repositories/documents"
	"github.com/okarpovs/doclib/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
}
