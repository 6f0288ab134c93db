package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophfeedback/internal/dbx"
	"github.com/dmitrijs2005/gophfeedback/internal/server/repositories/entries"
)

// RepositoryManager migrates the feedback schema and vends entry
// repositories bound to a database handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
}
