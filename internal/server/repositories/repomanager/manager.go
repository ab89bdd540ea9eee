package repomanager

import (
	"context"

	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a query handle together with
// the transactor that produces such handles.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the handle for work outside a transaction.
	Conn() dbx.DBTX
	Transactor() dbx.Transactor
	Users(db dbx.DBTX) users.Repository
}
