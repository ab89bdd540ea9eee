// Package repomanager provides RepositoryManager implementations for
// PostgreSQL and for process memory.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/migrations"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct {
	db *sql.DB
	tx dbx.SQLTransactor
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Conn() dbx.DBTX {
	return m.db
}

// Transactor runs units of work in READ COMMITTED transactions; the row locks
// taken by GetUserByLoginForUpdate are what serialize lockout updates.
func (m *PostgresRepositoryManager) Transactor() dbx.Transactor {
	return m.tx
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db: db,
		tx: dbx.SQLTransactor{DB: db, Opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}},
	}
}
