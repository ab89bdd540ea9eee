package repomanager

import (
	"context"

	"github.com/dmitrijs2005/safevault/internal/dbx"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/users"
)

// MemoryRepositoryManager serves a single in-process users repository. The
// DBTX handles it receives are ignored.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Conn() dbx.DBTX { return nil }

func (m *MemoryRepositoryManager) Transactor() dbx.Transactor { return m.users }

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }
