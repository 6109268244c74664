package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophfeed/internal/dbx"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves one shared set of in-memory repositories.
// The db handle passed to its factories is ignored, and state is lost when
// the process exits.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
	posts *posts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	u := users.NewInMemoryRepository()
	return &InMemoryRepositoryManager{
		users: u,
		posts: posts.NewInMemoryRepository(u),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Posts(dbx.DBTX) posts.Repository { return m.posts }
