package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophfeed/internal/dbx"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/config"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

const testSecret = "k"

func testConfig() *config.Config {
	return &config.Config{SecretKey: testSecret, TokenValidityDuration: time.Hour}
}

func newTestServices(t *testing.T) (*UserService, *PostService) {
	t.Helper()
	m := repomanager.NewInMemoryRepositoryManager()
	us := NewUserService(nil, m, testConfig(), logging.NewNopLogger())
	us.bcryptCost = bcrypt.MinCost
	return us, NewPostService(nil, m, logging.NewNopLogger())
}

func mustRegister(t *testing.T, us *UserService, name, email string) *models.User {
	t.Helper()
	res, err := us.Register(context.Background(), name, email, "secret1")
	require.NoError(t, err)
	return res.User
}

// stubManager hands out fixed repositories regardless of the db handle.
type stubManager struct {
	users users.Repository
	posts posts.Repository
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *stubManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *stubManager) Posts(dbx.DBTX) posts.Repository              { return m.posts }

// failingUsers fails every call with err.
type failingUsers struct{ err error }

func (f *failingUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, f.err }
func (f *failingUsers) GetByEmail(context.Context, string) (*models.User, error)   { return nil, f.err }
func (f *failingUsers) GetByID(context.Context, string) (*models.User, error)      { return nil, f.err }
func (f *failingUsers) UpdateProfile(context.Context, string, string, string) (*models.User, error) {
	return nil, f.err
}

// failingPosts fails every call with err.
type failingPosts struct{ err error }

func (f *failingPosts) Create(context.Context, *models.Post) (*models.Post, error) { return nil, f.err }
func (f *failingPosts) List(context.Context) ([]models.Post, error)                { return nil, f.err }
func (f *failingPosts) GetByID(context.Context, string) (*models.Post, error)      { return nil, f.err }
func (f *failingPosts) ToggleLike(context.Context, string, string) (*models.Post, error) {
	return nil, f.err
}
func (f *failingPosts) Delete(context.Context, string) error { return f.err }
