package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/users"
)

func newMemory(t *testing.T) (*InMemoryRepository, *users.InMemoryRepository, *models.User) {
	t.Helper()
	ur := users.NewInMemoryRepository()
	u, err := ur.Create(context.Background(), &models.User{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	return NewInMemoryRepository(ur), ur, u
}

func TestInMemory_CreateAndList(t *testing.T) {
	r, _, alice := newMemory(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Minute) }

	first, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "one", Content: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", first.AuthorName)
	assert.Equal(t, []string{}, first.Likes)

	second, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "two", Content: "2"})
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestInMemory_CreateUnknownAuthor(t *testing.T) {
	r, _, _ := newMemory(t)

	_, err := r.Create(context.Background(), &models.Post{AuthorID: "ghost", Title: "t", Content: "c"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_ToggleLike(t *testing.T) {
	r, _, alice := newMemory(t)
	ctx := context.Background()

	p, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "t", Content: "c"})
	require.NoError(t, err)

	liked, err := r.ToggleLike(ctx, p.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2"}, liked.Likes)

	liked, err = r.ToggleLike(ctx, p.ID, "u-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2", "u-3"}, liked.Likes)

	unliked, err := r.ToggleLike(ctx, p.ID, "u-2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-3"}, unliked.Likes)

	_, err = r.ToggleLike(ctx, "missing", "u-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_AuthorRenameIsVisible(t *testing.T) {
	r, ur, alice := newMemory(t)
	ctx := context.Background()

	p, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = ur.UpdateProfile(ctx, alice.ID, "Alicia", "")
	require.NoError(t, err)

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.AuthorName)
}

func TestInMemory_Delete(t *testing.T) {
	r, _, alice := newMemory(t)
	ctx := context.Background()

	p, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, p.ID))
	assert.ErrorIs(t, r.Delete(ctx, p.ID), common.ErrorNotFound)

	_, err = r.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemory_ReturnsCopies(t *testing.T) {
	r, _, alice := newMemory(t)
	ctx := context.Background()

	p, err := r.Create(ctx, &models.Post{AuthorID: alice.ID, Title: "t", Content: "c"})
	require.NoError(t, err)
	liked, err := r.ToggleLike(ctx, p.ID, "u-2")
	require.NoError(t, err)
	liked.Likes[0] = "tampered"

	got, err := r.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2"}, got.Likes)
}
