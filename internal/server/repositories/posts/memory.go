package posts

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// AuthorLookup resolves a user id to the user's current record.
type AuthorLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// InMemoryRepository keeps posts in process memory.
type InMemoryRepository struct {
	authors AuthorLookup
	now     func() time.Time

	mu    sync.RWMutex
	posts map[string]*models.Post
}

func NewInMemoryRepository(authors AuthorLookup) *InMemoryRepository {
	return &InMemoryRepository{
		authors: authors,
		now:     func() time.Time { return time.Now().UTC() },
		posts:   make(map[string]*models.Post),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if _, err := r.authors.GetByID(ctx, post.AuthorID); err != nil {
		return nil, err
	}

	p := *post
	p.ID = uuid.NewString()
	p.CreatedAt = r.now()
	p.Likes = []string{}

	r.mu.Lock()
	r.posts[p.ID] = &p
	r.mu.Unlock()

	return r.GetByID(ctx, p.ID)
}

func (r *InMemoryRepository) List(ctx context.Context) ([]models.Post, error) {
	r.mu.RLock()
	result := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		result = append(result, clonePost(p))
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	for i := range result {
		r.resolveAuthor(ctx, &result[i])
	}
	return result, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	p, ok := r.posts[id]
	if !ok {
		r.mu.RUnlock()
		return nil, common.ErrorNotFound
	}
	out := clonePost(p)
	r.mu.RUnlock()

	r.resolveAuthor(ctx, &out)
	return &out, nil
}

func (r *InMemoryRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	r.mu.Lock()
	p, ok := r.posts[postID]
	if !ok {
		r.mu.Unlock()
		return nil, common.ErrorNotFound
	}
	if i := slices.Index(p.Likes, userID); i >= 0 {
		p.Likes = slices.Delete(p.Likes, i, i+1)
	} else {
		p.Likes = append(p.Likes, userID)
	}
	r.mu.Unlock()

	return r.GetByID(ctx, postID)
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *InMemoryRepository) resolveAuthor(ctx context.Context, p *models.Post) {
	if u, err := r.authors.GetByID(ctx, p.AuthorID); err == nil {
		p.AuthorName = u.Name
	}
}

func clonePost(p *models.Post) models.Post {
	out := *p
	out.Likes = slices.Clone(p.Likes)
	if out.Likes == nil {
		out.Likes = []string{}
	}
	return out
}
