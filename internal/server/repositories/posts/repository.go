// Package posts stores feed posts and their likes.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/server/models"
)

// Repository persists posts. Reads resolve the author's current name and
// return likes in the order they were given.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ToggleLike adds userID to the post's likes, or removes it if present,
	// and returns the updated post.
	ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
