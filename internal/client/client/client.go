package client

import (
	"context"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

// AuthPayload is what login and registration hand back on success.
type AuthPayload struct {
	Token string
	User  models.User
}

type Client interface {
	Close() error
	SetToken(token string)
	Token() string
	Ping(ctx context.Context) error

	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	Register(ctx context.Context, name, email, password string) (*AuthPayload, error)
	UpdateProfile(ctx context.Context, name, bio string) (*models.User, error)

	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, title, content string) (*models.Post, error)
	ToggleLike(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}
