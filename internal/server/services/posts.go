package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/dbx"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophfeed/internal/server/repositories/repomanager"
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewPostService constructs a PostService. db may be nil when the manager
// serves in-memory repositories.
func NewPostService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, logger: logger.With("module", "posts")}
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	list, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return list, nil
}

// Create publishes a post authored by userID.
func (s *PostService) Create(ctx context.Context, userID, title, content, image string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, errMissingPostFields
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		AuthorID: userID,
		Title:    title,
		Content:  content,
		Image:    strings.TrimSpace(image),
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "user_id", userID)
	return post, nil
}

// ToggleLike adds or removes userID's like on the post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (*models.Post, error) {
	var post *models.Post
	err := s.withTx(ctx, func(ctx context.Context, repo posts.Repository) error {
		var err error
		post, err = repo.ToggleLike(ctx, postID, userID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errPostNotFound
		}
		return nil, fmt.Errorf("error toggling like: %w", err)
	}
	return post, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	err := s.withTx(ctx, func(ctx context.Context, repo posts.Repository) error {
		post, err := repo.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if post.AuthorID != userID {
			return errNotPostAuthor
		}
		return repo.Delete(ctx, postID)
	})
	switch {
	case err == nil:
		s.logger.Info(ctx, "post deleted", "post_id", postID, "user_id", userID)
		return nil
	case errors.Is(err, errNotPostAuthor):
		return err
	case errors.Is(err, common.ErrorNotFound):
		return errPostNotFound
	default:
		return fmt.Errorf("error deleting post: %w", err)
	}
}

// withTx runs fn against a transactional posts repository when a database is
// configured, and against the shared repository otherwise.
func (s *PostService) withTx(ctx context.Context, fn func(ctx context.Context, repo posts.Repository) error) error {
	if s.db == nil {
		return fn(ctx, s.repomanager.Posts(nil))
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, s.repomanager.Posts(tx))
	})
}
