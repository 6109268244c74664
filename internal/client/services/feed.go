package services

import (
	"context"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

// FeedAPI is the part of the remote API the feed controller talks to.
type FeedAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, title, content string) (*models.Post, error)
	ToggleLike(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
}

// FeedController holds the materialized feed and the stats derived from it.
//
// Local state only changes after the server confirms an operation. Identical
// requests issued while one is outstanding (same operation, same post) share
// the outstanding call and its outcome. Errors returned by the controller are
// always *models.Failure.
type FeedController struct {
	api    FeedAPI
	logger logging.Logger
	calls  singleflight.Group

	mu       sync.RWMutex
	posts    []models.Post
	stats    models.FeedStats
	lastErr  string
	inFlight int
}

func NewFeedController(api FeedAPI, logger logging.Logger) *FeedController {
	return &FeedController{
		api:    api,
		logger: logger.With("module", "feed"),
		posts:  []models.Post{},
	}
}

// Posts returns a copy of the feed, newest first as the server ordered it.
func (c *FeedController) Posts() []models.Post {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Post, len(c.posts))
	for i, p := range c.posts {
		out[i] = p.Clone()
	}
	return out
}

// Post returns the post with id if it is in the feed.
func (c *FeedController) Post(id string) (models.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexLocked(id)
	if i < 0 {
		return models.Post{}, false
	}
	return c.posts[i].Clone(), true
}

func (c *FeedController) Stats() models.FeedStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Error returns the message of the last failed operation.
func (c *FeedController) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *FeedController) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = ""
}

// Loading reports whether any request is outstanding.
func (c *FeedController) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight > 0
}

// LoadFeed replaces the feed with the server's collection and recomputes the
// stats. On failure the posts stay as they were and the stats reset to zero.
func (c *FeedController) LoadFeed(ctx context.Context) error {
	_, err := c.coalesce(ctx, "load", func(ctx context.Context) (any, error) {
		posts, err := c.api.ListPosts(ctx)
		if err != nil {
			c.mu.Lock()
			c.stats = models.FeedStats{}
			c.mu.Unlock()
			return nil, c.failed(ctx, normalize(err, msgLoadFailed))
		}

		posts = dedupe(posts)
		c.mu.Lock()
		c.posts = posts
		c.stats = models.ComputeStats(posts)
		c.lastErr = ""
		c.mu.Unlock()

		c.logger.Debug(ctx, "feed loaded", "posts", len(posts))
		return nil, nil
	})
	return err
}

// CreatePost publishes a post and prepends the server's record to the feed.
// Blank title or content is rejected without a network call.
func (c *FeedController) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if title == "" {
		return models.Post{}, c.reject(msgEmptyTitle)
	}
	if content == "" {
		return models.Post{}, c.reject(msgEmptyContent)
	}

	v, err := c.coalesce(ctx, "create\x00"+title+"\x00"+content, func(ctx context.Context) (any, error) {
		post, err := c.api.CreatePost(ctx, title, content)
		if err != nil {
			return nil, c.failed(ctx, normalize(err, msgCreateFailed))
		}
		post.Normalize()

		c.mu.Lock()
		posts := slices.DeleteFunc(slices.Clone(c.posts), func(p models.Post) bool { return p.ID == post.ID })
		c.posts = append([]models.Post{*post}, posts...)
		c.stats = models.ComputeStats(c.posts)
		c.lastErr = ""
		c.mu.Unlock()

		c.logger.Info(ctx, "post created", "post_id", post.ID)
		return post.Clone(), nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return v.(models.Post).Clone(), nil
}

// ToggleLike flips the current user's like on a post that is in the feed and
// replaces it in place with the server's version.
func (c *FeedController) ToggleLike(ctx context.Context, postID string) (models.Post, error) {
	if _, ok := c.Post(postID); !ok {
		return models.Post{}, c.reject(msgUnknownPost)
	}

	v, err := c.coalesce(ctx, "like\x00"+postID, func(ctx context.Context) (any, error) {
		post, err := c.api.ToggleLike(ctx, postID)
		if err != nil {
			return nil, c.failed(ctx, normalize(err, msgLikeFailed))
		}
		post.Normalize()

		c.mu.Lock()
		if i := c.indexLocked(postID); i >= 0 {
			c.posts = slices.Clone(c.posts)
			c.posts[i] = *post
			c.stats = models.ComputeStats(c.posts)
		}
		c.lastErr = ""
		c.mu.Unlock()

		c.logger.Debug(ctx, "like toggled", "post_id", postID, "likes", post.LikeCount())
		return post.Clone(), nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return v.(models.Post).Clone(), nil
}

// DeletePost removes a post on the server and then from the feed. A failed
// delete leaves the feed untouched.
func (c *FeedController) DeletePost(ctx context.Context, postID string) error {
	_, err := c.coalesce(ctx, "delete\x00"+postID, func(ctx context.Context) (any, error) {
		if err := c.api.DeletePost(ctx, postID); err != nil {
			return nil, c.failed(ctx, normalize(err, msgDeleteFailed))
		}

		c.mu.Lock()
		c.posts = slices.DeleteFunc(slices.Clone(c.posts), func(p models.Post) bool { return p.ID == postID })
		c.stats = models.ComputeStats(c.posts)
		c.lastErr = ""
		c.mu.Unlock()

		c.logger.Info(ctx, "post deleted", "post_id", postID)
		return nil, nil
	})
	return err
}

// coalesce runs fn once per key at a time; callers arriving while it runs
// wait for and share its outcome. fn runs with the first caller's context.
//
// A caller whose own context ends stops waiting and gets a cancellation or
// timeout failure, but the shared call keeps running and may still apply its
// result to the controller state afterwards.
func (c *FeedController) coalesce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.calls.DoChan(key, func() (any, error) {
		c.mu.Lock()
		c.inFlight++
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			c.inFlight--
			c.mu.Unlock()
		}()
		return fn(ctx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug(ctx, "request coalesced", "key", strings.ReplaceAll(key, "\x00", " "))
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, normalize(ctx.Err(), msgLoadFailed)
	}
}

func (c *FeedController) reject(msg string) error {
	f := models.NewValidationFailure(msg)
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
	return f
}

func (c *FeedController) failed(ctx context.Context, f *models.Failure) error {
	c.mu.Lock()
	c.lastErr = f.Message
	c.mu.Unlock()
	c.logger.Warn(ctx, "feed operation failed", "kind", f.Kind.String(), "message", f.Message, "error", f.Err)
	return f
}

func (c *FeedController) indexLocked(id string) int {
	return slices.IndexFunc(c.posts, func(p models.Post) bool { return p.ID == id })
}

// dedupe keeps the first occurrence of every id, preserving order.
func dedupe(posts []models.Post) []models.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		p.Normalize()
		out = append(out, p)
	}
	return out
}
