package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

// fakeFeedAPI behaves like a tiny backend: it keeps posts newest first and
// toggles likes on behalf of a single user.
type fakeFeedAPI struct {
	mu     sync.Mutex
	userID string
	posts  []models.Post
	nextID int

	listErr   error
	createErr error
	likeErr   error
	deleteErr error

	likeGate chan struct{}

	listCalls   int
	createCalls int
	likeCalls   int
	deleteCalls int
}

func newFakeFeedAPI(userID string, posts ...models.Post) *fakeFeedAPI {
	return &fakeFeedAPI{userID: userID, posts: posts}
}

func (f *fakeFeedAPI) ListPosts(ctx context.Context) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Post, len(f.posts))
	for i, p := range f.posts {
		out[i] = p.Clone()
	}
	return out, nil
}

func (f *fakeFeedAPI) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	p := models.Post{
		ID:        fmt.Sprintf("p-new-%d", f.nextID),
		Author:    models.Author{ID: f.userID, Name: "Me"},
		Title:     title,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.posts = append([]models.Post{p}, f.posts...)
	c := p.Clone()
	return &c, nil
}

func (f *fakeFeedAPI) ToggleLike(ctx context.Context, postID string) (*models.Post, error) {
	f.mu.Lock()
	f.likeCalls++
	gate := f.likeGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return nil, f.likeErr
	}
	i := slices.IndexFunc(f.posts, func(p models.Post) bool { return p.ID == postID })
	if i < 0 {
		return nil, &client.APIError{StatusCode: 404, Message: "Post not found"}
	}
	p := &f.posts[i]
	if j := slices.Index(p.Likes, f.userID); j >= 0 {
		p.Likes = slices.Delete(slices.Clone(p.Likes), j, j+1)
	} else {
		p.Likes = append(slices.Clone(p.Likes), f.userID)
	}
	c := p.Clone()
	return &c, nil
}

func (f *fakeFeedAPI) DeletePost(ctx context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.posts = slices.DeleteFunc(f.posts, func(p models.Post) bool { return p.ID == postID })
	return nil
}

func (f *fakeFeedAPI) calls() (list, create, like, del int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls, f.createCalls, f.likeCalls, f.deleteCalls
}

func post(id, author string, likes ...string) models.Post {
	return models.Post{
		ID:      id,
		Author:  models.Author{ID: author, Name: author},
		Content: "content of " + id,
		Likes:   likes,
	}
}

func loadedController(t *testing.T, api *fakeFeedAPI) *FeedController {
	t.Helper()
	c := NewFeedController(api, logging.NewNopLogger())
	require.NoError(t, c.LoadFeed(context.Background()))
	return c
}

func requireFailure(t *testing.T, err error, kind models.FailureKind) *models.Failure {
	t.Helper()
	require.Error(t, err)
	f, ok := err.(*models.Failure)
	require.True(t, ok, "expected *models.Failure, got %T", err)
	require.Equal(t, kind, f.Kind)
	return f
}

func TestLoadFeed_ReplacesPostsAndComputesStats(t *testing.T) {
	api := newFakeFeedAPI("U1",
		post("p1", "A", "U1"),
		post("p2", "B", "U1", "U2"),
		post("p3", "A"),
	)
	c := loadedController(t, api)

	posts := c.Posts()
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(posts))
	assert.Equal(t, models.FeedStats{TotalPosts: 3, TotalUsers: 2, TotalLikes: 3}, c.Stats())
	assert.Empty(t, c.Error())
	assert.False(t, c.Loading())
}

func TestLoadFeed_FailureKeepsPostsAndResetsStats(t *testing.T) {
	api := newFakeFeedAPI("U1", post("p1", "A", "U1"))
	c := loadedController(t, api)
	before := c.Posts()

	api.listErr = client.ErrUnavailable
	err := c.LoadFeed(context.Background())

	f := requireFailure(t, err, models.KindTransport)
	assert.Equal(t, msgUnavailable, f.Message)
	assert.Equal(t, before, c.Posts())
	assert.Equal(t, models.FeedStats{}, c.Stats())
	assert.Equal(t, msgUnavailable, c.Error())
}

func TestLoadFeed_DropsDuplicateIDsAndFillsDefaults(t *testing.T) {
	dup := post("p1", "A")
	dup.Content = "second copy"
	api := newFakeFeedAPI("U1", post("p1", "A"), dup)

	c := loadedController(t, api)

	posts := c.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "content of p1", posts[0].Content)
	assert.NotNil(t, posts[0].Likes)
	assert.NotNil(t, posts[0].Comments)
	assert.False(t, posts[0].HasImage())
}

func TestCreatePost_BlankInputRejectedLocally(t *testing.T) {
	cases := []struct {
		title, content, want string
	}{
		{"", "x", msgEmptyTitle},
		{"  ", "x", msgEmptyTitle},
		{"title", "", msgEmptyContent},
		{"title", " \t\n", msgEmptyContent},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q/%q", tc.title, tc.content), func(t *testing.T) {
			api := newFakeFeedAPI("U1")
			c := NewFeedController(api, logging.NewNopLogger())

			_, err := c.CreatePost(context.Background(), tc.title, tc.content)

			f := requireFailure(t, err, models.KindValidation)
			assert.Equal(t, tc.want, f.Message)
			_, creates, _, _ := api.calls()
			assert.Zero(t, creates)
			assert.Empty(t, c.Posts())
		})
	}
}

func TestCreatePost_PrependsServerRecordAndTrims(t *testing.T) {
	api := newFakeFeedAPI("U1", post("p1", "A", "U1"))
	c := loadedController(t, api)

	created, err := c.CreatePost(context.Background(), "  Hello ", " World  ")
	require.NoError(t, err)

	assert.Equal(t, "Hello", created.Title)
	assert.Equal(t, "World", created.Content)

	posts := c.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, created.ID, posts[0].ID)
	assert.Equal(t, "p1", posts[1].ID)
	assert.Equal(t, models.FeedStats{TotalPosts: 2, TotalUsers: 2, TotalLikes: 1}, c.Stats())
}

func TestCreatePost_ThenLoadContainsItExactlyOnce(t *testing.T) {
	api := newFakeFeedAPI("U1", post("p1", "A"))
	c := loadedController(t, api)

	created, err := c.CreatePost(context.Background(), "Title", "Body")
	require.NoError(t, err)
	require.NoError(t, c.LoadFeed(context.Background()))

	var matches []models.Post
	for _, p := range c.Posts() {
		if p.ID == created.ID {
			matches = append(matches, p)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, "Title", matches[0].Title)
	assert.Equal(t, "Body", matches[0].Content)
}

func TestCreatePost_ServerRejectionLeavesFeed(t *testing.T) {
	api := newFakeFeedAPI("U1", post("p1", "A"))
	c := loadedController(t, api)
	before := c.Posts()

	api.createErr = &client.APIError{StatusCode: 400, Message: "Content is required"}
	_, err := c.CreatePost(context.Background(), "t", "c")

	f := requireFailure(t, err, models.KindRejected)
	assert.Equal(t, "Content is required", f.Message)
	assert.Equal(t, before, c.Posts())
}

func TestToggleLike_IsItsOwnInverse(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)

	liked, err := c.ToggleLike(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"U"}, liked.Likes)
	assert.Equal(t, 1, c.Stats().TotalLikes)

	unliked, err := c.ToggleLike(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, unliked.Likes)
	assert.Equal(t, 0, c.Stats().TotalLikes)
}

func TestToggleLike_ReplacesInPlacePreservingOrder(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A"), post("p2", "B"), post("p3", "C"))
	c := loadedController(t, api)

	_, err := c.ToggleLike(context.Background(), "p2")
	require.NoError(t, err)

	posts := c.Posts()
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(posts))
	assert.True(t, posts[1].IsLikedBy("U"))
	assert.False(t, posts[0].IsLikedBy("U"))
}

func TestToggleLike_UnknownPostRejectedLocally(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)

	_, err := c.ToggleLike(context.Background(), "nope")

	f := requireFailure(t, err, models.KindValidation)
	assert.Equal(t, msgUnknownPost, f.Message)
	_, _, likes, _ := api.calls()
	assert.Zero(t, likes)
}

func TestToggleLike_DuplicateWhileInFlightReachesServerOnce(t *testing.T) {
	gate := make(chan struct{})
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)
	api.likeGate = gate

	var wg sync.WaitGroup
	results := make([]models.Post, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.ToggleLike(context.Background(), "p1")
		}()
		if i == 0 {
			require.Eventually(t, c.Loading, time.Second, time.Millisecond)
		}
	}

	// give the second caller time to join the outstanding call
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	_, _, likes, _ := api.calls()
	assert.Equal(t, 1, likes)
	assert.True(t, c.Posts()[0].IsLikedBy("U"))
	assert.False(t, c.Loading())
}

func TestToggleLike_FailureLeavesPost(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)
	api.likeErr = client.ErrTimeout

	_, err := c.ToggleLike(context.Background(), "p1")

	f := requireFailure(t, err, models.KindTransport)
	assert.Equal(t, msgTimeout, f.Message)
	assert.Empty(t, c.Posts()[0].Likes)
}

func TestDeletePost_RemovesOnSuccess(t *testing.T) {
	api := newFakeFeedAPI("A", post("p1", "A"), post("p2", "B", "A"))
	c := loadedController(t, api)

	require.NoError(t, c.DeletePost(context.Background(), "p1"))

	assert.Equal(t, []string{"p2"}, ids(c.Posts()))
	assert.Equal(t, models.FeedStats{TotalPosts: 1, TotalUsers: 1, TotalLikes: 1}, c.Stats())
}

func TestDeletePost_FailureLeavesFeedUnchanged(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A", "U"), post("p2", "B"))
	c := loadedController(t, api)
	before := c.Posts()
	statsBefore := c.Stats()

	api.deleteErr = &client.APIError{StatusCode: 403, Message: "Not authorized to delete this post"}
	err := c.DeletePost(context.Background(), "p1")

	f := requireFailure(t, err, models.KindRejected)
	assert.Equal(t, "Not authorized to delete this post", f.Message)
	assert.Equal(t, before, c.Posts())
	assert.Equal(t, statsBefore, c.Stats())
	assert.Equal(t, f.Message, c.Error())

	c.ClearError()
	assert.Empty(t, c.Error())
}

func TestPosts_ReturnsCopies(t *testing.T) {
	api := newFakeFeedAPI("U", post("p1", "A", "U"))
	c := loadedController(t, api)

	posts := c.Posts()
	posts[0].Likes[0] = "mallory"
	posts[0].Content = "changed"

	fresh := c.Posts()
	assert.Equal(t, []string{"U"}, fresh[0].Likes)
	assert.Equal(t, "content of p1", fresh[0].Content)
}

func TestCoalesce_CancelledWaiterReturnsTransportFailure(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)
	api.likeGate = gate

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ToggleLike(ctx, "p1")

	f := requireFailure(t, err, models.KindTransport)
	assert.Equal(t, msgCancelled, f.Message)
}

func TestCoalesce_AbandonedWaiterStillSeesSharedResultApplied(t *testing.T) {
	gate := make(chan struct{})
	api := newFakeFeedAPI("U", post("p1", "A"))
	c := loadedController(t, api)
	api.likeGate = gate

	ownerDone := make(chan error)
	go func() {
		_, err := c.ToggleLike(context.Background(), "p1")
		ownerDone <- err
	}()
	require.Eventually(t, c.Loading, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.ToggleLike(ctx, "p1")

	f := requireFailure(t, err, models.KindTransport)
	assert.Equal(t, msgTimeout, f.Message)
	assert.False(t, c.Posts()[0].IsLikedBy("U"))

	close(gate)
	require.NoError(t, <-ownerDone)

	assert.True(t, c.Posts()[0].IsLikedBy("U"))
	_, _, likes, _ := api.calls()
	assert.Equal(t, 1, likes)
}

func ids(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}
