package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

type fakeSession struct {
	snap models.Session

	loginArgs    []string
	registerArgs []string
	profileArgs  []string
	result       models.Result
	refresh      models.Status
	logoutCalls  int
}

func (f *fakeSession) Bootstrap(ctx context.Context) models.Status { return f.snap.Status }
func (f *fakeSession) Refresh(ctx context.Context) models.Status   { return f.refresh }
func (f *fakeSession) Login(ctx context.Context, email, password string) models.Result {
	f.loginArgs = []string{email, password}
	if f.result.Success {
		f.snap = models.Session{Status: models.StatusAuthenticated, User: &models.User{ID: "u1", Name: "Alice"}}
	}
	return f.result
}
func (f *fakeSession) Register(ctx context.Context, name, email, password string) models.Result {
	f.registerArgs = []string{name, email, password}
	if f.result.Success {
		f.snap = models.Session{Status: models.StatusAuthenticated, User: &models.User{ID: "u1", Name: name}}
	}
	return f.result
}
func (f *fakeSession) Logout(ctx context.Context) {
	f.logoutCalls++
	f.snap = models.Session{Status: models.StatusUnauthenticated}
}
func (f *fakeSession) UpdateProfile(ctx context.Context, name, bio string) models.Result {
	f.profileArgs = []string{name, bio}
	return f.result
}
func (f *fakeSession) Snapshot() models.Session { return f.snap }
func (f *fakeSession) ClearError()              {}

type fakeFeed struct {
	posts    []models.Post
	stats    models.FeedStats
	loadErr  error
	likeOut  models.Post
	err      error
	created  []string
	liked    []string
	deleted  []string
	loadCall int
}

func (f *fakeFeed) LoadFeed(ctx context.Context) error {
	f.loadCall++
	return f.loadErr
}
func (f *fakeFeed) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	f.created = []string{title, content}
	if f.err != nil {
		return models.Post{}, f.err
	}
	return models.Post{ID: "new1", Title: title, Content: content}, nil
}
func (f *fakeFeed) ToggleLike(ctx context.Context, postID string) (models.Post, error) {
	f.liked = append(f.liked, postID)
	return f.likeOut, f.err
}
func (f *fakeFeed) DeletePost(ctx context.Context, postID string) error {
	f.deleted = append(f.deleted, postID)
	return f.err
}
func (f *fakeFeed) Posts() []models.Post { return f.posts }
func (f *fakeFeed) Post(id string) (models.Post, bool) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}
func (f *fakeFeed) Stats() models.FeedStats { return f.stats }

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(s *fakeSession, f *fakeFeed, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		session: s,
		feed:    f,
		logger:  logging.NewNopLogger(),
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &out,
		now:     func() time.Time { return fixedNow },
	}, &out
}

func loggedIn() *fakeSession {
	return &fakeSession{snap: models.Session{
		Status: models.StatusAuthenticated,
		User:   &models.User{ID: "u1", Name: "Alice Smith", Email: "alice@example.com", Bio: "hi"},
	}}
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(string, io.Writer) (string, error) {
		pw := pws[i]
		i++
		return pw, nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func TestLogin_SuccessLoadsFeed(t *testing.T) {
	stubPasswords(t, "secret1")
	s := &fakeSession{result: models.OK()}
	f := &fakeFeed{}
	a, out := newTestApp(s, f, "alice@example.com\n")

	require.NoError(t, a.Login(context.Background()))

	assert.Equal(t, []string{"alice@example.com", "secret1"}, s.loginArgs)
	assert.Equal(t, 1, f.loadCall)
	assert.Contains(t, out.String(), "Signed in as Alice")
	assert.Contains(t, out.String(), "No posts yet")
}

func TestLogin_FailureShowsServerMessage(t *testing.T) {
	stubPasswords(t, "wrong")
	s := &fakeSession{result: models.Result{Message: "Invalid credentials", Kind: models.KindRejected}}
	a, out := newTestApp(s, &fakeFeed{}, "alice@example.com\n")

	err := a.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, out.String(), "Login failed: Invalid credentials")
}

func TestLogin_EmptyEmailIsRejectedLocally(t *testing.T) {
	stubPasswords(t, "secret1")
	s := &fakeSession{result: models.OK()}
	a, _ := newTestApp(s, &fakeFeed{}, "\n")

	err := a.Login(context.Background())

	assert.ErrorIs(t, err, errLoginEmailRequired)
	assert.Nil(t, s.loginArgs)
}

func TestRegister_ValidatesBeforeCallingServer(t *testing.T) {
	stubPasswords(t, "secret1", "secret2")
	s := &fakeSession{result: models.OK()}
	a, out := newTestApp(s, &fakeFeed{}, "Alice\nalice@example.com\n")

	err := a.Register(context.Background())

	assert.ErrorIs(t, err, errPasswordMismatch)
	assert.Nil(t, s.registerArgs)
	assert.Contains(t, out.String(), "Passwords do not match.")
}

func TestRegister_Success(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	s := &fakeSession{result: models.OK()}
	a, out := newTestApp(s, &fakeFeed{}, "Alice\nalice@example.com\n")

	require.NoError(t, a.Register(context.Background()))

	assert.Equal(t, []string{"Alice", "alice@example.com", "secret1"}, s.registerArgs)
	assert.Contains(t, out.String(), "Welcome, Alice!")
}

func TestLogout(t *testing.T) {
	s := loggedIn()
	a, _ := newTestApp(s, &fakeFeed{}, "")

	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Logout(context.Background()))

	assert.Equal(t, 2, s.logoutCalls)
	assert.False(t, a.isLoggedIn())
}

func TestWhoAmI(t *testing.T) {
	a, out := newTestApp(loggedIn(), &fakeFeed{}, "")

	require.NoError(t, a.WhoAmI(context.Background()))

	assert.Equal(t, "[AS] Alice Smith <alice@example.com>\nhi\n", out.String())
}

func TestProfile_EmptyAnswersKeepCurrentValues(t *testing.T) {
	s := loggedIn()
	s.result = models.OK()
	a, out := newTestApp(s, &fakeFeed{}, "\nNew bio\n")

	require.NoError(t, a.Profile(context.Background()))

	assert.Equal(t, []string{"Alice Smith", "New bio"}, s.profileArgs)
	assert.Contains(t, out.String(), "Profile updated")
}

func TestRefresh_InvalidSession(t *testing.T) {
	s := loggedIn()
	s.refresh = models.StatusUnauthenticated
	a, out := newTestApp(s, &fakeFeed{}, "")

	assert.ErrorIs(t, a.Refresh(context.Background()), errNotLoggedIn)
	assert.Contains(t, out.String(), "please log in again")
}

func TestFeed_RendersPosts(t *testing.T) {
	f := &fakeFeed{posts: []models.Post{{
		ID:        "p1",
		Author:    models.Author{ID: "u2", Name: "Bob Jones"},
		Title:     "Hello",
		Content:   "first line\nsecond line",
		Likes:     []string{"u1"},
		CreatedAt: fixedNow.Add(-90 * time.Minute),
	}}}
	a, out := newTestApp(loggedIn(), f, "")

	require.NoError(t, a.Feed(context.Background()))

	want := "[BJ] Bob Jones · 1 hours ago · id=p1\n" +
		"  Hello\n" +
		"  first line\n" +
		"  second line\n" +
		"  ♥ 1  💬 0\n"
	assert.Equal(t, want, out.String())
}

func TestFeed_LoadErrorIsPrinted(t *testing.T) {
	f := &fakeFeed{loadErr: &models.Failure{Kind: models.KindTransport, Message: "Unable to reach the server."}}
	a, out := newTestApp(loggedIn(), f, "")

	require.Error(t, a.Feed(context.Background()))
	assert.Equal(t, "Unable to reach the server.\n", out.String())
}

func TestPost_ReadsTitleAndBody(t *testing.T) {
	f := &fakeFeed{}
	a, out := newTestApp(loggedIn(), f, "My title\nline one\nline two\n\n")

	require.NoError(t, a.Post(context.Background()))

	assert.Equal(t, []string{"My title", "line one\nline two"}, f.created)
	assert.Contains(t, out.String(), "Posted (id=new1)")
}

func TestLike_UsageAndResult(t *testing.T) {
	f := &fakeFeed{likeOut: models.Post{ID: "p1", Likes: []string{"u1"}}}
	a, out := newTestApp(loggedIn(), f, "")

	assert.ErrorIs(t, a.Like(context.Background(), nil), errUsage)
	require.NoError(t, a.Like(context.Background(), []string{"p1"}))

	assert.Equal(t, []string{"p1"}, f.liked)
	assert.Contains(t, out.String(), "Liked (1 likes)")
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	f := &fakeFeed{posts: []models.Post{{ID: "p1", Title: "Old news"}}}
	a, out := newTestApp(loggedIn(), f, "n\ny\n")

	require.NoError(t, a.Delete(context.Background(), []string{"p1"}))
	assert.Empty(t, f.deleted)
	assert.Contains(t, out.String(), `Delete "Old news"?`)
	assert.Contains(t, out.String(), "Cancelled")

	require.NoError(t, a.Delete(context.Background(), []string{"p1"}))
	assert.Equal(t, []string{"p1"}, f.deleted)
	assert.Contains(t, out.String(), "Deleted")
}

func TestStats(t *testing.T) {
	f := &fakeFeed{stats: models.FeedStats{TotalPosts: 3, TotalUsers: 2, TotalLikes: 3}}
	a, out := newTestApp(loggedIn(), f, "")

	require.NoError(t, a.Stats(context.Background()))
	assert.Equal(t, "Posts: 3  Users: 2  Likes: 3\n", out.String())
}
