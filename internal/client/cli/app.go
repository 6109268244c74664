package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/config"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophfeed/internal/client/services"
	"github.com/dmitrijs2005/gophfeed/internal/filex"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionService is the slice of services.SessionStore the CLI uses.
type sessionService interface {
	Bootstrap(ctx context.Context) models.Status
	Refresh(ctx context.Context) models.Status
	Login(ctx context.Context, email, password string) models.Result
	Register(ctx context.Context, name, email, password string) models.Result
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, name, bio string) models.Result
	Snapshot() models.Session
	ClearError()
}

// feedService is the slice of services.FeedController the CLI uses.
type feedService interface {
	LoadFeed(ctx context.Context) error
	CreatePost(ctx context.Context, title, content string) (models.Post, error)
	ToggleLike(ctx context.Context, postID string) (models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	Posts() []models.Post
	Post(id string) (models.Post, bool)
	Stats() models.FeedStats
}

type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	api     client.Client
	db      *sql.DB
	session sessionService
	feed    feedService
	pinger  pinger
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp wires the local session database, the API client and the session
// and feed services.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, fmt.Errorf("error preparing database directory: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	tokens := services.NewMetadataTokenStore(metadata.NewSQLiteRepository(db))

	return &App{
		config:  c,
		api:     apiClient,
		db:      db,
		session: services.NewSessionStore(apiClient, tokens, logger),
		feed:    services.NewFeedController(apiClient, logger),
		pinger:  apiClient,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		now:     time.Now,
	}, nil
}

// Close releases the API client and the local database.
func (a *App) Close() error {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Run validates the persisted session, starts the connectivity watcher and
// blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.printf("Welcome to GophFeed CLI (type 'help' for commands)\n")

	if a.session.Bootstrap(ctx) == models.StatusAuthenticated {
		a.printf("Signed in as %s\n", a.session.Snapshot().User.Name)
		_ = a.Feed(ctx)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated()
}

func (a *App) Mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

// getStatus renders the prompt prefix, e.g. "(Alice online)".
func (a *App) getStatus() string {
	s := ""
	if snap := a.session.Snapshot(); snap.User != nil {
		s = snap.User.Name + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and flips the
// connectivity mode accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.pinger.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
