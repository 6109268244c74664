// Package services contains application services for the GophFeed client:
// the session store (identity and credential) and the feed controller
// (materialized posts and their stats).
package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// SessionAPI is the part of the remote API the session store talks to.
type SessionAPI interface {
	SetToken(token string)
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) (*client.AuthPayload, error)
	Register(ctx context.Context, name, email, password string) (*client.AuthPayload, error)
	UpdateProfile(ctx context.Context, name, bio string) (*models.User, error)
}

// SessionStore owns the current user and bearer token.
//
// A store starts in StatusInitializing and leaves it on the first Bootstrap.
// Every public operation converts failures into a models.Result; nothing
// panics or returns raw transport errors. State changes are applied under a
// lock and published to subscribers before the operation returns.
type SessionStore struct {
	api    SessionAPI
	tokens TokenStore
	logger logging.Logger
	now    func() time.Time

	// persistMu pairs each write to the token store with the state change
	// that goes with it, so the session and the persisted token agree.
	persistMu sync.Mutex

	mu        sync.RWMutex
	state     models.Session
	epoch     uint64
	observers []func(models.Session)
}

func NewSessionStore(api SessionAPI, tokens TokenStore, logger logging.Logger) *SessionStore {
	return &SessionStore{
		api:    api,
		tokens: tokens,
		logger: logger.With("module", "session"),
		now:    time.Now,
		state:  models.Session{Status: models.StatusInitializing},
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn must not call Login, Register, Logout or Bootstrap.
func (s *SessionStore) Subscribe(fn func(models.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns a copy of the current session.
func (s *SessionStore) Snapshot() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() models.Session {
	snap := s.state
	if s.state.User != nil {
		u := *s.state.User
		snap.User = &u
	}
	return snap
}

// update applies fn under the lock and notifies observers. When fn returns
// false the change is discarded and nobody is notified.
func (s *SessionStore) update(fn func(st *models.Session) bool) bool {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return false
	}
	snap := s.snapshotLocked()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
	return true
}

func (s *SessionStore) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Bootstrap validates the persisted credential. With no credential, or with
// one the server refuses for any reason, the credential is dropped and the
// session becomes unauthenticated. It never leaves the session initializing.
func (s *SessionStore) Bootstrap(ctx context.Context) models.Status {
	epoch := s.currentEpoch()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to read persisted token", "error", err)
		s.dropCredential(ctx, epoch)
		return s.Snapshot().Status
	}
	if token == "" {
		s.dropCredential(ctx, epoch)
		return s.Snapshot().Status
	}
	if s.tokenExpired(token) {
		s.logger.Info(ctx, "persisted token expired, discarding")
		s.dropCredential(ctx, epoch)
		return s.Snapshot().Status
	}

	s.api.SetToken(token)
	user, err := s.api.Me(ctx)
	if err != nil {
		s.logger.Warn(ctx, "auth check failed", "error", err)
		s.dropCredential(ctx, epoch)
		return s.Snapshot().Status
	}

	applied := s.update(func(st *models.Session) bool {
		if s.epoch != epoch {
			return false
		}
		st.User = user
		st.Token = token
		st.Status = models.StatusAuthenticated
		return true
	})
	if !applied {
		s.logger.Debug(ctx, "session changed during auth check, result discarded")
	}
	return s.Snapshot().Status
}

// Refresh re-validates the current credential; see Bootstrap.
func (s *SessionStore) Refresh(ctx context.Context) models.Status {
	return s.Bootstrap(ctx)
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens are never considered expired locally.
func (s *SessionStore) tokenExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.After(s.now())
}

// dropCredential clears the persisted token and marks the session
// unauthenticated, unless a newer operation already moved the session on.
func (s *SessionStore) dropCredential(ctx context.Context, epoch uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.currentEpoch() != epoch {
		return
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear persisted token", "error", err)
	}
	s.update(func(st *models.Session) bool {
		if s.epoch != epoch {
			return false
		}
		s.api.SetToken("")
		st.User = nil
		st.Token = ""
		st.Status = models.StatusUnauthenticated
		return true
	})
}

// Login authenticates with email and password. Inputs are not validated
// here; that is the caller's job.
func (s *SessionStore) Login(ctx context.Context, email, password string) models.Result {
	s.begin()

	payload, err := s.api.Login(ctx, email, password)
	if err != nil {
		return s.fail(ctx, "login", normalize(err, msgLoginFailed))
	}
	if err := s.establish(ctx, payload); err != nil {
		return s.fail(ctx, "login", err)
	}

	s.logger.Info(ctx, "logged in", "user_id", payload.User.ID)
	return models.OK()
}

// Register creates an account and signs into it.
func (s *SessionStore) Register(ctx context.Context, name, email, password string) models.Result {
	s.begin()

	payload, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return s.fail(ctx, "register", normalize(err, msgRegisterFailed))
	}
	if err := s.establish(ctx, payload); err != nil {
		return s.fail(ctx, "register", err)
	}

	s.logger.Info(ctx, "registered", "user_id", payload.User.ID)
	return models.OK()
}

// establish persists the token and only then flips the session to
// authenticated.
func (s *SessionStore) establish(ctx context.Context, payload *client.AuthPayload) *models.Failure {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.tokens.Save(ctx, payload.Token); err != nil {
		return &models.Failure{Kind: models.KindStorage, Message: msgSaveSession, Err: err}
	}

	user := payload.User
	s.update(func(st *models.Session) bool {
		s.epoch++
		s.api.SetToken(payload.Token)
		st.User = &user
		st.Token = payload.Token
		st.Status = models.StatusAuthenticated
		st.Loading = false
		st.Error = ""
		return true
	})
	return nil
}

// Logout drops the credential and the user. It always succeeds and may be
// called any number of times.
func (s *SessionStore) Logout(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear persisted token", "error", err)
	}
	s.update(func(st *models.Session) bool {
		s.epoch++
		s.api.SetToken("")
		st.User = nil
		st.Token = ""
		st.Status = models.StatusUnauthenticated
		st.Loading = false
		st.Error = ""
		return true
	})
	s.logger.Info(ctx, "logged out")
}

// UpdateProfile replaces the user's name and bio. The token is kept; on
// failure the previous user stays in place. Without a signed-in user it
// fails without calling the server.
func (s *SessionStore) UpdateProfile(ctx context.Context, name, bio string) models.Result {
	if s.Snapshot().Status != models.StatusAuthenticated {
		return s.fail(ctx, "profile update", models.NewValidationFailure(msgNotSignedIn))
	}
	s.begin()

	user, err := s.api.UpdateProfile(ctx, name, bio)
	if err != nil {
		return s.fail(ctx, "profile update", normalize(err, msgProfileFailed))
	}

	applied := s.update(func(st *models.Session) bool {
		if st.Status != models.StatusAuthenticated {
			return false
		}
		st.User = user
		st.Loading = false
		st.Error = ""
		return true
	})
	if !applied {
		return s.fail(ctx, "profile update", models.NewValidationFailure(msgNotSignedIn))
	}
	return models.OK()
}

// ClearError forgets the last failure message.
func (s *SessionStore) ClearError() {
	s.update(func(st *models.Session) bool {
		if st.Error == "" {
			return false
		}
		st.Error = ""
		return true
	})
}

func (s *SessionStore) begin() {
	s.update(func(st *models.Session) bool {
		st.Loading = true
		st.Error = ""
		return true
	})
}

func (s *SessionStore) fail(ctx context.Context, op string, f *models.Failure) models.Result {
	s.logger.Error(ctx, op+" failed", "kind", f.Kind.String(), "message", f.Message, "error", f.Err)
	s.update(func(st *models.Session) bool {
		st.Loading = false
		st.Error = f.Message
		return true
	})
	return models.ResultFrom(f)
}
