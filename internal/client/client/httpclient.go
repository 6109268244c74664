package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/common"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 4 << 20

// envelope is the JSON shape of every non-list response.
type envelope struct {
	Success *bool        `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
	Post    *models.Post `json:"post"`
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds a client for the backend at baseURL. Every request is
// bounded by timeout; a zero timeout leaves only the caller's context in
// charge.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", baseURL)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	env, err := c.doEnvelope(ctx, http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}
	return env.User, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	req := map[string]string{"email": email, "password": password}
	env, err := c.doEnvelope(ctx, http.MethodPost, "/api/auth/login", req)
	if err != nil {
		return nil, err
	}
	return authPayload(env)
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthPayload, error) {
	req := map[string]string{"name": name, "email": email, "password": password}
	env, err := c.doEnvelope(ctx, http.MethodPost, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}
	return authPayload(env)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, name, bio string) (*models.User, error) {
	req := map[string]string{"name": name, "bio": bio}
	env, err := c.doEnvelope(ctx, http.MethodPut, "/api/users/profile", req)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}
	return env.User, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil {
		return nil, err
	}

	var posts []models.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, status, err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, title, content string) (*models.Post, error) {
	req := map[string]string{"title": title, "content": content}
	env, err := c.doEnvelope(ctx, http.MethodPost, "/api/posts", req)
	if err != nil {
		return nil, err
	}
	return envelopePost(env)
}

func (c *HTTPClient) ToggleLike(ctx context.Context, postID string) (*models.Post, error) {
	env, err := c.doEnvelope(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(postID)+"/like", nil)
	if err != nil {
		return nil, err
	}
	return envelopePost(env)
}

func (c *HTTPClient) DeletePost(ctx context.Context, postID string) error {
	_, err := c.doEnvelope(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID), nil)
	return err
}

func authPayload(env *envelope) (*AuthPayload, error) {
	if env.Token == "" || env.User == nil {
		return nil, fmt.Errorf("%w: missing token or user", ErrMalformedResponse)
	}
	return &AuthPayload{Token: env.Token, User: *env.User}, nil
}

func envelopePost(env *envelope) (*models.Post, error) {
	if env.Post == nil {
		return nil, fmt.Errorf("%w: missing post", ErrMalformedResponse)
	}
	env.Post.Normalize()
	return env.Post, nil
}

// doEnvelope performs a request whose 2xx answer is an envelope and turns
// success=false into *APIError.
func (c *HTTPClient) doEnvelope(ctx context.Context, method, path string, payload any) (*envelope, error) {
	status, body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	env := &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrMalformedResponse, status, err)
	}
	if env.Success == nil || !*env.Success {
		return nil, &APIError{StatusCode: status, Message: env.Message}
	}
	return env, nil
}

// do sends the request and returns the body of a 2xx answer. Non-2xx answers
// are mapped to *APIError when the body carries a structured failure, or to a
// sentinel otherwise.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, c.mapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, c.mapError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, body, nil
	}

	return resp.StatusCode, nil, mapStatus(resp.StatusCode, body)
}

func mapStatus(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Success != nil || env.Message != "") {
		return &APIError{StatusCode: status, Message: env.Message}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, status)
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return fmt.Errorf("%w: status %d", ErrUnexpectedStatus, status)
	}
}

func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
