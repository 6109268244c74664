// Package httpapi exposes the user and post services as a REST/JSON API
// served by gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophfeed/internal/logging"
	"github.com/dmitrijs2005/gophfeed/internal/server/models"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type userService interface {
	Register(ctx context.Context, name, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name, bio string) (*models.User, error)
	Authenticate(token string) (string, error)
}

type postService interface {
	List(ctx context.Context) ([]models.Post, error)
	Create(ctx context.Context, userID, title, content, image string) (*models.Post, error)
	ToggleLike(ctx context.Context, userID, postID string) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
}

type HTTPServer struct {
	address string
	users   userService
	posts   postService
	logger  logging.Logger
	engine  *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, us userService, ps postService, allowedOrigins []string) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	s := &HTTPServer{
		address: address,
		users:   us,
		posts:   ps,
		logger:  l.With("module", "http_server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.Use(cors.New(corsConfig(allowedOrigins)))

	s.routes(engine)
	s.engine = engine
	return s
}

// corsConfig allows the given origins. An empty list or "*" allows any
// origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func (s *HTTPServer) routes(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", s.health)
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	protected := api.Group("")
	protected.Use(s.authRequired())
	protected.GET("/auth/me", s.me)
	protected.PUT("/users/profile", s.updateProfile)
	protected.GET("/posts", s.listPosts)
	protected.POST("/posts", s.createPost)
	protected.PUT("/posts/:id/like", s.toggleLike)
	protected.DELETE("/posts/:id", s.deletePost)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Message: "Route not found"})
	})
}

// Handler exposes the router, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done and then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
