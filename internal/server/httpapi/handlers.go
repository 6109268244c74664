package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/server/services"
)

const (
	msgBadRequest  = "Invalid request body"
	msgServerError = "Server error"
)

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: msgBadRequest})
		return
	}

	res, err := s.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, envelope{Success: true, Token: res.Token, User: toUserDTO(res.User)})
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: msgBadRequest})
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Token: res.Token, User: toUserDTO(res.User)})
}

func (s *HTTPServer) me(c *gin.Context) {
	user, err := s.users.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, User: toUserDTO(user)})
}

func (s *HTTPServer) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: msgBadRequest})
		return
	}

	user, err := s.users.UpdateProfile(c.Request.Context(), currentUserID(c), req.Name, req.Bio)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, User: toUserDTO(user)})
}

// listPosts answers with a bare array, newest first.
func (s *HTTPServer) listPosts(c *gin.Context) {
	list, err := s.posts.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}

	out := make([]*postDTO, 0, len(list))
	for i := range list {
		out = append(out, toPostDTO(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *HTTPServer) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: msgBadRequest})
		return
	}

	post, err := s.posts.Create(c.Request.Context(), currentUserID(c), req.Title, req.Content, req.Image)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, envelope{Success: true, Post: toPostDTO(post)})
}

func (s *HTTPServer) toggleLike(c *gin.Context) {
	post, err := s.posts.ToggleLike(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Post: toPostDTO(post)})
}

func (s *HTTPServer) deletePost(c *gin.Context) {
	if err := s.posts.Delete(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Message: "Post deleted"})
}

// fail writes err as an unsuccessful envelope. Only service errors meant for
// callers carry their message; everything else is logged and reported as a
// generic server error.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	var pe *services.PublicError
	if !errors.As(err, &pe) {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, envelope{Message: msgServerError})
		return
	}
	c.JSON(statusFor(pe.Kind), envelope{Message: pe.Message})
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, common.ErrorValidation), errors.Is(kind, common.ErrorAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(kind, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(kind, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
