package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophfeed/internal/client/client"
	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

const (
	msgTimeout      = "The server took too long to respond. Please try again."
	msgUnavailable  = "Unable to reach the server. Please check your connection and try again."
	msgUnauthorized = "Your session has expired. Please log in again."
	msgCancelled    = "The request was cancelled."

	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgProfileFailed  = "Profile update failed"
	msgSaveSession    = "Unable to save your session. Please try again."
	msgNotSignedIn    = "Please log in first."

	msgLoadFailed   = "Failed to load posts."
	msgCreateFailed = "Failed to create post."
	msgLikeFailed   = "Failed to like post."
	msgDeleteFailed = "Failed to delete post."
	msgEmptyTitle   = "Please enter a title for your post."
	msgEmptyContent = "Please enter some content for your post."
	msgUnknownPost  = "This post is no longer in your feed."
)

// normalize converts any error coming out of the API client into a Failure
// with a message fit for the user. Server-supplied messages pass through
// verbatim; transport problems get a generic message; everything else gets
// fallback.
func normalize(err error, fallback string) *models.Failure {
	var f *models.Failure
	if errors.As(err, &f) {
		return f
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return &models.Failure{Kind: models.KindRejected, Message: msg, Err: err}
	}

	msg := fallback
	switch {
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		msg = msgTimeout
	case errors.Is(err, context.Canceled):
		msg = msgCancelled
	case errors.Is(err, client.ErrUnavailable):
		msg = msgUnavailable
	case errors.Is(err, client.ErrUnauthorized):
		msg = msgUnauthorized
	}
	return &models.Failure{Kind: models.KindTransport, Message: msg, Err: err}
}
