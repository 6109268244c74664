package services

import "github.com/dmitrijs2005/gophfeed/internal/common"

// PublicError is a failure whose message is safe to return to API callers.
// It unwraps to one of the common service-level sentinels.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string { return e.Message }

func (e *PublicError) Unwrap() error { return e.Kind }

func newPublicError(kind error, msg string) error {
	return &PublicError{Kind: kind, Message: msg}
}

var (
	errMissingRegisterFields = newPublicError(common.ErrorValidation, "Please provide name, email and password")
	errInvalidEmail          = newPublicError(common.ErrorValidation, "Please provide a valid email address")
	errShortPassword         = newPublicError(common.ErrorValidation, "Password must be at least 6 characters")
	errShortName             = newPublicError(common.ErrorValidation, "Name must be at least 2 characters")
	errMissingLoginFields    = newPublicError(common.ErrorValidation, "Please provide email and password")
	errUserExists            = newPublicError(common.ErrorAlreadyExists, "User already exists")
	errInvalidCredentials    = newPublicError(common.ErrorUnauthorized, "Invalid credentials")
	errUserNotFound          = newPublicError(common.ErrorNotFound, "User not found")
	errMissingPostFields     = newPublicError(common.ErrorValidation, "Title and content are required")
	errPostNotFound          = newPublicError(common.ErrorNotFound, "Post not found")
	errNotPostAuthor         = newPublicError(common.ErrorForbidden, "Not authorized to delete this post")
)
