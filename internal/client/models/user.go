// Package models defines client-side data models used by the GophFeed CLI.
package models

// User is the profile of an account as returned by the server.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

// Status is the lifecycle state of a Session.
type Status string

const (
	StatusInitializing    Status = "initializing"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Session is a point-in-time copy of the session state.
//
// User is non-nil iff Status is StatusAuthenticated. Loading reports that an
// operation is in progress; Error holds the last failure message shown to the
// user.
type Session struct {
	User    *User
	Token   string
	Status  Status
	Loading bool
	Error   string
}

// IsAuthenticated reports whether the session carries a validated user.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}
