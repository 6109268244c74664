package cli

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	errNameRequired     = errors.New("Please enter your full name.")
	errNameTooShort     = errors.New("Name must be at least 2 characters long.")
	errEmailRequired    = errors.New("Please enter your email address.")
	errPasswordRequired = errors.New("Please enter a password.")
	errPasswordTooShort = errors.New("Password must be at least 6 characters long.")
	errPasswordMismatch = errors.New("Passwords do not match.")
)

const (
	minNameLength     = 2
	minPasswordLength = 6
)

type registrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// validate checks the form before anything is sent to the server. The first
// failing rule wins.
func (f registrationForm) validate() error {
	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		return errNameRequired
	case utf8.RuneCountInString(name) < minNameLength:
		return errNameTooShort
	case strings.TrimSpace(f.Email) == "":
		return errEmailRequired
	case f.Password == "":
		return errPasswordRequired
	case utf8.RuneCountInString(f.Password) < minPasswordLength:
		return errPasswordTooShort
	case f.Password != f.ConfirmPassword:
		return errPasswordMismatch
	}
	return nil
}

var (
	errLoginEmailRequired    = errors.New("Please enter your email address.")
	errLoginPasswordRequired = errors.New("Please enter your password.")
)

func validateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return errLoginEmailRequired
	}
	if password == "" {
		return errLoginPasswordRequired
	}
	return nil
}
