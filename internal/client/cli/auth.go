package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
)

// The prompt helpers are reached through these variables so tests can swap them.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline
var confirm = Confirm

var errNotLoggedIn = errors.New("not logged in")

// Register prompts for name, email and password (twice), validates the form
// locally and creates the account. On success the new session is active.
func (a *App) Register(ctx context.Context) error {
	var form registrationForm
	var err error

	if form.Name, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if form.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if form.Password, err = getPassword("Enter password", a.out); err != nil {
		return err
	}
	if form.ConfirmPassword, err = getPassword("Confirm password", a.out); err != nil {
		return err
	}

	if err := form.validate(); err != nil {
		a.printf("%s\n", err)
		return err
	}

	res := a.session.Register(ctx, form.Name, form.Email, form.Password)
	if !res.Success {
		a.printf("Registration failed: %s\n", res.Message)
		return resultError(res)
	}

	a.printf("Welcome, %s!\n", a.session.Snapshot().User.Name)
	return a.Feed(ctx)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := validateLogin(email, password); err != nil {
		a.printf("%s\n", err)
		return err
	}

	res := a.session.Login(ctx, email, password)
	if !res.Success {
		a.printf("Login failed: %s\n", res.Message)
		return resultError(res)
	}

	a.printf("Signed in as %s\n", a.session.Snapshot().User.Name)
	return a.Feed(ctx)
}

// Logout drops the session. It cannot fail.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.printf("Logged out\n")
	return nil
}

// WhoAmI prints the signed-in user's profile.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		a.printf("Not logged in\n")
		return errNotLoggedIn
	}

	u := snap.User
	a.printf("[%s] %s <%s>\n", initials(u.Name), u.Name, u.Email)
	if u.Bio != "" {
		a.printf("%s\n", u.Bio)
	}
	return nil
}

// Profile edits name and bio. An empty answer keeps the current value.
func (a *App) Profile(ctx context.Context) error {
	snap := a.session.Snapshot()
	if !snap.IsAuthenticated() {
		a.printf("Not logged in\n")
		return errNotLoggedIn
	}

	name, err := getSimpleText(a.reader, "Name ["+snap.User.Name+"]", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		name = snap.User.Name
	}
	bio, err := getSimpleText(a.reader, "Bio ["+snap.User.Bio+"]", a.out)
	if err != nil {
		return err
	}
	if bio == "" {
		bio = snap.User.Bio
	}

	res := a.session.UpdateProfile(ctx, name, bio)
	if !res.Success {
		a.printf("Profile update failed: %s\n", res.Message)
		return resultError(res)
	}

	a.printf("Profile updated\n")
	return nil
}

// Refresh re-validates the current credential with the server.
func (a *App) Refresh(ctx context.Context) error {
	if a.session.Refresh(ctx) != models.StatusAuthenticated {
		a.printf("Session is no longer valid, please log in again\n")
		return errNotLoggedIn
	}
	a.printf("Session is valid\n")
	return nil
}

func resultError(res models.Result) error {
	return &models.Failure{Kind: res.Kind, Message: res.Message}
}
