// Package models holds the server-side records stored by the repositories.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string
	Name         string
	Email        string
	Bio          string
	PasswordHash []byte
	CreatedAt    time.Time
}
