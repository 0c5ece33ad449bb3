// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
