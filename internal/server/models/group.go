package models

import "time"

// Group is a named, shared collection of contacts.
type Group struct {
	ID          string
	Name        string
	Description *string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GroupMember grants UserID access to GroupID's contacts.
type GroupMember struct {
	ID       string
	GroupID  string
	UserID   string
	Role     string
	JoinedAt time.Time

	// Populated by listings that join users.
	UserName  string
	UserEmail string
}
