package models

import "time"

// Contact belongs to exactly one group. Optional fields are nil when empty.
type Contact struct {
	ID          string
	GroupID     string
	Name        string
	PhoneNumber *string
	Email       *string
	Notes       *string
	AddedBy     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// AddedByName is the current name of the author, nil once the author is gone.
	AddedByName *string
}

// ContactFields are the user-editable parts of a contact.
type ContactFields struct {
	Name        string
	PhoneNumber string
	Email       string
	Notes       string
}
